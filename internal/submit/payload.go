package submit

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Entry is one field of the data object.
type Entry struct {
	Name  string
	Value any
}

// Payload is the data object of a submission. It marshals as a JSON object
// whose keys keep the order of the entries.
type Payload []Entry

func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", e.Name, err)
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", e.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value stored under name.
func (p Payload) Get(name string) (any, bool) {
	for _, e := range p {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Request is the wire body sent to the collection endpoint.
type Request struct {
	FormID string  `json:"form_id"`
	Data   Payload `json:"data"`
}

// Encode renders the request body.
func (r Request) Encode() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return b, nil
}
