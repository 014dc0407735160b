package form

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/idilsaglam/pineforms/internal/model"
)

// FieldError is a constraint violated by one field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Validate checks s against the constraints of def. It returns nil or a
// *multierror.Error holding one *FieldError per offending field.
func Validate(def model.Definition, s State) error {
	var result *multierror.Error
	for _, f := range def.Fields {
		v := s.Get(f.Name)
		if f.Kind == model.KindEmail {
			// email inputs drop surrounding whitespace before checking
			v = model.Text(strings.TrimSpace(v.String()))
		}
		if f.Required && v.IsEmpty() {
			result = multierror.Append(result, &FieldError{Field: f.Name, Label: f.Label, Message: "is required"})
			continue
		}
		if f.Kind == model.KindEmail && !v.IsEmpty() && !validEmail(v.String()) {
			result = multierror.Append(result, &FieldError{Field: f.Name, Label: f.Label, Message: "is not a valid email address"})
		}
	}
	return result.ErrorOrNil()
}

// FieldErrors flattens a Validate result to field name -> message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			var fe *FieldError
			if errors.As(e, &fe) {
				out[fe.Field] = fe.Message
			}
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out[fe.Field] = fe.Message
	}
	return out
}

// validEmail accepts a bare local@domain address, no display name.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1
}
