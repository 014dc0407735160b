package submit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	return Payload{
		{Name: "feedback", Value: "great app"},
		{Name: "email", Value: ""},
		{Name: "platform", Value: "ios"},
		{Name: "category", Value: "general"},
		{Name: "page", Value: ""},
	}
}

func TestPayloadKeepsOrder(t *testing.T) {
	b, err := Request{FormID: "feedback-form", Data: samplePayload()}.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"form_id":"feedback-form","data":{"feedback":"great app","email":"","platform":"ios","category":"general","page":""}}`,
		string(b))
}

func TestPayloadEncodesNonStrings(t *testing.T) {
	b, err := Payload{{Name: "beta", Value: true}, {Name: "q", Value: `say "hi"`}}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"beta":true,"q":"say \"hi\""}`, string(b))
}

func TestSubmitSuccess(t *testing.T) {
	var gotBody []byte
	var gotType, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not even json"))
	}))
	defer ts.Close()

	c := New(ts.URL)
	err := c.Submit(context.Background(), "feedback-form", samplePayload())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t,
		`{"form_id":"feedback-form","data":{"feedback":"great app","email":"","platform":"ios","category":"general","page":""}}`,
		string(gotBody))
}

func TestSubmitErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message body", http.StatusBadRequest, `{"message":"Email is invalid"}`, "Email is invalid"},
		{"empty message", http.StatusInternalServerError, `{"message":""}`, GenericMessage},
		{"unparseable body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericMessage},
		{"empty body", http.StatusServiceUnavailable, ``, GenericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			err := New(ts.URL).Submit(context.Background(), "feedback-form", samplePayload())
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.wantMsg, MessageOf(err))
		})
	}
}

func TestSubmitNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	err := New(url).Submit(context.Background(), "feedback-form", samplePayload())
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Status)
	assert.Equal(t, NetworkMessage, se.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	err := New(ts.URL, WithTimeout(50*time.Millisecond)).Submit(context.Background(), "feedback-form", samplePayload())
	assert.Equal(t, NetworkMessage, MessageOf(err))
}

func TestSubmitSendsExactlyOnce(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_ = New(ts.URL).Submit(context.Background(), "feedback-form", samplePayload())
	assert.Equal(t, int32(1), hits.Load())
}

func TestNewDefaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)

	custom := &http.Client{Timeout: time.Second}
	c = New("http://x", WithHTTPClient(custom))
	assert.NotSame(t, custom, c.http)
	assert.Equal(t, time.Second, c.http.Timeout)
}

func TestTimeoutLeavesSharedClientAlone(t *testing.T) {
	tests := []struct {
		name string
		opts func(*http.Client) []Option
	}{
		{"timeout last", func(h *http.Client) []Option {
			return []Option{WithHTTPClient(h), WithTimeout(time.Second)}
		}},
		{"timeout first", func(h *http.Client) []Option {
			return []Option{WithTimeout(time.Second), WithHTTPClient(h)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := &http.Client{Timeout: time.Minute}
			c := New("http://x", tt.opts(shared)...)
			assert.Equal(t, time.Second, c.http.Timeout)
			assert.Equal(t, time.Minute, shared.Timeout)
		})
	}
}
