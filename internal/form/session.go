package form

import (
	"context"
	"errors"

	"github.com/sasha-s/go-deadlock"

	"github.com/idilsaglam/pineforms/internal/model"
	"github.com/idilsaglam/pineforms/internal/submit"
)

// ErrInFlight is returned by Begin while an earlier submission is pending.
var ErrInFlight = errors.New("submission already in flight")

// Submitter delivers one snapshot. *submit.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, formID string, data submit.Payload) error
}

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "none"
}

// Status is the outcome of the last submission attempt.
type Status struct {
	Kind    StatusKind
	Message string
}

// Snapshot renders s as the request body for def. Checkbox selections are
// joined with ", "; an empty one is sent as the field's EmptyWire.
func Snapshot(def model.Definition, s State) submit.Request {
	data := make(submit.Payload, 0, len(def.Fields))
	for _, f := range def.Fields {
		v := s.Get(f.Name)
		var wire any
		switch f.Kind {
		case model.KindCheckboxes:
			if v.IsEmpty() {
				wire = f.EmptyWire
			} else {
				wire = v.String()
			}
		case model.KindToggle:
			wire = v.Bool()
		default:
			wire = v.String()
		}
		data = append(data, submit.Entry{Name: f.Name, Value: wire})
	}
	return submit.Request{FormID: def.ID, Data: data}
}

// Session is one live form: its state, last status and in-flight guard.
// It is safe for use from the UI goroutine and the goroutine running the
// network call.
type Session struct {
	def model.Definition

	mu       deadlock.Mutex
	state    State
	status   Status
	inFlight bool
}

func NewSession(def model.Definition) *Session {
	return &Session{def: def, state: NewState(def)}
}

func (s *Session) Definition() model.Definition { return s.def }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Update applies one edit. A rejected edit leaves the state unchanged.
func (s *Session) Update(c Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Apply(s.def, s.state, c)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Begin validates the current state and, when it passes, marks the session
// in flight and returns the request to send. Every successful Begin must be
// paired with one Finish.
func (s *Session) Begin() (submit.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return submit.Request{}, ErrInFlight
	}
	if err := Validate(s.def, s.state); err != nil {
		return submit.Request{}, err
	}
	s.inFlight = true
	s.status = Status{}
	return Snapshot(s.def, s.state), nil
}

// Finish records the outcome of the request handed out by Begin. On success
// the fields go back to their defaults; on failure they are kept for a
// manual resubmit.
func (s *Session) Finish(err error) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.status = Status{Kind: StatusError, Message: submit.MessageOf(err)}
		return s.status
	}
	s.status = Status{Kind: StatusSuccess, Message: s.def.SuccessMessage}
	s.state = NewState(s.def)
	return s.status
}

// Submit runs Begin, one call to sub and Finish. Validation failures and
// ErrInFlight are returned without calling sub.
func (s *Session) Submit(ctx context.Context, sub Submitter) (Status, error) {
	req, err := s.Begin()
	if err != nil {
		return s.Status(), err
	}
	err = sub.Submit(ctx, req.FormID, req.Data)
	return s.Finish(err), err
}
