// Package form holds the state, validation and submission flow of one form
// instance. State values are immutable: every change yields a new State, so
// a snapshot taken at submit time cannot be disturbed by later edits.
package form

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/pineforms/internal/model"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownOption = errors.New("unknown option")
	ErrKindMismatch  = errors.New("value does not fit field")
)

// State maps field names to their current values.
type State struct {
	values map[string]model.Value
}

// NewState returns the defaults of def.
func NewState(def model.Definition) State {
	values := make(map[string]model.Value, len(def.Fields))
	for _, f := range def.Fields {
		values[f.Name] = f.Initial()
	}
	return State{values: values}
}

func (s State) Get(name string) model.Value {
	return s.values[name]
}

func (s State) with(name string, v model.Value) State {
	values := make(map[string]model.Value, len(s.values)+1)
	for k, old := range s.values {
		values[k] = old
	}
	values[name] = v
	return State{values: values}
}

// Equal compares two states field by field.
func (s State) Equal(o State) bool {
	if len(s.values) != len(o.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Change is one user edit. For checkbox fields Option and Checked pick or
// drop an option; for every other field Value replaces the content.
type Change struct {
	Field   string
	Value   model.Value
	Option  string
	Checked bool
}

func SetText(field, text string) Change   { return Change{Field: field, Value: model.Text(text)} }
func SetBool(field string, b bool) Change { return Change{Field: field, Value: model.Bool(b)} }

func Check(field, option string, checked bool) Change {
	return Change{Field: field, Option: option, Checked: checked}
}

// Apply returns s with c applied. s itself is left untouched.
func Apply(def model.Definition, s State, c Change) (State, error) {
	f, ok := def.Field(c.Field)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownField, c.Field)
	}

	switch f.Kind {
	case model.KindCheckboxes:
		if c.Option == "" && c.Value.IsSet() {
			for _, o := range c.Value.Selected() {
				if !f.HasOption(o) {
					return s, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Name, o)
				}
			}
			return s.with(f.Name, c.Value), nil
		}
		if !f.HasOption(c.Option) {
			return s, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Name, c.Option)
		}
		cur := s.Get(f.Name)
		if c.Checked {
			return s.with(f.Name, cur.With(c.Option)), nil
		}
		return s.with(f.Name, cur.Without(c.Option)), nil

	case model.KindToggle:
		if !c.Value.IsBool() {
			return s, fmt.Errorf("%w: %s wants a flag", ErrKindMismatch, f.Name)
		}
		return s.with(f.Name, c.Value), nil

	case model.KindSelect:
		if !c.Value.IsText() {
			return s, fmt.Errorf("%w: %s wants text", ErrKindMismatch, f.Name)
		}
		if !f.HasOption(c.Value.String()) {
			return s, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Name, c.Value.String())
		}
		return s.with(f.Name, c.Value), nil
	}

	if !c.Value.IsText() {
		return s, fmt.Errorf("%w: %s wants text", ErrKindMismatch, f.Name)
	}
	return s.with(f.Name, c.Value), nil
}
