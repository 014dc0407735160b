package model

import "strings"

type valueKind uint8

const (
	textValue valueKind = iota
	boolValue
	setValue
)

// Value is the current content of one field: text, a flag, or the
// options picked in a multi-select. Values are immutable; the set helpers
// return copies.
type Value struct {
	kind valueKind
	text string
	flag bool
	set  []string
}

func Text(s string) Value { return Value{kind: textValue, text: s} }
func Bool(b bool) Value   { return Value{kind: boolValue, flag: b} }

// Set builds a selection, dropping duplicates but keeping pick order.
func Set(options ...string) Value {
	v := Value{kind: setValue}
	for _, o := range options {
		v = v.With(o)
	}
	return v
}

func (v Value) IsText() bool { return v.kind == textValue }
func (v Value) IsBool() bool { return v.kind == boolValue }
func (v Value) IsSet() bool  { return v.kind == setValue }

func (v Value) String() string {
	switch v.kind {
	case boolValue:
		if v.flag {
			return "true"
		}
		return "false"
	case setValue:
		return strings.Join(v.set, ", ")
	}
	return v.text
}

func (v Value) Bool() bool { return v.flag }

// Selected returns a copy of the picked options in pick order.
func (v Value) Selected() []string {
	out := make([]string, len(v.set))
	copy(out, v.set)
	return out
}

func (v Value) Has(option string) bool {
	for _, o := range v.set {
		if o == option {
			return true
		}
	}
	return false
}

// With returns the selection with option appended if it was not picked yet.
func (v Value) With(option string) Value {
	if v.Has(option) {
		return v
	}
	out := Value{kind: setValue, set: make([]string, 0, len(v.set)+1)}
	out.set = append(out.set, v.set...)
	out.set = append(out.set, option)
	return out
}

// Without returns the selection minus option.
func (v Value) Without(option string) Value {
	out := Value{kind: setValue, set: make([]string, 0, len(v.set))}
	for _, o := range v.set {
		if o != option {
			out.set = append(out.set, o)
		}
	}
	return out
}

// IsEmpty reports zero-length text, an unset flag or an empty selection.
// Whitespace counts as content.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case boolValue:
		return !v.flag
	case setValue:
		return len(v.set) == 0
	}
	return v.text == ""
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.text != o.text || v.flag != o.flag || len(v.set) != len(o.set) {
		return false
	}
	for i := range v.set {
		if v.set[i] != o.set[i] {
			return false
		}
	}
	return true
}
