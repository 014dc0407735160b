package model

// Kind selects how a field is edited and which Value it holds.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindTextArea
	KindSelect
	KindCheckboxes
	KindToggle
)

func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindTextArea:
		return "textarea"
	case KindSelect:
		return "select"
	case KindCheckboxes:
		return "checkboxes"
	case KindToggle:
		return "toggle"
	}
	return "text"
}

// Option is one choice of a select or checkbox group.
type Option struct {
	Value string
	Label string
}

// Field describes one input of a form.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Options     []Option
	Default     Value
	Placeholder string
	Help        string
	// EmptyWire replaces an empty checkbox selection on the wire.
	EmptyWire string
}

// ZeroValue is the value a field starts from when no Default is set.
func (f Field) ZeroValue() Value {
	switch f.Kind {
	case KindCheckboxes:
		return Set()
	case KindToggle:
		return Bool(false)
	case KindSelect:
		if len(f.Options) > 0 {
			return Text(f.Options[0].Value)
		}
	}
	return Text("")
}

// Initial returns Default when it is set and matches the field kind,
// ZeroValue otherwise.
func (f Field) Initial() Value {
	zero := f.ZeroValue()
	if f.Default.Equal(Value{}) || f.Default.kind != zero.kind {
		return zero
	}
	return f.Default
}

func (f Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

func (f Field) OptionLabel(v string) string {
	for _, o := range f.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

// Definition is a complete form: identity, copy and ordered fields.
type Definition struct {
	ID              string
	Title           string
	Description     string
	SubmitLabel     string
	SubmittingLabel string
	SuccessMessage  string
	Fields          []Field
}

func (d Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Required lists the required fields in form order.
func (d Definition) Required() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}
