package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSetKeepsPickOrderWithoutDuplicates(t *testing.T) {
	v := Set("web", "ios", "web")
	if diff := cmp.Diff([]string{"web", "ios"}, v.Selected()); diff != "" {
		t.Fatalf("Selected() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "web, ios", v.String())
}

func TestWithWithoutDoNotMutate(t *testing.T) {
	base := Set("ios")
	added := base.With("android")
	removed := added.Without("ios")

	assert.Equal(t, []string{"ios"}, base.Selected())
	assert.Equal(t, []string{"ios", "android"}, added.Selected())
	assert.Equal(t, []string{"android"}, removed.Selected())
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"empty text", Text(""), true},
		{"whitespace text", Text("   "), false},
		{"text", Text("x"), false},
		{"false flag", Bool(false), true},
		{"true flag", Bool(true), false},
		{"empty set", Set(), true},
		{"set", Set("web"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.IsEmpty())
		})
	}
}

func TestFieldInitial(t *testing.T) {
	sel := Field{Kind: KindSelect, Options: []Option{{Value: "a"}, {Value: "b"}}}
	assert.Equal(t, "a", sel.Initial().String())

	sel.Default = Text("b")
	assert.Equal(t, "b", sel.Initial().String())

	box := Field{Kind: KindCheckboxes, Default: Text("oops")}
	assert.True(t, box.Initial().IsSet())
	assert.True(t, box.Initial().IsEmpty())

	toggle := Field{Kind: KindToggle, Default: Bool(true)}
	assert.True(t, toggle.Initial().Bool())
}

func TestCatalog(t *testing.T) {
	forms := Forms()
	if assert.Len(t, forms, 2) {
		assert.Equal(t, FeedbackFormID, forms[0].ID)
		assert.Equal(t, InternalTestingFormID, forms[1].ID)
	}

	def, ok := Lookup(FeedbackFormID)
	assert.True(t, ok)
	assert.Equal(t, "We value your input. Please share your thoughts, report bugs, or suggest new features.", def.Description)
	cat, _ := def.Field("category")
	assert.Equal(t, "general", cat.Initial().String())
	platform, _ := def.Field("platform")
	assert.Equal(t, "Not specified", platform.EmptyWire)
	assert.Len(t, platform.Options, 7)

	_, ok = Lookup("contact")
	assert.False(t, ok)

	required := InternalTesting.Required()
	assert.Len(t, required, 2)
}
