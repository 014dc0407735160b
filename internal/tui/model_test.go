package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/pineforms/internal/form"
	"github.com/idilsaglam/pineforms/internal/model"
	"github.com/idilsaglam/pineforms/internal/submit"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []submit.Request
	err   error
}

func (f *fakeSubmitter) Submit(ctx context.Context, formID string, data submit.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, submit.Request{FormID: formID, Data: data})
	return f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// submitted runs cmd (and any batch inside it) and returns the
// submission outcome message.
func submitted(t *testing.T, cmd tea.Cmd) submittedMsg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case submittedMsg:
			return msg
		}
	}
	t.Fatal("no submission in command")
	return submittedMsg{}
}

func fillFeedback(t *testing.T, m Model) Model {
	t.Helper()
	// feedback textarea has focus; tab twice to reach the platform boxes
	m, _ = press(t, m,
		runes("great app"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeySpace},
	)
	return m
}

func TestTypingAndTogglingUpdateSession(t *testing.T) {
	session := form.NewSession(model.Feedback)
	m := fillFeedback(t, New(session, &fakeSubmitter{}))

	state := session.State()
	assert.Equal(t, "great app", state.Get("feedback").String())
	assert.Equal(t, []string{"ios"}, state.Get("platform").Selected())

	// toggling again drops the option
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, session.State().Get("platform").Has("ios"))
	assert.Contains(t, m.View(), "iOS")
}

func TestSubmitWithRequiredEmptyMakesNoCall(t *testing.T) {
	sub := &fakeSubmitter{}
	m := New(form.NewSession(model.Feedback), sub)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, sub.count())
	assert.Equal(t, 0, m.focus, "focus jumps to the first invalid field")
	assert.Contains(t, m.View(), "is required")
}

func TestSubmitSuccessResetsWidgets(t *testing.T) {
	sub := &fakeSubmitter{}
	session := form.NewSession(model.Feedback)
	m := fillFeedback(t, New(session, sub))

	var results []form.Status
	m.onResult = func(st form.Status, err error) { results = append(results, st) }

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, session.InFlight())
	assert.Contains(t, m.View(), model.Feedback.SubmittingLabel)

	m, _ = press(t, m, submitted(t, cmd))
	require.Equal(t, 1, sub.count())
	v, _ := sub.calls[0].Data.Get("platform")
	assert.Equal(t, "ios", v)

	assert.Equal(t, form.StatusSuccess, session.Status().Kind)
	assert.True(t, session.State().Equal(form.NewState(model.Feedback)))
	assert.Equal(t, "", m.widgets[0].area.Value())
	assert.Contains(t, m.View(), "Thank you for your feedback")
	require.Len(t, results, 1)
	assert.Equal(t, form.StatusSuccess, results[0].Kind)
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	sub := &fakeSubmitter{err: &submit.Error{Status: 400, Message: "Email is invalid"}}
	session := form.NewSession(model.Feedback)
	m := fillFeedback(t, New(session, sub))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = press(t, m, submitted(t, cmd))

	assert.Equal(t, form.Status{Kind: form.StatusError, Message: "Email is invalid"}, session.Status())
	assert.Equal(t, "great app", m.widgets[0].area.Value())
	assert.Equal(t, "great app", session.State().Get("feedback").String())
	assert.Contains(t, m.View(), "Email is invalid")
}

func TestSecondSubmitWhileInFlightIsIgnored(t *testing.T) {
	sub := &fakeSubmitter{}
	m := fillFeedback(t, New(form.NewSession(model.Feedback), sub))

	m, first := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, second := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, second)

	_, _ = press(t, m, submitted(t, first))
	assert.Equal(t, 1, sub.count())
}

func TestSelectCycles(t *testing.T) {
	session := form.NewSession(model.Feedback)
	m := New(session, &fakeSubmitter{})

	// 0 feedback -> wraps to the button, then page, then category
	m, _ = press(t, m,
		tea.KeyMsg{Type: tea.KeyShiftTab},
		tea.KeyMsg{Type: tea.KeyShiftTab},
		tea.KeyMsg{Type: tea.KeyShiftTab},
	)
	require.Equal(t, "category", m.widgets[m.focus].field.Name)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "bug-report", session.State().Get("category").String())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "improvement", session.State().Get("category").String())
	assert.Contains(t, m.View(), "Improvement Suggestion")
}

func TestEnterOnButtonSubmits(t *testing.T) {
	sub := &fakeSubmitter{}
	session := form.NewSession(model.InternalTesting)
	m := New(session, sub)

	m, _ = press(t, m,
		runes("Ada"),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("ada@example.com"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	require.Equal(t, len(m.widgets), m.focus)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_, _ = press(t, m, submitted(t, cmd))

	require.Equal(t, 1, sub.count())
	assert.Equal(t, model.InternalTestingFormID, sub.calls[0].FormID)
	name, _ := sub.calls[0].Data.Get("name")
	assert.Equal(t, "Ada", name)
}

func TestInvalidEmailShownInline(t *testing.T) {
	m := New(form.NewSession(model.InternalTesting), &fakeSubmitter{})
	m, _ = press(t, m,
		runes("Ada"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("ada-at-example"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	assert.Equal(t, 1, m.focus)
	assert.True(t, strings.Contains(m.View(), "is not a valid email address"))
}

func TestQuit(t *testing.T) {
	m := New(form.NewSession(model.Feedback), &fakeSubmitter{})
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
