// Package tui is the interactive terminal rendition of a form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/pineforms/internal/form"
	"github.com/idilsaglam/pineforms/internal/model"
	"github.com/idilsaglam/pineforms/internal/submit"
	"github.com/idilsaglam/pineforms/internal/ui"
)

// submittedMsg carries the outcome of the network call back into Update.
type submittedMsg struct{ err error }

// widget is the editor of one field. Only the part matching the field kind
// is used.
type widget struct {
	field  model.Field
	text   textinput.Model
	area   textarea.Model
	cursor int // option under the cursor for select/checkboxes
}

// Model is the Bubble Tea model of one form. Field values live in the
// session; the widgets mirror them for editing.
type Model struct {
	ctx      context.Context
	session  *form.Session
	client   form.Submitter
	log      *zap.Logger
	onResult func(form.Status, error)

	widgets []widget
	focus   int // len(widgets) is the submit button
	errs    map[string]string

	spinner spinner.Model
	keys    keyMap
	help    help.Model
	styles  ui.Styles
	width   int
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithResultHook is called after every finished submission.
func WithResultHook(fn func(form.Status, error)) Option {
	return func(m *Model) { m.onResult = fn }
}

func New(session *form.Session, client form.Submitter, opts ...Option) Model {
	m := Model{
		ctx:     context.Background(),
		session: session,
		client:  client,
		log:     zap.NewNop(),
		errs:    map[string]string{},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:    defaultKeys(),
		help:    help.New(),
		styles:  ui.NewStyles(),
		width:   80,
	}
	for _, o := range opts {
		o(&m)
	}

	state := session.State()
	for _, f := range session.Definition().Fields {
		w := widget{field: f}
		switch f.Kind {
		case model.KindText, model.KindEmail:
			w.text = textinput.New()
			w.text.Prompt = "> "
			w.text.Placeholder = f.Placeholder
			w.text.CharLimit = 320
			w.text.SetValue(state.Get(f.Name).String())
		case model.KindTextArea:
			w.area = textarea.New()
			w.area.Placeholder = f.Placeholder
			w.area.ShowLineNumbers = false
			w.area.SetHeight(6)
			w.area.SetValue(state.Get(f.Name).String())
		case model.KindSelect:
			for i, o := range f.Options {
				if o.Value == state.Get(f.Name).String() {
					w.cursor = i
				}
			}
		}
		m.widgets = append(m.widgets, w)
	}
	m.setFocus(0)
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Session exposes the underlying form session.
func (m Model) Session() *form.Session { return m.session }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.widgets {
			if m.widgets[i].field.Kind == model.KindTextArea {
				m.widgets[i].area.SetWidth(max(20, msg.Width-8))
			}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submittedMsg:
		status := m.session.Finish(msg.err)
		if status.Kind == form.StatusSuccess {
			m.syncWidgets()
			m.setFocus(0)
		}
		m.log.Debug("submission finished",
			zap.String("form_id", m.session.Definition().ID),
			zap.Stringer("status", status.Kind))
		if m.onResult != nil {
			m.onResult(status, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case msg.String() == "tab":
			m.setFocus(m.focus + 1)
			return m, nil
		case msg.String() == "shift+tab":
			m.setFocus(m.focus - 1)
			return m, nil
		}
		if m.focus == len(m.widgets) {
			return m.updateButton(msg)
		}
		return m.updateField(msg)
	}

	return m.forward(msg)
}

func (m Model) updateButton(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "enter", key.Matches(msg, m.keys.Toggle):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		m.setFocus(0)
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
	}
	return m, nil
}

func (m Model) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := &m.widgets[m.focus]
	f := w.field

	switch f.Kind {
	case model.KindCheckboxes:
		switch {
		case key.Matches(msg, m.keys.Toggle), msg.String() == "enter":
			opt := f.Options[w.cursor].Value
			checked := !m.session.State().Get(f.Name).Has(opt)
			m.apply(form.Check(f.Name, opt, checked))
		case msg.String() == "down", msg.String() == "right":
			if w.cursor < len(f.Options)-1 {
				w.cursor++
			} else if msg.String() == "down" {
				m.setFocus(m.focus + 1)
			}
		case msg.String() == "up", msg.String() == "left":
			if w.cursor > 0 {
				w.cursor--
			} else if msg.String() == "up" {
				m.setFocus(m.focus - 1)
			}
		}
		return m, nil

	case model.KindSelect:
		switch {
		case msg.String() == "right", key.Matches(msg, m.keys.Toggle):
			w.cursor = (w.cursor + 1) % len(f.Options)
			m.apply(form.SetText(f.Name, f.Options[w.cursor].Value))
		case msg.String() == "left":
			w.cursor = (w.cursor + len(f.Options) - 1) % len(f.Options)
			m.apply(form.SetText(f.Name, f.Options[w.cursor].Value))
		case key.Matches(msg, m.keys.Next), msg.String() == "enter":
			m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			m.setFocus(m.focus - 1)
		}
		return m, nil

	case model.KindToggle:
		switch {
		case key.Matches(msg, m.keys.Toggle), msg.String() == "enter":
			m.apply(form.SetBool(f.Name, !m.session.State().Get(f.Name).Bool()))
		case key.Matches(msg, m.keys.Next):
			m.setFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			m.setFocus(m.focus - 1)
		}
		return m, nil

	case model.KindTextArea:
		var cmd tea.Cmd
		w.area, cmd = w.area.Update(msg)
		m.apply(form.SetText(f.Name, w.area.Value()))
		return m, cmd
	}

	// single line text
	switch {
	case msg.String() == "enter", msg.String() == "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case msg.String() == "up":
		m.setFocus(m.focus - 1)
		return m, nil
	}
	var cmd tea.Cmd
	w.text, cmd = w.text.Update(msg)
	m.apply(form.SetText(f.Name, w.text.Value()))
	return m, cmd
}

// forward hands non-key messages (cursor blink and the like) to the
// focused editor.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.widgets) {
		return m, nil
	}
	w := &m.widgets[m.focus]
	var cmd tea.Cmd
	switch w.field.Kind {
	case model.KindText, model.KindEmail:
		w.text, cmd = w.text.Update(msg)
	case model.KindTextArea:
		w.area, cmd = w.area.Update(msg)
	}
	return m, cmd
}

func (m *Model) apply(c form.Change) {
	if err := m.session.Update(c); err != nil {
		m.log.Warn("rejected edit", zap.String("field", c.Field), zap.Error(err))
		return
	}
	delete(m.errs, c.Field)
}

// submit starts a submission unless one is in flight or the form is
// invalid. The network call runs as a tea.Cmd.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.session.Begin()
	switch {
	case errors.Is(err, form.ErrInFlight):
		return m, nil
	case err != nil:
		m.errs = form.FieldErrors(err)
		for i, w := range m.widgets {
			if _, bad := m.errs[w.field.Name]; bad {
				m.setFocus(i)
				break
			}
		}
		return m, nil
	}
	m.errs = map[string]string{}
	m.log.Debug("submitting", zap.String("form_id", req.FormID))
	return m, tea.Batch(m.spinner.Tick, send(m.ctx, m.client, req))
}

func send(ctx context.Context, client form.Submitter, req submit.Request) tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{err: client.Submit(ctx, req.FormID, req.Data)}
	}
}

func (m *Model) setFocus(i int) {
	n := len(m.widgets) + 1
	i = ((i % n) + n) % n
	for j := range m.widgets {
		switch m.widgets[j].field.Kind {
		case model.KindText, model.KindEmail:
			m.widgets[j].text.Blur()
		case model.KindTextArea:
			m.widgets[j].area.Blur()
		}
	}
	m.focus = i
	if i == len(m.widgets) {
		return
	}
	switch m.widgets[i].field.Kind {
	case model.KindText, model.KindEmail:
		m.widgets[i].text.Focus()
	case model.KindTextArea:
		m.widgets[i].area.Focus()
	}
}

// syncWidgets copies the session state back into the editors, e.g. after
// the fields were reset by a successful submission.
func (m *Model) syncWidgets() {
	state := m.session.State()
	for i := range m.widgets {
		w := &m.widgets[i]
		v := state.Get(w.field.Name)
		switch w.field.Kind {
		case model.KindText, model.KindEmail:
			w.text.SetValue(v.String())
		case model.KindTextArea:
			w.area.SetValue(v.String())
		case model.KindSelect:
			w.cursor = 0
			for j, o := range w.field.Options {
				if o.Value == v.String() {
					w.cursor = j
				}
			}
		default:
			w.cursor = 0
		}
	}
}

func (m Model) View() string {
	def := m.session.Definition()
	state := m.session.State()
	status := m.session.Status()
	st := m.styles
	t := ui.Current()

	var b strings.Builder
	b.WriteString(st.Title.Render(def.Title) + "\n")
	if def.Description != "" {
		b.WriteString(st.Muted.Render(def.Description) + "\n")
	}
	switch status.Kind {
	case form.StatusSuccess:
		b.WriteString(st.Banner.Inherit(st.Success).Render(t.SymOK+" "+status.Message) + "\n")
	case form.StatusError:
		b.WriteString(st.Banner.Inherit(st.Error).Render(t.SymFail+" "+status.Message) + "\n")
	}
	b.WriteString("\n")

	for i, w := range m.widgets {
		f := w.field
		label := f.Label
		if f.Required {
			label += " " + t.SymRequired
		}
		if i == m.focus {
			b.WriteString(st.Focused.Render(label))
		} else {
			b.WriteString(st.Label.Render(label))
		}
		b.WriteString("\n")

		v := state.Get(f.Name)
		switch f.Kind {
		case model.KindText, model.KindEmail:
			b.WriteString(w.text.View() + "\n")
		case model.KindTextArea:
			b.WriteString(w.area.View() + "\n")
		case model.KindSelect:
			line := fmt.Sprintf("◂ %s ▸", f.OptionLabel(v.String()))
			if i == m.focus {
				line = st.Focused.Render(line)
			}
			b.WriteString("  " + line + "\n")
		case model.KindCheckboxes:
			for j, o := range f.Options {
				box := t.BoxUnchecked
				if v.Has(o.Value) {
					box = st.Success.Render(t.BoxChecked)
				}
				prefix := "  "
				if i == m.focus && j == w.cursor {
					prefix = st.Focused.Render("> ")
				}
				b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, box, o.Label))
			}
		case model.KindToggle:
			box := t.BoxUnchecked
			if v.Bool() {
				box = st.Success.Render(t.BoxChecked)
			}
			b.WriteString("  " + box + "\n")
		}
		if msg, bad := m.errs[f.Name]; bad {
			b.WriteString(st.Error.Render("  "+f.Label+" "+msg) + "\n")
		} else if f.Help != "" && i == m.focus {
			b.WriteString(st.Muted.Render("  "+f.Help) + "\n")
		}
		b.WriteString("\n")
	}

	label := def.SubmitLabel
	if m.session.InFlight() {
		label = m.spinner.View() + " " + def.SubmittingLabel
	}
	if m.focus == len(m.widgets) {
		b.WriteString(st.ButtonOn.Render(label))
	} else {
		b.WriteString(st.Button.Render(label))
	}
	b.WriteString("\n\n")

	required := def.Required()
	filled := 0
	for _, f := range required {
		if !state.Get(f.Name).IsEmpty() {
			filled++
		}
	}
	if len(required) > 0 {
		b.WriteString(st.Muted.Render("required "+ui.ProgressBar(filled, len(required), 20)) + "\n")
	}
	b.WriteString(st.Help.Render(m.help.View(m.keys)))

	return st.Frame.Render(b.String())
}

// Run shows the form until the user quits and returns the last status.
func Run(ctx context.Context, session *form.Session, client form.Submitter, opts ...Option) (form.Status, error) {
	opts = append(opts, WithContext(ctx))
	p := tea.NewProgram(New(session, client, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return session.Status(), err
	}
	return session.Status(), nil
}
