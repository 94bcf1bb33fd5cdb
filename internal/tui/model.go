// Package tui renders the contact screens in the terminal with Bubble Tea.
// Navigation decisions stay in internal/screen; this package only mirrors
// the top of the screen stack and forwards key presses to it.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/smileynet/contactbus/internal/locale"
	"github.com/smileynet/contactbus/internal/screen"
)

// formFields maps input positions to create-screen fields.
var formFields = [...]screen.Field{screen.FieldName, screen.FieldSurname, screen.FieldTelNum}

// form holds the text inputs of the create screen. It is rebuilt whenever a
// different create controller reaches the top of the stack.
type form struct {
	owner  *screen.CreateController
	inputs []textinput.Model
	focus  int
}

func newForm(c *screen.CreateController, s locale.Strings) form {
	f := c.Fields()
	values := [...]string{f.Name, f.Surname, f.TelNum}
	placeholders := [...]string{s.NamePlaceholder, s.SurnamePlaceholder, s.TelNumPlaceholder}

	inputs := make([]textinput.Model, len(values))
	for i := range values {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholders[i]
		in.SetValue(values[i])
		inputs[i] = in
	}
	inputs[0].Focus()
	return form{owner: c, inputs: inputs}
}

// Model is the root Bubble Tea model. It wraps a screen.Root and renders
// whichever controller is on top.
type Model struct {
	root      *screen.Root
	strings   locale.Strings
	log       *zap.SugaredLogger
	createKM  createKeys
	summaryKM summaryKeys
	help      help.Model
	form      form
	width     int
	height    int
	err       error // Last screen error, shown until the next successful action.
	closeErr  error
	quitting  bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for screen errors.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// NewModel creates a Model over root. A root that shows no screen yet is
// started, which installs the create screen.
func NewModel(root *screen.Root, s locale.Strings, opts ...Option) Model {
	m := Model{
		root:      root,
		strings:   s,
		log:       zap.NewNop().Sugar(),
		createKM:  CreateKeyMap(s.ViewSummary),
		summaryKM: SummaryKeyMap(),
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if root.Top() == nil {
		if err := root.Start(); err != nil {
			m.setErr(err)
		}
	}
	m.sync()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the error from closing the screens on quit, if any.
func (m Model) Err() error {
	return m.closeErr
}

// Update handles incoming messages, routing keys to the visible screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.createKM.Recreate) {
			return m.recreate()
		}
		switch top := m.root.Top().(type) {
		case *screen.CreateController:
			return m.updateCreate(top, msg)
		case *screen.SummaryController:
			return m.updateSummary(msg)
		}
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		return m, nil
	}

	// Cursor blink and other input-level messages.
	if _, ok := m.root.Top().(*screen.CreateController); ok && len(m.form.inputs) > 0 {
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateCreate(c *screen.CreateController, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.createKM.Quit):
		return m.quit()
	case key.Matches(msg, m.createKM.Next):
		return m.moveFocus(1)
	case key.Matches(msg, m.createKM.Prev):
		return m.moveFocus(-1)
	case key.Matches(msg, m.createKM.Submit):
		for i, in := range m.form.inputs {
			c.SetField(formFields[i], in.Value())
		}
		if _, err := c.ViewSummary(); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.err = nil
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	c.SetField(formFields[m.form.focus], m.form.inputs[m.form.focus].Value())
	return m, cmd
}

func (m Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.summaryKM.Quit):
		return m.quit()
	case key.Matches(msg, m.summaryKM.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.summaryKM.Back):
		if _, err := m.root.Back(); err != nil {
			m.setErr(err)
		}
		m.sync()
	}
	return m, nil
}

func (m Model) moveFocus(dir int) (tea.Model, tea.Cmd) {
	n := len(m.form.inputs)
	if n == 0 {
		return m, nil
	}
	m.form.inputs[m.form.focus].Blur()
	m.form.focus = (m.form.focus + dir + n) % n
	return m, m.form.inputs[m.form.focus].Focus()
}

// recreate destroys and rebuilds every screen, like a device rotation.
func (m Model) recreate() (tea.Model, tea.Cmd) {
	if err := m.root.Recreate(); err != nil {
		m.setErr(err)
	} else {
		m.err = nil
	}
	m.sync()
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.root.Close(); err != nil {
		m.closeErr = err
		m.log.Errorw("Closing screens failed", zap.Error(err))
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) setErr(err error) {
	m.err = err
	m.log.Warnw("Screen error", zap.Error(err))
}

// sync rebuilds the form when a new create controller is on top.
func (m *Model) sync() {
	c, ok := m.root.Top().(*screen.CreateController)
	if !ok || c == m.form.owner {
		return
	}
	m.form = newForm(c, m.strings)
}

// View renders the visible screen with its help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	var keys help.KeyMap = m.createKM
	switch top := m.root.Top().(type) {
	case *screen.CreateController:
		m.viewCreate(&b)
	case *screen.SummaryController:
		m.viewSummary(&b, top)
		keys = m.summaryKM
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %s", m.err)) + "\n")
	}
	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

func (m Model) viewCreate(b *strings.Builder) {
	b.WriteString(titleStyle.Render(m.strings.Title))
	b.WriteString("\n")

	labels := [...]string{m.strings.ContactName, m.strings.ContactSurname, m.strings.ContactTelNum}
	for i, in := range m.form.inputs {
		style := labelStyle
		if i == m.form.focus {
			style = focusedLabelStyle
		}
		fmt.Fprintf(b, "%s\n%s\n\n", style.Render(labels[i]), in.View())
	}
	fmt.Fprintf(b, "[enter] %s\n", m.strings.ViewSummary)
}

func (m Model) viewSummary(b *strings.Builder, s *screen.SummaryController) {
	b.WriteString(titleStyle.Render(s.Title()))
	b.WriteString("\n")

	if lines := s.Lines(); lines != nil {
		b.WriteString(cardStyle.Render(strings.Join(lines, "\n")))
	} else {
		b.WriteString(emptyStyle.Render(s.Render()))
	}
	b.WriteString("\n")
}
