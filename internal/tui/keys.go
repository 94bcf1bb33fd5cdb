package tui

import "github.com/charmbracelet/bubbles/key"

// createKeys holds key bindings for the create screen.
type createKeys struct {
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Recreate key.Binding
	Quit     key.Binding
}

// ShortHelp returns the create screen bindings for the help bar.
func (k createKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Recreate, k.Quit}
}

// FullHelp returns the create screen bindings grouped for expanded help.
func (k createKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit},
		{k.Recreate, k.Quit},
	}
}

// summaryKeys holds key bindings for the summary screen.
type summaryKeys struct {
	Back     key.Binding
	Recreate key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns the summary screen bindings for the help bar.
func (k summaryKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Recreate, k.Help, k.Quit}
}

// FullHelp returns the summary screen bindings grouped for expanded help.
func (k summaryKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Recreate}, {k.Help, k.Quit}}
}

// CreateKeyMap returns the key bindings for the create screen. submitHelp is
// the localized label of the view-summary action.
func CreateKeyMap(submitHelp string) createKeys {
	return createKeys{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", submitHelp),
		),
		Recreate: recreateBinding(),
		// q is typed into the form, so only ctrl+c quits here.
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// SummaryKeyMap returns the key bindings for the summary screen.
func SummaryKeyMap() summaryKeys {
	return summaryKeys{
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Recreate: recreateBinding(),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func recreateBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "recreate"),
	)
}
