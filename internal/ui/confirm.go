package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel asks a yes/no question about one entry. Only y accepts.
type confirmModel struct {
	question string
	detail   string
	answer   bool
	answered bool
	theme    Theme
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		m.answer, m.answered = true, true
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answered = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	var b strings.Builder
	if m.detail != "" {
		b.WriteString(m.theme.HelpStyle().Render(m.detail))
		b.WriteString("\n\n")
	}
	b.WriteString(m.theme.HeaderStyle().Render(m.question))
	b.WriteString(" ")
	b.WriteString(m.theme.DangerStyle().Render("[y/N]"))
	b.WriteString(" ")
	return b.String()
}

// Confirm asks question with detail shown above it and reports whether the
// user pressed y. Any other answer, including esc, declines.
func Confirm(question, detail string, theme Theme, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question, detail: detail, theme: theme}, opts...).Run()
	if err != nil {
		return false, err
	}
	return final.(confirmModel).answer, nil
}
