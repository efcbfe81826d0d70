package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rundispatch/internal/mailer"
)

// Answers holds the operator input collected by the wizard.
type Answers struct {
	RunIDs     []string
	Group      string
	Recipients []string
	Cancelled  bool
}

type step int

const (
	stepRuns step = iota
	stepGroup
	stepRecipients
	stepDone
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF")).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4D96FF"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

// Model is the interactive dispatch wizard: pick run ids, name the group,
// enter recipients. Recipient entry retries until every address parses or
// the operator cancels.
type Model struct {
	step     step
	runIDs   []string
	cursor   int
	selected map[int]bool
	input    textinput.Model
	errMsg   string
	answers  Answers
}

// New builds a wizard over the known run ids.
func New(runIDs []string) Model {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 64
	return Model{
		step:     stepRuns,
		runIDs:   runIDs,
		selected: make(map[int]bool),
		input:    input,
	}
}

// Answers returns the collected input; Cancelled is set when the operator
// backed out.
func (m Model) Answers() Answers {
	return m.answers
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.answers.Cancelled = true
		m.step = stepDone
		return m, tea.Quit
	}

	switch m.step {
	case stepRuns:
		return m.updateRuns(keyMsg)
	case stepGroup:
		return m.updateGroup(keyMsg)
	case stepRecipients:
		return m.updateRecipients(keyMsg)
	}
	return m, nil
}

func (m Model) updateRuns(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.runIDs)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "enter":
		var chosen []string
		for i, id := range m.runIDs {
			if m.selected[i] {
				chosen = append(chosen, id)
			}
		}
		if len(chosen) == 0 {
			m.errMsg = "select at least one run id (space toggles)"
			return m, nil
		}
		m.answers.RunIDs = chosen
		m.errMsg = ""
		m.step = stepGroup
		m.input.Placeholder = "research group"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateGroup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		group := strings.TrimSpace(m.input.Value())
		if group == "" {
			m.errMsg = "the group name must not be empty"
			return m, nil
		}
		m.answers.Group = group
		m.errMsg = ""
		m.step = stepRecipients
		m.input.Placeholder = "alice@example.org, bob@example.org"
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateRecipients(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		recipients := mailer.SplitRecipients(m.input.Value())
		if err := mailer.ValidateRecipients(recipients); err != nil {
			// Retry until valid; the offending addresses stay visible
			// in the input for correction.
			m.errMsg = err.Error()
			return m, nil
		}
		m.answers.Recipients = recipients
		m.errMsg = ""
		m.step = stepDone
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	switch m.step {
	case stepRuns:
		b.WriteString(titleStyle.Render("Select the run ids"))
		b.WriteString("\n")
		for i, id := range m.runIDs {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			check := "[ ]"
			line := fmt.Sprintf("%s %s", check, id)
			if m.selected[i] {
				line = selectedStyle.Render(fmt.Sprintf("[x] %s", id))
			}
			b.WriteString(cursor + line + "\n")
		}
		b.WriteString(helpStyle.Render("space select · enter continue · esc cancel"))
	case stepGroup:
		b.WriteString(titleStyle.Render("Please enter the research group name"))
		b.WriteString("\n" + m.input.View())
		b.WriteString("\n" + helpStyle.Render("enter continue · esc cancel"))
	case stepRecipients:
		b.WriteString(titleStyle.Render("Please enter the recipient emails as a comma-separated list"))
		b.WriteString("\n" + m.input.View())
		b.WriteString("\n" + helpStyle.Render("enter send · esc cancel"))
	case stepDone:
		return ""
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	return b.String()
}

// Run executes the wizard on the current terminal and returns the answers.
func Run(runIDs []string) (Answers, error) {
	program := tea.NewProgram(New(runIDs))
	final, err := program.Run()
	if err != nil {
		return Answers{}, fmt.Errorf("run dispatch wizard: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Answers{}, fmt.Errorf("unexpected wizard model type %T", final)
	}
	return model.Answers(), nil
}
