package tui

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/repoquery/internal/agent"
	"github.com/spiffcs/repoquery/internal/output"
)

// answerMsg carries a finished answer back into the update loop.
type answerMsg struct {
	question string
	rendered string
	err      error
}

// Model is the interactive ask session: a prompt, a spinner while a
// question is in flight, and a transcript of rendered answers.
type Model struct {
	ctx       context.Context
	agent     *agent.Agent
	formatter output.Formatter

	input      textinput.Model
	spin       spinner.Model
	busy       bool
	transcript []string
	quitting   bool
}

// NewModel creates the interactive session model.
func NewModel(ctx context.Context, a *agent.Agent, formatter output.Formatter) Model {
	ti := textinput.New()
	ti.Placeholder = `Ask about repositories, e.g. "compare react vs vue"`
	ti.Prompt = promptStyle.Render("? ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:       ctx,
		agent:     a,
		formatter: formatter,
		input:     ti,
		spin:      sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			if question == "exit" || question == "quit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.input.Reset()
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.ask(question))
		}

	case answerMsg:
		m.busy = false
		entry := questionStyle.Render("? "+msg.question) + "\n"
		if msg.err != nil {
			entry += errorStyle.Render("error: "+msg.err.Error()) + "\n"
		} else {
			entry += msg.rendered
		}
		m.transcript = append(m.transcript, entry)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the agent off the update loop and renders the result.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.agent.Answer(m.ctx, question)
		if err != nil {
			return answerMsg{question: question, err: err}
		}

		var buf bytes.Buffer
		if err := m.formatter.Format(result, &buf); err != nil {
			return answerMsg{question: question, err: err}
		}
		return answerMsg{question: question, rendered: buf.String()}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	for _, entry := range m.transcript {
		b.WriteString(entry)
		b.WriteString("\n")
	}

	if m.quitting {
		return b.String()
	}

	if m.busy {
		b.WriteString(m.spin.View() + " thinking...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(helpStyle.Render("enter: ask • esc: quit"))
	b.WriteString("\n")

	return b.String()
}
