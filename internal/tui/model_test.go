package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/repoquery/internal/output"
)

func newTestModel() Model {
	return NewModel(context.Background(), nil, output.NewFormatter(output.FormatTable))
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty input")
	}
	if updated.(Model).busy {
		t.Error("model should not be busy after empty submit")
	}
}

func TestEnterSubmitsQuestion(t *testing.T) {
	m := newTestModel()
	m.input.SetValue("top 5 rust projects")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(Model)

	if !got.busy {
		t.Error("model should be busy after submit")
	}
	if cmd == nil {
		t.Error("expected a command to run the question")
	}
	if got.input.Value() != "" {
		t.Errorf("input not reset: %q", got.input.Value())
	}
}

func TestQuitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit"} {
		m := newTestModel()
		m.input.SetValue(word)

		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !updated.(Model).quitting {
			t.Errorf("%q should quit the session", word)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).quitting {
		t.Error("ctrl+c should quit")
	}
}

func TestAnswerAppendsTranscript(t *testing.T) {
	m := newTestModel()
	m.busy = true

	updated, _ := m.Update(answerMsg{question: "compare react vs vue", rendered: "Comparing react and vue\n"})
	got := updated.(Model)

	if got.busy {
		t.Error("model should be idle after an answer")
	}
	if len(got.transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(got.transcript))
	}
	if !strings.Contains(got.transcript[0], "compare react vs vue") {
		t.Error("transcript missing the question")
	}
	if !strings.Contains(got.transcript[0], "Comparing react and vue") {
		t.Error("transcript missing the answer")
	}
}

func TestAnswerErrorShownInTranscript(t *testing.T) {
	m := newTestModel()
	m.busy = true

	updated, _ := m.Update(answerMsg{question: "???", err: errors.New("empty query")})
	got := updated.(Model)

	if len(got.transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(got.transcript))
	}
	if !strings.Contains(got.transcript[0], "empty query") {
		t.Error("transcript missing the error")
	}
}

func TestViewShowsSpinnerWhileBusy(t *testing.T) {
	m := newTestModel()
	m.busy = true

	if !strings.Contains(m.View(), "thinking") {
		t.Error("busy view should show the spinner line")
	}
}
