package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInputForm_ChoiceCycling(t *testing.T) {
	form := NewInputForm(
		NewInputField("Name", "", 10),
		NewChoiceField("Kind", []string{"actor", "usecase", "note"}),
	)

	if got := form.Value(1); got != "actor" {
		t.Errorf("empty choice field Value() = %q, want the first choice", got)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.FocusedField != 1 {
		t.Fatalf("FocusedField = %d, want 1", form.FocusedField)
	}

	next := tea.KeyMsg{Type: tea.KeyCtrlN}
	prev := tea.KeyMsg{Type: tea.KeyCtrlP}

	form.Update(next)
	if got := form.Value(1); got != "actor" {
		t.Errorf("first ctrl+n = %q, want actor", got)
	}
	form.Update(next)
	form.Update(next)
	if got := form.Value(1); got != "note" {
		t.Errorf("after three ctrl+n = %q, want note", got)
	}
	form.Update(next)
	if got := form.Value(1); got != "actor" {
		t.Errorf("ctrl+n should wrap, got %q", got)
	}
	form.Update(prev)
	if got := form.Value(1); got != "note" {
		t.Errorf("ctrl+p should wrap back, got %q", got)
	}

	form.SetValue(1, "USECASE")
	form.Update(next)
	if got := form.Value(1); got != "note" {
		t.Errorf("cycling from a typed value = %q, want note", got)
	}

	form.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if form.FocusedField != 0 {
		t.Errorf("shift+tab FocusedField = %d, want 0", form.FocusedField)
	}
	form.Update(next)
	if got := form.Value(0); got != "" {
		t.Errorf("ctrl+n on a text field changed it to %q", got)
	}
}
