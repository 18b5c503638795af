package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit     key.Binding
	Cancel     key.Binding
	Next       key.Binding
	Prev       key.Binding
	NextChoice key.Binding
	PrevChoice key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	NextChoice: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "next choice"),
	),
	PrevChoice: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "previous choice"),
	),
}

// InputField is one labelled text input. Fields with Choices also accept
// free text; the choice keys fill in the allowed values.
type InputField struct {
	Label   string
	Input   textinput.Model
	Choices []string
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// NewChoiceField creates a field cycling through choices. The first
// choice is the placeholder, used when the field is left empty.
func NewChoiceField(label string, choices []string) InputField {
	var placeholder string
	limit := 0
	for _, c := range choices {
		limit = max(limit, len(c))
	}
	if len(choices) > 0 {
		placeholder = choices[0]
	}
	field := NewInputField(label, placeholder, limit)
	field.Choices = choices
	return field
}

// cycle replaces the value with the choice step positions away from the
// current one. An unknown value starts from the ends of the list.
func (f *InputField) cycle(step int) {
	n := len(f.Choices)
	if n == 0 {
		return
	}
	current := strings.TrimSpace(f.Input.Value())
	i := -1
	for j, c := range f.Choices {
		if strings.EqualFold(c, current) {
			i = j
			break
		}
	}
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+step)%n + n) % n
	}
	f.Input.SetValue(f.Choices[i])
	f.Input.CursorEnd()
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key was processed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.focus(f.FocusedField + 1)
			return true, nil
		case key.Matches(msg, f.Keys.Prev):
			f.focus(f.FocusedField - 1)
			return true, nil
		case key.Matches(msg, f.Keys.NextChoice):
			f.Fields[f.FocusedField].cycle(1)
			return true, nil
		case key.Matches(msg, f.Keys.PrevChoice):
			f.Fields[f.FocusedField].cycle(-1)
			return true, nil
		}
	}

	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

// focus moves focus to index, wrapping around the field list
func (f *InputForm) focus(index int) {
	n := len(f.Fields)
	if n <= 1 {
		return
	}
	f.Fields[f.FocusedField].Input.Blur()
	f.FocusedField = (index%n + n) % n
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the trimmed value of a field, or its first choice when
// a choice field was left empty
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]
	v := strings.TrimSpace(field.Input.Value())
	if v == "" && len(field.Choices) > 0 {
		return field.Choices[0]
	}
	return v
}

// SetValue sets the value of a field by index
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(field.Label))
	if len(field.Choices) > 0 && index == f.FocusedField {
		b.WriteString(" " + styles.HelpDesc.Render(strings.Join(field.Choices, " | ")))
	}
	b.WriteString("\n")

	if index == f.FocusedField {
		b.WriteString(styles.InputFocused.Render(field.Input.View()))
	} else {
		b.WriteString(styles.InputField.Render(field.Input.View()))
	}

	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	if f.FocusedField < len(f.Fields) && len(f.Fields[f.FocusedField].Choices) > 0 {
		parts = append(parts, styles.HelpKey.Render("ctrl+n/p")+" "+styles.HelpDesc.Render("choices"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}
