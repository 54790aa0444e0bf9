package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/entorb/flashcards-sub001/internal/answer"
	"github.com/entorb/flashcards-sub001/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for answer entry.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	verdict     *answer.Verdict
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Once a verdict is set the input is frozen.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.verdict != nil {
		return t, nil
	}
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input with a verdict mark once submitted.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.verdict == nil {
		return view
	}
	switch *t.verdict {
	case answer.Correct:
		view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case answer.Close:
		view += " " + lipgloss.NewStyle().Foreground(theme.Warning).Render("≈")
	default:
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit freezes the input and marks it with v.
func (t *TextInput) Submit(v answer.Verdict) {
	t.verdict = &v
	t.Model.Blur()
}

// Submitted reports whether Submit was called.
func (t TextInput) Submitted() bool {
	return t.verdict != nil
}
