package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// InputMode represents the different input modes
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeSearch
	InputModeDetail
)

// InputTransformer handles input mode transformations
type InputTransformer struct {
	mode      InputMode
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer(textInput textinput.Model) *InputTransformer {
	return &InputTransformer{
		mode:      InputModeSearch,
		textInput: textInput,
	}
}

// SetMode sets the current input mode
func (it *InputTransformer) SetMode(mode InputMode) {
	it.mode = mode
}

// GetInputText returns the input line for the view. The blurred input shows
// the kept query without a cursor.
func (it *InputTransformer) GetInputText() string {
	switch it.mode {
	case InputModeSearch:
		return it.textInput.View()
	case InputModeNormal:
		if it.textInput.Value() == "" {
			return lipgloss.NewStyle().Faint(true).Render("press / to search")
		}
		return it.textInput.Value()
	default:
		return ""
	}
}

// GetInputModeString returns the string representation of the input mode
func (it *InputTransformer) GetInputModeString() string {
	switch it.mode {
	case InputModeNormal:
		return "normal"
	case InputModeSearch:
		return "search"
	case InputModeDetail:
		return "detail"
	default:
		return ""
	}
}
