package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct {
	Index int // -1 for current
}

func (a SelectAction) Type() string { return "select" }

// OpenRowAction opens the highlighted row of a detail page
type OpenRowAction struct{}

func (a OpenRowAction) Type() string { return "open_row" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type ClearTextAction struct{}

func (a ClearTextAction) Type() string { return "clear_text" }

// Dropdown actions
type OpenDropdownAction struct{}

func (a OpenDropdownAction) Type() string { return "open_dropdown" }

type CloseDropdownAction struct{}

func (a CloseDropdownAction) Type() string { return "close_dropdown" }

// Page actions
type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type HomeAction struct{}

func (a HomeAction) Type() string { return "home" }

type ToggleInfoAction struct{}

func (a ToggleInfoAction) Type() string { return "toggle_info" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
