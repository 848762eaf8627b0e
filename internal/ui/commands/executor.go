package commands

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(ctx *CommandContext) *Executor {
	return &Executor{ctx: ctx}
}

// ExecuteLoadLight creates and executes a light index load
func (e *Executor) ExecuteLoadLight() tea.Cmd {
	return NewLoadLightCommand(e.ctx).Execute()
}

// ExecuteLoadDeep creates and executes a deep index load
func (e *Executor) ExecuteLoadDeep() tea.Cmd {
	return NewLoadDeepCommand(e.ctx).Execute()
}

// ExecuteOpenRoute creates and executes an open route command
func (e *Executor) ExecuteOpenRoute(route string) tea.Cmd {
	return NewOpenRouteCommand(e.ctx, route).Execute()
}

// ExecuteRefreshDetail re-resolves the detail page that is showing
func (e *Executor) ExecuteRefreshDetail() tea.Cmd {
	return NewRefreshDetailCommand(e.ctx).Execute()
}
