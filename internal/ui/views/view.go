package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tilescope/internal/domain"
	"tilescope/internal/index"
	"tilescope/internal/ui/state"
)

// Screen layout of the search page. The main container is padded by one line
// and two columns; the title, a blank line and the input line come first and
// the dropdown rows follow directly below the input.
const (
	mainPadTop        = 1
	mainPadLeft       = 2
	inputLine         = 2
	dropdownFirstLine = 3
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	// Search page
	Query               string
	TextInput           string
	InputMode           string
	IsOpen              bool
	Results             []domain.MatchResult
	SelectedIndex       int
	IsDeepSearchPending bool
	NoResults           bool

	// Detail page
	Detail       *state.DetailPage
	DetailCursor int
	DetailOffset int
	DetailHeight int

	// Index state
	LightStatus index.Status
	LightCount  int
	DeepStatus  index.Status
	DeepCount   int
	DeepLoading bool

	StatusMessage string
	ShowInfo      bool
	InfoContent   string
	HelpModel     help.Model
	HelpKeys      []key.Binding
}

// HitKind says what a mouse click landed on
type HitKind int

const (
	HitOutside HitKind = iota
	HitInput
	HitRow
)

// Hit is the result of HitTest
type Hit struct {
	Kind HitKind
	Row  int
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
	detailRender *DetailRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showIDs bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles, showIDs),
		detailRender: NewDetailRenderer(styles),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	if state.Detail != nil {
		content.WriteString(r.detailRender.RenderDetail(state.Detail, state.DetailCursor, state.DetailOffset, state.DetailHeight, r.innerWidth(state)))
	} else {
		content.WriteString(r.renderSearchPage(state))
	}

	// Calculate help text (shown at bottom when no popups are visible)
	helpText := ""
	if !state.ShowInfo {
		helpText = r.renderHelpLine(state)
	}

	// If we have help text, add padding to push it to the bottom
	if helpText != "" {
		// Count current lines
		currentContent := content.String()
		currentLines := strings.Count(currentContent, "\n") + 1

		// Account for container padding (1 top, 1 bottom from Padding(1, 2))
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22 // Default terminal height minus padding
		}

		// Status and help take 2 lines
		paddingNeeded := availableLines - currentLines - 2

		// Add padding
		if paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}

		content.WriteString("\n")
		content.WriteString(r.renderStatusLine(state))
		content.WriteString("\n")
		content.WriteString(helpText)
	}

	// Apply main container style
	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.ShowInfo && state.InfoContent != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.InfoContent, state.Height, state.Width, r.styles.InfoBox)
	}

	return finalContent
}

// renderTitleLine renders the logo with right-aligned loading indicators
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("tilescope")

	// Build loading indicators
	loadingIndicators := []string{}
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := int(time.Now().UnixMilli()/80) % len(spinner)

	if state.LightStatus == index.StatusPending {
		loadingIndicators = append(loadingIndicators, fmt.Sprintf("%s Loading viruses", spinner[frame]))
	}
	if state.IsDeepSearchPending || state.DeepLoading {
		loadingIndicators = append(loadingIndicators, fmt.Sprintf("%s Searching proteins", spinner[frame]))
	}

	if len(loadingIndicators) == 0 {
		return logo
	}

	// Calculate widths
	logoWidth := lipgloss.Width(logo)
	rightContent := r.styles.Dim.Render(strings.Join(loadingIndicators, " | "))
	rightWidth := lipgloss.Width(rightContent)

	paddingWidth := r.innerWidth(state) - logoWidth - rightWidth
	if paddingWidth > 0 {
		return fmt.Sprintf("%s%s%s", logo, strings.Repeat(" ", paddingWidth), rightContent)
	}
	// If not enough space, just show with minimal spacing
	return fmt.Sprintf("%s  %s", logo, rightContent)
}

// renderSearchPage renders the input line and, when open, the dropdown
func (r *Renderer) renderSearchPage(state ViewState) string {
	var lines []string

	lines = append(lines, r.styles.Prompt.Render("Search: ")+state.TextInput)

	if state.IsOpen {
		width := r.innerWidth(state)
		for i, result := range state.Results {
			lines = append(lines, r.resultRender.RenderResult(result, i == state.SelectedIndex, state.Query, width))
		}
		if len(state.Results) == 0 {
			switch {
			case state.NoResults:
				lines = append(lines, r.styles.Dim.Render("  No results"))
			case state.IsDeepSearchPending:
				lines = append(lines, r.styles.Dim.Render("  Searching..."))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// renderStatusLine renders the index load state and the status message
func (r *Renderer) renderStatusLine(state ViewState) string {
	var parts []string

	switch state.LightStatus {
	case index.StatusReady:
		parts = append(parts, r.styles.StatusSuccess.Render(fmt.Sprintf("viruses: %d", state.LightCount)))
	case index.StatusFailed:
		parts = append(parts, r.styles.StatusError.Render("viruses: unavailable"))
	default:
		parts = append(parts, r.styles.StatusLoading.Render("viruses: loading"))
	}

	switch {
	case state.DeepStatus == index.StatusReady:
		parts = append(parts, r.styles.StatusSuccess.Render(fmt.Sprintf("proteins: %d", state.DeepCount)))
	case state.DeepLoading:
		parts = append(parts, r.styles.StatusLoading.Render("proteins: loading"))
	case state.DeepStatus == index.StatusFailed:
		parts = append(parts, r.styles.StatusWarning.Render("proteins: unavailable"))
	default:
		parts = append(parts, r.styles.StatusLoading.Render("proteins: not loaded"))
	}

	line := strings.Join(parts, r.styles.Dim.Render(" · "))
	if state.StatusMessage != "" {
		line += "  " + r.styles.Status.Render(state.StatusMessage)
	}
	return line
}

// renderHelpLine renders the short key help for the current mode
func (r *Renderer) renderHelpLine(state ViewState) string {
	if len(state.HelpKeys) == 0 {
		return r.styles.Help.Render("Press ? for help")
	}
	return state.HelpModel.ShortHelpView(state.HelpKeys)
}

// HitTest maps a terminal cell to the part of the search page under it
func (r *Renderer) HitTest(state ViewState, x, y int) Hit {
	if state.Detail != nil {
		return Hit{Kind: HitOutside}
	}
	line := y - mainPadTop
	if x < mainPadLeft {
		return Hit{Kind: HitOutside}
	}
	if line == inputLine {
		return Hit{Kind: HitInput}
	}
	if state.IsOpen {
		row := line - dropdownFirstLine
		if row >= 0 && row < len(state.Results) {
			return Hit{Kind: HitRow, Row: row}
		}
	}
	return Hit{Kind: HitOutside}
}

// innerWidth is the width available inside the main container
func (r *Renderer) innerWidth(state ViewState) int {
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80 // Default terminal width
	}
	return termWidth - 2*mainPadLeft
}
