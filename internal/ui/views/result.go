package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tilescope/internal/domain"
	"tilescope/internal/fuzzy"
)

// ResultRenderer renders dropdown rows
type ResultRenderer struct {
	styles  *Styles
	showIDs bool
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles, showIDs bool) *ResultRenderer {
	return &ResultRenderer{
		styles:  styles,
		showIDs: showIDs,
	}
}

// RenderResult renders one match as a dropdown row: the name with the
// matched characters highlighted, then a tag. Viruses are tagged "virus",
// proteins with the name of their parent virus.
func (r *ResultRenderer) RenderResult(result domain.MatchResult, isSelected bool, query string, width int) string {
	if result.Entity == nil {
		return ""
	}

	// Background color for selection
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}
	base := lipgloss.NewStyle()
	if bgColor != "" {
		base = base.Background(lipgloss.Color(bgColor))
	}

	var parts []string

	marker := "  "
	if isSelected {
		marker = "▸ "
	}
	parts = append(parts, base.Render(marker))

	name := result.Entity.DisplayName()
	parts = append(parts, r.highlightMatch(name, query, base.Foreground(lipgloss.Color("226")).Bold(true), base))

	tagStyle := base.Foreground(lipgloss.Color(GetKindColor(result.Entity.Kind())))
	parts = append(parts, base.Render("  "))
	parts = append(parts, tagStyle.Render(r.tag(result.Entity)))

	if r.showIDs {
		parts = append(parts, base.Faint(true).Render("  "+result.Entity.EntityID()))
	}

	line := strings.Join(parts, "")

	// Pad the selected line to full width
	if isSelected && width > 0 {
		if lineLen := lipgloss.Width(line); lineLen < width {
			line += base.Render(strings.Repeat(" ", width-lineLen))
		}
	}
	return line
}

// tag returns the label shown after the name
func (r *ResultRenderer) tag(entity domain.Entity) string {
	if p, ok := entity.(domain.ProteinEntry); ok {
		if p.ParentName != "" {
			return "[" + p.ParentName + "]"
		}
		return "[protein]"
	}
	return "[" + entity.Kind().String() + "]"
}

// highlightMatch renders the characters of text that the query matched
func (r *ResultRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	offsets := fuzzy.Highlight(query, text)
	if len(offsets) == 0 {
		return normalStyle.Render(text)
	}

	matched := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		matched[o] = true
	}

	var result []string
	var run strings.Builder
	runMatched := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMatched {
			result = append(result, highlightStyle.Render(run.String()))
		} else {
			result = append(result, normalStyle.Render(run.String()))
		}
		run.Reset()
	}

	for i, ch := range text {
		if matched[i] != runMatched {
			flush()
			runMatched = matched[i]
		}
		run.WriteRune(ch)
	}
	flush()

	return strings.Join(result, "")
}
