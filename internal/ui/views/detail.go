package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tilescope/internal/domain"
	"tilescope/internal/ui/state"
)

// DetailRenderer renders the virus and protein pages
type DetailRenderer struct {
	styles *Styles
}

// NewDetailRenderer creates a new detail renderer
func NewDetailRenderer(styles *Styles) *DetailRenderer {
	return &DetailRenderer{
		styles: styles,
	}
}

// RenderDetail renders page. cursor, offset and height describe the
// protein list window of a virus page.
func (d *DetailRenderer) RenderDetail(page *state.DetailPage, cursor, offset, height, width int) string {
	if page == nil {
		return ""
	}

	var lines []string
	field := func(label, value string) {
		lines = append(lines, fmt.Sprintf("%s %s", d.styles.Label.Render(fmt.Sprintf("%-8s", label+":")), value))
	}

	if page.NotFound {
		lines = append(lines, d.styles.Dim.Render(page.Route))
		lines = append(lines, "")
		switch {
		case page.Loading:
			lines = append(lines, d.styles.StatusLoading.Render("Loading search index..."))
		case page.LoadErr != "":
			lines = append(lines, d.styles.StatusError.Render(fmt.Sprintf("No %s with id %s (index unavailable)", page.Kind, page.ID)))
		default:
			lines = append(lines, d.styles.StatusWarning.Render(fmt.Sprintf("No %s with id %s", page.Kind, page.ID)))
		}
		return strings.Join(lines, "\n")
	}

	switch page.Kind {
	case domain.KindVirus:
		lines = append(lines, d.styles.Heading.Render(page.Virus.Name))
		lines = append(lines, "")
		field("Kind", d.kindTag(domain.KindVirus))
		field("ID", page.Virus.ID)
		lines = append(lines, "")
		lines = append(lines, d.renderProteins(page, cursor, offset, height, width)...)

	case domain.KindProtein:
		lines = append(lines, d.styles.Heading.Render(page.Protein.Name))
		lines = append(lines, "")
		field("Kind", d.kindTag(domain.KindProtein))
		field("ID", page.Protein.ID)
		parent := page.Protein.ParentName
		if page.HasVirus {
			parent = page.Virus.Name
		}
		if parent == "" {
			parent = page.Protein.ParentID
		}
		if page.Protein.ParentID != "" {
			parent = fmt.Sprintf("%s %s", parent, d.styles.Dim.Render("("+page.Protein.ParentID+")"))
		}
		field("Virus", parent)
	}

	return strings.Join(lines, "\n")
}

func (d *DetailRenderer) kindTag(kind domain.EntityKind) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(GetKindColor(kind))).Render(kind.String())
}

// renderProteins renders the windowed protein list of a virus page
func (d *DetailRenderer) renderProteins(page *state.DetailPage, cursor, offset, height, width int) []string {
	if page.Loading {
		return []string{d.styles.StatusLoading.Render("Loading proteins...")}
	}
	if page.LoadErr != "" {
		return []string{d.styles.StatusError.Render("Proteins unavailable")}
	}
	if len(page.Proteins) == 0 {
		return []string{d.styles.Dim.Render("No proteins")}
	}

	lines := []string{d.styles.Heading.Render(fmt.Sprintf("Proteins (%d)", len(page.Proteins)))}

	end := offset + height
	if end > len(page.Proteins) {
		end = len(page.Proteins)
	}
	if offset > 0 {
		lines = append(lines, d.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	for i := offset; i < end; i++ {
		p := page.Proteins[i]
		line := fmt.Sprintf("  %s  %s", p.Name, d.styles.Dim.Render(p.ID))
		if i == cursor {
			line = "▸ " + strings.TrimPrefix(line, "  ")
			if lineLen := lipgloss.Width(line); width > 0 && lineLen < width {
				line += strings.Repeat(" ", width-lineLen)
			}
			line = d.styles.SelectionBg.Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(page.Proteins) {
		lines = append(lines, d.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(page.Proteins)-end)))
	}
	return lines
}
