package surface

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/chargegauge/internal/domain/gauge"
)

// Row is one named surface on a board.
type Row struct {
	Name    string
	Surface gauge.Surface
}

// Board lays out the surfaces of a job, one per line, names left-aligned.
type Board struct {
	Title string
	Width int
}

// Render draws rows in order. Surfaces that cannot render themselves are
// shown with their name only.
func (b Board) Render(rows []Row) string {
	nameWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Name); w > nameWidth {
			nameWidth = w
		}
	}
	nameStyle := lipgloss.NewStyle().Width(nameWidth + 2)

	lines := make([]string, 0, len(rows)+1)
	if b.Title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(b.Title))
	}
	for _, r := range rows {
		line := nameStyle.Render(r.Name)
		if v, ok := r.Surface.(Viewer); ok {
			line += v.View(b.Width)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
