package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LedgerRow is one line of the history listing.
type LedgerRow struct {
	Posted  string
	Command string
	Project string
	Title   string
	Run     string
	DryRun  bool
}

func (r LedgerRow) cells() []string {
	command := r.Command
	if r.DryRun {
		command += " (dry)"
	}
	return []string{r.Posted, command, r.Project, r.Title, r.Run}
}

var ledgerHeaders = []string{"Posted", "Command", "Project", "Title", "Run"}

// RenderLedger lays rows out in left-aligned columns under a bold header.
// Dry-run rows are muted. No rows renders as "".
func RenderLedger(styles Styles, rows []LedgerRow) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(ledgerHeaders))
	for i, h := range ledgerHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for i, r := range rows {
		cells[i] = r.cells()
		for j, c := range cells[i] {
			widths[j] = max(widths[j], lipgloss.Width(c))
		}
	}

	line := func(style lipgloss.Style, cols []string) string {
		parts := make([]string, len(cols))
		for j, c := range cols {
			parts[j] = style.Width(widths[j]).Render(c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	lines := []string{styles.Title.Render("Posted pages"), line(styles.Bold, ledgerHeaders)}
	for i, r := range rows {
		style := styles.Body
		if r.DryRun {
			style = styles.Muted
		}
		lines = append(lines, line(style, cells[i]))
	}
	return strings.Join(lines, "\n") + "\n"
}
