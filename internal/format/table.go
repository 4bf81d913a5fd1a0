package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

// maxSummaryWidth bounds the summary column; longer summaries end in "...".
const maxSummaryWidth = 58

var tableHeaders = []string{"Key", "Summary", "Status", "Updated"}

const statusColumn = 2

func (f *Formatter) renderTable(w io.Writer, s SprintReport) error {
	if len(s.Rows) == 0 {
		_, err := fmt.Fprintln(w, NoTickets)
		return err
	}

	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, []string{
			r.Key,
			runewidth.Truncate(r.Summary, maxSummaryWidth, "..."),
			orDefault(r.Status, Unknown),
			orDefault(r.Updated, Unknown),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.plain).
		BorderRow(true).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return f.styles.cell.Inherit(f.styles.bold)
			case col == statusColumn && row < len(rows):
				return f.styles.cell.Inherit(f.styles.statusStyle(rows[row][col]))
			default:
				return f.styles.cell
			}
		})

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", f.styles.bold.Render("Current Sprint:"), s.Name)
	b.WriteString(strings.TrimRight(t.String(), "\n"))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
