package format

import (
	"io"
	"strings"

	"github.com/danielolaszy/jit/pkg/models"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	labelWidth       = 12
	valueWidth       = 18
	descriptionWidth = 100
)

func (f *Formatter) renderDetail(w io.Writer, r models.IssueRecord) error {
	var b strings.Builder

	b.WriteString(f.styles.bold.Render("TICKET DETAILS"))
	b.WriteString("\n\n")
	b.WriteString(f.styles.bold.Render(r.Key + ": " + r.Summary))
	b.WriteString("\n\n")

	status := orDefault(r.Status, NotSet)

	f.gridRow(&b, "Type:", plainCell(orDefault(r.Type, NotSet)), "Priority:", orDefault(r.Priority, NotSet))
	f.gridRow(&b, "Status:", cell{text: status, styled: f.styles.status(status)}, "Sprint:", orDefault(r.ActiveSprint(), NotInSprint))
	f.gridRow(&b, "Assignee:", plainCell(orDefault(r.Assignee, Unassigned)), "Reporter:", orDefault(r.Reporter, Unknown))
	f.gridRow(&b, "Created:", plainCell(orDefault(r.Created, Unknown)), "Updated:", orDefault(r.Updated, Unknown))
	b.WriteString(f.label("Due Date:"))
	b.WriteString(orDefault(r.Due, NotSet))
	b.WriteString("\n\n")

	b.WriteString(f.styles.bold.Render("DESCRIPTION"))
	b.WriteString("\n\n")
	if r.Description == "" {
		b.WriteString(NoDescription)
	} else {
		b.WriteString(wordwrap.String(r.Description, descriptionWidth))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// cell is a value with its plain text kept for width calculations.
type cell struct {
	text   string
	styled string
}

func plainCell(s string) cell {
	return cell{text: s, styled: s}
}

// gridRow writes "label value label value"; the first pair is padded to fixed widths.
func (f *Formatter) gridRow(b *strings.Builder, leftLabel string, left cell, rightLabel, right string) {
	b.WriteString(f.label(leftLabel))
	b.WriteString(left.styled)
	b.WriteString(padding(left.text, valueWidth))
	b.WriteString(" ")
	b.WriteString(f.label(rightLabel))
	b.WriteString(right)
	b.WriteString("\n")
}

// label renders a bold label padded to labelWidth plus one separating space.
func (f *Formatter) label(s string) string {
	return f.styles.label.Render(s)
}

// padding returns the spaces needed to bring s to width display columns.
// Values may be longer than their column, so they are padded rather than given
// a style width, which would wrap them.
func padding(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
