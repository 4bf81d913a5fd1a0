package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	plain   lipgloss.Style
	cell    lipgloss.Style
	bold    lipgloss.Style
	label   lipgloss.Style
	done    lipgloss.Style
	active  lipgloss.Style
	review  lipgloss.Style
	todo    lipgloss.Style
	backlog lipgloss.Style
	queued  lipgloss.Style
	blocked lipgloss.Style
	dropped lipgloss.Style
	other   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		plain:   r.NewStyle(),
		cell:    r.NewStyle().Padding(0, 1),
		bold:    r.NewStyle().Bold(true),
		label:   r.NewStyle().Bold(true).Width(labelWidth + 1),
		done:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Bright green
		active:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Bright yellow
		review:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),  // Yellow
		todo:    r.NewStyle().Foreground(lipgloss.Color("12")),            // Bright blue
		backlog: r.NewStyle().Foreground(lipgloss.Color("4")),             // Blue
		queued:  r.NewStyle().Foreground(lipgloss.Color("6")),             // Cyan
		blocked: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Bright red
		dropped: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),  // Red
		other:   r.NewStyle().Foreground(lipgloss.Color("7")),             // White
	}
}

// statusRules are matched in order against the lower-cased status name.
var statusRules = []struct {
	keywords []string
	pick     func(styles) lipgloss.Style
}{
	{[]string{"done", "complete", "resolved"}, func(s styles) lipgloss.Style { return s.done }},
	{[]string{"progress", "implement", "testing"}, func(s styles) lipgloss.Style { return s.active }},
	{[]string{"review"}, func(s styles) lipgloss.Style { return s.review }},
	{[]string{"todo", "to do", "open"}, func(s styles) lipgloss.Style { return s.todo }},
	{[]string{"backlog"}, func(s styles) lipgloss.Style { return s.backlog }},
	{[]string{"selected"}, func(s styles) lipgloss.Style { return s.queued }},
	{[]string{"block", "impediment"}, func(s styles) lipgloss.Style { return s.blocked }},
	{[]string{"cancel", "won't", "wont"}, func(s styles) lipgloss.Style { return s.dropped }},
}

// statusStyle picks the colour for a status name by keyword.
func (s styles) statusStyle(name string) lipgloss.Style {
	lower := strings.ToLower(name)
	for _, rule := range statusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.pick(s)
			}
		}
	}
	return s.other
}

// status renders a status name in its colour.
func (s styles) status(name string) string {
	return s.statusStyle(name).Render(name)
}
