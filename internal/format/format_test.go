package format

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/jit/pkg/models"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainFormatter renders without colour; the renderer's writer is not a terminal.
func plainFormatter() *Formatter {
	return New(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func render(t *testing.T, mode Mode, report Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, plainFormatter().Render(&buf, mode, report))
	return buf.String()
}

var sampleIssue = models.IssueRecord{
	Key:     "ISSUE-123",
	Summary: "Fix the login button in Safari",
}

var fullIssue = models.IssueRecord{
	Key:         "PROJ-123",
	Summary:     "Implement new login page",
	Status:      "In Review",
	Type:        "Story",
	Priority:    "High",
	Assignee:    "Jane Doe",
	Reporter:    "John Roe",
	Created:     "2024-01-05",
	Updated:     "2024-01-09",
	Due:         "2024-02-01",
	Description: "The login page needs a redesign.\n\n- new form\n- SSO button",
	Sprints: []models.Sprint{
		{Name: "Sprint 41", State: "closed"},
		{Name: "Sprint 42", State: "active"},
	},
}

func TestRenderBriefModes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		mode Mode
		want string
	}{
		{
			name: "Standard",
			mode: ModeStandard,
			want: "Ticket:   ISSUE-123\nSummary:  Fix the login button in Safari\n",
		},
		{
			name: "Text",
			mode: ModeText,
			want: "ISSUE-123: Fix the login button in Safari\n",
		},
		{
			name: "JSON",
			mode: ModeJSON,
			want: `{"ticket":"ISSUE-123","summary":"Fix the login button in Safari"}` + "\n",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, render(t, tc.mode, Report{Issue: &sampleIssue}))
		})
	}
}

func TestRenderJSONDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	issue := models.IssueRecord{Key: "P-1", Summary: "Use <b> & <i> tags"}
	assert.Equal(t, `{"ticket":"P-1","summary":"Use <b> & <i> tags"}`+"\n", render(t, ModeJSON, Report{Issue: &issue}))
}

func TestRenderDetail(t *testing.T) {
	t.Parallel()

	want := "TICKET DETAILS\n\n" +
		"PROJ-123: Implement new login page\n\n" +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Type:", "Story", "Priority:", "High") +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Status:", "In Review", "Sprint:", "Sprint 42") +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Assignee:", "Jane Doe", "Reporter:", "John Roe") +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Created:", "2024-01-05", "Updated:", "2024-01-09") +
		fmt.Sprintf("%-12s %s\n", "Due Date:", "2024-02-01") +
		"\nDESCRIPTION\n\n" +
		"The login page needs a redesign.\n\n- new form\n- SSO button\n"

	assert.Equal(t, want, render(t, ModeDetail, Report{Issue: &fullIssue}))
}

func TestRenderDetailPlaceholders(t *testing.T) {
	t.Parallel()

	want := "TICKET DETAILS\n\n" +
		"ISSUE-123: Fix the login button in Safari\n\n" +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Type:", NotSet, "Priority:", NotSet) +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Status:", NotSet, "Sprint:", NotInSprint) +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Assignee:", Unassigned, "Reporter:", Unknown) +
		fmt.Sprintf("%-12s %-18s %-12s %s\n", "Created:", Unknown, "Updated:", Unknown) +
		fmt.Sprintf("%-12s %s\n", "Due Date:", NotSet) +
		"\nDESCRIPTION\n\n" +
		NoDescription + "\n"

	assert.Equal(t, want, render(t, ModeDetail, Report{Issue: &sampleIssue}))
}

func TestRenderDetailWrapsDescription(t *testing.T) {
	t.Parallel()

	issue := sampleIssue
	issue.Description = strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 20))

	out := render(t, ModeDetail, Report{Issue: &issue})
	body := out[strings.Index(out, "DESCRIPTION\n\n")+len("DESCRIPTION\n\n"):]

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), descriptionWidth)
	}
}

func TestRenderDetailJSON(t *testing.T) {
	t.Parallel()

	out := render(t, ModeDetailJSON, Report{Issue: &fullIssue})
	assert.JSONEq(t, `{
		"ticket": "PROJ-123",
		"summary": "Implement new login page",
		"status": "In Review",
		"type": "Story",
		"priority": "High",
		"assignee": "Jane Doe",
		"reporter": "John Roe",
		"sprint": "Sprint 42",
		"created": "2024-01-05",
		"updated": "2024-01-09",
		"due": "2024-02-01",
		"description": "The login page needs a redesign.\n\n- new form\n- SSO button"
	}`, out)
	assert.True(t, strings.HasPrefix(out, `{"ticket":"PROJ-123","summary":`))
	assert.Equal(t, 1, strings.Count(out, "\n"))

	minimal := render(t, ModeDetailJSON, Report{Issue: &sampleIssue})
	assert.Contains(t, minimal, `"due":null`)
	assert.Contains(t, minimal, `"sprint":null`)
}

func sprintRows() []models.SprintTicketRow {
	return []models.SprintTicketRow{
		{Key: "PROJ-123", Summary: "Implement new login page", Status: "In Review", Updated: "2024-03-01"},
		{Key: "PROJ-124", Summary: "Fix responsiveness on dashboard", Status: "In Progress", Updated: "2024-02-28"},
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	// Widths: max(header, longest cell) + 2.
	widths := []int{10, 33, 13, 12}
	line := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w)
		}
		return left + strings.Join(parts, mid) + right + "\n"
	}
	row := func(cells ...string) string {
		return fmt.Sprintf("│ %-8s │ %-31s │ %-11s │ %-10s │\n", cells[0], cells[1], cells[2], cells[3])
	}

	want := "Current Sprint: Sprint 42\n\n" +
		line("┌", "┬", "┐") +
		row("Key", "Summary", "Status", "Updated") +
		line("├", "┼", "┤") +
		row("PROJ-123", "Implement new login page", "In Review", "2024-03-01") +
		line("├", "┼", "┤") +
		row("PROJ-124", "Fix responsiveness on dashboard", "In Progress", "2024-02-28") +
		line("└", "┴", "┘")

	got := render(t, ModeTable, Report{Sprint: &SprintReport{Name: "Sprint 42", Rows: sprintRows()}})
	assert.Equal(t, want, got)
}

func TestRenderTableEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty sprint", func(t *testing.T) {
		t.Parallel()
		got := render(t, ModeTable, Report{Sprint: &SprintReport{}})
		assert.Equal(t, NoTickets+"\n", got)
	})

	t.Run("long summary is truncated", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 80)
		got := render(t, ModeTable, Report{Sprint: &SprintReport{
			Name: "S",
			Rows: []models.SprintTicketRow{{Key: "P-1", Summary: long, Status: "Done", Updated: "2024-01-01"}},
		}})
		assert.Contains(t, got, strings.Repeat("x", maxSummaryWidth-3)+"...")
		assert.NotContains(t, got, strings.Repeat("x", maxSummaryWidth-2))
	})

	t.Run("unset status and updated", func(t *testing.T) {
		t.Parallel()

		got := render(t, ModeTable, Report{Sprint: &SprintReport{
			Name: "S",
			Rows: []models.SprintTicketRow{{Key: "P-1", Summary: "s"}},
		}})
		assert.Contains(t, got, "│ P-1 │ s       │ Unknown │ Unknown │")
	})
}

func TestRenderTableColoured(t *testing.T) {
	t.Parallel()

	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI256)

	var buf bytes.Buffer
	require.NoError(t, New(r).Render(&buf, ModeTable, Report{Sprint: &SprintReport{Name: "Sprint 42", Rows: sprintRows()}}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)

	var statusLine string
	for _, l := range lines[2:] {
		assert.Equal(t, 5+10+33+13+12, lipgloss.Width(l), "line %q", l)
		if strings.Contains(l, "In Progress") {
			statusLine = l
		}
	}
	assert.Contains(t, statusLine, "\x1b[")
}

func TestRenderTableJSON(t *testing.T) {
	t.Parallel()

	got := render(t, ModeTableJSON, Report{Sprint: &SprintReport{Name: "Sprint 42", Rows: sprintRows()}})
	assert.JSONEq(t, `{"sprint":"Sprint 42","tickets":[
		{"ticket":"PROJ-123","summary":"Implement new login page","status":"In Review","updated":"2024-03-01"},
		{"ticket":"PROJ-124","summary":"Fix responsiveness on dashboard","status":"In Progress","updated":"2024-02-28"}
	]}`, got)

	empty := render(t, ModeTableJSON, Report{Sprint: &SprintReport{}})
	assert.Equal(t, `{"sprint":null,"tickets":[]}`+"\n", empty)
}

func TestRenderModeMismatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := plainFormatter()

	assert.Error(t, f.Render(&buf, ModeStandard, Report{}))
	assert.Error(t, f.Render(&buf, ModeTable, Report{Issue: &sampleIssue}))
	assert.Error(t, f.Render(&buf, Mode(99), Report{Issue: &sampleIssue}))
	assert.Empty(t, buf.String())
}

func TestNewSprintReport(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		records  []models.IssueRecord
		wantName string
	}{
		{name: "No records", records: nil, wantName: ""},
		{
			name:     "Active sprint of first record",
			records:  []models.IssueRecord{fullIssue, sampleIssue},
			wantName: "Sprint 42",
		},
		{
			name: "First sprint when none active",
			records: []models.IssueRecord{{
				Key: "P-1", Summary: "s",
				Sprints: []models.Sprint{{Name: "Sprint 7", State: "future"}},
			}},
			wantName: "Sprint 7",
		},
		{
			name:     "Unknown sprint",
			records:  []models.IssueRecord{sampleIssue},
			wantName: UnknownSprint,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			report := NewSprintReport(tc.records)
			assert.Equal(t, tc.wantName, report.Name)
			require.Len(t, report.Rows, len(tc.records))
			for i, r := range tc.records {
				assert.Equal(t, models.SprintTicketRow{Key: r.Key, Summary: r.Summary, Status: r.Status, Updated: r.Updated}, report.Rows[i])
			}
		})
	}
}

func TestStatusStyleKeepsTextWithoutColour(t *testing.T) {
	t.Parallel()

	s := newStyles(lipgloss.NewRenderer(&bytes.Buffer{}))
	for _, status := range []string{"Done", "In Progress", "In Review", "To Do", "Backlog", "Blocked", "Cancelled", "Weird"} {
		assert.Equal(t, status, s.status(status))
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "detail-json", ModeDetailJSON.String())
	assert.Equal(t, "mode(42)", Mode(42).String())
}
