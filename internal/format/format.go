// Package format renders issue records for the terminal or for scripts.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/jit/pkg/models"
)

// Mode selects the output shape. Exactly one mode is used per invocation.
type Mode int

const (
	// ModeStandard prints the key and summary on two labelled lines.
	ModeStandard Mode = iota
	// ModeText prints "KEY: Summary".
	ModeText
	// ModeJSON prints {"ticket":..,"summary":..}.
	ModeJSON
	// ModeDetail prints the full metadata block.
	ModeDetail
	// ModeDetailJSON prints the full metadata as a JSON object.
	ModeDetailJSON
	// ModeTable prints the sprint tickets as a box-drawn table.
	ModeTable
	// ModeTableJSON prints the sprint tickets as a JSON object.
	ModeTableJSON
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeText:
		return "text"
	case ModeJSON:
		return "json"
	case ModeDetail:
		return "detail"
	case ModeDetailJSON:
		return "detail-json"
	case ModeTable:
		return "table"
	case ModeTableJSON:
		return "table-json"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Placeholders shown for unset fields.
const (
	NotSet        = "Not set"
	NotInSprint   = "Not in sprint"
	Unassigned    = "Unassigned"
	Unknown       = "Unknown"
	UnknownSprint = "Unknown Sprint"
	NoDescription = "No description provided."
	NoTickets     = "No tickets found in the current sprint."
)

// SprintReport is the sprint view: the sprint's name and one row per ticket.
type SprintReport struct {
	Name string
	Rows []models.SprintTicketRow
}

// NewSprintReport projects records into table rows. The sprint name comes from the first
// record: its active sprint, else its first sprint, else UnknownSprint.
func NewSprintReport(records []models.IssueRecord) SprintReport {
	report := SprintReport{Rows: make([]models.SprintTicketRow, 0, len(records))}
	if len(records) == 0 {
		return report
	}

	first := records[0]
	switch {
	case first.ActiveSprint() != "":
		report.Name = first.ActiveSprint()
	case len(first.Sprints) > 0:
		report.Name = first.Sprints[0].Name
	default:
		report.Name = UnknownSprint
	}

	for _, r := range records {
		report.Rows = append(report.Rows, models.SprintTicketRow{
			Key:     r.Key,
			Summary: r.Summary,
			Status:  r.Status,
			Updated: r.Updated,
		})
	}
	return report
}

// Report is what gets rendered: a single issue or a sprint view.
type Report struct {
	Issue  *models.IssueRecord
	Sprint *SprintReport
}

// Formatter renders reports. Styling follows the renderer's colour profile, so output
// to a pipe or file stays plain.
type Formatter struct {
	styles styles
}

// New returns a Formatter styling output with r.
func New(r *lipgloss.Renderer) *Formatter {
	return &Formatter{styles: newStyles(r)}
}

// Render writes report to w in the given mode.
func (f *Formatter) Render(w io.Writer, mode Mode, report Report) error {
	switch mode {
	case ModeStandard, ModeText, ModeJSON, ModeDetail, ModeDetailJSON:
		if report.Issue == nil {
			return fmt.Errorf("%s output needs an issue", mode)
		}
	case ModeTable, ModeTableJSON:
		if report.Sprint == nil {
			return fmt.Errorf("%s output needs a sprint report", mode)
		}
	}

	switch mode {
	case ModeStandard:
		_, err := fmt.Fprintf(w, "Ticket:   %s\nSummary:  %s\n", report.Issue.Key, report.Issue.Summary)
		return err
	case ModeText:
		_, err := fmt.Fprintf(w, "%s: %s\n", report.Issue.Key, report.Issue.Summary)
		return err
	case ModeJSON:
		return writeJSON(w, briefJSON{Ticket: report.Issue.Key, Summary: report.Issue.Summary})
	case ModeDetail:
		return f.renderDetail(w, *report.Issue)
	case ModeDetailJSON:
		return writeJSON(w, newDetailJSON(*report.Issue))
	case ModeTable:
		return f.renderTable(w, *report.Sprint)
	case ModeTableJSON:
		return writeJSON(w, newSprintJSON(*report.Sprint))
	default:
		return fmt.Errorf("unknown output mode %s", mode)
	}
}

type briefJSON struct {
	Ticket  string `json:"ticket"`
	Summary string `json:"summary"`
}

type detailJSON struct {
	Ticket      string  `json:"ticket"`
	Summary     string  `json:"summary"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
	Assignee    *string `json:"assignee"`
	Reporter    *string `json:"reporter"`
	Sprint      *string `json:"sprint"`
	Created     *string `json:"created"`
	Updated     *string `json:"updated"`
	Due         *string `json:"due"`
	Description *string `json:"description"`
}

func newDetailJSON(r models.IssueRecord) detailJSON {
	return detailJSON{
		Ticket:      r.Key,
		Summary:     r.Summary,
		Status:      optional(r.Status),
		Type:        optional(r.Type),
		Priority:    optional(r.Priority),
		Assignee:    optional(r.Assignee),
		Reporter:    optional(r.Reporter),
		Sprint:      optional(r.ActiveSprint()),
		Created:     optional(r.Created),
		Updated:     optional(r.Updated),
		Due:         optional(r.Due),
		Description: optional(r.Description),
	}
}

type sprintRowJSON struct {
	Ticket  string  `json:"ticket"`
	Summary string  `json:"summary"`
	Status  *string `json:"status"`
	Updated *string `json:"updated"`
}

type sprintJSON struct {
	Sprint  *string         `json:"sprint"`
	Tickets []sprintRowJSON `json:"tickets"`
}

func newSprintJSON(s SprintReport) sprintJSON {
	out := sprintJSON{Sprint: optional(s.Name), Tickets: make([]sprintRowJSON, 0, len(s.Rows))}
	for _, row := range s.Rows {
		out.Tickets = append(out.Tickets, sprintRowJSON{
			Ticket:  row.Key,
			Summary: row.Summary,
			Status:  optional(row.Status),
			Updated: optional(row.Updated),
		})
	}
	return out
}

// optional maps unset ("") to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// writeJSON writes v as a single compact line without HTML escaping.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
