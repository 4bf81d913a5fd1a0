// Package models defines data structures shared across the application.
package models

// Sprint is a sprint reference attached to a JIRA issue.
type Sprint struct {
	// Name is the sprint's display name (e.g., "Sprint 42")
	Name string

	// State is the sprint state as reported by JIRA ("active", "closed", "future")
	State string
}

// IssueRecord is a read-only snapshot of a JIRA issue prepared for display.
// Optional fields hold an empty string when JIRA did not report them.
type IssueRecord struct {
	// Key is the full JIRA ticket identifier (e.g., "ABC-123")
	Key string

	// Summary is the ticket's summary field
	Summary string

	// Status is the workflow status name (e.g., "In Progress")
	Status string

	// Type is the JIRA issue type (e.g., "Story", "Bug")
	Type string

	// Priority is the priority name (e.g., "High")
	Priority string

	// Assignee is the assignee's display name
	Assignee string

	// Reporter is the reporter's display name
	Reporter string

	// Created is the creation date, normalized to YYYY-MM-DD when parseable
	Created string

	// Updated is the last update date, normalized to YYYY-MM-DD when parseable
	Updated string

	// Due is the due date, normalized to YYYY-MM-DD when parseable
	Due string

	// Description is the plain-text description body
	Description string

	// Sprints lists every sprint the issue belongs to, in the order JIRA reported them
	Sprints []Sprint
}

// ActiveSprint returns the name of the issue's active sprint, or "" when it has none.
func (r IssueRecord) ActiveSprint() string {
	for _, s := range r.Sprints {
		if s.State == "active" {
			return s.Name
		}
	}
	return ""
}

// SprintTicketRow is the reduced projection of an IssueRecord shown in the sprint table.
type SprintTicketRow struct {
	Key     string
	Summary string
	Status  string
	Updated string
}
