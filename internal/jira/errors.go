package jira

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTicketReference is returned when input is neither a ticket key nor a browse URL.
	ErrInvalidTicketReference = errors.New("invalid ticket reference")
	// ErrUnauthorized is returned for HTTP 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized: check JIRA_USER_EMAIL and JIRA_API_TOKEN")
	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse is returned when a payload lacks the key or summary, or is not JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError wraps a failure to reach JIRA at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request to JIRA API: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError is returned for any other non-2xx response.
type UnexpectedStatusError struct {
	Code   int
	Detail string
}

func (e *UnexpectedStatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("JIRA API request failed with status %d", e.Code)
	}
	return fmt.Sprintf("JIRA API request failed with status %d: %s", e.Code, e.Detail)
}
