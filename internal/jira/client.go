// Package jira provides read-only access to the JIRA REST API and maps its payloads
// into display records.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/danielolaszy/jit/internal/config"
	"github.com/danielolaszy/jit/internal/logging"
)

// SprintJQL selects the caller's tickets in open sprints, most recently updated first.
const SprintJQL = "assignee = currentUser() AND sprint in openSprints() ORDER BY updated DESC"

// DefaultLimit is the number of sprint tickets requested when no limit is given.
const DefaultLimit = 10

// Client handles interactions with the JIRA API
type Client struct {
	client *jira.Client
}

// NewClient creates a JIRA client authenticating with the user's email and API token.
func NewClient(creds config.Credentials) (*Client, error) {
	if creds.BaseURL == "" {
		return nil, fmt.Errorf("jira base url is empty")
	}

	tp := jira.BasicAuthTransport{
		Username: creds.UserEmail,
		Password: creds.APIToken,
	}

	client, err := jira.NewClient(tp.Client(), creds.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{client: client}, nil
}

// FetchIssue returns the raw JSON payload of a single issue.
func (c *Client) FetchIssue(ctx context.Context, key string) (json.RawMessage, error) {
	endpoint := "rest/api/3/issue/" + url.PathEscape(key)
	req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build issue request: %w", err)
	}

	var raw json.RawMessage
	if err := c.do(req, &raw, "issue "+key); err != nil {
		return nil, err
	}
	return raw, nil
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Issues []json.RawMessage `json:"issues"`
}

// Search endpoints. Jira Cloud retires the classic one with 410 Gone in favour of search/jql.
const (
	searchEndpoint    = "rest/api/3/search"
	searchJQLEndpoint = "rest/api/3/search/jql"
)

// FetchSprintIssues returns the raw payloads of the caller's tickets in open sprints.
// All navigable fields are requested because the sprint field's key differs per instance.
func (c *Client) FetchSprintIssues(ctx context.Context, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	body := searchRequest{
		JQL:        SprintJQL,
		MaxResults: limit,
		Fields:     []string{"*navigable"},
	}

	issues, err := c.search(ctx, searchEndpoint, body)
	var statusErr *UnexpectedStatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusGone {
		logging.Debug("search endpoint gone, retrying", "endpoint", searchJQLEndpoint)
		issues, err = c.search(ctx, searchJQLEndpoint, body)
	}
	if err != nil {
		return nil, err
	}

	logging.Debug("fetched sprint issues", "count", len(issues), "limit", limit)
	return issues, nil
}

func (c *Client) search(ctx context.Context, endpoint string, body searchRequest) ([]json.RawMessage, error) {
	req, err := c.client.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	var result searchResponse
	if err := c.do(req, &result, "sprint search"); err != nil {
		return nil, err
	}
	if result.Issues == nil {
		return nil, fmt.Errorf("%w: search result has no issues list", ErrMalformedResponse)
	}
	return result.Issues, nil
}

// do sends req and classifies the outcome. v receives the decoded body on success.
func (c *Client) do(req *http.Request, v interface{}, subject string) error {
	req.Header.Set("Accept", "application/json")
	logging.Debug("jira request", "method", req.Method, "url", req.URL.String())

	resp, err := c.client.Do(req, v)
	if resp == nil {
		if err == nil {
			err = errors.New("no response returned")
		}
		return &TransportError{Err: err}
	}

	logging.Debug("jira response", "status", resp.StatusCode, "subject", subject)

	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		resp.Body.Close() // nolint:errcheck
		return fmt.Errorf("%s: %w", subject, ErrNotFound)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		resp.Body.Close() // nolint:errcheck
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, code)
	case code < 200 || code >= 300:
		defer resp.Body.Close() // nolint:errcheck
		return &UnexpectedStatusError{Code: code, Detail: errorDetail(resp, err)}
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, subject, err)
	}
	return nil
}

// errorDetail extracts JIRA's errorMessages from a failed response body.
func errorDetail(resp *jira.Response, httpErr error) string {
	jerr := jira.NewJiraError(resp, httpErr)

	var apiErr *jira.Error
	if errors.As(jerr, &apiErr) {
		messages := append([]string{}, apiErr.ErrorMessages...)
		fields := make([]string, 0, len(apiErr.Errors))
		for field := range apiErr.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			messages = append(messages, field+": "+apiErr.Errors[field])
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}
	return ""
}
