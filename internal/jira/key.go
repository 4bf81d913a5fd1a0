package jira

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)-(\d+)$`)

// ParseKey extracts a ticket key from a bare key ("RW-1931") or an issue URL
// ("https://company.atlassian.net/browse/RW-1931"). The project code is upper-cased.
func ParseKey(input string) (string, error) {
	input = strings.TrimSpace(input)

	if key, ok := normalizeKey(input); ok {
		return key, nil
	}

	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if key, ok := keyFromURL(input); ok {
			return key, nil
		}
		return "", fmt.Errorf("%w: could not extract ticket ID from URL %q", ErrInvalidTicketReference, input)
	}

	return "", fmt.Errorf("%w: %q is not a ticket key like PROJ-123", ErrInvalidTicketReference, input)
}

func normalizeKey(s string) (string, bool) {
	m := keyPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + "-" + m[2], true
}

// keyFromURL looks for the segment following /browse/ or /issues/, then for a
// selectedIssue query parameter as used by board views.
func keyFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		switch segments[i] {
		case "browse", "issues":
			if key, ok := normalizeKey(segments[i+1]); ok {
				return key, true
			}
		}
	}

	if selected := u.Query().Get("selectedIssue"); selected != "" {
		return normalizeKey(selected)
	}
	return "", false
}

// BrowseURL returns the web URL of the ticket.
func BrowseURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/browse/" + url.PathEscape(key)
}
