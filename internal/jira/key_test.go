package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Bare key", input: "P-123", want: "P-123"},
		{name: "Bare key with longer project", input: "RW-1931", want: "RW-1931"},
		{name: "Lower case project is upper-cased", input: "proj-7", want: "PROJ-7"},
		{name: "Surrounding whitespace", input: "  ABC-1 ", want: "ABC-1"},
		{name: "Project with digits", input: "AB2-45", want: "AB2-45"},
		{name: "Browse URL", input: "https://company.atlassian.net/browse/RW-1931", want: "RW-1931"},
		{name: "Browse URL with trailing slash", input: "https://company.atlassian.net/browse/P-123/", want: "P-123"},
		{name: "Browse URL with query", input: "https://company.atlassian.net/browse/P-123?focusedCommentId=1", want: "P-123"},
		{name: "Browse URL with extra segment", input: "https://company.atlassian.net/browse/P-123/worklog", want: "P-123"},
		{name: "Http scheme", input: "http://jira.local/browse/OPS-9", want: "OPS-9"},
		{name: "Issues path", input: "https://company.atlassian.net/jira/software/projects/P/issues/P-55", want: "P-55"},
		{name: "Board selectedIssue", input: "https://company.atlassian.net/jira/software/projects/P/boards/1?selectedIssue=P-77", want: "P-77"},
		{name: "Empty string", input: "", wantErr: true},
		{name: "No hyphen", input: "PROJ123", wantErr: true},
		{name: "Non-numeric suffix", input: "PROJ-abc", wantErr: true},
		{name: "Missing project", input: "-123", wantErr: true},
		{name: "URL without key", input: "https://company.atlassian.net/browse/", wantErr: true},
		{name: "URL with invalid key", input: "https://company.atlassian.net/browse/nope", wantErr: true},
		{name: "Random words", input: "fix the login", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKey(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTicketReference)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBrowseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://acme.atlassian.net/browse/P-1", BrowseURL("https://acme.atlassian.net", "P-1"))
	assert.Equal(t, "https://acme.atlassian.net/browse/P-1", BrowseURL("https://acme.atlassian.net/", "P-1"))
}
