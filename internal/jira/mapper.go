package jira

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/danielolaszy/jit/pkg/models"
)

// dateLayouts are tried in order; JIRA timestamps look like 2023-09-15T14:53:37.123+0000.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	"2006-01-02",
}

type issuePayload struct {
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// MapIssue converts a raw issue payload into an IssueRecord.
// Only the key and fields.summary are required; everything else is best effort.
func MapIssue(raw json.RawMessage) (models.IssueRecord, error) {
	var payload issuePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.IssueRecord{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Key == "" {
		return models.IssueRecord{}, fmt.Errorf("%w: issue has no key", ErrMalformedResponse)
	}

	summary, ok := requiredString(payload.Fields, "summary")
	if !ok {
		return models.IssueRecord{}, fmt.Errorf("%w: issue %s has no fields.summary", ErrMalformedResponse, payload.Key)
	}

	fields := payload.Fields
	return models.IssueRecord{
		Key:         payload.Key,
		Summary:     summary,
		Status:      nameOf(fields, "status"),
		Type:        nameOf(fields, "issuetype"),
		Priority:    nameOf(fields, "priority"),
		Assignee:    displayNameOf(fields, "assignee"),
		Reporter:    displayNameOf(fields, "reporter"),
		Created:     normalizeDate(stringOf(fields, "created")),
		Updated:     normalizeDate(stringOf(fields, "updated")),
		Due:         normalizeDate(stringOf(fields, "duedate")),
		Description: descriptionOf(fields["description"]),
		Sprints:     findSprints(fields),
	}, nil
}

// MapIssues maps every payload of a search result, failing on the first malformed one.
func MapIssues(raws []json.RawMessage) ([]models.IssueRecord, error) {
	records := make([]models.IssueRecord, 0, len(raws))
	for i, raw := range raws {
		record, err := MapIssue(raw)
		if err != nil {
			return nil, fmt.Errorf("search result %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func requiredString(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func stringOf(fields map[string]json.RawMessage, name string) string {
	s, _ := requiredString(fields, name)
	return s
}

func nameOf(fields map[string]json.RawMessage, name string) string {
	var v struct {
		Name string `json:"name"`
	}
	if raw, ok := fields[name]; ok && json.Unmarshal(raw, &v) == nil {
		return v.Name
	}
	return ""
}

func displayNameOf(fields map[string]json.RawMessage, name string) string {
	var v struct {
		DisplayName string `json:"displayName"`
	}
	if raw, ok := fields[name]; ok && json.Unmarshal(raw, &v) == nil {
		return v.DisplayName
	}
	return ""
}

// normalizeDate reduces a JIRA date or timestamp to YYYY-MM-DD in its own offset.
// Values that do not parse are returned unchanged.
func normalizeDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}

// descriptionOf handles both API v2 plain strings and API v3 ADF documents.
func descriptionOf(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimRight(text, " \t\r\n")
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return string(raw)
	}
	if plain := doc.PlainText(); plain != "" {
		return plain
	}

	if indented, err := json.MarshalIndent(raw, "", "  "); err == nil {
		return string(indented)
	}
	return string(raw)
}

const customFieldPrefix = "customfield_"

// customFieldID returns the numeric id of a customfield_NNNNN key.
func customFieldID(key string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(key, customFieldPrefix))
	return id, err == nil
}

var (
	legacySprintName  = regexp.MustCompile(`name=([^,\]]*)`)
	legacySprintState = regexp.MustCompile(`state=([A-Za-z_]+)`)
)

// findSprints scans custom fields for the sprint field. Its key differs between JIRA
// instances, so the lowest customfield id holding sprint-shaped values wins.
func findSprints(fields map[string]json.RawMessage) []models.Sprint {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if strings.HasPrefix(key, customFieldPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aok := customFieldID(keys[i])
		b, bok := customFieldID(keys[j])
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})

	for _, key := range keys {
		if sprints := parseSprints(fields[key]); len(sprints) > 0 {
			return sprints
		}
	}
	return nil
}

func parseSprints(raw json.RawMessage) []models.Sprint {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}

	var sprints []models.Sprint
	for _, item := range items {
		sprint, ok := parseSprint(item)
		if !ok {
			return nil
		}
		sprints = append(sprints, sprint)
	}
	return sprints
}

func parseSprint(raw json.RawMessage) (models.Sprint, bool) {
	var obj struct {
		Name  *string `json:"name"`
		State *string `json:"state"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name == nil || obj.State == nil || *obj.Name == "" {
			return models.Sprint{}, false
		}
		return models.Sprint{Name: *obj.Name, State: strings.ToLower(*obj.State)}, true
	}

	// Older servers serialise sprints as greenhopper toString() values.
	var legacy string
	if err := json.Unmarshal(raw, &legacy); err != nil || !strings.Contains(legacy, "greenhopper") {
		return models.Sprint{}, false
	}
	name := legacySprintName.FindStringSubmatch(legacy)
	state := legacySprintState.FindStringSubmatch(legacy)
	if name == nil || state == nil || name[1] == "" {
		return models.Sprint{}, false
	}
	return models.Sprint{Name: name[1], State: strings.ToLower(state[1])}, true
}
