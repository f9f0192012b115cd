package extractor

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	errEmptyReply    = errors.New("empty reply")
	errInvalidJSON   = errors.New("invalid json")
	errShapeMismatch = errors.New("shape mismatch")
)

// cleanReply trims whitespace and a surrounding markdown code fence.
func cleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:] // drop the language tag line
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func decodeObject(raw string) (map[string]json.RawMessage, error) {
	s := cleanReply(raw)
	if s == "" {
		return nil, errEmptyReply
	}
	if s[0] != '{' {
		if json.Valid([]byte(s)) {
			return nil, errShapeMismatch
		}
		return nil, errInvalidJSON
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, errInvalidJSON
	}
	return obj, nil
}

func decodeArray(raw string) ([]json.RawMessage, error) {
	s := cleanReply(raw)
	if s == "" {
		return nil, errEmptyReply
	}
	if s[0] != '[' {
		if json.Valid([]byte(s)) {
			return nil, errShapeMismatch
		}
		return nil, errInvalidJSON
	}
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil, errInvalidJSON
	}
	return arr, nil
}

// stringValue returns the trimmed string held by raw, or "" for any other type.
func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringList keeps the non-blank strings of a JSON array. A bare string is
// treated as a one-element list; anything else yields an empty list.
func stringList(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if s := stringValue(raw); s != "" {
		return append(out, s)
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func decodeNoteEntities(raw string) (NoteEntities, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return EmptyNoteEntities(), err
	}
	return NoteEntities{
		People:      stringList(obj["people"]),
		Dates:       stringList(obj["dates"]),
		Places:      stringList(obj["places"]),
		ActionItems: stringList(obj["actionItems"]),
		FollowUps:   stringList(obj["followUps"]),
		Topics:      stringList(obj["topics"]),
	}, nil
}

func decodeTaskSuggestions(raw string) ([]TaskSuggestion, error) {
	arr, err := decodeArray(raw)
	if err != nil {
		return []TaskSuggestion{}, err
	}
	out := make([]TaskSuggestion, 0, len(arr))
	for _, item := range arr {
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		title := stringValue(obj["title"])
		if title == "" {
			continue
		}
		out = append(out, TaskSuggestion{
			Title:            title,
			Description:      stringValue(obj["description"]),
			Priority:         normalizePriority(stringValue(obj["priority"])),
			SuggestedDueDate: normalizeDate(stringValue(obj["suggestedDueDate"])),
		})
	}
	return out, nil
}

func decodeMeetingAnalysis(raw string) (MeetingAnalysis, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return EmptyMeetingAnalysis(), err
	}
	return MeetingAnalysis{
		Summary:      stringValue(obj["summary"]),
		KeyDecisions: stringList(obj["keyDecisions"]),
		ActionItems:  actionItems(obj["actionItems"]),
		FollowUps:    stringList(obj["followUps"]),
		Topics:       stringList(obj["topics"]),
	}, nil
}

// actionItems accepts objects with task/assignedTo keys and bare strings,
// which become unassigned tasks.
func actionItems(raw json.RawMessage) []ActionItem {
	out := []ActionItem{}
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, ActionItem{Task: s})
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		task := stringValue(obj["task"])
		if task == "" {
			continue
		}
		out = append(out, ActionItem{Task: task, AssignedTo: stringValue(obj["assignedTo"])})
	}
	return out
}

func normalizePriority(s string) Priority {
	switch Priority(strings.ToLower(s)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// normalizeDate returns s as YYYY-MM-DD, or nil when it is not a date.
func normalizeDate(s string) *string {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.Format(time.DateOnly)
			return &d
		}
	}
	return nil
}
