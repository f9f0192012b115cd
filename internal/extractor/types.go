package extractor

// Kind selects the prompt, sampling settings and output schema of one extraction.
type Kind string

const (
	KindNoteEntities    Kind = "note-entities"
	KindTaskSuggestions Kind = "task-suggestions"
	KindMeetingAnalysis Kind = "meeting-analysis"
	KindDailySummary    Kind = "daily-summary"
)

// Extraction is the tagged result of one extraction call. Value always holds a
// usable value of the right shape; Degraded is set when it is a default
// because the model's reply was empty, unparsable or the wrong shape.
type Extraction[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

// NoteEntities is the entity breakdown of a free-text note.
type NoteEntities struct {
	People      []string `json:"people"`
	Dates       []string `json:"dates"`
	Places      []string `json:"places"`
	ActionItems []string `json:"actionItems"`
	FollowUps   []string `json:"followUps"`
	Topics      []string `json:"topics"`
}

// EmptyNoteEntities returns entities whose lists are empty but never nil, so
// they encode as [] rather than null.
func EmptyNoteEntities() NoteEntities {
	return NoteEntities{
		People:      []string{},
		Dates:       []string{},
		Places:      []string{},
		ActionItems: []string{},
		FollowUps:   []string{},
		Topics:      []string{},
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskSuggestion is a task proposed from note content. It is returned to the
// caller and never stored automatically.
type TaskSuggestion struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Priority         Priority `json:"priority"`
	SuggestedDueDate *string  `json:"suggestedDueDate,omitempty"` // YYYY-MM-DD
}

// ActionItem is a meeting task; AssignedTo is empty when nobody was named.
type ActionItem struct {
	Task       string `json:"task"`
	AssignedTo string `json:"assignedTo"`
}

// MeetingAnalysis is the minutes-of-meeting breakdown of a transcript.
type MeetingAnalysis struct {
	Summary      string       `json:"summary"`
	KeyDecisions []string     `json:"keyDecisions"`
	ActionItems  []ActionItem `json:"actionItems"`
	FollowUps    []string     `json:"followUps"`
	Topics       []string     `json:"topics"`
}

func EmptyMeetingAnalysis() MeetingAnalysis {
	return MeetingAnalysis{
		KeyDecisions: []string{},
		ActionItems:  []ActionItem{},
		FollowUps:    []string{},
		Topics:       []string{},
	}
}

// DailySummaryInput is the composite a daily summary is written from. Tasks
// and expenses are passed through to the model as-is.
type DailySummaryInput struct {
	Date     string           `json:"date,omitempty"`
	Notes    []string         `json:"notes"`
	Tasks    []map[string]any `json:"tasks"`
	Expenses []map[string]any `json:"expenses"`
}

func (in DailySummaryInput) empty() bool {
	return len(in.Notes) == 0 && len(in.Tasks) == 0 && len(in.Expenses) == 0
}
