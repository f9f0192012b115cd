package extractor

const noteEntitiesPrompt = `You are an AI assistant that extracts structured data from personal daily notes.

Extract:
1. People mentioned (names)
2. Dates mentioned (ISO format YYYY-MM-DD when the date can be resolved, otherwise as written)
3. Places/locations mentioned
4. Action items/tasks
5. Follow-ups needed
6. Key topics

Respond with a single JSON object matching this schema exactly:
{
  "people": ["name1", "name2"],
  "dates": ["2024-01-15"],
  "places": ["location1"],
  "actionItems": ["task1", "task2"],
  "followUps": ["followup1"],
  "topics": ["topic1", "topic2"]
}

Use an empty array for any category with nothing to report. Never omit a key.
Return ONLY the JSON object, no markdown fences or other text.`

const taskSuggestionsPrompt = `You are an AI assistant that suggests actionable tasks from personal notes.

Analyze the note and suggest concrete tasks the author should do.

Respond with a JSON array matching this schema exactly:
[
  {
    "title": "Task title",
    "description": "Task description",
    "priority": "high|medium|low",
    "suggestedDueDate": "2024-01-15"
  }
]

- "title" is required and short (under 80 characters)
- "priority" must be one of high, medium, low
- "suggestedDueDate" is YYYY-MM-DD or omitted when no date is implied
- Return [] when the note implies no tasks

Return ONLY the JSON array, no markdown fences or other text.`

const meetingAnalysisPrompt = `You are an AI assistant that creates Minutes of Meeting (MOM) from transcripts.

Extract:
1. Meeting summary (2-3 sentences)
2. Key decisions made
3. Action items with responsible persons
4. Follow-ups needed
5. Important topics discussed

Respond with a single JSON object matching this schema exactly:
{
  "summary": "Meeting summary",
  "keyDecisions": ["decision1", "decision2"],
  "actionItems": [{"task": "...", "assignedTo": "..."}],
  "followUps": ["followup1"],
  "topics": ["topic1", "topic2"]
}

Use "" for assignedTo when nobody took the item. Use empty arrays, never null.
Return ONLY the JSON object, no markdown fences or other text.`

const dailySummaryPrompt = `You are an AI assistant that creates daily productivity summaries.

The user message is a JSON object with the day's notes, tasks and expenses.
Create a concise, executive-style summary of the day's activities.

Include:
- Key accomplishments
- Tasks completed vs pending
- Important notes
- Financial snapshot (if expenses present)
- Recommendations for tomorrow

Keep it professional and actionable. Respond in plain prose, not JSON.`

type kindSpec struct {
	system      string
	temperature float64
	maxTokens   int
}

var kindSpecs = map[Kind]kindSpec{
	KindNoteEntities:    {system: noteEntitiesPrompt, temperature: 0.3, maxTokens: 500},
	KindTaskSuggestions: {system: taskSuggestionsPrompt, temperature: 0.5, maxTokens: 800},
	KindMeetingAnalysis: {system: meetingAnalysisPrompt, temperature: 0.3, maxTokens: 1500},
	KindDailySummary:    {system: dailySummaryPrompt, temperature: 0.7, maxTokens: 800},
}
