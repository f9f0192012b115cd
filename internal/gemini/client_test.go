package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"people":`), genai.Text(`[]}`)}}},
		},
	}

	if got := candidateText(resp); got != `{"people":[]}` {
		t.Errorf("unexpected text %q", got)
	}
}

func TestCandidateText_Empty(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"no text parts": {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			if got := candidateText(resp); got != "" {
				t.Errorf("expected empty text, got %q", got)
			}
		})
	}
}
