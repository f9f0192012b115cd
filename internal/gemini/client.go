package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model, timeout: timeout}, nil
}

// Complete runs one generation with the system prompt as system instruction.
// A fresh GenerativeModel is built per call so concurrent requests never share
// sampling settings.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(temperature))
	model.SetMaxOutputTokens(int32(maxTokens))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return candidateText(resp), nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// candidateText joins the text parts of the first candidate. A reply with no
// text is not an error; callers decide what an empty reply means.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
