package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrUnavailable wraps every failure to obtain a reply from the model.
	ErrUnavailable = errors.New("extraction unavailable")
	ErrEmptyInput  = errors.New("extraction input is empty")
)

// Completer is a hosted text-completion endpoint.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

type Extractor struct {
	llm    Completer
	logger *slog.Logger
}

func New(llm Completer, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// ParseNote extracts people, dates, places, action items, follow-ups and
// topics from note content.
func (e *Extractor) ParseNote(ctx context.Context, content string) (Extraction[NoteEntities], error) {
	out := Extraction[NoteEntities]{Value: EmptyNoteEntities()}
	if strings.TrimSpace(content) == "" {
		return out, ErrEmptyInput
	}

	raw, err := e.complete(ctx, KindNoteEntities, content)
	if err != nil {
		return degrade(out, err), err
	}
	v, err := decodeNoteEntities(raw)
	if err != nil {
		e.rejected(KindNoteEntities, raw, err)
		return degrade(out, err), nil
	}
	out.Value = v
	return out, nil
}

// SuggestTasks proposes tasks from note content.
func (e *Extractor) SuggestTasks(ctx context.Context, content string) (Extraction[[]TaskSuggestion], error) {
	out := Extraction[[]TaskSuggestion]{Value: []TaskSuggestion{}}
	if strings.TrimSpace(content) == "" {
		return out, ErrEmptyInput
	}

	raw, err := e.complete(ctx, KindTaskSuggestions, content)
	if err != nil {
		return degrade(out, err), err
	}
	v, err := decodeTaskSuggestions(raw)
	if err != nil {
		e.rejected(KindTaskSuggestions, raw, err)
		return degrade(out, err), nil
	}
	out.Value = v
	return out, nil
}

// AnalyzeMeeting turns a meeting transcript into minutes.
func (e *Extractor) AnalyzeMeeting(ctx context.Context, transcript string) (Extraction[MeetingAnalysis], error) {
	out := Extraction[MeetingAnalysis]{Value: EmptyMeetingAnalysis()}
	if strings.TrimSpace(transcript) == "" {
		return out, ErrEmptyInput
	}

	raw, err := e.complete(ctx, KindMeetingAnalysis, transcript)
	if err != nil {
		return degrade(out, err), err
	}
	v, err := decodeMeetingAnalysis(raw)
	if err != nil {
		e.rejected(KindMeetingAnalysis, raw, err)
		return degrade(out, err), nil
	}
	out.Value = v
	return out, nil
}

// DailySummary writes a prose summary of the day. The reply is not JSON and
// is returned trimmed but otherwise unparsed.
func (e *Extractor) DailySummary(ctx context.Context, in DailySummaryInput) (Extraction[string], error) {
	var out Extraction[string]
	if in.empty() {
		return out, ErrEmptyInput
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return out, fmt.Errorf("marshal summary input: %w", err)
	}

	raw, err := e.complete(ctx, KindDailySummary, string(payload))
	if err != nil {
		return degrade(out, err), err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		e.rejected(KindDailySummary, raw, errEmptyReply)
		return degrade(out, errEmptyReply), nil
	}
	out.Value = text
	return out, nil
}

func (e *Extractor) complete(ctx context.Context, kind Kind, input string) (string, error) {
	spec := kindSpecs[kind]

	e.logger.Info("running extraction", "kind", kind, "input_len", len(input))

	raw, err := e.llm.Complete(ctx, spec.system, input, spec.temperature, spec.maxTokens)
	if err != nil {
		e.logger.Error("extraction call failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, kind, err)
	}

	e.logger.Info("extraction complete", "kind", kind, "reply_len", len(raw))
	return raw, nil
}

func (e *Extractor) rejected(kind Kind, raw string, err error) {
	e.logger.Warn("extraction reply rejected, using defaults", "kind", kind, "reason", err.Error())
	e.logger.Debug("rejected extraction reply", "kind", kind, "raw", raw)
}

func degrade[T any](out Extraction[T], err error) Extraction[T] {
	out.Degraded = true
	switch {
	case errors.Is(err, ErrUnavailable):
		out.Reason = ErrUnavailable.Error()
	default:
		out.Reason = err.Error()
	}
	return out
}
