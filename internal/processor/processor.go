package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/exeai/internal/extractor"
	"github.com/MikeSquared-Agency/exeai/internal/hermes"
	"github.com/MikeSquared-Agency/exeai/internal/store"
	"github.com/MikeSquared-Agency/exeai/internal/transcribe"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrEmptyAudio        = transcribe.ErrEmptyAudio
)

// Store is the persistence the processor needs. *store.Store satisfies it.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	UpsertDailyNote(ctx context.Context, userID uuid.UUID, date time.Time, content string) (*store.DailyNote, error)
	GetDailyNote(ctx context.Context, userID uuid.UUID, date time.Time) (*store.DailyNote, error)
	ListRecentDailyNotes(ctx context.Context, userID uuid.UUID, limit int) ([]store.DailyNote, error)
	SetNoteEntities(ctx context.Context, noteID uuid.UUID, content string, entities extractor.NoteEntities) error
	CreateVoiceRecording(ctx context.Context, userID uuid.UUID, audioRef, transcription string, duration int) (*store.VoiceRecording, error)
	UpdateVoiceRecordingAnalysis(ctx context.Context, recordingID, userID uuid.UUID, a extractor.MeetingAnalysis) error
	GetVoiceRecording(ctx context.Context, recordingID, userID uuid.UUID) (*store.VoiceRecording, error)
}

// Uploader stores raw audio and returns a reference to it.
type Uploader interface {
	PutAudio(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (string, error)
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Audio is one uploaded clip.
type Audio struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Processor runs the per-request pipelines: persist first, then extract,
// then record the extraction and announce it.
type Processor struct {
	store       Store
	extractor   *extractor.Extractor
	transcriber transcribe.Transcriber
	uploader    Uploader  // nil keeps audio out of object storage
	publisher   Publisher // nil disables events
	language    string
	logger      *slog.Logger
}

func New(s Store, ext *extractor.Extractor, tr transcribe.Transcriber, up Uploader, pub Publisher, language string, logger *slog.Logger) *Processor {
	return &Processor{
		store:       s,
		extractor:   ext,
		transcriber: tr,
		uploader:    up,
		publisher:   pub,
		language:    language,
		logger:      logger,
	}
}

func (p *Processor) ResolveUser(ctx context.Context, email string) (*store.User, error) {
	u, err := p.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return u, nil
}

// SaveNote upserts the note for (user, day) and then parses it. A failed or
// degraded parse leaves the saved note with AIParsed false.
func (p *Processor) SaveNote(ctx context.Context, userID uuid.UUID, date time.Time, content string) (*store.DailyNote, error) {
	note, err := p.store.UpsertDailyNote(ctx, userID, date, content)
	if err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	p.publish(hermes.SubjectNoteSaved, hermes.Event{
		UserID:   userID.String(),
		EntityID: note.ID.String(),
		Date:     note.Date.Format(time.DateOnly),
	})

	result, err := p.extractor.ParseNote(ctx, content)
	if err != nil {
		p.logger.Warn("note parse failed, note saved unparsed", "note_id", note.ID, "error", err)
		return note, nil
	}
	if result.Degraded {
		p.logger.Info("note parse degraded", "note_id", note.ID, "reason", result.Reason)
		p.publish(hermes.SubjectNoteParsed, hermes.Event{
			UserID:   userID.String(),
			EntityID: note.ID.String(),
			Date:     note.Date.Format(time.DateOnly),
			Degraded: true,
		})
		return note, nil
	}

	err = p.store.SetNoteEntities(ctx, note.ID, content, result.Value)
	if errors.Is(err, store.ErrNotFound) {
		// Overwritten by a newer save; that save parses its own content.
		p.logger.Info("note changed before entities were stored", "note_id", note.ID)
		return note, nil
	}
	if err != nil {
		p.logger.Error("failed to store note entities", "note_id", note.ID, "error", err)
		return note, nil
	}

	entities := result.Value
	note.Entities = &entities
	note.AIParsed = true
	p.publish(hermes.SubjectNoteParsed, hermes.Event{
		UserID:   userID.String(),
		EntityID: note.ID.String(),
		Date:     note.Date.Format(time.DateOnly),
	})
	return note, nil
}

// GetNote returns the note for the day, or nil when there is none.
func (p *Processor) GetNote(ctx context.Context, userID uuid.UUID, date time.Time) (*store.DailyNote, error) {
	note, err := p.store.GetDailyNote(ctx, userID, date)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func (p *Processor) ListNotes(ctx context.Context, userID uuid.UUID) ([]store.DailyNote, error) {
	notes, err := p.store.ListRecentDailyNotes(ctx, userID, store.DefaultNoteLimit)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (p *Processor) SuggestTasks(ctx context.Context, content string) (extractor.Extraction[[]extractor.TaskSuggestion], error) {
	return p.extractor.SuggestTasks(ctx, content)
}

// TranscribeRecording transcribes the clip and only then stores it, so a
// failed transcription leaves no recording behind.
func (p *Processor) TranscribeRecording(ctx context.Context, userID uuid.UUID, audio Audio) (*store.VoiceRecording, error) {
	if len(audio.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	text, err := p.transcriber.Transcribe(ctx, audio.Data, audio.Filename, p.language)
	if err != nil {
		return nil, fmt.Errorf("transcribe recording: %w", err)
	}

	ref := "upload:" + audio.Filename
	if p.uploader != nil {
		ref, err = p.uploader.PutAudio(ctx, userID, audio.Filename, audio.ContentType, audio.Data)
		if err != nil {
			return nil, fmt.Errorf("upload recording: %w", err)
		}
	}

	rec, err := p.store.CreateVoiceRecording(ctx, userID, ref, text, transcribe.EstimateDuration(len(audio.Data)))
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	p.logger.Info("recording transcribed", "recording_id", rec.ID, "user_id", userID, "duration", rec.Duration)
	p.publish(hermes.SubjectVoiceTranscribed, hermes.Event{UserID: userID.String(), EntityID: rec.ID.String()})
	return rec, nil
}

// AnalyzeRecording produces minutes for a transcript. When recordingID is set
// the recording must belong to the user, and a non-degraded analysis is
// written onto it.
func (p *Processor) AnalyzeRecording(ctx context.Context, userID uuid.UUID, recordingID *uuid.UUID, transcript string) (extractor.Extraction[extractor.MeetingAnalysis], error) {
	if recordingID != nil {
		if _, err := p.store.GetVoiceRecording(ctx, *recordingID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return extractor.Extraction[extractor.MeetingAnalysis]{Value: extractor.EmptyMeetingAnalysis()}, ErrRecordingNotFound
			}
			return extractor.Extraction[extractor.MeetingAnalysis]{Value: extractor.EmptyMeetingAnalysis()}, fmt.Errorf("load recording: %w", err)
		}
	}

	result, err := p.extractor.AnalyzeMeeting(ctx, transcript)
	if err != nil {
		return result, err
	}
	if recordingID == nil || result.Degraded {
		return result, nil
	}

	err = p.store.UpdateVoiceRecordingAnalysis(ctx, *recordingID, userID, result.Value)
	if errors.Is(err, store.ErrNotFound) {
		return result, ErrRecordingNotFound
	}
	if err != nil {
		return result, fmt.Errorf("store analysis: %w", err)
	}

	p.publish(hermes.SubjectVoiceAnalyzed, hermes.Event{UserID: userID.String(), EntityID: recordingID.String()})
	return result, nil
}

// DailySummary summarizes the day's note together with caller-supplied tasks
// and expenses. Nothing to summarize yields an empty summary.
func (p *Processor) DailySummary(ctx context.Context, userID uuid.UUID, date time.Time, tasks, expenses []map[string]any) (extractor.Extraction[string], error) {
	in := extractor.DailySummaryInput{
		Date:     date.Format(time.DateOnly),
		Notes:    []string{},
		Tasks:    tasks,
		Expenses: expenses,
	}
	note, err := p.GetNote(ctx, userID, date)
	if err != nil {
		return extractor.Extraction[string]{}, err
	}
	if note != nil {
		in.Notes = append(in.Notes, note.Content)
	}

	result, err := p.extractor.DailySummary(ctx, in)
	if errors.Is(err, extractor.ErrEmptyInput) {
		return result, nil
	}
	return result, err
}

func (p *Processor) publish(subject string, ev hermes.Event) {
	if p.publisher == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := p.publisher.Publish(subject, ev); err != nil {
		p.logger.Error("failed to publish event", "subject", subject, "error", err)
	}
}
