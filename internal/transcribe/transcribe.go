// Package transcribe converts uploaded audio into text.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// AssumedBytesPerSecond is the bitrate used to approximate clip length from
// its size. It is not a decode; compressed formats will be off.
const AssumedBytesPerSecond = 16000

var ErrEmptyAudio = errors.New("audio payload is empty")

// Transcriber turns a finite audio clip into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error)
}

// FileTranscriber is a speech-to-text service that reads audio from disk.
type FileTranscriber interface {
	TranscribeFile(ctx context.Context, path, language string) (string, error)
}

// Staged writes each clip to its own temporary file, hands the path to a
// FileTranscriber and removes the file on every return path.
type Staged struct {
	svc    FileTranscriber
	dir    string
	logger *slog.Logger
}

// NewStaged stages files under dir; an empty dir means os.TempDir.
func NewStaged(svc FileTranscriber, dir string, logger *slog.Logger) *Staged {
	return &Staged{svc: svc, dir: dir, logger: logger}
}

func (s *Staged) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	f, err := os.CreateTemp(s.dir, "audio-*"+audioExt(filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer s.remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	text, err := s.svc.TranscribeFile(ctx, path, language)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (s *Staged) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove staged audio", "path", path, "error", err)
	}
}

var knownExts = map[string]bool{
	".flac": true, ".m4a": true, ".mp3": true, ".mp4": true, ".mpeg": true,
	".mpga": true, ".oga": true, ".ogg": true, ".wav": true, ".webm": true,
}

// audioExt keeps the upload's extension when the speech service accepts it.
func audioExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if knownExts[ext] {
		return ext
	}
	return ".webm"
}

// EstimateDuration approximates clip length in whole seconds.
func EstimateDuration(size int) int {
	return size / AssumedBytesPerSecond
}
