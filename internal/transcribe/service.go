package transcribe

import (
	"context"
	"fmt"
	"os"

	"github.com/Vovarama1992/go-utils/logger"
)

// Backend is the speech-to-text provider behind the adapter.
type Backend interface {
	Recognize(ctx context.Context, wavPath, language string) (string, error)
}

type Service struct {
	converter Converter
	backend   Backend
	log       *logger.ZapLogger
}

func NewService(converter Converter, backend Backend, log *logger.ZapLogger) *Service {
	return &Service{
		converter: converter,
		backend:   backend,
		log:       log,
	}
}

// Transcribe normalizes the audio file through a transient WAV artifact and
// sends it to the backend. The artifact is removed regardless of outcome.
func (s *Service) Transcribe(ctx context.Context, srcPath, language string) (string, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingAudio, err)
	}

	wavPath, err := s.converter.ToWav(ctx, srcPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadAudio, err)
	}
	defer func() {
		if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
			s.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "failed to remove temp wav " + wavPath,
				Error:   err,
			})
		}
	}()

	text, err := s.backend.Recognize(ctx, wavPath, language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
