package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

// Service sequences the voice-chat pipeline over the three provider ports.
type Service struct {
	stt Transcriber
	llm Responder
	tts Synthesizer
	log *logger.ZapLogger
}

func NewService(stt Transcriber, llm Responder, tts Synthesizer, log *logger.ZapLogger) *Service {
	return &Service{
		stt: stt,
		llm: llm,
		tts: tts,
		log: log,
	}
}

// Respond runs one request through the pipeline: persist the upload,
// transcribe, validate history, generate a reply, synthesize it, encode the
// audio. A non-nil error is always a *Failure. The temporary audio file is
// removed on every exit path.
func (s *Service) Respond(ctx context.Context, req Request) (*Response, error) {
	tmpPath, err := s.persistAudio(req)
	if err != nil {
		return nil, fail(StageUpload, http.StatusInternalServerError,
			"An internal server error occurred.", err)
	}
	defer s.removeTemp(tmpPath)

	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	userText, err := s.stt.Transcribe(ctx, tmpPath, language)
	if err != nil {
		return nil, fail(StageTranscription, http.StatusBadRequest,
			"Failed to transcribe audio.", err)
	}
	if userText == "" {
		return nil, fail(StageTranscription, http.StatusBadRequest,
			"Failed to transcribe audio.", errors.New("empty transcription"))
	}

	var history []Turn
	if req.HistoryJSON != "" {
		history, err = ParseHistory(req.HistoryJSON)
		if err != nil {
			return nil, fail(StageHistory, http.StatusBadRequest,
				"Invalid history format: "+err.Error(), err)
		}
	}

	reply, err := s.llm.Generate(ctx, userText, history)
	if err != nil {
		return nil, fail(StageDialogue, http.StatusInternalServerError,
			"Failed to generate response from language model.", err)
	}
	if reply == "" {
		// the adapter guarantees non-empty text, so this is a backend bug
		return nil, fail(StageDialogue, http.StatusInternalServerError,
			"Failed to generate response from language model.", errors.New("empty reply"))
	}

	audio, err := s.tts.Synthesize(ctx, reply)
	if err != nil {
		return nil, fail(StageSynthesis, http.StatusInternalServerError,
			"Failed to convert response to speech.", err)
	}
	if len(audio) == 0 {
		return nil, fail(StageSynthesis, http.StatusInternalServerError,
			"Failed to convert response to speech.", errors.New("empty audio buffer"))
	}

	return &Response{
		UserTranscription: userText,
		BotResponseText:   reply,
		BotResponseAudio:  base64.StdEncoding.EncodeToString(audio),
	}, nil
}

// persistAudio materializes the upload under a uuid-unique name, keeping the
// original extension so the converter can detect the container.
func (s *Service) persistAudio(req Request) (string, error) {
	ext := filepath.Ext(req.Filename)
	path := filepath.Join(os.TempDir(), "voicechat-"+uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, req.Audio); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// removeTemp logs removal errors but never fails the request over them.
func (s *Service) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "failed to remove temp audio " + path,
			Error:   err,
		})
	}
}
