package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/voice_relay/internal/chat"
)

const maxUploadBytes = 20 << 20

// VoiceChat is the pipeline behind the endpoint.
type VoiceChat interface {
	Respond(ctx context.Context, req chat.Request) (*chat.Response, error)
}

type VoiceHandler struct {
	service VoiceChat
	log     *logger.ZapLogger
}

func NewVoiceHandler(service VoiceChat, log *logger.ZapLogger) *VoiceHandler {
	return &VoiceHandler{
		service: service,
		log:     log,
	}
}

// Welcome is the liveness route.
func (h *VoiceHandler) Welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Voice Chatbot API!",
	})
}

// ChatVoice handles one voice-chat turn: multipart audio_file plus optional
// history_json and language_code form fields.
func (h *VoiceHandler) ChatVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio_file")
		return
	}
	defer file.Close()

	resp, err := h.service.Respond(r.Context(), chat.Request{
		Audio:       file,
		Filename:    header.Filename,
		HistoryJSON: r.FormValue("history_json"),
		Language:    r.FormValue("language_code"),
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeFailure maps a pipeline failure to the boundary. The caller sees only
// the public detail; the full cause goes to the logs.
func (h *VoiceHandler) writeFailure(w http.ResponseWriter, err error) {
	var f *chat.Failure
	if !errors.As(err, &f) {
		f = &chat.Failure{
			Stage:  chat.StageInternal,
			Status: http.StatusInternalServerError,
			Detail: "An internal server error occurred.",
			Err:    err,
		}
	}

	h.log.Log(logger.LogEntry{
		Level:   "error",
		Message: "voice chat failed at stage " + string(f.Stage),
		Error:   f,
	})

	writeError(w, f.Status, f.Detail)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
