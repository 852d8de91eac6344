package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	modelID        = "eleven_multilingual_v2"
)

// Voice rendering parameters are fixed for every request.
var voiceSettings = map[string]any{
	"stability":         0.5,
	"similarity_boost":  0.75,
	"style":             0.0,
	"use_speaker_boost": true,
}

// ElevenLabsClient is the synthesis backend adapter.
type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	baseURL string
	httpCli *http.Client
}

func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

// Synthesize renders text with the configured voice and returns the full
// encoded audio buffer. The backend streams; the stream is drained here, so
// callers always get one contiguous buffer.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is not set")
	}
	if text == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}

	payload, err := json.Marshal(map[string]any{
		"text":           text,
		"model_id":       modelID,
		"voice_settings": voiceSettings,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs status %d: %s", resp.StatusCode, body)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs stream: %w", err)
	}
	return audio, nil
}
