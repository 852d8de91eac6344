package chat

import (
	"encoding/json"
	"fmt"
	"io"
)

// DefaultLanguage is used when the caller omits language_code.
const DefaultLanguage = "en-US"

// Turn is one message of the conversation history.
type Turn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// Request carries one voice-chat submission. Audio is consumed exactly once.
type Request struct {
	Audio       io.Reader
	Filename    string
	HistoryJSON string
	Language    string
}

// Response is the endpoint payload. BotResponseAudio is the synthesized
// audio encoded as base64.
type Response struct {
	UserTranscription string `json:"user_transcription"`
	BotResponseText   string `json:"bot_response_text"`
	BotResponseAudio  string `json:"bot_response_audio"`
}

// ParseHistory turns the raw history_json form field into validated turns.
// Every element must carry role ("user" or "model") and a non-empty parts
// list; anything else rejects the whole payload.
func ParseHistory(raw string) ([]Turn, error) {
	var items *[]struct {
		Role  *string   `json:"role"`
		Parts *[]string `json:"parts"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("history must be a JSON list of turns: %w", err)
	}
	if items == nil {
		return nil, fmt.Errorf("history must be a JSON list of turns, got null")
	}

	turns := make([]Turn, 0, len(*items))
	for i, item := range *items {
		if item.Role == nil || item.Parts == nil {
			return nil, fmt.Errorf("history item %d: missing role or parts", i)
		}
		if *item.Role != "user" && *item.Role != "model" {
			return nil, fmt.Errorf("history item %d: role must be user or model", i)
		}
		if len(*item.Parts) == 0 {
			return nil, fmt.Errorf("history item %d: parts is empty", i)
		}
		turns = append(turns, Turn{Role: *item.Role, Parts: *item.Parts})
	}
	return turns, nil
}
