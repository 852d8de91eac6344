package transcribe

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperClient sends normalized WAV audio to the OpenAI transcription API.
type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey string) *WhisperClient {
	return &WhisperClient{client: openai.NewClient(apiKey)}
}

// Recognize returns the transcript of the WAV file. language is a BCP-47
// tag; Whisper takes only its primary subtag ("en-US" -> "en").
func (c *WhisperClient) Recognize(ctx context.Context, wavPath, language string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: wavPath,
		Language: primarySubtag(language),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func primarySubtag(tag string) string {
	if i := strings.IndexByte(tag, '-'); i > 0 {
		return tag[:i]
	}
	return tag
}
