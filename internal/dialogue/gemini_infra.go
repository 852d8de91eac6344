package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/voice_relay/internal/chat"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generation parameters are fixed; callers cannot tune them per request.
const (
	temperature     = 0.7
	topP            = 1.0
	topK            = 1
	maxOutputTokens = 2048
)

const fallbackReply = "I'm sorry, I couldn't generate a response for that."

const requestTimeout = 120 * time.Second

// GeminiClient is the dialogue backend adapter.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate sends userText to Gemini. Non-empty history seeds a chat session
// with exactly that history; otherwise the text goes as a single turn.
// Safety blocks and empty replies come back as user-facing sentences, never
// as errors: only transport and backend failures return a non-nil error.
func (c *GeminiClient) Generate(ctx context.Context, userText string, history []chat.Turn) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetTopK(topK)
	model.SetMaxOutputTokens(maxOutputTokens)
	model.SafetySettings = safetySettings()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if len(history) > 0 {
		cs := model.StartChat()
		cs.History = historyContents(history)
		resp, err = cs.SendMessage(ctx, genai.Text(userText))
	} else {
		resp, err = model.GenerateContent(ctx, genai.Text(userText))
	}
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	return replyText(resp), nil
}

// All four categories blocked at medium and above.
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockMediumAndAbove,
		})
	}
	return settings
}

func historyContents(history []chat.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, genai.Text(p))
		}
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: parts,
		})
	}
	return contents
}

// replyText extracts the generated text, falling back to an explanatory
// sentence on a safety block and to a generic apology when the backend
// returns nothing at all.
func replyText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() > 0 {
		return sb.String()
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return fmt.Sprintf("I cannot respond to that due to safety guidelines (%s).",
			resp.PromptFeedback.BlockReason)
	}
	return fallbackReply
}
