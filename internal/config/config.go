package config

import (
	"fmt"
	"os"
)

const (
	defaultPort        = "8000"
	defaultVoiceID     = "eVItLK1UvXctxuaRV2Oq"
	defaultGeminiModel = "gemini-1.5-flash"
)

// Config holds every process-wide setting. It is loaded once at startup and
// never mutated afterwards; request-handling code receives it through
// constructors, not env lookups.
type Config struct {
	Port string

	// transcription backend
	OpenAIKey string

	// dialogue backend
	GeminiKey   string
	GeminiModel string

	// synthesis backend
	ElevenLabsKey     string
	ElevenLabsVoiceID string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", defaultPort),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenv("GEMINI_MODEL", defaultGeminiModel),
		ElevenLabsKey:     os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: getenv("ELEVENLABS_VOICE_ID", defaultVoiceID),
	}

	for key, val := range map[string]string{
		"OPENAI_API_KEY":     cfg.OpenAIKey,
		"GEMINI_API_KEY":     cfg.GeminiKey,
		"ELEVENLABS_API_KEY": cfg.ElevenLabsKey,
	} {
		if val == "" {
			return nil, fmt.Errorf("%s is not set", key)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
