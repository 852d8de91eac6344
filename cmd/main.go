package main

import (
	"context"
	"log"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_relay/internal/chat"
	"github.com/Vovarama1992/voice_relay/internal/config"
	"github.com/Vovarama1992/voice_relay/internal/delivery"
	"github.com/Vovarama1992/voice_relay/internal/dialogue"
	"github.com/Vovarama1992/voice_relay/internal/speech"
	"github.com/Vovarama1992/voice_relay/internal/transcribe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// PROVIDER CLIENTS (STT / LLM / TTS)
	// =========================================================================

	sttService := transcribe.NewService(
		transcribe.NewFFmpegConverter(),
		transcribe.NewWhisperClient(cfg.OpenAIKey),
		zl,
	)

	geminiClient, err := dialogue.NewGeminiClient(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("failed to init gemini client: %v", err)
	}
	defer geminiClient.Close()

	ttsClient := speech.NewElevenLabsClient(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID)

	// =========================================================================
	// PIPELINE
	// =========================================================================

	chatService := chat.NewService(sttService, geminiClient, ttsClient, zl)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	voiceHandler := delivery.NewVoiceHandler(chatService, zl)
	delivery.RegisterRoutes(r, voiceHandler)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice_relay",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
