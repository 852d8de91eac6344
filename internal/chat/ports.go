package chat

import "context"

// Transcriber converts a stored audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path, language string) (string, error)
}

// Responder produces the reply for the transcribed utterance. A non-empty
// reply with a nil error is the only success shape; safety blocks come back
// as user-facing text, not errors.
type Responder interface {
	Generate(ctx context.Context, userText string, history []Turn) (string, error)
}

// Synthesizer renders reply text as one encoded audio buffer.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
