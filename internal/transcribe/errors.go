package transcribe

import "errors"

// The adapter collapses everything into four distinguishable failure kinds
// so callers can tell client-side audio problems from backend trouble.
var (
	ErrMissingAudio = errors.New("audio file missing or unreadable")
	ErrBadAudio     = errors.New("audio could not be decoded")
	ErrNoSpeech     = errors.New("no speech recognized")
	ErrBackend      = errors.New("transcription backend error")
)
