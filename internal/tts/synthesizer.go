package tts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrSynthesis wraps every synthesis-step failure.
var ErrSynthesis = errors.New("speech synthesis failed")

type Synthesizer interface {
	// Synthesize converts non-empty text in the given language into an MP3
	// payload.
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
	Name() string
}

// New selects a synthesis provider by name. The voice id only applies to
// providers with selectable voices.
func New(provider, voice string, logger *zap.Logger) (Synthesizer, error) {
	switch provider {
	case "", "google":
		return NewGoogleSynthesizer(GoogleOptions{Logger: logger}), nil
	case "elevenlabs":
		return NewElevenLabsSynthesizer(ElevenLabsOptions{VoiceID: voice, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown synthesizer %q (expected google or elevenlabs)", provider)
	}
}
