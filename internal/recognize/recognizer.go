package recognize

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Classified recognition failures. The session maps each to its own notice;
// anything not matching these sentinels surfaces as an unknown error.
var (
	ErrTimeout        = errors.New("listening timed out")
	ErrUnintelligible = errors.New("speech could not be understood")
	ErrService        = errors.New("recognition service unreachable")
)

// Request carries one captured utterance to a recognition provider.
type Request struct {
	// AudioPath points at the captured WAV file.
	AudioPath string
	// Language is the source language code, e.g. "en" or "zh-CN".
	Language string
}

type Recognizer interface {
	Recognize(ctx context.Context, req Request) (string, error)
	Name() string
}

// New selects a recognition provider by name.
func New(provider string, logger *zap.Logger) (Recognizer, error) {
	switch provider {
	case "", "google":
		return NewGoogleRecognizer(GoogleOptions{Logger: logger}), nil
	case "whisper":
		return NewWhisperRecognizer(WhisperOptions{Logger: logger})
	default:
		return nil, fmt.Errorf("unknown recognizer %q (expected google or whisper)", provider)
	}
}

func classifyCtxErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return nil
}
