package translate

import (
	"context"
	"errors"
)

// ErrTranslation wraps every translation-step failure; service detail is
// carried through as message text.
var ErrTranslation = errors.New("translation failed")

type Translator interface {
	// Translate converts non-empty text between two language codes. A
	// same-code pair is passed through to the service, not rejected.
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}
