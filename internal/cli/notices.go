package cli

import (
	"errors"
	"fmt"

	"github.com/AshayV04/Speech-to-Speech-Translator/internal/playback"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/recognize"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/translate"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/tts"
)

// noticeFor converts a step failure into the dialog-style notice shown to
// the user. Every classified error keeps its own message; anything else
// falls through to the unexpected-error notice.
func noticeFor(err error) (title, message string) {
	switch {
	case errors.Is(err, recognize.ErrTimeout):
		return "Speech Recognition Error", "Listening timed out. Please try again."
	case errors.Is(err, recognize.ErrUnintelligible):
		return "Speech Recognition Error", "Speech recognition could not understand audio"
	case errors.Is(err, recognize.ErrService):
		return "Speech Recognition Error", fmt.Sprintf("Could not request results from speech recognition service; %v", err)
	case errors.Is(err, translate.ErrTranslation):
		return "Translation Error", fmt.Sprintf("An error occurred during translation: %v", err)
	case errors.Is(err, tts.ErrSynthesis), errors.Is(err, playback.ErrPlayback):
		return "Audio Generation Error", fmt.Sprintf("An error occurred while generating audio: %v", err)
	default:
		return "Error", fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

func (a *appState) showNotice(err error) {
	title, message := noticeFor(err)
	fmt.Fprintf(a.errWriter(), "[%s] %s\n", title, message)
}

// ErrNotified marks a failure whose notice has already been printed. The
// process still exits nonzero, but the raw error is not printed again.
var ErrNotified = errors.New("notice already shown")

// notify prints the notice for a step failure and returns ErrNotified, so
// one-shot commands surface errors the same way the session loop does.
func (a *appState) notify(err error) error {
	a.showNotice(err)
	return ErrNotified
}
