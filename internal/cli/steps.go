package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AshayV04/Speech-to-Speech-Translator/internal/audio"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/language"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/recognize"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/record"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/translate"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/tts"
	"go.uber.org/zap"
)

// captureUtterance is the recognition worker body: record one bounded
// utterance, gate silence, submit the rest to the recognition provider. The
// capture subprocess releases the microphone on every path out.
func (a *appState) captureUtterance(ctx context.Context, lang language.Language) (string, error) {
	recognizer, err := recognize.New(a.recognizer, a.log())
	if err != nil {
		return "", err
	}

	wavPath, err := a.recordingOutputPath()
	if err != nil {
		return "", err
	}

	captureBudget := a.listenTimeout + a.phraseLimit
	captureCtx, cancel := context.WithTimeout(ctx, captureBudget)
	defer cancel()

	started := time.Now()
	backendName, err := record.CaptureUtterance(captureCtx, a.backend, record.Config{
		OutputPath:  wavPath,
		PhraseLimit: a.phraseLimit,
		SampleRate:  16000,
		Channels:    1,
		Input:       a.input,
		Format:      a.inputFormat,
		Logger:      a.log(),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no capture within %s", recognize.ErrTimeout, captureBudget)
		}
		return "", err
	}

	defer func() {
		if a.keepAudio {
			return
		}
		if err := os.Remove(wavPath); err != nil {
			a.log().Warn("failed to remove utterance recording", zap.String("path", wavPath), zap.Error(err))
		}
	}()

	a.log().Debug("utterance captured",
		zap.String("backend", backendName),
		zap.String("path", wavPath),
		zap.Duration("elapsed", time.Since(started)))

	if a.silenceGate {
		metrics, err := audio.Analyze(wavPath)
		if err != nil {
			a.log().Warn("silence gate analysis failed; submitting capture anyway", zap.Error(err), zap.String("path", wavPath))
		} else if metrics.SilentBelow(a.silenceDBFS) {
			a.log().Info("capture considered silent; skipping recognition",
				zap.Float64("rms_dbfs", metrics.RMSdBFS),
				zap.Float64("peak_dbfs", metrics.PeakdBFS),
				zap.Float64("threshold_dbfs", a.silenceDBFS))
			return "", fmt.Errorf("%w: capture holds no speech", recognize.ErrUnintelligible)
		}
	}

	return recognizer.Recognize(ctx, recognize.Request{AudioPath: wavPath, Language: lang.Code})
}

func (a *appState) translateText(ctx context.Context, text string, source, target language.Language) (string, error) {
	translator := translate.NewGoogleTranslator(translate.GoogleOptions{Logger: a.log()})
	return translator.Translate(ctx, text, source.Code, target.Code)
}

// synthesizeAndPlay fetches the audio payload, hands it to the artifact
// store (which removes the artifact it replaces), and starts playback.
// Returns the new artifact path.
func (a *appState) synthesizeAndPlay(ctx context.Context, text string, lang language.Language) (string, error) {
	synth, err := tts.New(a.synthesizer, a.voice, a.log())
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrSynthesis, err)
	}

	payload, err := synth.Synthesize(ctx, text, lang.Code)
	if err != nil {
		return "", err
	}

	store, err := a.artifactStore()
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrSynthesis, err)
	}

	path, err := store.Put(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrSynthesis, err)
	}

	if err := a.playerHandle().Play(path); err != nil {
		return path, err
	}

	return path, nil
}
