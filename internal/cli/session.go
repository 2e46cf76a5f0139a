package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AshayV04/Speech-to-Speech-Translator/internal/language"
	"go.uber.org/zap"
)

type sessionState int32

const (
	stateIdle sessionState = iota
	stateListening
)

// recognitionOutcome is the single message the worker posts back to the
// session goroutine: recognized text or a classified failure.
type recognitionOutcome struct {
	text string
	err  error
}

var errCaptureInFlight = errors.New("a capture is already in flight")

// runSession drives the interactive loop. The Enter trigger is not read
// again until the previous cycle's outcome has been consumed, so at most
// one recognition attempt runs at a time and the trigger is always re-armed
// after any outcome, success or failure.
func (a *appState) runSession(ctx context.Context) error {
	out := a.outWriter()
	fmt.Fprintf(out, "Translating %s speech to %s.\n", a.source, a.target)

	reader := bufio.NewReader(a.stdin())
	for {
		fmt.Fprintln(out, "Press Enter to speak (q to quit).")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read trigger: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(line), "q") {
			return nil
		}

		if err := a.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			a.showNotice(err)
		}
	}
}

// runCycle is one Idle -> Listening -> Idle pass of the state machine: the
// worker captures and recognizes off the session goroutine and posts exactly
// one outcome; translation and synthesis then run inline.
func (a *appState) runCycle(ctx context.Context) error {
	if !a.state.CompareAndSwap(int32(stateIdle), int32(stateListening)) {
		return errCaptureInFlight
	}
	defer a.state.Store(int32(stateIdle))

	outcome := a.listenOnce(ctx)
	if outcome.err != nil {
		return outcome.err
	}

	fmt.Fprintf(a.outWriter(), "You said:    %s\n", outcome.text)

	stop := phaseSpinner(a.progressEnabled(), "Translating")
	translated, err := a.translateStep(ctx, outcome.text, a.source, a.target)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outWriter(), "Translation: %s\n", translated)

	if a.copyResult {
		if err := a.copyStep(ctx, translated); err != nil {
			a.log().Warn("failed to copy translation to clipboard", zap.Error(err))
		} else {
			a.log().Info("translation copied to clipboard")
		}
	}

	stop = phaseSpinner(a.progressEnabled(), "Synthesizing")
	path, err := a.speakStep(ctx, translated, a.target)
	stop()
	if err != nil {
		return err
	}

	a.log().Debug("playback started", zap.String("artifact", path))
	return nil
}

// listenOnce runs the recognition worker and blocks until its single
// outcome message arrives. On cancellation it still waits for the worker so
// the microphone is released before returning.
func (a *appState) listenOnce(ctx context.Context) recognitionOutcome {
	stop := listeningCountdown(a.progressEnabled(), a.phraseLimit)
	defer stop()

	outcomeCh := make(chan recognitionOutcome, 1)
	go func() {
		text, err := a.captureStep(ctx, a.source)
		outcomeCh <- recognitionOutcome{text: text, err: err}
	}()

	select {
	case outcome := <-outcomeCh:
		return outcome
	case <-ctx.Done():
		<-outcomeCh
		return recognitionOutcome{err: ctx.Err()}
	}
}

func (a *appState) captureStep(ctx context.Context, lang language.Language) (string, error) {
	if a.captureFn != nil {
		return a.captureFn(ctx, lang)
	}
	return a.captureUtterance(ctx, lang)
}

func (a *appState) translateStep(ctx context.Context, text string, source, target language.Language) (string, error) {
	if a.translateFn != nil {
		return a.translateFn(ctx, text, source, target)
	}
	return a.translateText(ctx, text, source, target)
}

func (a *appState) speakStep(ctx context.Context, text string, lang language.Language) (string, error) {
	if a.speakFn != nil {
		return a.speakFn(ctx, text, lang)
	}
	return a.synthesizeAndPlay(ctx, text, lang)
}

func (a *appState) copyStep(ctx context.Context, value string) error {
	if a.copyFn != nil {
		return a.copyFn(ctx, value)
	}
	return nil
}
