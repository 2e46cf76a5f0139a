package cli

import (
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

type stopFunc func()

// phaseSpinner shows an indeterminate spinner while a network phase
// (Translating, Synthesizing) is in flight. The returned stop clears it.
func phaseSpinner(enabled bool, phase string) stopFunc {
	if !enabled {
		return func() {}
	}

	bar := progressbar.NewOptions(
		-1,
		progressbar.OptionSetDescription(phase),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	return animate(bar, 120*time.Millisecond)
}

// listeningCountdown counts whole seconds toward the phrase limit while the
// microphone is open, so the speaker can see how long they have left. A
// sub-second limit still renders a single step.
func listeningCountdown(enabled bool, limit time.Duration) stopFunc {
	if !enabled || limit <= 0 {
		return func() {}
	}

	seconds := int64(limit / time.Second)
	if seconds <= 0 {
		seconds = 1
	}

	bar := progressbar.NewOptions64(
		seconds,
		progressbar.OptionSetDescription("Listening"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	return animate(bar, time.Second)
}

// animate advances the bar once per tick until stopped. The returned stop
// blocks until the bar has been cleared and is safe to call more than once.
func animate(bar *progressbar.ProgressBar, tick time.Duration) stopFunc {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-doneCh
		})
	}
}
