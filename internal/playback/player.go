package playback

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

// ErrPlayback wraps media-output failures.
var ErrPlayback = errors.New("audio playback failed")

type Player interface {
	// Play starts asynchronous playback of a local MP3 file. Starting a new
	// playback stops the previous one; at most one is ever active.
	Play(path string) error
	// Stop halts any active playback.
	Stop()
	// Drain blocks until the most recently started playback finishes.
	Drain()
}

// playbackHandle tracks one started playback. finish releases the decoder
// (and its file) and unblocks Drain; it runs exactly once whether the
// stream ends naturally or is interrupted.
type playbackHandle struct {
	stream beep.StreamSeekCloser
	done   chan struct{}
	logger *zap.Logger
	once   sync.Once
}

func (h *playbackHandle) finish() {
	h.once.Do(func() {
		if err := h.stream.Close(); err != nil {
			h.logger.Warn("failed to close playback stream", zap.Error(err))
		}
		close(h.done)
	})
}

// SpeakerPlayer renders MP3 artifacts on the default output device via the
// beep speaker.
type SpeakerPlayer struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
	current     *playbackHandle
	logger      *zap.Logger
}

func NewSpeakerPlayer(logger *zap.Logger) *SpeakerPlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpeakerPlayer{logger: logger}
}

func (p *SpeakerPlayer) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open artifact: %v", ErrPlayback, err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: decode artifact: %v", ErrPlayback, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("%w: open output device: %v", ErrPlayback, err)
		}
		p.initialized = true
		p.sampleRate = format.SampleRate
	}

	// One playback at a time: drop whatever is still streaming. Clearing
	// the mixer skips the stream's end callback, so finish it here.
	speaker.Clear()
	if p.current != nil {
		p.current.finish()
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		stream = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	handle := &playbackHandle{stream: streamer, done: make(chan struct{}), logger: p.logger}
	p.current = handle

	p.logger.Debug("playback started", zap.String("path", path))
	speaker.Play(beep.Seq(stream, beep.Callback(handle.finish)))

	return nil
}

func (p *SpeakerPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Clear()
	}
	if p.current != nil {
		p.current.finish()
		p.current = nil
	}
}

func (p *SpeakerPlayer) Drain() {
	p.mu.Lock()
	var done chan struct{}
	if p.current != nil {
		done = p.current.done
	}
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}
