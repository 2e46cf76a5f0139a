package playback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlayMissingFile(t *testing.T) {
	t.Parallel()

	player := NewSpeakerPlayer(nil)
	err := player.Play(filepath.Join(t.TempDir(), "missing.mp3"))
	require.ErrorIs(t, err, ErrPlayback)
}

func TestPlayRejectsNonMP3Artifact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	player := NewSpeakerPlayer(nil)
	err := player.Play(path)
	require.ErrorIs(t, err, ErrPlayback)
}

func TestStopWithoutActivePlayback(t *testing.T) {
	t.Parallel()

	player := NewSpeakerPlayer(nil)
	require.NotPanics(t, player.Stop)
}

func TestDrainWithoutActivePlayback(t *testing.T) {
	t.Parallel()

	player := NewSpeakerPlayer(nil)
	require.NotPanics(t, player.Drain)
}

type fakeStream struct {
	closed bool
}

func (f *fakeStream) Stream(_ [][2]float64) (int, bool) { return 0, false }
func (f *fakeStream) Err() error                        { return nil }
func (f *fakeStream) Len() int                          { return 0 }
func (f *fakeStream) Position() int                     { return 0 }
func (f *fakeStream) Seek(_ int) error                  { return nil }
func (f *fakeStream) Close() error                      { f.closed = true; return nil }

func TestStopReleasesInterruptedStream(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{}
	handle := &playbackHandle{stream: stream, done: make(chan struct{}), logger: zap.NewNop()}

	player := NewSpeakerPlayer(nil)
	player.current = handle

	player.Stop()
	require.True(t, stream.closed)

	select {
	case <-handle.done:
	default:
		t.Fatal("interrupted playback never released its done channel")
	}

	// Drain after Stop must not block on the finished stream.
	require.NotPanics(t, player.Drain)
}

func TestPlaybackHandleFinishRunsOnce(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{}
	handle := &playbackHandle{stream: stream, done: make(chan struct{}), logger: zap.NewNop()}

	handle.finish()
	require.NotPanics(t, handle.finish)
	require.True(t, stream.closed)
}
