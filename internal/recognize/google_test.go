package recognize

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGoogleRecognizerReturnsTranscript(t *testing.T) {
	t.Parallel()

	var gotContentType, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotLang = r.URL.Query().Get("lang")
		fmt.Fprintln(w, `{"result":[]}`)
		fmt.Fprintln(w, `{"result":[{"alternative":[{"transcript":"hello world","confidence":0.92}],"final":true}],"result_index":0}`)
	}))
	defer server.Close()

	rec := NewGoogleRecognizer(GoogleOptions{BaseURL: server.URL, APIKey: "test-key"})
	text, err := rec.Recognize(context.Background(), Request{
		AudioPath: writeToneWAV(t),
		Language:  "en",
	})
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Equal(t, "audio/l16; rate=16000", gotContentType)
	require.Equal(t, "en", gotLang)
}

func TestGoogleRecognizerClassifiesEmptyResultAsUnintelligible(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"result":[]}`)
	}))
	defer server.Close()

	rec := NewGoogleRecognizer(GoogleOptions{BaseURL: server.URL, APIKey: "test-key"})
	_, err := rec.Recognize(context.Background(), Request{AudioPath: writeToneWAV(t), Language: "en"})
	require.ErrorIs(t, err, ErrUnintelligible)
}

func TestGoogleRecognizerClassifiesServerFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	rec := NewGoogleRecognizer(GoogleOptions{BaseURL: server.URL, APIKey: "test-key"})
	_, err := rec.Recognize(context.Background(), Request{AudioPath: writeToneWAV(t), Language: "en"})
	require.ErrorIs(t, err, ErrService)
}

func TestGoogleRecognizerClassifiesDeadlineAsTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can observe the client disconnect
		// and cancel the request context; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rec := NewGoogleRecognizer(GoogleOptions{BaseURL: server.URL, APIKey: "test-key"})
	_, err := rec.Recognize(ctx, Request{AudioPath: writeToneWAV(t), Language: "en"})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestNewSelectsProvider(t *testing.T) {
	t.Parallel()

	rec, err := New("google", nil)
	require.NoError(t, err)
	require.Equal(t, "google", rec.Name())

	_, err = New("nonsense", nil)
	require.Error(t, err)
}

func writeToneWAV(t *testing.T) string {
	t.Helper()

	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16((i % 64) * 256)
	}

	path := filepath.Join(t.TempDir(), "utterance.wav")
	require.NoError(t, os.WriteFile(path, makePCM16WAVForTest(samples, 16000), 0o644))
	return path
}
