package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultGoogleTTSURL = "https://translate.google.com/translate_tts"

// The endpoint caps the q parameter; longer text is split on word
// boundaries and the MP3 payloads are concatenated, as gTTS does.
const maxChunkRunes = 200

type GoogleOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// GoogleSynthesizer fetches MP3 speech from the translate TTS endpoint, the
// same service gTTS clients use. No API key.
type GoogleSynthesizer struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGoogleSynthesizer(opts GoogleOptions) *GoogleSynthesizer {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleTTSURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GoogleSynthesizer{baseURL: baseURL, client: client, logger: logger}
}

func (g *GoogleSynthesizer) Name() string {
	return "google"
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrSynthesis)
	}

	chunks := splitText(text, maxChunkRunes)
	started := time.Now()

	var payload []byte
	for _, chunk := range chunks {
		audio, err := g.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		payload = append(payload, audio...)
	}

	g.logger.Debug("synthesis finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.String("language", lang),
		zap.Int("chunks", len(chunks)),
		zap.Int("payload_bytes", len(payload)))

	return payload, nil
}

func (g *GoogleSynthesizer) fetchChunk(ctx context.Context, text, lang string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSynthesis, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSynthesis, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read payload: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrSynthesis)
	}

	return audio, nil
}

// splitText breaks text into chunks of at most limit runes, preferring word
// boundaries. A single word longer than the limit is split hard.
func splitText(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		word = string(runes)

		candidate := word
		if current.Len() > 0 {
			candidate = current.String() + " " + word
		}
		if len([]rune(candidate)) > limit {
			flush()
			current.WriteString(word)
			continue
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	flush()

	return chunks
}
