package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultElevenLabsURL = "https://api.elevenlabs.io"
const defaultElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"
const elevenLabsModel = "eleven_multilingual_v2"

type ElevenLabsOptions struct {
	APIKey     string
	BaseURL    string
	VoiceID    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ElevenLabsSynthesizer is the alternate synthesis provider. Requires
// ELEVENLABS_API_KEY. Language selection is implicit: the multilingual
// model voices the text in the language it is written in.
type ElevenLabsSynthesizer struct {
	apiKey  string
	baseURL string
	voiceID string
	client  *http.Client
	logger  *zap.Logger
}

func NewElevenLabsSynthesizer(opts ElevenLabsOptions) (*ElevenLabsSynthesizer, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("elevenlabs synthesizer requires ELEVENLABS_API_KEY")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultElevenLabsURL
	}

	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = defaultElevenLabsVoice
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ElevenLabsSynthesizer{
		apiKey:  apiKey,
		baseURL: baseURL,
		voiceID: voiceID,
		client:  client,
		logger:  logger,
	}, nil
}

func (e *ElevenLabsSynthesizer) Name() string {
	return "elevenlabs"
}

func (e *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrSynthesis)
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": elevenLabsModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrSynthesis, err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSynthesis, err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	started := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSynthesis, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read payload: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrSynthesis)
	}

	e.logger.Debug("elevenlabs synthesis finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.String("voice", e.voiceID),
		zap.Int("payload_bytes", len(audio)))

	return audio, nil
}
