package recognize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type WhisperOptions struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// WhisperRecognizer submits captures to the OpenAI transcription API as an
// alternate provider. Requires OPENAI_API_KEY.
type WhisperRecognizer struct {
	client *openai.Client
	logger *zap.Logger
}

func NewWhisperRecognizer(opts WhisperOptions) (*WhisperRecognizer, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("whisper recognizer requires OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WhisperRecognizer{client: openai.NewClientWithConfig(cfg), logger: logger}, nil
}

func (w *WhisperRecognizer) Name() string {
	return "whisper"
}

func (w *WhisperRecognizer) Recognize(ctx context.Context, req Request) (string, error) {
	started := time.Now()
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: req.AudioPath,
		Language: baseLanguage(req.Language),
	})
	if err != nil {
		if classified := classifyCtxErr(ctx, err); classified != nil {
			return "", classified
		}
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return "", ErrUnintelligible
	}

	w.logger.Debug("whisper transcription finished", zap.Duration("elapsed", time.Since(started)))
	return transcript, nil
}

// baseLanguage strips region subtags; the transcription API expects plain
// ISO-639-1 codes ("zh", not "zh-CN").
func baseLanguage(code string) string {
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		return code[:idx]
	}
	return code
}
