package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultGoogleTranslateURL = "https://translate.googleapis.com/translate_a/single"

type GoogleOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// GoogleTranslator calls the web translate endpoint (client=gtx), the same
// backend deep-translator-style clients use. No API key.
type GoogleTranslator struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGoogleTranslator(opts GoogleOptions) *GoogleTranslator {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleTranslateURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GoogleTranslator{baseURL: baseURL, client: client, logger: logger}
}

func (g *GoogleTranslator) Name() string {
	return "google"
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: source text is empty", ErrTranslation)
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("ie", "UTF-8")
	query.Set("oe", "UTF-8")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTranslation, err)
	}

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTranslation, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrTranslation, err)
	}

	translated, err := parseTranslateResponse(body)
	if err != nil {
		return "", err
	}

	g.logger.Debug("translation finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.String("source", source),
		zap.String("target", target))

	return translated, nil
}

// parseTranslateResponse walks the endpoint's nested-array body:
// [[["hola mundo","hello world",...],...],null,"en",...]. The translated
// text is the first element of each sentence segment, concatenated.
func parseTranslateResponse(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTranslation, err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrTranslation)
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("%w: decode segments: %v", ErrTranslation, err)
	}

	var b strings.Builder
	for _, segment := range segments {
		var parts []json.RawMessage
		if err := json.Unmarshal(segment, &parts); err != nil || len(parts) == 0 {
			continue
		}

		var translated string
		if err := json.Unmarshal(parts[0], &translated); err != nil {
			continue
		}
		b.WriteString(translated)
	}

	result := b.String()
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("%w: response holds no translation", ErrTranslation)
	}

	return result, nil
}
