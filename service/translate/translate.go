package translate

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Translator returns text translated into the target language code.
// Callers are expected to fall back to the original text on error; nothing in
// the delivery path ever blocks on, or fails because of, the provider.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client speaks the Google Translate v2 REST protocol.
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.Endpoint).
			SetTimeout(timeout),
		apiKey: cfg.APIKey,
	}
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if targetLang == "" {
		return "", errors.New("empty target language")
	}
	var out translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]any{
			"q":      text,
			"target": targetLang,
			"format": "text",
		}).
		SetResult(&out).
		Post("")
	if err != nil {
		return "", errors.Wrap(err, "translate request")
	}
	if resp.IsError() {
		return "", errors.Errorf("translate provider status %d", resp.StatusCode())
	}
	if len(out.Data.Translations) == 0 {
		return "", errors.New("translate provider returned no translations")
	}
	return out.Data.Translations[0].TranslatedText, nil
}
