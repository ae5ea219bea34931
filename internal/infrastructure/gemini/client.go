package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lectio/internal/config"
	"lectio/internal/ports"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client implements ports.MeditationGenerator against the Gemini
// generateContent API.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.MeditationGenerator = (*Client)(nil)

// NewClient builds a client from configuration. The API key must be present;
// its absence is a configuration error surfaced before any call is attempted.
func NewClient(cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: GEMINI_API_KEY is not configured")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate posts the meditation prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(req)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("unexpected gemini response shape: no candidate text")
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

// buildPrompt interpolates the gospel into the fixed instructional template.
// Output is currently targeted at Spanish; the language code is carried for
// future editions.
func buildPrompt(req ports.GenerationRequest) string {
	return fmt.Sprintf(
		"Eres un teólogo católico fiel al Magisterio de la Iglesia inspirado por Joseph Ratzinger.\n\n"+
			"Escribe una meditación espiritual en %s sobre el evangelio del día.\n"+
			"La meditación debe:\n"+
			"- Ayudar a la oración personal.\n"+
			"- Ser fiel al sentido del texto bíblico.\n"+
			"- Tener un tono cercano y pastoral.\n"+
			"- Evitar opiniones políticas o polémicas.\n\n"+
			"Fecha litúrgica: %s\n"+
			"Evangelio: %s\n\n"+
			"Texto del evangelio:\n%s\n\n"+
			"Ahora escribe solo la meditación, sin repetir el texto completo del evangelio.",
		req.LanguageCode,
		req.Date.Format("2006-01-02"),
		req.Reference,
		req.GospelText,
	)
}
