// Package genai is a Gemini API client used to generate image
// descriptions. It implements the pipeline's describer port.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	// Decoders for the image formats the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/GoCodeAlone/imgreport/pipeline"
)

const (
	defaultModel   = "gemini-1.5-flash-latest"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultPrompt  = "Describe this image in 2-3 sentences"
)

// ClientConfig holds configuration for the Gemini client.
type ClientConfig struct {
	APIKey  string // Defaults to GOOGLE_API_KEY env var
	Model   string // Defaults to gemini-1.5-flash-latest
	BaseURL string // Defaults to https://generativelanguage.googleapis.com
	Prompt  string // Defaults to the standard description instruction
}

// Client implements pipeline.Describer using the Gemini API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	prompt     string
	httpClient *http.Client
}

// NewClient creates a new Gemini client.
func NewClient(cfg ClientConfig) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not set")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		prompt:     prompt,
		httpClient: &http.Client{},
	}, nil
}

// -- Gemini API types --

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type apiRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content content `json:"content"`
}

type apiResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (c *Client) call(ctx context.Context, req apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &apiResp, nil
}

// Describe submits the image with the configured instruction and returns
// the trimmed response text. Content that does not decode as an image is
// rejected before any API call.
func (c *Client) Describe(ctx context.Context, data []byte) (string, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	mimeType := http.DetectContentType(data)

	req := apiRequest{
		Contents: []content{{
			Parts: []part{
				{Text: c.prompt},
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
			},
		}},
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		return "", fmt.Errorf("Gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var texts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n")), nil
}

var _ pipeline.Describer = (*Client)(nil)
