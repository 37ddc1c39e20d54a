// Package openai habla con cualquier endpoint compatible con chat/completions
// (ERNIE en AI Studio, OpenAI, vLLM, ...).
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pill-reminder/internal/platform/httpclient"
	"pill-reminder/internal/ports/inference"
)

const (
	DefaultBaseURL   = "https://aistudio.baidu.com/llm/lmapi/v3"
	DefaultModel     = "ernie-4.5-vl-28b-a3b"
	DefaultMaxTokens = 2048

	completionsPath = "/chat/completions"
)

var (
	ErrNotConfigured = errors.New("openai client not configured")
	ErrEmptyChoices  = errors.New("openai response has no choices")
)

// Config del cliente. APIKey vacía => IsConfigured() false.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type Client struct {
	http      *httpclient.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:      hc,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// ---- wire types ----

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete manda la imagen como data URL seguida de la instrucción en un único mensaje de usuario.
func (c *Client) Complete(ctx context.Context, img inference.Image, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	req := completionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: DataURL(img)}},
				{Type: "text", Text: prompt},
			},
		}},
	}

	var out completionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, completionsPath,
		map[string]string{"Authorization": "Bearer " + c.apiKey},
		req, &out)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return out.Choices[0].Message.Content, nil
}

// DataURL arma data:<media type>;base64,<bytes>.
func DataURL(img inference.Image) string {
	mt := img.MediaType
	if mt == "" {
		mt = "image/jpeg"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
