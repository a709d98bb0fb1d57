// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// chatCompletionsURL is the OpenAI endpoint. Package-level var for test substitution.
var chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

const defaultModel = "gpt-4o"

// systemPrompt asks for a Russian rendering that keeps style and meaning.
const systemPrompt = "Ты — профессиональный переводчик. Переведи заголовок статьи на русский язык, сохрани стиль и смысл."

// OpenAIBackend translates titles through the chat completions API.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewOpenAIBackend returns a backend configured from cfg.
func NewOpenAIBackend(cfg types.TranslationConfig) *OpenAIBackend {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAIBackend{
		APIKey: cfg.APIKey,
		Model:  model,
		Client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Translate sends title as the user message and returns the trimmed
// completion. Every failure is an *Error.
func (b *OpenAIBackend) Translate(ctx context.Context, title string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: b.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: title},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", &Error{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &Error{StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &Error{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(cr.Choices) == 0 {
		return "", &Error{Err: errEmptyReply}
	}

	text := strings.TrimSpace(cr.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Err: errEmptyReply}
	}
	return text, nil
}
