// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paperwatch/internal/httputil"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// telegramAPIBase is the Bot API host. Package-level var for test substitution.
var telegramAPIBase = "https://api.telegram.org"

const defaultMessagesPerMinute = 20

// Error reports a rejected or undeliverable Bot API call.
type Error struct {
	Method      string
	StatusCode  int
	Description string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("telegram %s: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("telegram %s: HTTP %d: %s", e.Method, e.StatusCode, e.Description)
}

func (e *Error) Unwrap() error { return e.Err }

// InlineButton is a single URL button under a message.
type InlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

// Message is a sendMessage call.
type Message struct {
	ChatID    string
	ThreadID  int
	Text      string
	ParseMode string
	Button    *InlineButton
}

// Document is a sendDocument call; the file is read from Path.
type Document struct {
	ChatID   string
	ThreadID int
	Path     string
	Caption  string
}

// TelegramClient calls the Telegram Bot API. Sends are paced by a token
// bucket so a burst of new articles stays under the channel limit.
type TelegramClient struct {
	Token   string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// NewTelegramClient returns a client configured from cfg.
func NewTelegramClient(cfg types.TelegramConfig) *TelegramClient {
	perMinute := cfg.MessagesPerMinute
	if perMinute <= 0 {
		perMinute = defaultMessagesPerMinute
	}
	return &TelegramClient{
		Token:   cfg.BotToken,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

type sendMessageRequest struct {
	ChatID          string          `json:"chat_id"`
	MessageThreadID int             `json:"message_thread_id,omitempty"`
	Text            string          `json:"text"`
	ParseMode       string          `json:"parse_mode,omitempty"`
	ReplyMarkup     *inlineKeyboard `json:"reply_markup,omitempty"`
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage posts a text message.
func (c *TelegramClient) SendMessage(ctx context.Context, msg Message) error {
	body := sendMessageRequest{
		ChatID:          msg.ChatID,
		MessageThreadID: msg.ThreadID,
		Text:            msg.Text,
		ParseMode:       msg.ParseMode,
	}
	if msg.Button != nil {
		body.ReplyMarkup = &inlineKeyboard{InlineKeyboard: [][]InlineButton{{*msg.Button}}}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return &Error{Method: "sendMessage", Err: fmt.Errorf("marshaling request: %w", err)}
	}
	return c.call(ctx, "sendMessage", "application/json", data)
}

// SendDocument uploads a file as a document.
func (c *TelegramClient) SendDocument(ctx context.Context, doc Document) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{"chat_id": doc.ChatID}
	if doc.Caption != "" {
		fields["caption"] = doc.Caption
	}
	if doc.ThreadID != 0 {
		fields["message_thread_id"] = strconv.Itoa(doc.ThreadID)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return &Error{Method: "sendDocument", Err: err}
		}
	}

	if err := attachFile(mw, doc.Path); err != nil {
		return &Error{Method: "sendDocument", Err: err}
	}
	if err := mw.Close(); err != nil {
		return &Error{Method: "sendDocument", Err: err}
	}

	return c.call(ctx, "sendDocument", mw.FormDataContentType(), buf.Bytes())
}

func (c *TelegramClient) call(ctx context.Context, method, contentType string, body []byte) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Method: method, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	url := telegramAPIBase + "/bot" + c.Token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Method: method, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		// The URL embeds the bot token; report the method only.
		return &Error{Method: method, Err: redactURLError(err)}
	}
	defer resp.Body.Close()

	var ar apiResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &ar); err != nil {
		return &Error{Method: method, StatusCode: resp.StatusCode, Description: string(raw)}
	}
	if resp.StatusCode != http.StatusOK || !ar.OK {
		return &Error{Method: method, StatusCode: resp.StatusCode, Description: ar.Description}
	}
	return nil
}
