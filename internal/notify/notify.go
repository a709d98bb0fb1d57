// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify formats published articles and delivers them, along with
// export files, to the Telegram channel. Delivery failures are logged and
// returned but never undo persistence.
package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// User-facing strings of the channel post.
const (
	NoDOILabel   = "Без DOI"
	ReadOriginal = "Читать оригинал"
	authorLabel  = "Автор"
	dateLabel    = "Дата"
	parseMode    = "Markdown"
)

// Sender is the messaging transport.
type Sender interface {
	SendMessage(ctx context.Context, msg Message) error
	SendDocument(ctx context.Context, doc Document) error
}

// Notifier sends one post per article to a fixed channel and thread.
type Notifier struct {
	sender   Sender
	chatID   string
	threadID int
	logger   zerolog.Logger
}

// NewNotifier returns a Notifier posting to cfg.ChannelID / cfg.ThreadID.
func NewNotifier(sender Sender, cfg types.TelegramConfig, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		chatID:   cfg.ChannelID,
		threadID: cfg.ThreadID,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Publish posts the article. A failure is logged and returned.
func (n *Notifier) Publish(ctx context.Context, a types.PublishedArticle) error {
	msg := Message{
		ChatID:    n.chatID,
		ThreadID:  n.threadID,
		Text:      FormatMessage(a),
		ParseMode: parseMode,
	}
	if a.HasDOI() {
		msg.Button = &InlineButton{Text: ReadOriginal, URL: a.Link()}
	}

	if err := n.sender.SendMessage(ctx, msg); err != nil {
		n.logger.Error().Err(err).Str("fingerprint", a.Fingerprint).Str("doi", a.DOI).Msg("failed to publish article")
		return err
	}
	n.logger.Info().Str("fingerprint", a.Fingerprint).Str("title", a.TranslatedTitle).Msg("published")
	return nil
}

// PublishDocument uploads the file at path with caption.
func (n *Notifier) PublishDocument(ctx context.Context, path, caption string) error {
	err := n.sender.SendDocument(ctx, Document{
		ChatID:   n.chatID,
		ThreadID: n.threadID,
		Path:     path,
		Caption:  caption,
	})
	if err != nil {
		n.logger.Error().Err(err).Str("path", path).Msg("failed to send document")
		return err
	}
	n.logger.Info().Str("path", path).Msg("document sent")
	return nil
}

// FormatMessage renders the channel post in Telegram legacy Markdown:
// bold translated title, author, date and a DOI link or NoDOILabel.
func FormatMessage(a types.PublishedArticle) string {
	doiLine := NoDOILabel
	if a.HasDOI() {
		doiLine = "[" + escapeMarkdown(a.DOI) + "](" + escapeLinkURL(a.Link()) + ")"
	}

	var b strings.Builder
	b.WriteString("*" + escapeMarkdown(a.TranslatedTitle) + "*\n")
	b.WriteString(authorLabel + ": " + escapeMarkdown(a.FirstAuthor) + "\n")
	b.WriteString(dateLabel + ": " + escapeMarkdown(a.PublicationDate) + "\n")
	b.WriteString("DOI: " + doiLine)
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// escapeMarkdown escapes the characters legacy Markdown treats as entity
// delimiters.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// DOIs may contain parentheses, which would close the link target early.
var linkURLEscaper = strings.NewReplacer(`(`, `%28`, `)`, `%29`)

func escapeLinkURL(u string) string {
	return linkURLEscaper.Replace(u)
}
