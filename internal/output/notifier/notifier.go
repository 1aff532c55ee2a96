// Package notifier posts accepted listings to a Telegram chat through the Bot API.
package notifier

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

const snippetLimit = 600

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier is a secondary listing sink.
type Notifier struct {
	api    sender
	chatID int64
	logger *zerolog.Logger
}

func New(token string, chatID int64, logger *zerolog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	logger.Info().Str("bot", api.Self.UserName).Int64("chat_id", chatID).Msg("Notifier enabled")

	return &Notifier{api: api, chatID: chatID, logger: logger}, nil
}

func (n *Notifier) Append(_ context.Context, l domain.Listing) error {
	msg := tgbotapi.NewMessage(n.chatID, formatListing(l))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send listing %s/%d to chat %d: %w", l.Channel, l.MessageID, n.chatID, err)
	}

	return nil
}

func formatListing(l domain.Listing) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>$%s</b> · score %d/10\n", strconv.FormatFloat(l.PriceUSD, 'f', -1, 64), l.Score)
	fmt.Fprintf(&sb, "%s · %s\n", html.EscapeString(l.Channel), html.EscapeString(l.DateLocal))

	if l.URL != "" {
		fmt.Fprintf(&sb, "<a href=\"%s\">%s</a>\n", html.EscapeString(l.URL), html.EscapeString(l.URL))
	}

	sb.WriteString("\n")
	sb.WriteString(html.EscapeString(snippet(l.Text, snippetLimit)))

	return sb.String()
}

func snippet(text string, limit int) string {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return strings.TrimSpace(string(runes[:limit])) + "…"
}
