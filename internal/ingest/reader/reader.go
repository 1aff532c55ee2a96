// Package reader is the Telegram user-client transport: channel search and
// newest-first history iteration over gotd/td.
package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
)

const (
	historyPageSize = 100
	maxFloodRetries = 3
	floodWaitType   = "FLOOD_WAIT"
)

// telegramAPI is the subset of *tg.Client used here.
type telegramAPI interface {
	MessagesGetHistory(ctx context.Context, request *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error)
	ContactsSearch(ctx context.Context, request *tg.ContactsSearchRequest) (*tg.ContactsFound, error)
	ChannelsGetFullChannel(ctx context.Context, channel tg.InputChannelClass) (*tg.MessagesChatFull, error)
}

type Reader struct {
	cfg    *config.Config
	logger *zerolog.Logger
	input  *bufio.Reader
}

func New(cfg *config.Config, logger *zerolog.Logger) *Reader {
	return &Reader{
		cfg:    cfg,
		logger: logger,
		input:  bufio.NewReader(os.Stdin),
	}
}

// WithInput replaces stdin for interactive login prompts.
func (r *Reader) WithInput(in io.Reader) *Reader {
	r.input = bufio.NewReader(in)
	return r
}

// Run connects, logs in if the session file has no authorization and calls fn
// with a live Session. The connection closes when fn returns.
func (r *Reader) Run(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	client := telegram.NewClient(r.cfg.TGAPIID, r.cfg.TGAPIHash, telegram.Options{
		SessionStorage: &telegram.FileSessionStorage{
			Path: r.cfg.TGSessionPath,
		},
	})

	return client.Run(ctx, func(ctx context.Context) error {
		if err := client.Auth().IfNecessary(ctx, r.authFlow()); err != nil {
			return fmt.Errorf("telegram auth: %w", err)
		}

		r.logger.Info().Msg("Successfully authenticated as user")

		return fn(ctx, NewSession(tg.NewClient(client), r.logger))
	})
}

// Session performs requests over an authenticated connection.
type Session struct {
	api    telegramAPI
	logger *zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewSession(api telegramAPI, logger *zerolog.Logger) *Session {
	return &Session{api: api, logger: logger, sleep: sleepCtx}
}

// SearchChannels runs contacts.search and resolves each channel's audience size.
// A failed size lookup counts as zero subscribers.
func (s *Session) SearchChannels(ctx context.Context, query string, limit int) ([]domain.Channel, error) {
	found, err := s.api.ContactsSearch(ctx, &tg.ContactsSearchRequest{Q: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("contacts search %q: %w", query, err)
	}

	channels := make([]domain.Channel, 0, len(found.Chats))

	for _, chat := range found.Chats {
		tgChannel, ok := chat.(*tg.Channel)
		if !ok {
			continue
		}

		ch := toChannel(tgChannel)
		ch.Subscribers = s.subscribers(ctx, tgChannel)
		channels = append(channels, ch)
	}

	return channels, nil
}

func (s *Session) subscribers(ctx context.Context, ch *tg.Channel) int {
	full, err := s.api.ChannelsGetFullChannel(ctx, &tg.InputChannel{
		ChannelID:  ch.ID,
		AccessHash: ch.AccessHash,
	})
	if err != nil {
		s.logger.Debug().Err(err).Int64("channel_id", ch.ID).Msg("failed to get full channel")
		return 0
	}

	if cf, ok := full.FullChat.(*tg.ChannelFull); ok {
		if count, ok := cf.GetParticipantsCount(); ok {
			return count
		}
	}

	return 0
}

// IterMessages pages messages.getHistory newest first and calls fn for each
// *tg.Message until fn returns false, limit messages were read or history ends.
// FLOOD_WAIT is waited out and the page re-requested.
func (s *Session) IterMessages(ctx context.Context, ch domain.Channel, limit int, fn func(domain.RawMessage) bool) error {
	peer := &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
	offsetID := 0
	read := 0

	for read < limit {
		pageLimit := min(historyPageSize, limit-read)

		messages, err := s.fetchPage(ctx, peer, offsetID, pageLimit, ch.Label())
		if err != nil {
			return err
		}

		if len(messages) == 0 {
			return nil
		}

		for _, m := range messages {
			read++

			if id := m.GetID(); offsetID == 0 || id < offsetID {
				offsetID = id
			}

			msg, ok := m.(*tg.Message)
			if !ok {
				continue
			}

			if !fn(toRawMessage(msg, ch.ID)) {
				return nil
			}

			if read >= limit {
				return nil
			}
		}

		if len(messages) < pageLimit {
			return nil
		}
	}

	return nil
}

func (s *Session) fetchPage(ctx context.Context, peer tg.InputPeerClass, offsetID, limit int, label string) ([]tg.MessageClass, error) {
	req := &tg.MessagesGetHistoryRequest{
		Peer:     peer,
		OffsetID: offsetID,
		Limit:    limit,
	}

	for attempt := 0; ; attempt++ {
		history, err := s.api.MessagesGetHistory(ctx, req)
		if err == nil {
			return historyMessages(history), nil
		}

		floodErr, ok := tgerr.As(err)
		if !ok || floodErr.Type != floodWaitType || attempt >= maxFloodRetries {
			return nil, fmt.Errorf("failed to get history: %w", err)
		}

		s.logger.Warn().Int("seconds", floodErr.Argument).Str("channel", label).Msg("flood wait")

		if err := s.sleep(ctx, time.Duration(floodErr.Argument)*time.Second); err != nil {
			return nil, err
		}
	}
}

func historyMessages(history tg.MessagesMessagesClass) []tg.MessageClass {
	switch h := history.(type) {
	case *tg.MessagesMessages:
		return h.Messages
	case *tg.MessagesMessagesSlice:
		return h.Messages
	case *tg.MessagesChannelMessages:
		return h.Messages
	default:
		return nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
