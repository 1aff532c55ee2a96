package reader

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"github.com/lueurxax/tg-rent-finder/internal/core/domain"
)

func sanitizePhone(phone string) string {
	var sb strings.Builder

	phone = strings.TrimSpace(phone)

	if strings.HasPrefix(phone, "+") {
		sb.WriteByte('+')

		phone = phone[1:]
	}

	for _, char := range phone {
		if char >= '0' && char <= '9' {
			sb.WriteRune(char)
		}
	}

	return sb.String()
}

func maskPhone(phone string) string {
	if len(phone) < 7 {
		return "****"
	}

	return phone[:3] + "****" + phone[len(phone)-2:]
}

func toChannel(ch *tg.Channel) domain.Channel {
	c := domain.Channel{
		ID:         ch.ID,
		AccessHash: ch.AccessHash,
		Username:   ch.Username,
		Title:      ch.Title,
	}

	if c.Username == "" {
		for _, u := range ch.Usernames {
			if u.Active {
				c.Username = u.Username
				break
			}
		}
	}

	return c
}

func toRawMessage(msg *tg.Message, channelID int64) domain.RawMessage {
	_, hasPhoto := msg.Media.(*tg.MessageMediaPhoto)

	return domain.RawMessage{
		ID:        int64(msg.ID),
		ChannelID: channelID,
		Date:      time.Unix(int64(msg.Date), 0).UTC(),
		Text:      msg.Message,
		HasPhoto:  hasPhoto,
	}
}
