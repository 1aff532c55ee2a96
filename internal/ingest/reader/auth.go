package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
)

const minPhoneLength = 10

// ErrSignupNotSupported indicates that signup is not supported.
var ErrSignupNotSupported = errors.New("signup not supported")

func (r *Reader) authFlow() auth.Flow {
	return auth.NewFlow(r, auth.SendCodeOptions{})
}

func (r *Reader) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	r.logger.Info().Msg("Authorization required, login code sent")

	return r.prompt("Код из Telegram: ")
}

func (r *Reader) Phone(_ context.Context) (string, error) {
	phone := r.cfg.TGPhone
	if phone == "" {
		var err error

		phone, err = r.prompt("Enter phone: ")
		if err != nil {
			return "", err
		}
	}

	phone = sanitizePhone(phone)
	r.logger.Info().Str("phone", maskPhone(phone)).Msg("Using phone number")

	if len(phone) < minPhoneLength {
		r.logger.Warn().Int("length", len(phone)).Msg("Phone number seems too short, it might be invalid. Ensure it includes country code (e.g. +995...)")
	}

	return phone, nil
}

func (r *Reader) Password(_ context.Context) (string, error) {
	if r.cfg.TG2FAPassword != "" {
		return r.cfg.TG2FAPassword, nil
	}

	return r.prompt("Пароль двухэтапной аутентификации: ")
}

func (r *Reader) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func (r *Reader) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, ErrSignupNotSupported
}

func (r *Reader) prompt(label string) (string, error) {
	fmt.Print(label)

	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(label), err)
	}

	return strings.TrimSpace(line), nil
}
