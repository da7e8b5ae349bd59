// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// DefaultPollTimeout is the long-poll timeout for getUpdates.
const DefaultPollTimeout = 10 * time.Second

// NewBot connects to the Bot API with long polling. Handler errors are
// logged and never stop the poller.
func NewBot(token string, log zerolog.Logger) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: DefaultPollTimeout},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				ev = ev.Int64("user_id", c.Sender().ID)
			}
			ev.Msg("update handler failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to bot api: %w", err)
	}
	log.Info().Str("bot", b.Me.Username).Msg("bot connected")
	return b, nil
}
