// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-ask/models"
	tele "gopkg.in/telebot.v3"
)

// Identity converts a Bot API user. A nil user yields the zero identity.
func Identity(u *tele.User) models.Identity {
	if u == nil {
		return models.Identity{}
	}
	return models.Identity{
		ID:          u.ID,
		DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Handle:      u.Username,
	}
}

func inboundFrom(msg *tele.Message) models.Inbound {
	if msg == nil {
		return models.Inbound{}
	}
	in := models.Inbound{Sender: Identity(msg.Sender), Text: strings.TrimSpace(msg.Text)}
	if msg.Chat != nil {
		in.ChatID = msg.Chat.ID
	}
	return in
}

func activationFrom(cb *tele.Callback) models.Activation {
	if cb == nil {
		return models.Activation{}
	}
	act := models.Activation{ID: cb.ID, Sender: Identity(cb.Sender), Data: cb.Data}
	if cb.Message != nil {
		act.Message = models.MessageRef{MessageID: strconv.Itoa(cb.Message.ID)}
		if cb.Message.Chat != nil {
			act.ChatID = cb.Message.Chat.ID
			act.Message.ChatID = cb.Message.Chat.ID
		}
	}
	return act
}

// Inbound converts the message in c.
func Inbound(c tele.Context) models.Inbound {
	return inboundFrom(c.Message())
}

// Activation converts the callback in c.
func Activation(c tele.Context) models.Activation {
	return activationFrom(c.Callback())
}

// Command adapts a message handler to telebot.
func Command(ctx context.Context, fn func(context.Context, models.Inbound) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		return fn(ctx, Inbound(c))
	}
}

// Callback adapts a control handler to telebot.
func Callback(ctx context.Context, fn func(context.Context, models.Activation) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		return fn(ctx, Activation(c))
	}
}
