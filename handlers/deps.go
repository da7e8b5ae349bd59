// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"time"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/rs/zerolog"
)

// Messenger delivers messages through the chat transport.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg models.Message) (models.MessageRef, error)
	Edit(ctx context.Context, ref models.MessageRef, msg models.Message) error
	Acknowledge(ctx context.Context, activationID, text string, alert bool) error
	SendDocument(ctx context.Context, chatID int64, doc models.Document) error
}

// Authorizer decides who may operate the bot.
type Authorizer interface {
	IsAuthorized(u models.Identity) bool
}

// Deps is everything the handlers share.
type Deps struct {
	Store     *store.Store
	Sessions  *session.Registry
	Messenger Messenger
	Authz     Authorizer
	Metrics   *metrics.Metrics
	Log       zerolog.Logger
	Config    cliparse.Config
	Now       func() time.Time
}

// base carries Deps and the reply helpers every handler uses.
type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Config.MessageLimit <= 0 {
		d.Config.MessageLimit = cliparse.DefaultMessageLimit
	}
	return base{Deps: d}
}

func keyOf(chatID int64, u models.Identity) session.Key {
	return session.Key{ChatID: chatID, UserID: u.ID}
}

// reply sends msg to chatID. Markdown that the transport rejects is retried
// once as plain text.
func (b *base) reply(ctx context.Context, chatID int64, msg models.Message) (models.MessageRef, error) {
	ref, err := b.Messenger.Send(ctx, chatID, msg)
	if err != nil && msg.Markdown {
		b.Log.Debug().Err(err).Int64("chat_id", chatID).Msg("styled send failed, retrying as plain text")
		ref, err = b.Messenger.Send(ctx, chatID, msg.Plain())
	}
	if err != nil {
		b.Log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
	return ref, err
}

// edit replaces the message at ref, with the same plain-text retry as reply.
func (b *base) edit(ctx context.Context, ref models.MessageRef, msg models.Message) error {
	err := b.Messenger.Edit(ctx, ref, msg)
	if err != nil && msg.Markdown {
		b.Log.Debug().Err(err).Int64("chat_id", ref.ChatID).Msg("styled edit failed, retrying as plain text")
		err = b.Messenger.Edit(ctx, ref, msg.Plain())
	}
	if err != nil {
		b.Log.Error().Err(err).Int64("chat_id", ref.ChatID).Str("message_id", ref.MessageID).Msg("failed to edit message")
	}
	return err
}

func (b *base) ack(ctx context.Context, act models.Activation, text string, alert bool) error {
	err := b.Messenger.Acknowledge(ctx, act.ID, text, alert)
	if err != nil {
		b.Log.Warn().Err(err).Str("activation_id", act.ID).Msg("failed to acknowledge activation")
	}
	return err
}

// authorized replies with a refusal when u may not operate the bot.
func (b *base) authorized(ctx context.Context, in models.Inbound) bool {
	if b.Authz.IsAuthorized(in.Sender) {
		return true
	}
	b.Log.Info().Int64("user_id", in.Sender.ID).Str("handle", in.Sender.Handle).Msg("unauthorized command")
	b.reply(ctx, in.ChatID, plain(msgUnauthorized))
	return false
}

// authorizedActivation answers with an alert when the presser may not operate
// the bot.
func (b *base) authorizedActivation(ctx context.Context, act models.Activation) bool {
	if b.Authz.IsAuthorized(act.Sender) {
		return true
	}
	b.Log.Info().Int64("user_id", act.Sender.ID).Str("handle", act.Sender.Handle).Msg("unauthorized activation")
	b.ack(ctx, act, msgUnauthorized, true)
	return false
}
