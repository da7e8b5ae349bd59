// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// API is the part of *tele.Bot the messenger needs.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Messenger sends the bot's messages through the Bot API.
type Messenger struct {
	api API
	log zerolog.Logger
}

func NewMessenger(api API, log zerolog.Logger) *Messenger {
	return &Messenger{api: api, log: log}
}

func sendOptions(msg models.Message) *tele.SendOptions {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	if msg.Markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	if len(msg.Controls) > 0 {
		rows := make([][]tele.InlineButton, 0, len(msg.Controls))
		for _, row := range msg.Controls {
			buttons := make([]tele.InlineButton, 0, len(row))
			for _, c := range row {
				buttons = append(buttons, tele.InlineButton{Text: c.Text, Data: c.Payload})
			}
			rows = append(rows, buttons)
		}
		opts.ReplyMarkup = &tele.ReplyMarkup{InlineKeyboard: rows}
	}
	return opts
}

func (m *Messenger) Send(ctx context.Context, chatID int64, msg models.Message) (models.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return models.MessageRef{}, err
	}
	sent, err := m.api.Send(tele.ChatID(chatID), msg.Text, sendOptions(msg))
	if err != nil {
		return models.MessageRef{}, err
	}
	return models.MessageRef{ChatID: chatID, MessageID: strconv.Itoa(sent.ID)}, nil
}

// Edit replaces the text and buttons of a sent message. Editing to identical
// content is not an error.
func (m *Messenger) Edit(ctx context.Context, ref models.MessageRef, msg models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := tele.StoredMessage{MessageID: ref.MessageID, ChatID: ref.ChatID}
	_, err := m.api.Edit(target, msg.Text, sendOptions(msg))
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		m.log.Debug().Int64("chat_id", ref.ChatID).Str("message_id", ref.MessageID).Msg("edit left message unchanged")
		return nil
	}
	return err
}

func (m *Messenger) Acknowledge(ctx context.Context, activationID, text string, alert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.api.Respond(&tele.Callback{ID: activationID}, &tele.CallbackResponse{Text: text, ShowAlert: alert})
}

func (m *Messenger) SendDocument(ctx context.Context, chatID int64, doc models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := tele.FromReader(bytes.NewReader(doc.Data))
	if doc.Path != "" {
		file = tele.FromDisk(doc.Path)
	}
	_, err := m.api.Send(tele.ChatID(chatID), &tele.Document{
		File:     file,
		FileName: doc.FileName,
		Caption:  doc.Caption,
	})
	return err
}
