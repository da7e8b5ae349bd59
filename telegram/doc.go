// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package telegram adapts the handlers to the Telegram Bot API via telebot.

Messenger implements handlers.Messenger on top of a *tele.Bot (or anything
with the same Send, Edit and Respond methods):

	bot, err := telegram.NewBot(cfg.BotToken, log)
	m := telegram.NewMessenger(bot, log)

Controls become inline keyboard rows; a control's Payload is sent verbatim
as callback data, so it arrives at the tele.OnCallback endpoint. Styled
messages use the legacy Markdown parse mode.

Command and Callback wrap handler methods as tele.HandlerFunc values,
converting the update into models.Inbound or models.Activation first.
*/
package telegram
