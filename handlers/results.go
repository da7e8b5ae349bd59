// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"

	"github.com/danielhkuo/quickly-ask/callback"
	"github.com/danielhkuo/quickly-ask/models"
)

// ResultsHandler shows answer statistics to operators.
type ResultsHandler struct {
	base
}

func NewResultsHandler(d Deps) *ResultsHandler {
	return &ResultsHandler{base: newBase(d)}
}

// List handles /answers
func (h *ResultsHandler) List(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}

	qs := h.Store.List()
	if len(qs) == 0 {
		_, err := h.reply(ctx, in.ChatID, plain(msgNoQuestions))
		return err
	}
	_, err := h.reply(ctx, in.ChatID, questionList(msgAnswersHeader, qs, callback.ShowAnswers))
	return err
}

// Show handles show_ans:<id> by editing the list into the report.
func (h *ResultsHandler) Show(ctx context.Context, act models.Activation, p callback.Payload) error {
	if !h.authorizedActivation(ctx, act) {
		return nil
	}

	q, ok := h.Store.Get(p.QuestionID)
	if !ok {
		err := h.edit(ctx, act.Message, plain("Question "+p.QuestionID+" does not exist."))
		return errors.Join(err, h.ack(ctx, act, "", false))
	}

	text, condensed := RenderReport(BuildReport(q), h.Config.MessageLimit)
	if condensed {
		h.Log.Debug().Str("question_id", q.ID).Int("answers", len(q.Answers)).Msg("report condensed")
	}
	err := h.edit(ctx, act.Message, plain(text))
	return errors.Join(err, h.ack(ctx, act, "", false))
}
