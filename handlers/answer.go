// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-ask/callback"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
)

// Placeholders stored when the transport gives no name or handle.
const (
	PlaceholderName   = "User"
	PlaceholderHandle = "unavailable"
)

// AnswerHandler records answers from anyone who presses an answer button.
type AnswerHandler struct {
	base
}

func NewAnswerHandler(d Deps) *AnswerHandler {
	return &AnswerHandler{base: newBase(d)}
}

// Record handles an ans:<id>:<option> activation. It is not gated by
// authorization or session state.
func (h *AnswerHandler) Record(ctx context.Context, act models.Activation, p callback.Payload) error {
	a := models.Answer{
		RespondentID: strconv.FormatInt(act.Sender.ID, 10),
		Choice:       p.Choice,
		DisplayName:  act.Sender.DisplayName,
		Handle:       act.Sender.Handle,
		AnsweredAt:   h.Now().Format(time.RFC3339),
	}
	if a.DisplayName == "" {
		a.DisplayName = PlaceholderName
	}
	if a.Handle == "" {
		a.Handle = PlaceholderHandle
	}

	recorded, err := h.Store.RecordAnswer(p.QuestionID, a)
	var dup *store.AlreadyAnsweredError
	switch {
	case errors.Is(err, store.ErrQuestionNotFound):
		h.Metrics.RecordAnswer(metrics.AnswerNotFound)
		return h.ack(ctx, act, ackNotAvailable, false)
	case errors.As(err, &dup):
		h.Metrics.RecordAnswer(metrics.AnswerDuplicate)
		return h.ack(ctx, act, fmt.Sprintf(ackAlready, dup.Prior.Choice), false)
	case err != nil:
		// Save failed; the answer is held in memory.
		h.Log.Error().Err(err).Str("question_id", p.QuestionID).Msg("answer recorded but not saved")
	}

	h.Metrics.RecordAnswer(metrics.AnswerRecorded)
	h.Log.Info().
		Str("question_id", p.QuestionID).
		Int64("user_id", act.Sender.ID).
		Msg("answer recorded")
	return h.ack(ctx, act, fmt.Sprintf(ackRecorded, recorded.Choice), false)
}
