// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-ask/callback"
	"github.com/danielhkuo/quickly-ask/flow"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
)

// ManageHandler runs the list, reshare and delete menus.
type ManageHandler struct {
	base
}

func NewManageHandler(d Deps) *ManageHandler {
	return &ManageHandler{base: newBase(d)}
}

// List handles /list
func (h *ManageHandler) List(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}

	qs := h.Store.List()
	if len(qs) == 0 {
		_, err := h.reply(ctx, in.ChatID, plain(msgNoQuestions))
		return err
	}

	s := h.Sessions.Start(keyOf(in.ChatID, in.Sender), session.KindManage)
	defer h.Sessions.Release(s)

	ref, err := h.reply(ctx, in.ChatID, questionList(msgListHeader, qs, callback.Select))
	s.Menu = ref
	return err
}

var manageEvents = map[callback.Kind]flow.ManageEventKind{
	callback.KindSelect:        flow.ManageSelect,
	callback.KindShare:         flow.ManageShare,
	callback.KindDelete:        flow.ManageDelete,
	callback.KindBack:          flow.ManageBack,
	callback.KindDeleteConfirm: flow.ManageConfirmDelete,
	callback.KindDeleteCancel:  flow.ManageCancelDelete,
}

// Activate handles a press on a management control.
func (h *ManageHandler) Activate(ctx context.Context, act models.Activation, p callback.Payload) error {
	if !h.authorizedActivation(ctx, act) {
		return nil
	}
	kind, ok := manageEvents[p.Kind]
	if !ok {
		return h.ack(ctx, act, msgButtonError, false)
	}

	key := keyOf(act.ChatID, act.Sender)
	s, ok := h.Sessions.Acquire(key)
	if !ok || s.Kind != session.KindManage {
		if ok {
			h.Sessions.Release(s)
		}
		return h.ack(ctx, act, msgMenuExpired, false)
	}
	defer h.Sessions.Release(s)

	next, out := s.Manage.Apply(flow.ManageEvent{Kind: kind, QuestionID: p.QuestionID}, h.Store)
	s.Manage = next
	s.Menu = act.Message
	if out.Ended {
		h.Sessions.End(key, s)
	}

	notice := ""
	var err error
	switch out.Effect {
	case flow.EffectShowList:
		err = h.showList(ctx, act.Message)
	case flow.EffectSelectionGone:
		notice = msgSelectionGone
		err = h.showList(ctx, act.Message)
	case flow.EffectShowMenu:
		q, ok := h.Store.Get(out.QuestionID)
		if !ok {
			h.Sessions.End(key, s)
			err = h.edit(ctx, act.Message, plain(msgSelectionGoneRestart))
			break
		}
		err = h.edit(ctx, act.Message, questionMenu(q))
	case flow.EffectPromptShare:
		err = h.edit(ctx, act.Message, plain(msgSharePrompt))
	case flow.EffectPromptDelete:
		q, ok := h.Store.Get(out.QuestionID)
		if !ok {
			h.Sessions.End(key, s)
			err = h.edit(ctx, act.Message, plain(msgSelectionGoneRestart))
			break
		}
		err = h.edit(ctx, act.Message, deletePrompt(q))
	case flow.EffectDelete:
		err = h.delete(ctx, act.Message, out.QuestionID)
	case flow.EffectIntegrityMismatch:
		h.Log.Warn().
			Int64("user_id", act.Sender.ID).
			Str("selected", out.QuestionID).
			Str("pressed", p.QuestionID).
			Msg("confirmation does not match selection")
		err = h.edit(ctx, act.Message, plain(msgSelectionChanged))
	case flow.EffectGone:
		err = h.edit(ctx, act.Message, plain(msgSelectionGoneRestart))
	default:
		notice = msgButtonInactive
	}

	return errors.Join(err, h.ack(ctx, act, notice, false))
}

// showList re-renders the current question list in place.
func (h *ManageHandler) showList(ctx context.Context, ref models.MessageRef) error {
	qs := h.Store.List()
	if len(qs) == 0 {
		return h.edit(ctx, ref, plain(msgNoQuestions))
	}
	return h.edit(ctx, ref, questionList(msgListHeader, qs, callback.Select))
}

func (h *ManageHandler) delete(ctx context.Context, ref models.MessageRef, id string) error {
	removed, ok, err := h.Store.DeleteQuestion(id)
	if !ok {
		return h.edit(ctx, ref, plain(msgSelectionGoneRestart))
	}

	text := fmt.Sprintf("Deleted question %s: %s\n%d answers were discarded.", removed.ID, removed.Prompt, len(removed.Answers))
	if err != nil {
		text += msgSaveWarning
	}
	return h.edit(ctx, ref, plain(text))
}

// Text handles operator text while a management session is running. s must
// be held.
func (h *ManageHandler) Text(ctx context.Context, in models.Inbound, key session.Key, s *session.Session) error {
	next, out := s.Manage.Apply(flow.ManageEvent{Kind: flow.ManageText, Text: in.Text}, h.Store)
	s.Manage = next

	switch out.Effect {
	case flow.EffectInvalidDestination:
		_, err := h.reply(ctx, in.ChatID, plain(fmt.Sprintf(
			"Invalid chat ID: %s\nGroup chat IDs start with - followed by digits. Try again or /cancel.", out.Destination)))
		return err
	case flow.EffectGone:
		h.Sessions.End(key, s)
		_, err := h.reply(ctx, in.ChatID, plain(msgSelectionGoneRestart))
		return err
	case flow.EffectReshare:
		return h.reshare(ctx, in, key, s, out)
	}
	_, err := h.reply(ctx, in.ChatID, plain(msgUseButtons))
	return err
}

// reshare sends the selected question to one more destination. Answers to the
// new copy land on the same question.
func (h *ManageHandler) reshare(ctx context.Context, in models.Inbound, key session.Key, s *session.Session, out flow.ManageOutcome) error {
	q, ok := h.Store.Get(out.QuestionID)
	if !ok {
		h.Sessions.End(key, s)
		_, err := h.reply(ctx, in.ChatID, plain(msgSelectionGoneRestart))
		return err
	}
	sendErr := h.deliver(ctx, q, out.Destination, metrics.DeliveryReshare)

	next, res := s.Manage.Apply(flow.ManageEvent{Kind: flow.ManageDelivered, Err: sendErr}, h.Store)
	s.Manage = next
	if res.Ended {
		h.Sessions.End(key, s)
	}

	var msg models.Message
	if res.Effect == flow.EffectShared {
		h.Log.Info().Str("question_id", q.ID).Str("destination", out.Destination).Msg("question reshared")
		msg = plain(fmt.Sprintf("Question %s shared to %s.", q.ID, out.Destination))
	} else {
		msg = plain(fmt.Sprintf("Could not send to %s: %v\nSend another chat ID or /cancel.", out.Destination, sendErr))
	}
	_, err := h.reply(ctx, in.ChatID, msg)
	return err
}

// Cancel ends a management session. s must be held.
func (h *ManageHandler) Cancel(ctx context.Context, in models.Inbound, key session.Key, s *session.Session) error {
	next, out := s.Manage.Apply(flow.ManageEvent{Kind: flow.ManageCancel}, h.Store)
	s.Manage = next
	if out.Ended {
		h.Sessions.End(key, s)
	}
	_, err := h.reply(ctx, in.ChatID, plain(msgManageCancelled))
	return err
}
