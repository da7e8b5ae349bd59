// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"strings"

	"github.com/danielhkuo/quickly-ask/callback"
	"github.com/danielhkuo/quickly-ask/flow"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
)

// Set is every handler, plus the routing for free text, /cancel and control
// activations.
type Set struct {
	base

	Ask     *AskHandler
	Manage  *ManageHandler
	Answer  *AnswerHandler
	Results *ResultsHandler
	Admin   *AdminHandler
}

func NewSet(d Deps) *Set {
	return &Set{
		base:    newBase(d),
		Ask:     NewAskHandler(d),
		Manage:  NewManageHandler(d),
		Answer:  NewAnswerHandler(d),
		Results: NewResultsHandler(d),
		Admin:   NewAdminHandler(d),
	}
}

// Text routes a plain message to the sender's running session. Text without
// a session, and unknown commands, are ignored.
func (s *Set) Text(ctx context.Context, in models.Inbound) error {
	if strings.HasPrefix(in.Text, "/") {
		return nil
	}
	key := keyOf(in.ChatID, in.Sender)
	sess, ok := s.Sessions.Acquire(key)
	if !ok {
		return nil
	}
	defer s.Sessions.Release(sess)

	switch sess.Kind {
	case session.KindAuthoring:
		return s.Ask.apply(ctx, in, key, sess, flow.Text(in.Text))
	case session.KindManage:
		return s.Manage.Text(ctx, in, key, sess)
	}
	return nil
}

// Cancel handles /cancel for whichever flow is running.
func (s *Set) Cancel(ctx context.Context, in models.Inbound) error {
	if !s.authorized(ctx, in) {
		return nil
	}
	key := keyOf(in.ChatID, in.Sender)
	sess, ok := s.Sessions.Acquire(key)
	if !ok {
		_, err := s.reply(ctx, in.ChatID, plain(msgNothingToCancel))
		return err
	}
	defer s.Sessions.Release(sess)

	if sess.Kind == session.KindManage {
		return s.Manage.Cancel(ctx, in, key, sess)
	}
	return s.Ask.apply(ctx, in, key, sess, flow.Event{Kind: flow.EventCancel})
}

// Activation routes a control press by its payload prefix.
func (s *Set) Activation(ctx context.Context, act models.Activation) error {
	p, err := callback.Parse(act.Data)
	if err != nil {
		s.Log.Warn().Err(err).Int64("user_id", act.Sender.ID).Str("data", act.Data).Msg("rejected control payload")
		if strings.HasPrefix(act.Data, callback.PrefixAnswer+":") {
			s.Metrics.RecordAnswer(metrics.AnswerMalformed)
		}
		return s.ack(ctx, act, msgButtonError, false)
	}

	switch p.Kind {
	case callback.KindAnswer:
		return s.Answer.Record(ctx, act, p)
	case callback.KindShowAnswers:
		return s.Results.Show(ctx, act, p)
	default:
		return s.Manage.Activate(ctx, act, p)
	}
}
