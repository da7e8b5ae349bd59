// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-ask/flow"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
)

// AskHandler runs the authoring conversation and the broadcast.
type AskHandler struct {
	base
}

func NewAskHandler(d Deps) *AskHandler {
	return &AskHandler{base: newBase(d)}
}

// Start handles /ask
func (h *AskHandler) Start(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}

	s := h.Sessions.Start(keyOf(in.ChatID, in.Sender), session.KindAuthoring)
	s.Authoring = flow.NewAuthoring(h.Config.MessageLimit)
	h.Sessions.Release(s)

	h.Log.Info().Int64("chat_id", in.ChatID).Int64("user_id", in.Sender.ID).Msg("authoring started")
	_, err := h.reply(ctx, in.ChatID, markdown(msgAskStart))
	return err
}

// Done handles /done
func (h *AskHandler) Done(ctx context.Context, in models.Inbound) error {
	return h.signal(ctx, in, flow.Event{Kind: flow.EventDone})
}

// Send handles /send
func (h *AskHandler) Send(ctx context.Context, in models.Inbound) error {
	return h.signal(ctx, in, flow.Event{Kind: flow.EventSend})
}

func (h *AskHandler) signal(ctx context.Context, in models.Inbound, ev flow.Event) error {
	if !h.authorized(ctx, in) {
		return nil
	}
	key := keyOf(in.ChatID, in.Sender)
	s, ok := h.Sessions.Acquire(key)
	if !ok {
		_, err := h.reply(ctx, in.ChatID, plain(msgNoDraft))
		return err
	}
	defer h.Sessions.Release(s)

	if s.Kind != session.KindAuthoring {
		_, err := h.reply(ctx, in.ChatID, plain(msgNoDraft))
		return err
	}
	return h.apply(ctx, in, key, s, ev)
}

// apply runs one authoring transition. s must be held.
func (h *AskHandler) apply(ctx context.Context, in models.Inbound, key session.Key, s *session.Session, ev flow.Event) error {
	next, out := s.Authoring.Apply(ev)
	s.Authoring = next
	if out.Ended {
		h.Sessions.End(key, s)
	}

	if out.Notice == flow.NoticeDraftIncomplete {
		h.Log.Warn().Int64("chat_id", in.ChatID).Int64("user_id", in.Sender.ID).Msg("incomplete draft at send")
	}
	if out.Publish != nil {
		return h.publish(ctx, in, *out.Publish)
	}
	_, err := h.reply(ctx, in.ChatID, authoringNotice(out, h.Config.MessageLimit))
	return err
}

// deliveryFailure is one destination that did not receive a question.
type deliveryFailure struct {
	Destination string
	Err         error
}

// publish creates the question and sends it to every destination. The
// question is kept whatever the deliveries do.
func (h *AskHandler) publish(ctx context.Context, in models.Inbound, d flow.Draft) error {
	q, err := h.Store.CreateQuestion(d.Prompt, d.Options)
	saveFailed := false
	if err != nil {
		if q.ID == "" {
			h.Log.Error().Err(err).Int64("user_id", in.Sender.ID).Msg("failed to create question")
			_, rerr := h.reply(ctx, in.ChatID, authoringNotice(flow.Outcome{Notice: flow.NoticeDraftIncomplete}, 0))
			return errors.Join(err, rerr)
		}
		saveFailed = true
	}

	var failures []deliveryFailure
	for _, dest := range d.Destinations {
		if err := h.deliver(ctx, q, dest, metrics.DeliveryBroadcast); err != nil {
			failures = append(failures, deliveryFailure{Destination: dest, Err: err})
		}
	}

	h.Log.Info().
		Str("question_id", q.ID).
		Int("destinations", len(d.Destinations)).
		Int("failed", len(failures)).
		Msg("question broadcast")

	_, err = h.reply(ctx, in.ChatID, publishSummary(q, len(d.Destinations), failures, saveFailed))
	return err
}

// deliver sends q to one destination chat.
func (b *base) deliver(ctx context.Context, q models.Question, dest, kind string) error {
	chatID, err := strconv.ParseInt(dest, 10, 64)
	if err == nil {
		_, err = b.Messenger.Send(ctx, chatID, questionMessage(q))
	}
	b.Metrics.RecordDelivery(kind, err)
	if err != nil {
		b.Log.Warn().Err(err).Str("question_id", q.ID).Str("destination", dest).Msg("delivery failed")
	}
	return err
}

func publishSummary(q models.Question, total int, failures []deliveryFailure, saveFailed bool) models.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %s created and sent to %d of %d destinations.", q.ID, total-len(failures), total)
	if len(failures) > 0 {
		b.WriteString("\n\nFailed destinations:")
		for _, f := range failures {
			fmt.Fprintf(&b, "\n%s: %v", f.Destination, f.Err)
		}
	}
	if saveFailed {
		b.WriteString(msgSaveWarning)
	}
	return plain(b.String())
}
