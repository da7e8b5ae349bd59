// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type testEnv struct {
	set      *Set
	store    *store.Store
	mem      *store.Memory
	msg      *testutil.FakeMessenger
	sessions *session.Registry
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, mem := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig(t)
	m := metrics.New(prometheus.NewRegistry())
	reg := session.NewRegistry(session.Options{TTL: cfg.SessionTTL, Logger: zerolog.Nop()})
	fake := testutil.NewFakeMessenger()

	set := NewSet(Deps{
		Store:     st,
		Sessions:  reg,
		Messenger: fake,
		Authz:     auth.NewAllowList(cfg.AllowedIDs, cfg.AllowedUsernames),
		Metrics:   m,
		Log:       zerolog.Nop(),
		Config:    cfg,
		Now:       func() time.Time { return testutil.FixedNow },
	})
	return &testEnv{set: set, store: st, mem: mem, msg: fake, sessions: reg, metrics: m, cfg: cfg}
}

// say feeds one operator message through the same routing the bot uses.
func (e *testEnv) say(t *testing.T, u models.Identity, text string) {
	t.Helper()
	ctx := context.Background()
	in := testutil.Command(testutil.OperatorChat, u, text)

	var err error
	switch text {
	case "/start", "/help":
		err = e.set.Admin.Start(ctx, in)
	case "/ask":
		err = e.set.Ask.Start(ctx, in)
	case "/done":
		err = e.set.Ask.Done(ctx, in)
	case "/send":
		err = e.set.Ask.Send(ctx, in)
	case "/cancel":
		err = e.set.Cancel(ctx, in)
	case "/list":
		err = e.set.Manage.List(ctx, in)
	case "/answers":
		err = e.set.Results.List(ctx, in)
	case "/export":
		err = e.set.Admin.Export(ctx, in)
	case "/fix":
		err = e.set.Admin.Renumber(ctx, in)
	default:
		err = e.set.Text(ctx, in)
	}
	if err != nil {
		t.Fatalf("%q returned error: %v", text, err)
	}
}

func (e *testEnv) press(t *testing.T, ref models.MessageRef, u models.Identity, data string) {
	t.Helper()
	if err := e.set.Activation(context.Background(), testutil.Press(ref, u, data)); err != nil {
		t.Fatalf("activation %q returned error: %v", data, err)
	}
}

func (e *testEnv) lastText(t *testing.T) string {
	t.Helper()
	return e.msg.LastSent(t).Message.Text
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected %q to contain %q", got, want)
	}
}

func payloads(msg models.Message) []string {
	var out []string
	for _, row := range msg.Controls {
		for _, c := range row {
			out = append(out, c.Payload)
		}
	}
	return out
}
