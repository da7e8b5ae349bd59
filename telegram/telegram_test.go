// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

type sendCall struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type editCall struct {
	msg  tele.Editable
	what interface{}
	opts []interface{}
}

type fakeAPI struct {
	sends    []sendCall
	edits    []editCall
	responds []*tele.CallbackResponse
	callback []*tele.Callback
	editErr  error
	sendErr  error
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sends = append(f.sends, sendCall{to, what, opts})
	return &tele.Message{ID: 40 + len(f.sends)}, nil
}

func (f *fakeAPI) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edits = append(f.edits, editCall{msg, what, opts})
	return &tele.Message{}, nil
}

func (f *fakeAPI) Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error {
	f.callback = append(f.callback, c)
	f.responds = append(f.responds, resp...)
	return nil
}

func TestSendBuildsInlineKeyboard(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())

	msg := models.Message{
		Text:     "*Pick*",
		Markdown: true,
		Controls: [][]models.Control{
			{{Text: "A", Payload: "ans:1:A"}},
			{{Text: "B", Payload: "ans:1:B"}, {Text: "C", Payload: "ans:1:C"}},
		},
	}
	ref, err := m.Send(context.Background(), -100123, msg)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if ref != (models.MessageRef{ChatID: -100123, MessageID: "41"}) {
		t.Errorf("ref = %+v", ref)
	}

	call := api.sends[0]
	if call.to.Recipient() != "-100123" || call.what != "*Pick*" {
		t.Errorf("call = %+v", call)
	}
	opts := call.opts[0].(*tele.SendOptions)
	if opts.ParseMode != tele.ModeMarkdown {
		t.Errorf("ParseMode = %q", opts.ParseMode)
	}
	want := [][]tele.InlineButton{
		{{Text: "A", Data: "ans:1:A"}},
		{{Text: "B", Data: "ans:1:B"}, {Text: "C", Data: "ans:1:C"}},
	}
	if !reflect.DeepEqual(opts.ReplyMarkup.InlineKeyboard, want) {
		t.Errorf("keyboard = %+v", opts.ReplyMarkup.InlineKeyboard)
	}
}

func TestSendPlainHasNoMarkup(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())
	if _, err := m.Send(context.Background(), 5, models.Message{Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	opts := api.sends[0].opts[0].(*tele.SendOptions)
	if opts.ParseMode != tele.ModeDefault || opts.ReplyMarkup != nil {
		t.Errorf("opts = %+v", opts)
	}
}

func TestSendHonoursCancelledContext(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Send(ctx, 5, models.Message{Text: "hi"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v", err)
	}
	if len(api.sends) != 0 {
		t.Error("message sent on a cancelled context")
	}
}

func TestEdit(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())
	ref := models.MessageRef{ChatID: 7, MessageID: "99"}

	if err := m.Edit(context.Background(), ref, models.Message{Text: "new"}); err != nil {
		t.Fatal(err)
	}
	msgID, chatID := api.edits[0].msg.MessageSig()
	if msgID != "99" || chatID != 7 || api.edits[0].what != "new" {
		t.Errorf("edit = %+v", api.edits[0])
	}

	api.editErr = errors.New("telegram: Bad Request: message is not modified (400)")
	if err := m.Edit(context.Background(), ref, models.Message{Text: "new"}); err != nil {
		t.Errorf("unchanged edit error = %v", err)
	}

	api.editErr = errors.New("telegram: Bad Request: message to edit not found (400)")
	if err := m.Edit(context.Background(), ref, models.Message{Text: "new"}); err == nil {
		t.Error("expected error for missing message")
	}
}

func TestAcknowledge(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())

	if err := m.Acknowledge(context.Background(), "cb1", "Nope", true); err != nil {
		t.Fatal(err)
	}
	if api.callback[0].ID != "cb1" || api.responds[0].Text != "Nope" || !api.responds[0].ShowAlert {
		t.Errorf("respond = %+v %+v", api.callback[0], api.responds[0])
	}
}

func TestSendDocument(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(api, zerolog.Nop())

	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := m.SendDocument(context.Background(), 9, models.Document{FileName: "export.json", Caption: "cap", Path: path})
	if err != nil {
		t.Fatal(err)
	}

	doc, ok := api.sends[0].what.(*tele.Document)
	if !ok {
		t.Fatalf("sent %T, want *tele.Document", api.sends[0].what)
	}
	if doc.FileName != "export.json" || doc.Caption != "cap" || doc.File.FileLocal != path {
		t.Errorf("document = %+v", doc)
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		user *tele.User
		want models.Identity
	}{
		{"nil", nil, models.Identity{}},
		{"full", &tele.User{ID: 5, FirstName: "Ada", LastName: "Lovelace", Username: "ada"}, models.Identity{ID: 5, DisplayName: "Ada Lovelace", Handle: "ada"}},
		{"first name only", &tele.User{ID: 6, FirstName: "Sam"}, models.Identity{ID: 6, DisplayName: "Sam"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identity(tt.user); got != tt.want {
				t.Errorf("Identity() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	in := inboundFrom(&tele.Message{
		Text:   "  -100123 ",
		Chat:   &tele.Chat{ID: 77},
		Sender: &tele.User{ID: 5, FirstName: "Ada"},
	})
	if in.ChatID != 77 || in.Text != "-100123" || in.Sender.ID != 5 {
		t.Errorf("inbound = %+v", in)
	}

	act := activationFrom(&tele.Callback{
		ID:      "cb",
		Data:    "ans:1:A",
		Sender:  &tele.User{ID: 8},
		Message: &tele.Message{ID: 12, Chat: &tele.Chat{ID: -100}},
	})
	want := models.Activation{
		ID:      "cb",
		ChatID:  -100,
		Message: models.MessageRef{ChatID: -100, MessageID: "12"},
		Sender:  models.Identity{ID: 8},
		Data:    "ans:1:A",
	}
	if act != want {
		t.Errorf("activation = %+v, want %+v", act, want)
	}

	if got := activationFrom(nil); got != (models.Activation{}) {
		t.Errorf("nil callback = %+v", got)
	}
}
