// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/rs/zerolog"
)

// Chats and users used across handler tests.
const (
	OperatorChat int64 = 1001
	GroupChat    int64 = -100123
	OtherGroup   int64 = -100456
)

var (
	Operator = models.Identity{ID: 1001, DisplayName: "Olivia", Handle: "olivia"}
	Student  = models.Identity{ID: 2002, DisplayName: "Sam", Handle: "sam"}
	Stranger = models.Identity{ID: 3003, DisplayName: "Mallory"}
)

// FixedNow is the clock used by test stores and handlers.
var FixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

// ErrMarkdown is what FakeMessenger returns for styled text when
// RejectMarkdown is set.
var ErrMarkdown = errors.New("can't parse entities")

// GetTestConfig returns a config suitable for testing
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		BotToken:     "test-token",
		DataDir:      t.TempDir(),
		StoreBackend: "memory",
		AllowedIDs:   []int64{Operator.ID},
		LogLevel:     "debug",
		SessionTTL:   cliparse.DefaultSessionTTL,
		MessageLimit: cliparse.DefaultMessageLimit,
	}
}

// NewTestStore opens an empty store over an in-memory persister.
func NewTestStore(t *testing.T) (*store.Store, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	s := store.Open(mem, store.Options{
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return FixedNow },
	})
	return s, mem
}

// CreateTestQuestion adds a question to s
func CreateTestQuestion(t *testing.T, s *store.Store, prompt string, options ...string) models.Question {
	t.Helper()
	q, err := s.CreateQuestion(prompt, options)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// AddTestAnswer records an answer from u
func AddTestAnswer(t *testing.T, s *store.Store, questionID string, u models.Identity, choice string) {
	t.Helper()
	_, err := s.RecordAnswer(questionID, models.Answer{
		RespondentID: strconv.FormatInt(u.ID, 10),
		Choice:       choice,
		DisplayName:  u.DisplayName,
		Handle:       u.Handle,
		AnsweredAt:   FixedNow.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("Failed to add test answer: %v", err)
	}
}

// Command builds an inbound message from u in chatID.
func Command(chatID int64, u models.Identity, text string) models.Inbound {
	return models.Inbound{ChatID: chatID, Sender: u, Text: text}
}

// Press builds an activation of data on the message at ref.
func Press(ref models.MessageRef, u models.Identity, data string) models.Activation {
	return models.Activation{
		ID:      "cb-" + strconv.FormatInt(u.ID, 10),
		ChatID:  ref.ChatID,
		Message: ref,
		Sender:  u,
		Data:    data,
	}
}

type SentMessage struct {
	ChatID  int64
	Ref     models.MessageRef
	Message models.Message
}

type EditedMessage struct {
	Ref     models.MessageRef
	Message models.Message
}

type Ack struct {
	ID    string
	Text  string
	Alert bool
}

type SentDocument struct {
	ChatID   int64
	Document models.Document
	// Data is the file content read at send time.
	Data []byte
}

// FakeMessenger records everything the handlers send.
type FakeMessenger struct {
	mu     sync.Mutex
	nextID int

	Sent  []SentMessage
	Edits []EditedMessage
	Acks  []Ack
	Docs  []SentDocument

	// FailChats makes sends to these chats fail with the given error.
	FailChats map[int64]error
	// RejectMarkdown makes every styled send or edit fail.
	RejectMarkdown bool
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{FailChats: make(map[int64]error)}
}

func (f *FakeMessenger) Send(_ context.Context, chatID int64, msg models.Message) (models.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.FailChats[chatID]; err != nil {
		return models.MessageRef{}, err
	}
	if f.RejectMarkdown && msg.Markdown {
		return models.MessageRef{}, ErrMarkdown
	}
	f.nextID++
	ref := models.MessageRef{ChatID: chatID, MessageID: strconv.Itoa(f.nextID)}
	f.Sent = append(f.Sent, SentMessage{ChatID: chatID, Ref: ref, Message: msg})
	return ref, nil
}

func (f *FakeMessenger) Edit(_ context.Context, ref models.MessageRef, msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.RejectMarkdown && msg.Markdown {
		return ErrMarkdown
	}
	f.Edits = append(f.Edits, EditedMessage{Ref: ref, Message: msg})
	return nil
}

func (f *FakeMessenger) Acknowledge(_ context.Context, id, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Acks = append(f.Acks, Ack{ID: id, Text: text, Alert: alert})
	return nil
}

func (f *FakeMessenger) SendDocument(_ context.Context, chatID int64, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.FailChats[chatID]; err != nil {
		return err
	}
	data := doc.Data
	if doc.Path != "" {
		b, err := os.ReadFile(doc.Path)
		if err != nil {
			return err
		}
		data = b
	}
	f.Docs = append(f.Docs, SentDocument{ChatID: chatID, Document: doc, Data: data})
	return nil
}

// LastSent returns the most recent message, failing the test if none.
func (f *FakeMessenger) LastSent(t *testing.T) SentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		t.Fatal("no message was sent")
	}
	return f.Sent[len(f.Sent)-1]
}

// LastEdit returns the most recent edit, failing the test if none.
func (f *FakeMessenger) LastEdit(t *testing.T) EditedMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Edits) == 0 {
		t.Fatal("no message was edited")
	}
	return f.Edits[len(f.Edits)-1]
}

// LastAck returns the most recent acknowledgement, failing the test if none.
func (f *FakeMessenger) LastAck(t *testing.T) Ack {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Acks) == 0 {
		t.Fatal("no activation was acknowledged")
	}
	return f.Acks[len(f.Acks)-1]
}

// SentTo returns the messages delivered to chatID.
func (f *FakeMessenger) SentTo(chatID int64) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.Sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}
