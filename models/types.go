// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted when reading answer times. Files written by
// older versions of the bot carry ISO timestamps without a zone.
var answerTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Domain types

// Question is a single poll item. Options are fixed at creation; only
// Answers grows afterwards.
type Question struct {
	ID      string            `json:"-"`
	Prompt  string            `json:"question"`
	Options []string          `json:"options"`
	Answers map[string]Answer `json:"answers"`
}

// Answer is one respondent's recorded choice. Choice is the option text, not
// an index, so history survives any change to the option set.
type Answer struct {
	RespondentID string `json:"-"`
	Choice       string `json:"answer"`
	DisplayName  string `json:"name"`
	Handle       string `json:"username"`
	AnsweredAt   string `json:"timestamp"`
}

// Time parses AnsweredAt. ok is false for empty or malformed values.
func (a Answer) Time() (t time.Time, ok bool) {
	if a.AnsweredAt == "" {
		return time.Time{}, false
	}
	for _, layout := range answerTimeLayouts {
		if t, err := time.Parse(layout, a.AnsweredAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := Question{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
		Answers: make(map[string]Answer, len(q.Answers)),
	}
	for id, a := range q.Answers {
		out.Answers[id] = a
	}
	return out
}

// Snapshot is the durable state record: every question, the ID counter and
// the time of the save.
type Snapshot struct {
	Questions map[string]Question `json:"questions_db"`
	Counter   int                 `json:"question_counter"`
	LastSaved string              `json:"last_saved"`
}

// Export is the document handed to operators by /export.
type Export struct {
	Questions map[string]Question `json:"questions_db"`
	Metadata  ExportMetadata      `json:"metadata"`
}

type ExportMetadata struct {
	ExportedAt      string `json:"exported_at"`
	ExportedBy      string `json:"exported_by"`
	TotalQuestions  int    `json:"total_questions"`
	QuestionCounter int    `json:"question_counter"`
}

// Identity is the best-effort identity of a chat user.
type Identity struct {
	ID          int64
	DisplayName string
	Handle      string
}

// Label renders the identity the way exports name their author.
func (u Identity) Label() string {
	if u.Handle != "" {
		return u.DisplayName + " (@" + u.Handle + ")"
	}
	return u.DisplayName + " (ID: " + strconv.FormatInt(u.ID, 10) + ")"
}

// Messaging types

// MessageRef addresses a delivered message so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID string
}

// Control is one interactive button; Payload is what comes back on activation.
type Control struct {
	Text    string
	Payload string
}

// Message is an outbound message. Controls are laid out one row per slice.
type Message struct {
	Text     string
	Markdown bool
	Controls [][]Control
}

// Plain returns the message with Markdown disabled and emphasis markers removed.
func (m Message) Plain() Message {
	m.Markdown = false
	m.Text = markupStripper.Replace(m.Text)
	return m
}

var markupStripper = strings.NewReplacer("*", "", "_", "", "`", "")

// Document is a downloadable file sent to a chat. Path, when set, is read
// instead of Data.
type Document struct {
	FileName string
	Caption  string
	Path     string
	Data     []byte
}

// Inbound is a text message or command from a chat.
type Inbound struct {
	ChatID int64
	Sender Identity
	Text   string
}

// Activation is a press on an interactive control.
type Activation struct {
	ID      string
	ChatID  int64
	Message MessageRef
	Sender  Identity
	Data    string
}

// Status is the body of the /ready probe.
type Status struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
	NextID    int    `json:"next_id"`
	Sessions  int    `json:"sessions"`
}

// ErrorResponse is the JSON error body of the observability endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
