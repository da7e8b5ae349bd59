// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/testutil"
)

func TestStart(t *testing.T) {
	e := newTestEnv(t)

	e.say(t, testutil.Operator, "/start")
	msg := e.msg.LastSent(t).Message
	if !msg.Markdown {
		t.Error("welcome should be styled")
	}
	for _, cmd := range []string{"/ask", "/done", "/send", "/cancel", "/list", "/answers", "/export", "/fix"} {
		assertContains(t, msg.Text, cmd)
	}

	e.say(t, testutil.Stranger, "/help")
	if e.lastText(t) != msgUnauthorized {
		t.Errorf("stranger got %q", e.lastText(t))
	}
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	testutil.CreateTestQuestion(t, e.store, "Capital?", "Paris", "Lyon")
	testutil.CreateTestQuestion(t, e.store, "Season?", "Spring")
	testutil.AddTestAnswer(t, e.store, "1", testutil.Student, "Paris")

	e.say(t, testutil.Operator, "/export")

	if len(e.msg.Docs) != 1 {
		t.Fatalf("sent %d documents, want 1", len(e.msg.Docs))
	}
	doc := e.msg.Docs[0]
	const name = "quiz_export_20250314_150926.json"
	if doc.Document.FileName != name || doc.ChatID != testutil.OperatorChat {
		t.Errorf("document = %+v", doc.Document)
	}
	assertContains(t, doc.Document.Caption, "Questions: 2")

	var exp models.Export
	if err := json.Unmarshal(doc.Data, &exp); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if exp.Metadata.ExportedBy != "Olivia (@olivia)" || exp.Metadata.TotalQuestions != 2 || exp.Metadata.QuestionCounter != 3 {
		t.Errorf("metadata = %+v", exp.Metadata)
	}
	if exp.Questions["1"].Answers["2002"].Choice != "Paris" {
		t.Errorf("questions = %+v", exp.Questions)
	}

	if _, err := os.Stat(filepath.Join(e.cfg.DataDir, name)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("export file left behind: %v", err)
	}
}

func TestExportEmptyAndUnauthorized(t *testing.T) {
	e := newTestEnv(t)

	e.say(t, testutil.Operator, "/export")
	if e.lastText(t) != msgNothingToExport {
		t.Errorf("reply = %q", e.lastText(t))
	}

	testutil.CreateTestQuestion(t, e.store, "Q", "A")
	e.say(t, testutil.Stranger, "/export")
	if e.lastText(t) != msgUnauthorized || len(e.msg.Docs) != 0 {
		t.Errorf("stranger export: reply=%q docs=%d", e.lastText(t), len(e.msg.Docs))
	}
}

func TestExportByUserWithoutHandle(t *testing.T) {
	e := newTestEnv(t)
	testutil.CreateTestQuestion(t, e.store, "Q", "A")
	e.set.Authz = allowAll{}
	e.set.Admin.Authz = allowAll{}

	e.say(t, models.Identity{ID: 55, DisplayName: "Nora"}, "/export")

	var exp models.Export
	if err := json.Unmarshal(e.msg.Docs[0].Data, &exp); err != nil {
		t.Fatal(err)
	}
	if exp.Metadata.ExportedBy != "Nora (ID: 55)" {
		t.Errorf("ExportedBy = %q", exp.Metadata.ExportedBy)
	}
}

type allowAll struct{}

func (allowAll) IsAuthorized(models.Identity) bool { return true }

func TestRenumber(t *testing.T) {
	e := newTestEnv(t)

	e.say(t, testutil.Operator, "/fix")
	if e.lastText(t) != msgNothingRenumber {
		t.Errorf("reply = %q", e.lastText(t))
	}

	for i := 0; i < 4; i++ {
		testutil.CreateTestQuestion(t, e.store, "Q", "A")
	}
	if _, _, err := e.store.DeleteQuestion("2"); err != nil {
		t.Fatal(err)
	}

	e.say(t, testutil.Operator, "/fix")
	if got := e.lastText(t); got != "Renumbered 3 questions.\nIDs: 1, 2, 3" {
		t.Errorf("reply = %q", got)
	}
	if e.store.NextID() != 5 {
		t.Errorf("NextID() = %d, want 5", e.store.NextID())
	}
}

func TestRenumberEndsManageSessions(t *testing.T) {
	e := newTestEnv(t)
	ref := openList(t, e)
	e.press(t, ref, testutil.Operator, "m_select:2")

	e.say(t, testutil.Operator, "/fix")
	if e.sessions.Len() != 0 {
		t.Fatal("management session survived renumber")
	}

	e.press(t, ref, testutil.Operator, "m_delete:2")
	if ack := e.msg.LastAck(t); ack.Text != msgMenuExpired {
		t.Errorf("ack = %+v", ack)
	}
	if _, ok := e.store.Get("2"); !ok {
		t.Error("stale menu reached a renumbered question")
	}
}

func TestRenumberKeepsAuthoringSessions(t *testing.T) {
	e := newTestEnv(t)
	testutil.CreateTestQuestion(t, e.store, "Q", "A")
	e.say(t, testutil.Operator, "/ask")

	e.say(t, testutil.Operator, "/fix")
	if e.sessions.Len() != 1 {
		t.Error("renumber ended an authoring session")
	}
}
