// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the bot's command, text and button handlers.

# Handler Types

Each handler is a struct built from the shared Deps:

  - AskHandler: question authoring and broadcast (/ask, /done, /send)
  - ManageHandler: list, reshare and delete (/list and m_* buttons)
  - AnswerHandler: answer buttons (ans:<id>:<option>)
  - ResultsHandler: answer statistics (/answers and show_ans buttons)
  - AdminHandler: /start, /help, /export, /fix

NewSet builds all of them and routes free text, /cancel and button presses:

	set := handlers.NewSet(handlers.Deps{Store: st, Sessions: reg, Messenger: m, Authz: list, ...})

Handlers talk to the chat through the Messenger interface, so they know
nothing about the transport. A styled message the transport rejects is
resent once as plain text.

# Authoring Flow

	/ask       → prompt
	text       → option, repeated
	/done      → destinations
	text       → destination chat ID, repeated
	/send      → create question, broadcast, summary

The question is created before delivery and kept even if every destination
fails; the summary lists the failures.

# Management Flow

	/list → m_select:<id> → m_share:<id>  → destination text → reshare
	                      → m_delete:<id> → m_delete_confirm:<id> | m_delete_cancel:<id>
	                      → m_back_list

Confirm and cancel carry the question ID and must match the selection held in
the session; otherwise the flow stops without deleting anything.

# Answers

Answering is open to everyone and needs no session. The first answer per
respondent wins; later presses are told what they picked.

# Reports

BuildReport and RenderReport turn a question into per-option counts and a
respondent list. Reports over the message limit drop the list and point at
/export.

# Authorization

Everything except answering requires the operator allow-list. Commands get a
refusal message, buttons an alert.
*/
package handlers
