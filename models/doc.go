// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and messaging types shared by every package.

# Domain Types

  - Question: prompt, ordered options, answers keyed by respondent ID
  - Answer: the chosen option text plus best-effort identity and time
  - Snapshot: the durable record (questions, ID counter, save time)
  - Export: snapshot plus export metadata

The JSON field names (questions_db, question_counter, answer, name, username,
timestamp) match the data files written by earlier versions of the bot, so
existing files load unchanged.

# Messaging Types

Transport-neutral shapes used by handlers and implemented by the telegram
adapter:

  - Message, Control: outbound text with optional inline controls
  - MessageRef: address of a delivered message, for edits
  - Document: downloadable file
  - Inbound, Activation: incoming text and control presses
  - Identity: who sent an update
*/
package models
