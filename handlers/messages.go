// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-ask/callback"
	"github.com/danielhkuo/quickly-ask/flow"
	"github.com/danielhkuo/quickly-ask/models"
)

const (
	msgUnauthorized = "Sorry, only authorized operators can use this command."

	msgWelcome = `*Quiz bot*

Create a question and send it to your groups. Members answer with the buttons; everyone gets one answer.

*Commands*
/ask - write a new question
/done - finish adding options
/send - broadcast to the destinations
/cancel - abandon the current step
/list - share or delete questions
/answers - view results
/export - download all data as JSON
/fix - renumber questions 1..N`

	msgAskStart             = "*New question*\nSend the question text. /cancel to abort."
	msgNoDraft              = "No question in progress. Start one with /ask."
	msgNothingToCancel      = "Nothing to cancel."
	msgUseButtons           = "Use the buttons above, or /cancel."
	msgNoQuestions          = "No questions yet. Create one with /ask."
	msgNothingToExport      = "Nothing to export yet."
	msgNothingRenumber      = "No questions to renumber."
	msgSaveWarning          = "\n\nWarning: the change could not be saved to disk. It is kept in memory until the next successful save."
	msgButtonError          = "Something went wrong with that button."
	msgMenuExpired          = "This menu has expired. Use /list again."
	msgButtonInactive       = "This button is no longer active."
	msgManageCancelled      = "Cancelled."
	msgSelectionGone        = "That question no longer exists."
	msgSelectionGoneRestart = msgSelectionGone + " Use /list to start again."
	msgSelectionChanged     = "The selection changed in the meantime. Nothing was done; start again with /list."
	msgSharePrompt          = "Send the destination chat ID (for example -1001234567890). /cancel to abort."
	msgListHeader           = "*Questions*\nSelect one to manage it:"
	msgAnswersHeader        = "*Answers*\nSelect a question to see its results:"

	ackNotAvailable = "This question is no longer available."
	ackRecorded     = "Your answer has been recorded: %s"
	ackAlready      = "You already answered: %s"

	labelShare       = "Share"
	labelDelete      = "Delete"
	labelBack        = "« Back to list"
	labelConfirm     = "Yes, delete"
	labelCancelMenu  = "Cancel"
	listPromptLength = 30
)

func markdown(text string) models.Message { return models.Message{Text: text, Markdown: true} }

func plain(text string) models.Message { return models.Message{Text: text} }

// authoringNotice renders the operator feedback for one authoring step.
func authoringNotice(out flow.Outcome, maxPrompt int) models.Message {
	switch out.Notice {
	case flow.NoticePromptSaved:
		return markdown("*Question saved.*\nNow send the answer options, one per message. Send /done when finished.")
	case flow.NoticeEmptyPrompt:
		return plain("The question text cannot be empty. Send the question text.")
	case flow.NoticePromptTooLong:
		return plain(fmt.Sprintf("The question is too long (max %d characters). Send a shorter one.", maxPrompt))
	case flow.NoticeOptionAdded:
		return plain(fmt.Sprintf("Option added: %s\nSend another option or /done.", out.Arg))
	case flow.NoticeEmptyOption:
		return plain("Options cannot be empty. Send the option text.")
	case flow.NoticeOptionTooLong:
		return plain(fmt.Sprintf("That option is too long (max %d bytes). Send a shorter one.", callback.MaxOptionBytes))
	case flow.NoticeNoOptions:
		return plain("Add at least one option before /done.")
	case flow.NoticeOptionsDone:
		return markdown("*Options saved.*\nNow send destination chat IDs (for example -1001234567890), one per message. Send /send when finished.")
	case flow.NoticeDestinationAdded:
		return plain(fmt.Sprintf("Destination added: %s\nSend another or /send.", out.Arg))
	case flow.NoticeInvalidDestination:
		return plain(fmt.Sprintf("Invalid chat ID: %s\nGroup chat IDs start with - followed by digits.", out.Arg))
	case flow.NoticeNoDestinations:
		return plain("Add at least one destination before /send.")
	case flow.NoticeDraftIncomplete:
		return plain("Something went wrong with this draft. Please start again with /ask.")
	case flow.NoticeCancelled:
		return plain("Cancelled. Nothing was saved.")
	case flow.NoticeAwaitingPrompt:
		return plain("Send the question text first.")
	case flow.NoticeAwaitingOptions:
		return plain("Send an option, or /done to finish options.")
	case flow.NoticeAwaitingDestinations:
		return plain("Send a destination chat ID, or /send to broadcast.")
	}
	return plain(msgUseButtons)
}

// questionMessage is the broadcast form of q: its prompt and one answer
// button per option.
func questionMessage(q models.Question) models.Message {
	rows := make([][]models.Control, 0, len(q.Options))
	for _, opt := range q.Options {
		rows = append(rows, []models.Control{{Text: opt, Payload: callback.Answer(q.ID, opt)}})
	}
	return models.Message{Text: q.Prompt, Controls: rows}
}

// listLabel is the button text for q in question lists.
func listLabel(q models.Question) string {
	prompt := q.Prompt
	if utf8.RuneCountInString(prompt) > listPromptLength {
		prompt = string([]rune(prompt)[:listPromptLength]) + "..."
	}
	return fmt.Sprintf("Question %s: %s", q.ID, prompt)
}

func questionList(header string, qs []models.Question, payload func(id string) string) models.Message {
	msg := markdown(header)
	for _, q := range qs {
		msg.Controls = append(msg.Controls, []models.Control{{Text: listLabel(q), Payload: payload(q.ID)}})
	}
	return msg
}

// questionMenu shows one question with the management actions.
func questionMenu(q models.Question) models.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "*Question %s*\n%s\n\n", q.ID, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "\nAnswers: %d", len(q.Answers))

	msg := markdown(b.String())
	msg.Controls = [][]models.Control{
		{
			{Text: labelShare, Payload: callback.Share(q.ID)},
			{Text: labelDelete, Payload: callback.Delete(q.ID)},
		},
		{{Text: labelBack, Payload: callback.BackToList}},
	}
	return msg
}

func deletePrompt(q models.Question) models.Message {
	msg := markdown(fmt.Sprintf("*Delete question %s?*\n%s\n\nThis also removes %d answers.", q.ID, q.Prompt, len(q.Answers)))
	msg.Controls = [][]models.Control{{
		{Text: labelConfirm, Payload: callback.ConfirmDelete(q.ID)},
		{Text: labelCancelMenu, Payload: callback.CancelDelete(q.ID)},
	}}
	return msg
}
