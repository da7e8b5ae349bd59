// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-ask/callback"
)

type AuthoringStep int

const (
	AwaitingPrompt AuthoringStep = iota
	AwaitingOptions
	AwaitingDestinations
)

func (s AuthoringStep) String() string {
	switch s {
	case AwaitingPrompt:
		return "awaiting_prompt"
	case AwaitingOptions:
		return "awaiting_options"
	case AwaitingDestinations:
		return "awaiting_destinations"
	default:
		return "unknown"
	}
}

// Authoring is the draft of a question being written by an operator.
type Authoring struct {
	Step         AuthoringStep
	Prompt       string
	Options      []string
	Destinations []string

	// MaxPrompt bounds the prompt length in characters; zero means no limit.
	MaxPrompt int
}

// NewAuthoring starts a draft waiting for its prompt.
func NewAuthoring(maxPrompt int) Authoring {
	return Authoring{Step: AwaitingPrompt, MaxPrompt: maxPrompt}
}

type EventKind int

const (
	EventText EventKind = iota
	EventDone
	EventSend
	EventCancel
)

// Event is one operator input to the authoring flow.
type Event struct {
	Kind EventKind
	Text string
}

func Text(s string) Event { return Event{Kind: EventText, Text: s} }

// Notice tells the operator what happened to their input.
type Notice int

const (
	NoticeNone Notice = iota
	NoticePromptSaved
	NoticeEmptyPrompt
	NoticePromptTooLong
	NoticeOptionAdded
	NoticeEmptyOption
	NoticeOptionTooLong
	NoticeNoOptions
	NoticeOptionsDone
	NoticeDestinationAdded
	NoticeInvalidDestination
	NoticeNoDestinations
	NoticeDraftIncomplete
	NoticeCancelled
	NoticeAwaitingPrompt
	NoticeAwaitingOptions
	NoticeAwaitingDestinations
)

// Draft is a finished question ready to create and broadcast.
type Draft struct {
	Prompt       string
	Options      []string
	Destinations []string
}

// Outcome is the result of one authoring transition. Arg carries the input
// the notice refers to. Publish is set only on a successful send.
type Outcome struct {
	Notice  Notice
	Arg     string
	Publish *Draft
	Ended   bool
}

// Apply returns the next draft state for ev. The receiver is not modified.
func (a Authoring) Apply(ev Event) (Authoring, Outcome) {
	if ev.Kind == EventCancel {
		return Authoring{}, Outcome{Notice: NoticeCancelled, Ended: true}
	}

	switch a.Step {
	case AwaitingPrompt:
		return a.onPrompt(ev)
	case AwaitingOptions:
		return a.onOptions(ev)
	case AwaitingDestinations:
		return a.onDestinations(ev)
	}
	return Authoring{}, Outcome{Notice: NoticeDraftIncomplete, Ended: true}
}

func (a Authoring) onPrompt(ev Event) (Authoring, Outcome) {
	if ev.Kind != EventText {
		return a, Outcome{Notice: NoticeAwaitingPrompt}
	}
	prompt := strings.TrimSpace(ev.Text)
	switch {
	case prompt == "":
		return a, Outcome{Notice: NoticeEmptyPrompt}
	case a.MaxPrompt > 0 && utf8.RuneCountInString(prompt) > a.MaxPrompt:
		return a, Outcome{Notice: NoticePromptTooLong}
	}
	a.Prompt = prompt
	a.Step = AwaitingOptions
	return a, Outcome{Notice: NoticePromptSaved, Arg: prompt}
}

func (a Authoring) onOptions(ev Event) (Authoring, Outcome) {
	switch ev.Kind {
	case EventDone:
		if len(a.Options) == 0 {
			return a, Outcome{Notice: NoticeNoOptions}
		}
		a.Step = AwaitingDestinations
		return a, Outcome{Notice: NoticeOptionsDone}
	case EventText:
		opt := strings.TrimSpace(ev.Text)
		switch {
		case opt == "":
			return a, Outcome{Notice: NoticeEmptyOption}
		case len(opt) > callback.MaxOptionBytes:
			return a, Outcome{Notice: NoticeOptionTooLong, Arg: opt}
		}
		a.Options = append(append([]string(nil), a.Options...), opt)
		return a, Outcome{Notice: NoticeOptionAdded, Arg: opt}
	}
	return a, Outcome{Notice: NoticeAwaitingOptions}
}

func (a Authoring) onDestinations(ev Event) (Authoring, Outcome) {
	switch ev.Kind {
	case EventSend:
		if len(a.Destinations) == 0 {
			return a, Outcome{Notice: NoticeNoDestinations}
		}
		if a.Prompt == "" || len(a.Options) == 0 {
			return Authoring{}, Outcome{Notice: NoticeDraftIncomplete, Ended: true}
		}
		d := &Draft{
			Prompt:       a.Prompt,
			Options:      append([]string(nil), a.Options...),
			Destinations: append([]string(nil), a.Destinations...),
		}
		return Authoring{}, Outcome{Publish: d, Ended: true}
	case EventText:
		dest := strings.TrimSpace(ev.Text)
		if !ValidDestination(dest) {
			return a, Outcome{Notice: NoticeInvalidDestination, Arg: dest}
		}
		a.Destinations = append(append([]string(nil), a.Destinations...), dest)
		return a, Outcome{Notice: NoticeDestinationAdded, Arg: dest}
	}
	return a, Outcome{Notice: NoticeAwaitingDestinations}
}
