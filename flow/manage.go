// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"strings"

	"github.com/danielhkuo/quickly-ask/models"
)

type ManageStep int

const (
	Listing ManageStep = iota
	Selected
	AwaitingShareDestination
	AwaitingDeleteConfirmation
)

func (s ManageStep) String() string {
	switch s {
	case Listing:
		return "listing"
	case Selected:
		return "selected"
	case AwaitingShareDestination:
		return "awaiting_share_destination"
	case AwaitingDeleteConfirmation:
		return "awaiting_delete_confirmation"
	default:
		return "unknown"
	}
}

// Manage is an operator's position in the management menus.
type Manage struct {
	Step ManageStep
	// Selected is a question ID. Renumbering re-keys questions, so /fix ends
	// every management session.
	Selected string
}

type ManageEventKind int

const (
	ManageSelect ManageEventKind = iota
	ManageShare
	ManageDelete
	ManageBack
	ManageConfirmDelete
	ManageCancelDelete
	ManageText
	ManageDelivered
	ManageCancel
)

// ManageEvent is one input to the management flow. QuestionID is the ID
// carried by the pressed control; Err is the reshare result for
// ManageDelivered.
type ManageEvent struct {
	Kind       ManageEventKind
	QuestionID string
	Text       string
	Err        error
}

// Catalog looks questions up by ID.
type Catalog interface {
	Get(id string) (models.Question, bool)
}

type Effect int

const (
	EffectIgnored Effect = iota
	EffectShowList
	EffectSelectionGone
	EffectShowMenu
	EffectPromptShare
	EffectPromptDelete
	EffectInvalidDestination
	EffectReshare
	EffectShareFailed
	EffectShared
	EffectDelete
	EffectIntegrityMismatch
	EffectGone
	EffectCancelled
)

// ManageOutcome tells the caller what to do after a transition. Destination
// is set for EffectReshare and EffectInvalidDestination.
type ManageOutcome struct {
	Effect      Effect
	QuestionID  string
	Destination string
	Ended       bool
}

func ended(e Effect, id string) ManageOutcome {
	return ManageOutcome{Effect: e, QuestionID: id, Ended: true}
}

// Apply returns the next state for ev. Questions are looked up in c so a
// selection that disappeared is noticed before anything is sent or deleted.
func (m Manage) Apply(ev ManageEvent, c Catalog) (Manage, ManageOutcome) {
	if ev.Kind == ManageCancel {
		return Manage{}, ended(EffectCancelled, m.Selected)
	}

	switch m.Step {
	case Listing:
		if ev.Kind != ManageSelect {
			break
		}
		if _, ok := c.Get(ev.QuestionID); !ok {
			return m, ManageOutcome{Effect: EffectSelectionGone, QuestionID: ev.QuestionID}
		}
		return Manage{Step: Selected, Selected: ev.QuestionID},
			ManageOutcome{Effect: EffectShowMenu, QuestionID: ev.QuestionID}

	case Selected:
		switch ev.Kind {
		case ManageBack:
			return Manage{Step: Listing}, ManageOutcome{Effect: EffectShowList}
		case ManageShare, ManageDelete:
			if ev.QuestionID != m.Selected {
				return Manage{}, ended(EffectIntegrityMismatch, m.Selected)
			}
			if _, ok := c.Get(m.Selected); !ok {
				return Manage{}, ended(EffectGone, m.Selected)
			}
			if ev.Kind == ManageShare {
				m.Step = AwaitingShareDestination
				return m, ManageOutcome{Effect: EffectPromptShare, QuestionID: m.Selected}
			}
			m.Step = AwaitingDeleteConfirmation
			return m, ManageOutcome{Effect: EffectPromptDelete, QuestionID: m.Selected}
		}

	case AwaitingShareDestination:
		switch ev.Kind {
		case ManageText:
			dest := strings.TrimSpace(ev.Text)
			if !ValidDestination(dest) {
				return m, ManageOutcome{Effect: EffectInvalidDestination, QuestionID: m.Selected, Destination: dest}
			}
			if _, ok := c.Get(m.Selected); !ok {
				return Manage{}, ended(EffectGone, m.Selected)
			}
			return m, ManageOutcome{Effect: EffectReshare, QuestionID: m.Selected, Destination: dest}
		case ManageDelivered:
			if ev.Err != nil {
				return m, ManageOutcome{Effect: EffectShareFailed, QuestionID: m.Selected}
			}
			return Manage{}, ended(EffectShared, m.Selected)
		}

	case AwaitingDeleteConfirmation:
		switch ev.Kind {
		case ManageConfirmDelete, ManageCancelDelete:
			if ev.QuestionID != m.Selected {
				return Manage{}, ended(EffectIntegrityMismatch, m.Selected)
			}
			if _, ok := c.Get(m.Selected); !ok {
				return Manage{}, ended(EffectGone, m.Selected)
			}
			if ev.Kind == ManageCancelDelete {
				m.Step = Selected
				return m, ManageOutcome{Effect: EffectShowMenu, QuestionID: m.Selected}
			}
			return Manage{}, ended(EffectDelete, m.Selected)
		}
	}

	return m, ManageOutcome{Effect: EffectIgnored, QuestionID: m.Selected}
}
