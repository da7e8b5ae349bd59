// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package callback

import (
	"errors"
	"fmt"
	"strings"
)

// Payload prefixes
const (
	PrefixAnswer        = "ans"
	PrefixShowAnswers   = "show_ans"
	PrefixSelect        = "m_select"
	PrefixShare         = "m_share"
	PrefixDelete        = "m_delete"
	PrefixDeleteConfirm = "m_delete_confirm"
	PrefixDeleteCancel  = "m_delete_cancel"
	BackToList          = "m_back_list"
)

// MaxDataBytes is the transport limit on a control payload.
const MaxDataBytes = 64

// MaxOptionBytes is the longest option text whose answer payload still fits
// for question IDs of up to six digits.
const MaxOptionBytes = MaxDataBytes - len(PrefixAnswer) - 2 - 6

var (
	ErrMalformed     = errors.New("malformed payload")
	ErrUnknownPrefix = errors.New("unknown payload prefix")
)

type Kind int

const (
	KindAnswer Kind = iota + 1
	KindShowAnswers
	KindSelect
	KindShare
	KindDelete
	KindDeleteConfirm
	KindDeleteCancel
	KindBack
)

func (k Kind) String() string {
	switch k {
	case KindAnswer:
		return PrefixAnswer
	case KindShowAnswers:
		return PrefixShowAnswers
	case KindSelect:
		return PrefixSelect
	case KindShare:
		return PrefixShare
	case KindDelete:
		return PrefixDelete
	case KindDeleteConfirm:
		return PrefixDeleteConfirm
	case KindDeleteCancel:
		return PrefixDeleteCancel
	case KindBack:
		return BackToList
	default:
		return "unknown"
	}
}

var kindsByPrefix = map[string]Kind{
	PrefixShowAnswers:   KindShowAnswers,
	PrefixSelect:        KindSelect,
	PrefixShare:         KindShare,
	PrefixDelete:        KindDelete,
	PrefixDeleteConfirm: KindDeleteConfirm,
	PrefixDeleteCancel:  KindDeleteCancel,
}

// Payload is a decoded control payload. Choice is set for answers only.
type Payload struct {
	Kind       Kind
	QuestionID string
	Choice     string
}

// Answer encodes the payload of an answer control.
func Answer(questionID, option string) string {
	return PrefixAnswer + ":" + questionID + ":" + option
}

func ShowAnswers(questionID string) string   { return PrefixShowAnswers + ":" + questionID }
func Select(questionID string) string        { return PrefixSelect + ":" + questionID }
func Share(questionID string) string         { return PrefixShare + ":" + questionID }
func Delete(questionID string) string        { return PrefixDelete + ":" + questionID }
func ConfirmDelete(questionID string) string { return PrefixDeleteConfirm + ":" + questionID }
func CancelDelete(questionID string) string  { return PrefixDeleteCancel + ":" + questionID }

// Parse decodes a control payload. Unknown prefixes are an error, never a
// silent match.
func Parse(data string) (Payload, error) {
	if data == BackToList {
		return Payload{Kind: KindBack}, nil
	}

	prefix, rest, ok := strings.Cut(data, ":")
	if !ok {
		if _, known := kindsByPrefix[data]; known || data == PrefixAnswer {
			return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, data)
	}

	if prefix == PrefixAnswer {
		id, choice, ok := strings.Cut(rest, ":")
		if !ok || !IsQuestionID(id) || choice == "" {
			return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		return Payload{Kind: KindAnswer, QuestionID: id, Choice: choice}, nil
	}

	kind, known := kindsByPrefix[prefix]
	if !known {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	if !IsQuestionID(rest) {
		return Payload{}, fmt.Errorf("%w: %q", ErrMalformed, data)
	}
	return Payload{Kind: kind, QuestionID: rest}, nil
}

// IsQuestionID reports whether s is a non-empty run of ASCII digits.
func IsQuestionID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
