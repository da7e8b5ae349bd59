// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-ask/models"
)

// AllowList authorizes operators by numeric user ID or by handle.
// It is read-only after construction.
type AllowList struct {
	ids     map[int64]struct{}
	handles map[string]struct{}
}

// NewAllowList builds an allow-list. Handles are matched case-insensitively
// and a leading @ is ignored.
func NewAllowList(ids []int64, handles []string) *AllowList {
	a := &AllowList{
		ids:     make(map[int64]struct{}, len(ids)),
		handles: make(map[string]struct{}, len(handles)),
	}
	for _, id := range ids {
		a.ids[id] = struct{}{}
	}
	for _, h := range handles {
		if h = normalizeHandle(h); h != "" {
			a.handles[h] = struct{}{}
		}
	}
	return a
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

// IsAuthorized reports whether u may author, manage, view answers, export or
// renumber. Answering is never gated.
func (a *AllowList) IsAuthorized(u models.Identity) bool {
	if a == nil {
		return false
	}
	if _, ok := a.ids[u.ID]; ok {
		return true
	}
	if h := normalizeHandle(u.Handle); h != "" {
		_, ok := a.handles[h]
		return ok
	}
	return false
}

// Empty reports whether nobody is allowed.
func (a *AllowList) Empty() bool {
	return a == nil || len(a.ids)+len(a.handles) == 0
}

// ParseIDs parses a comma-separated list of user IDs.
func ParseIDs(csv string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseHandles splits a comma-separated list of handles.
func ParseHandles(csv string) []string {
	var handles []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			handles = append(handles, part)
		}
	}
	return handles
}
