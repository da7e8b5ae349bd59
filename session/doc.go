// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps the in-progress operator flows in memory, one per
// chat and user. Nothing here is persisted; idle sessions expire after the
// configured TTL.
//
// A session is locked while an event is applied to it:
//
//	s, ok := reg.Acquire(key)
//	if !ok {
//		return
//	}
//	defer reg.Release(s)
package session
