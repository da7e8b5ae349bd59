// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth decides which chat users may operate the bot.

# Allow-list

Operators are listed by numeric user ID, by handle, or both:

	ids, err := auth.ParseIDs("1001, 1002")
	list := auth.NewAllowList(ids, auth.ParseHandles("@Alice,bob"))
	list.IsAuthorized(models.Identity{ID: 7, Handle: "ALICE"}) // true

Handles compare case-insensitively and a leading @ is ignored on both sides.
A user without a handle can only match by ID.

The list gates authoring, management, answer viewing, export and renumber.
Answering a broadcast question is open to anyone who can press its buttons.
*/
package auth
