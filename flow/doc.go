// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package flow holds the operator conversations as plain state values.

Authoring walks a draft through prompt, options and destinations:

	a := flow.NewAuthoring(4000)
	a, out := a.Apply(flow.Text("Capital of France?"))
	a, out = a.Apply(flow.Text("Paris"))
	a, out = a.Apply(flow.Event{Kind: flow.EventDone})
	a, out = a.Apply(flow.Text("-100123"))
	a, out = a.Apply(flow.Event{Kind: flow.EventSend})
	// out.Publish holds the finished draft, out.Ended is true

Manage walks list, selection, reshare and delete confirmation.

Apply never performs I/O. Callers act on the returned Outcome or
ManageOutcome (send a notice, create the question, deliver a reshare, delete)
and keep the returned state for the next event. A state whose outcome has
Ended set should be dropped.
*/
package flow
