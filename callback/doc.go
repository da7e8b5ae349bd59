// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package callback encodes and decodes interactive-control payloads.

Every control carries a prefixed string; the prefix selects the handler:

	ans:<id>:<option>        answer a broadcast question
	show_ans:<id>            show statistics for a question
	m_select:<id>            select a question to manage
	m_share:<id>             reshare the selected question
	m_delete:<id>            ask for delete confirmation
	m_delete_confirm:<id>    confirm deletion
	m_delete_cancel:<id>     cancel deletion
	m_back_list              return to the management list

The option text in answer payloads may itself contain colons; only the
first two separate fields. Payloads are limited to MaxDataBytes by the
transport, which bounds option length at authoring time (MaxOptionBytes).
*/
package callback
