// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router binds bot updates to handlers and serves the observability
endpoints.

# Bot Routes

RegisterBot attaches the handler set to a telebot bot:

	router.RegisterBot(ctx, bot, set)

Commands:

	/start, /help - Operator help
	/ask          - Start authoring a question
	/done         - Finish adding options
	/send         - Publish to the collected destinations
	/cancel       - Abandon the running flow
	/list         - Manage stored questions
	/answers      - Pick a question to see its answers
	/export       - Receive every question as a JSON document
	/fix          - Renumber questions 1..N

Free text goes to the sender's running flow. Control presses are routed by
payload prefix (see package callback).

# HTTP Endpoints

NewRouter returns a mux for the metrics port:

	GET /health  - Liveness, always "OK"
	GET /ready   - Question count, next ID and open sessions as JSON; 503 when
	               the storage ping fails
	GET /metrics - Prometheus exposition of the given gatherer
*/
package router
