// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware wraps bot updates and observability HTTP requests.

# Update Tracing

Register on the bot before any handler:

	b.Use(middleware.Recover(log), middleware.Trace(log, m))

Trace assigns each update a UUID (stored under TraceKey in the telebot
context), logs start and completion, and records quiz_updates_total and
quiz_update_duration_seconds by kind: callback, command, text or other.

Recover converts a panic into a handler error, which the bot's OnError hook
logs. The poller keeps running.

# Request Logging

	mux.HandleFunc("GET /ready", middleware.WithLogging(log, handler))

Logs request start (method, path, remote) and completion (duration_ms) at
debug level.

# JSON Helpers

	middleware.JSONResponse(log, w, http.StatusOK, status)
	middleware.ErrorResponse(log, w, http.StatusServiceUnavailable, "store closed")
*/
package middleware
