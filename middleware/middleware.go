// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// Update kinds
const (
	KindCallback = "callback"
	KindCommand  = "command"
	KindText     = "text"
	KindOther    = "other"
)

// TraceKey is the context key holding an update's trace ID.
const TraceKey = "trace_id"

// UpdateKind classifies an update for logs and metrics.
func UpdateKind(c tele.Context) string {
	if c.Callback() != nil {
		return KindCallback
	}
	msg := c.Message()
	if msg == nil {
		return KindOther
	}
	if strings.HasPrefix(msg.Text, "/") {
		return KindCommand
	}
	return KindText
}

// Trace logs every update with a trace ID and records its outcome.
func Trace(log zerolog.Logger, m *metrics.Metrics) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			kind := UpdateKind(c)
			id := uuid.NewString()
			c.Set(TraceKey, id)

			ev := log.Debug().Str(TraceKey, id).Str("kind", kind)
			if s := c.Sender(); s != nil {
				ev = ev.Int64("user_id", s.ID)
			}
			if chat := c.Chat(); chat != nil {
				ev = ev.Int64("chat_id", chat.ID)
			}
			ev.Msg("update started")

			err := next(c)

			d := time.Since(start)
			m.RecordUpdate(kind, err, d)
			done := log.Debug()
			if err != nil {
				done = log.Warn().Err(err)
			}
			done.Str(TraceKey, id).Str("kind", kind).Int64("duration_ms", d.Milliseconds()).Msg("update completed")
			return err
		}
	}
}

// Recover turns a handler panic into an error so the poller keeps running.
func Recover(log zerolog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Bytes("stack", debug.Stack()).
						Interface(TraceKey, c.Get(TraceKey)).
						Msg("handler panicked")
					err = fmt.Errorf("handler panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

// WithLogging wraps a handler with request logging
func WithLogging(log zerolog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("request started")

		next(w, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	}
}

// JSONResponse writes a JSON response
func JSONResponse(log zerolog.Logger, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(log zerolog.Logger, w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(log, w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
