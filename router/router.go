// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-ask/handlers"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/telegram"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"
)

// Registrar is the handler table of *tele.Bot.
type Registrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// RegisterBot wires every command, free text and control presses to set.
func RegisterBot(ctx context.Context, r Registrar, set *handlers.Set) {
	// Operator help
	r.Handle("/start", telegram.Command(ctx, set.Admin.Start))
	r.Handle("/help", telegram.Command(ctx, set.Admin.Start))

	// Authoring
	r.Handle("/ask", telegram.Command(ctx, set.Ask.Start))
	r.Handle("/done", telegram.Command(ctx, set.Ask.Done))
	r.Handle("/send", telegram.Command(ctx, set.Ask.Send))
	r.Handle("/cancel", telegram.Command(ctx, set.Cancel))

	// Management and results
	r.Handle("/list", telegram.Command(ctx, set.Manage.List))
	r.Handle("/answers", telegram.Command(ctx, set.Results.List))

	// Maintenance
	r.Handle("/export", telegram.Command(ctx, set.Admin.Export))
	r.Handle("/fix", telegram.Command(ctx, set.Admin.Renumber))

	r.Handle(tele.OnText, telegram.Command(ctx, set.Text))
	r.Handle(tele.OnCallback, telegram.Callback(ctx, set.Activation))
}

// Probe is what /ready reports on.
type Probe struct {
	Store interface {
		Len() int
		NextID() int
	}
	Sessions interface{ Len() int }
	// Ping, when set, must succeed for the bot to be ready.
	Ping func(context.Context) error
}

// NewRouter serves health, readiness and metrics.
func NewRouter(p Probe, g prometheus.Gatherer, log zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /ready", middleware.WithLogging(log, func(w http.ResponseWriter, r *http.Request) {
		if p.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("readiness check failed")
				middleware.ErrorResponse(log, w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		st := models.Status{Status: "ready"}
		if p.Store != nil {
			st.Questions = p.Store.Len()
			st.NextID = p.Store.NextID()
		}
		if p.Sessions != nil {
			st.Sessions = p.Sessions.Len()
		}
		middleware.JSONResponse(log, w, http.StatusOK, st)
	}))

	mux.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-ask bot"))
	})

	return mux
}
