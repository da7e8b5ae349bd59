// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/handlers"
	"github.com/danielhkuo/quickly-ask/logger"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/router"
	"github.com/danielhkuo/quickly-ask/session"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/telegram"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Open storage
	persister, err := store.NewPersister(cfg.StoreBackend, cfg.DataDir, cfg.DatabaseURL, logger.Component(log, "persist"))
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("storage unavailable")
	}
	st := store.Open(persister, store.Options{Logger: logger.Component(log, "store"), Metrics: m})
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("backend", cfg.StoreBackend).Int("questions", st.Len()).Int("next_id", st.NextID()).Msg("store ready")

	authz := auth.NewAllowList(cfg.AllowedIDs, cfg.AllowedUsernames)
	if authz.Empty() {
		log.Warn().Msg("no operators configured; every command will be refused")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewRegistry(session.Options{
		TTL:     cfg.SessionTTL,
		Logger:  logger.Component(log, "session"),
		Metrics: m,
	})
	go sessions.Run(ctx, session.DefaultSweepInterval)

	// Connect the bot
	bot, err := telegram.NewBot(cfg.BotToken, logger.Component(log, "bot"))
	if err != nil {
		log.Error().Err(err).Msg("bot startup failed")
		return
	}

	set := handlers.NewSet(handlers.Deps{
		Store:     st,
		Sessions:  sessions,
		Messenger: telegram.NewMessenger(bot, logger.Component(log, "messenger")),
		Authz:     authz,
		Metrics:   m,
		Log:       logger.Component(log, "handlers"),
		Config:    cfg,
	})
	bot.Use(middleware.Recover(log), middleware.Trace(logger.Component(log, "updates"), m))
	router.RegisterBot(ctx, bot, set)

	// Observability server
	var server *http.Server
	if cfg.MetricsPort > 0 {
		probe := router.Probe{Store: st, Sessions: sessions}
		if p, ok := persister.(interface{ Ping(context.Context) error }); ok {
			probe.Ping = p.Ping
		}
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:           router.NewRouter(probe, reg, logger.Component(log, "http")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Int("port", cfg.MetricsPort).Msg("observability endpoints listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("observability server failed")
			}
		}()
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		log.Info().Msg("shutting down")
		bot.Stop()
		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}
	}()

	log.Info().Str("bot", bot.Me.Username).Msg("polling for updates")
	bot.Start()
	log.Info().Msg("bot stopped")
}
