// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics provides Prometheus metrics for the bot.
//
// All Record* helpers are safe to call on a nil *Metrics, which is how tests
// and tools run without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Answer outcomes
const (
	AnswerRecorded  = "recorded"
	AnswerDuplicate = "duplicate"
	AnswerNotFound  = "not_found"
	AnswerMalformed = "malformed"
)

// Delivery kinds
const (
	DeliveryBroadcast = "broadcast"
	DeliveryReshare   = "reshare"
)

// Metrics holds all collectors
type Metrics struct {
	UpdatesTotal   *prometheus.CounterVec
	UpdateDuration *prometheus.HistogramVec

	QuestionsCreated prometheus.Counter
	QuestionsDeleted prometheus.Counter
	QuestionsStored  prometheus.Gauge
	AnswersTotal     *prometheus.CounterVec
	DeliveriesTotal  *prometheus.CounterVec

	StoreSavesTotal   *prometheus.CounterVec
	StoreSaveDuration prometheus.Histogram

	ActiveSessions prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}

	m.UpdatesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_updates_total",
			Help: "Total number of inbound updates handled",
		},
		[]string{"kind", "status"},
	)

	m.UpdateDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_update_duration_seconds",
			Help:    "Duration of inbound update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	m.QuestionsCreated = f.NewCounter(prometheus.CounterOpts{
		Name: "quiz_questions_created_total",
		Help: "Total number of questions created",
	})

	m.QuestionsDeleted = f.NewCounter(prometheus.CounterOpts{
		Name: "quiz_questions_deleted_total",
		Help: "Total number of questions deleted",
	})

	m.QuestionsStored = f.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_questions_stored",
		Help: "Number of questions currently in the store",
	})

	m.AnswersTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Answer activations by outcome",
		},
		[]string{"outcome"},
	)

	m.DeliveriesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_deliveries_total",
			Help: "Question deliveries to destinations",
		},
		[]string{"kind", "status"},
	)

	m.StoreSavesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_store_saves_total",
			Help: "Store persistence attempts",
		},
		[]string{"status"},
	)

	m.StoreSaveDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_store_save_duration_seconds",
		Help:    "Duration of store saves in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	m.ActiveSessions = f.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_active_sessions",
		Help: "Operator sessions currently in progress",
	})

	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordUpdate records one handled inbound update
func (m *Metrics) RecordUpdate(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(kind, status(err)).Inc()
	m.UpdateDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordAnswer records the outcome of an answer activation
func (m *Metrics) RecordAnswer(outcome string) {
	if m == nil {
		return
	}
	m.AnswersTotal.WithLabelValues(outcome).Inc()
}

// RecordDelivery records one delivery attempt to a destination
func (m *Metrics) RecordDelivery(kind string, err error) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.WithLabelValues(kind, status(err)).Inc()
}

// RecordSave records a store save
func (m *Metrics) RecordSave(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StoreSavesTotal.WithLabelValues(status(err)).Inc()
	m.StoreSaveDuration.Observe(d.Seconds())
}

// RecordCreated counts a new question
func (m *Metrics) RecordCreated() {
	if m == nil {
		return
	}
	m.QuestionsCreated.Inc()
}

// RecordDeleted counts a deleted question
func (m *Metrics) RecordDeleted() {
	if m == nil {
		return
	}
	m.QuestionsDeleted.Inc()
}

// SetQuestions updates the stored-questions gauge
func (m *Metrics) SetQuestions(n int) {
	if m == nil {
		return
	}
	m.QuestionsStored.Set(float64(n))
}

// SetSessions updates the active-sessions gauge
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}
