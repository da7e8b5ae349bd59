// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/rs/zerolog"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrEmptyPrompt      = errors.New("question prompt is empty")
	ErrNoOptions        = errors.New("question has no options")
	ErrEmptyOption      = errors.New("question option is empty")
)

// AlreadyAnsweredError reports a second answer from the same respondent.
// Prior is the answer that was kept.
type AlreadyAnsweredError struct {
	QuestionID string
	Prior      models.Answer
}

func (e *AlreadyAnsweredError) Error() string {
	return fmt.Sprintf("respondent %s already answered question %s", e.Prior.RespondentID, e.QuestionID)
}

// Persister reads and writes durable snapshots.
type Persister interface {
	// Load returns the latest snapshot, or nil when none has been saved yet.
	Load() (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
	Close() error
}

// Options configures a Store. Zero values are usable.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Store holds every question in memory and persists after each mutation.
// Mutations hold the write lock until the save returns.
type Store struct {
	mu        sync.RWMutex
	questions map[string]*models.Question
	nextID    int

	persister Persister
	log       zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Open loads the latest snapshot from p. Load failures are logged and yield an
// empty store.
func Open(p Persister, opts Options) *Store {
	s := &Store{
		questions: make(map[string]*models.Question),
		nextID:    1,
		persister: p,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	snap, err := p.Load()
	switch {
	case err != nil:
		s.log.Error().Err(err).Msg("failed to load snapshot, starting empty")
	case snap == nil:
		s.log.Info().Msg("no snapshot found, starting empty")
	default:
		s.restore(snap)
		s.log.Info().
			Int("questions", len(s.questions)).
			Int("next_id", s.nextID).
			Str("last_saved", snap.LastSaved).
			Msg("snapshot loaded")
	}

	s.metrics.SetQuestions(len(s.questions))
	return s
}

func (s *Store) restore(snap *models.Snapshot) {
	maxID := 0
	for id, q := range snap.Questions {
		q := q.Clone()
		q.ID = id
		if q.Answers == nil {
			q.Answers = make(map[string]models.Answer)
		}
		for rid, a := range q.Answers {
			a.RespondentID = rid
			q.Answers[rid] = a
		}
		s.questions[id] = &q
		if n, err := strconv.Atoi(id); err == nil && n > maxID {
			maxID = n
		}
	}
	s.nextID = max(snap.Counter, maxID+1, 1)
	if s.nextID != snap.Counter {
		s.log.Warn().
			Int("counter", snap.Counter).
			Int("next_id", s.nextID).
			Msg("repaired question counter")
	}
}

// Close releases the persister.
func (s *Store) Close() error {
	return s.persister.Close()
}

// Save persists the current state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked must be called with the write lock held. Failures are logged and
// returned; the in-memory state is kept either way.
func (s *Store) saveLocked() error {
	start := time.Now()
	err := s.persister.Save(s.snapshotLocked())
	s.metrics.RecordSave(time.Since(start), err)
	s.metrics.SetQuestions(len(s.questions))
	if err != nil {
		s.log.Error().Err(err).Int("questions", len(s.questions)).Msg("failed to save snapshot")
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() *models.Snapshot {
	snap := &models.Snapshot{
		Questions: make(map[string]models.Question, len(s.questions)),
		Counter:   s.nextID,
		LastSaved: s.now().Format(time.RFC3339),
	}
	for id, q := range s.questions {
		snap.Questions[id] = q.Clone()
	}
	return snap
}

// CreateQuestion assigns the next ID and stores a question with no answers.
// Options are trimmed; an empty one is rejected. The question is kept even if
// the save fails, in which case the error is returned alongside it.
func (s *Store) CreateQuestion(prompt string, options []string) (models.Question, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return models.Question{}, ErrEmptyPrompt
	}
	if len(options) == 0 {
		return models.Question{}, ErrNoOptions
	}
	opts := make([]string, len(options))
	for i, o := range options {
		opts[i] = strings.TrimSpace(o)
		if opts[i] == "" {
			return models.Question{}, ErrEmptyOption
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := &models.Question{
		ID:      strconv.Itoa(s.nextID),
		Prompt:  prompt,
		Options: opts,
		Answers: make(map[string]models.Answer),
	}
	s.questions[q.ID] = q
	s.nextID++
	s.metrics.RecordCreated()

	s.log.Info().Str("question_id", q.ID).Int("options", len(opts)).Msg("question created")
	return q.Clone(), s.saveLocked()
}

// RecordAnswer stores a respondent's first answer to a question. A second
// answer gets an *AlreadyAnsweredError carrying the stored one. Choice is not
// checked against the options.
func (s *Store) RecordAnswer(questionID string, a models.Answer) (models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return models.Answer{}, ErrQuestionNotFound
	}
	if prior, ok := q.Answers[a.RespondentID]; ok {
		return prior, &AlreadyAnsweredError{QuestionID: questionID, Prior: prior}
	}

	if a.AnsweredAt == "" {
		a.AnsweredAt = s.now().Format(time.RFC3339)
	}
	q.Answers[a.RespondentID] = a

	s.log.Debug().
		Str("question_id", questionID).
		Str("respondent_id", a.RespondentID).
		Msg("answer recorded")
	return a, s.saveLocked()
}

// DeleteQuestion removes a question and returns it with its answers.
func (s *Store) DeleteQuestion(id string) (models.Question, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, false, nil
	}
	delete(s.questions, id)
	s.metrics.RecordDeleted()

	s.log.Info().Str("question_id", id).Int("answers", len(q.Answers)).Msg("question deleted")
	return q.Clone(), true, s.saveLocked()
}

// RenumberResult describes a renumber pass.
type RenumberResult struct {
	IDs    []string
	NextID int
}

// Renumber re-keys all questions to 1..N in their current numeric order.
// The next ID never moves backwards, so deleted IDs are not handed out again
// to new questions.
func (s *Store) Renumber() (RenumberResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.sortedLocked()
	renumbered := make(map[string]*models.Question, len(ordered))
	ids := make([]string, 0, len(ordered))
	for i, q := range ordered {
		q.ID = strconv.Itoa(i + 1)
		renumbered[q.ID] = q
		ids = append(ids, q.ID)
	}
	s.questions = renumbered
	s.nextID = max(s.nextID, len(ordered)+1)

	s.log.Info().Int("questions", len(ids)).Int("next_id", s.nextID).Msg("questions renumbered")
	return RenumberResult{IDs: ids, NextID: s.nextID}, s.saveLocked()
}

// Get returns a copy of one question.
func (s *Store) Get(id string) (models.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return models.Question{}, false
	}
	return q.Clone(), true
}

// List returns copies of all questions sorted by numeric ID.
func (s *Store) List() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedLocked()
	out := make([]models.Question, len(sorted))
	for i, q := range sorted {
		out[i] = q.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// Snapshot returns a copy of the state as it would be persisted.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Export builds the export document for the current state.
func (s *Store) Export(exportedBy string) models.Export {
	snap := s.Snapshot()
	return models.Export{
		Questions: snap.Questions,
		Metadata: models.ExportMetadata{
			ExportedAt:      snap.LastSaved,
			ExportedBy:      exportedBy,
			TotalQuestions:  len(snap.Questions),
			QuestionCounter: snap.Counter,
		},
	}
}

func (s *Store) sortedLocked() []*models.Question {
	out := make([]*models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out
}

// lessID orders numeric IDs by value; anything non-numeric sorts after them.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
