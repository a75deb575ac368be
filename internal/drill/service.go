package drill

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/clock"
	"github.com/example/wordcoach/internal/remediation"
	"github.com/example/wordcoach/internal/rollover"
	"github.com/example/wordcoach/internal/scoring"
	"github.com/example/wordcoach/internal/selection"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// MinQuizWords is the corpus size needed to offer a full set of options
const MinQuizWords = selection.MaxDistractors + 1

var (
	// ErrNoPendingQuestion is returned when an answer arrives before a question
	ErrNoPendingQuestion = errors.New("no question is waiting for an answer")
	// ErrUnknownOption is returned when the answer is not one of the options
	ErrUnknownOption = errors.New("answer is not one of the offered options")
)

// Service is the single entry point for presentation layers. Every operation
// runs under one lock and commits through the repository before the new state
// becomes visible; a failed save leaves the previous state in place.
type Service struct {
	mu sync.Mutex

	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
	rng    *rand.Rand

	scoringRules  scoring.Rules
	rolloverRules rollover.Rules

	selector    *selection.Selector
	scorer      *scoring.Engine
	remediation *remediation.Manager
	rollover    *rollover.Manager

	state   *State
	pending *models.Question
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRand sets the random source used for selection and shuffling
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithScoringRules overrides the scoring rules
func WithScoringRules(r scoring.Rules) Option {
	return func(s *Service) { s.scoringRules = r }
}

// WithRolloverRules overrides the rollover rules
func WithRolloverRules(r rollover.Rules) Option {
	return func(s *Service) { s.rolloverRules = r }
}

// Open loads the persisted state and returns a ready service
func Open(ctx context.Context, repo Repository, clk clock.Clock, opts ...Option) (*Service, error) {
	s := &Service{
		repo:          repo,
		clock:         clk,
		logger:        zap.NewNop(),
		scoringRules:  scoring.DefaultRules(),
		rolloverRules: rollover.DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.selector = selection.NewSelector(s.rng)
	s.scorer = scoring.NewEngine(s.scoringRules)
	s.remediation = remediation.NewManager(s.rng)
	s.rollover = rollover.NewManager(s.rolloverRules)

	state, err := repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}
	if state == nil {
		state = NewState(nil, nil)
	}
	s.state = state

	s.logger.Info("drill state loaded",
		zap.Int("words", state.Words.Len()),
		zap.Int("total_score", state.Ledger.TotalScore))
	return s, nil
}

// today resolves the calendar date. Callers read it before taking the lock
// since a remote clock may block on the network.
func (s *Service) today() time.Time {
	return clock.Today(s.clock)
}

// catchUp closes the previous day on next when the calendar moved past the
// last rollover, so answers never count against a stale day. It reports
// whether next changed.
func (s *Service) catchUp(next *State, today time.Time) bool {
	if last := next.Ledger.LastRolloverDate; last != nil && last.Equal(today) {
		return false
	}
	report := s.rollover.Reconcile(next.Ledger, next.Words, today)
	s.logger.Info("day reconciled before answering",
		zap.String("date", models.DateKey(report.Date)),
		zap.Int("missed_goal_penalty", report.MissedGoalPenalty),
		zap.Int("decay_penalty", report.DecayPenalty))
	return true
}

// commit saves next and makes it the current state
func (s *Service) commit(ctx context.Context, next *State) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return errors.Wrap(err, "save state")
	}
	s.state = next
	return nil
}

// ReconcileDay closes the previous day when the calendar moved on and applies
// weekly decay. It is safe to call repeatedly.
func (s *Service) ReconcileDay(ctx context.Context) (models.PenaltyReport, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	report := s.rollover.Reconcile(next.Ledger, next.Words, today)
	if !report.RolledOver && len(report.DecayedWords) == 0 {
		return report, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return models.PenaltyReport{}, err
	}
	if report.RolledOver {
		s.pending = nil
	}

	s.logger.Info("day reconciled",
		zap.String("date", models.DateKey(report.Date)),
		zap.Bool("rolled_over", report.RolledOver),
		zap.Int("missed_goal_penalty", report.MissedGoalPenalty),
		zap.Int("decay_penalty", report.DecayPenalty))
	return report, nil
}

// AddWord adds one word and counts it towards today's goal
func (s *Service) AddWord(ctx context.Context, source, target string) (models.WordEntry, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	entry, err := next.Words.Add(source, target, today)
	if err != nil {
		return models.WordEntry{}, err
	}
	next.Ledger.Day(today).WordsAdded++
	if err := s.commit(ctx, next); err != nil {
		return models.WordEntry{}, err
	}

	s.logger.Debug("word added", zap.String("word", entry.SourceText))
	return *entry, nil
}

// AddWords adds many words in one commit. Duplicates are skipped and blank
// pairs are reported; neither aborts the batch.
func (s *Service) AddWords(ctx context.Context, pairs []words.Pair) (models.BatchResult, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	var res models.BatchResult
	for _, p := range pairs {
		_, err := next.Words.Add(p.Source, p.Target, today)
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, words.ErrDuplicateWord):
			res.Skipped++
		default:
			res.Errors = append(res.Errors, errors.Wrapf(err, "%q", p.Source).Error())
		}
	}
	if res.Added == 0 {
		return res, nil
	}
	next.Ledger.Day(today).WordsAdded += res.Added
	if err := s.commit(ctx, next); err != nil {
		return models.BatchResult{}, err
	}

	s.logger.Debug("words added", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
	return res, nil
}

// RemoveWord deletes a word and drops it from the remediation list
func (s *Service) RemoveWord(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	entry, err := next.Words.Remove(source)
	if err != nil {
		return err
	}
	next.Ledger.RemoveRemediation(entry.SourceText)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	if s.pending != nil && s.pending.Word.Key() == entry.Key() {
		s.pending = nil
	}

	s.logger.Debug("word removed", zap.String("word", entry.SourceText))
	return nil
}

// SelectQuestion picks a word for mode and remembers the question until it
// is answered. Asking again replaces the pending question. A day change that
// was not reconciled yet is committed first.
func (s *Service) SelectQuestion(ctx context.Context, mode models.Mode) (models.Question, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !mode.IsPrimary() && mode != models.ModeRemediation {
		return models.Question{}, errors.Wrapf(models.ErrInvalidMode, "%q", mode)
	}
	if next := s.state.Clone(); s.catchUp(next, today) {
		if err := s.commit(ctx, next); err != nil {
			return models.Question{}, err
		}
	}
	if s.state.Words.Len() < MinQuizWords {
		return models.Question{}, errors.Wrapf(selection.ErrEmptyCorpus,
			"have %d words, need at least %d", s.state.Words.Len(), MinQuizWords)
	}

	entries := s.state.Words.All()
	var (
		word *models.WordEntry
		err  error
	)
	if mode == models.ModeRemediation {
		word, err = s.remediation.Pick(s.state.Ledger, s.state.Words)
	} else {
		word, err = s.selector.SelectWord(mode, entries, today)
	}
	if err != nil {
		return models.Question{}, err
	}

	q := s.selector.BuildQuestion(mode, word, entries)
	s.pending = &q

	s.logger.Debug("question selected", zap.String("mode", string(mode)), zap.String("word", word.SourceText))
	return q, nil
}

// Pending returns the question waiting for an answer
func (s *Service) Pending() (models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return models.Question{}, false
	}
	return *s.pending, true
}

// SubmitAnswer scores the pending question against the selected option text
func (s *Service) SubmitAnswer(ctx context.Context, selectedText string) (models.ScoreOutcome, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return models.ScoreOutcome{}, ErrNoPendingQuestion
	}
	selected := strings.TrimSpace(selectedText)
	found := false
	for _, opt := range s.pending.Options {
		if opt == selected {
			found = true
			break
		}
	}
	if !found {
		return models.ScoreOutcome{}, errors.Wrapf(ErrUnknownOption, "%q", selected)
	}
	return s.submit(ctx, selected, today)
}

// SubmitOption scores the pending question against the option at index
func (s *Service) SubmitOption(ctx context.Context, index int) (models.ScoreOutcome, error) {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return models.ScoreOutcome{}, ErrNoPendingQuestion
	}
	if index < 0 || index >= len(s.pending.Options) {
		return models.ScoreOutcome{}, errors.Wrapf(ErrUnknownOption, "option %d", index)
	}
	return s.submit(ctx, s.pending.Options[index], today)
}

// submit scores selected on a copy of the state, closing a stale day first
func (s *Service) submit(ctx context.Context, selected string, today time.Time) (models.ScoreOutcome, error) {
	q := s.pending
	next := s.state.Clone()
	s.catchUp(next, today)

	word, ok := next.Words.Find(q.Word.SourceText)
	if !ok {
		s.pending = nil
		return models.ScoreOutcome{}, errors.Wrapf(words.ErrWordNotFound, "%q", q.Word.SourceText)
	}

	correct := selected == q.Answer
	out, err := s.scorer.ScoreAnswer(word, q.Mode, correct, next.Ledger, today)
	if err != nil {
		return models.ScoreOutcome{}, err
	}
	out.LeftRemediation = s.remediation.HandleAnswer(next.Ledger, word, q.Mode, correct)
	out.InRemediation = next.Ledger.InRemediation(word.SourceText)
	out.RemediationProgress = word.RemediationProgress
	out.Selected = selected
	out.Expected = q.Answer

	if err := s.commit(ctx, next); err != nil {
		return models.ScoreOutcome{}, err
	}
	s.pending = nil

	s.logger.Debug("answer scored",
		zap.String("mode", string(q.Mode)),
		zap.String("word", word.SourceText),
		zap.Bool("correct", correct),
		zap.Int("delta", out.Delta),
		zap.Int("total_score", out.TotalScore))
	return out, nil
}

// ListRemediation returns the words pending remediation
func (s *Service) ListRemediation() []models.WordEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.remediation.List(s.state.Ledger, s.state.Words))
}

// Mistakes returns the words with a positive wrong counter
func (s *Service) Mistakes() []models.WordEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.state.Words.Mistakes())
}

// Words returns every word in insertion order
func (s *Service) Words() []models.WordEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Words.Entries()
}

// StatsSnapshot returns a read-only view of the learner's progress
func (s *Service) StatsSnapshot() models.Stats {
	today := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.state
	if last := view.Ledger.LastRolloverDate; last == nil || !last.Equal(today) {
		// show the day as it will look once reconciled
		view = view.Clone()
		s.rollover.Reconcile(view.Ledger, view.Words, today)
	}
	l := view.Ledger
	st := models.Stats{
		TotalScore:       l.TotalScore,
		Today:            models.DayRecord{Date: models.DateKey(today)},
		DirectAnswered:   l.DirectAnswered,
		ReverseAnswered:  l.ReverseAnswered,
		ReviewAnswered:   l.ReviewAnswered,
		AnswerTarget:     s.scoringRules.DailyAnswerTarget,
		GateOpen:         l.GateOpen(s.scoringRules.DailyAnswerTarget),
		WordTarget:       s.rolloverRules.DailyWordTarget,
		CorrectStreak:    l.CorrectStreak,
		WrongStreak:      l.WrongStreak,
		ComboMultiplier:  l.ComboMultiplier,
		WordCount:        view.Words.Len(),
		MistakeCount:     len(view.Words.Mistakes()),
		RemediationCount: len(s.remediation.List(l, view.Words)),
		History:          l.History(),
	}
	if rec, ok := l.Lookup(today); ok {
		st.Today = *rec
	}
	st.TotalCorrect, st.TotalIncorrect = l.Totals()
	return st
}

func copyEntries(in []*models.WordEntry) []models.WordEntry {
	out := make([]models.WordEntry, 0, len(in))
	for _, e := range in {
		c := *e
		if e.LastWrongDate != nil {
			d := *e.LastWrongDate
			c.LastWrongDate = &d
		}
		out = append(out, c)
	}
	return out
}
