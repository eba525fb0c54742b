// Package practice drives one learner through capture, evaluation, and progress bookkeeping.
package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/bihua/internal/writing"
)

// Errors returned by Service.
var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrNoSession        = errors.New("no practice session started")
	ErrNoStrokes        = errors.New("no strokes drawn")
)

// ProgressStore persists finished sessions and per-character progress.
type ProgressStore interface {
	GetProgress(ctx context.Context, characterID string) (*writing.WritingProgress, error)
	SaveSessionResult(ctx context.Context, session writing.WritingSession, progress writing.WritingProgress) error
}

// Result is the outcome of a submitted attempt.
type Result struct {
	Evaluation writing.Evaluation
	Strokes    []writing.StrokePath
	Session    writing.WritingSession
	// Progress is set once the session has finished and was saved.
	Progress *writing.WritingProgress
}

// Service holds the state of the character currently being practiced.
type Service struct {
	repo      writing.CharacterRepository
	evaluator *writing.CharacterEvaluator
	tracker   *writing.Tracker
	store     ProgressStore
	logger    logrus.FieldLogger

	character writing.WritingCharacter
	session   *writing.WritingSession
	progress  *writing.WritingProgress
	attempt   []writing.StrokePath
}

// NewService wires the collaborators of a practice run.
func NewService(repo writing.CharacterRepository, evaluator *writing.CharacterEvaluator, tracker *writing.Tracker, store ProgressStore, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		tracker:   tracker,
		store:     store,
		logger:    logger,
	}
}

// Start opens a new session for characterID, loading its stored progress.
func (s *Service) Start(ctx context.Context, characterID string) (writing.WritingCharacter, error) {
	char, ok := s.repo.GetByID(characterID)
	if !ok {
		return writing.WritingCharacter{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, characterID)
	}
	progress, err := s.store.GetProgress(ctx, char.ID)
	if err != nil {
		return writing.WritingCharacter{}, fmt.Errorf("failed to load progress: %w", err)
	}
	session := s.tracker.CreateSession(char.ID)
	s.character = char
	s.session = &session
	s.progress = progress
	s.attempt = nil
	s.logger.WithFields(logrus.Fields{
		"character": char.Character,
		"session":   session.ID,
	}).Debug("practice session started")
	return char, nil
}

// Character returns the character being practiced.
func (s *Service) Character() writing.WritingCharacter {
	return s.character
}

// Session returns a copy of the current session, if any.
func (s *Service) Session() (writing.WritingSession, bool) {
	if s.session == nil {
		return writing.WritingSession{}, false
	}
	return *s.session, true
}

// Progress returns the stored progress of the current character, or nil before the first
// finished session.
func (s *Service) Progress() *writing.WritingProgress {
	return s.progress
}

// AddStroke appends a finalized stroke to the current attempt.
func (s *Service) AddStroke(stroke writing.StrokePath) error {
	if s.session == nil {
		return ErrNoSession
	}
	if s.session.IsCompleted {
		return writing.ErrSessionCompleted
	}
	s.attempt = append(s.attempt, stroke)
	return nil
}

// Strokes returns the strokes of the current attempt.
func (s *Service) Strokes() []writing.StrokePath {
	return append([]writing.StrokePath(nil), s.attempt...)
}

// ClearAttempt discards the strokes of the current attempt.
func (s *Service) ClearAttempt() {
	s.attempt = nil
}

// Submit evaluates the current attempt. A passing score completes the session and saves the
// session, its strokes, and the updated progress together. A failing score keeps the session
// open and starts a fresh attempt.
func (s *Service) Submit(ctx context.Context) (Result, error) {
	if s.session == nil {
		return Result{}, ErrNoSession
	}
	if s.session.IsCompleted {
		return Result{}, writing.ErrSessionCompleted
	}
	if len(s.attempt) == 0 {
		return Result{}, ErrNoStrokes
	}

	strokes := s.Strokes()
	eval := s.evaluator.EvaluateCharacter(s.character.ID, strokes)
	updated, err := s.tracker.UpdateSession(*s.session, strokes, eval.OverallScore)
	if err != nil {
		return Result{}, err
	}
	log := s.logger.WithFields(logrus.Fields{
		"character": s.character.Character,
		"session":   updated.ID,
		"score":     eval.OverallScore,
		"attempt":   updated.Attempts,
	})

	result := Result{Evaluation: eval, Strokes: strokes, Session: updated}
	if updated.IsCompleted {
		progress, err := s.finish(ctx, updated)
		if err != nil {
			return Result{}, err
		}
		result.Progress = &progress
		log.WithField("mastery", progress.MasteryLevel).Info("character completed")
	} else {
		log.Info("attempt below passing score")
	}
	s.session = &updated
	s.attempt = nil
	return result, nil
}

// Abandon ends the current session. A session with at least one evaluated attempt is
// recorded with its last score; an untouched session is dropped.
func (s *Service) Abandon(ctx context.Context) (*writing.WritingProgress, error) {
	session := s.session
	s.session = nil
	s.attempt = nil
	if session == nil || session.IsCompleted || session.Attempts == 0 {
		return nil, nil
	}
	progress, err := s.finish(ctx, *session)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"character": s.character.Character,
		"session":   session.ID,
		"score":     session.Accuracy,
	}).Info("session abandoned")
	return &progress, nil
}

func (s *Service) finish(ctx context.Context, session writing.WritingSession) (writing.WritingProgress, error) {
	progress := s.tracker.UpdateProgress(s.progress, session)
	if err := s.store.SaveSessionResult(ctx, session, progress); err != nil {
		s.logger.WithError(err).WithField("session", session.ID).Error("failed to save session")
		return writing.WritingProgress{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.progress = &progress
	return progress, nil
}
