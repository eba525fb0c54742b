package writing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionCompleted is returned when mutating a session that already passed.
var ErrSessionCompleted = errors.New("writing session already completed")

// WritingSession records one practice run of a character.
type WritingSession struct {
	ID             string
	CharacterID    string
	StartTime      time.Time
	EndTime        *time.Time
	UserStrokes    []StrokePath
	Accuracy       int
	CompletionTime time.Duration
	Attempts       int
	IsCompleted    bool
}

func (s WritingSession) clone() WritingSession {
	out := s
	out.UserStrokes = append([]StrokePath(nil), s.UserStrokes...)
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}

// Tracker manages session lifecycles and progress bookkeeping.
type Tracker struct {
	now   func() time.Time
	newID func() string
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithIDs overrides the session ID source.
func WithIDs(newID func() string) TrackerOption {
	return func(t *Tracker) { t.newID = newID }
}

// NewTracker returns a Tracker using wall-clock time and random UUIDs by default.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateSession starts a new session for characterID.
func (t *Tracker) CreateSession(characterID string) WritingSession {
	return WritingSession{
		ID:          t.newID(),
		CharacterID: characterID,
		StartTime:   t.now(),
		UserStrokes: []StrokePath{},
	}
}

// WithStroke returns a copy of session with stroke appended.
func (t *Tracker) WithStroke(session WritingSession, stroke StrokePath) (WritingSession, error) {
	if session.IsCompleted {
		return session, ErrSessionCompleted
	}
	out := session.clone()
	out.UserStrokes = append(out.UserStrokes, stroke)
	return out, nil
}

// UpdateSession records an evaluated attempt and returns the updated copy. A score at or
// above PassScore completes the session.
func (t *Tracker) UpdateSession(session WritingSession, strokes []StrokePath, score int) (WritingSession, error) {
	if session.IsCompleted {
		return session, ErrSessionCompleted
	}
	now := t.now()
	out := session.clone()
	out.UserStrokes = append([]StrokePath(nil), strokes...)
	out.Accuracy = score
	out.CompletionTime = now.Sub(session.StartTime)
	out.Attempts = session.Attempts + 1
	out.IsCompleted = score >= PassScore
	out.EndTime = &now
	return out, nil
}
