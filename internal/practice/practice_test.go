package practice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bihua/internal/logging"
	"github.com/verte-zerg/bihua/internal/writing"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetProgress(ctx context.Context, characterID string) (*writing.WritingProgress, error) {
	args := m.Called(ctx, characterID)
	p, _ := args.Get(0).(*writing.WritingProgress)
	return p, args.Error(1)
}

func (m *mockStore) SaveSessionResult(ctx context.Context, session writing.WritingSession, progress writing.WritingProgress) error {
	args := m.Called(ctx, session, progress)
	return args.Error(0)
}

func person() writing.WritingCharacter {
	return writing.WritingCharacter{
		ID:          "人",
		Character:   "人",
		Pinyin:      "rén",
		StrokeCount: 2,
		Strokes: []writing.CharacterStroke{
			{Order: 1, Direction: writing.DirectionDiagonal, StartPoint: writing.Point{X: 100, Y: 50}, EndPoint: writing.Point{X: 150, Y: 120}},
			{Order: 2, Direction: writing.DirectionDiagonal, StartPoint: writing.Point{X: 200, Y: 50}, EndPoint: writing.Point{X: 150, Y: 120}},
		},
	}
}

func newTestService(st ProgressStore) *Service {
	repo := writing.NewMemoryRepository(person())
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(5 * time.Second)
		return now
	}
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	}
	tracker := writing.NewTracker(writing.WithClock(clock), writing.WithIDs(ids))
	evaluator := writing.NewCharacterEvaluator(repo, writing.NewEvaluator(writing.DefaultParams()), writing.EnglishMessages())
	return NewService(repo, evaluator, tracker, st, logging.Discard())
}

func traced(order int, from, to writing.Point) writing.StrokePath {
	return writing.NewStrokePath(fmt.Sprintf("s%d", order), order, []writing.Point{from, to}, time.Unix(0, 0))
}

func addPersonStrokes(t *testing.T, svc *Service) {
	t.Helper()
	for i, s := range person().Strokes {
		require.NoError(t, svc.AddStroke(traced(i, s.StartPoint, s.EndPoint)))
	}
}

func TestStartUnknownCharacter(t *testing.T) {
	st := new(mockStore)
	svc := newTestService(st)

	_, err := svc.Start(context.Background(), "龍")
	require.ErrorIs(t, err, ErrUnknownCharacter)
	st.AssertNotCalled(t, "GetProgress", mock.Anything, mock.Anything)
}

func TestSubmitWithoutSessionOrStrokes(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	st.On("GetProgress", ctx, "人").Return(nil, nil).Once()
	svc := newTestService(st)

	_, err := svc.Submit(ctx)
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, svc.AddStroke(writing.StrokePath{}), ErrNoSession)

	_, err = svc.Start(ctx, "人")
	require.NoError(t, err)
	_, err = svc.Submit(ctx)
	require.ErrorIs(t, err, ErrNoStrokes)
	st.AssertExpectations(t)
}

func TestSubmitPassingAttemptSavesProgress(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	st.On("GetProgress", ctx, "人").Return(nil, nil).Once()
	st.On("SaveSessionResult", ctx,
		mock.MatchedBy(func(s writing.WritingSession) bool {
			return s.IsCompleted && s.Attempts == 1 && len(s.UserStrokes) == 2 && s.EndTime != nil
		}),
		mock.MatchedBy(func(p writing.WritingProgress) bool {
			return p.CharacterID == "人" && p.TotalAttempts == 1 && p.BestAccuracy == 100
		}),
	).Return(nil).Once()
	svc := newTestService(st)

	_, err := svc.Start(ctx, "人")
	require.NoError(t, err)
	addPersonStrokes(t, svc)

	result, err := svc.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Evaluation.OverallScore)
	require.NotNil(t, result.Progress)
	assert.Equal(t, writing.MasteryMastered, result.Progress.MasteryLevel)
	assert.Equal(t, result.Progress, svc.Progress())
	assert.Empty(t, svc.Strokes())

	session, ok := svc.Session()
	require.True(t, ok)
	assert.True(t, session.IsCompleted)
	require.ErrorIs(t, svc.AddStroke(traced(0, writing.Point{}, writing.Point{X: 1})), writing.ErrSessionCompleted)
	_, err = svc.Submit(ctx)
	require.ErrorIs(t, err, writing.ErrSessionCompleted)
	st.AssertExpectations(t)
}

func TestFailedAttemptThenAbandon(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	existing := &writing.WritingProgress{
		CharacterID:     "人",
		TotalAttempts:   1,
		BestAccuracy:    95,
		AverageAccuracy: 95,
		LastPracticed:   time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC),
		MasteryLevel:    writing.MasteryMastered,
		StreakDays:      1,
	}
	st.On("GetProgress", ctx, "人").Return(existing, nil).Once()
	svc := newTestService(st)

	_, err := svc.Start(ctx, "人")
	require.NoError(t, err)
	require.NoError(t, svc.AddStroke(traced(0, writing.Point{X: 0, Y: 280}, writing.Point{X: 290, Y: 280})))

	result, err := svc.Submit(ctx)
	require.NoError(t, err)
	assert.Less(t, result.Evaluation.OverallScore, writing.PassScore)
	assert.Nil(t, result.Progress)
	assert.Len(t, result.Strokes, 1)
	assert.Empty(t, svc.Strokes())
	st.AssertNotCalled(t, "SaveSessionResult", mock.Anything, mock.Anything, mock.Anything)

	score := result.Evaluation.OverallScore
	st.On("SaveSessionResult", ctx,
		mock.MatchedBy(func(s writing.WritingSession) bool {
			return !s.IsCompleted && s.Attempts == 1 && s.Accuracy == score
		}),
		mock.MatchedBy(func(p writing.WritingProgress) bool {
			return p.TotalAttempts == 2 && p.BestAccuracy == 95 && p.StreakDays == 2
		}),
	).Return(nil).Once()

	progress, err := svc.Abandon(ctx)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.InDelta(t, float64(95+score)/2, progress.AverageAccuracy, 1e-9)
	_, ok := svc.Session()
	assert.False(t, ok)
	st.AssertExpectations(t)
}

func TestAbandonUntouchedSessionSkipsStore(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	st.On("GetProgress", ctx, "人").Return(nil, nil).Once()
	svc := newTestService(st)

	_, err := svc.Start(ctx, "人")
	require.NoError(t, err)
	require.NoError(t, svc.AddStroke(traced(0, writing.Point{X: 100, Y: 50}, writing.Point{X: 150, Y: 120})))

	progress, err := svc.Abandon(ctx)
	require.NoError(t, err)
	assert.Nil(t, progress)
	st.AssertNotCalled(t, "SaveSessionResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitKeepsAttemptWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	st.On("GetProgress", ctx, "人").Return(nil, nil).Once()
	st.On("SaveSessionResult", ctx, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	svc := newTestService(st)

	_, err := svc.Start(ctx, "人")
	require.NoError(t, err)
	addPersonStrokes(t, svc)

	_, err = svc.Submit(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	session, ok := svc.Session()
	require.True(t, ok)
	assert.False(t, session.IsCompleted)
	assert.Equal(t, 0, session.Attempts)
	assert.Len(t, svc.Strokes(), 2)
	assert.Nil(t, svc.Progress())
}

func TestClearAttempt(t *testing.T) {
	ctx := context.Background()
	st := new(mockStore)
	st.On("GetProgress", ctx, "人").Return(nil, nil).Once()
	svc := newTestService(st)

	_, err := svc.Start(ctx, "人")
	require.NoError(t, err)
	addPersonStrokes(t, svc)
	svc.ClearAttempt()
	assert.Empty(t, svc.Strokes())
	_, err = svc.Submit(ctx)
	require.ErrorIs(t, err, ErrNoStrokes)
}
