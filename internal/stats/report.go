package stats

import (
	"context"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/writing"
)

// Source is the read side of the session store.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListProgress(ctx context.Context) ([]writing.WritingProgress, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions       []model.SessionAggregate
	WindowSessions []model.SessionAggregate
	Progress       []writing.WritingProgress
	Chars          []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering. Characters missing from chars are
// reported with their ID only.
func BuildReport(ctx context.Context, src Source, chars writing.CharacterRepository, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	progress, err := src.ListProgress(ctx)
	if err != nil {
		return Report{}, err
	}
	if cfg.Character != "" {
		progress = filterProgress(progress, cfg.Character)
	}

	rows := make([]model.CharAggregate, 0, len(progress))
	for _, p := range progress {
		row := model.CharAggregate{Character: p.CharacterID, Progress: p}
		if c, ok := chars.GetByID(p.CharacterID); ok {
			row.Character = c.Character
			row.Pinyin = c.Pinyin
			row.HanViet = c.HanViet
		}
		rows = append(rows, row)
	}

	return Report{
		Sessions:       sessions,
		WindowSessions: lastSessions(sessions, cfg.CurveWindow),
		Progress:       progress,
		Chars:          rows,
	}, nil
}

func filterProgress(progress []writing.WritingProgress, id string) []writing.WritingProgress {
	out := progress[:0:0]
	for _, p := range progress {
		if p.CharacterID == id {
			out = append(out, p)
		}
	}
	return out
}

func lastSessions(sessions []model.SessionAggregate, window int) []model.SessionAggregate {
	if window <= 0 || len(sessions) <= window {
		return sessions
	}
	return sessions[len(sessions)-window:]
}
