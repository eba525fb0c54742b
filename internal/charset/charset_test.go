package charset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bihua/internal/writing"
)

func TestBuiltinDatasetValidates(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)
	require.GreaterOrEqual(t, repo.Len(), 10)

	for _, c := range repo.All() {
		assert.NoError(t, c.Validate(), c.Character)
		assert.Equal(t, c.Character, c.ID)
		assert.NotEmpty(t, c.Pinyin, c.Character)
		assert.NotEmpty(t, c.HanViet, c.Character)
	}
}

func TestBuiltinPersonCoordinates(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)

	ren, ok := repo.GetByID("人")
	require.True(t, ok)
	require.Len(t, ren.Strokes, 2)
	assert.Equal(t, writing.Point{X: 100, Y: 50}, ren.Strokes[0].StartPoint)
	assert.Equal(t, writing.Point{X: 150, Y: 120}, ren.Strokes[0].EndPoint)
	assert.Equal(t, writing.DirectionDiagonal, ren.Strokes[1].Direction)
	assert.Equal(t, "人-1", ren.Strokes[0].ID)
}

func TestChordTracesScoreHigh(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)
	ce := writing.NewCharacterEvaluator(repo, writing.NewEvaluator(writing.DefaultParams()), writing.EnglishMessages())

	for _, c := range repo.All() {
		var strokes []writing.StrokePath
		for i, s := range c.OrderedStrokes() {
			strokes = append(strokes, writing.NewStrokePath("", i, []writing.Point{s.StartPoint, s.EndPoint}, time.Unix(0, 0)))
		}
		eval := ce.EvaluateCharacter(c.ID, strokes)
		assert.GreaterOrEqual(t, eval.OverallScore, 90, c.Character)
	}
}

func TestAllSortedByLevelThenGlyph(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)

	all := repo.All()
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.HSKLevel == cur.HSKLevel {
			assert.Less(t, prev.Character, cur.Character)
		} else {
			assert.Less(t, prev.HSKLevel, cur.HSKLevel)
		}
	}
	assert.Equal(t, len(all), len(repo.IDs()))
}

func TestMergeFileAddsCharacters(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)
	before := repo.Len()

	path := filepath.Join(t.TempDir(), "extra.toml")
	data := `
[[character]]
character = "丁"
pinyin = "dīng"
meaning = "đinh"
han-viet = "đinh"
hsk = 6
stroke-count = 2

  [[character.strokes]]
  order = 1
  direction = "horizontal"
  start = { x = 50, y = 70 }
  end = { x = 250, y = 70 }

  [[character.strokes]]
  order = 2
  direction = "hook"
  start = { x = 150, y = 70 }
  end = { x = 140, y = 270 }
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	require.NoError(t, repo.MergeFile(path))

	assert.Equal(t, before+1, repo.Len())
	ding, ok := repo.GetByID("丁")
	require.True(t, ok)
	assert.Equal(t, 6, ding.HSKLevel)
	assert.Equal(t, "丁", repo.All()[repo.Len()-1].Character)
}

func TestMergeFileRejectsInvalidCharacter(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.toml")
	data := `
[[character]]
character = "丁"
stroke-count = 1

  [[character.strokes]]
  order = 1
  direction = "vertical"
  start = { x = 50, y = 70 }
  end = { x = 250, y = 70 }
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	err = repo.MergeFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, writing.ErrChordDirection))
	_, ok := repo.GetByID("丁")
	assert.False(t, ok)
}

func TestMergeFileRejectsUnknownKeys(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "typo.toml")
	data := `
[[character]]
character = "一"
stroke-count = 1
strokecount = 1

  [[character.strokes]]
  order = 1
  direction = "horizontal"
  start = { x = 50, y = 150 }
  end = { x = 250, y = 150 }
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	err = repo.MergeFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strokecount")
}

func TestMergeFileMissing(t *testing.T) {
	repo, err := New(writing.DefaultParams())
	require.NoError(t, err)
	assert.Error(t, repo.MergeFile(filepath.Join(t.TempDir(), "missing.toml")))
}
