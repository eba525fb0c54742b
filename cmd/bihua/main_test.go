package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/config"
	"github.com/verte-zerg/bihua/internal/logging"
	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/stats"
	"github.com/verte-zerg/bihua/internal/writing"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	var words int
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().IntVar(&words, "weak-top", 5, "")
	value := 9
	applyIntConfig(cmd, "weak-top", &words, &value)
	if words != 9 {
		t.Fatalf("expected config value, got %d", words)
	}
	if err := cmd.Flags().Set("weak-top", "3"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	other := 12
	applyIntConfig(cmd, "weak-top", &words, &other)
	if words != 3 {
		t.Fatalf("expected flag value to win, got %d", words)
	}
	applyIntConfig(cmd, "weak-top", &words, nil)
	if words != 3 {
		t.Fatalf("nil config must not change the value")
	}
}

func TestDefaultConfigTemplateUncommentsToValidConfig(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented template: %v", err)
	}
	if cfg.Practice.FeedbackLang == nil || *cfg.Practice.FeedbackLang != defaultFeedbackLang {
		t.Fatalf("unexpected feedback-lang %v", cfg.Practice.FeedbackLang)
	}
	if got := cfg.Scoring.Apply(writing.Params{}); got != writing.DefaultParams() {
		t.Fatalf("template scoring values differ from defaults: %+v", got)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != defaultLogLevel {
		t.Fatalf("unexpected log level %v", cfg.Log.Level)
	}
}

func TestValidateConfig(t *testing.T) {
	good := model.Config{FeedbackLang: "vi", FramesPerStroke: 8, WeakTop: 5, WeakFactor: 2, WeakWindow: 20, Params: writing.DefaultParams()}
	if err := validateConfig(good); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
	cases := map[string]func(*model.Config){
		"lang":    func(c *model.Config) { c.FeedbackLang = "fr" },
		"frames":  func(c *model.Config) { c.FramesPerStroke = 0 },
		"top":     func(c *model.Config) { c.WeakTop = -1 },
		"factor":  func(c *model.Config) { c.WeakFactor = -1 },
		"window":  func(c *model.Config) { c.WeakWindow = -1 },
		"weights": func(c *model.Config) { c.Params.StartWeight = 0.9 },
	}
	for name, mutate := range cases {
		cfg := good
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPracticeIDsFiltersListAndChars(t *testing.T) {
	repo, err := loadRepository(writing.DefaultParams(), "")
	if err != nil {
		t.Fatalf("load repo: %v", err)
	}
	listPath := filepath.Join(t.TempDir(), "week1.txt")
	if err := os.WriteFile(listPath, []byte("# week 1\n人\n大\n龍\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	ids, err := practiceIDs(repo, listPath, "", logging.Discard())
	if err != nil {
		t.Fatalf("practice ids: %v", err)
	}
	if strings.Join(ids, "") != "人大" {
		t.Fatalf("expected unknown characters dropped, got %v", ids)
	}

	ids, err = practiceIDs(repo, listPath, "大小", logging.Discard())
	if err != nil {
		t.Fatalf("practice ids: %v", err)
	}
	if strings.Join(ids, "") != "大" {
		t.Fatalf("expected intersection with list, got %v", ids)
	}

	if _, err := practiceIDs(repo, "", "ab", logging.Discard()); err == nil {
		t.Fatalf("expected non-Han --chars to fail")
	}
	if _, err := practiceIDs(repo, "", "龍", logging.Discard()); err == nil {
		t.Fatalf("expected empty selection to fail")
	}
}

func TestDecodeAttemptFillsStrokes(t *testing.T) {
	data := `{"character":"一","strokes":[{"points":[{"x":50,"y":150},{"x":250,"y":150}]},{"points":[{"x":1,"y":1}]}]}`
	attempt, err := decodeAttempt(strings.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if attempt.Character != "一" || len(attempt.Strokes) != 2 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	s := attempt.Strokes[1]
	if s.ID == "" || s.Order != 1 || s.Path == "" || s.Timestamp.IsZero() {
		t.Fatalf("expected filled stroke, got %+v", s)
	}
}

func TestDecodeAttemptRejectsBadInput(t *testing.T) {
	for _, data := range []string{
		`{"character":"一","strokes":[{"points":[]}]}`,
		`{"character":"一","strokes":[],"extra":1}`,
		`not json`,
	} {
		if _, err := decodeAttempt(strings.NewReader(data)); err == nil {
			t.Fatalf("expected error for %s", data)
		}
	}
}

func TestFormatCharLinesFiltersLevel(t *testing.T) {
	repo, err := loadRepository(writing.DefaultParams(), "")
	if err != nil {
		t.Fatalf("load repo: %v", err)
	}
	lines := formatCharLines(repo.All(), 2)
	if len(lines) == 0 {
		t.Fatalf("expected HSK 2 characters")
	}
	for _, line := range lines {
		if !strings.Contains(line, "HSK 2") {
			t.Fatalf("unexpected line %q", line)
		}
	}
}

func TestWritePlainReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainReport(&buf, stats.Report{}, stats.MasteryBoard{}, model.StatsConfig{CurveWindow: 5}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected report %q", buf.String())
	}
}

func TestScoreCommandJSON(t *testing.T) {
	isolateXDG(t)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(`{"strokes":[{"points":[{"x":50,"y":150},{"x":150,"y":150},{"x":250,"y":150}]}]}`))
	root.SetArgs([]string{"score", "--char", "一", "--json", "-"})
	if err := root.Execute(); err != nil {
		t.Fatalf("score: %v", err)
	}
	var eval writing.Evaluation
	if err := json.Unmarshal(out.Bytes(), &eval); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if !eval.Found || eval.OverallScore < 90 || len(eval.StrokeScores) != 1 {
		t.Fatalf("unexpected evaluation %+v", eval)
	}
}

func TestRenderCommandWritesPNG(t *testing.T) {
	isolateXDG(t)
	outPath := filepath.Join(t.TempDir(), "ren.png")
	root := newRootCmd()
	root.SetArgs([]string{"render", "--char", "人", "--size", "120", "-o", outPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	file, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer func() {
		_ = file.Close()
	}()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 120 {
		t.Fatalf("expected 120px image, got %v", img.Bounds())
	}
}
