// Package main provides the CLI entrypoint for bihua.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/charset"
	"github.com/verte-zerg/bihua/internal/config"
	"github.com/verte-zerg/bihua/internal/generator"
	"github.com/verte-zerg/bihua/internal/logging"
	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/practice"
	"github.com/verte-zerg/bihua/internal/practicelist"
	"github.com/verte-zerg/bihua/internal/store"
	"github.com/verte-zerg/bihua/internal/tui"
	"github.com/verte-zerg/bihua/internal/writing"
)

const (
	defaultFeedbackLang    = "vi"
	defaultFramesPerStroke = 8
	defaultWeakTop         = 5
	defaultWeakFactor      = 2.0
	defaultWeakWindow      = 20
	defaultCurveWindow     = 10
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

var (
	practiceDataset         string
	practiceList            string
	practiceChars           string
	practiceFeedbackLang    string
	practiceFramesPerStroke int
	practiceFocusWeak       bool
	practiceWeakTop         int
	practiceWeakFactor      float64
	practiceWeakWindow      int

	logLevel  string
	logFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bihua",
		Short:         "Stroke-order practice for Chinese characters",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&practiceDataset, "dataset", "", "extra character dataset (TOML)")

	rootCmd.Flags().StringVar(&practiceList, "list", "", "practice list name or path")
	rootCmd.Flags().StringVar(&practiceChars, "chars", "", "practice only these characters, e.g. 人大")
	rootCmd.Flags().StringVar(&practiceFeedbackLang, "feedback-lang", defaultFeedbackLang, "feedback language (vi or en)")
	rootCmd.Flags().IntVar(&practiceFramesPerStroke, "frames-per-stroke", defaultFramesPerStroke, "animation frames per stroke")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recently practiced characters to rank")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCharsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newRenderCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dataset", &practiceDataset, fileCfg.Practice.Dataset)
	applyStringConfig(cmd, "list", &practiceList, fileCfg.Practice.List)
	applyStringConfig(cmd, "feedback-lang", &practiceFeedbackLang, fileCfg.Practice.FeedbackLang)
	applyIntConfig(cmd, "frames-per-stroke", &practiceFramesPerStroke, fileCfg.Practice.FramesPerStroke)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Dataset:         practiceDataset,
		ListPath:        config.ResolveListPath(practiceList),
		FeedbackLang:    practiceFeedbackLang,
		FramesPerStroke: practiceFramesPerStroke,
		FocusWeak:       practiceFocusWeak,
		WeakTop:         practiceWeakTop,
		WeakFactor:      practiceWeakFactor,
		WeakWindow:      practiceWeakWindow,
		Params:          fileCfg.Scoring.Apply(writing.DefaultParams()),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	// The TUI owns the terminal, so the log goes to a file.
	logger, closeLog, err := newLogger(cmd, fileCfg, config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	repo, err := loadRepository(cfg.Params, cfg.Dataset)
	if err != nil {
		return err
	}
	ids, err := practiceIDs(repo, cfg.ListPath, practiceChars, logger)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.WithError(cerr).Error("failed to close db")
		}
	}()

	evaluator := writing.NewCharacterEvaluator(repo, writing.NewEvaluator(cfg.Params), writing.MessagesFor(cfg.FeedbackLang))
	svc := practice.NewService(repo, evaluator, writing.NewTracker(), st, logger)
	logger.WithFields(logrus.Fields{
		"characters": len(ids),
		"focusWeak":  cfg.FocusWeak,
		"feedback":   cfg.FeedbackLang,
	}).Info("starting practice")

	m := tui.NewModel(cfg, svc, st, generator.New(), ids, logger)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// newLogger builds the command logger. An empty file logs to stderr.
func newLogger(cmd *cobra.Command, fileCfg config.FileConfig, file string) (*logrus.Logger, func() error, error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	logger, closeLog, err := logging.New(model.LogConfig{Level: logLevel, Format: logFormat, File: file})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closeLog, nil
}

func closeLogger(closeLog func() error) {
	if err := closeLog(); err != nil {
		// Best-effort close of the log file.
		_ = err
	}
}

// loadRepository loads the builtin characters plus an optional user dataset.
func loadRepository(params writing.Params, dataset string) (*charset.Repository, error) {
	repo, err := charset.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}
	if dataset != "" {
		if err := repo.MergeFile(dataset); err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
	}
	return repo, nil
}

// practiceIDs narrows the repository to a practice list and/or explicit characters.
func practiceIDs(repo *charset.Repository, listPath, chars string, logger logrus.FieldLogger) ([]string, error) {
	ids := repo.IDs()
	if listPath != "" {
		listed, err := practicelist.Load(listPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load practice list: %w", err)
		}
		ids = keepKnown(repo, listed, logger)
	}
	if chars != "" {
		var wanted []string
		for _, r := range chars {
			if !practicelist.FilterHan(string(r)) {
				return nil, fmt.Errorf("--chars: %q is not a Han character", r)
			}
			wanted = append(wanted, string(r))
		}
		inList := map[string]struct{}{}
		for _, id := range ids {
			inList[id] = struct{}{}
		}
		filtered := wanted[:0]
		for _, c := range wanted {
			if _, ok := inList[c]; ok {
				filtered = append(filtered, c)
			}
		}
		ids = keepKnown(repo, filtered, logger)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no characters to practice")
	}
	return ids, nil
}

func keepKnown(repo *charset.Repository, chars []string, logger logrus.FieldLogger) []string {
	kept, missing := practicelist.Keep(chars, func(c string) bool {
		_, ok := repo.GetByID(c)
		return ok
	})
	for _, c := range missing {
		logger.WithField("character", c).Warn("no stroke data; skipping")
	}
	return kept
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.CommandContext(context.Background(), parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	p := writing.DefaultParams()
	return fmt.Sprintf(`# bihua configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# dataset = ""               # Extra character dataset (TOML)
# list = ""                  # Practice list name (in %s) or path
# feedback-lang = %q        # Feedback language: vi or en
# frames-per-stroke = %d      # Stroke-order animation frames per stroke
# focus-weak = false         # Bias practice toward weak characters
# weak-top = %d               # Number of weak characters to focus on
# weak-factor = %.1f         # Weight factor for weak characters
# weak-window = %d           # Number of recently practiced characters to rank

[scoring]
# tolerance = %.2f         # Point distance (canvas units) that scores zero
# start-weight = %.2f
# end-weight = %.2f
# direction-weight = %.2f
# smoothness-weight = %.2f
# curvature-threshold = %.2f
# dot-span = %.2f
# axis-ratio = %.2f
# mismatch-credit = %.2f
# smoothness-factor = %.2f

[log]
# level = %q             # debug, info, warn, error
# format = %q            # text or json
`,
		config.DefaultListDir(),
		defaultFeedbackLang,
		defaultFramesPerStroke,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		p.Tolerance,
		p.StartWeight,
		p.EndWeight,
		p.DirectionWeight,
		p.SmoothnessWeight,
		p.CurvatureThreshold,
		p.DotSpan,
		p.AxisRatio,
		p.MismatchCredit,
		p.SmoothnessFactor,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.FeedbackLang != "vi" && cfg.FeedbackLang != "en" {
		return fmt.Errorf("--feedback-lang must be vi or en")
	}
	if cfg.FramesPerStroke <= 0 {
		return fmt.Errorf("--frames-per-stroke must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if err := cfg.Params.Validate(); err != nil {
		return fmt.Errorf("invalid [scoring] config: %w", err)
	}
	return nil
}
