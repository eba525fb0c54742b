package main

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/config"
	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/stats"
	"github.com/verte-zerg/bihua/internal/statsui"
	"github.com/verte-zerg/bihua/internal/store"
)

var (
	statsChar        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsChar, "char", "", "character filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD) or days back (7d)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "chars", "", "characters for per-char curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	sinceTime, err := stats.ParseSince(statsSince, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --since value: %w", err)
	}

	cfg := model.StatsConfig{
		Character:   statsChar,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}

	fileCfg, repo, err := loadCharacters(cmd)
	if err != nil {
		return err
	}
	logFile := config.DefaultLogPath()
	if statsPlain {
		logFile = ""
	}
	logger, closeLog, err := newLogger(cmd, fileCfg, logFile)
	if err != nil {
		return err
	}
	defer closeLogger(closeLog)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.WithError(cerr).Error("failed to close db")
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, repo, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		board := stats.BuildMasteryBoard(repo.All(), report.Progress)
		return writePlainReport(cmd.OutOrStdout(), report, board, cfg)
	}

	model := statsui.NewModel(st, repo, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainReport(w io.Writer, report stats.Report, board stats.MasteryBoard, cfg model.StatsConfig) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.WindowSessions, cfg.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderProgressTable(w, report.Chars); err != nil {
		return err
	}
	if err := stats.RenderMasteryBoard(w, board); err != nil {
		return err
	}
	chars := []string{}
	for _, r := range cfg.Chars {
		chars = append(chars, string(r))
	}
	if len(chars) == 0 {
		chars = stats.TopCharsByAttempts(report.Progress, 3)
	}
	return stats.RenderCharCurves(w, report.Sessions, chars, cfg.CurveWindow)
}
