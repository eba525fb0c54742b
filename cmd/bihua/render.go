package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/config"
	"github.com/verte-zerg/bihua/internal/render"
	"github.com/verte-zerg/bihua/internal/store"
	"github.com/verte-zerg/bihua/internal/writing"
)

var (
	renderChar      string
	renderOut       string
	renderSize      int
	renderReference bool
	renderLatest    bool
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [attempt.json|-]",
		Short: "Render a character or an attempt to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRenderCmd,
	}
	cmd.Flags().StringVar(&renderChar, "char", "", "character to draw (overrides the attempt file)")
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", "output PNG path")
	cmd.Flags().IntVar(&renderSize, "size", int(writing.CanvasSize), "image side in pixels")
	cmd.Flags().BoolVar(&renderReference, "reference", true, "draw the reference strokes")
	cmd.Flags().BoolVar(&renderLatest, "latest", false, "draw the latest stored session of --char")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, args []string) (err error) {
	if renderOut == "" {
		return fmt.Errorf("--out is required")
	}
	if renderLatest && len(args) > 0 {
		return fmt.Errorf("--latest cannot be combined with an attempt file")
	}
	fileCfg, repo, err := loadCharacters(cmd)
	if err != nil {
		return err
	}

	id := renderChar
	var strokes []writing.StrokePath
	switch {
	case len(args) == 1:
		attempt, err := readAttempt(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if id == "" {
			id = attempt.Character
		}
		strokes = attempt.Strokes
	case renderLatest:
		if strokes, err = latestStrokes(id); err != nil {
			return err
		}
	}
	char, ok := repo.GetByID(id)
	if !ok {
		return fmt.Errorf("unknown character %q", id)
	}

	opts := render.Options{Size: renderSize, Reference: renderReference}
	if len(strokes) > 0 {
		params := fileCfg.Scoring.Apply(writing.DefaultParams())
		evaluator := writing.NewCharacterEvaluator(repo, writing.NewEvaluator(params), writing.MessagesFor(defaultFeedbackLang))
		opts.Scores = evaluator.EvaluateCharacter(char.ID, strokes).StrokeScores
	}

	file, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	if err := render.Render(file, char, strokes, opts); err != nil {
		return fmt.Errorf("failed to render %s: %w", char.Character, err)
	}
	return nil
}

func latestStrokes(id string) (strokes []writing.StrokePath, err error) {
	if id == "" {
		return nil, fmt.Errorf("--latest needs --char")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close db: %w", cerr)
		}
	}()
	session, err := st.LatestSession(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("no stored session for %q", id)
	}
	return session.UserStrokes, nil
}
