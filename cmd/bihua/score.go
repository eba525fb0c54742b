package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/writing"
)

var (
	scoreChar         string
	scoreFeedbackLang string
	scoreJSON         bool
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <attempt.json|->",
		Short: "Score a drawn attempt",
		Args:  cobra.ExactArgs(1),
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreChar, "char", "", "character to score against (overrides the file)")
	cmd.Flags().StringVar(&scoreFeedbackLang, "feedback-lang", defaultFeedbackLang, "feedback language (vi or en)")
	cmd.Flags().BoolVar(&scoreJSON, "json", false, "print the evaluation as JSON")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	fileCfg, repo, err := loadCharacters(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "feedback-lang", &scoreFeedbackLang, fileCfg.Practice.FeedbackLang)
	attempt, err := readAttempt(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	id := attempt.Character
	if scoreChar != "" {
		id = scoreChar
	}
	if id == "" {
		return fmt.Errorf("no character given: use --char or set \"character\" in the attempt")
	}

	params := fileCfg.Scoring.Apply(writing.DefaultParams())
	evaluator := writing.NewCharacterEvaluator(repo, writing.NewEvaluator(params), writing.MessagesFor(scoreFeedbackLang))
	eval := evaluator.EvaluateCharacter(id, attempt.Strokes)

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(eval); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if err := writeEvaluation(out, id, eval); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !eval.Found {
		return fmt.Errorf("unknown character %q", id)
	}
	return nil
}

func writeEvaluation(w io.Writer, id string, eval writing.Evaluation) error {
	verdict := "not passed"
	if eval.Passed() {
		verdict = "passed"
	}
	lines := []string{
		fmt.Sprintf("%s  score %d/100  %s  (%d of %d strokes)", id, eval.OverallScore, verdict, eval.Drawn, eval.Expected),
	}
	for i, d := range eval.Details {
		lines = append(lines, fmt.Sprintf("  stroke %d: %3d  start %.0f  end %.0f  direction %.0f (%s, want %s)  smoothness %.0f",
			i+1, d.Total, d.Start, d.End, d.Direction, d.Detected, d.Target, d.Smoothness))
	}
	lines = append(lines, eval.Feedback...)
	for _, s := range eval.Suggestions {
		lines = append(lines, "- "+s)
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
