package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bihua/internal/charset"
	"github.com/verte-zerg/bihua/internal/config"
	"github.com/verte-zerg/bihua/internal/writing"
)

var (
	charsHSK  int
	charsList string
)

func newCharsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "List characters with stroke data",
		Args:  cobra.NoArgs,
		RunE:  runCharsCmd,
	}
	cmd.Flags().IntVar(&charsHSK, "hsk", 0, "only characters of this HSK level")
	cmd.Flags().StringVar(&charsList, "list", "", "only characters of this practice list")
	return cmd
}

func runCharsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, repo, err := loadCharacters(cmd)
	if err != nil {
		return err
	}
	chars := repo.All()
	if charsList != "" {
		logger, closeLog, err := newLogger(cmd, fileCfg, "")
		if err != nil {
			return err
		}
		defer closeLogger(closeLog)
		ids, err := practiceIDs(repo, config.ResolveListPath(charsList), "", logger)
		if err != nil {
			return err
		}
		chars = chars[:0]
		for _, id := range ids {
			c, _ := repo.GetByID(id)
			chars = append(chars, c)
		}
	}
	out := cmd.OutOrStdout()
	for _, line := range formatCharLines(chars, charsHSK) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func formatCharLines(chars []writing.WritingCharacter, hsk int) []string {
	lines := make([]string, 0, len(chars))
	for _, c := range chars {
		if hsk > 0 && c.HSKLevel != hsk {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s %s HSK %d  %2d strokes  %s",
			runewidth.FillRight(c.Character, 2),
			runewidth.FillRight(c.Pinyin, 8),
			runewidth.FillRight(c.HanViet, 8),
			c.HSKLevel,
			c.StrokeCount,
			c.Meaning,
		))
	}
	return lines
}

// loadCharacters reads the config file and loads the character repository for a subcommand.
func loadCharacters(cmd *cobra.Command) (config.FileConfig, *charset.Repository, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dataset", &practiceDataset, fileCfg.Practice.Dataset)
	params := fileCfg.Scoring.Apply(writing.DefaultParams())
	if err := params.Validate(); err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("invalid [scoring] config: %w", err)
	}
	repo, err := loadRepository(params, practiceDataset)
	if err != nil {
		return config.FileConfig{}, nil, err
	}
	return fileCfg, repo, nil
}
