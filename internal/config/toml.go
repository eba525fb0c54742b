// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/bihua/internal/writing"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Dataset         *string  `toml:"dataset"`
	List            *string  `toml:"list"`
	FeedbackLang    *string  `toml:"feedback-lang"`
	FramesPerStroke *int     `toml:"frames-per-stroke"`
	FocusWeak       *bool    `toml:"focus-weak"`
	WeakTop         *int     `toml:"weak-top"`
	WeakFactor      *float64 `toml:"weak-factor"`
	WeakWindow      *int     `toml:"weak-window"`
}

// ScoringConfig overrides stroke scoring parameters.
type ScoringConfig struct {
	Tolerance          *float64 `toml:"tolerance"`
	StartWeight        *float64 `toml:"start-weight"`
	EndWeight          *float64 `toml:"end-weight"`
	DirectionWeight    *float64 `toml:"direction-weight"`
	SmoothnessWeight   *float64 `toml:"smoothness-weight"`
	CurvatureThreshold *float64 `toml:"curvature-threshold"`
	DotSpan            *float64 `toml:"dot-span"`
	AxisRatio          *float64 `toml:"axis-ratio"`
	MismatchCredit     *float64 `toml:"mismatch-credit"`
	SmoothnessFactor   *float64 `toml:"smoothness-factor"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// Apply returns p with every configured value overridden.
func (s ScoringConfig) Apply(p writing.Params) writing.Params {
	set := func(target *float64, value *float64) {
		if value != nil {
			*target = *value
		}
	}
	set(&p.Tolerance, s.Tolerance)
	set(&p.StartWeight, s.StartWeight)
	set(&p.EndWeight, s.EndWeight)
	set(&p.DirectionWeight, s.DirectionWeight)
	set(&p.SmoothnessWeight, s.SmoothnessWeight)
	set(&p.CurvatureThreshold, s.CurvatureThreshold)
	set(&p.DotSpan, s.DotSpan)
	set(&p.AxisRatio, s.AxisRatio)
	set(&p.MismatchCredit, s.MismatchCredit)
	set(&p.SmoothnessFactor, s.SmoothnessFactor)
	return p
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
