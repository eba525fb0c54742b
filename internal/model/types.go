// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/bihua/internal/writing"
)

// Config defines practice settings.
type Config struct {
	Dataset         string
	ListPath        string
	FeedbackLang    string
	FramesPerStroke int
	FocusWeak       bool
	WeakTop         int
	WeakFactor      float64
	WeakWindow      int
	Params          writing.Params
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Character   string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionAggregate summarizes a finished session for reporting.
type SessionAggregate struct {
	SessionID    string
	CharacterID  string
	EndedAt      time.Time
	Accuracy     int
	Attempts     int
	Completed    bool
	CompletionMs int64
}

// CharAggregate is the progress of one character joined with its reference data.
type CharAggregate struct {
	Character string
	Pinyin    string
	HanViet   string
	Progress  writing.WritingProgress
}
