package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/bihua/internal/writing"
)

// attemptFile is the JSON form of a drawn character accepted by score and render.
//
//	{"character": "人", "strokes": [{"points": [{"x": 150, "y": 50}, {"x": 60, "y": 250}]}]}
type attemptFile struct {
	Character string               `json:"character"`
	Strokes   []writing.StrokePath `json:"strokes"`
}

func readAttempt(path string, stdin io.Reader) (attemptFile, error) {
	var src io.Reader = stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return attemptFile{}, fmt.Errorf("failed to open attempt: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				// Best-effort close for read-only attempt file.
				_ = cerr
			}
		}()
		src = file
	}
	return decodeAttempt(src)
}

// decodeAttempt parses an attempt and rebuilds each stroke in file order, filling in the
// id, path, and timestamp when they are missing.
func decodeAttempt(r io.Reader) (attemptFile, error) {
	var raw attemptFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return attemptFile{}, fmt.Errorf("failed to decode attempt: %w", err)
	}
	out := attemptFile{Character: raw.Character, Strokes: make([]writing.StrokePath, 0, len(raw.Strokes))}
	for i, s := range raw.Strokes {
		if len(s.Points) == 0 {
			return attemptFile{}, fmt.Errorf("stroke %d has no points", i+1)
		}
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		ts := s.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		out.Strokes = append(out.Strokes, writing.NewStrokePath(id, i, s.Points, ts))
	}
	return out, nil
}
