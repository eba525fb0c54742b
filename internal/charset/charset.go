// Package charset loads reference characters and their stroke order from TOML datasets.
package charset

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/bihua/internal/writing"
)

//go:embed data/*.toml
var builtin embed.FS

type dataset struct {
	Characters []writing.WritingCharacter `toml:"character"`
}

// Repository is a validated, read-only set of reference characters.
type Repository struct {
	params writing.Params
	chars  map[string]writing.WritingCharacter
}

// New loads the embedded dataset and validates every character against p.
func New(p writing.Params) (*Repository, error) {
	r := &Repository{params: p, chars: make(map[string]writing.WritingCharacter)}
	entries, err := fs.ReadDir(builtin, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded dataset: %w", err)
	}
	for _, entry := range entries {
		name := "data/" + entry.Name()
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := r.merge(name, bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MergeFile adds or replaces characters from a user dataset file.
func (r *Repository) MergeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	return r.merge(path, file)
}

func (r *Repository) merge(name string, src io.Reader) error {
	var ds dataset
	md, err := toml.NewDecoder(src).Decode(&ds)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	for _, c := range ds.Characters {
		c = normalize(c)
		if err := c.ValidateWith(r.params); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		r.chars[c.ID] = c
	}
	return nil
}

func normalize(c writing.WritingCharacter) writing.WritingCharacter {
	if c.ID == "" {
		c.ID = c.Character
	}
	strokes := make([]writing.CharacterStroke, len(c.Strokes))
	for i, s := range c.Strokes {
		if s.ID == "" {
			s.ID = fmt.Sprintf("%s-%d", c.ID, s.Order)
		}
		strokes[i] = s
	}
	c.Strokes = strokes
	return c
}

// GetByID implements writing.CharacterRepository.
func (r *Repository) GetByID(id string) (writing.WritingCharacter, bool) {
	c, ok := r.chars[id]
	return c, ok
}

// Len returns the number of characters.
func (r *Repository) Len() int {
	return len(r.chars)
}

// All returns every character sorted by HSK level, then glyph.
func (r *Repository) All() []writing.WritingCharacter {
	out := make([]writing.WritingCharacter, 0, len(r.chars))
	for _, c := range r.chars {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HSKLevel != out[j].HSKLevel {
			return out[i].HSKLevel < out[j].HSKLevel
		}
		return out[i].Character < out[j].Character
	})
	return out
}

// IDs returns all character IDs in All order.
func (r *Repository) IDs() []string {
	all := r.All()
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}
	return ids
}
