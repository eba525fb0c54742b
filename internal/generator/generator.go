// Package generator picks the next character to practice.
package generator

import (
	"math/rand"
	"time"
)

// Generator chooses practice characters at random.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next selects a character uniformly. avoid is skipped when another choice exists, so
// the same character is not served twice in a row.
func (g *Generator) Next(ids []string, avoid string) string {
	return g.NextWeighted(ids, avoid, nil, 0)
}

// NextWeighted selects a character with a bias toward weak characters: each weak character
// weighs 1+factor, every other character weighs 1.
func (g *Generator) NextWeighted(ids []string, avoid string, weakSet map[string]struct{}, factor float64) string {
	if len(ids) == 0 {
		return ""
	}
	if len(ids) == 1 {
		return ids[0]
	}
	weights := make([]float64, len(ids))
	total := 0.0
	for i, id := range ids {
		if id == avoid {
			continue
		}
		w := 1.0
		if _, ok := weakSet[id]; ok && factor > 0 {
			w += factor
		}
		weights[i] = w
		total += w
	}
	if total == 0 {
		return ids[g.rnd.Intn(len(ids))]
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	idx := -1
	for j, w := range weights {
		if w == 0 {
			continue
		}
		acc += w
		idx = j
		if r <= acc {
			break
		}
	}
	return ids[idx]
}
