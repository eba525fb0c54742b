package writing

import "sort"

// CharacterRepository provides read-only access to reference characters.
type CharacterRepository interface {
	GetByID(id string) (WritingCharacter, bool)
}

// MemoryRepository is a map-backed CharacterRepository.
type MemoryRepository struct {
	chars map[string]WritingCharacter
}

// NewMemoryRepository indexes chars by ID, falling back to the glyph when ID is empty.
func NewMemoryRepository(chars ...WritingCharacter) *MemoryRepository {
	r := &MemoryRepository{chars: make(map[string]WritingCharacter, len(chars))}
	for _, c := range chars {
		r.Put(c)
	}
	return r
}

// Put adds or replaces a character.
func (r *MemoryRepository) Put(c WritingCharacter) {
	if c.ID == "" {
		c.ID = c.Character
	}
	r.chars[c.ID] = c
}

// GetByID implements CharacterRepository.
func (r *MemoryRepository) GetByID(id string) (WritingCharacter, bool) {
	c, ok := r.chars[id]
	return c, ok
}

// IDs returns all character IDs in sorted order.
func (r *MemoryRepository) IDs() []string {
	ids := make([]string, 0, len(r.chars))
	for id := range r.chars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every character sorted by HSK level, then glyph.
func (r *MemoryRepository) All() []WritingCharacter {
	out := make([]WritingCharacter, 0, len(r.chars))
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
