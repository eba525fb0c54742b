package practicelist

import "unicode"

// FilterHan reports whether s is exactly one Han character.
func FilterHan(s string) bool {
	runes := []rune(s)
	if len(runes) != 1 {
		return false
	}
	return unicode.Is(unicode.Han, runes[0])
}

// Keep returns the entries of chars accepted by known, plus the rejected ones.
func Keep(chars []string, known func(string) bool) (kept, missing []string) {
	for _, c := range chars {
		if known(c) {
			kept = append(kept, c)
			continue
		}
		missing = append(missing, c)
	}
	return kept, missing
}
