// Package practicelist loads practice lists: one character per line.
package practicelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a practice list. Blank lines and lines starting with # are skipped; every
// other line must hold a single Han character.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only practice list.
			_ = cerr
		}
	}()

	var chars []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !FilterHan(line) {
			return nil, fmt.Errorf("%s:%d: expected a single Han character, got %q", path, lineNo, line)
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		chars = append(chars, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("practice list is empty")
	}
	return chars, nil
}
