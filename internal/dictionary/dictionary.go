package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Dictionary is the reference set of known PFAS substance identifiers
// (CAS registry numbers or substance names). Entries are lower-cased,
// trimmed and deduplicated at construction; the set is immutable after
// that.
//
// Description matching is deliberately naive literal substring
// containment, with no tokenization or word boundaries. A short entry
// that happens to be a substring of an unrelated word will match; that
// false-positive surface is an accepted property of the current
// matching policy, and tightening it to token equality is an open
// hardening question, not something to fix quietly here.
type Dictionary struct {
	entries map[string]struct{}
}

// New builds a dictionary from raw lines. Blank lines are discarded.
func New(lines []string) *Dictionary {
	entries := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		e := strings.ToLower(strings.TrimSpace(line))
		if e == "" {
			continue
		}
		entries[e] = struct{}{}
	}
	return &Dictionary{entries: entries}
}

// FromFile loads a dictionary from a line-oriented text file, one CAS
// number or substance name per line.
func FromFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	return New(lines), nil
}

// Len returns the number of distinct identifiers.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Contains reports whether the identifier is in the dictionary,
// compared case-insensitively after trimming.
func (d *Dictionary) Contains(identifier string) bool {
	_, ok := d.entries[strings.ToLower(strings.TrimSpace(identifier))]
	return ok
}

// MatchesDescription reports whether any dictionary entry occurs as a
// literal substring of the lower-cased description. Any single match
// suffices; the scan short-circuits on the first hit.
func (d *Dictionary) MatchesDescription(description string) bool {
	lower := strings.ToLower(description)
	for entry := range d.entries {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}
