// Package normalize converts heterogeneous spreadsheet-style exports of
// e-commerce orders, supplier shipments, and carrier tracking events into
// fixed canonical tables for downstream reconciliation.
//
// All transforms are pure and copy their input. Bad individual values
// degrade to null/default instead of raising; data-quality problems are
// surfaced as advisory strings in a Report returned alongside the data.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// RawRow is one row of an uploaded dataset keyed by column header.
// Headers are not guaranteed unique, lowercase, or canonical; values may
// be strings, numbers, bools, timestamps, or nil.
type RawRow = map[string]any

// CleanHeaders returns a copy of rows with surrounding whitespace trimmed
// from every header. When two headers collapse to the same name after
// trimming, the surviving value is implementation-defined (last write wins).
func CleanHeaders(rows []RawRow) []RawRow {
	return renameHeaders(rows, strings.TrimSpace)
}

// LowerHeaders returns a copy of rows with every header trimmed and
// lowercased. Same collision caveat as CleanHeaders.
func LowerHeaders(rows []RawRow) []RawRow {
	return renameHeaders(rows, func(h string) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
}

// renameHeaders builds a row-by-row copy with headers passed through rename.
func renameHeaders(rows []RawRow, rename func(string) string) []RawRow {
	out := make([]RawRow, len(rows))
	for i, row := range rows {
		clean := make(RawRow, len(row))
		for header, value := range row {
			clean[rename(header)] = value
		}
		out[i] = clean
	}
	return out
}

// columnSet returns the union of header names across all rows.
func columnSet(rows []RawRow) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, row := range rows {
		for header := range row {
			cols[header] = struct{}{}
		}
	}
	return cols
}

// firstRunes returns the first n runes of s, or s itself when shorter.
func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
