// Package search implements the approximate name matching used to rank
// file and tag search results.
package search

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Match pairs a candidate with its similarity to the query
type Match[T any] struct {
	Item            T       `json:"item"`
	MatchPercentage float64 `json:"match_percentage"`
}

// MatchPercentage returns how similar a and b are, from 0 (nothing in common)
// to 100 (identical), based on Levenshtein distance over runes.
// Comparison is case-sensitive. The result is rounded to 2 decimals.
func MatchPercentage(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}

	distance := levenshtein.ComputeDistance(a, b)
	score := (1 - float64(distance)/float64(maxLen)) * 100

	return math.Round(score*100) / 100
}

// Rank scores every item against query and returns them ordered by
// descending match percentage. Items with equal scores keep their input order.
func Rank[T any](query string, items []T, nameOf func(T) string) []Match[T] {
	matches := make([]Match[T], 0, len(items))
	for _, item := range items {
		matches = append(matches, Match[T]{
			Item:            item,
			MatchPercentage: MatchPercentage(query, nameOf(item)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})

	return matches
}

// Contains reports whether name contains query, ignoring case. Folding uses
// Unicode rules so the result does not depend on the database collation.
func Contains(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

// Filter keeps the items whose name contains query, ignoring case
func Filter[T any](query string, items []T, nameOf func(T) string) []T {
	kept := items[:0]
	for _, item := range items {
		if Contains(nameOf(item), query) {
			kept = append(kept, item)
		}
	}
	return kept
}
