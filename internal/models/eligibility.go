package models

import "strings"

// Wildcard slot kinds. FLEX takes any of RB/WR/TE, SUPERFLEX additionally
// takes a QB.
const (
	SlotFlex      = "FLEX"
	SlotSuperflex = "SUPERFLEX"
)

var flexPositions = map[string]bool{"RB": true, "WR": true, "TE": true}

var superflexPositions = map[string]bool{"QB": true, "RB": true, "WR": true, "TE": true}

// DefaultEligibility derives the eligibility tag when the sheet leaves the
// column blank: RB/WR/TE get "<POS>/FLEX", everyone else just their position.
func DefaultEligibility(position string) string {
	pos := strings.ToUpper(strings.TrimSpace(position))
	if flexPositions[pos] {
		return pos + "/" + SlotFlex
	}
	return pos
}

// NormalizeEligibility returns the tag as stored, or the position-derived
// default when the tag is empty.
func NormalizeEligibility(position, eligibility string) string {
	if strings.TrimSpace(eligibility) == "" {
		return DefaultEligibility(position)
	}
	return eligibility
}

// SplitEligibility decomposes a tag like "WR/FLEX" into its slot names.
func SplitEligibility(eligibility string) []string {
	return strings.Split(eligibility, "/")
}

// CanFill reports whether a player at the given position, carrying the
// given eligibility tag, may occupy the required slot. Wildcard slots are
// decided by position alone; concrete slots by the eligibility tag.
func CanFill(position, eligibility, required string) bool {
	req := strings.ToUpper(strings.TrimSpace(required))
	pos := strings.ToUpper(strings.TrimSpace(position))

	switch req {
	case SlotSuperflex:
		return superflexPositions[pos]
	case SlotFlex:
		return flexPositions[pos]
	}

	for _, e := range SplitEligibility(eligibility) {
		if strings.ToUpper(strings.TrimSpace(e)) == req {
			return true
		}
	}
	return false
}

// IsWildcardSlot reports whether the slot name is FLEX or SUPERFLEX.
func IsWildcardSlot(slot string) bool {
	s := strings.ToUpper(strings.TrimSpace(slot))
	return s == SlotFlex || s == SlotSuperflex
}
