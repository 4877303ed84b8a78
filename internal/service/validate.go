package service

import (
	"fmt"
	"strings"

	"github.com/playoffpurge/playoffpurge/internal/models"
)

// ValidateRoster decides whether a candidate set of players can legally
// occupy a week's required slots. It is a pure function invoked with the
// simulated post-mutation roster before any write happens.
//
// Matching is greedy and never backtracks: concrete slots are filled
// first in the order given, then FLEX and SUPERFLEX wildcards take
// whoever is left. A greedy mis-assignment can reject an otherwise
// satisfiable roster; the tie-break (first eligible player in list
// order) is part of the league's observed behavior and is kept as is.
//
// A roster smaller than the slot list is valid as long as every player
// fits somewhere, so validation never blocks a draft in progress.
func ValidateRoster(players []models.Player, requiredSlots []string) (bool, string) {
	if len(players) == 0 {
		return true, "empty roster is valid during draft"
	}
	if len(players) > len(requiredSlots) {
		return false, fmt.Sprintf("roster has too many players: %d > %d", len(players), len(requiredSlots))
	}

	pending := append([]string(nil), requiredSlots...)
	assigned := make([]bool, len(players))

	// Exact phase: concrete slots only.
	pending = fillSlots(pending, players, assigned, false)

	// Wildcard phase: FLEX and SUPERFLEX take the leftovers.
	pending = fillSlots(pending, players, assigned, true)

	var unassigned []string
	for i, p := range players {
		if !assigned[i] {
			unassigned = append(unassigned, p.Name)
		}
	}
	if len(unassigned) > 0 {
		return false, fmt.Sprintf("cannot fit player(s) into roster: %s", strings.Join(unassigned, ", "))
	}

	if len(players) == len(requiredSlots) && len(pending) > 0 {
		return false, fmt.Sprintf("complete roster missing positions: %s", strings.Join(pending, ", "))
	}

	return true, "roster valid"
}

// fillSlots assigns the first unassigned eligible player to each slot of
// the requested kind and returns the slots still pending.
func fillSlots(slots []string, players []models.Player, assigned []bool, wildcard bool) []string {
	var pending []string
	for _, slot := range slots {
		if models.IsWildcardSlot(slot) != wildcard {
			pending = append(pending, slot)
			continue
		}

		filled := false
		for i, p := range players {
			if assigned[i] || !p.CanFillPosition(slot) {
				continue
			}
			assigned[i] = true
			filled = true
			break
		}
		if !filled {
			pending = append(pending, slot)
		}
	}
	return pending
}
