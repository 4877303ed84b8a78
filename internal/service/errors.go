package service

import (
	"errors"
	"fmt"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNotAvailable = errors.New("player not available")
	ErrNoCurrentPick      = errors.New("no current pick in draft order")
	ErrNotYourTurn        = errors.New("not your turn to pick")
)

// ValidationError carries the human-readable reason an eligibility check
// rejected a prospective roster.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("roster validation failed: %s", e.Reason)
}
