package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEligibility(t *testing.T) {
	tests := []struct {
		position string
		expected string
	}{
		{position: "RB", expected: "RB/FLEX"},
		{position: "rb", expected: "RB/FLEX"},
		{position: "WR", expected: "WR/FLEX"},
		{position: "TE", expected: "TE/FLEX"},
		{position: "QB", expected: "QB"},
		{position: "K", expected: "K"},
		{position: "DST", expected: "DST"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, DefaultEligibility(tc.position), "position %q", tc.position)
	}
}

func TestEligibilityRoundTrip(t *testing.T) {
	p := Player{Position: "WR", Eligibility: "WR/FLEX"}

	require.Equal(t, []string{"WR", "FLEX"}, p.EligiblePositions())
	assert.True(t, p.CanFillPosition("FLEX"))
	assert.True(t, p.CanFillPosition("WR"))
	assert.False(t, p.CanFillPosition("QB"))
}

func TestCanFillWildcards(t *testing.T) {
	tests := []struct {
		name     string
		position string
		required string
		expected bool
	}{
		{name: "TE fills FLEX", position: "TE", required: "FLEX", expected: true},
		{name: "QB cannot fill FLEX", position: "QB", required: "FLEX", expected: false},
		{name: "QB fills SUPERFLEX", position: "QB", required: "SUPERFLEX", expected: true},
		{name: "RB fills SUPERFLEX", position: "RB", required: "SUPERFLEX", expected: true},
		{name: "K cannot fill SUPERFLEX", position: "K", required: "SUPERFLEX", expected: false},
		{name: "DST cannot fill FLEX", position: "DST", required: "FLEX", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			elig := DefaultEligibility(tc.position)
			assert.Equal(t, tc.expected, CanFill(tc.position, elig, tc.required))
		})
	}
}

func TestAvailablePlayerIsAvailable(t *testing.T) {
	assert.True(t, AvailablePlayer{Status: "available"}.IsAvailable())
	assert.True(t, AvailablePlayer{Status: "Available"}.IsAvailable())
	assert.False(t, AvailablePlayer{Status: "drafted"}.IsAvailable())
	assert.False(t, AvailablePlayer{Status: ""}.IsAvailable())
}

func TestAvailablePlayerRosterPlayer(t *testing.T) {
	ap := AvailablePlayer{
		ID:          "124949-103020",
		Name:        "Patrick Mahomes",
		Position:    "QB",
		NFLTeam:     "KC",
		Status:      "available",
		Eligibility: "QB",
	}

	p := ap.RosterPlayer()
	assert.Equal(t, "QB", p.Position)
	assert.Equal(t, "Patrick Mahomes", p.Name)
	assert.Equal(t, "KC", p.NFLTeam)
	assert.Equal(t, "active", p.Status)
	assert.Zero(t, p.Points)
	assert.Zero(t, p.ProjectedPoints)
}

func TestTeamStatus(t *testing.T) {
	assert.True(t, Team{Status: "active"}.IsActive())
	assert.True(t, Team{Status: "Eliminated"}.IsEliminated())
	assert.True(t, Team{Status: "champion"}.IsChampion())
	assert.Equal(t, "✅", Team{Status: "active"}.StatusEmoji())
	assert.Equal(t, "❓", Team{Status: "weird"}.StatusEmoji())
}

func TestTeamTotalProjectedPoints(t *testing.T) {
	team := Team{Roster: []Player{
		{ProjectedPoints: 10.5},
		{ProjectedPoints: 20.25},
	}}
	assert.InDelta(t, 30.75, team.TotalProjectedPoints(), 0.001)

	assert.Zero(t, Team{}.TotalProjectedPoints())
}

func TestRequiredSlots(t *testing.T) {
	req := RosterRequirement{PositionsRequired: "QB, RB , WR,FLEX, "}
	assert.Equal(t, []string{"QB", "RB", "WR", "FLEX"}, req.RequiredSlots())

	assert.Nil(t, RosterRequirement{}.RequiredSlots())
}

func TestDraftPickStatus(t *testing.T) {
	assert.True(t, DraftPick{Status: "current"}.IsCurrent())
	assert.True(t, DraftPick{Status: "Completed"}.IsCompleted())
	assert.False(t, DraftPick{Status: "upcoming"}.IsCurrent())
}
