package models

import "strings"

// Player is one roster row for a team and week.
type Player struct {
	Position        string
	Name            string
	NFLTeam         string
	Points          float64
	ProjectedPoints float64
	Eligibility     string // e.g. "WR/FLEX", "QB"
	Status          string
	Week            string
}

func (p Player) EligiblePositions() []string {
	return SplitEligibility(p.Eligibility)
}

func (p Player) CanFillPosition(required string) bool {
	return CanFill(p.Position, p.Eligibility, required)
}

// AvailablePlayer is a draft-pool row. IDs are opaque strings because the
// data provider uses composite ids like "124949-103020".
type AvailablePlayer struct {
	ID          string
	Name        string
	Position    string
	NFLTeam     string
	ByeWeek     int
	Status      string // available, drafted
	Eligibility string
	FPPG        *float64 // from the PlayerPool_FanDuel lookup, when present
	Opponent    string
}

func (p AvailablePlayer) IsAvailable() bool {
	return strings.EqualFold(p.Status, "available")
}

func (p AvailablePlayer) EligiblePositions() []string {
	return SplitEligibility(p.Eligibility)
}

func (p AvailablePlayer) CanFillPosition(required string) bool {
	return CanFill(p.Position, p.Eligibility, required)
}

// RosterPlayer converts an available player into the roster row that would
// exist after drafting or adding them. Points start at zero and are filled
// in by the sheet later.
func (p AvailablePlayer) RosterPlayer() Player {
	return Player{
		Position:    p.Position,
		Name:        p.Name,
		NFLTeam:     p.NFLTeam,
		Eligibility: p.Eligibility,
		Status:      "active",
	}
}

type Team struct {
	ID          int
	Owner       string
	Name        string
	Seed        int
	Status      string // active, eliminated, champion
	TotalPoints float64
	CurrentWeek string
	Roster      []Player
}

func (t Team) IsActive() bool     { return strings.EqualFold(t.Status, "active") }
func (t Team) IsEliminated() bool { return strings.EqualFold(t.Status, "eliminated") }
func (t Team) IsChampion() bool   { return strings.EqualFold(t.Status, "champion") }

func (t Team) StatusEmoji() string {
	switch {
	case t.IsActive():
		return "✅"
	case t.IsEliminated():
		return "❌"
	case t.IsChampion():
		return "🏆"
	}
	return "❓"
}

func (t Team) TotalProjectedPoints() float64 {
	var total float64
	for _, p := range t.Roster {
		total += p.ProjectedPoints
	}
	return total
}

type LeagueMeta struct {
	LeagueName  string
	CurrentWeek string
	LastUpdated string
}

// WeekKey normalizes a week label ("  Week 19 " -> "week_19") for cache
// keys and lookups. Sheet data is hand-typed, so comparisons must ignore
// case and stray whitespace.
func WeekKey(week string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(week)), " ", "_")
}

type RosterRequirement struct {
	Week              string
	TeamsLeft         int
	PositionsRequired string // comma-separated slot names, e.g. "QB, RB, WR, FLEX"
	Payout            string
}

// RequiredSlots splits the comma-separated slot list, trimming whitespace
// and dropping empty entries.
func (r RosterRequirement) RequiredSlots() []string {
	var slots []string
	for _, s := range strings.Split(r.PositionsRequired, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			slots = append(slots, s)
		}
	}
	return slots
}

type DraftState struct {
	CurrentRound  int
	CurrentPick   int
	DraftStarted  bool
	DraftComplete bool
	LastPickTime  string
}

type DraftPick struct {
	Round    int
	Pick     int
	TeamID   int
	Owner    string
	Status   string // upcoming, current, completed
	PlayerID string
	Player   string
}

func (p DraftPick) IsCurrent() bool   { return strings.EqualFold(p.Status, "current") }
func (p DraftPick) IsCompleted() bool { return strings.EqualFold(p.Status, "completed") }

// DraftData is the combined snapshot assembled from a single batched read
// of every logical table.
type DraftData struct {
	LeagueMeta       LeagueMeta
	Teams            []Team
	Requirements     map[string]RosterRequirement // keyed by WeekKey
	Rosters          map[int][]Player             // all weeks, keyed by team id
	AvailablePlayers []AvailablePlayer
	DraftState       DraftState
	DraftOrder       []DraftPick
	CurrentPick      *DraftPick
}

// PlayerDetail is enrichment data from the FanDuel API. Everything here is
// display-only and optional.
type PlayerDetail struct {
	Projection     *float64
	Opponent       string
	InjuryStatus   string
	InjuryDetails  string
	ExpertAnalysis []ExpertNote
	RecentStats    string
	Salary         int
	ImageURL       string
}

type ExpertNote struct {
	Source string
	Text   string
}
