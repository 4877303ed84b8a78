package sheets

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/playoffpurge/playoffpurge/internal/models"
)

// Parsing is deliberately separated from the gateway: each function takes
// raw rows and produces entities, so table schemas are testable without a
// live (or fake) API. Malformed rows are logged and skipped, malformed
// fields defaulted; a bad row never fails a whole read.

// Sheet column layouts.
//
//	Teams:             team_id | owner_name | team_name | seed | status | total_points | current_week
//	Rosters:           team_id | week | position | player_name | team | points | projected_points | status | roster_eligibility
//	Available_Players: player_id | player_name | position | nfl_team | bye_week | status | roster_eligibility
//	Draft_Order:       round | pick | team_id | owner_name | status | player_id | player_name
//	Roster_Requirements: week | teams_left | positions_required | payout

// ParseLeagueMeta reads the League_Meta key/value tab, falling back to
// sentinel defaults for anything missing.
func ParseLeagueMeta(rows [][]string) models.LeagueMeta {
	kv := keyValues(rows)
	meta := models.LeagueMeta{
		LeagueName:  kv["league_name"],
		CurrentWeek: kv["current_week"],
		LastUpdated: kv["last_updated"],
	}
	if meta.LeagueName == "" {
		meta.LeagueName = "PlayoffPurge"
	}
	if meta.CurrentWeek == "" {
		meta.CurrentWeek = "Week 18"
	}
	if meta.LastUpdated == "" {
		meta.LastUpdated = "Unknown"
	}
	return meta
}

// ParseTeams reads the Teams tab, sorted by seed.
func ParseTeams(rows [][]string) []models.Team {
	var teams []models.Team
	for _, raw := range rows {
		if len(raw) < 7 {
			slog.Warn("Skipping incomplete team row", "cells", len(raw))
			continue
		}
		r := row(raw)
		teams = append(teams, models.Team{
			ID:          r.int(0, 0),
			Owner:       r.cell(1),
			Name:        r.cell(2),
			Seed:        r.int(3, 0),
			Status:      r.cell(4),
			TotalPoints: r.float(5, 0),
			CurrentWeek: r.cell(6),
		})
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Seed < teams[j].Seed })
	return teams
}

// ParseRequirements reads the Roster_Requirements tab.
func ParseRequirements(rows [][]string) []models.RosterRequirement {
	var reqs []models.RosterRequirement
	for _, raw := range rows {
		if len(raw) < 4 {
			slog.Warn("Skipping incomplete requirement row", "cells", len(raw))
			continue
		}
		r := row(raw)
		reqs = append(reqs, models.RosterRequirement{
			Week:              r.cell(0),
			TeamsLeft:         r.int(1, 0),
			PositionsRequired: r.cell(2),
			Payout:            r.cell(3),
		})
	}
	return reqs
}

// ParseRosters reads the Rosters tab across all weeks, keyed by team id.
// Each player keeps its week label so callers can project a single week.
func ParseRosters(rows [][]string) map[int][]models.Player {
	rosters := make(map[int][]models.Player)
	for _, raw := range rows {
		if len(raw) < 6 {
			continue
		}
		r := row(raw)
		teamID := r.int(0, -1)
		if teamID < 0 {
			slog.Warn("Skipping roster row with bad team id", "value", r.cell(0))
			continue
		}

		position := r.cell(2)
		rosters[teamID] = append(rosters[teamID], models.Player{
			Position:        position,
			Name:            r.cell(3),
			NFLTeam:         r.cell(4),
			Points:          r.float(5, 0),
			ProjectedPoints: r.float(6, 0),
			Status:          r.str(7, "active"),
			Eligibility:     models.NormalizeEligibility(position, r.cell(8)),
			Week:            r.cell(1),
		})
	}

	for id := range rosters {
		SortRoster(rosters[id])
	}
	return rosters
}

var positionOrder = map[string]int{
	"QB": 0, "SUPERFLEX": 1, "RB": 2, "WR": 3,
	"TE": 4, "FLEX": 5, "K": 6, "DST": 7, "DEF": 7,
}

// SortRoster orders players the way the dashboard displays a lineup:
// QB first, kickers and defenses last, unknown positions at the end.
func SortRoster(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return positionRank(players[i].Position) < positionRank(players[j].Position)
	})
}

func positionRank(position string) int {
	if rank, ok := positionOrder[strings.ToUpper(position)]; ok {
		return rank
	}
	return 99
}

// ParseAvailablePlayers reads the Available_Players tab. Enrichment
// fields are joined separately, see PoolIndex.
func ParseAvailablePlayers(rows [][]string) []models.AvailablePlayer {
	var players []models.AvailablePlayer
	for _, raw := range rows {
		if len(raw) < 6 {
			continue
		}
		r := row(raw)
		position := r.cell(2)
		players = append(players, models.AvailablePlayer{
			ID:          r.cell(0),
			Name:        r.cell(1),
			Position:    position,
			NFLTeam:     r.cell(3),
			ByeWeek:     r.int(4, 0),
			Status:      r.cell(5),
			Eligibility: models.NormalizeEligibility(position, r.cell(6)),
		})
	}
	return players
}

// ParseDraftState reads the Draft_State key/value tab. Numeric fields
// default to 1 on parse failure; the boolean fields are parsed from their
// own tokens and are not affected by numeric failures.
func ParseDraftState(rows [][]string) models.DraftState {
	kv := keyValues(rows)
	return models.DraftState{
		CurrentRound:  atoiDefault(kv["current_round"], 1),
		CurrentPick:   atoiDefault(kv["current_pick"], 1),
		DraftStarted:  parseBool(kv["draft_started"]),
		DraftComplete: parseBool(kv["draft_complete"]),
		LastPickTime:  kv["last_pick_time"],
	}
}

func atoiDefault(v string, def int) int {
	return row{v}.int(0, def)
}

// ParseDraftOrder reads the Draft_Order tab.
func ParseDraftOrder(rows [][]string) []models.DraftPick {
	var picks []models.DraftPick
	for _, raw := range rows {
		if len(raw) < 5 {
			continue
		}
		r := row(raw)
		picks = append(picks, models.DraftPick{
			Round:    r.int(0, 0),
			Pick:     r.int(1, 0),
			TeamID:   r.int(2, 0),
			Owner:    r.cell(3),
			Status:   r.cell(4),
			PlayerID: r.cell(5),
			Player:   r.cell(6),
		})
	}
	return picks
}

// PoolEntry is the per-player enrichment pulled from the
// PlayerPool_FanDuel tab.
type PoolEntry struct {
	FPPG     *float64
	Opponent string
}

// PoolIndex builds a player-id lookup from the raw PlayerPool_FanDuel
// rows, header row included. That tab's column order is not under our
// control, so the FPPG and Opponent columns are located by header name at
// read time. A missing header simply leaves the field absent.
func PoolIndex(rows [][]string) map[string]PoolEntry {
	index := make(map[string]PoolEntry)
	if len(rows) == 0 {
		return index
	}

	fppgCol, opponentCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "fppg":
			fppgCol = i
		case "opponent":
			opponentCol = i
		}
	}
	slog.Debug("Resolved player pool columns", "fppg", fppgCol, "opponent", opponentCol)

	for _, raw := range rows[1:] {
		r := row(raw)
		id := r.cell(0)
		if id == "" {
			continue
		}

		var e PoolEntry
		if fppgCol >= 0 {
			if v := r.cell(fppgCol); v != "" {
				f := r.float(fppgCol, 0)
				e.FPPG = &f
			}
		}
		if opponentCol >= 0 {
			e.Opponent = r.cell(opponentCol)
		}
		index[id] = e
	}
	return index
}
