package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/playoffpurge/playoffpurge/internal/api/sheets"
	"github.com/playoffpurge/playoffpurge/internal/models"
)

// AddPlayer signs a free agent onto a team's roster for the given week:
// the same validate-append-mark sequence as a draft pick, minus the turn
// machinery.
func (s *Service) AddPlayer(ctx context.Context, teamID int, playerID, week string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.availablePlayer(ctx, playerID)
	if err != nil {
		return err
	}

	if err := s.validateAddition(ctx, teamID, week, player); err != nil {
		return err
	}

	if err := s.appendRosterRow(ctx, teamID, week, player); err != nil {
		return err
	}
	if err := s.markPlayerDrafted(ctx, playerID); err != nil {
		return err
	}

	s.invalidateAfterMutation(teamID, player.Position, week)
	slog.Info("Player added", "player", player.Name, "team", teamID, "week", week)
	return nil
}

// DropPlayer removes a player from a team's week roster by deleting the
// sheet row, then flips them back to available in the pool. The roster is
// a per-week projection, so only that week's row goes away.
func (s *Service) DropPlayer(ctx context.Context, teamID int, playerName, week string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, position, err := s.findRosterRow(ctx, teamID, playerName, week)
	if err != nil {
		return err
	}

	gid, err := s.sheets.SheetID(ctx, sheets.TabRosters)
	if err != nil {
		return err
	}

	// Sheet indexes are zero based and count the header, so data row N
	// occupies the interval [N-1, N).
	if err := s.sheets.DeleteRows(ctx, gid, int64(row-1), int64(row)); err != nil {
		return err
	}

	if err := s.markPlayerAvailable(ctx, playerName); err != nil {
		// The roster row is already gone; a player stuck as "drafted" in
		// the pool is worth surfacing but not worth failing the drop.
		slog.Warn("Dropped player not flipped back to available", "player", playerName, "error", err)
	}

	s.invalidateAfterMutation(teamID, position, week)
	slog.Info("Player dropped", "player", playerName, "team", teamID, "week", week)
	return nil
}

// findRosterRow locates the sheet row of one player's week entry.
func (s *Service) findRosterRow(ctx context.Context, teamID int, playerName, week string) (row int, position string, err error) {
	rows, err := s.sheets.Get(ctx, sheets.RangeRostersForDrop)
	if err != nil {
		return 0, "", err
	}

	for i, raw := range rows {
		if len(raw) < 4 {
			continue
		}
		if strings.TrimSpace(raw[0]) != fmt.Sprint(teamID) {
			continue
		}
		if !sameWeek(raw[1], week) || strings.TrimSpace(raw[3]) != playerName {
			continue
		}
		return i + 2, strings.TrimSpace(raw[2]), nil
	}
	return 0, "", fmt.Errorf("%w: %s on team %d in %s", ErrPlayerNotFound, playerName, teamID, week)
}

// markPlayerAvailable finds a pool row by player name and resets its
// status. Names are the only join key the roster rows carry.
func (s *Service) markPlayerAvailable(ctx context.Context, playerName string) error {
	rows, err := s.sheets.Get(ctx, sheets.RangeAvailableByName)
	if err != nil {
		return err
	}

	for i, raw := range rows {
		if len(raw) >= 2 && strings.TrimSpace(raw[1]) == playerName {
			return s.sheets.Update(ctx, fmt.Sprintf("Available_Players!F%d", i+2), [][]string{{"available"}})
		}
	}
	return fmt.Errorf("%w: no pool row named %s", ErrPlayerNotFound, playerName)
}

// WhoHasResult identifies which team rosters a player, if any.
type WhoHasResult struct {
	Found      bool
	PlayerName string
	Position   string
	NFLTeam    string
	Team       models.Team
	FreeAgent  bool
}

// WhoHas fuzzy-matches a player name against every current-week roster,
// then against the free-agent pool.
func (s *Service) WhoHas(ctx context.Context, playerName string) WhoHasResult {
	meta := s.GetLeagueMeta(ctx, true)
	rosters := s.GetRostersByWeek(ctx, meta.CurrentWeek, true)
	teams := s.GetTeams(ctx, true)

	bestScore := -1.0
	var best WhoHasResult

	for _, team := range teams {
		for _, p := range rosters[team.ID] {
			if score := nameSimilarity(playerName, p.Name); score > bestScore {
				bestScore = score
				best = WhoHasResult{
					Found:      true,
					PlayerName: p.Name,
					Position:   p.Position,
					NFLTeam:    p.NFLTeam,
					Team:       team,
				}
			}
		}
	}

	for _, p := range s.GetAvailablePlayers(ctx, "", true) {
		if !p.IsAvailable() {
			continue
		}
		if score := nameSimilarity(playerName, p.Name); score > bestScore {
			bestScore = score
			best = WhoHasResult{
				Found:      true,
				PlayerName: p.Name,
				Position:   p.Position,
				NFLTeam:    p.NFLTeam,
				FreeAgent:  true,
			}
		}
	}

	const threshold = 0.7
	if bestScore <= threshold {
		return WhoHasResult{}
	}
	return best
}

func nameSimilarity(query, name string) float64 {
	query = strings.ToLower(query)
	name = strings.ToLower(name)

	distance := fuzzy.LevenshteinDistance(query, name)
	maxLen := float64(max(len(query), len(name)))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(distance)/maxLen
}
