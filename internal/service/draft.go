package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/playoffpurge/playoffpurge/internal/api/sheets"
	"github.com/playoffpurge/playoffpurge/internal/models"
)

// PickResult describes a completed draft pick, for announcements.
type PickResult struct {
	Player models.AvailablePlayer
	Round  int
	Pick   int
}

// MakeDraftPick executes one pick as a read-validate-write sequence:
// verify the turn, verify the player, verify the resulting roster, then
// mark the player drafted, append the roster row, advance the draft order
// and rewrite the turn counters. The writes are not atomic against the
// sheet; a failure partway leaves partial state, which is why everything
// that can fail without writing is checked first.
func (s *Service) MakeDraftPick(ctx context.Context, playerID string, teamID int, owner, week string) (PickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.GetDraftState(ctx, false)
	order := s.GetDraftOrder(ctx, false)

	currentIdx := -1
	for i, pick := range order {
		if pick.IsCurrent() {
			currentIdx = i
			break
		}
	}
	if currentIdx == -1 {
		return PickResult{}, ErrNoCurrentPick
	}

	current := order[currentIdx]
	if current.TeamID != teamID || !strings.EqualFold(current.Owner, owner) {
		slog.Warn("Pick rejected, wrong turn", "requested", owner, "current", current.Owner)
		return PickResult{}, fmt.Errorf("%w: it is %s's pick", ErrNotYourTurn, current.Owner)
	}

	player, err := s.availablePlayer(ctx, playerID)
	if err != nil {
		return PickResult{}, err
	}

	if err := s.validateAddition(ctx, teamID, week, player); err != nil {
		return PickResult{}, err
	}

	// Writes start here.
	if err := s.markPlayerDrafted(ctx, playerID); err != nil {
		return PickResult{}, err
	}
	if err := s.appendRosterRow(ctx, teamID, week, player); err != nil {
		return PickResult{}, err
	}
	if err := s.advanceDraftOrder(ctx, currentIdx, order, playerID, player.Name); err != nil {
		return PickResult{}, err
	}
	if err := s.writeDraftState(ctx, state, order); err != nil {
		return PickResult{}, err
	}

	s.invalidateAfterMutation(teamID, player.Position, week)
	slog.Info("Draft pick made", "player", player.Name, "owner", owner, "round", current.Round, "pick", current.Pick)
	return PickResult{Player: player, Round: current.Round, Pick: current.Pick}, nil
}

// availablePlayer resolves a pool player by id, fresh from the sheet.
func (s *Service) availablePlayer(ctx context.Context, playerID string) (models.AvailablePlayer, error) {
	for _, p := range s.GetAvailablePlayers(ctx, "", false) {
		if p.ID == playerID {
			if !p.IsAvailable() {
				return models.AvailablePlayer{}, fmt.Errorf("%w: %s", ErrPlayerNotAvailable, p.Name)
			}
			return p, nil
		}
	}
	return models.AvailablePlayer{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
}

// validateAddition simulates the roster after adding the player and runs
// the eligibility engine against the week's requirements. A week with no
// requirement row passes, matching how pre-playoff weeks behave.
func (s *Service) validateAddition(ctx context.Context, teamID int, week string, player models.AvailablePlayer) error {
	req, ok := s.GetRosterRequirementForWeek(ctx, week, false)
	if !ok {
		return nil
	}

	roster := s.GetRostersByWeek(ctx, week, false)[teamID]
	simulated := append(append([]models.Player(nil), roster...), player.RosterPlayer())

	if valid, reason := ValidateRoster(simulated, req.RequiredSlots()); !valid {
		return &ValidationError{Reason: reason}
	}
	return nil
}

// markPlayerDrafted flips the player's status cell in Available_Players.
// The row is located by scanning the id column; +2 converts the zero-based
// data offset to a sheet row below the header.
func (s *Service) markPlayerDrafted(ctx context.Context, playerID string) error {
	row, err := s.findAvailableRowByID(ctx, playerID)
	if err != nil {
		return err
	}
	return s.sheets.Update(ctx, fmt.Sprintf("Available_Players!F%d", row), [][]string{{"drafted"}})
}

func (s *Service) findAvailableRowByID(ctx context.Context, playerID string) (int, error) {
	rows, err := s.sheets.Get(ctx, sheets.RangeAvailableIDs)
	if err != nil {
		return 0, err
	}
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == playerID {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("%w: no pool row for id %s", ErrPlayerNotFound, playerID)
}

func (s *Service) appendRosterRow(ctx context.Context, teamID int, week string, player models.AvailablePlayer) error {
	row := []string{
		strconv.Itoa(teamID),
		week,
		player.Position,
		player.Name,
		player.NFLTeam,
		"0",
		"0",
		"active",
		player.Eligibility,
	}
	return s.sheets.Append(ctx, sheets.RangeRosterAppend, [][]string{row})
}

// advanceDraftOrder completes the current pick and promotes the next one.
func (s *Service) advanceDraftOrder(ctx context.Context, currentIdx int, order []models.DraftPick, playerID, playerName string) error {
	pickRow := currentIdx + 2
	err := s.sheets.Update(ctx,
		fmt.Sprintf("Draft_Order!E%d:G%d", pickRow, pickRow),
		[][]string{{"completed", playerID, playerName}})
	if err != nil {
		return err
	}

	if currentIdx+1 < len(order) {
		nextRow := pickRow + 1
		return s.sheets.Update(ctx, fmt.Sprintf("Draft_Order!E%d", nextRow), [][]string{{"current"}})
	}
	return nil
}

// writeDraftState advances the turn counters, rolling the pick over into
// a new round once every participating team has picked, and flags the
// draft complete past the final round.
func (s *Service) writeDraftState(ctx context.Context, state models.DraftState, order []models.DraftPick) error {
	nextRound, nextPick := advanceTurn(state, picksPerRound(order))
	complete := nextRound > s.totalRounds(order)

	return s.sheets.Update(ctx, sheets.RangeDraftStateWrite, [][]string{
		{strconv.Itoa(nextRound)},
		{strconv.Itoa(nextPick)},
		{"true"},
		{strconv.FormatBool(complete)},
		{s.clock.Now().Format(time.RFC3339)},
	})
}

func advanceTurn(state models.DraftState, picksPerRound int) (round, pick int) {
	round, pick = state.CurrentRound, state.CurrentPick+1
	if picksPerRound > 0 && pick > picksPerRound {
		round++
		pick = 1
	}
	return round, pick
}

// picksPerRound is the number of distinct teams picking in round 1.
func picksPerRound(order []models.DraftPick) int {
	teams := make(map[int]struct{})
	for _, p := range order {
		if p.Round == 1 {
			teams[p.TeamID] = struct{}{}
		}
	}
	return len(teams)
}

// totalRounds is normally configured, but the sheet's draft order is the
// source of truth when derivation is enabled.
func (s *Service) totalRounds(order []models.DraftPick) int {
	if !s.draft.DeriveTotalRounds {
		return s.draft.TotalRounds
	}
	max := 0
	for _, p := range order {
		if p.Round > max {
			max = p.Round
		}
	}
	if max == 0 {
		return s.draft.TotalRounds
	}
	return max
}

// BoardPick is one cell of the snake draft board.
type BoardPick struct {
	PickNumber  int
	Round       int
	TeamID      int
	Owner       string
	TeamName    string
	IsCurrent   bool
	IsCompleted bool
	PlayerName  string
	Position    string
	NFLTeam     string
}

// BoardRound is one row of the board.
type BoardRound struct {
	Round int
	Picks []BoardPick
}

// GetDraftBoard builds the full snake board for the active teams: odd
// rounds run in seed order, even rounds reversed. Completed picks carry
// the drafted player, with position and NFL team joined from the week's
// rosters when they can be found there.
func (s *Service) GetDraftBoard(ctx context.Context) []BoardRound {
	meta := s.GetLeagueMeta(ctx, false)
	order := s.GetDraftOrder(ctx, false)
	rosters := s.GetRostersByWeek(ctx, meta.CurrentWeek, false)

	var teams []models.Team
	for _, t := range s.GetTeams(ctx, true) {
		if t.IsActive() {
			teams = append(teams, t)
		}
	}

	totalRounds := s.totalRounds(order)
	rounds := make([]BoardRound, 0, totalRounds)

	for round := 1; round <= totalRounds; round++ {
		turnOrder := teams
		if round%2 == 0 {
			turnOrder = reversed(teams)
		}

		picks := make([]BoardPick, 0, len(turnOrder))
		for i, team := range turnOrder {
			bp := BoardPick{
				PickNumber: (round-1)*len(teams) + i + 1,
				Round:      round,
				TeamID:     team.ID,
				Owner:      team.Owner,
				TeamName:   team.Name,
			}

			if dp := findPick(order, round, team.ID); dp != nil {
				bp.IsCurrent = dp.IsCurrent()
				bp.IsCompleted = dp.IsCompleted()
				if dp.IsCompleted() {
					bp.PlayerName = dp.Player
					bp.Position, bp.NFLTeam = lookupRosterPlayer(rosters[team.ID], dp.Player)
				}
			}
			picks = append(picks, bp)
		}
		rounds = append(rounds, BoardRound{Round: round, Picks: picks})
	}
	return rounds
}

func reversed(teams []models.Team) []models.Team {
	out := make([]models.Team, len(teams))
	for i, t := range teams {
		out[len(teams)-1-i] = t
	}
	return out
}

func findPick(order []models.DraftPick, round, teamID int) *models.DraftPick {
	for i := range order {
		if order[i].Round == round && order[i].TeamID == teamID {
			return &order[i]
		}
	}
	return nil
}

func lookupRosterPlayer(roster []models.Player, name string) (position, nflTeam string) {
	for _, p := range roster {
		if p.Name == name {
			return p.Position, p.NFLTeam
		}
	}
	return "", ""
}
