// Package service exposes the league's read and mutation operations on
// top of the spreadsheet gateway, with per-table caching between them.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/itbasis/go-clock"

	"github.com/playoffpurge/playoffpurge/internal/api/sheets"
	"github.com/playoffpurge/playoffpurge/internal/config"
	"github.com/playoffpurge/playoffpurge/internal/models"
	"github.com/playoffpurge/playoffpurge/internal/repository/cache"
)

// Cache keys. Per-week and per-team entries get a suffix.
const (
	keyLeagueMeta   = "league_meta"
	keyTeams        = "teams"
	keyRequirements = "roster_requirements"
	keyDraftState   = "draft_state"
	keyDraftOrder   = "draft_order"
	keyAllDraftData = "all_draft_data"
)

type Service struct {
	sheets *sheets.Client
	cache  *cache.Cache
	clock  clock.Clock
	draft  config.Draft

	// Mutations are serialized so two picks cannot both validate against
	// the same stale read and double-assign a player. Reads do not take
	// this lock.
	mu sync.Mutex
}

func New(client *sheets.Client, c *cache.Cache, draft config.Draft, clk clock.Clock) *Service {
	return &Service{
		sheets: client,
		cache:  c,
		clock:  clk,
		draft:  draft,
	}
}

// RefreshCache drops every cached table so the next reads hit the sheet.
func (s *Service) RefreshCache() {
	s.cache.Clear()
	slog.Info("Cache cleared")
}

func weekKey(week string) string {
	return models.WeekKey(week)
}

func sameWeek(a, b string) bool {
	return weekKey(a) == weekKey(b)
}

// GetLeagueMeta returns the league header fields. On remote failure it
// returns the sentinel defaults rather than an error.
func (s *Service) GetLeagueMeta(ctx context.Context, useCache bool) models.LeagueMeta {
	if useCache {
		if v, ok := s.cache.Get(keyLeagueMeta); ok {
			return v.(models.LeagueMeta)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeLeagueMeta)
	if err != nil {
		slog.Error("Error fetching league meta", "error", err)
		return sheets.ParseLeagueMeta(nil)
	}

	meta := sheets.ParseLeagueMeta(rows)
	s.cache.Put(keyLeagueMeta, meta)
	return meta
}

// GetTeams returns all teams sorted by seed, empty on remote failure.
func (s *Service) GetTeams(ctx context.Context, useCache bool) []models.Team {
	if useCache {
		if v, ok := s.cache.Get(keyTeams); ok {
			return v.([]models.Team)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeTeams)
	if err != nil {
		slog.Error("Error fetching teams", "error", err)
		return nil
	}

	teams := sheets.ParseTeams(rows)
	s.cache.Put(keyTeams, teams)
	slog.Info("Loaded teams", "count", len(teams))
	return teams
}

// GetTeamsWithRosters returns all teams with their current-week rosters
// attached, using one rosters read for the whole league.
func (s *Service) GetTeamsWithRosters(ctx context.Context, useCache bool) []models.Team {
	teams := s.GetTeams(ctx, useCache)
	meta := s.GetLeagueMeta(ctx, useCache)
	rosters := s.GetRostersByWeek(ctx, meta.CurrentWeek, useCache)

	for i := range teams {
		teams[i].Roster = rosters[teams[i].ID]
	}
	return teams
}

// ResolveTeamByOwner finds a team by owner name.
func (s *Service) ResolveTeamByOwner(ctx context.Context, owner string, useCache bool) (models.Team, error) {
	for _, t := range s.GetTeams(ctx, useCache) {
		if strings.EqualFold(t.Owner, owner) {
			return t, nil
		}
	}
	return models.Team{}, ErrTeamNotFound
}

// GetRosterRequirements returns every week's slot requirements.
func (s *Service) GetRosterRequirements(ctx context.Context, useCache bool) []models.RosterRequirement {
	if useCache {
		if v, ok := s.cache.Get(keyRequirements); ok {
			return v.([]models.RosterRequirement)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeRequirements)
	if err != nil {
		slog.Error("Error fetching roster requirements", "error", err)
		return nil
	}

	reqs := sheets.ParseRequirements(rows)
	s.cache.Put(keyRequirements, reqs)
	return reqs
}

// GetRosterRequirementForWeek returns the requirement whose week label
// matches, ignoring case and surrounding whitespace.
func (s *Service) GetRosterRequirementForWeek(ctx context.Context, week string, useCache bool) (models.RosterRequirement, bool) {
	for _, req := range s.GetRosterRequirements(ctx, useCache) {
		if sameWeek(req.Week, week) {
			return req, true
		}
	}
	slog.Warn("No roster requirement found", "week", week)
	return models.RosterRequirement{}, false
}

// GetRostersByWeek returns the rosters of every team for one week, keyed
// by team id.
func (s *Service) GetRostersByWeek(ctx context.Context, week string, useCache bool) map[int][]models.Player {
	cacheKey := "rosters_week_" + weekKey(week)
	if useCache {
		if v, ok := s.cache.Get(cacheKey); ok {
			return v.(map[int][]models.Player)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeRosters)
	if err != nil {
		slog.Error("Error fetching rosters", "week", week, "error", err)
		return map[int][]models.Player{}
	}

	rosters := filterRostersByWeek(sheets.ParseRosters(rows), week)
	s.cache.Put(cacheKey, rosters)
	slog.Info("Loaded rosters", "week", week, "teams", len(rosters))
	return rosters
}

func filterRostersByWeek(all map[int][]models.Player, week string) map[int][]models.Player {
	rosters := make(map[int][]models.Player)
	for teamID, players := range all {
		for _, p := range players {
			if sameWeek(p.Week, week) {
				rosters[teamID] = append(rosters[teamID], p)
			}
		}
	}
	return rosters
}

// GetRoster returns one team's roster for the current week.
func (s *Service) GetRoster(ctx context.Context, teamID int, useCache bool) []models.Player {
	meta := s.GetLeagueMeta(ctx, useCache)
	return s.GetRostersByWeek(ctx, meta.CurrentWeek, useCache)[teamID]
}

// GetAvailablePlayers returns the draft pool, joined with the FanDuel
// enrichment columns when that tab is readable. positionFilter narrows to
// one position; pass "" for everyone.
func (s *Service) GetAvailablePlayers(ctx context.Context, positionFilter string, useCache bool) []models.AvailablePlayer {
	cacheKey := availablePlayersKey(positionFilter)
	if useCache {
		if v, ok := s.cache.Get(cacheKey); ok {
			return v.([]models.AvailablePlayer)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeAvailable)
	if err != nil {
		slog.Error("Error fetching available players", "error", err)
		return nil
	}
	players := sheets.ParseAvailablePlayers(rows)

	// Enrichment is best effort: a broken pool tab only costs the FPPG
	// and opponent columns.
	poolRows, err := s.sheets.Get(ctx, sheets.RangePlayerPool)
	if err != nil {
		slog.Warn("Could not load player pool data", "error", err)
	}
	players = enrichPlayers(players, sheets.PoolIndex(poolRows))

	if positionFilter != "" {
		var filtered []models.AvailablePlayer
		for _, p := range players {
			if strings.EqualFold(p.Position, positionFilter) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	s.cache.Put(cacheKey, players)
	slog.Info("Loaded available players", "count", len(players), "filter", positionFilter)
	return players
}

func availablePlayersKey(positionFilter string) string {
	if positionFilter == "" {
		return "available_players_all"
	}
	return "available_players_" + strings.ToUpper(positionFilter)
}

func enrichPlayers(players []models.AvailablePlayer, pool map[string]sheets.PoolEntry) []models.AvailablePlayer {
	for i, p := range players {
		if entry, ok := pool[p.ID]; ok {
			players[i].FPPG = entry.FPPG
			players[i].Opponent = entry.Opponent
		}
	}
	return players
}

// GetDraftState returns the live turn counters. Callers wanting real-time
// state pass useCache=false; the default TTL is far too coarse for a
// running draft.
func (s *Service) GetDraftState(ctx context.Context, useCache bool) models.DraftState {
	if useCache {
		if v, ok := s.cache.Get(keyDraftState); ok {
			return v.(models.DraftState)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeDraftState)
	if err != nil {
		slog.Error("Error fetching draft state", "error", err)
		return models.DraftState{CurrentRound: 1, CurrentPick: 1}
	}

	state := sheets.ParseDraftState(rows)
	s.cache.Put(keyDraftState, state)
	return state
}

// GetDraftOrder returns every pick of the draft in board order.
func (s *Service) GetDraftOrder(ctx context.Context, useCache bool) []models.DraftPick {
	if useCache {
		if v, ok := s.cache.Get(keyDraftOrder); ok {
			return v.([]models.DraftPick)
		}
	}

	rows, err := s.sheets.Get(ctx, sheets.RangeDraftOrder)
	if err != nil {
		slog.Error("Error fetching draft order", "error", err)
		return nil
	}

	picks := sheets.ParseDraftOrder(rows)
	s.cache.Put(keyDraftOrder, picks)
	return picks
}

// GetCurrentPick returns the pick marked current, or nil when the draft
// is over or not started.
func (s *Service) GetCurrentPick(ctx context.Context, useCache bool) *models.DraftPick {
	for _, pick := range s.GetDraftOrder(ctx, useCache) {
		if pick.IsCurrent() {
			p := pick
			return &p
		}
	}
	slog.Warn("No current pick found in draft order")
	return nil
}

// GetAllDraftData assembles every logical table from one batched remote
// read. With freshTurnState set, a cached snapshot is reused but the
// draft state and current pick are re-fetched as two small reads, which
// keeps a live draft page real-time without paying for eight tables per
// poll.
func (s *Service) GetAllDraftData(ctx context.Context, useCache, freshTurnState bool) models.DraftData {
	if useCache {
		if v, ok := s.cache.Get(keyAllDraftData); ok {
			data := v.(models.DraftData)
			if freshTurnState {
				data.DraftState = s.GetDraftState(ctx, false)
				data.CurrentPick = s.GetCurrentPick(ctx, false)
				slog.Debug("Refreshed draft turn state over cached snapshot")
			}
			return data
		}
	}

	ranges := []string{
		sheets.RangeLeagueMeta,
		sheets.RangeTeams,
		sheets.RangeRequirements,
		sheets.RangeRosters,
		sheets.RangeAvailable,
		sheets.RangePlayerPool,
		sheets.RangeDraftState,
		sheets.RangeDraftOrder,
	}

	batch, err := s.sheets.BatchGet(ctx, ranges)
	if err != nil {
		slog.Error("Error batch fetching draft data", "error", err)
		return models.DraftData{
			LeagueMeta:   sheets.ParseLeagueMeta(nil),
			Requirements: map[string]models.RosterRequirement{},
			Rosters:      map[int][]models.Player{},
			DraftState:   models.DraftState{CurrentRound: 1, CurrentPick: 1},
		}
	}

	data := models.DraftData{
		LeagueMeta:       sheets.ParseLeagueMeta(batch[sheets.RangeLeagueMeta]),
		Teams:            sheets.ParseTeams(batch[sheets.RangeTeams]),
		Requirements:     requirementsByWeek(sheets.ParseRequirements(batch[sheets.RangeRequirements])),
		Rosters:          sheets.ParseRosters(batch[sheets.RangeRosters]),
		AvailablePlayers: enrichPlayers(sheets.ParseAvailablePlayers(batch[sheets.RangeAvailable]), sheets.PoolIndex(batch[sheets.RangePlayerPool])),
		DraftState:       sheets.ParseDraftState(batch[sheets.RangeDraftState]),
		DraftOrder:       sheets.ParseDraftOrder(batch[sheets.RangeDraftOrder]),
	}
	for _, pick := range data.DraftOrder {
		if pick.IsCurrent() {
			p := pick
			data.CurrentPick = &p
			break
		}
	}

	s.cache.Put(keyAllDraftData, data)
	slog.Info("Fetched all draft data in one batch call")
	return data
}

func requirementsByWeek(reqs []models.RosterRequirement) map[string]models.RosterRequirement {
	byWeek := make(map[string]models.RosterRequirement, len(reqs))
	for _, req := range reqs {
		byWeek[weekKey(req.Week)] = req
	}
	return byWeek
}

// invalidateAfterMutation evicts every cache entry a roster change can
// have touched. Entries not listed here age out on their own TTL.
func (s *Service) invalidateAfterMutation(teamID int, position, week string) {
	s.cache.Delete(
		availablePlayersKey(""),
		availablePlayersKey(position),
		keyDraftState,
		keyDraftOrder,
		keyAllDraftData,
		"rosters_week_"+weekKey(week),
	)
	slog.Debug("Invalidated caches after mutation", "team", teamID, "week", week)
}
