package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeagueMeta(t *testing.T) {
	meta := ParseLeagueMeta([][]string{
		{"League Name", "Purge Bowl"},
		{"Current Week", "Week 19"},
		{"Last Updated", "2026-01-10 09:00"},
	})

	assert.Equal(t, "Purge Bowl", meta.LeagueName)
	assert.Equal(t, "Week 19", meta.CurrentWeek)
	assert.Equal(t, "2026-01-10 09:00", meta.LastUpdated)
}

func TestParseLeagueMetaDefaults(t *testing.T) {
	meta := ParseLeagueMeta(nil)

	assert.Equal(t, "PlayoffPurge", meta.LeagueName)
	assert.Equal(t, "Week 18", meta.CurrentWeek)
	assert.Equal(t, "Unknown", meta.LastUpdated)
}

func TestParseTeamsSortsBySeed(t *testing.T) {
	teams := ParseTeams([][]string{
		{"3", "Carol", "Third Seed", "3", "active", "101.5", "Week 19"},
		{"1", "Alice", "Top Seed", "1", "active", "120.0", "Week 19"},
		{"2", "Bob", "Second Seed", "2", "eliminated", "88.25", "Week 18"},
	})

	require.Len(t, teams, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{teams[0].Seed, teams[1].Seed, teams[2].Seed})
	assert.Equal(t, "Alice", teams[0].Owner)
	assert.InDelta(t, 88.25, teams[1].TotalPoints, 0.001)
}

func TestParseTeamsSkipsShortRows(t *testing.T) {
	teams := ParseTeams([][]string{
		{"1", "Alice", "Top Seed", "1", "active", "120.0", "Week 19"},
		{"2", "Bob"},
	})

	require.Len(t, teams, 1)
	assert.Equal(t, "Alice", teams[0].Owner)
}

func TestParseRostersGroupsByTeam(t *testing.T) {
	rosters := ParseRosters([][]string{
		{"1", "Week 19", "WR", "Wide Out", "DAL", "12.5", "14.0", "active", "WR/FLEX"},
		{"1", "Week 19", "QB", "Gunslinger", "KC", "22.0", "20.5", "active", "QB"},
		{"2", "Week 19", "RB", "Workhorse", "SF", "18.0", "16.0", "active", "RB/FLEX"},
		{"oops", "Week 19", "TE", "Nobody", "NE", "0", "0", "active", "TE/FLEX"},
	})

	require.Len(t, rosters, 2)
	require.Len(t, rosters[1], 2)

	// QB sorts ahead of WR regardless of sheet order.
	assert.Equal(t, "Gunslinger", rosters[1][0].Name)
	assert.Equal(t, "Wide Out", rosters[1][1].Name)
	assert.Equal(t, "Week 19", rosters[1][0].Week)
	assert.Equal(t, "WR/FLEX", rosters[1][1].Eligibility)
}

func TestParseRostersDefaultsEligibility(t *testing.T) {
	rosters := ParseRosters([][]string{
		{"1", "Week 19", "RB", "Workhorse", "SF", "18.0", "16.0"},
	})

	require.Len(t, rosters[1], 1)
	assert.Equal(t, "RB/FLEX", rosters[1][0].Eligibility)
	assert.Equal(t, "active", rosters[1][0].Status)
}

func TestSortRosterOrder(t *testing.T) {
	rosters := ParseRosters([][]string{
		{"1", "Week 19", "DST", "Steel Curtain", "PIT", "8", "7", "active", "DST"},
		{"1", "Week 19", "K", "Legatron", "BAL", "9", "8", "active", "K"},
		{"1", "Week 19", "FLEX", "Util Guy", "MIA", "10", "11", "active", "WR/FLEX"},
		{"1", "Week 19", "SUPERFLEX", "Backup QB", "NYJ", "15", "14", "active", "QB"},
		{"1", "Week 19", "QB", "Gunslinger", "KC", "22", "21", "active", "QB"},
	})

	var positions []string
	for _, p := range rosters[1] {
		positions = append(positions, p.Position)
	}
	assert.Equal(t, []string{"QB", "SUPERFLEX", "FLEX", "K", "DST"}, positions)
}

func TestParseRequirements(t *testing.T) {
	reqs := ParseRequirements([][]string{
		{"Week 19", "6", "QB,RB,WR,TE,FLEX", "$50"},
		{"Week 20", "4"},
	})

	require.Len(t, reqs, 1)
	assert.Equal(t, "Week 19", reqs[0].Week)
	assert.Equal(t, 6, reqs[0].TeamsLeft)
	assert.Equal(t, []string{"QB", "RB", "WR", "TE", "FLEX"}, reqs[0].RequiredSlots())
}

func TestParseAvailablePlayers(t *testing.T) {
	players := ParseAvailablePlayers([][]string{
		{"p100", "Wide Out", "WR", "DAL", "7", "available", "WR/FLEX"},
		{"p101", "Gunslinger", "QB", "KC", "10", "drafted"},
		{"p102", "Short"},
	})

	require.Len(t, players, 2)
	assert.Equal(t, "p100", players[0].ID)
	assert.True(t, players[0].IsAvailable())
	assert.False(t, players[1].IsAvailable())

	// Missing eligibility cell falls back to the position default.
	assert.Equal(t, "QB", players[1].Eligibility)
}

func TestParseDraftState(t *testing.T) {
	state := ParseDraftState([][]string{
		{"Current Round", "3"},
		{"Current Pick", "14"},
		{"Draft Started", "TRUE"},
		{"Draft Complete", "false"},
		{"Last Pick Time", "2026-01-10 20:05"},
	})

	assert.Equal(t, 3, state.CurrentRound)
	assert.Equal(t, 14, state.CurrentPick)
	assert.True(t, state.DraftStarted)
	assert.False(t, state.DraftComplete)
	assert.Equal(t, "2026-01-10 20:05", state.LastPickTime)
}

func TestParseDraftStateBadNumbersKeepBooleans(t *testing.T) {
	state := ParseDraftState([][]string{
		{"Current Round", "not a number"},
		{"Current Pick", ""},
		{"Draft Started", "yes"},
		{"Draft Complete", "1"},
	})

	assert.Equal(t, 1, state.CurrentRound)
	assert.Equal(t, 1, state.CurrentPick)
	assert.True(t, state.DraftStarted)
	assert.True(t, state.DraftComplete)
}

func TestParseDraftOrder(t *testing.T) {
	picks := ParseDraftOrder([][]string{
		{"1", "1", "1", "Alice", "completed", "p100", "Wide Out"},
		{"1", "2", "2", "Bob", "current"},
		{"1", "3"},
	})

	require.Len(t, picks, 2)
	assert.True(t, picks[0].IsCompleted())
	assert.Equal(t, "p100", picks[0].PlayerID)
	assert.True(t, picks[1].IsCurrent())
	assert.Empty(t, picks[1].PlayerID)
}

func TestPoolIndexResolvesColumnsByHeader(t *testing.T) {
	index := PoolIndex([][]string{
		{"Id", "Nickname", "Opponent", "FPPG", "Salary"},
		{"p100", "Wide Out", "@PHI", "15.2", "7800"},
		{"p101", "Gunslinger", "BUF", "", "9000"},
		{"", "Headerless", "SEA", "3.0", "4000"},
	})

	require.Len(t, index, 2)
	require.NotNil(t, index["p100"].FPPG)
	assert.InDelta(t, 15.2, *index["p100"].FPPG, 0.001)
	assert.Equal(t, "@PHI", index["p100"].Opponent)

	// Empty FPPG cell stays absent rather than becoming zero.
	assert.Nil(t, index["p101"].FPPG)
	assert.Equal(t, "BUF", index["p101"].Opponent)
}

func TestPoolIndexMissingHeaders(t *testing.T) {
	index := PoolIndex([][]string{
		{"Id", "Nickname"},
		{"p100", "Wide Out"},
	})

	require.Len(t, index, 1)
	assert.Nil(t, index["p100"].FPPG)
	assert.Empty(t, index["p100"].Opponent)
}
