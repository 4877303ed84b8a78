package service

import (
	"context"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playoffpurge/playoffpurge/internal/api/sheets"
	"github.com/playoffpurge/playoffpurge/internal/config"
	"github.com/playoffpurge/playoffpurge/internal/repository/cache"
	"github.com/playoffpurge/playoffpurge/internal/testutils"
)

func newTestService(t *testing.T) (*Service, *testutils.FakeSheetsServer) {
	t.Helper()

	fake := testutils.NewFakeSheetsServer()
	t.Cleanup(fake.Close)
	seedLeague(fake)

	mock := clock.NewMock()
	client := sheets.NewForTest(fake.URL(), "sheet1", mock, 0)
	svc := New(client, cache.New(mock, 10*time.Minute), config.Draft{TotalRounds: 6}, mock)
	return svc, fake
}

// seedLeague installs a two-team league mid-draft: Alice on the clock with
// a quarterback already rostered, Bob picking second.
func seedLeague(fake *testutils.FakeSheetsServer) {
	fake.SetRange(sheets.RangeLeagueMeta, [][]string{
		{"League Name", "Purge Bowl"},
		{"Current Week", "Week 19"},
		{"Last Updated", "2026-01-10 09:00"},
	})
	fake.SetRange(sheets.RangeTeams, [][]string{
		{"1", "Alice", "Top Seed", "1", "active", "120.0", "Week 19"},
		{"2", "Bob", "Second Seed", "2", "active", "95.0", "Week 19"},
	})
	fake.SetRange(sheets.RangeRequirements, [][]string{
		{"Week 19", "2", "QB, RB, WR, FLEX", "$50"},
	})
	fake.SetRange(sheets.RangeRosters, [][]string{
		{"1", "Week 19", "QB", "Gunslinger", "KC", "0", "20.5", "active", "QB"},
	})
	fake.SetRange(sheets.RangeAvailable, [][]string{
		{"p100", "Wide Out", "WR", "DAL", "7", "available", "WR/FLEX"},
		{"p101", "Workhorse", "RB", "SF", "9", "available", "RB/FLEX"},
		{"p102", "Taken Guy", "TE", "NE", "14", "drafted", "TE/FLEX"},
		{"p103", "Gunslinger", "QB", "KC", "10", "drafted", "QB"},
	})
	fake.SetRange(sheets.RangePlayerPool, [][]string{
		{"Id", "Nickname", "Opponent", "FPPG"},
		{"p100", "Wide Out", "@PHI", "15.2"},
	})
	fake.SetRange(sheets.RangeDraftState, [][]string{
		{"Current Round", "1"},
		{"Current Pick", "1"},
		{"Draft Started", "true"},
		{"Draft Complete", "false"},
	})
	fake.SetRange(sheets.RangeDraftOrder, [][]string{
		{"1", "1", "1", "Alice", "current"},
		{"1", "2", "2", "Bob", "upcoming"},
		{"2", "1", "2", "Bob", "upcoming"},
		{"2", "2", "1", "Alice", "upcoming"},
	})

	// Narrow projections of the same tabs, used by mutations.
	fake.SetRange(sheets.RangeAvailableIDs, [][]string{
		{"p100"}, {"p101"}, {"p102"}, {"p103"},
	})
	fake.SetRange(sheets.RangeRostersForDrop, [][]string{
		{"1", "Week 19", "QB", "Gunslinger", "KC", "0", "20.5", "active"},
	})
	fake.SetRange(sheets.RangeAvailableByName, [][]string{
		{"p100", "Wide Out", "WR", "DAL", "7", "available"},
		{"p101", "Workhorse", "RB", "SF", "9", "available"},
		{"p102", "Taken Guy", "TE", "NE", "14", "drafted"},
		{"p103", "Gunslinger", "QB", "KC", "10", "drafted"},
	})
}

func TestGetTeamsUsesCache(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	first := svc.GetTeams(ctx, true)
	second := svc.GetTeams(ctx, true)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.GetCalls(sheets.RangeTeams), "second read must come from cache")
}

func TestGetTeamsBypassRefetches(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	svc.GetTeams(ctx, true)
	svc.GetTeams(ctx, false)

	assert.Equal(t, 2, fake.GetCalls(sheets.RangeTeams))
}

func TestGetTeamsWithRosters(t *testing.T) {
	svc, _ := newTestService(t)

	teams := svc.GetTeamsWithRosters(context.Background(), true)

	require.Len(t, teams, 2)
	require.Len(t, teams[0].Roster, 1)
	assert.Equal(t, "Gunslinger", teams[0].Roster[0].Name)
	assert.Empty(t, teams[1].Roster)
}

func TestResolveTeamByOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	team, err := svc.ResolveTeamByOwner(ctx, "bob", true)
	require.NoError(t, err)
	assert.Equal(t, 2, team.ID)

	_, err = svc.ResolveTeamByOwner(ctx, "Mallory", true)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestGetRosterRequirementForWeek(t *testing.T) {
	svc, _ := newTestService(t)

	req, ok := svc.GetRosterRequirementForWeek(context.Background(), "  week 19 ", true)
	require.True(t, ok)
	assert.Equal(t, []string{"QB", "RB", "WR", "FLEX"}, req.RequiredSlots())

	_, ok = svc.GetRosterRequirementForWeek(context.Background(), "Week 20", true)
	assert.False(t, ok)
}

func TestGetAvailablePlayersEnrichment(t *testing.T) {
	svc, _ := newTestService(t)

	players := svc.GetAvailablePlayers(context.Background(), "", true)
	require.Len(t, players, 4)

	require.NotNil(t, players[0].FPPG)
	assert.InDelta(t, 15.2, *players[0].FPPG, 0.001)
	assert.Equal(t, "@PHI", players[0].Opponent)

	// Players missing from the pool tab simply have no enrichment.
	assert.Nil(t, players[1].FPPG)
}

func TestGetAvailablePlayersPositionFilter(t *testing.T) {
	svc, _ := newTestService(t)

	players := svc.GetAvailablePlayers(context.Background(), "rb", true)
	require.Len(t, players, 1)
	assert.Equal(t, "Workhorse", players[0].Name)
}

func TestGetAvailablePlayersPoolFailureTolerated(t *testing.T) {
	svc, fake := newTestService(t)

	fake.FailRange(sheets.RangePlayerPool, 400)
	players := svc.GetAvailablePlayers(context.Background(), "", true)

	require.Len(t, players, 4, "a broken pool tab must not lose the players")
	assert.Nil(t, players[0].FPPG)
	assert.Empty(t, players[0].Opponent)
}

func TestGetCurrentPick(t *testing.T) {
	svc, _ := newTestService(t)

	pick := svc.GetCurrentPick(context.Background(), false)
	require.NotNil(t, pick)
	assert.Equal(t, "Alice", pick.Owner)
	assert.Equal(t, 1, pick.Round)
}

func TestGetAllDraftDataTwoTier(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	data := svc.GetAllDraftData(ctx, true, false)
	require.NotNil(t, data.CurrentPick)
	assert.Equal(t, 1, fake.BatchGetCalls())

	for i := 0; i < 3; i++ {
		data = svc.GetAllDraftData(ctx, true, true)
	}

	assert.Equal(t, 1, fake.BatchGetCalls(), "snapshot must be reused while fresh")
	assert.Equal(t, 3, fake.GetCalls(sheets.RangeDraftState))
	assert.Equal(t, 3, fake.GetCalls(sheets.RangeDraftOrder))
	assert.Equal(t, "Alice", data.CurrentPick.Owner)
	assert.Len(t, data.Teams, 2)
}

func TestGetAllDraftDataSnapshotContents(t *testing.T) {
	svc, _ := newTestService(t)

	data := svc.GetAllDraftData(context.Background(), false, false)

	assert.Equal(t, "Purge Bowl", data.LeagueMeta.LeagueName)
	assert.Len(t, data.AvailablePlayers, 4)
	assert.Len(t, data.DraftOrder, 4)
	require.Contains(t, data.Requirements, "week_19")
	assert.Equal(t, 2, data.Requirements["week_19"].TeamsLeft)
	require.NotNil(t, data.AvailablePlayers[0].FPPG)
	assert.True(t, data.DraftState.DraftStarted)
}

func TestRefreshCacheForcesRefetch(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	svc.GetTeams(ctx, true)
	svc.RefreshCache()
	svc.GetTeams(ctx, true)

	assert.Equal(t, 2, fake.GetCalls(sheets.RangeTeams))
}
