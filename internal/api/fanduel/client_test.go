package fanduel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playoffpurge/playoffpurge/internal/repository/cache"
)

func TestPlayerImageURL(t *testing.T) {
	c := New(cache.New(clock.New(), time.Minute))

	tests := []struct {
		playerID string
		expected string
	}{
		{"124949-103020", defaultImageBaseURL + "/103020.png"},
		{"103020", defaultImageBaseURL + "/103020.png"},
		{"124949-", defaultImageBaseURL + "/default.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, c.PlayerImageURL(tt.playerID))
	}
}

const playerFixture = `{
	"fppg": 18.27,
	"opponent": {"code": "PHI", "name": "Philadelphia Eagles"},
	"injury": {"status": "questionable", "description": "Ankle"},
	"salary": 8200,
	"content": [
		{"source": "NUMBERFIRE", "analysis": "Heavy target share expected."},
		{"source": "ROTOWIRE", "summary": "Practiced in full Friday."},
		{"source": "ROTOGRINDERS"}
	],
	"recent_games": [{"fppg": 20.0}, {"fppg": 10.0}, {"fppg": 15.0}, {"fppg": 99.0}]
}`

func TestGetPlayerData(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/fixture-lists/124949/players/124949-103020", r.URL.Path)
		assert.Equal(t, contentSources, r.URL.Query().Get("content_sources"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(playerFixture))
	}))
	defer srv.Close()

	c := NewForTest(srv.URL, cache.New(clock.New(), time.Minute))

	detail, err := c.GetPlayerData(context.Background(), "124949-103020")
	require.NoError(t, err)

	require.NotNil(t, detail.Projection)
	assert.InDelta(t, 18.3, *detail.Projection, 0.001)
	assert.Equal(t, "PHI", detail.Opponent)
	assert.Equal(t, "QUESTIONABLE", detail.InjuryStatus)
	assert.Equal(t, "Ankle", detail.InjuryDetails)
	assert.Equal(t, 8200, detail.Salary)
	assert.Equal(t, defaultImageBaseURL+"/103020.png", detail.ImageURL)

	require.Len(t, detail.ExpertAnalysis, 2, "items with no text are dropped")
	assert.Equal(t, "NUMBERFIRE", detail.ExpertAnalysis[0].Source)
	assert.Equal(t, "Practiced in full Friday.", detail.ExpertAnalysis[1].Text)

	assert.Equal(t, "Last 3 avg: 15.0 pts", detail.RecentStats)

	// Second read is served from cache.
	_, err = c.GetPlayerData(context.Background(), "124949-103020")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestGetPlayerDataStringFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"projected_score": 9.94, "opponent": "BUF", "injury": "out"}`))
	}))
	defer srv.Close()

	c := NewForTest(srv.URL, cache.New(clock.New(), time.Minute))

	detail, err := c.GetPlayerData(context.Background(), "55")
	require.NoError(t, err)

	require.NotNil(t, detail.Projection)
	assert.InDelta(t, 9.9, *detail.Projection, 0.001)
	assert.Equal(t, "BUF", detail.Opponent)
	assert.Equal(t, "OUT", detail.InjuryStatus)
	assert.Empty(t, detail.RecentStats)
}

func TestGetPlayerDataUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewForTest(srv.URL, cache.New(clock.New(), time.Minute))

	_, err := c.GetPlayerData(context.Background(), "55")
	assert.Error(t, err)
}
