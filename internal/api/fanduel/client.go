// Package fanduel fetches optional display enrichment (projections,
// injury notes, expert blurbs, player images) from the FanDuel API.
// Nothing here is load bearing: every caller must render fine without it.
package fanduel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/playoffpurge/playoffpurge/internal/models"
	"github.com/playoffpurge/playoffpurge/internal/repository/cache"
)

const (
	defaultBaseURL      = "https://api.fanduel.com"
	defaultImageBaseURL = "https://d17odppiik753x.cloudfront.net/playerimages/nfl/300x300"

	// The main NFL fixture list; player ids are "<fixture>-<player>".
	defaultFixtureID = "124949"

	contentSources = "NUMBERFIRE,ROTOWIRE,ROTOGRINDERS"

	detailTTL = time.Hour
)

type Client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	cache        *cache.Cache
}

func New(c *cache.Cache) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		cache:        c,
	}
}

func NewForTest(baseURL string, c *cache.Cache) *Client {
	client := New(c)
	client.baseURL = baseURL
	return client
}

// PlayerImageURL builds the CDN image URL for a player. Composite ids
// keep only the numeric part after the hyphen.
func (c *Client) PlayerImageURL(playerID string) string {
	id := playerID
	if _, after, found := strings.Cut(playerID, "-"); found {
		id = after
	}
	if id == "" {
		return fmt.Sprintf("%s/default.png", c.imageBaseURL)
	}
	return fmt.Sprintf("%s/%s.png", c.imageBaseURL, id)
}

// GetPlayerData fetches one player's enrichment detail, cached for an
// hour. Failures return an error and never partial data; callers degrade
// to showing just the image URL.
func (c *Client) GetPlayerData(ctx context.Context, playerID string) (*models.PlayerDetail, error) {
	cacheKey := "player_" + playerID
	if v, ok := c.cache.Get(cacheKey); ok {
		return v.(*models.PlayerDetail), nil
	}

	u := fmt.Sprintf("%s/fixture-lists/%s/players/%s?content_sources=%s",
		c.baseURL, defaultFixtureID, playerID, contentSources)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching player %s: %w", playerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fanduel API returned %d for player %s", resp.StatusCode, playerID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var raw playerResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding player %s: %w", playerID, err)
	}

	detail := raw.toDetail()
	detail.ImageURL = c.PlayerImageURL(playerID)

	c.cache.PutTTL(cacheKey, detail, detailTTL)
	slog.Debug("Fetched player enrichment", "player", playerID)
	return detail, nil
}

type playerResponse struct {
	FPPG           *float64        `json:"fppg"`
	ProjectedScore *float64        `json:"projected_score"`
	Opponent       json.RawMessage `json:"opponent"`
	Injury         json.RawMessage `json:"injury"`
	Salary         int             `json:"salary"`
	Content        []contentItem   `json:"content"`
	RecentGames    []recentGame    `json:"recent_games"`
}

type contentItem struct {
	Source   string `json:"source"`
	Analysis string `json:"analysis"`
	Summary  string `json:"summary"`
}

type recentGame struct {
	FPPG float64 `json:"fppg"`
}

func (r playerResponse) toDetail() *models.PlayerDetail {
	detail := &models.PlayerDetail{
		Opponent: codeOrString(r.Opponent),
		Salary:   r.Salary,
	}

	switch {
	case r.FPPG != nil:
		p := round1(*r.FPPG)
		detail.Projection = &p
	case r.ProjectedScore != nil:
		p := round1(*r.ProjectedScore)
		detail.Projection = &p
	}

	if status, description, ok := parseInjury(r.Injury); ok {
		detail.InjuryStatus = status
		detail.InjuryDetails = description
	}

	for _, item := range r.Content {
		text := item.Analysis
		if text == "" {
			text = item.Summary
		}
		if text == "" {
			continue
		}
		source := item.Source
		if source == "" {
			source = "Expert"
		}
		detail.ExpertAnalysis = append(detail.ExpertAnalysis, models.ExpertNote{
			Source: source,
			Text:   truncate(text, 200),
		})
	}

	if n := min(len(r.RecentGames), 3); n > 0 {
		var total float64
		for _, g := range r.RecentGames[:n] {
			total += g.FPPG
		}
		detail.RecentStats = fmt.Sprintf("Last 3 avg: %.1f pts", total/float64(n))
	}

	return detail
}

// codeOrString reads a field the API serves either as an object with
// code/name or as a bare string.
func codeOrString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Code != "" {
			return obj.Code
		}
		if obj.Name != "" {
			return obj.Name
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func parseInjury(raw json.RawMessage) (status, description string, ok bool) {
	if len(raw) == 0 {
		return "", "", false
	}

	var obj struct {
		Status      string `json:"status"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && (obj.Status != "" || obj.Description != "") {
		return strings.ToUpper(obj.Status), obj.Description, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return strings.ToUpper(s), "", true
	}
	return "", "", false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
