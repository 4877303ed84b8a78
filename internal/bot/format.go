package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/playoffpurge/playoffpurge/internal/models"
	"github.com/playoffpurge/playoffpurge/internal/service"
)

const availableLimit = 15

// FormatStandings ranks teams by projected points for the week, the same
// ordering the league dashboard shows. The scheduler reuses it for the
// weekly push.
func FormatStandings(teams []models.Team) string {
	ranked := append([]models.Team(nil), teams...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalProjectedPoints() > ranked[j].TotalProjectedPoints()
	})

	var sb strings.Builder
	sb.WriteString("🏆 *Current Standings*\n\n")
	for i, team := range ranked {
		sb.WriteString(fmt.Sprintf("%d. %s *%s* (%s)\n", i+1, team.StatusEmoji(), team.Name, team.Owner))
		sb.WriteString(fmt.Sprintf("   Projected: %.2f | Total: %.2f\n\n", team.TotalProjectedPoints(), team.TotalPoints))
	}
	return sb.String()
}

func formatTeams(teams []models.Team) string {
	var sb strings.Builder
	sb.WriteString("📋 *Teams*\n\n")
	for _, team := range teams {
		sb.WriteString(fmt.Sprintf("%s *%s* (%s) - Seed %d, %.2f pts\n",
			team.StatusEmoji(), team.Name, team.Owner, team.Seed, team.TotalPoints))
	}
	return sb.String()
}

func formatRoster(team models.Team, roster []models.Player) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s's Roster*\n\n", team.Owner))

	if len(roster) == 0 {
		sb.WriteString("No players rostered this week yet.")
		return sb.String()
	}

	for _, p := range roster {
		sb.WriteString(fmt.Sprintf("▫️ %s %s (%s) - %.2f pts", p.Position, p.Name, p.NFLTeam, p.Points))
		if p.ProjectedPoints > 0 {
			sb.WriteString(fmt.Sprintf(" (proj %.2f)", p.ProjectedPoints))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatAvailable lists the best free agents, FPPG first so unenriched
// players sink to the bottom.
func formatAvailable(players []models.AvailablePlayer, position string) string {
	var pool []models.AvailablePlayer
	for _, p := range players {
		if p.IsAvailable() {
			pool = append(pool, p)
		}
	}

	if len(pool) == 0 {
		if position != "" {
			return fmt.Sprintf("No available players at %s.", strings.ToUpper(position))
		}
		return "No available players."
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return fppgOf(pool[i]) > fppgOf(pool[j])
	})
	if len(pool) > availableLimit {
		pool = pool[:availableLimit]
	}

	var sb strings.Builder
	if position != "" {
		sb.WriteString(fmt.Sprintf("🏈 *Available %s*\n\n", strings.ToUpper(position)))
	} else {
		sb.WriteString("🏈 *Available Players*\n\n")
	}

	for _, p := range pool {
		sb.WriteString(fmt.Sprintf("▫️ %s %s (%s)", p.Position, p.Name, p.NFLTeam))
		if p.FPPG != nil {
			sb.WriteString(fmt.Sprintf(" - %.1f FPPG", *p.FPPG))
		}
		if p.Opponent != "" {
			sb.WriteString(fmt.Sprintf(" vs %s", p.Opponent))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func fppgOf(p models.AvailablePlayer) float64 {
	if p.FPPG == nil {
		return -1
	}
	return *p.FPPG
}

func formatDraftStatus(data models.DraftData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *%s Draft*\n\n", data.LeagueMeta.LeagueName))

	switch {
	case data.DraftState.DraftComplete:
		sb.WriteString("The draft is complete. 🎉\n")
	case !data.DraftState.DraftStarted:
		sb.WriteString("The draft has not started yet.\n")
	default:
		sb.WriteString(fmt.Sprintf("Round %d, Pick %d\n", data.DraftState.CurrentRound, data.DraftState.CurrentPick))
		if data.CurrentPick != nil {
			sb.WriteString(fmt.Sprintf("On the clock: *%s*\n", data.CurrentPick.Owner))
		}
	}

	if req, ok := data.Requirements[models.WeekKey(data.LeagueMeta.CurrentWeek)]; ok {
		sb.WriteString(fmt.Sprintf("\n%s lineup: %s\n", req.Week, req.PositionsRequired))
		sb.WriteString(fmt.Sprintf("Payout: %s\n", req.Payout))
	}
	return sb.String()
}

func formatWhoHas(result service.WhoHasResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", result.PlayerName, result.Position, result.NFLTeam))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	if result.FreeAgent {
		sb.WriteString("Free Agent\n")
	} else {
		sb.WriteString(fmt.Sprintf("*%s* (%s)\n", result.Team.Name, result.Team.Owner))
	}
	return sb.String()
}

func formatPlayerBasic(p models.AvailablePlayer) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", p.Name, p.Position, p.NFLTeam))
	if p.FPPG != nil {
		sb.WriteString(fmt.Sprintf("FPPG: %.1f\n", *p.FPPG))
	}
	if p.Opponent != "" {
		sb.WriteString(fmt.Sprintf("Opponent: %s\n", p.Opponent))
	}
	return sb.String()
}

func formatPlayerDetail(p models.AvailablePlayer, detail *models.PlayerDetail) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", p.Name, p.Position, p.NFLTeam))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	if detail.Projection != nil {
		sb.WriteString(fmt.Sprintf("Projected: %.1f pts\n", *detail.Projection))
	}
	if detail.Opponent != "" {
		sb.WriteString(fmt.Sprintf("Opponent: %s\n", detail.Opponent))
	}
	if detail.Salary > 0 {
		sb.WriteString(fmt.Sprintf("Salary: $%d\n", detail.Salary))
	}
	if detail.InjuryStatus != "" {
		sb.WriteString(fmt.Sprintf("🚑 %s", detail.InjuryStatus))
		if detail.InjuryDetails != "" {
			sb.WriteString(" - " + detail.InjuryDetails)
		}
		sb.WriteString("\n")
	}
	if detail.RecentStats != "" {
		sb.WriteString(detail.RecentStats + "\n")
	}
	for _, note := range detail.ExpertAnalysis {
		sb.WriteString(fmt.Sprintf("\n_%s_: %s\n", note.Source, note.Text))
	}
	return sb.String()
}

// FormatPickAnnouncement is the message pushed to the league chat after
// a completed pick.
func FormatPickAnnouncement(owner, playerName, position, nflTeam string, round, pick int) string {
	return fmt.Sprintf("✅ *%s* drafted %s %s (%s) with pick %d.%d", owner, position, playerName, nflTeam, round, pick)
}
