package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playoffpurge/playoffpurge/internal/api/fanduel"
	"github.com/playoffpurge/playoffpurge/internal/models"
	"github.com/playoffpurge/playoffpurge/internal/service"
)

type Handler struct {
	svc    *service.Service
	enrich *fanduel.Client
}

func NewHandler(svc *service.Service, enrich *fanduel.Client) *Handler {
	return &Handler{svc: svc, enrich: enrich}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to the PlayoffPurge bot! Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n/standings - Current standings by projected points\n/teams - All teams and their status\n/roster <owner> - View an owner's roster this week\n/available [position] - Top available players\n/draft - Draft status and whose pick it is\n/pick <player id> - Make your draft pick\n/add <player id> - Add a free agent to your roster\n/drop <player name> - Drop a player from your roster\n/whohas <player> - Find which team has a player\n/player <name> - Projections and injury news for a player\n/refresh - Force fresh data from the sheet"
	case "standings":
		h.handleStandings(ctx, &msg)
	case "teams":
		h.handleTeams(ctx, &msg)
	case "roster":
		h.handleRoster(ctx, &msg, args)
	case "available":
		h.handleAvailable(ctx, &msg, args)
	case "draft":
		h.handleDraft(ctx, &msg)
	case "pick":
		h.handlePick(ctx, &msg, update, args)
	case "add":
		h.handleAdd(ctx, &msg, update, args)
	case "drop":
		h.handleDrop(ctx, &msg, update, args)
	case "whohas":
		h.handleWhoHas(ctx, &msg, args)
	case "player":
		h.handlePlayer(ctx, &msg, args)
	case "refresh":
		h.svc.RefreshCache()
		msg.Text = "Cache cleared. The next request will fetch fresh data."
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleStandings(ctx context.Context, msg *tgbotapi.MessageConfig) {
	teams := h.svc.GetTeamsWithRosters(ctx, true)
	if len(teams) == 0 {
		msg.Text = "No teams found. The sheet may be unreachable."
		return
	}
	msg.Text = FormatStandings(teams)
}

func (h *Handler) handleTeams(ctx context.Context, msg *tgbotapi.MessageConfig) {
	teams := h.svc.GetTeams(ctx, true)
	if len(teams) == 0 {
		msg.Text = "No teams found. The sheet may be unreachable."
		return
	}
	msg.Text = formatTeams(teams)
}

func (h *Handler) handleRoster(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide an owner name. Usage: /roster <owner>"
		return
	}

	team, err := h.svc.ResolveTeamByOwner(ctx, args, true)
	if err != nil {
		msg.Text = "No team found for owner '" + args + "'."
		return
	}

	roster := h.svc.GetRoster(ctx, team.ID, true)
	msg.Text = formatRoster(team, roster)
}

func (h *Handler) handleAvailable(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	position := strings.TrimSpace(args)
	players := h.svc.GetAvailablePlayers(ctx, position, true)
	msg.Text = formatAvailable(players, position)
}

func (h *Handler) handleDraft(ctx context.Context, msg *tgbotapi.MessageConfig) {
	data := h.svc.GetAllDraftData(ctx, true, true)
	msg.Text = formatDraftStatus(data)
}

// handlePlayer resolves a pool player by name and shows the FanDuel
// enrichment detail. A dead enrichment API degrades to the basic pool
// row rather than an error.
func (h *Handler) handlePlayer(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	name := strings.TrimSpace(args)
	if name == "" {
		msg.Text = "Please provide a player name. Usage: /player <name>"
		return
	}

	var found *models.AvailablePlayer
	for _, p := range h.svc.GetAvailablePlayers(ctx, "", true) {
		if strings.EqualFold(p.Name, name) || strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			player := p
			found = &player
			break
		}
	}
	if found == nil {
		msg.Text = "🔍 No player found matching '" + name + "'."
		return
	}

	detail, err := h.enrich.GetPlayerData(ctx, found.ID)
	if err != nil {
		msg.Text = formatPlayerBasic(*found)
		return
	}
	msg.Text = formatPlayerDetail(*found, detail)
}

// senderTeam maps the telegram sender to their league team. Owners are
// stored by first name in the sheet; the username is a fallback for
// senders whose telegram profile differs.
func (h *Handler) senderTeam(ctx context.Context, update tgbotapi.Update) (models.Team, string, error) {
	from := update.Message.From
	if from == nil {
		return models.Team{}, "", service.ErrTeamNotFound
	}

	if team, err := h.svc.ResolveTeamByOwner(ctx, from.FirstName, true); err == nil {
		return team, team.Owner, nil
	}
	team, err := h.svc.ResolveTeamByOwner(ctx, from.UserName, true)
	if err != nil {
		return models.Team{}, "", err
	}
	return team, team.Owner, nil
}

func (h *Handler) handlePick(ctx context.Context, msg *tgbotapi.MessageConfig, update tgbotapi.Update, args string) {
	playerID := strings.TrimSpace(args)
	if playerID == "" {
		msg.Text = "Please provide a player id. Usage: /pick <player id>"
		return
	}

	team, owner, err := h.senderTeam(ctx, update)
	if err != nil {
		msg.Text = "Could not match you to a team. Ask the commissioner to check the Teams tab."
		return
	}

	meta := h.svc.GetLeagueMeta(ctx, true)
	result, err := h.svc.MakeDraftPick(ctx, playerID, team.ID, owner, meta.CurrentWeek)
	if err != nil {
		msg.Text = "Pick failed: " + err.Error()
		return
	}

	p := result.Player
	msg.Text = FormatPickAnnouncement(owner, p.Name, p.Position, p.NFLTeam, result.Round, result.Pick)
}

func (h *Handler) handleAdd(ctx context.Context, msg *tgbotapi.MessageConfig, update tgbotapi.Update, args string) {
	playerID := strings.TrimSpace(args)
	if playerID == "" {
		msg.Text = "Please provide a player id. Usage: /add <player id>"
		return
	}

	team, owner, err := h.senderTeam(ctx, update)
	if err != nil {
		msg.Text = "Could not match you to a team. Ask the commissioner to check the Teams tab."
		return
	}

	meta := h.svc.GetLeagueMeta(ctx, true)
	if err := h.svc.AddPlayer(ctx, team.ID, playerID, meta.CurrentWeek); err != nil {
		msg.Text = "Add failed: " + err.Error()
		return
	}
	msg.Text = "✅ Player added to *" + owner + "*'s roster."
}

func (h *Handler) handleDrop(ctx context.Context, msg *tgbotapi.MessageConfig, update tgbotapi.Update, args string) {
	playerName := strings.TrimSpace(args)
	if playerName == "" {
		msg.Text = "Please provide a player name. Usage: /drop <player name>"
		return
	}

	team, owner, err := h.senderTeam(ctx, update)
	if err != nil {
		msg.Text = "Could not match you to a team. Ask the commissioner to check the Teams tab."
		return
	}

	meta := h.svc.GetLeagueMeta(ctx, true)
	if err := h.svc.DropPlayer(ctx, team.ID, playerName, meta.CurrentWeek); err != nil {
		msg.Text = "Drop failed: " + err.Error()
		return
	}
	msg.Text = "✅ " + playerName + " dropped from *" + owner + "*'s roster."
}

func (h *Handler) handleWhoHas(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /whohas <player name>"
		return
	}

	result := h.svc.WhoHas(ctx, args)
	if !result.Found {
		msg.Text = "🔍 No player found matching '" + args + "'."
		return
	}
	msg.Text = formatWhoHas(result)
}
