package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/registry"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/report"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
)

const commandTimeout = 30 * time.Second

// Sample sizes for the match-history commands. The /kda scan is clamped so
// one command cannot burn the whole rate budget.
const (
	kdaSampleSize     = 20
	kdaSampleCap      = 40
	historySampleSize = 5
)

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "track",
			Description: "Track a summoner's matches and post results here",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "ping",
					Description: "User to ping when a new match is posted",
					Required:    false,
				},
			},
		},
		{
			Name:        "untrack",
			Description: "Stop tracking a summoner's matches",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
		{
			Name:        "tracked",
			Description: "List all tracked summoners",
		},
		{
			Name:        "trackmulti",
			Description: "Bulk track summoners from an OP.GG multi-search URL",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "opgg_url",
					Description: "OP.GG multi-search link",
					Required:    true,
				},
			},
		},
		{
			Name:                     "cleanup",
			Description:              "Remove tracked summoners whose accounts no longer resolve",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:        "setchannel",
			Description: "Set the channel for match notifications",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "The channel to send notifications to",
					Required:    true,
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
			},
		},
		{
			Name:        "rank",
			Description: "Show ranked stats for a summoner",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
		{
			Name:        "mastery",
			Description: "Show top champion masteries for a summoner",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
		{
			Name:        "livegame",
			Description: "Show a summoner's current game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
		{
			Name:        "kda",
			Description: "Show KDA and win rate on a champion over recent games",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "champion",
					Description: "Champion name (e.g., Ahri)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "games",
					Description: "How many recent matches to scan (default 20)",
					Required:    false,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show a summoner's recent matches",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "riot_id",
					Description: "Riot ID (e.g., Faker#KR1)",
					Required:    true,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleTrack handles the /track command
func (b *Bot) handleTrack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	riotID := options[0].StringValue()

	notifyTarget := ""
	if len(options) > 1 {
		if user := options[1].UserValue(s); user != nil {
			notifyTarget = user.Mention()
		}
	}

	// Respond immediately to avoid timeout
	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	summoner, err := b.registry.Add(ctx, riotID, notifyTarget)
	if err != nil {
		if errors.Is(err, registry.ErrPlayerNotFound) {
			b.editResponse(s, i, fmt.Sprintf("Could not find player `%s`. Please check the Riot ID and try again.", riotID))
			return
		}
		slog.Error("Failed to track player", "riotID", riotID, "error", err)
		b.editResponse(s, i, fmt.Sprintf("Failed to track `%s`: %s", riotID, err.Error()))
		return
	}

	b.editResponse(s, i, fmt.Sprintf("Now tracking `%s`! New matches will be posted automatically.", summoner.RiotID))
}

// handleUntrack handles the /untrack command
func (b *Bot) handleUntrack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := i.ApplicationCommandData().Options[0].StringValue()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	removed, err := b.registry.Remove(ctx, riotID)
	if err != nil {
		slog.Error("Failed to untrack player", "riotID", riotID, "error", err)
		respondWithMessage(s, i, "Failed to untrack player. Please try again.")
		return
	}

	if !removed {
		respondWithMessage(s, i, fmt.Sprintf("`%s` is not being tracked.", riotID))
		return
	}
	respondWithMessage(s, i, fmt.Sprintf("Stopped tracking `%s`.", riotID))
}

// handleTracked handles the /tracked command
func (b *Bot) handleTracked(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	summoners, err := b.registry.List(ctx)
	if err != nil {
		slog.Error("Failed to list players", "error", err)
		respondWithMessage(s, i, "Failed to retrieve the tracked list.")
		return
	}

	if len(summoners) == 0 {
		respondWithMessage(s, i, "No summoners are being tracked.\nUse `/track` to add one!")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Tracked Summoners:**\n\n")
	for idx, summoner := range summoners {
		sb.WriteString(fmt.Sprintf("%d. `%s`", idx+1, summoner.RiotID))
		if summoner.NotifyTarget != "" {
			sb.WriteString(fmt.Sprintf(" (pings %s)", summoner.NotifyTarget))
		}
		sb.WriteString("\n")
	}

	respondWithMessage(s, i, sb.String())
}

// handleTrackMulti handles the /trackmulti command
func (b *Bot) handleTrackMulti(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opggURL := i.ApplicationCommandData().Options[0].StringValue()

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*commandTimeout)
	defer cancel()

	results, err := b.registry.BulkAdd(ctx, opggURL)
	if err != nil {
		b.editResponse(s, i, fmt.Sprintf("Could not parse that URL: %s", err.Error()))
		return
	}

	var sb strings.Builder
	added := 0
	for _, res := range results {
		if res.Err != nil {
			sb.WriteString(fmt.Sprintf("`%s`: %s\n", res.RiotID, res.Err.Error()))
			continue
		}
		added++
	}

	summary := fmt.Sprintf("Tracked %d of %d summoners.", added, len(results))
	if sb.Len() > 0 {
		summary += "\n\n**Failures:**\n" + sb.String()
	}
	b.editResponse(s, i, summary)
}

// handleCleanup handles the /cleanup command
func (b *Bot) handleCleanup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*commandTimeout)
	defer cancel()

	removed, err := b.registry.Cleanup(ctx)
	if err != nil {
		slog.Error("Cleanup failed", "error", err)
		b.editResponse(s, i, fmt.Sprintf("Cleanup failed after removing %d summoner(s): %s", removed, err.Error()))
		return
	}

	if removed == 0 {
		b.editResponse(s, i, "All tracked summoners still resolve. Nothing to clean up.")
		return
	}
	b.editResponse(s, i, fmt.Sprintf("Cleanup complete: removed %d unresolvable summoner(s).", removed))
}

// handleSetChannel handles the /setchannel command
func (b *Bot) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	channel := i.ApplicationCommandData().Options[0].ChannelValue(s)

	if err := b.repo.SetSetting("notify_channel_id", channel.ID); err != nil {
		slog.Error("Failed to save notification channel", "error", err)
		respondWithMessage(s, i, "Failed to set notification channel. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Match notifications will be sent to <#%s>", channel.ID))
}

// handleRank handles the /rank command
func (b *Bot) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := i.ApplicationCommandData().Options[0].StringValue()

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	account, err := b.resolveAccount(ctx, riotID)
	if err != nil {
		b.editResponse(s, i, accountLookupMessage(riotID, err))
		return
	}

	entries, err := b.client.GetLeagueEntries(ctx, account.PUUID)
	if err != nil && !errors.Is(err, riot.ErrNotFound) {
		slog.Error("Failed to fetch ranked stats", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Error retrieving ranked stats. Please try again later.")
		return
	}

	if len(entries) == 0 {
		b.editResponse(s, i, fmt.Sprintf("`%s` has no ranked games this season.", account.RiotID()))
		return
	}

	b.editEmbed(s, i, rankEmbed(account, entries))
}

// handleMastery handles the /mastery command
func (b *Bot) handleMastery(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := i.ApplicationCommandData().Options[0].StringValue()

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	account, err := b.resolveAccount(ctx, riotID)
	if err != nil {
		b.editResponse(s, i, accountLookupMessage(riotID, err))
		return
	}

	masteries, err := b.client.GetChampionMasteries(ctx, account.PUUID, 5)
	if err != nil && !errors.Is(err, riot.ErrNotFound) {
		slog.Error("Failed to fetch masteries", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Error retrieving mastery data. Please try again later.")
		return
	}

	if len(masteries) == 0 {
		b.editResponse(s, i, fmt.Sprintf("No mastery data found for `%s`.", account.RiotID()))
		return
	}

	b.editEmbed(s, i, b.masteryEmbed(ctx, account, masteries))
}

// handleLiveGame handles the /livegame command
func (b *Bot) handleLiveGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := i.ApplicationCommandData().Options[0].StringValue()

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	account, err := b.resolveAccount(ctx, riotID)
	if err != nil {
		b.editResponse(s, i, accountLookupMessage(riotID, err))
		return
	}

	game, err := b.client.GetActiveGame(ctx, account.PUUID)
	if errors.Is(err, riot.ErrNotFound) {
		// Expected: the player is simply not in a game right now.
		b.editResponse(s, i, fmt.Sprintf("`%s` is not currently in a game.", account.RiotID()))
		return
	}
	if err != nil {
		slog.Error("Failed to fetch live game", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Error retrieving live game data. Please try again later.")
		return
	}

	b.editEmbed(s, i, b.liveGameEmbed(ctx, account, game))
}

// handleKDA handles the /kda command
func (b *Bot) handleKDA(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	riotID := options[0].StringValue()
	champion := options[1].StringValue()

	games := kdaSampleSize
	if len(options) > 2 {
		games = int(options[2].IntValue())
		if games < 1 {
			games = 1
		}
		if games > kdaSampleCap {
			games = kdaSampleCap
		}
	}

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*commandTimeout)
	defer cancel()

	account, err := b.resolveAccount(ctx, riotID)
	if err != nil {
		b.editResponse(s, i, accountLookupMessage(riotID, err))
		return
	}

	reps, err := b.recentReports(ctx, account.PUUID, games)
	if err != nil {
		slog.Error("Failed to fetch match history", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Error retrieving match history. Please try again later.")
		return
	}

	agg := report.Summarize(reps, champion)
	if agg.Games == 0 {
		b.editResponse(s, i, fmt.Sprintf("`%s` has no games on %s in their last %d matches.",
			account.RiotID(), champion, len(reps)))
		return
	}

	b.editEmbed(s, i, kdaEmbed(account, champion, agg, len(reps)))
}

// handleHistory handles the /history command
func (b *Bot) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	riotID := i.ApplicationCommandData().Options[0].StringValue()

	deferResponse(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*commandTimeout)
	defer cancel()

	account, err := b.resolveAccount(ctx, riotID)
	if err != nil {
		b.editResponse(s, i, accountLookupMessage(riotID, err))
		return
	}

	reps, err := b.recentReports(ctx, account.PUUID, historySampleSize)
	if err != nil {
		slog.Error("Failed to fetch match history", "riotID", riotID, "error", err)
		b.editResponse(s, i, "Error retrieving match history. Please try again later.")
		return
	}

	if len(reps) == 0 {
		b.editResponse(s, i, fmt.Sprintf("No recent matches found for `%s`.", account.RiotID()))
		return
	}

	b.editEmbed(s, i, historyEmbed(account, reps))
}

// recentReports expands a player's most recent matches into reports,
// newest first, skipping records that cannot be decoded or attributed.
func (b *Bot) recentReports(ctx context.Context, puuid string, count int) ([]*report.Report, error) {
	ids, err := b.client.GetMatchIDs(ctx, puuid, count)
	if err != nil {
		if errors.Is(err, riot.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	reps := make([]*report.Report, 0, len(ids))
	for _, id := range ids {
		match, err := b.client.GetMatch(ctx, id)
		if err != nil {
			if errors.Is(err, riot.ErrNotFound) || errors.Is(err, riot.ErrMalformedResponse) {
				continue
			}
			return nil, err
		}
		rep, err := report.Build(match, puuid)
		if err != nil {
			continue
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// resolveAccount resolves a Riot ID, preferring the tracked roster to
// spare an API call for players we already know.
func (b *Bot) resolveAccount(ctx context.Context, riotID string) (*riot.Account, error) {
	gameName, tagLine, err := registry.SplitRiotID(riotID)
	if err != nil {
		return nil, err
	}

	if s, err := b.repo.GetSummonerByRiotID(riotID); err == nil && s != nil {
		name, tag, _ := strings.Cut(s.RiotID, "#")
		return &riot.Account{PUUID: s.PUUID, GameName: name, TagLine: tag}, nil
	}

	return b.client.GetAccountByRiotID(ctx, gameName, tagLine)
}

func accountLookupMessage(riotID string, err error) string {
	if errors.Is(err, riot.ErrNotFound) {
		return fmt.Sprintf("Could not find player `%s`. Please check the Riot ID.", riotID)
	}
	return fmt.Sprintf("Could not look up `%s`: %s", riotID, err.Error())
}

// Helper functions

func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}

func (b *Bot) editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}
