package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/report"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
)

// rankEmbed renders ranked standings, one field per queue.
func rankEmbed(account *riot.Account, entries []riot.LeagueEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ranked Stats — %s", account.RiotID()),
		Color: 0x3498DB,
		Author: &discordgo.MessageEmbedAuthor{
			Name: account.RiotID(),
			URL:  opggURL(account.RiotID()),
		},
	}

	for _, entry := range entries {
		games := entry.Wins + entry.Losses
		winRate := 0.0
		if games > 0 {
			winRate = float64(entry.Wins) / float64(games) * 100
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: queueTypeName(entry.QueueType),
			Value: fmt.Sprintf("**%s %s** — %d LP\n%dW / %dL (%.0f%%)",
				entry.Tier, entry.Rank, entry.LeaguePoints, entry.Wins, entry.Losses, winRate),
			Inline: true,
		})
	}

	return embed
}

// masteryEmbed renders the top champion masteries.
func (b *Bot) masteryEmbed(ctx context.Context, account *riot.Account, masteries []riot.ChampionMastery) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Champion Mastery — %s", account.RiotID()),
		Color: 0x9B59B6,
	}

	for _, m := range masteries {
		name, err := b.client.ChampionName(ctx, m.ChampionID)
		if err != nil {
			name = fmt.Sprintf("Champion %d", m.ChampionID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  fmt.Sprintf("Level %d — %s points", m.ChampionLevel, formatNumber(m.ChampionPoints)),
			Inline: true,
		})
	}

	return embed
}

// liveGameEmbed renders a summoner's active game.
func (b *Bot) liveGameEmbed(ctx context.Context, account *riot.Account, game *riot.ActiveGame) *discordgo.MessageEmbed {
	elapsed := time.Duration(game.GameLength) * time.Second

	var champion string
	for _, p := range game.Participants {
		if p.PUUID == account.PUUID {
			name, err := b.client.ChampionName(ctx, int(p.ChampionID))
			if err == nil {
				champion = name
			}
			break
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Live Game",
		Color:       0xF1C40F,
		Description: fmt.Sprintf("`%s` is in a **%s** game", account.RiotID(), riot.QueueName(game.GameQueueConfigID)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Elapsed",
				Value:  fmt.Sprintf("%d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60),
				Inline: true,
			},
			{
				Name:   "Players",
				Value:  fmt.Sprintf("%d", len(game.Participants)),
				Inline: true,
			},
		},
	}
	if champion != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Champion",
			Value:  champion,
			Inline: true,
		})
	}

	return embed
}

// kdaEmbed renders champion performance aggregated over a match sample.
func kdaEmbed(account *riot.Account, champion string, agg report.Aggregate, sampled int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s on %s", account.RiotID(), champion),
		Color:       0x1ABC9C,
		Description: fmt.Sprintf("%d game(s) in the last %d matches", agg.Games, sampled),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Record",
				Value:  fmt.Sprintf("%dW / %dL (%.0f%%)", agg.Wins, agg.Games-agg.Wins, agg.WinRate()),
				Inline: true,
			},
			{
				Name:   "KDA",
				Value:  fmt.Sprintf("%d / %d / %d (%.2f)", agg.Kills, agg.Deaths, agg.Assists, agg.KDA()),
				Inline: true,
			},
		},
	}
}

// historyEmbed renders one line per recent match, newest first.
func historyEmbed(account *riot.Account, reps []*report.Report) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, rep := range reps {
		result := "L"
		if rep.Win {
			result = "W"
		}
		sb.WriteString(fmt.Sprintf("**%s** %s — %d/%d/%d (%.2f) · %s · %s\n",
			result, rep.Champion, rep.Kills, rep.Deaths, rep.Assists, rep.KDA(),
			rep.QueueName, rep.FormatDuration()))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Recent Matches — %s", account.RiotID()),
		Color:       0x3498DB,
		Description: sb.String(),
		Author: &discordgo.MessageEmbedAuthor{
			Name: account.RiotID(),
			URL:  opggURL(account.RiotID()),
		},
	}
}

// queueTypeName maps League-V4 queueType strings to display names.
func queueTypeName(queueType string) string {
	switch queueType {
	case "RANKED_SOLO_5x5":
		return "Ranked Solo/Duo"
	case "RANKED_FLEX_SR":
		return "Ranked Flex"
	default:
		return queueType
	}
}
