package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/report"
)

// discordSink posts finished match reports to the configured notification
// channel. It implements poller.Sink.
type discordSink struct {
	bot *Bot
}

// Deliver renders the report as an embed and sends it, mentioning the
// player's notify target when one is set.
func (d *discordSink) Deliver(ctx context.Context, rep *report.Report, notifyTarget string) error {
	channelID, err := d.bot.notifyChannelID()
	if err != nil {
		return err
	}

	msg := &discordgo.MessageSend{
		Embed: matchEmbed(rep),
	}
	if notifyTarget != "" {
		msg.Content = notifyTarget
	}

	if _, err := d.bot.session.ChannelMessageSendComplex(channelID, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// matchEmbed renders a match report as a Discord embed.
func matchEmbed(rep *report.Report) *discordgo.MessageEmbed {
	color := 0xE74C3C // Red for loss
	resultText := "Defeat"
	if rep.Win {
		color = 0x2ECC71 // Green for win
		resultText = "Victory"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "KDA",
			Value:  fmt.Sprintf("%d / %d / %d (%.2f)", rep.Kills, rep.Deaths, rep.Assists, rep.KDA()),
			Inline: true,
		},
		{
			Name:   "CS",
			Value:  fmt.Sprintf("%d (%.1f/min)", rep.CreepScore, rep.CSPerMinute()),
			Inline: true,
		},
		{
			Name:   "Damage",
			Value:  formatNumber(rep.DamageToChamps),
			Inline: true,
		},
		{
			Name:   "Gold",
			Value:  formatNumber(rep.GoldEarned),
			Inline: true,
		},
		{
			Name:   "Vision",
			Value:  fmt.Sprintf("%d", rep.VisionScore),
			Inline: true,
		},
		{
			Name:   "Duration",
			Value:  rep.FormatDuration(),
			Inline: true,
		},
	}

	if d := rep.RankDelta; d != nil {
		value := fmt.Sprintf("%s → %s", d.Before, d.After)
		if d.Before.Tier == d.After.Tier && d.Before.Division == d.After.Division {
			value = fmt.Sprintf("%s (%+d LP)", d.After, d.LPChange)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Rank",
			Value:  value,
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title: resultText,
		Color: color,
		Author: &discordgo.MessageEmbedAuthor{
			Name: rep.RiotID,
			URL:  opggURL(rep.RiotID),
		},
		Description: fmt.Sprintf("**%s** | %s", rep.Champion, rep.QueueName),
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Match ID: %s", rep.MatchID),
		},
		Timestamp: rep.EndedAt.Format(time.RFC3339),
	}
}

// opggURL builds the player's op.gg profile link from "Name#Tag".
func opggURL(riotID string) string {
	name, tag, ok := strings.Cut(riotID, "#")
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://www.op.gg/summoners/na/%s-%s",
		url.PathEscape(name), url.PathEscape(tag))
}

// formatNumber formats large numbers with commas.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
