package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/report"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
)

func TestKDAEmbed(t *testing.T) {
	account := &riot.Account{GameName: "Ana", TagLine: "NA1"}
	agg := report.Aggregate{Games: 4, Wins: 3, Kills: 24, Deaths: 8, Assists: 16}

	embed := kdaEmbed(account, "Ahri", agg, 20)

	assert.Equal(t, "Ana#NA1 on Ahri", embed.Title)
	assert.Contains(t, embed.Description, "4 game(s) in the last 20 matches")

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "3W / 1L (75%)", embed.Fields[0].Value)
	assert.Equal(t, "24 / 8 / 16 (5.00)", embed.Fields[1].Value)
}

func TestHistoryEmbed(t *testing.T) {
	account := &riot.Account{GameName: "Ana", TagLine: "NA1"}
	reps := []*report.Report{
		{Champion: "Ahri", Win: true, Kills: 5, Deaths: 2, Assists: 7, QueueName: "Ranked Solo/Duo", DurationSeconds: 1800},
		{Champion: "Lux", Win: false, Kills: 1, Deaths: 8, Assists: 3, QueueName: "ARAM", DurationSeconds: 1200},
	}

	embed := historyEmbed(account, reps)

	assert.Equal(t, "Recent Matches — Ana#NA1", embed.Title)
	assert.Contains(t, embed.Description, "**W** Ahri — 5/2/7 (6.00) · Ranked Solo/Duo · 30:00")
	assert.Contains(t, embed.Description, "**L** Lux — 1/8/3 (0.50) · ARAM · 20:00")
}
