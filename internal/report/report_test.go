package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
)

func rankedMatch() *riot.Match {
	return &riot.Match{
		Metadata: riot.MatchMetadata{
			MatchID:      "NA1_200",
			Participants: []string{"puuid-ana", "puuid-other"},
		},
		Info: riot.MatchInfo{
			GameDuration:     1800,
			QueueID:          riot.QueueRankedSolo,
			GameEndTimestamp: 1700000000000,
			Participants: []riot.Participant{
				{
					PUUID:                       "puuid-ana",
					RiotIDGameName:              "Ana",
					RiotIDTagline:               "NA1",
					ChampionName:                "Ahri",
					Win:                         true,
					Kills:                       5,
					Deaths:                      2,
					Assists:                     7,
					TotalMinionsKilled:          150,
					NeutralMinionsKilled:        30,
					GoldEarned:                  12500,
					VisionScore:                 22,
					TotalDamageDealtToChampions: 18000,
				},
				{
					PUUID:          "puuid-other",
					RiotIDGameName: "Bob",
					RiotIDTagline:  "NA1",
					ChampionName:   "Garen",
					Win:            false,
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	rep, err := Build(rankedMatch(), "puuid-ana")
	require.NoError(t, err)

	assert.Equal(t, "NA1_200", rep.MatchID)
	assert.Equal(t, "Ana#NA1", rep.RiotID)
	assert.Equal(t, "Ahri", rep.Champion)
	assert.True(t, rep.Win)
	assert.Equal(t, 180, rep.CreepScore)
	assert.Equal(t, "Ranked Solo/Duo", rep.QueueName)
	assert.True(t, rep.IsRanked())
	assert.Nil(t, rep.RankDelta, "rank delta is attached separately, never by Build")

	assert.InDelta(t, 6.0, rep.KDA(), 1e-9)
	assert.InDelta(t, 6.0, rep.CSPerMinute(), 1e-9)
	assert.Equal(t, "30:00", rep.FormatDuration())
	assert.Equal(t, int64(1700000000), rep.EndedAt.Unix())
}

func TestBuildParticipantNotFound(t *testing.T) {
	_, err := Build(rankedMatch(), "puuid-unknown")
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestKDAZeroDeaths(t *testing.T) {
	rep := &Report{Kills: 10, Deaths: 0, Assists: 4}
	assert.InDelta(t, 14.0, rep.KDA(), 1e-9, "deaths clamp to 1")
}

func TestCSPerMinuteZeroDuration(t *testing.T) {
	rep := &Report{CreepScore: 100}
	assert.Zero(t, rep.CSPerMinute())
}

func TestIsRankedByQueue(t *testing.T) {
	tests := []struct {
		queueID int
		ranked  bool
	}{
		{riot.QueueRankedSolo, true},
		{riot.QueueRankedFlex, true},
		{450, false}, // ARAM
		{400, false}, // Normal Draft
	}
	for _, tt := range tests {
		rep := &Report{QueueID: tt.queueID}
		assert.Equal(t, tt.ranked, rep.IsRanked(), "queue %d", tt.queueID)
	}
}

func TestRankDeltaPromotion(t *testing.T) {
	d := &RankDelta{
		Before: Standing{Tier: "GOLD", Division: "I", LeaguePoints: 75},
		After:  Standing{Tier: "PLATINUM", Division: "IV", LeaguePoints: 10},
	}
	assert.True(t, d.Promoted())
	assert.Equal(t, "PLATINUM IV 10 LP", d.After.String())

	same := &RankDelta{
		Before:   Standing{Tier: "GOLD", Division: "I", LeaguePoints: 40},
		After:    Standing{Tier: "GOLD", Division: "I", LeaguePoints: 58},
		LPChange: 18,
	}
	assert.False(t, same.Promoted())
}
