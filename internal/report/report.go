// Package report turns raw Riot match data into a structured,
// notification-ready projection. Building a report does no I/O; the poller
// attaches rank movement separately once standings are known.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
)

// ErrParticipantNotFound means the provider attributed a match to a player
// who is absent from its participant list. Should not happen, but the
// provider's data can be inconsistent.
var ErrParticipantNotFound = errors.New("report: participant not found in match")

// Report is the structured projection of one player's match result.
type Report struct {
	MatchID         string
	RiotID          string
	Champion        string
	Win             bool
	Kills           int
	Deaths          int
	Assists         int
	CreepScore      int
	GoldEarned      int
	VisionScore     int
	DamageToChamps  int
	DurationSeconds int64
	QueueID         int
	QueueName       string
	EndedAt         time.Time

	// RankDelta is set only for ranked queues with a before/after
	// standing available. Nil means no rank information, not zero change.
	RankDelta *RankDelta
}

// RankDelta describes rank movement between consecutive ranked matches.
type RankDelta struct {
	QueueType string
	Before    Standing
	After     Standing
	// LPChange is After minus Before in league points, meaningful only
	// when tier and division are unchanged.
	LPChange int
}

// Standing is one tier/division/LP observation.
type Standing struct {
	Tier         string
	Division     string
	LeaguePoints int
}

func (s Standing) String() string {
	return fmt.Sprintf("%s %s %d LP", s.Tier, s.Division, s.LeaguePoints)
}

// Promoted reports whether the delta crossed a tier or division boundary
// upward; demotion is any other tier/division change.
func (d *RankDelta) Promoted() bool {
	return d.Before.Tier != d.After.Tier || d.Before.Division != d.After.Division
}

// Build locates the tracked player inside a raw match and projects their
// stats. Pure: deterministic given its inputs.
func Build(match *riot.Match, puuid string) (*Report, error) {
	p := match.FindParticipant(puuid)
	if p == nil {
		return nil, fmt.Errorf("%w: puuid %s not in match %s",
			ErrParticipantNotFound, puuid, match.Metadata.MatchID)
	}

	return &Report{
		MatchID:         match.Metadata.MatchID,
		RiotID:          fmt.Sprintf("%s#%s", p.RiotIDGameName, p.RiotIDTagline),
		Champion:        p.ChampionName,
		Win:             p.Win,
		Kills:           p.Kills,
		Deaths:          p.Deaths,
		Assists:         p.Assists,
		CreepScore:      p.TotalMinionsKilled + p.NeutralMinionsKilled,
		GoldEarned:      p.GoldEarned,
		VisionScore:     p.VisionScore,
		DamageToChamps:  p.TotalDamageDealtToChampions,
		DurationSeconds: match.Info.GameDuration,
		QueueID:         match.Info.QueueID,
		QueueName:       riot.QueueName(match.Info.QueueID),
		EndedAt:         time.UnixMilli(match.Info.GameEndTimestamp),
	}, nil
}

// KDA returns (kills+assists)/max(deaths,1).
func (r *Report) KDA() float64 {
	deaths := r.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return float64(r.Kills+r.Assists) / float64(deaths)
}

// CSPerMinute returns creep score normalized by game length.
func (r *Report) CSPerMinute() float64 {
	if r.DurationSeconds <= 0 {
		return 0
	}
	return float64(r.CreepScore) / (float64(r.DurationSeconds) / 60.0)
}

// IsRanked reports whether the match's queue carries ranked standing.
func (r *Report) IsRanked() bool {
	return riot.IsRankedQueue(r.QueueID)
}

// FormatDuration renders the game length as M:SS.
func (r *Report) FormatDuration() string {
	return fmt.Sprintf("%d:%02d", r.DurationSeconds/60, r.DurationSeconds%60)
}
