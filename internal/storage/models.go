package storage

import "time"

// Summoner is a tracked League of Legends player.
type Summoner struct {
	ID           int64
	RiotID       string // GameName#TagLine
	PUUID        string
	NotifyTarget string // Discord mention to ping on new match, may be empty
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RankSnapshot is the last observed ranked standing for one queue,
// used to compute rank movement between consecutive matches.
type RankSnapshot struct {
	PUUID        string
	QueueType    string // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string
	Division     string
	LeaguePoints int
	UpdatedAt    time.Time
}
