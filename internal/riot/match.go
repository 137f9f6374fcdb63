package riot

import (
	"context"
	"fmt"
)

// Match represents match data from the Match-V5 API.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata contains match metadata.
type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

// MatchInfo contains detailed match information.
type MatchInfo struct {
	GameDuration     int64         `json:"gameDuration"` // seconds
	GameMode         string        `json:"gameMode"`
	QueueID          int           `json:"queueId"`
	GameCreation     int64         `json:"gameCreation"`     // Unix ms
	GameEndTimestamp int64         `json:"gameEndTimestamp"` // Unix ms
	Participants     []Participant `json:"participants"`
}

// Participant represents a player in the match.
type Participant struct {
	PUUID                       string `json:"puuid"`
	RiotIDGameName              string `json:"riotIdGameName"`
	RiotIDTagline               string `json:"riotIdTagline"`
	ChampionName                string `json:"championName"`
	ChampionID                  int    `json:"championId"`
	TeamID                      int    `json:"teamId"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	VisionScore                 int    `json:"visionScore"`
}

// GetMatchIDs retrieves recent match IDs for a player, most recent first.
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}
	if count > 100 {
		count = 100
	}

	endpoint := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d",
		c.regionalBaseURL, puuid, count)

	var matchIDs []string
	if err := c.get(ctx, endpoint, &matchIDs); err != nil {
		return nil, err
	}
	return matchIDs, nil
}

// GetMatch retrieves detailed match information.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	endpoint := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalBaseURL, matchID)

	var match Match
	if err := c.get(ctx, endpoint, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// FindParticipant finds a participant in the match by PUUID.
func (m *Match) FindParticipant(puuid string) *Participant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}
