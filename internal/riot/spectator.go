package riot

import (
	"context"
	"fmt"
)

// ActiveGame represents a live game from the Spectator-V5 API.
type ActiveGame struct {
	GameID            int64                   `json:"gameId"`
	GameMode          string                  `json:"gameMode"`
	GameQueueConfigID int                     `json:"gameQueueConfigId"`
	GameStartTime     int64                   `json:"gameStartTime"` // Unix ms
	GameLength        int64                   `json:"gameLength"`    // seconds
	Participants      []ActiveGameParticipant `json:"participants"`
}

// ActiveGameParticipant represents a player in a live game.
type ActiveGameParticipant struct {
	PUUID      string `json:"puuid"`
	ChampionID int64  `json:"championId"`
	TeamID     int64  `json:"teamId"`
	RiotID     string `json:"riotId"`
}

// GetActiveGame retrieves the live game a player is currently in.
// ErrNotFound means the player is not in a game, which is the common case.
func (c *Client) GetActiveGame(ctx context.Context, puuid string) (*ActiveGame, error) {
	endpoint := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s",
		c.platformBaseURL, puuid)

	var game ActiveGame
	if err := c.get(ctx, endpoint, &game); err != nil {
		return nil, err
	}
	return &game, nil
}
