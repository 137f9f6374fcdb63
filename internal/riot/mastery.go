package riot

import (
	"context"
	"fmt"
)

// ChampionMastery represents a champion mastery entry.
type ChampionMastery struct {
	ChampionID     int   `json:"championId"`
	ChampionLevel  int   `json:"championLevel"`
	ChampionPoints int   `json:"championPoints"`
	LastPlayTime   int64 `json:"lastPlayTime"` // Unix ms
	TokensEarned   int   `json:"tokensEarned"`
}

// GetChampionMasteries retrieves the top champion masteries for a player.
func (c *Client) GetChampionMasteries(ctx context.Context, puuid string, top int) ([]ChampionMastery, error) {
	if top <= 0 {
		top = 5
	}

	endpoint := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top?count=%d",
		c.platformBaseURL, puuid, top)

	var masteries []ChampionMastery
	if err := c.get(ctx, endpoint, &masteries); err != nil {
		return nil, err
	}
	return masteries, nil
}
