package riot

import (
	"context"
	"fmt"
)

// LeagueEntry represents a ranked standing from the League-V4 API.
type LeagueEntry struct {
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`
	Rank         string `json:"rank"` // division, I-IV
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// GetLeagueEntries retrieves ranked standings for a player, one entry per
// ranked queue. Players with no ranked history get an empty slice.
func (c *Client) GetLeagueEntries(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	endpoint := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s",
		c.platformBaseURL, puuid)

	var entries []LeagueEntry
	if err := c.get(ctx, endpoint, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
