package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

const ddragonVersionsURL = "https://ddragon.leagueoflegends.com/api/versions.json"

// championIndex maps numeric champion ids to display names, loaded once
// from Data Dragon. Static data is unauthenticated and unmetered, so it
// bypasses the gate and pacer.
type championIndex struct {
	once  sync.Once
	err   error
	names map[int]string
}

// ChampionName resolves a numeric champion id to its display name,
// fetching the Data Dragon index on first use.
func (c *Client) ChampionName(ctx context.Context, championID int) (string, error) {
	c.champions.once.Do(func() {
		c.champions.names, c.champions.err = c.loadChampionIndex(ctx)
	})
	if c.champions.err != nil {
		return "", c.champions.err
	}
	if name, ok := c.champions.names[championID]; ok {
		return name, nil
	}
	return fmt.Sprintf("Champion %d", championID), nil
}

func (c *Client) loadChampionIndex(ctx context.Context) (map[int]string, error) {
	var versions []string
	if err := c.getStatic(ctx, ddragonVersionsURL, &versions); err != nil {
		return nil, fmt.Errorf("failed to fetch ddragon versions: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: empty ddragon version list", ErrMalformedResponse)
	}

	var payload struct {
		Data map[string]struct {
			Name string `json:"name"`
			Key  string `json:"key"` // numeric id as string
		} `json:"data"`
	}
	url := fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/data/en_US/champion.json", versions[0])
	if err := c.getStatic(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch champion data: %w", err)
	}

	names := make(map[int]string, len(payload.Data))
	for _, champ := range payload.Data {
		var id int
		if _, err := fmt.Sscanf(champ.Key, "%d", &id); err == nil {
			names[id] = champ.Name
		}
	}
	return names, nil
}

// getStatic fetches unauthenticated static data without the retry loop.
func (c *Client) getStatic(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d from %s", ErrTransient, resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
