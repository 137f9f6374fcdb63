package riot

import (
	"context"
	"fmt"
	"net/url"
)

// Account represents a Riot account from the Account-V1 API.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RiotID returns the canonical GameName#TagLine form.
func (a *Account) RiotID() string {
	return fmt.Sprintf("%s#%s", a.GameName, a.TagLine)
}

// GetAccountByRiotID resolves a GameName/TagLine pair to an account.
// Returns ErrNotFound when no such account exists.
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalBaseURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	if err := c.get(ctx, endpoint, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByPUUID retrieves account information by PUUID.
func (c *Client) GetAccountByPUUID(ctx context.Context, puuid string) (*Account, error) {
	endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-puuid/%s",
		c.regionalBaseURL, puuid)

	var account Account
	if err := c.get(ctx, endpoint, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
