package registry

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseMultiURL extracts the Riot ID list from an op.gg multi-search URL,
// e.g. https://op.gg/lol/multisearch/na?summoners=Ana%23NA1,Bob%23NA1.
// Entries without a #tag are dropped.
func ParseMultiURL(rawURL string) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	param := u.Query().Get("summoners")
	if param == "" {
		return nil, fmt.Errorf("URL has no summoners parameter")
	}

	var riotIDs []string
	for _, entry := range strings.Split(param, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" && strings.Contains(entry, "#") {
			riotIDs = append(riotIDs, entry)
		}
	}

	if len(riotIDs) == 0 {
		return nil, fmt.Errorf("no valid Riot IDs in URL")
	}
	return riotIDs, nil
}
