// Package registry manages the tracked-player roster: registration,
// removal, bulk import, and cleanup of accounts that no longer resolve.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/storage"
)

// ErrPlayerNotFound means the provider has no account for the given Riot ID.
var ErrPlayerNotFound = errors.New("registry: player not found")

// Manager performs add/remove/list operations over the tracked-player table.
type Manager struct {
	client *riot.Client
	repo   *storage.Repository

	// cycleMu is shared with the poller so a cleanup pass never mutates
	// the roster while a poll cycle is walking it.
	cycleMu *sync.Mutex
}

// New creates a registry manager. cycleMu may be nil when no poller runs.
func New(client *riot.Client, repo *storage.Repository, cycleMu *sync.Mutex) *Manager {
	if cycleMu == nil {
		cycleMu = &sync.Mutex{}
	}
	return &Manager{client: client, repo: repo, cycleMu: cycleMu}
}

// SplitRiotID splits "GameName#TagLine" into its parts.
func SplitRiotID(riotID string) (gameName, tagLine string, err error) {
	parts := strings.Split(riotID, "#")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid format: must be GameName#TagLine (e.g., Faker#KR1)")
	}

	gameName = strings.TrimSpace(parts[0])
	tagLine = strings.TrimSpace(parts[1])
	if gameName == "" || tagLine == "" {
		return "", "", fmt.Errorf("game name and tag line cannot be empty")
	}
	return gameName, tagLine, nil
}

// Add resolves a Riot ID to a PUUID and persists the tracked player.
// Re-adding an already-tracked player updates its notify target rather than
// duplicating; the canonical capitalization from the provider is stored.
func (m *Manager) Add(ctx context.Context, riotID, notifyTarget string) (*storage.Summoner, error) {
	gameName, tagLine, err := SplitRiotID(riotID)
	if err != nil {
		return nil, err
	}

	account, err := m.client.GetAccountByRiotID(ctx, gameName, tagLine)
	if errors.Is(err, riot.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s#%s", ErrPlayerNotFound, gameName, tagLine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player: %w", err)
	}

	s := &storage.Summoner{
		RiotID:       account.RiotID(),
		PUUID:        account.PUUID,
		NotifyTarget: notifyTarget,
	}
	if err := m.repo.UpsertSummoner(s); err != nil {
		return nil, fmt.Errorf("failed to persist player: %w", err)
	}

	slog.Info("Tracking player", "riotID", s.RiotID, "puuid", s.PUUID)
	return s, nil
}

// Remove stops tracking a Riot ID. Returns false when it was not tracked;
// that is not an error.
func (m *Manager) Remove(ctx context.Context, riotID string) (bool, error) {
	removed, err := m.repo.DeleteSummoner(riotID)
	if err != nil {
		return false, err
	}
	if removed {
		slog.Info("Stopped tracking player", "riotID", riotID)
	}
	return removed, nil
}

// List returns all tracked players in insertion order.
func (m *Manager) List(ctx context.Context) ([]*storage.Summoner, error) {
	return m.repo.ListSummoners()
}

// BulkResult is the per-entry outcome of a bulk add.
type BulkResult struct {
	RiotID string
	Err    error
}

// BulkAdd parses an op.gg multi-search URL and adds every player in it.
// Partial failures are collected per entry, never aggregated into one error.
func (m *Manager) BulkAdd(ctx context.Context, opggURL string) ([]BulkResult, error) {
	riotIDs, err := ParseMultiURL(opggURL)
	if err != nil {
		return nil, err
	}

	results := make([]BulkResult, 0, len(riotIDs))
	for _, riotID := range riotIDs {
		_, err := m.Add(ctx, riotID, "")
		results = append(results, BulkResult{RiotID: riotID, Err: err})
	}
	return results, nil
}

// Cleanup re-resolves every tracked player and removes those whose account
// no longer exists (renamed or deleted). Returns the number removed.
// Provider errors other than not-found leave the player in place.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	summoners, err := m.repo.ListSummoners()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, s := range summoners {
		_, err := m.client.GetAccountByPUUID(ctx, s.PUUID)
		if err == nil {
			continue
		}
		if !errors.Is(err, riot.ErrNotFound) {
			if errors.Is(err, riot.ErrUnauthorized) {
				return removed, err
			}
			slog.Warn("Skipping player during cleanup", "riotID", s.RiotID, "error", err)
			continue
		}

		ok, err := m.repo.DeleteSummoner(s.RiotID)
		if err != nil {
			return removed, err
		}
		if ok {
			slog.Info("Removed unresolvable player", "riotID", s.RiotID)
			removed++
		}
	}
	return removed, nil
}
