package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/storage"
)

// fakeAccounts serves the Account-V1 endpoints for a fixed set of players.
type fakeAccounts struct {
	mu       sync.Mutex
	byRiotID map[string]riot.Account // "name/tag" lowercased -> account
	byPUUID  map[string]riot.Account
}

func newFakeAccounts(accounts ...riot.Account) *fakeAccounts {
	f := &fakeAccounts{
		byRiotID: make(map[string]riot.Account),
		byPUUID:  make(map[string]riot.Account),
	}
	for _, a := range accounts {
		f.byRiotID[strings.ToLower(a.GameName+"/"+a.TagLine)] = a
		f.byPUUID[a.PUUID] = a
	}
	return f
}

func (f *fakeAccounts) forget(puuid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, a := range f.byRiotID {
		if a.PUUID == puuid {
			delete(f.byRiotID, key)
		}
	}
	delete(f.byPUUID, puuid)
}

func (f *fakeAccounts) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/riot/account/v1/accounts/by-riot-id/"):
			key := strings.ToLower(strings.TrimPrefix(path, "/riot/account/v1/accounts/by-riot-id/"))
			account, ok := f.byRiotID[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(account)
		case strings.HasPrefix(path, "/riot/account/v1/accounts/by-puuid/"):
			puuid := strings.TrimPrefix(path, "/riot/account/v1/accounts/by-puuid/")
			account, ok := f.byPUUID[puuid]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(account)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestManager(t *testing.T, fake *fakeAccounts) (*Manager, *storage.Repository) {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	client := riot.NewClient("test-key", riot.Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	return New(client, repo, nil), repo
}

func TestAdd(t *testing.T) {
	fake := newFakeAccounts(riot.Account{PUUID: "p-ana", GameName: "Ana", TagLine: "NA1"})
	m, repo := newTestManager(t, fake)

	s, err := m.Add(context.Background(), "ana#na1", "<@42>")
	require.NoError(t, err)
	assert.Equal(t, "Ana#NA1", s.RiotID, "canonical capitalization from the provider is stored")
	assert.Equal(t, "p-ana", s.PUUID)

	stored, err := repo.GetSummonerByRiotID("Ana#NA1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "<@42>", stored.NotifyTarget)
}

func TestAddUnknownPlayer(t *testing.T) {
	m, _ := newTestManager(t, newFakeAccounts())

	_, err := m.Add(context.Background(), "Ghost#NA1", "")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestAddInvalidFormat(t *testing.T) {
	m, _ := newTestManager(t, newFakeAccounts())

	_, err := m.Add(context.Background(), "NoTagHere", "")
	require.Error(t, err)

	_, err = m.Add(context.Background(), "#NA1", "")
	require.Error(t, err)
}

func TestAddTwiceUpdatesTarget(t *testing.T) {
	fake := newFakeAccounts(riot.Account{PUUID: "p-ana", GameName: "Ana", TagLine: "NA1"})
	m, _ := newTestManager(t, fake)

	_, err := m.Add(context.Background(), "Ana#NA1", "")
	require.NoError(t, err)

	_, err = m.Add(context.Background(), "Ana#NA1", "<@7>")
	require.NoError(t, err, "re-adding a tracked player is not an error")

	players, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "<@7>", players[0].NotifyTarget)
}

func TestRemove(t *testing.T) {
	fake := newFakeAccounts(riot.Account{PUUID: "p-ana", GameName: "Ana", TagLine: "NA1"})
	m, _ := newTestManager(t, fake)

	_, err := m.Add(context.Background(), "Ana#NA1", "")
	require.NoError(t, err)

	removed, err := m.Remove(context.Background(), "ana#NA1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.Remove(context.Background(), "Ana#NA1")
	require.NoError(t, err)
	assert.False(t, removed, "removing an untracked player is not an error")
}

func TestBulkAddCollectsPartialFailures(t *testing.T) {
	fake := newFakeAccounts(
		riot.Account{PUUID: "p-ana", GameName: "Ana", TagLine: "NA1"},
		riot.Account{PUUID: "p-bob", GameName: "Bob", TagLine: "NA1"},
	)
	m, _ := newTestManager(t, fake)

	results, err := m.BulkAdd(context.Background(),
		"https://op.gg/lol/multisearch/na?summoners=Ana%23NA1%2CBob%23NA1%2CGhost%23NA1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.ErrorIs(t, results[2].Err, ErrPlayerNotFound, "one bad entry must not fail the batch")

	players, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 2)
}

func TestCleanupRemovesUnresolvable(t *testing.T) {
	fake := newFakeAccounts(
		riot.Account{PUUID: "p-ana", GameName: "Ana", TagLine: "NA1"},
		riot.Account{PUUID: "p-bob", GameName: "Bob", TagLine: "NA1"},
	)
	m, _ := newTestManager(t, fake)

	_, err := m.Add(context.Background(), "Ana#NA1", "")
	require.NoError(t, err)
	_, err = m.Add(context.Background(), "Bob#NA1", "")
	require.NoError(t, err)

	// Bob's account gets deleted upstream.
	fake.forget("p-bob")

	removed, err := m.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	players, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Ana#NA1", players[0].RiotID)
}

func TestSplitRiotID(t *testing.T) {
	name, tag, err := SplitRiotID(" Faker # KR1 ")
	require.NoError(t, err)
	assert.Equal(t, "Faker", name)
	assert.Equal(t, "KR1", tag)

	_, _, err = SplitRiotID("Faker")
	require.Error(t, err)

	_, _, err = SplitRiotID("Fa#ke#r")
	require.Error(t, err)
}
