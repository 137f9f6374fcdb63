package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "bot.db")
	repo, err := NewRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, dbPath
}

func TestUpsertAndList(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "Ana#NA1", PUUID: "p-ana"}))
	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "Bob#NA1", PUUID: "p-bob", NotifyTarget: "<@1>"}))

	summoners, err := repo.ListSummoners()
	require.NoError(t, err)
	require.Len(t, summoners, 2)
	assert.Equal(t, "Ana#NA1", summoners[0].RiotID, "listing preserves insertion order")
	assert.Equal(t, "Bob#NA1", summoners[1].RiotID)
	assert.Equal(t, "<@1>", summoners[1].NotifyTarget)
}

func TestUpsertCaseInsensitive(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "Ana#NA1", PUUID: "p-ana"}))
	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "ana#na1", PUUID: "p-ana", NotifyTarget: "<@2>"}))

	summoners, err := repo.ListSummoners()
	require.NoError(t, err)
	require.Len(t, summoners, 1, "re-adding with different capitalization must not duplicate")
	assert.Equal(t, "<@2>", summoners[0].NotifyTarget, "re-add updates the notify target")

	s, err := repo.GetSummonerByRiotID("ANA#na1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "p-ana", s.PUUID)
}

func TestUpsertSummonerRename(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "OldName#NA1", PUUID: "p-ana"}))
	require.NoError(t, repo.SetCursor("p-ana", "NA1_7"))

	// Same account re-tracked after a name change.
	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "NewName#NA1", PUUID: "p-ana"}))

	summoners, err := repo.ListSummoners()
	require.NoError(t, err)
	require.Len(t, summoners, 1, "a renamed player must not leave a stale row behind")
	assert.Equal(t, "NewName#NA1", summoners[0].RiotID)

	cursor, err := repo.GetCursor("p-ana")
	require.NoError(t, err)
	assert.Equal(t, "NA1_7", cursor, "the dedup cursor survives the rename")
}

func TestGetSummonerMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	s, err := repo.GetSummonerByRiotID("Nobody#XX")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestDeleteSummoner(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "Ana#NA1", PUUID: "p-ana"}))
	require.NoError(t, repo.SetCursor("p-ana", "NA1_1"))
	require.NoError(t, repo.SetRankSnapshot(&RankSnapshot{
		PUUID: "p-ana", QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Division: "II", LeaguePoints: 40,
	}))

	removed, err := repo.DeleteSummoner("ana#na1")
	require.NoError(t, err)
	assert.True(t, removed)

	cursor, err := repo.GetCursor("p-ana")
	require.NoError(t, err)
	assert.Empty(t, cursor, "deleting a summoner drops its cursor")

	snap, err := repo.GetRankSnapshot("p-ana", "RANKED_SOLO_5x5")
	require.NoError(t, err)
	assert.Nil(t, snap, "deleting a summoner drops its rank snapshots")

	removed, err = repo.DeleteSummoner("Ana#NA1")
	require.NoError(t, err)
	assert.False(t, removed, "deleting an untracked summoner is not an error")
}

func TestCursorRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	cursor, err := repo.GetCursor("p-ana")
	require.NoError(t, err)
	assert.Empty(t, cursor, "no cursor before first poll")

	require.NoError(t, repo.SetCursor("p-ana", "NA1_1"))
	require.NoError(t, repo.SetCursor("p-ana", "NA1_2"))

	cursor, err = repo.GetCursor("p-ana")
	require.NoError(t, err)
	assert.Equal(t, "NA1_2", cursor)
}

func TestCursorSurvivesRestart(t *testing.T) {
	repo, dbPath := newTestRepo(t)

	require.NoError(t, repo.UpsertSummoner(&Summoner{RiotID: "Ana#NA1", PUUID: "p-ana"}))
	require.NoError(t, repo.SetCursor("p-ana", "NA1_42"))
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	cursor, err := reopened.GetCursor("p-ana")
	require.NoError(t, err)
	assert.Equal(t, "NA1_42", cursor, "a restart must not lose dedup cursors")

	summoners, err := reopened.ListSummoners()
	require.NoError(t, err)
	assert.Len(t, summoners, 1)
}

func TestRankSnapshotUpsert(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.SetRankSnapshot(&RankSnapshot{
		PUUID: "p-ana", QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Division: "II", LeaguePoints: 40,
	}))
	require.NoError(t, repo.SetRankSnapshot(&RankSnapshot{
		PUUID: "p-ana", QueueType: "RANKED_SOLO_5x5", Tier: "GOLD", Division: "II", LeaguePoints: 58,
	}))

	snap, err := repo.GetRankSnapshot("p-ana", "RANKED_SOLO_5x5")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 58, snap.LeaguePoints)

	other, err := repo.GetRankSnapshot("p-ana", "RANKED_FLEX_SR")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSettings(t *testing.T) {
	repo, _ := newTestRepo(t)

	value, err := repo.GetSetting("notify_channel_id")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.SetSetting("notify_channel_id", "123"))
	require.NoError(t, repo.SetSetting("notify_channel_id", "456"))

	value, err = repo.GetSetting("notify_channel_id")
	require.NoError(t, err)
	assert.Equal(t, "456", value)
}
