// Package poller drives the periodic poll-and-dedup cycle: it walks the
// tracked roster, detects matches newer than each player's cursor, builds
// reports, hands them to the notification sink, and commits cursors only
// after confirmed delivery.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/report"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/riot"
	"github.com/Spritemelody/Melodys-LoL-Tracker/internal/storage"
)

// catchUpMatches bounds how many games played between two polls can be
// noticed in one cycle. Anything older than the cursor is skipped anyway.
const catchUpMatches = 5

// errDeliveryFailed marks a sink rejection. It stops the player's catch-up
// batch for this cycle so the cursor stays at the last delivered match; a
// later match must never commit over an undelivered earlier one.
var errDeliveryFailed = errors.New("delivery failed")

// Sink delivers a finished match report to its destination. Delivery
// failures are per-notification errors; the cursor is not advanced for a
// report the sink rejected, so it is retried next cycle.
type Sink interface {
	Deliver(ctx context.Context, rep *report.Report, notifyTarget string) error
}

// Poller periodically checks all tracked players for new matches.
type Poller struct {
	repo     *storage.Repository
	client   *riot.Client
	sink     Sink
	interval time.Duration

	// cycleMu serializes a poll cycle against roster mutations such as
	// cleanup, so both see a consistent roster and cursor set.
	cycleMu *sync.Mutex

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Poller. cycleMu may be shared with the registry manager to
// keep cleanup runs out of in-flight cycles; pass nil to use a private one.
func New(repo *storage.Repository, client *riot.Client, sink Sink, interval time.Duration, cycleMu *sync.Mutex) *Poller {
	if cycleMu == nil {
		cycleMu = &sync.Mutex{}
	}
	return &Poller{
		repo:     repo,
		client:   client,
		sink:     sink,
		interval: interval,
		cycleMu:  cycleMu,
		stopChan: make(chan struct{}),
	}
}

// Start begins the polling loop. A new cycle never starts while a previous
// one is running: Poll runs synchronously and ticker ticks coalesce.
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Starting poller", "interval", p.interval)

	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Poller stopped (context cancelled)")
			return
		case <-p.stopChan:
			slog.Info("Poller stopped")
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Stop signals the poller to stop and waits for the in-flight cycle to
// finish its commits.
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// Poll runs one complete cycle over the roster. Per-player failures are
// isolated; a rejected credential cancels the remaining fan-out since every
// subsequent call would fail identically.
func (p *Poller) Poll(ctx context.Context) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	summoners, err := p.repo.ListSummoners()
	if err != nil {
		slog.Error("Failed to load roster", "error", err)
		return
	}

	if len(summoners) == 0 {
		slog.Debug("No players tracked, skipping cycle")
		return
	}

	slog.Debug("Polling players", "count", len(summoners))

	// Concurrency is bounded by the client's shared in-flight gate, not
	// here; the group exists for the unauthorized short-circuit.
	g, gctx := errgroup.WithContext(ctx)
	for _, summoner := range summoners {
		summoner := summoner
		g.Go(func() error {
			err := p.checkSummoner(gctx, summoner)
			if errors.Is(err, riot.ErrUnauthorized) {
				return err
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Failed to check player", "riotID", summoner.RiotID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Cycle aborted: API credential rejected, rotate the key", "error", err)
	}
}

// checkSummoner detects and posts matches newer than the player's cursor.
func (p *Poller) checkSummoner(ctx context.Context, s *storage.Summoner) error {
	cursor, err := p.repo.GetCursor(s.PUUID)
	if err != nil {
		return err
	}

	matchIDs, err := p.client.GetMatchIDs(ctx, s.PUUID, catchUpMatches)
	if errors.Is(err, riot.ErrNotFound) {
		slog.Debug("No match history", "riotID", s.RiotID)
		return nil
	}
	if err != nil {
		return err
	}
	if len(matchIDs) == 0 {
		return nil
	}

	// First observation: initialize the cursor without notifying, so
	// tracking a player never replays their existing history.
	if cursor == "" {
		slog.Info("Initializing cursor", "riotID", s.RiotID, "matchID", matchIDs[0])
		return p.repo.SetCursor(s.PUUID, matchIDs[0])
	}

	newIDs := matchesSince(matchIDs, cursor)
	if len(newIDs) == 0 {
		slog.Debug("No new matches", "riotID", s.RiotID)
		return nil
	}

	// Oldest first, so multiple games since the last poll post in play
	// order and a mid-list failure resumes from the right place.
	for i := len(newIDs) - 1; i >= 0; i-- {
		if err := p.postMatch(ctx, s, newIDs[i]); err != nil {
			if errors.Is(err, errDeliveryFailed) {
				// The rest of the batch is retried next cycle, still
				// in play order.
				return nil
			}
			return err
		}
	}
	return nil
}

// matchesSince returns the ids strictly newer than the cursor, most recent
// first. When the cursor fell out of the listing window, everything in the
// window counts as new.
func matchesSince(matchIDs []string, cursor string) []string {
	for i, id := range matchIDs {
		if id == cursor {
			return matchIDs[:i]
		}
	}
	return matchIDs
}

// postMatch expands one new match, delivers it, and commits the cursor.
// Data-integrity failures on a single match advance the cursor past it so
// one bad record cannot stall a player forever.
func (p *Poller) postMatch(ctx context.Context, s *storage.Summoner, matchID string) error {
	match, err := p.client.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, riot.ErrMalformedResponse) || errors.Is(err, riot.ErrNotFound) {
			slog.Warn("Skipping undecodable match", "riotID", s.RiotID, "matchID", matchID, "error", err)
			return p.repo.SetCursor(s.PUUID, matchID)
		}
		return err
	}

	rep, err := report.Build(match, s.PUUID)
	if err != nil {
		if errors.Is(err, report.ErrParticipantNotFound) {
			slog.Warn("Skipping inconsistent match", "riotID", s.RiotID, "matchID", matchID, "error", err)
			return p.repo.SetCursor(s.PUUID, matchID)
		}
		return err
	}
	rep.RiotID = s.RiotID

	if rep.IsRanked() {
		if err := p.attachRankDelta(ctx, rep, s.PUUID); err != nil {
			return err
		}
	}

	slog.Info("New match detected", "riotID", s.RiotID, "matchID", matchID, "win", rep.Win)

	if err := p.sink.Deliver(ctx, rep, s.NotifyTarget); err != nil {
		// Cursor stays put: the notification is retried next cycle.
		slog.Error("Failed to deliver notification", "riotID", s.RiotID, "matchID", matchID, "error", err)
		return errDeliveryFailed
	}

	return p.repo.SetCursor(s.PUUID, matchID)
}

// attachRankDelta compares the player's current ranked standing against the
// stored snapshot and refreshes it. Missing standings are not an error; the
// report simply carries no delta.
func (p *Poller) attachRankDelta(ctx context.Context, rep *report.Report, puuid string) error {
	queueType := riot.LeagueQueueType(rep.QueueID)
	if queueType == "" {
		return nil
	}

	entries, err := p.client.GetLeagueEntries(ctx, puuid)
	if err != nil {
		if errors.Is(err, riot.ErrUnauthorized) {
			return err
		}
		slog.Warn("Could not fetch ranked standing", "puuid", puuid, "error", err)
		return nil
	}

	var after *report.Standing
	for _, e := range entries {
		if e.QueueType == queueType {
			after = &report.Standing{Tier: e.Tier, Division: e.Rank, LeaguePoints: e.LeaguePoints}
			break
		}
	}
	if after == nil {
		return nil
	}

	before, err := p.repo.GetRankSnapshot(puuid, queueType)
	if err != nil {
		return err
	}
	if before != nil {
		rep.RankDelta = &report.RankDelta{
			QueueType: queueType,
			Before:    report.Standing{Tier: before.Tier, Division: before.Division, LeaguePoints: before.LeaguePoints},
			After:     *after,
			LPChange:  after.LeaguePoints - before.LeaguePoints,
		}
	}

	return p.repo.SetRankSnapshot(&storage.RankSnapshot{
		PUUID:        puuid,
		QueueType:    queueType,
		Tier:         after.Tier,
		Division:     after.Division,
		LeaguePoints: after.LeaguePoints,
	})
}
