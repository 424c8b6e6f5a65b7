// Package poll reconciles the board store with the backing repository.
package poll

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/zulandar/missionctl/internal/board"
	"github.com/zulandar/missionctl/internal/task"
)

// DefaultInterval matches the reference board's refresh cadence.
const DefaultInterval = 10 * time.Second

// Poller drives one board view: it fetches the full task list on a fixed
// interval and on explicit triggers, replacing the store's state wholesale.
// Optimistic moves in flight are not merged; the next fetch is ground truth
// (last write wins at the poll boundary). A failed fetch keeps the last-known
// -good state rendered and retries at the next tick; the timer never stops on
// error, only on context cancellation.
type Poller struct {
	Repo     task.Repository
	Store    *board.Store
	Interval time.Duration
	Log      zerolog.Logger

	// OnTaskGone is called when the given open detail-view task id is no
	// longer present after a refresh, so the view can close gracefully.
	OnTaskGone func(id uint)

	trigger  chan struct{}
	detailID func() (uint, bool)
}

// New returns a poller for repo feeding store.
func New(repo task.Repository, store *board.Store, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		Repo:     repo,
		Store:    store,
		Interval: interval,
		Log:      log,
		trigger:  make(chan struct{}, 1),
	}
}

// SetDetail registers the accessor for the currently open detail view, if
// any. The poller checks it after every refresh.
func (p *Poller) SetDetail(fn func() (uint, bool)) {
	p.detailID = fn
}

// Trigger requests an immediate refresh, coalescing with any pending one.
// Called after create/move/delete so the board converges without waiting a
// full interval.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then loops until ctx is cancelled. The ticker
// is stopped on teardown so navigating away never leaks a timer.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		case <-p.trigger:
			p.refresh(ctx)
		}
	}
}

// refresh fetches the authoritative list and swaps it in. Fetch failures are
// isolated: logged, state untouched, next tick retries.
func (p *Poller) refresh(ctx context.Context) {
	tasks, err := p.Repo.ListTasks(ctx)
	if err != nil {
		p.Log.Warn().Err(err).Msg("poll: refresh failed, keeping last-known-good state")
		return
	}
	p.Store.Replace(tasks)

	if p.detailID == nil || p.OnTaskGone == nil {
		return
	}
	if id, open := p.detailID(); open && !p.Store.Has(id) {
		p.Log.Info().Uint("task", id).Msg("poll: open task deleted, closing detail view")
		p.OnTaskGone(id)
	}
}
