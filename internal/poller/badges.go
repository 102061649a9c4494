package poller

import (
	"context"
	"sync"
	"time"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/session"
	apperrors "github.com/learncrew/learncrew-agent/pkg/errors"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"go.uber.org/zap"
)

// Badges keeps the header badge counts (pending requests, unread chat
// messages) approximately fresh while a session is active. Counts are
// advisory: a failed fetch leaves the previous value standing and a stale
// count from an overlapping fetch is acceptable.
type Badges struct {
	store     *session.Store
	apiClient *api.Client
	task      *Task

	mu      sync.RWMutex
	pending int
	unread  int
}

// NewBadges creates the badge poller with the given refresh interval
func NewBadges(store *session.Store, apiClient *api.Client, interval time.Duration) *Badges {
	b := &Badges{
		store:     store,
		apiClient: apiClient,
	}
	b.task = NewTask("badges", interval, b.refresh)
	return b
}

// Run ties the poll loop to the session lifecycle: it starts polling the
// moment a session is active and stops (and zeroes the counts) when it
// goes away. Blocks until ctx is done.
func (b *Badges) Run(ctx context.Context) {
	updates := b.store.Subscribe()

	if b.store.IsAuthenticated() {
		b.task.Start(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			b.task.Stop()
			return
		case current := <-updates:
			if current != nil {
				b.task.Start(ctx)
				continue
			}
			b.task.Stop()
			b.reset()
		}
	}
}

// Counts returns the latest badge counts
func (b *Badges) Counts() (pending, unread int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pending, b.unread
}

// refresh fetches both counts. Each count updates independently, so a
// partial failure keeps the half that succeeded. A 401 means the server
// no longer honors the token: the session is force-expired.
func (b *Badges) refresh(ctx context.Context) error {
	token, err := b.store.Token()
	if err != nil {
		// Session vanished between the tick and the fetch
		return nil
	}

	var firstErr error

	if pending, err := b.apiClient.PendingCount(ctx, token); err != nil {
		firstErr = b.handleFetchError("pending_count", err)
	} else {
		b.mu.Lock()
		b.pending = pending
		b.mu.Unlock()
	}

	if unread, err := b.apiClient.UnreadCount(ctx, token); err != nil {
		if firstErr == nil {
			firstErr = b.handleFetchError("unread_count", err)
		}
	} else {
		b.mu.Lock()
		b.unread = unread
		b.mu.Unlock()
	}

	return firstErr
}

func (b *Badges) handleFetchError(which string, err error) error {
	if apperrors.Is(err, apperrors.ErrUnauthorized) {
		logger.Info("Badge poll rejected with 401, expiring session",
			zap.String("count", which))
		b.store.Expire()
	}
	return err
}

func (b *Badges) reset() {
	b.mu.Lock()
	b.pending = 0
	b.unread = 0
	b.mu.Unlock()
}
