package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
)

// RefreshController fetches the wish list and installs it in the
// repository. Fetches may overlap; a response that arrives after a newer
// one has been applied is discarded.
type RefreshController struct {
	repo   repository.WishRepository
	api    WishAPI
	events EventPublisher
	logger *slog.Logger

	seq atomic.Uint64
	wg  sync.WaitGroup
}

// NewRefreshController creates a new refresh controller.
func NewRefreshController(repo repository.WishRepository, api WishAPI, events EventPublisher, logger *slog.Logger) *RefreshController {
	return &RefreshController{
		repo:   repo,
		api:    api,
		events: events,
		logger: logger,
	}
}

// Refresh fetches the list once. On failure the current list is kept and a
// transport error is returned. A stale response is not an error.
func (c *RefreshController) Refresh(ctx context.Context) error {
	seq := c.seq.Add(1)

	start := time.Now()
	snapshot, err := c.api.FetchWishList(ctx)
	RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		RefreshesTotal.WithLabelValues("failed").Inc()
		c.logger.WarnContext(ctx, "wish list refresh failed",
			slog.Uint64("sequence", seq),
			slog.String("error", err.Error()),
		)
		return asTransport(err, "fetch wish list")
	}

	snapshot.Sequence = seq
	if err := c.repo.ReplaceSnapshot(snapshot); err != nil {
		if errors.Is(err, domain.ErrStaleSnapshot) {
			RefreshesTotal.WithLabelValues("stale").Inc()
			c.logger.DebugContext(ctx, "discarded stale wish list",
				slog.Uint64("sequence", seq),
			)
			return nil
		}
		return err
	}

	RefreshesTotal.WithLabelValues("applied").Inc()
	c.logger.InfoContext(ctx, "wish list refreshed",
		slog.Uint64("sequence", seq),
		slog.Int("wish_count", len(snapshot.Wishes)),
	)

	if err := c.events.PublishSnapshotRefreshed(ctx, snapshot); err != nil {
		c.logger.WarnContext(ctx, "failed to publish refresh event", slog.String("error", err.Error()))
	}
	return nil
}

// RefreshAsync starts a refresh in the background. It outlives ctx's
// cancellation but keeps its values (logger, trace).
func (c *RefreshController) RefreshAsync(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.Refresh(ctx)
	}()
}

// Run refreshes immediately and then every interval until ctx is done.
func (c *RefreshController) Run(ctx context.Context, interval time.Duration) {
	_ = c.Refresh(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// Wait blocks until all background refreshes have finished.
func (c *RefreshController) Wait() {
	c.wg.Wait()
}
