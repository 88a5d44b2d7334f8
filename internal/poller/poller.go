// Package poller keeps the response cache warm by recomputing the hot views
// on a fixed interval.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"screener-api/internal/tokens"
)

const DefaultInterval = 30 * time.Second

// DefaultViews are the views a cold cache hurts most.
var DefaultViews = []tokens.View{tokens.ViewTop, tokens.ViewTrending, tokens.ViewNew}

type Viewer interface {
	Tokens(ctx context.Context, req tokens.Request) (tokens.Result, error)
}

// Run ticks until ctx is done. A failed view is logged and retried on the
// next tick.
func Run(ctx context.Context, v Viewer, views []tokens.View, interval time.Duration, logger *zap.Logger) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if len(views) == 0 {
		views = DefaultViews
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "poller"))

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		tick(ctx, v, views, logger)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func tick(ctx context.Context, v Viewer, views []tokens.View, logger *zap.Logger) {
	for _, view := range views {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		res, err := v.Tokens(ctx, tokens.Request{View: view})
		if err != nil {
			logger.Warn("warm failed", zap.String("view", string(view)), zap.Error(err))
			continue
		}
		logger.Debug("warmed",
			zap.String("view", string(view)),
			zap.Int("tokens", len(res.Tokens)),
			zap.Duration("took", time.Since(start)),
		)
	}
}
