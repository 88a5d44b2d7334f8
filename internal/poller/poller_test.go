package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener-api/internal/tokens"
)

type recordingViewer struct {
	mu    sync.Mutex
	views []tokens.View
	fail  tokens.View
}

func (r *recordingViewer) Tokens(_ context.Context, req tokens.Request) (tokens.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, req.View)
	if req.View == r.fail {
		return tokens.Result{}, errors.New("rate limited")
	}
	return tokens.Result{Tokens: []tokens.Token{}}, nil
}

func (r *recordingViewer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func TestRun_WarmsEveryViewEachTick(t *testing.T) {
	v := &recordingViewer{fail: tokens.ViewTop}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, v, nil, 10*time.Millisecond, nil) }()

	require.Eventually(t, func() bool { return v.count() >= 6 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	v.mu.Lock()
	defer v.mu.Unlock()
	assert.Equal(t, DefaultViews, v.views[:3])
	assert.Equal(t, DefaultViews, v.views[3:6])
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	v := &recordingViewer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, v, []tokens.View{tokens.ViewTrending}, time.Hour, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, v.count())
}
