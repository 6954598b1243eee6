package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh() { c.calls.Add(1) }

type countingDigest struct {
	calls atomic.Int32
}

func (c *countingDigest) Send(context.Context) (models.DailyReport, error) {
	c.calls.Add(1)
	return models.DailyReport{}, nil
}

func TestRefreshRunsOnInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{}
	s := NewScheduler(r, time.Second, nil, "", time.UTC, nil)
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	after := r.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, r.calls.Load(), "refresh must not run after Stop")
}

func TestStartRejectsBadDigestSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(&countingRefresher{}, time.Second, &countingDigest{}, "every day at eight", time.UTC, nil)
	assert.Error(t, s.Start())
}

func TestDigestJob(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &countingDigest{}
	s := NewScheduler(&countingRefresher{}, time.Hour, d, "@every 1s", time.UTC, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return d.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
}
