package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaraujo/secretaria/internal/app/models"
	"github.com/edaraujo/secretaria/internal/pkg/apperrors"
)

// fakeClock hands out tickers the test fires by hand.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Ticker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

// tick advances the clock and fires every ticker once. It waits for at
// least one ticker to be registered so a tick fired right after Start is
// not dropped before the job goroutine has created its ticker.
func (f *fakeClock) tick(d time.Duration) {
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		if len(f.tickers) > 0 {
			break
		}
		f.mu.Unlock()
		if time.Now().After(deadline) {
			panic("fakeClock.tick: no ticker registered within 2s")
		}
		time.Sleep(time.Millisecond)
	}
	f.now = f.now.Add(d)
	now := f.now
	tickers := append([]*fakeTicker(nil), f.tickers...)
	f.mu.Unlock()

	for _, t := range tickers {
		t.c <- now
	}
}

type fakeTicker struct {
	c chan time.Time
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()                  {}

// fakeRenewer records renewal calls.
type fakeRenewer struct {
	mu       sync.Mutex
	owners   []int64
	issued   [][3]int64 // owner, semester, year
	conflict map[int64]bool
	done     chan struct{}
}

func (f *fakeRenewer) FindOwnersNeedingRenewal(_ context.Context, _, _ int) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owners, nil
}

func (f *fakeRenewer) IssueForRenewal(_ context.Context, ownerID int64, semester, year int) (*models.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() {
		if f.done != nil && len(f.issued) == len(f.owners) {
			close(f.done)
			f.done = nil
		}
	}()
	f.issued = append(f.issued, [3]int64{ownerID, int64(semester), int64(year)})
	if f.conflict[ownerID] {
		return nil, apperrors.NewConflictError("contract already exists for this term")
	}
	return &models.Contract{OwnerID: ownerID, Semester: semester, Year: year}, nil
}

func TestCurrentTerm(t *testing.T) {
	tests := []struct {
		date     time.Time
		semester int
		year     int
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 1, 2026},
		{time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC), 1, 2026},
		{time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 2, 2026},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), 2, 2026},
	}
	for _, tt := range tests {
		semester, year := CurrentTerm(tt.date)
		assert.Equal(t, tt.semester, semester, tt.date.String())
		assert.Equal(t, tt.year, year, tt.date.String())
	}
}

func TestRenewalJobIssuesPerOwner(t *testing.T) {
	renewer := &fakeRenewer{
		owners:   []int64{3, 4, 5},
		conflict: map[int64]bool{4: true}, // lost a race; not an error
		done:     make(chan struct{}),
	}
	clock := newFakeClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	sched := New(clock, []Job{NewContractRenewalJob(time.Hour, renewer)})
	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)

	clock.tick(time.Hour)

	select {
	case <-renewer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("renewal batch did not complete")
	}

	cancel()
	sched.Stop()

	renewer.mu.Lock()
	defer renewer.mu.Unlock()
	require.Len(t, renewer.issued, 3)
	for _, call := range renewer.issued {
		assert.Equal(t, int64(2), call[1], "August falls in semester 2")
		assert.Equal(t, int64(2026), call[2])
	}
}

type fakeSweeper struct {
	calls chan time.Duration
}

func (f *fakeSweeper) SweepTemp(maxAge time.Duration) (int, error) {
	f.calls <- maxAge
	return 2, nil
}

func TestTempCleanupJob(t *testing.T) {
	sweeper := &fakeSweeper{calls: make(chan time.Duration, 1)}
	clock := newFakeClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	sched := New(clock, []Job{NewTempCleanupJob(6*time.Hour, 24*time.Hour, sweeper)})
	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)

	clock.tick(6 * time.Hour)

	select {
	case maxAge := <-sweeper.calls:
		assert.Equal(t, 24*time.Hour, maxAge)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup job did not run")
	}

	cancel()
	sched.Stop()
}
