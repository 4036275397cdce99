package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencehub/internal/domain"
)

// fakeSyncService records Synchronize calls and signals on each one.
type fakeSyncService struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
	err   error
}

func newFakeSyncService() *fakeSyncService {
	return &fakeSyncService{done: make(chan struct{}, 64)}
}

func (f *fakeSyncService) Synchronize(ctx context.Context, conferenceID string) (*domain.SyncReport, error) {
	f.mu.Lock()
	f.calls = append(f.calls, conferenceID)
	f.mu.Unlock()
	f.done <- struct{}{}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SyncReport{ConferenceID: conferenceID}, nil
}

func (f *fakeSyncService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitForCalls(t *testing.T, svc *fakeSyncService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d synchronize calls, got %d", n, svc.callCount())
		}
	}
}

func TestSyncWorker_DrainsQueue(t *testing.T) {
	svc := newFakeSyncService()
	worker := NewSyncWorker(svc, testLogger(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	worker.Enqueue("conf-1")
	worker.Enqueue("conf-2")
	waitForCalls(t, svc, 2)

	cancel()
	worker.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []string{"conf-1", "conf-2"}, svc.calls)
}

func TestSyncWorker_ContinuesAfterFailure(t *testing.T) {
	svc := newFakeSyncService()
	svc.err = assert.AnError
	worker := NewSyncWorker(svc, testLogger(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	worker.Enqueue("conf-1")
	worker.Enqueue("conf-2")
	waitForCalls(t, svc, 2)

	cancel()
	worker.Wait()
	assert.Equal(t, 2, svc.callCount())
}

func TestSyncWorker_DropsWhenFull(t *testing.T) {
	svc := newFakeSyncService()
	worker := NewSyncWorker(svc, testLogger(), 1)

	// Worker not started: first request fills the buffer, the second drops.
	worker.Enqueue("conf-1")
	worker.Enqueue("conf-2")

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	waitForCalls(t, svc, 1)

	cancel()
	worker.Wait()
	require.Equal(t, 1, svc.callCount())
	assert.Equal(t, []string{"conf-1"}, svc.calls)
}

func TestSyncWorker_StopsOnContextCancel(t *testing.T) {
	svc := newFakeSyncService()
	worker := NewSyncWorker(svc, testLogger(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	cancel()
	worker.Wait()

	// Requests after shutdown are never processed.
	worker.Enqueue("conf-1")
	assert.Zero(t, svc.callCount())
}
