package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencehub/internal/domain"
)

type fakeSyncQueue struct {
	enqueued []string
}

func (f *fakeSyncQueue) Enqueue(conferenceID string) {
	f.enqueued = append(f.enqueued, conferenceID)
}

func TestCreateConference_EnqueuesSyncWhenSourceConfigured(t *testing.T) {
	repo := newFakeConferenceRepo()
	queue := &fakeSyncQueue{}
	svc := NewConferenceService(repo, queue, time.Second)

	conference := syncedConference(t)
	err := svc.CreateConference(context.Background(), conference)
	require.NoError(t, err)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, conference.ID, queue.enqueued[0])
	_, ok := repo.byID[conference.ID]
	assert.True(t, ok)
}

func TestCreateConference_NoEnqueueWithoutSource(t *testing.T) {
	repo := newFakeConferenceRepo()
	queue := &fakeSyncQueue{}
	svc := NewConferenceService(repo, queue, time.Second)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	conference, err := domain.NewConference("owner-1", "LocalConf", "Madrid", "Spain", start, start)
	require.NoError(t, err)

	require.NoError(t, svc.CreateConference(context.Background(), conference))
	assert.Empty(t, queue.enqueued)
}

func TestCreateConference_NilQueueTolerated(t *testing.T) {
	repo := newFakeConferenceRepo()
	svc := NewConferenceService(repo, nil, time.Second)

	conference := syncedConference(t)
	require.NoError(t, svc.CreateConference(context.Background(), conference))
}

func TestCreateConference_MissingOwner(t *testing.T) {
	svc := NewConferenceService(newFakeConferenceRepo(), nil, time.Second)

	conference := syncedConference(t)
	conference.OwnerID = ""

	err := svc.CreateConference(context.Background(), conference)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetConferenceByID_NotFound(t *testing.T) {
	svc := NewConferenceService(newFakeConferenceRepo(), nil, time.Second)

	_, err := svc.GetConferenceByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMyConferences_EmptyIsNotNil(t *testing.T) {
	svc := NewConferenceService(newFakeConferenceRepo(), nil, time.Second)

	conferences, total, err := svc.ListMyConferences(context.Background(), "owner-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, conferences)
	assert.Empty(t, conferences)
}

func TestConfigureSyncSource_OwnerOnly(t *testing.T) {
	repo := newFakeConferenceRepo()
	svc := NewConferenceService(repo, nil, time.Second)

	conference := syncedConference(t)
	repo.byID[conference.ID] = conference

	src, err := domain.NewSyncSourceWithAPIKey(domain.SyncSourceSessionize, "newkey")
	require.NoError(t, err)

	err = svc.ConfigureSyncSource(context.Background(), conference.ID, "someone-else", src)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, repo.updateCalls)
}

func TestConfigureSyncSource_UpdatesAndClears(t *testing.T) {
	repo := newFakeConferenceRepo()
	svc := NewConferenceService(repo, nil, time.Second)

	conference := syncedConference(t)
	repo.byID[conference.ID] = conference

	src, err := domain.NewSyncSourceWithURL(domain.SyncSourceSessionize, "https://sessionize.com/api/v2/zzz")
	require.NoError(t, err)
	require.NoError(t, svc.ConfigureSyncSource(context.Background(), conference.ID, conference.OwnerID, src))
	require.True(t, conference.SyncSource.Configured())
	assert.Equal(t, "https://sessionize.com/api/v2/zzz", conference.SyncSource.URL)

	require.NoError(t, svc.ConfigureSyncSource(context.Background(), conference.ID, conference.OwnerID, nil))
	assert.False(t, conference.SyncSource.Configured())
	assert.Equal(t, 2, repo.updateCalls)
}

func TestConfigureSyncSource_NotFound(t *testing.T) {
	svc := NewConferenceService(newFakeConferenceRepo(), nil, time.Second)

	err := svc.ConfigureSyncSource(context.Background(), "missing", "owner-1", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
