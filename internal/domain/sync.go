package domain

import "context"

// SyncReport is the outcome of one reconciliation run: the conference plus
// the entity counts now present in the aggregate. Skipped is true when the
// conference has no synchronization source configured and the run was a
// successful no-op.
// swagger:model SyncReport
type SyncReport struct {
	ConferenceID  string `json:"conference_id"`
	Speakers      int    `json:"speakers"`
	Rooms         int    `json:"rooms"`
	Presentations int    `json:"presentations"`
	Skipped       bool   `json:"skipped"`
}

// SynchronizationService runs the schedule reconciliation engine for one
// conference: load the aggregate, fetch provider data, merge speakers, rooms,
// and presentations, and persist the whole aggregate back. Repeated runs with
// unchanged upstream data add nothing and change nothing.
type SynchronizationService interface {
	Synchronize(ctx context.Context, conferenceID string) (*SyncReport, error)
}

// SyncQueue accepts asynchronous synchronization requests, e.g. fired when a
// conference is created with a source already configured. Delivery is
// best-effort; failed runs are logged, not retried.
type SyncQueue interface {
	Enqueue(conferenceID string)
}
