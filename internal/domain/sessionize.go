package domain

import (
	"context"
	"time"
)

// ScheduleFetcher fetches schedule data from the provider (or a test double).
// Both calls are read-only and idempotent; results are never cached across
// reconciliation runs.
type ScheduleFetcher interface {
	GetSpeakers(ctx context.Context, src *SynchronizationSource) ([]SessionizeSpeaker, error)
	GetScheduleGrid(ctx context.Context, src *SynchronizationSource) (SessionizeGrid, error)
}

// SessionizeSpeaker is a speaker in the Sessionize Speakers response (flat list).
type SessionizeSpeaker struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	TagLine        string `json:"tagLine"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// SessionizeGrid is the Sessionize GridSmart API response shape: one entry per day.
type SessionizeGrid []SessionizeDateGrid

// SessionizeDateGrid represents one date's grid of rooms and sessions. The
// same room recurs across dates with the same provider ID.
type SessionizeDateGrid struct {
	Date  string               `json:"date"`
	Rooms []SessionizeGridRoom `json:"rooms"`
}

// SessionizeGridRoom is a room in the grid response.
type SessionizeGridRoom struct {
	ID       int                     `json:"id"`
	Name     string                  `json:"name"`
	Sessions []SessionizeGridSession `json:"sessions"`
}

// SessionizeGridSession is a session in the grid response. Description may be
// absent; sessions without an ID cannot be matched and are skipped by the engine.
type SessionizeGridSession struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Description *string                    `json:"description"`
	StartsAt    time.Time                  `json:"startsAt"`
	EndsAt      time.Time                  `json:"endsAt"`
	Speakers    []SessionizeSessionSpeaker `json:"speakers"`
}

// SessionizeSessionSpeaker is a speaker reference inside a grid session.
type SessionizeSessionSpeaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
