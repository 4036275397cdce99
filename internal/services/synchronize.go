package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"conferencehub/internal/domain"
)

// DefaultRoomCapacity is assigned to rooms created during reconciliation;
// the schedule provider does not supply capacity.
const DefaultRoomCapacity = 50

type synchronizationService struct {
	conferenceRepo domain.ConferenceRepository
	fetcher        domain.ScheduleFetcher
	logger         *slog.Logger
	contextTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*conferenceLock
}

// conferenceLock serializes runs for one conference ID. Two concurrent
// triggers for the same conference would otherwise each load the aggregate,
// merge independently, and let the second save win wholesale. Entries are
// refcounted so the lock map does not grow with every conference ever synced.
type conferenceLock struct {
	mu   sync.Mutex
	refs int
}

// NewSynchronizationService creates the schedule reconciliation engine.
func NewSynchronizationService(conferenceRepo domain.ConferenceRepository, fetcher domain.ScheduleFetcher, logger *slog.Logger, timeout time.Duration) domain.SynchronizationService {
	return &synchronizationService{
		conferenceRepo: conferenceRepo,
		fetcher:        fetcher,
		logger:         logger,
		contextTimeout: timeout,
		locks:          make(map[string]*conferenceLock),
	}
}

// lockConference blocks until this goroutine holds the conference's lock.
func (s *synchronizationService) lockConference(conferenceID string) *conferenceLock {
	s.mu.Lock()
	l, ok := s.locks[conferenceID]
	if !ok {
		l = &conferenceLock{}
		s.locks[conferenceID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

// unlockConference releases the lock and evicts the map entry once no run
// holds or waits on it.
func (s *synchronizationService) unlockConference(conferenceID string, l *conferenceLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, conferenceID)
	}
	s.mu.Unlock()
}

func (s *synchronizationService) Synchronize(ctx context.Context, conferenceID string) (*domain.SyncReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	lock := s.lockConference(conferenceID)
	defer s.unlockConference(conferenceID, lock)

	conference, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("conference %s: %w", conferenceID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load conference: %w", err)
	}

	if !conference.SyncSource.Configured() {
		s.logger.Info("no sync source configured, nothing to do", "conference_id", conferenceID)
		return s.report(conference, true), nil
	}
	src := conference.SyncSource

	externalSpeakers, err := s.fetcher.GetSpeakers(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch speakers: %w", err)
	}
	speakerIDs := s.mergeSpeakers(conference, externalSpeakers)

	grid, err := s.fetcher.GetScheduleGrid(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule grid: %w", err)
	}
	roomIDs := s.mergeRooms(conference, grid)
	s.mergePresentations(conference, grid, roomIDs, speakerIDs)

	if err := s.conferenceRepo.Update(ctx, conference); err != nil {
		return nil, fmt.Errorf("save conference: %w", err)
	}

	report := s.report(conference, false)
	s.logger.Info("synchronization complete",
		"conference_id", conferenceID,
		"speakers", report.Speakers,
		"rooms", report.Rooms,
		"presentations", report.Presentations,
	)
	return report, nil
}

func (s *synchronizationService) report(c *domain.Conference, skipped bool) *domain.SyncReport {
	return &domain.SyncReport{
		ConferenceID:  c.ID,
		Speakers:      len(c.Speakers),
		Rooms:         len(c.Rooms),
		Presentations: len(c.Presentations),
		Skipped:       skipped,
	}
}

// mergeSpeakers reconciles the provider's flat speaker list into the
// aggregate and returns the external-to-local ID mapping for this run.
// Existing speakers are reused as-is; the provider's data never overwrites
// locally held speaker fields.
func (s *synchronizationService) mergeSpeakers(c *domain.Conference, externals []domain.SessionizeSpeaker) map[string]string {
	localIDs := make(map[string]string, len(externals))
	for _, ext := range externals {
		if ext.ID == "" {
			continue
		}
		if existing, ok := c.SpeakerByExternalID(ext.ID); ok {
			localIDs[ext.ID] = existing.ID
			continue
		}
		name := ext.FullName
		if name == "" {
			name = "Unknown"
		}
		speaker, err := domain.NewSpeaker(name, ext.TagLine, ext.Bio, ext.ProfilePicture, ext.ID)
		if err != nil {
			s.logger.Warn("skipping speaker", "external_id", ext.ID, "err", err)
			continue
		}
		if err := c.AddSpeaker(speaker); err != nil {
			s.logger.Warn("skipping speaker", "external_id", ext.ID, "err", err)
			continue
		}
		localIDs[ext.ID] = speaker.ID
	}
	return localIDs
}

// mergeRooms reconciles every room across every day of the grid exactly once
// (the same room recurs on each day with the same provider ID) and returns
// the external-to-local ID mapping for this run.
func (s *synchronizationService) mergeRooms(c *domain.Conference, grid domain.SessionizeGrid) map[string]string {
	localIDs := make(map[string]string)
	for _, day := range grid {
		for _, extRoom := range day.Rooms {
			extID := strconv.Itoa(extRoom.ID)
			if _, seen := localIDs[extID]; seen {
				continue
			}
			if existing, ok := c.RoomByExternalID(extID); ok {
				localIDs[extID] = existing.ID
				continue
			}
			name := extRoom.Name
			if name == "" {
				name = "Unknown"
			}
			room, err := domain.NewRoom(name, DefaultRoomCapacity, extID)
			if err != nil {
				s.logger.Warn("skipping room", "external_id", extID, "err", err)
				continue
			}
			if err := c.AddRoom(room); err != nil {
				s.logger.Warn("skipping room", "external_id", extID, "err", err)
				continue
			}
			localIDs[extID] = room.ID
		}
	}
	return localIDs
}

// mergePresentations reconciles every session in the grid. Sessions that
// cannot be matched or that would violate an aggregate invariant are skipped
// individually; one malformed session never aborts the rest of the run.
func (s *synchronizationService) mergePresentations(c *domain.Conference, grid domain.SessionizeGrid, roomIDs, speakerIDs map[string]string) {
	for _, day := range grid {
		for _, extRoom := range day.Rooms {
			roomID, roomOK := roomIDs[strconv.Itoa(extRoom.ID)]
			for _, session := range extRoom.Sessions {
				if session.ID == "" {
					// Untrackable without an external identifier.
					continue
				}
				if !roomOK {
					s.logger.Warn("session room missing from room mapping",
						"session_id", session.ID, "room_id", extRoom.ID)
					continue
				}
				resolved := resolveSpeakers(session.Speakers, speakerIDs)
				if len(resolved) == 0 {
					s.logger.Warn("session has no resolvable speakers", "session_id", session.ID)
					continue
				}
				desc := ""
				if session.Description != nil {
					desc = *session.Description
				}

				if existing, ok := c.PresentationByExternalID(session.ID); ok {
					// Updates honor the same date bounds as creation; an
					// upstream move outside the conference dates leaves the
					// presentation as it was.
					if !c.WithinDates(session.StartsAt, session.EndsAt) {
						s.logger.Warn("skipping session update, outside conference dates",
							"session_id", session.ID,
							"starts_at", session.StartsAt,
							"ends_at", session.EndsAt,
						)
						continue
					}
					s.updatePresentation(existing, session, desc, roomID, resolved)
					continue
				}
				p, err := domain.NewPresentation(session.Title, desc, session.StartsAt, session.EndsAt, roomID, resolved, session.ID)
				if err != nil {
					s.logger.Warn("skipping session", "session_id", session.ID, "err", err)
					continue
				}
				if err := c.AddPresentation(p); err != nil {
					s.logger.Warn("skipping session", "session_id", session.ID, "err", err)
					continue
				}
			}
		}
	}
}

// resolveSpeakers maps the session's external speaker references through the
// speaker mapping, dropping references that do not resolve and duplicates.
func resolveSpeakers(refs []domain.SessionizeSessionSpeaker, speakerIDs map[string]string) []string {
	seen := make(map[string]struct{}, len(refs))
	var resolved []string
	for _, ref := range refs {
		localID, ok := speakerIDs[ref.ID]
		if !ok {
			continue
		}
		if _, dup := seen[localID]; dup {
			continue
		}
		seen[localID] = struct{}{}
		resolved = append(resolved, localID)
	}
	return resolved
}

// updatePresentation applies the upstream session to a matched presentation.
// The speaker set is converged with the minimal add/remove calls rather than
// cleared and rebuilt, so unaffected speakers are never touched. Additions
// run before removals; replacing the only speaker would otherwise trip the
// last-speaker rule.
func (s *synchronizationService) updatePresentation(p *domain.Presentation, ext domain.SessionizeGridSession, desc, roomID string, speakerIDs []string) {
	changed := p.Title != ext.Title || p.Description != desc ||
		!p.StartTime.Equal(ext.StartsAt) || !p.EndTime.Equal(ext.EndsAt) ||
		p.RoomID != roomID

	if err := p.UpdateDetails(ext.Title, desc, ext.StartsAt, ext.EndsAt); err != nil {
		s.logger.Warn("skipping session update", "session_id", ext.ID, "err", err)
		return
	}
	if err := p.ChangeRoom(roomID); err != nil {
		s.logger.Warn("skipping session room change", "session_id", ext.ID, "err", err)
		return
	}

	toAdd, toRemove := diffSpeakerSets(p.SpeakerIDs, speakerIDs)
	if len(toAdd) > 0 || len(toRemove) > 0 {
		changed = true
	}
	for _, id := range toAdd {
		if err := p.AddSpeaker(id); err != nil {
			s.logger.Warn("add speaker failed", "session_id", ext.ID, "speaker_id", id, "err", err)
		}
	}
	for _, id := range toRemove {
		if err := p.RemoveSpeaker(id); err != nil {
			s.logger.Warn("remove speaker failed", "session_id", ext.ID, "speaker_id", id, "err", err)
		}
	}

	if changed {
		s.logger.Info("presentation updated", "session_id", ext.ID, "title", ext.Title)
	}
}

// diffSpeakerSets compares the current and desired speaker ID sets (sorted)
// and returns the exact additions and removals needed to converge.
func diffSpeakerSets(current, desired []string) (toAdd, toRemove []string) {
	cur := append([]string(nil), current...)
	des := append([]string(nil), desired...)
	sort.Strings(cur)
	sort.Strings(des)
	i, j := 0, 0
	for i < len(cur) && j < len(des) {
		switch {
		case cur[i] == des[j]:
			i++
			j++
		case cur[i] < des[j]:
			toRemove = append(toRemove, cur[i])
			i++
		default:
			toAdd = append(toAdd, des[j])
			j++
		}
	}
	toRemove = append(toRemove, cur[i:]...)
	toAdd = append(toAdd, des[j:]...)
	return toAdd, toRemove
}
