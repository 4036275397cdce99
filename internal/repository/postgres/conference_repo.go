package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"conferencehub/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

// NewConferenceRepository returns a domain.ConferenceRepository implemented
// with Postgres. The aggregate is stored across five tables (conferences,
// rooms, speakers, presentations, presentation_speakers) and always read and
// written as a whole.
func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO conferences (id, owner_id, title, city, country, start_date, end_date, image_url,
			sync_source_type, sync_source_url, sync_source_api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	srcType, srcURL, srcKey := syncSourceColumns(c.SyncSource)
	if _, err := tx.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Title, c.City, c.Country, c.StartDate, c.EndDate, nullString(c.ImageURL),
		srcType, srcURL, srcKey, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return err
	}
	if err := insertChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `
		SELECT id, owner_id, title, city, country, start_date, end_date, image_url,
			sync_source_type, sync_source_url, sync_source_api_key, created_at, updated_at
		FROM conferences
		WHERE id = $1
	`
	c := &domain.Conference{}
	var imageURL, srcType, srcURL, srcKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.City, &c.Country, &c.StartDate, &c.EndDate, &imageURL,
		&srcType, &srcURL, &srcKey, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c.ImageURL = imageURL.String
	if srcType.Valid {
		c.SyncSource = &domain.SynchronizationSource{
			Type:   domain.SyncSourceType(srcType.String),
			URL:    srcURL.String,
			APIKey: srcKey.String,
		}
	}
	if err := r.loadChildren(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) loadChildren(ctx context.Context, c *domain.Conference) error {
	c.Rooms = []*domain.Room{}
	c.Speakers = []*domain.Speaker{}
	c.Presentations = []*domain.Presentation{}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, capacity, external_id
		FROM rooms
		WHERE conference_id = $1
		ORDER BY name
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		room := &domain.Room{}
		var extID sql.NullString
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &extID); err != nil {
			return err
		}
		room.ExternalID = extID.String
		c.Rooms = append(c.Rooms, room)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	speakerRows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, tag_line, bio, profile_picture_url, external_id
		FROM speakers
		WHERE conference_id = $1
		ORDER BY name
	`, c.ID)
	if err != nil {
		return err
	}
	defer speakerRows.Close()
	for speakerRows.Next() {
		s := &domain.Speaker{}
		var tagLine, bio, picture, extID sql.NullString
		if err := speakerRows.Scan(&s.ID, &s.Name, &tagLine, &bio, &picture, &extID); err != nil {
			return err
		}
		s.TagLine = tagLine.String
		s.Bio = bio.String
		s.ProfilePictureURL = picture.String
		s.ExternalID = extID.String
		c.Speakers = append(c.Speakers, s)
	}
	if err := speakerRows.Err(); err != nil {
		return err
	}

	presRows, err := r.DB.QueryContext(ctx, `
		SELECT id, room_id, title, description, start_time, end_time, external_id
		FROM presentations
		WHERE conference_id = $1
		ORDER BY start_time, room_id
	`, c.ID)
	if err != nil {
		return err
	}
	defer presRows.Close()
	var presIDs []string
	for presRows.Next() {
		p := &domain.Presentation{SpeakerIDs: []string{}}
		var desc, extID sql.NullString
		if err := presRows.Scan(&p.ID, &p.RoomID, &p.Title, &desc, &p.StartTime, &p.EndTime, &extID); err != nil {
			return err
		}
		p.Description = desc.String
		p.ExternalID = extID.String
		c.Presentations = append(c.Presentations, p)
		presIDs = append(presIDs, p.ID)
	}
	if err := presRows.Err(); err != nil {
		return err
	}
	if len(presIDs) == 0 {
		return nil
	}

	linkRows, err := r.DB.QueryContext(ctx,
		`SELECT presentation_id, speaker_id FROM presentation_speakers WHERE presentation_id = ANY($1)`,
		pq.Array(presIDs))
	if err != nil {
		return err
	}
	defer linkRows.Close()
	speakersByPres := make(map[string][]string)
	for linkRows.Next() {
		var presID, speakerID string
		if err := linkRows.Scan(&presID, &speakerID); err != nil {
			return err
		}
		speakersByPres[presID] = append(speakersByPres[presID], speakerID)
	}
	if err := linkRows.Err(); err != nil {
		return err
	}
	for _, p := range c.Presentations {
		if ids := speakersByPres[p.ID]; ids != nil {
			p.SpeakerIDs = ids
		}
	}
	return nil
}

// Update replaces the whole aggregate: the root row is updated and every
// child collection is deleted and reinserted in one transaction. Local IDs
// are app-generated, so reinserting preserves them.
func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE conferences
		SET title = $2, city = $3, country = $4, start_date = $5, end_date = $6, image_url = $7,
			sync_source_type = $8, sync_source_url = $9, sync_source_api_key = $10, updated_at = NOW()
		WHERE id = $1
	`
	srcType, srcURL, srcKey := syncSourceColumns(c.SyncSource)
	result, err := tx.ExecContext(ctx, query,
		c.ID, c.Title, c.City, c.Country, c.StartDate, c.EndDate, nullString(c.ImageURL),
		srcType, srcURL, srcKey,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	// presentation_speakers and presentations go first to satisfy foreign keys.
	for _, stmt := range []string{
		`DELETE FROM presentation_speakers WHERE presentation_id IN (SELECT id FROM presentations WHERE conference_id = $1)`,
		`DELETE FROM presentations WHERE conference_id = $1`,
		`DELETE FROM rooms WHERE conference_id = $1`,
		`DELETE FROM speakers WHERE conference_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, c.ID); err != nil {
			return err
		}
	}
	if err := insertChildren(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func insertChildren(ctx context.Context, tx *sql.Tx, c *domain.Conference) error {
	for _, room := range c.Rooms {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (id, conference_id, name, capacity, external_id)
			VALUES ($1, $2, $3, $4, $5)
		`, room.ID, c.ID, room.Name, room.Capacity, nullString(room.ExternalID)); err != nil {
			return fmt.Errorf("insert room %s: %w", room.Name, err)
		}
	}
	for _, speaker := range c.Speakers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO speakers (id, conference_id, name, tag_line, bio, profile_picture_url, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, speaker.ID, c.ID, speaker.Name, nullString(speaker.TagLine), nullString(speaker.Bio),
			nullString(speaker.ProfilePictureURL), nullString(speaker.ExternalID)); err != nil {
			return fmt.Errorf("insert speaker %s: %w", speaker.Name, err)
		}
	}
	for _, p := range c.Presentations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO presentations (id, conference_id, room_id, title, description, start_time, end_time, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, c.ID, p.RoomID, p.Title, nullString(p.Description), p.StartTime, p.EndTime,
			nullString(p.ExternalID)); err != nil {
			return fmt.Errorf("insert presentation %s: %w", p.Title, err)
		}
		for _, speakerID := range p.SpeakerIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO presentation_speakers (presentation_id, speaker_id)
				VALUES ($1, $2)
			`, p.ID, speakerID); err != nil {
				return fmt.Errorf("insert presentation speaker: %w", err)
			}
		}
	}
	return nil
}

func (r *conferenceRepository) ListByOwnerID(ctx context.Context, ownerID string, p domain.PaginationParams) ([]*domain.Conference, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conferences WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, owner_id, title, city, country, start_date, end_date, image_url,
			sync_source_type, sync_source_url, sync_source_api_key, created_at, updated_at
		FROM conferences
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	// List view returns root rows only; child collections are loaded on GetByID.
	var conferences []*domain.Conference
	for rows.Next() {
		c := &domain.Conference{}
		var imageURL, srcType, srcURL, srcKey sql.NullString
		if err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Title, &c.City, &c.Country, &c.StartDate, &c.EndDate, &imageURL,
			&srcType, &srcURL, &srcKey, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		c.ImageURL = imageURL.String
		if srcType.Valid {
			c.SyncSource = &domain.SynchronizationSource{
				Type:   domain.SyncSourceType(srcType.String),
				URL:    srcURL.String,
				APIKey: srcKey.String,
			}
		}
		conferences = append(conferences, c)
	}
	return conferences, total, rows.Err()
}

func syncSourceColumns(src *domain.SynchronizationSource) (srcType, srcURL, srcKey sql.NullString) {
	if src == nil {
		return
	}
	srcType = sql.NullString{String: string(src.Type), Valid: true}
	srcURL = nullString(src.URL)
	srcKey = nullString(src.APIKey)
	return
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
