package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/database"
	"github.com/debatearchive/backend/internal/models"
)

type EntryRepository struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a new entry. The caller never controls the initial status;
// every submission starts pending.
func (r *EntryRepository) Create(entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', false, NOW(), NOW())
		RETURNING verified_status, is_locked, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		entry.ID,
		entry.Question,
		entry.AnswerSummary,
		entry.VideoID,
		entry.StartSeconds,
		entry.SubmittedBy,
	).Scan(&entry.VerifiedStatus, &entry.IsLocked, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID
func (r *EntryRepository) GetByID(id uuid.UUID) (*models.Entry, error) {
	query := `
		SELECT id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at
		FROM entries
		WHERE id = $1
	`

	entry := &models.Entry{}
	err := r.db.QueryRow(query, id).Scan(
		&entry.ID,
		&entry.Question,
		&entry.AnswerSummary,
		&entry.VideoID,
		&entry.StartSeconds,
		&entry.SubmittedBy,
		&entry.VerifiedStatus,
		&entry.IsLocked,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// List retrieves entries by status with optional full-text search
func (r *EntryRepository) List(status, search string, limit, offset int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at
		FROM entries
		WHERE verified_status = $1
	`
	args := []interface{}{status}

	if search != "" {
		query += ` AND search_vector @@ plainto_tsquery('english', $2)`
		args = append(args, search)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var entry models.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.Question,
			&entry.AnswerSummary,
			&entry.VideoID,
			&entry.StartSeconds,
			&entry.SubmittedBy,
			&entry.VerifiedStatus,
			&entry.IsLocked,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// UpsertStat inserts a stat or resolves the existing row with identical
// content; identical descriptions collapse to one shared row
func (r *EntryRepository) UpsertStat(stat *models.Stat) error {
	query := `
		INSERT INTO stats (id, description, source_url, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (description, COALESCE(source_url, '')) DO UPDATE SET description = EXCLUDED.description
		RETURNING id
	`

	if err := r.db.QueryRow(query, uuid.New(), stat.Description, stat.SourceURL).Scan(&stat.ID); err != nil {
		return fmt.Errorf("failed to upsert stat: %w", err)
	}
	return nil
}

// LinkStat attaches a stat to an entry, preserving submission order
func (r *EntryRepository) LinkStat(entryID, statID uuid.UUID, position int) error {
	query := `
		INSERT INTO entry_stats (id, entry_id, stat_id, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entry_id, stat_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, uuid.New(), entryID, statID, position); err != nil {
		return fmt.Errorf("failed to link stat: %w", err)
	}
	return nil
}

// UpsertVerse inserts a verse or resolves the existing (book, chapter, verse) row
func (r *EntryRepository) UpsertVerse(verse *models.BibleVerse) error {
	query := `
		INSERT INTO bible_verses (id, book, chapter, verse, text, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (book, chapter, verse) DO UPDATE SET book = EXCLUDED.book
		RETURNING id
	`

	if err := r.db.QueryRow(query, uuid.New(), verse.Book, verse.Chapter, verse.Verse, verse.Text).Scan(&verse.ID); err != nil {
		return fmt.Errorf("failed to upsert verse: %w", err)
	}
	return nil
}

// LinkVerse attaches a verse to an entry, preserving submission order
func (r *EntryRepository) LinkVerse(entryID, verseID uuid.UUID, position int) error {
	query := `
		INSERT INTO entry_bible_verses (id, entry_id, verse_id, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entry_id, verse_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, uuid.New(), entryID, verseID, position); err != nil {
		return fmt.Errorf("failed to link verse: %w", err)
	}
	return nil
}

// GetStatsByEntry returns the stats linked to an entry in submission order
func (r *EntryRepository) GetStatsByEntry(entryID uuid.UUID) ([]models.Stat, error) {
	query := `
		SELECT s.id, s.description, s.source_url
		FROM stats s
		INNER JOIN entry_stats es ON es.stat_id = s.id
		WHERE es.entry_id = $1
		ORDER BY es.position
	`

	rows, err := r.db.Query(query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	stats := []models.Stat{}
	for rows.Next() {
		var s models.Stat
		if err := rows.Scan(&s.ID, &s.Description, &s.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// GetVersesByEntry returns the verses linked to an entry in submission order
func (r *EntryRepository) GetVersesByEntry(entryID uuid.UUID) ([]models.BibleVerse, error) {
	query := `
		SELECT v.id, v.book, v.chapter, v.verse, v.text
		FROM bible_verses v
		INNER JOIN entry_bible_verses ev ON ev.verse_id = v.id
		WHERE ev.entry_id = $1
		ORDER BY ev.position
	`

	rows, err := r.db.Query(query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get verses: %w", err)
	}
	defer rows.Close()

	verses := []models.BibleVerse{}
	for rows.Next() {
		var v models.BibleVerse
		if err := rows.Scan(&v.ID, &v.Book, &v.Chapter, &v.Verse, &v.Text); err != nil {
			return nil, fmt.Errorf("failed to scan verse: %w", err)
		}
		verses = append(verses, v)
	}
	return verses, nil
}

// UpdateModeration applies a moderator status/lock change and appends the
// revision row in the same transaction; both commit or neither does.
func (r *EntryRepository) UpdateModeration(entryID uuid.UUID, revisedBy string, newStatus *string, newLocked *bool) (*models.Entry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current := &models.Entry{}
	err = tx.QueryRow(`
		SELECT id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at
		FROM entries WHERE id = $1 FOR UPDATE
	`, entryID).Scan(
		&current.ID,
		&current.Question,
		&current.AnswerSummary,
		&current.VideoID,
		&current.StartSeconds,
		&current.SubmittedBy,
		&current.VerifiedStatus,
		&current.IsLocked,
		&current.CreatedAt,
		&current.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	status := current.VerifiedStatus
	if newStatus != nil {
		status = *newStatus
	}
	locked := current.IsLocked
	if newLocked != nil {
		locked = *newLocked
	}

	change := models.ModerationChange{
		Action:    models.RevisionActionModerated,
		OldStatus: current.VerifiedStatus,
		NewStatus: status,
		OldLocked: current.IsLocked,
		NewLocked: locked,
		Timestamp: time.Now().UTC(),
	}
	changeJSON, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal revision: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO entry_revisions (id, entry_id, revised_by, changes_json, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, uuid.New(), entryID, revisedBy, changeJSON); err != nil {
		return nil, fmt.Errorf("failed to insert revision: %w", err)
	}

	updated := &models.Entry{}
	err = tx.QueryRow(`
		UPDATE entries SET verified_status = $2, is_locked = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at
	`, entryID, status, locked).Scan(
		&updated.ID,
		&updated.Question,
		&updated.AnswerSummary,
		&updated.VideoID,
		&updated.StartSeconds,
		&updated.SubmittedBy,
		&updated.VerifiedStatus,
		&updated.IsLocked,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit moderation update: %w", err)
	}

	return updated, nil
}

// Delete removes an entry after snapshotting it into the revision log,
// both inside one transaction. If the row is already gone the delete
// succeeds without an audit row; that race is accepted.
func (r *EntryRepository) Delete(entryID uuid.UUID, deletedBy string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshot := &models.Entry{}
	err = tx.QueryRow(`
		SELECT id, question, answer_summary, video_id, start_seconds, submitted_by, verified_status, is_locked, created_at, updated_at
		FROM entries WHERE id = $1 FOR UPDATE
	`, entryID).Scan(
		&snapshot.ID,
		&snapshot.Question,
		&snapshot.AnswerSummary,
		&snapshot.VideoID,
		&snapshot.StartSeconds,
		&snapshot.SubmittedBy,
		&snapshot.VerifiedStatus,
		&snapshot.IsLocked,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to snapshot entry: %w", err)
	}

	if err == nil {
		record := models.DeletionSnapshot{
			Action:       models.RevisionActionDeleted,
			DeletedEntry: *snapshot,
			Timestamp:    time.Now().UTC(),
		}
		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}

		if _, err := tx.Exec(`
			INSERT INTO entry_revisions (id, entry_id, revised_by, changes_json, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, uuid.New(), entryID, deletedBy, recordJSON); err != nil {
			return fmt.Errorf("failed to insert deletion revision: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE id = $1`, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	return nil
}
