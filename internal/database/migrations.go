package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS entries (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				question TEXT NOT NULL,
				answer_summary TEXT,
				video_id VARCHAR(32) NOT NULL,
				start_seconds INT NOT NULL DEFAULT 0,
				submitted_by VARCHAR(255) NOT NULL,
				verified_status VARCHAR(20) NOT NULL DEFAULT 'pending',
				is_locked BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_entries_status ON entries(verified_status, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_entries_submitter ON entries(submitted_by);
		`,
		Down: `
			DROP TABLE IF EXISTS entries;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS stats (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				description TEXT NOT NULL,
				source_url TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX IF NOT EXISTS idx_stats_content ON stats(description, COALESCE(source_url, ''));

			CREATE TABLE IF NOT EXISTS bible_verses (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				book VARCHAR(50) NOT NULL,
				chapter INT NOT NULL,
				verse INT NOT NULL,
				text TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(book, chapter, verse)
			);
		`,
		Down: `
			DROP TABLE IF EXISTS stats;
			DROP TABLE IF EXISTS bible_verses;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS entry_stats (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				entry_id UUID NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
				stat_id UUID NOT NULL REFERENCES stats(id) ON DELETE CASCADE,
				position INT NOT NULL DEFAULT 0,
				UNIQUE(entry_id, stat_id)
			);

			CREATE TABLE IF NOT EXISTS entry_bible_verses (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				entry_id UUID NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
				verse_id UUID NOT NULL REFERENCES bible_verses(id) ON DELETE CASCADE,
				position INT NOT NULL DEFAULT 0,
				UNIQUE(entry_id, verse_id)
			);

			CREATE INDEX IF NOT EXISTS idx_entry_stats_entry ON entry_stats(entry_id);
			CREATE INDEX IF NOT EXISTS idx_entry_bible_verses_entry ON entry_bible_verses(entry_id);
		`,
		Down: `
			DROP TABLE IF EXISTS entry_stats;
			DROP TABLE IF EXISTS entry_bible_verses;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS votes (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				voter_id VARCHAR(255) NOT NULL,
				entry_id UUID NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
				vote_type VARCHAR(10) NOT NULL CHECK (vote_type IN ('upvote', 'downvote')),
				ip_hash VARCHAR(64) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(voter_id, entry_id)
			);

			CREATE INDEX IF NOT EXISTS idx_votes_entry ON votes(entry_id);
		`,
		Down: `
			DROP TABLE IF EXISTS votes;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS verifier_allowlist (
				user_id_hash VARCHAR(64) PRIMARY KEY,
				added_by_hash VARCHAR(64) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS verifier_allowlist;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS schema_migrations;
		`,
	},
	{
		Version: 7,
		Up: `
			CREATE TABLE IF NOT EXISTS rate_limits (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				user_id_hash VARCHAR(64),
				ip_hash VARCHAR(64),
				action_type VARCHAR(50) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_rate_limits_user ON rate_limits(user_id_hash, action_type, created_at);
			CREATE INDEX IF NOT EXISTS idx_rate_limits_ip ON rate_limits(ip_hash, action_type, created_at);
		`,
		Down: `
			DROP TABLE IF EXISTS rate_limits;
		`,
	},
	{
		Version: 8,
		Up: `
			CREATE TABLE IF NOT EXISTS entry_revisions (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				entry_id UUID NOT NULL,
				revised_by VARCHAR(255) NOT NULL,
				changes_json JSONB NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_entry_revisions_entry ON entry_revisions(entry_id);
		`,
		Down: `
			DROP TABLE IF EXISTS entry_revisions;
		`,
	},
	{
		Version: 9,
		Up: `
			ALTER TABLE entries ADD COLUMN IF NOT EXISTS search_vector tsvector;

			CREATE INDEX IF NOT EXISTS idx_entries_search ON entries USING GIN(search_vector);

			CREATE OR REPLACE FUNCTION entries_search_vector_update() RETURNS trigger AS $fn$
			BEGIN
				NEW.search_vector := to_tsvector('english',
					COALESCE(NEW.question, '') || ' ' || COALESCE(NEW.answer_summary, ''));
				RETURN NEW;
			END
			$fn$ LANGUAGE plpgsql;

			DROP TRIGGER IF EXISTS trg_entries_search_vector ON entries;
			CREATE TRIGGER trg_entries_search_vector
				BEFORE INSERT OR UPDATE OF question, answer_summary ON entries
				FOR EACH ROW EXECUTE FUNCTION entries_search_vector_update();

			UPDATE entries SET search_vector = to_tsvector('english',
				COALESCE(question, '') || ' ' || COALESCE(answer_summary, ''));
		`,
		Down: `
			DROP TRIGGER IF EXISTS trg_entries_search_vector ON entries;
			DROP FUNCTION IF EXISTS entries_search_vector_update();
			ALTER TABLE entries DROP COLUMN IF EXISTS search_vector;
		`,
	},
	{
		Version: 10,
		Up: `
			CREATE OR REPLACE FUNCTION calculate_weighted_score(entry_id_param UUID)
			RETURNS TABLE(upvotes BIGINT, downvotes BIGINT, weighted_score NUMERIC) AS $fn$
				SELECT
					COUNT(*) FILTER (WHERE vote_type = 'upvote'),
					COUNT(*) FILTER (WHERE vote_type = 'downvote'),
					COALESCE(SUM(CASE WHEN vote_type = 'upvote' THEN 1.0 ELSE -1.0 END), 0)
				FROM votes
				WHERE entry_id = entry_id_param;
			$fn$ LANGUAGE sql STABLE;
		`,
		Down: `
			DROP FUNCTION IF EXISTS calculate_weighted_score(UUID);
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	// Run pending migrations
	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
