package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/debatearchive/backend/internal/database"
)

// RateLimitRepository counts and appends rate-limit records. Rows are
// never updated; retention pruning is an external concern.
type RateLimitRepository struct {
	db *database.DB
}

func NewRateLimitRepository(db *database.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// CountByUser counts recent actions by a hashed user within the trailing window
func (r *RateLimitRepository) CountByUser(userIDHash, actionType string, windowMinutes int) (int, error) {
	query := `
		SELECT COUNT(*) FROM rate_limits
		WHERE user_id_hash = $1 AND action_type = $2
		AND created_at > NOW() - ($3 * INTERVAL '1 minute')
	`

	var count int
	if err := r.db.QueryRow(query, userIDHash, actionType, windowMinutes).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count user actions: %w", err)
	}
	return count, nil
}

// CountByIP counts recent actions from a hashed IP within the trailing window
func (r *RateLimitRepository) CountByIP(ipHash, actionType string, windowMinutes int) (int, error) {
	query := `
		SELECT COUNT(*) FROM rate_limits
		WHERE ip_hash = $1 AND action_type = $2
		AND created_at > NOW() - ($3 * INTERVAL '1 minute')
	`

	var count int
	if err := r.db.QueryRow(query, ipHash, actionType, windowMinutes).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ip actions: %w", err)
	}
	return count, nil
}

// Record appends one rate-limit row for both axes
func (r *RateLimitRepository) Record(userIDHash, ipHash, actionType string) error {
	query := `
		INSERT INTO rate_limits (id, user_id_hash, ip_hash, action_type, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	if _, err := r.db.Exec(query, uuid.New(), userIDHash, ipHash, actionType); err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}
