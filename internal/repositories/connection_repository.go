package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"matchchat/internal/models"
)

// ConnectionRepository is read-only access to the connection-request graph.
// The request-management flow owns writes; chat only ever asks one question.
type ConnectionRepository interface {
	// HasAcceptedConnection reports whether an accepted edge exists between
	// the two users, in either direction. Callers must re-check on every send:
	// an edge can be revoked between messages.
	HasAcceptedConnection(ctx context.Context, userID, otherID string) (bool, error)
}

// ConnectionRepo is a sqlx implementation of ConnectionRepository.
type ConnectionRepo struct {
	db *sqlx.DB
}

// NewConnectionRepo constructs a ConnectionRepo.
func NewConnectionRepo(db *sqlx.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

// HasAcceptedConnection checks for an accepted edge between the users.
func (r *ConnectionRepo) HasAcceptedConnection(ctx context.Context, userID, otherID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
        SELECT 1 FROM connection_requests
        WHERE ((from_user_id=$1 AND to_user_id=$2) OR (from_user_id=$2 AND to_user_id=$1))
        AND status=$3)`
	err := r.db.GetContext(ctx, &exists, query, userID, otherID, models.ConnectionAccepted)
	return exists, err
}
