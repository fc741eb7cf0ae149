package models

import "time"

// Connection request statuses. Only an accepted edge authorizes chat.
const (
	ConnectionIgnored    = "ignored"
	ConnectionInterested = "interested"
	ConnectionAccepted   = "accepted"
	ConnectionRejected   = "rejected"
)

// ConnectionEdge is a directed connection request between two users.
// The chat core only ever reads these; the request-management flow owns them.
type ConnectionEdge struct {
	ID         int64     `db:"id" json:"id"`
	FromUserID string    `db:"from_user_id" json:"from_user_id"`
	ToUserID   string    `db:"to_user_id" json:"to_user_id"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
