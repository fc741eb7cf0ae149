package models

import "time"

// Message is a persisted chat message. Messages are append-only: never edited
// or deleted in place, and ID reflects insertion order within the pair's chat.
type Message struct {
	ID              int64     `db:"id" json:"id"`
	ChatID          int64     `db:"chat_id" json:"chat_id"`
	SenderID        string    `db:"sender_id" json:"sender_id"`
	SenderFirstName string    `db:"sender_first_name" json:"sender_first_name"`
	Text            string    `db:"text" json:"text"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Chat is the durable conversation row for one unordered user pair. The pair
// is stored normalized (low < high lexicographically) so lookups are
// order-independent.
type Chat struct {
	ID              int64     `db:"id" json:"id"`
	ParticipantLow  string    `db:"participant_low" json:"participant_low"`
	ParticipantHigh string    `db:"participant_high" json:"participant_high"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
