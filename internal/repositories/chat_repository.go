package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"matchchat/internal/models"
)

// ChatRepository persists conversations keyed by unordered user pair.
// The transport-level room id is never a storage key.
type ChatRepository interface {
	// AppendMessage locates or creates the chat for the pair and appends a
	// message. The returned Message is the durably stored row, so the caller
	// broadcasts exactly what was saved.
	AppendMessage(ctx context.Context, userA, userB string, sender models.Identity, text string) (models.Message, error)
	// History returns all messages for the pair in insertion order. A pair
	// with no chat yet yields an empty slice, not an error.
	History(ctx context.Context, userA, userB string) ([]models.Message, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// normalizePair orders the two ids so the unordered pair maps to one row.
func normalizePair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

func (r *ChatRepo) getOrCreateChat(ctx context.Context, userA, userB string) (models.Chat, error) {
	low, high := normalizePair(userA, userB)

	var chat models.Chat
	query := `SELECT id, participant_low, participant_high, created_at FROM chats
        WHERE participant_low=$1 AND participant_high=$2`
	err := r.db.GetContext(ctx, &chat, query, low, high)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, err
	}

	// Two concurrent first messages may race here; ON CONFLICT keeps the
	// insert idempotent and the follow-up select resolves the winner's row.
	if _, err := r.db.ExecContext(ctx, `INSERT INTO chats (participant_low, participant_high)
        VALUES ($1, $2) ON CONFLICT (participant_low, participant_high) DO NOTHING`, low, high); err != nil {
		return models.Chat{}, err
	}
	err = r.db.GetContext(ctx, &chat, query, low, high)
	return chat, err
}

// AppendMessage stores a message for the pair and returns the stored row.
func (r *ChatRepo) AppendMessage(ctx context.Context, userA, userB string, sender models.Identity, text string) (models.Message, error) {
	chat, err := r.getOrCreateChat(ctx, userA, userB)
	if err != nil {
		return models.Message{}, err
	}

	var msg models.Message
	err = r.db.QueryRowxContext(ctx, `INSERT INTO chat_messages (chat_id, sender_id, sender_first_name, text)
        VALUES ($1, $2, $3, $4)
        RETURNING id, chat_id, sender_id, sender_first_name, text, created_at, updated_at`,
		chat.ID, sender.ID, sender.FirstName, text).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.SenderFirstName, &msg.Text, &msg.CreatedAt, &msg.UpdatedAt)
	return msg, err
}

// History returns the pair's messages in insertion order. Sender display names
// come from the users table for local accounts; federated senders fall back to
// the name captured at send time.
func (r *ChatRepo) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	low, high := normalizePair(userA, userB)

	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT id, participant_low, participant_high, created_at FROM chats
        WHERE participant_low=$1 AND participant_high=$2`, low, high)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	query := `SELECT m.id, m.chat_id, m.sender_id,
            COALESCE(u.first_name, m.sender_first_name) AS sender_first_name,
            m.text, m.created_at, m.updated_at
        FROM chat_messages m
        LEFT JOIN users u ON u.id = m.sender_id
        WHERE m.chat_id=$1
        ORDER BY m.id ASC`
	msgs := []models.Message{}
	err = r.db.SelectContext(ctx, &msgs, query, chat.ID)
	return msgs, err
}
