package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"matchchat/internal/models"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository resolves locally-persisted user profiles.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (models.Account, error)
	// FindByProviderID resolves a federated identity that was materialized
	// as a local account.
	FindByProviderID(ctx context.Context, providerID string) (models.Account, error)
}

// AccountRepo is a sqlx implementation of AccountRepository.
type AccountRepo struct {
	db *sqlx.DB
}

// NewAccountRepo constructs an AccountRepo.
func NewAccountRepo(db *sqlx.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// FindByID fetches an account by primary id.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (models.Account, error) {
	var acct models.Account
	err := r.db.GetContext(ctx, &acct, `SELECT id, first_name, last_name, email, provider_id, created_at
        FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	return acct, err
}

// FindByProviderID fetches an account by external provider id.
func (r *AccountRepo) FindByProviderID(ctx context.Context, providerID string) (models.Account, error) {
	var acct models.Account
	err := r.db.GetContext(ctx, &acct, `SELECT id, first_name, last_name, email, provider_id, created_at
        FROM users WHERE provider_id=$1`, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	return acct, err
}
