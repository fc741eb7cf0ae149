package models

import (
	"database/sql"
	"time"
)

// Account is a locally-persisted user profile row.
type Account struct {
	ID         string         `db:"id" json:"id"`
	FirstName  string         `db:"first_name" json:"first_name"`
	LastName   string         `db:"last_name" json:"last_name"`
	Email      sql.NullString `db:"email" json:"-"`
	ProviderID sql.NullString `db:"provider_id" json:"-"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// Identity projects the account onto the common identity contract.
func (a Account) Identity(kind IdentityKind) Identity {
	return Identity{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Kind: kind}
}
