package models

// IdentityKind distinguishes how an identity is backed, not how it behaves.
// Core chat components never branch on it; only the account-lookup boundary does.
type IdentityKind string

const (
	// IdentityLocal is an account persisted in our own users table.
	IdentityLocal IdentityKind = "local"
	// IdentityFederated is an externally-authenticated identity. It may or may
	// not be materialized as a local account; display data travels with the
	// verified credential.
	IdentityFederated IdentityKind = "federated"
)

// Identity is the resolved, handshake-bound identity of a connection.
// ID is an opaque string, comparable only by exact equality.
type Identity struct {
	ID        string       `json:"id"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName,omitempty"`
	Kind      IdentityKind `json:"kind"`
}
