package auth

import (
	"context"
	"errors"

	"matchchat/internal/models"
	"matchchat/internal/repositories"
)

// Resolver turns verified claims into a concrete Identity. This is the only
// place that branches on how an identity is backed; everything downstream
// works against models.Identity.
type Resolver struct {
	accounts repositories.AccountRepository
}

// NewResolver constructs a Resolver.
func NewResolver(accounts repositories.AccountRepository) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve maps claims to an identity.
//
// Local claims must match a persisted account. Federated claims prefer a
// materialized account for that provider id; otherwise the identity is built
// from the display fields the verified credential carries, with the provider
// id serving as the opaque user identifier.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (models.Identity, error) {
	if !claims.Federated {
		acct, err := r.accounts.FindByID(ctx, claims.AccountID)
		if err != nil {
			return models.Identity{}, err
		}
		return acct.Identity(models.IdentityLocal), nil
	}

	acct, err := r.accounts.FindByProviderID(ctx, claims.ProviderID)
	if err == nil {
		return acct.Identity(models.IdentityFederated), nil
	}
	if !errors.Is(err, repositories.ErrAccountNotFound) {
		return models.Identity{}, err
	}

	return models.Identity{
		ID:        claims.ProviderID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Kind:      models.IdentityFederated,
	}, nil
}
