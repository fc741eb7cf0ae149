package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"matchchat/internal/auth"
	"matchchat/internal/mocks"
	"matchchat/internal/models"
	"matchchat/internal/repositories"
)

func TestResolveLocalAccount(t *testing.T) {
	accounts := new(mocks.AccountRepositoryMock)
	resolver := auth.NewResolver(accounts)

	accounts.On("FindByID", mock.Anything, "u-42").
		Return(models.Account{ID: "u-42", FirstName: "Ada", LastName: "Lovelace"}, nil).Once()

	id, err := resolver.Resolve(context.Background(), &auth.Claims{AccountID: "u-42"})
	require.NoError(t, err)
	assert.Equal(t, "u-42", id.ID)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, models.IdentityLocal, id.Kind)
	accounts.AssertExpectations(t)
}

func TestResolveLocalAccountMissing(t *testing.T) {
	accounts := new(mocks.AccountRepositoryMock)
	resolver := auth.NewResolver(accounts)

	accounts.On("FindByID", mock.Anything, "ghost").
		Return(models.Account{}, repositories.ErrAccountNotFound).Once()

	_, err := resolver.Resolve(context.Background(), &auth.Claims{AccountID: "ghost"})
	assert.ErrorIs(t, err, repositories.ErrAccountNotFound)
}

func TestResolveFederatedMaterialized(t *testing.T) {
	accounts := new(mocks.AccountRepositoryMock)
	resolver := auth.NewResolver(accounts)

	accounts.On("FindByProviderID", mock.Anything, "9911").
		Return(models.Account{ID: "u-7", FirstName: "Grace"}, nil).Once()

	id, err := resolver.Resolve(context.Background(), &auth.Claims{
		Federated: true, ProviderID: "9911", FirstName: "Ignored",
	})
	require.NoError(t, err)
	// A materialized account wins over the credential's embedded display data.
	assert.Equal(t, "u-7", id.ID)
	assert.Equal(t, "Grace", id.FirstName)
	assert.Equal(t, models.IdentityFederated, id.Kind)
}

func TestResolveFederatedFromClaims(t *testing.T) {
	accounts := new(mocks.AccountRepositoryMock)
	resolver := auth.NewResolver(accounts)

	accounts.On("FindByProviderID", mock.Anything, "9911").
		Return(models.Account{}, repositories.ErrAccountNotFound).Once()

	id, err := resolver.Resolve(context.Background(), &auth.Claims{
		Federated: true, ProviderID: "9911", FirstName: "Grace", LastName: "Hopper",
	})
	require.NoError(t, err)
	assert.Equal(t, "9911", id.ID)
	assert.Equal(t, "Grace", id.FirstName)
	assert.Equal(t, models.IdentityFederated, id.Kind)
}

func TestResolveFederatedLookupError(t *testing.T) {
	accounts := new(mocks.AccountRepositoryMock)
	resolver := auth.NewResolver(accounts)

	accounts.On("FindByProviderID", mock.Anything, "9911").
		Return(models.Account{}, assert.AnError).Once()

	_, err := resolver.Resolve(context.Background(), &auth.Claims{Federated: true, ProviderID: "9911"})
	assert.Error(t, err)
}
