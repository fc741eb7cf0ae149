package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"matchchat/internal/auth"
	"matchchat/internal/models"
	"matchchat/internal/repositories"
)

type ConnectionRepositoryMock struct {
	mock.Mock
}

func (m *ConnectionRepositoryMock) HasAcceptedConnection(ctx context.Context, userID, otherID string) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) AppendMessage(ctx context.Context, userA, userB string, sender models.Identity, text string) (models.Message, error) {
	args := m.Called(ctx, userA, userB, sender, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *ChatRepositoryMock) History(ctx context.Context, userA, userB string) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type AccountRepositoryMock struct {
	mock.Mock
}

func (m *AccountRepositoryMock) FindByID(ctx context.Context, id string) (models.Account, error) {
	args := m.Called(ctx, id)
	var acct models.Account
	if val := args.Get(0); val != nil {
		acct = val.(models.Account)
	}
	return acct, args.Error(1)
}

func (m *AccountRepositoryMock) FindByProviderID(ctx context.Context, providerID string) (models.Account, error) {
	args := m.Called(ctx, providerID)
	var acct models.Account
	if val := args.Get(0); val != nil {
		acct = val.(models.Account)
	}
	return acct, args.Error(1)
}

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	var claims *auth.Claims
	if val := args.Get(0); val != nil {
		claims = val.(*auth.Claims)
	}
	return claims, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, claims *auth.Claims) (models.Identity, error) {
	args := m.Called(ctx, claims)
	var id models.Identity
	if val := args.Get(0); val != nil {
		id = val.(models.Identity)
	}
	return id, args.Error(1)
}

var _ repositories.ConnectionRepository = (*ConnectionRepositoryMock)(nil)
var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.AccountRepository = (*AccountRepositoryMock)(nil)
var _ auth.Verifier = (*VerifierMock)(nil)
