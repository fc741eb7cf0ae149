package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchchat/internal/auth"
	"matchchat/internal/mocks"
	"matchchat/internal/models"
)

func setupSocketRouter(verifier *mocks.VerifierMock, resolver *mocks.ResolverMock) *gin.Engine {
	gin.SetMode(gin.TestMode)

	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	handler := NewSocketHandler(
		NewHub(zap.NewNop()), NewPresence(), verifier, resolver,
		new(mocks.ConnectionRepositoryMock), new(mocks.ChatRepositoryMock),
		publisher, zap.NewNop(),
	)

	r := gin.New()
	r.GET("/ws/chat", handler.Handle)
	return r
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	router := setupSocketRouter(new(mocks.VerifierMock), new(mocks.ResolverMock))

	req := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeAuthRequired)
}

func TestHandshakeRejectsInvalidToken(t *testing.T) {
	verifier := new(mocks.VerifierMock)
	verifier.On("Verify", "bad-token").Return(nil, auth.ErrInvalidToken).Once()
	router := setupSocketRouter(verifier, new(mocks.ResolverMock))

	req := httptest.NewRequest(http.MethodGet, "/ws/chat?token=bad-token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	verifier.AssertExpectations(t)
}

func TestHandshakeRejectsUnknownUser(t *testing.T) {
	verifier := new(mocks.VerifierMock)
	resolver := new(mocks.ResolverMock)
	verifier.On("Verify", "good-token").Return(&auth.Claims{AccountID: "ghost"}, nil).Once()
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(models.Identity{}, assert.AnError).Once()
	router := setupSocketRouter(verifier, resolver)

	req := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	verifier.AssertExpectations(t)
	resolver.AssertExpectations(t)
}

func TestBearerTokenSources(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	req := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", bearerToken(newCtx(req)))

	req = httptest.NewRequest(http.MethodGet, "/ws/chat?token=xyz", nil)
	assert.Equal(t, "xyz", bearerToken(newCtx(req)))

	req = httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", bearerToken(newCtx(req)))
}
