package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/testutil"
)

func TestAuthHandler_Me(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	name := "Ada"
	user := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   "auth0|ada",
		Email:     "ada@example.com",
		Name:      &name,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	repo.AddUser(user)
	h := NewAuthHandler(service.NewAuthService(repo))

	c, rec := newRequest(http.MethodGet, "/api/v1/auth/me", "", user.ID)
	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp UserResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, user.ID.String(), resp.ID)
	assert.Equal(t, "ada@example.com", resp.Email)
	require.NotNil(t, resp.Name)
	assert.Equal(t, "Ada", *resp.Name)
	assert.Equal(t, "2025-01-02T03:04:05Z", resp.CreatedAt)
}

func TestAuthHandler_Me_Unauthorized(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService(testutil.NewMockUserRepository()))

	c, rec := newRequest(http.MethodGet, "/api/v1/auth/me", "", uuid.Nil)
	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me_UnknownUser(t *testing.T) {
	h := NewAuthHandler(service.NewAuthService(testutil.NewMockUserRepository()))

	c, rec := newRequest(http.MethodGet, "/api/v1/auth/me", "", uuid.New())
	require.NoError(t, h.Me(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
