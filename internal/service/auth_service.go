package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/moneymate/moneymate-backend/internal/domain"
)

// AuthService maps Auth0 identities to local users
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// AuthenticateUser returns the local user for an Auth0 identity, creating it
// on first sight
func (s *AuthService) AuthenticateUser(ctx context.Context, auth0ID, email string, name *string) (*domain.User, error) {
	user, err := s.userRepo.CreateOrGetByAuth0ID(ctx, auth0ID, email, name)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}
	return user, nil
}

// ResolveUserID is AuthenticateUser reduced to the user's ID
func (s *AuthService) ResolveUserID(ctx context.Context, auth0ID, email string, name *string) (uuid.UUID, error) {
	user, err := s.AuthenticateUser(ctx, auth0ID, email, name)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// GetUserIDByAuth0ID looks up an existing user without provisioning one
func (s *AuthService) GetUserIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
