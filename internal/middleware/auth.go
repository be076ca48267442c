package middleware

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// UserIDKey is the context key for the local user ID
	UserIDKey contextKey = "user_id"
)

// UserProvider maps an Auth0 identity to a local user, creating it if needed
type UserProvider interface {
	ResolveUserID(ctx context.Context, auth0ID, email string, name *string) (uuid.UUID, error)
}

// TokenValidator validates a raw JWT and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator    TokenValidator
	userProvider UserProvider
}

// NewAuthMiddleware creates a new AuthMiddleware with Auth0 configuration
func NewAuthMiddleware(domain, audience string, userProvider UserProvider) (*AuthMiddleware, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return NewAuthMiddlewareWithValidator(jwtValidator, userProvider), nil
}

// NewAuthMiddlewareWithValidator creates an AuthMiddleware around an existing validator
func NewAuthMiddlewareWithValidator(tokenValidator TokenValidator, userProvider UserProvider) *AuthMiddleware {
	return &AuthMiddleware{
		validator:    tokenValidator,
		userProvider: userProvider,
	}
}

// Authenticate returns an Echo middleware that validates JWT tokens and
// resolves the caller to a local user
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok || validatedClaims.RegisteredClaims.Subject == "" {
				return unauthorizedError(c, "Invalid claims")
			}

			auth0ID := validatedClaims.RegisteredClaims.Subject

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, auth0ID)

			if m.userProvider != nil {
				var email string
				var name *string
				if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok {
					email = custom.Email
					if custom.Name != "" {
						name = &custom.Name
					}
				}

				userID, err := m.userProvider.ResolveUserID(ctx, auth0ID, email, name)
				if err != nil {
					log.Error().Err(err).Str("auth0_id", auth0ID).Msg("User lookup failed")
					return unauthorizedError(c, "User could not be resolved")
				}
				ctx = context.WithValue(ctx, UserIDKey, userID)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetUserID extracts the local user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
