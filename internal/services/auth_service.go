// Package services – AuthService
//
// This file implements AuthService, which owns account registration, login,
// token refresh, and profile reads. Passwords are stored as bcrypt hashes and
// sessions are stateless HS256 JWT pairs: a short-lived access token and a
// longer-lived refresh token carrying a "typ" claim so the two cannot be
// swapped for each other.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/config"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

// Token type claim values.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the JWT payload issued for both access and refresh tokens.
type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService provides account and token operations.
type AuthService struct {
	DB  *gorm.DB
	JWT config.JWTConfig

	// now is swappable for deterministic token expiry in tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService bound to a database handle and
// JWT settings.
func NewAuthService(db *gorm.DB, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{DB: db, JWT: jwtCfg, now: time.Now}
}

// Register creates a customer account. Staff accounts are provisioned by an
// admin through StaffService, never through self-registration.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*domain.User, *TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" || len(password) < 8 {
		return nil, nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, name, email, strings.TrimSpace(phone), string(hash), domain.RoleCustomer)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("user.id", u.ID))

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Login verifies credentials and returns a fresh token pair. A disabled
// account is rejected even with the correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, nil, ErrAccountDisabled
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The account is
// re-read so role changes and deactivation take effect on rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Refresh")
	defer span.End()

	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	span.SetAttributes(attribute.String("user.id", claims.Subject))

	u, err := repo.GetUser(ctx, s.DB, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrAccountDisabled
	}
	return s.issuePair(u)
}

// Me returns the profile for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ParseToken validates signature and expiry and returns the claims. It
// accepts both token types; callers check TokenType where it matters.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.JWT.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// issuePair signs a fresh access/refresh pair for the user.
func (s *AuthService) issuePair(u *domain.User) (*TokenPair, error) {
	access, err := s.sign(u, tokenTypeAccess, s.JWT.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(u, tokenTypeRefresh, s.JWT.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.JWT.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthService) sign(u *domain.User, typ string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:      u.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return tok.SignedString([]byte(s.JWT.Secret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
