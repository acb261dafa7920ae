package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sfotel "github.com/Strob0t/schoolforge/internal/adapter/otel"
	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/domain"
	"github.com/Strob0t/schoolforge/internal/domain/user"
	"github.com/Strob0t/schoolforge/internal/password"
	"github.com/Strob0t/schoolforge/internal/port/database"
)

// ErrInvalidCredentials is returned for an unknown email, an inactive
// account, and a wrong password alike.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

// ErrInvalidSession is returned for any token that fails to parse or verify.
var ErrInvalidSession = fmt.Errorf("invalid session: %w", domain.ErrUnauthorized)

// Claims are the session token claims. Subject holds the account id.
type Claims struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       user.Role `json:"role"`
	SchoolID   string    `json:"school_id,omitempty"`
	SchoolSlug string    `json:"school_slug,omitempty"`
	jwt.RegisteredClaims
}

// AuthService checks credentials and issues and validates session tokens.
type AuthService struct {
	store   database.Store
	hasher  *password.Hasher
	cfg     *config.Auth
	secret  []byte
	metrics *sfotel.Metrics
	now     func() time.Time

	dummyHash func() string
}

// NewAuthService creates a new authentication service.
func NewAuthService(store database.Store, hasher *password.Hasher, cfg *config.Auth, metrics *sfotel.Metrics) *AuthService {
	s := &AuthService{
		store:   store,
		hasher:  hasher,
		cfg:     cfg,
		secret:  []byte(cfg.JWTSecret),
		metrics: metrics,
		now:     time.Now,
	}
	// Hash compared against when the account does not exist, so unknown
	// emails cost the same bcrypt work as wrong passwords.
	s.dummyHash = sync.OnceValue(func() string {
		h, err := hasher.Hash(uuid.NewString())
		if err != nil {
			slog.Error("dummy hash failed", "error", err)
		}
		return h
	})
	return s
}

// Login authenticates an account by email and password and issues a session token.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	ctx, span := sfotel.StartLoginSpan(ctx)
	resp, err := s.login(ctx, req)
	sfotel.EndSpan(span, err)
	if errors.Is(err, ErrInvalidCredentials) {
		s.metrics.RecordLoginFailed(ctx)
	}
	return resp, err
}

func (s *AuthService) login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(req.Password, s.dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Verify before checking the active flag so both rejections cost the same.
	ok := s.hasher.Verify(req.Password, u.PasswordHash)
	if !ok || !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.store.TouchLastLogin(ctx, u.ID, now); err != nil {
		slog.WarnContext(ctx, "last login update failed", "user_id", u.ID, "error", err)
	} else {
		u.LastLoginAt = &now
	}

	token, expiresAt, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID, "role", u.Role)
	return &user.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *u}, nil
}

// IssueToken signs an HS256 session token for u.
func (s *AuthService) IssueToken(u *user.User) (string, time.Time, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.SessionTTL)

	claims := Claims{
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		SchoolSlug: u.SchoolSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if u.SchoolID != nil {
		claims.SchoolID = *u.SchoolID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateSession parses and verifies a session token. Any failure is ErrInvalidSession.
func (s *AuthService) ValidateSession(token string) (*user.Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidSession
	}

	return &user.Session{
		UserID:     claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		Role:       claims.Role,
		SchoolID:   claims.SchoolID,
		SchoolSlug: claims.SchoolSlug,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// ResetPassword replaces the account password with a fresh temporary one and
// returns the plaintext once.
func (s *AuthService) ResetPassword(ctx context.Context, email string, length int) (string, error) {
	u, err := s.store.GetUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	temp := password.GenerateRandom(length)
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, u.ID, hash); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}

	slog.InfoContext(ctx, "password reset", "user_id", u.ID)
	return temp, nil
}
