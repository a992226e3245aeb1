package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"salesauth/internal/domain"
	"salesauth/internal/store"
	"salesauth/pkg/cryptox"
	"salesauth/pkg/idx"
	"salesauth/pkg/jwtx"
	"salesauth/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email_taken")
	ErrUserCreation       = errors.New("user_creation_failed")
	ErrRoleNotSaved       = errors.New("role_not_saved")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
)

type AuthService struct {
	Signer     *jwtx.HS256Signer
	Verifier   *jwtx.HS256Verifier
	Store      store.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Register creates a new account and assigns it a single role.
//
// The role assignment is deliberately non-fatal: if the role name is unknown
// or the link insert fails, the user still exists and ErrRoleNotSaved is
// returned so the caller can surface the warning. Duplicate emails are
// detected by the UNIQUE constraint, not a prior existence check.
func (s *AuthService) Register(ctx context.Context, email, password, name, surname, roleName string) error {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrUserCreation
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Surname:      surname,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrEmailTaken
		}
		l.Error("user insert failed", slog.Any("error", err))
		return ErrUserCreation
	}

	role, err := s.Store.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		l.Warn("registration role not found", slog.String("role", roleName))
		return ErrRoleNotSaved
	}
	if err := s.Store.Roles().AddUserToRole(ctx, u.ID, role.ID); err != nil {
		l.Warn("registration role assignment failed",
			slog.String("role", roleName),
			slog.Any("error", err),
		)
		return ErrRoleNotSaved
	}

	return nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// email and wrong password collapse into the same error so callers cannot
// probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", u.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	roles, err := s.Store.Roles().ListUserRoles(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	claims := jwtx.NewAccessClaims(u.Email, roles, s.AccessTTL, now)
	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return domain.TokenPair{}, err
	}

	expiry := now.Add(s.RefreshTTL)
	fp := cryptox.FingerprintToken(refreshOpaque)
	if err := s.Store.Users().UpdateRefreshToken(ctx, u.ID, fp, expiry); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ValidTo:      claims.ExpiresAt.Time,
	}, nil
}

// Refresh exchanges an expired (or still valid) access token plus the
// matching refresh token for a new pair. The new access token carries the
// claim set recovered from the old one with a fresh expiry and jti; role
// changes only take effect once the refresh token itself expires.
//
// Every failure mode collapses into ErrInvalidToken so the endpoint cannot
// be used as an oracle for which part of the pair was wrong.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.VerifyIgnoringExpiry(accessToken)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidToken
		}
		return domain.TokenPair{}, err
	}

	if u.RefreshTokenHash == nil || u.RefreshTokenExpiry == nil {
		return domain.TokenPair{}, ErrInvalidToken
	}

	fp := cryptox.FingerprintToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(fp), []byte(*u.RefreshTokenHash)) != 1 {
		l.Info("refresh token mismatch", slog.String("user_id", u.ID))
		return domain.TokenPair{}, ErrInvalidToken
	}
	if !now.Before(*u.RefreshTokenExpiry) {
		return domain.TokenPair{}, ErrInvalidToken
	}

	newAccess, err := s.Signer.Sign(claims.Reissue(s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Rotate: the previous refresh token is dead the moment this write lands.
	newRefresh, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return domain.TokenPair{}, err
	}
	newExpiry := now.Add(s.RefreshTTL)
	if err := s.Store.Users().UpdateRefreshToken(ctx, u.ID, cryptox.FingerprintToken(newRefresh), newExpiry); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		ValidTo:      now.Add(s.AccessTTL),
	}, nil
}
