// Package token implements the session token service: a short-lived signed
// access token paired with an opaque rotating refresh token. Refresh tokens are
// stored hashed with their expiry, and revocations additionally land in a
// shared blacklist so concurrent verifiers see them immediately.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campus/server/internal/auth"
	"campus/server/internal/crypto"
	"campus/server/internal/model"
)

var (
	ErrTokenExpired   = auth.ErrTokenExpired
	ErrTokenMalformed = auth.ErrTokenMalformed
	ErrTokenRevoked   = errors.New("token revoked")
)

type SessionStore interface {
	CreateRefreshSession(ctx context.Context, session model.RefreshSession) error
	GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
}

type Service struct {
	store      SessionStore
	blacklist  Blacklist
	secret     string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(store SessionStore, blacklist Blacklist, secret, issuer string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:      store,
		blacklist:  blacklist,
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type clientMeta struct {
	UserAgent string
	IPAddress string
}

type IssueOption func(*clientMeta)

func WithClient(userAgent, ip string) IssueOption {
	return func(meta *clientMeta) {
		meta.UserAgent = userAgent
		meta.IPAddress = ip
	}
}

// Issue mints an access/refresh pair for a verified user and persists the
// refresh session.
func (s *Service) Issue(ctx context.Context, user model.User, opts ...IssueOption) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.secret, s.issuer, s.accessTTL, auth.Claims{
		UserID:   user.ID,
		Role:     user.Role,
		SchoolID: user.SchoolID,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := crypto.NewOpaqueToken()
	if err != nil {
		return "", "", err
	}

	meta := clientMeta{}
	for _, opt := range opts {
		opt(&meta)
	}

	now := time.Now().UTC()
	session := model.RefreshSession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: crypto.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.store.CreateRefreshSession(ctx, session); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A user deactivated or blocked since issue cannot rotate.
func (s *Service) Refresh(ctx context.Context, refreshToken string, opts ...IssueOption) (string, string, model.User, error) {
	session, err := s.lookup(ctx, refreshToken)
	if err != nil {
		return "", "", model.User{}, err
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return "", "", model.User{}, ErrTokenRevoked
	}
	if !user.Active || user.Blocked {
		return "", "", model.User{}, ErrTokenRevoked
	}

	if err := s.revokeSession(ctx, session); err != nil {
		return "", "", model.User{}, err
	}

	access, refresh, err := s.Issue(ctx, user, opts...)
	if err != nil {
		return "", "", model.User{}, err
	}
	return access, refresh, user, nil
}

// Revoke blacklists a refresh token. Revoking an already revoked or unknown
// token succeeds, so concurrent logouts with the same token are idempotent.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	tokenHash := crypto.HashToken(refreshToken)
	session, err := s.store.GetRefreshSession(ctx, tokenHash)
	if err != nil {
		return nil
	}
	return s.revokeSession(ctx, session)
}

// Verify validates an access token and returns its claims.
func (s *Service) Verify(accessToken string) (*auth.Claims, error) {
	return auth.ParseToken(s.secret, accessToken)
}

func (s *Service) lookup(ctx context.Context, refreshToken string) (model.RefreshSession, error) {
	tokenHash := crypto.HashToken(refreshToken)

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, tokenHash)
		if err == nil && revoked {
			return model.RefreshSession{}, ErrTokenRevoked
		}
	}

	session, err := s.store.GetRefreshSession(ctx, tokenHash)
	if err != nil {
		return model.RefreshSession{}, ErrTokenMalformed
	}
	if session.RevokedAt != nil {
		return model.RefreshSession{}, ErrTokenRevoked
	}
	if session.ExpiresAt.Before(time.Now().UTC()) {
		return model.RefreshSession{}, ErrTokenExpired
	}
	return session, nil
}

func (s *Service) revokeSession(ctx context.Context, session model.RefreshSession) error {
	now := time.Now().UTC()
	if err := s.store.RevokeRefreshSession(ctx, session.ID, now); err != nil {
		return err
	}
	if s.blacklist != nil {
		ttl := time.Until(session.ExpiresAt)
		if ttl > 0 {
			if err := s.blacklist.Revoke(ctx, session.TokenHash, ttl); err != nil {
				return err
			}
		}
	}
	return nil
}
