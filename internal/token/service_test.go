package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus/server/internal/model"
)

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.RefreshSession
	users    map[string]model.User
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		sessions: map[string]model.RefreshSession{},
		users:    map[string]model.User{},
	}
}

func (m *memSessionStore) CreateRefreshSession(_ context.Context, session model.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *memSessionStore) GetRefreshSession(_ context.Context, tokenHash string) (model.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[tokenHash]
	if !ok {
		return model.RefreshSession{}, errors.New("no rows")
	}
	return session, nil
}

func (m *memSessionStore) RevokeRefreshSession(_ context.Context, sessionID string, revokedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, session := range m.sessions {
		if session.ID == sessionID {
			session.RevokedAt = &revokedAt
			m.sessions[hash] = session
		}
	}
	return nil
}

func (m *memSessionStore) GetUserByID(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.User{}, errors.New("no rows")
	}
	return user, nil
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memBlacklist) Revoke(_ context.Context, tokenHash string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]bool{}
	}
	m.revoked[tokenHash] = true
	return nil
}

func (m *memBlacklist) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenHash], nil
}

func testUser() model.User {
	schoolID := "school-1"
	return model.User{
		ID:       "user-1",
		SchoolID: &schoolID,
		Email:    "teacher@a.school",
		Role:     model.RoleTeacher,
		Active:   true,
	}
}

func newTestService(store *memSessionStore) *Service {
	return NewService(store, &memBlacklist{}, "test-secret", "test-issuer", 15*time.Minute, 24*time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := newTestService(store)

	access, refresh, err := service.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair")
	}

	claims, err := service.Verify(access)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.RoleTeacher {
		t.Fatalf("unexpected claims")
	}
	if claims.SchoolID == nil || *claims.SchoolID != "school-1" {
		t.Fatalf("expected school claim")
	}
}

func TestRefreshRotates(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := newTestService(store)

	_, refresh, err := service.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	access2, refresh2, refreshedUser, err := service.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh error: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("expected rotated pair")
	}
	if refreshedUser.ID != user.ID {
		t.Fatalf("unexpected user")
	}

	// The old token was revoked by rotation.
	if _, _, _, err := service.Refresh(context.Background(), refresh); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after rotation, got %v", err)
	}
}

func TestRevokeIdempotent(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := newTestService(store)

	_, refresh, err := service.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if err := service.Revoke(context.Background(), refresh); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	// Duplicate revocation succeeds.
	if err := service.Revoke(context.Background(), refresh); err != nil {
		t.Fatalf("duplicate revoke error: %v", err)
	}
	// Revoking a token that never existed succeeds.
	if err := service.Revoke(context.Background(), "never-issued"); err != nil {
		t.Fatalf("unknown revoke error: %v", err)
	}

	if _, _, _, err := service.Refresh(context.Background(), refresh); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestRefreshFailures(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := newTestService(store)

	if _, _, _, err := service.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}

	expired := NewService(store, &memBlacklist{}, "test-secret", "test-issuer", 15*time.Minute, -time.Minute)
	_, refresh, err := expired.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, _, _, err := expired.Refresh(context.Background(), refresh); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshDeniedForBlockedUser(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := newTestService(store)

	_, refresh, err := service.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	user.Blocked = true
	store.users[user.ID] = user

	if _, _, _, err := service.Refresh(context.Background(), refresh); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked for blocked user, got %v", err)
	}
}

func TestWorksWithoutBlacklist(t *testing.T) {
	store := newMemSessionStore()
	user := testUser()
	store.users[user.ID] = user
	service := NewService(store, nil, "test-secret", "test-issuer", 15*time.Minute, 24*time.Hour)

	_, refresh, err := service.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if err := service.Revoke(context.Background(), refresh); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if _, _, _, err := service.Refresh(context.Background(), refresh); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}
