package service

import (
	"context"
	"testing"
	"time"

	revocationdomain "authcore/internal/revocation/domain"
	"authcore/internal/session/domain"
)

func seedSession(t *testing.T, repo *memSessionRepo, s *domain.Session) {
	t.Helper()
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestCleanupExpiredSessions_DeletesOnlyDeadRows(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)
	ctx := context.Background()
	now := time.Now().UTC()

	seedSession(t, env.sessions, &domain.Session{
		ID: "live", UserID: "user-1", IsActive: true,
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	})
	seedSession(t, env.sessions, &domain.Session{
		ID: "expired", UserID: "user-1",
		CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	})
	oldRevoke := now.Add(-48 * time.Hour)
	seedSession(t, env.sessions, &domain.Session{
		ID: "revoked-aged", UserID: "user-1", IsRevoked: true, RevokedAt: &oldRevoke,
		CreatedAt: now.Add(-72 * time.Hour), ExpiresAt: now.Add(time.Hour),
	})
	freshRevoke := now.Add(-time.Hour)
	seedSession(t, env.sessions, &domain.Session{
		ID: "revoked-in-grace", UserID: "user-1", IsRevoked: true, RevokedAt: &freshRevoke,
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour),
	})

	res, err := env.manager.CleanupExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if res.SessionsDeleted != 2 {
		t.Errorf("SessionsDeleted = %d, want 2", res.SessionsDeleted)
	}
	if env.sessions.get("live") == nil {
		t.Error("live session must survive cleanup")
	}
	if env.sessions.get("revoked-in-grace") == nil {
		t.Error("recently revoked session must survive the grace period")
	}
	if env.sessions.get("expired") != nil || env.sessions.get("revoked-aged") != nil {
		t.Error("expired and grace-aged revoked sessions should be gone")
	}
}

func TestCleanupExpiredSessions_PrunesRevocationRegistry(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)
	ctx := context.Background()
	now := time.Now().UTC()

	mustAdd := func(e *revocationdomain.RevokedAccessToken) {
		if err := env.registry.Add(ctx, e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	mustAdd(&revocationdomain.RevokedAccessToken{
		JTI: "stale", UserID: "user-1", ExpiresAt: now.Add(-time.Minute), RevokedAt: now.Add(-time.Hour),
	})
	mustAdd(&revocationdomain.RevokedAccessToken{
		JTI: "pending", UserID: "user-1", ExpiresAt: now.Add(10 * time.Minute), RevokedAt: now,
	})

	res, err := env.manager.CleanupExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if res.TokensDeleted != 1 {
		t.Errorf("TokensDeleted = %d, want 1", res.TokensDeleted)
	}

	ok, err := env.registry.Contains(ctx, "pending")
	if err != nil || !ok {
		t.Errorf("unexpired entry must stay in the registry (ok=%v err=%v)", ok, err)
	}
	ok, err = env.registry.Contains(ctx, "stale")
	if err != nil || ok {
		t.Errorf("expired entry should be pruned (ok=%v err=%v)", ok, err)
	}
}

func TestCleanupExpiredSessions_EmptyStore(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)

	res, err := env.manager.CleanupExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if res.SessionsDeleted != 0 || res.TokensDeleted != 0 {
		t.Errorf("nothing to delete, got %+v", res)
	}
}

func TestVerifyAccessToken_FailsWhenSessionDeleted(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute)
	ctx := context.Background()

	pair, err := env.manager.CreateSession(ctx, "user-1", userClaims("user-1"), RequestContext{})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Simulate the sweeper having removed the row.
	env.sessions.mu.Lock()
	delete(env.sessions.m, pair.SessionID)
	env.sessions.mu.Unlock()

	if _, err := env.manager.VerifyAccessToken(ctx, pair.AccessToken); err == nil {
		t.Fatal("verify must fail once the backing session is deleted")
	}
}
