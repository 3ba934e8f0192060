package test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authkit "github.com/fieldform/authkit"
	"github.com/fieldform/authkit/securestore"
)

func newRedisStore(t *testing.T) (*securestore.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return securestore.NewRedis(rdb, "authkit:"), mr
}

func newRedisSession(t *testing.T, api *fakeAPI, store securestore.Store) *authkit.Session {
	t.Helper()

	s, err := authkit.New().
		WithConfig(authkit.Config{API: authkit.APIConfig{BaseURL: api.srv.URL}}).
		WithSecureStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// Full lifecycle through a Redis-backed store: login, token rotation on a
// 401, restart restoration from the persisted pair, then logout.
func TestRedisBackedSessionLifecycle(t *testing.T) {
	api := newFakeAPI(t)
	store, mr := newRedisStore(t)
	ctx := context.Background()

	s := newRedisSession(t, api, store)
	if err := s.Login(ctx, authkit.Credentials{Email: "a@b.com", Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if got, err := mr.Get("authkit:token"); err != nil || got != "T1" {
		t.Fatalf("expected T1 under authkit:token, got %q err=%v", got, err)
	}
	if got, err := mr.Get("authkit:refreshToken"); err != nil || got != "R1" {
		t.Fatalf("expected R1 under authkit:refreshToken, got %q err=%v", got, err)
	}

	// Expired access token: the next profile fetch rotates and retries.
	api.expireAccess()
	s.RefreshUserProfile(ctx)
	if api.refreshCount() != 1 {
		t.Fatalf("expected one refresh exchange, got %d", api.refreshCount())
	}
	if got, _ := mr.Get("authkit:token"); got != "T2" {
		t.Fatalf("expected rotated token T2 in redis, got %q", got)
	}

	// A new process over the same store restores the session.
	s2 := newRedisSession(t, api, store)
	if err := s2.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	user, ok := s2.CurrentUser()
	if !ok || user.ID != "u1" {
		t.Fatalf("expected restored user u1, got %+v ok=%v", user, ok)
	}

	s2.Logout(ctx)
	if _, err := mr.Get("authkit:token"); err == nil {
		t.Fatal("expected access token deleted from redis after logout")
	}
	if _, err := mr.Get("authkit:refreshToken"); err == nil {
		t.Fatal("expected refresh token deleted from redis after logout")
	}
}

// Pairing invariant across the store boundary: after every completed
// operation either both keys exist or neither does.
func TestRedisStoreNeverHoldsUnpairedTokens(t *testing.T) {
	api := newFakeAPI(t)
	store, mr := newRedisStore(t)
	ctx := context.Background()

	s := newRedisSession(t, api, store)

	checkPaired := func(stage string) {
		_, accessErr := mr.Get("authkit:token")
		_, refreshErr := mr.Get("authkit:refreshToken")
		if (accessErr == nil) != (refreshErr == nil) {
			t.Fatalf("%s: unpaired tokens in store (access=%v refresh=%v)", stage, accessErr, refreshErr)
		}
	}

	checkPaired("initial")
	if err := s.Login(ctx, authkit.Credentials{Email: "a@b.com", Password: "pw"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	checkPaired("after login")

	if _, err := s.RefreshAuthToken(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	checkPaired("after refresh")

	s.Logout(ctx)
	checkPaired("after logout")
}
