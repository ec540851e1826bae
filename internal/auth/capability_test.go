package auth

import (
	"errors"
	"testing"
)

type fakeAllowlistStore struct {
	hashes map[string]bool
	err    error
	calls  int
}

func (f *fakeAllowlistStore) Exists(userIDHash string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.hashes[userIDHash], nil
}

type fakeVerifierCache struct {
	entries map[string]bool
	sets    int
}

func (f *fakeVerifierCache) GetVerifier(userIDHash string) (bool, bool, error) {
	v, ok := f.entries[userIDHash]
	return v, ok, nil
}

func (f *fakeVerifierCache) SetVerifier(userIDHash string, isVerifier bool) error {
	if f.entries == nil {
		f.entries = make(map[string]bool)
	}
	f.entries[userIDHash] = isVerifier
	f.sets++
	return nil
}

func TestAllowlistChecker_IsVerifier(t *testing.T) {
	store := &fakeAllowlistStore{hashes: map[string]bool{
		HashUserID("user_listed"): true,
	}}
	checker := NewAllowlistChecker(store, nil)

	ok, err := checker.IsVerifier(Identity{UserID: "user_listed"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("Expected listed user to be a verifier")
	}

	ok, err = checker.IsVerifier(Identity{UserID: "user_unlisted"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Fatal("Expected unlisted user not to be a verifier")
	}
}

func TestAllowlistChecker_StoreError(t *testing.T) {
	store := &fakeAllowlistStore{err: errors.New("connection refused")}
	checker := NewAllowlistChecker(store, nil)

	if _, err := checker.IsVerifier(Identity{UserID: "user_any"}); err == nil {
		t.Fatal("Expected store error to propagate")
	}
}

func TestAllowlistChecker_CacheHitSkipsStore(t *testing.T) {
	store := &fakeAllowlistStore{}
	cache := &fakeVerifierCache{entries: map[string]bool{
		HashUserID("user_cached"): true,
	}}
	checker := NewAllowlistChecker(store, cache)

	ok, err := checker.IsVerifier(Identity{UserID: "user_cached"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("Expected cached verifier to be granted")
	}
	if store.calls != 0 {
		t.Fatalf("Expected no store lookup on cache hit, got %d", store.calls)
	}
}

func TestAllowlistChecker_CacheMissFillsCache(t *testing.T) {
	store := &fakeAllowlistStore{hashes: map[string]bool{
		HashUserID("user_listed"): true,
	}}
	cache := &fakeVerifierCache{}
	checker := NewAllowlistChecker(store, cache)

	if _, err := checker.IsVerifier(Identity{UserID: "user_listed"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("Expected one cache fill, got %d", cache.sets)
	}
}

func TestRoleClaimChecker_IsVerifier(t *testing.T) {
	checker := NewRoleClaimChecker()

	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"verifier role", []string{"verifier"}, true},
		{"admin role", []string{"member", "admin"}, true},
		{"no roles", nil, false},
		{"unrelated role", []string{"member"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := checker.IsVerifier(Identity{UserID: "user_x", Roles: tt.roles})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if ok != tt.want {
				t.Errorf("IsVerifier(%v) = %v, want %v", tt.roles, ok, tt.want)
			}
		})
	}
}

func TestRoleClaimChecker_CustomRoles(t *testing.T) {
	checker := NewRoleClaimChecker("moderator")

	ok, _ := checker.IsVerifier(Identity{UserID: "user_x", Roles: []string{"verifier"}})
	if ok {
		t.Fatal("Expected default role names to be replaced, not extended")
	}

	ok, _ = checker.IsVerifier(Identity{UserID: "user_x", Roles: []string{"moderator"}})
	if !ok {
		t.Fatal("Expected custom role to grant capability")
	}
}
