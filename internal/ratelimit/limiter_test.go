package ratelimit

import (
	"errors"
	"testing"
)

type fakeCounter struct {
	userCount int
	ipCount   int
	err       error
	recorded  int
}

func (f *fakeCounter) CountByUser(userIDHash, actionType string, windowMinutes int) (int, error) {
	return f.userCount, f.err
}

func (f *fakeCounter) CountByIP(ipHash, actionType string, windowMinutes int) (int, error) {
	return f.ipCount, f.err
}

func (f *fakeCounter) Record(userIDHash, ipHash, actionType string) error {
	f.recorded++
	return f.err
}

func TestLimiter_Allow(t *testing.T) {
	limits := Limits{PerUser: 5, PerIP: 10, WindowMinutes: 10}

	tests := []struct {
		name      string
		userCount int
		ipCount   int
		want      bool
	}{
		{name: "Both below limit", userCount: 0, ipCount: 0, want: true},
		{name: "User one below limit", userCount: 4, ipCount: 4, want: true},
		{name: "User at limit", userCount: 5, ipCount: 0, want: false},
		{name: "User over limit", userCount: 6, ipCount: 0, want: false},
		{name: "IP at limit", userCount: 0, ipCount: 10, want: false},
		{name: "Both at limit", userCount: 5, ipCount: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(&fakeCounter{userCount: tt.userCount, ipCount: tt.ipCount})
			got, err := limiter.Allow("user-hash", "ip-hash", "submit_entry", limits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLimiter_Allow_StoreError(t *testing.T) {
	limiter := New(&fakeCounter{err: errors.New("db down")})
	if _, err := limiter.Allow("u", "i", "vote", Limits{PerUser: 1, PerIP: 1, WindowMinutes: 1}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestLimiter_Record(t *testing.T) {
	counter := &fakeCounter{}
	limiter := New(counter)
	if err := limiter.Record("u", "i", "vote"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.recorded != 1 {
		t.Errorf("recorded = %d, want 1", counter.recorded)
	}
}
