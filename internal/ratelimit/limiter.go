package ratelimit

// Counter is the slice of the rate-limit repository the limiter needs
type Counter interface {
	CountByUser(userIDHash, actionType string, windowMinutes int) (int, error)
	CountByIP(ipHash, actionType string, windowMinutes int) (int, error)
	Record(userIDHash, ipHash, actionType string) error
}

// Limits configures one gated action: per-user and per-IP ceilings over a
// trailing window
type Limits struct {
	PerUser       int
	PerIP         int
	WindowMinutes int
}

// Limiter gates write actions on two axes: hashed user id and hashed IP.
// Both counts must be strictly below their limits for the action to pass.
type Limiter struct {
	store Counter
}

func New(store Counter) *Limiter {
	return &Limiter{store: store}
}

// Allow checks both axes against the trailing window. The caller records
// the action separately, after the check passes.
func (l *Limiter) Allow(userIDHash, ipHash, actionType string, limits Limits) (bool, error) {
	userCount, err := l.store.CountByUser(userIDHash, actionType, limits.WindowMinutes)
	if err != nil {
		return false, err
	}
	if userCount >= limits.PerUser {
		return false, nil
	}

	ipCount, err := l.store.CountByIP(ipHash, actionType, limits.WindowMinutes)
	if err != nil {
		return false, err
	}
	if ipCount >= limits.PerIP {
		return false, nil
	}

	return true, nil
}

// Record appends one action row for both axes
func (l *Limiter) Record(userIDHash, ipHash, actionType string) error {
	return l.store.Record(userIDHash, ipHash, actionType)
}
