package auth

// CapabilityChecker answers the single authorization question in the system:
// may this caller perform moderation actions. The allow-list and role-claim
// strategies are interchangeable behind it.
type CapabilityChecker interface {
	IsVerifier(ident Identity) (bool, error)
}

// AllowlistStore is the slice of the verifier repository the allow-list
// strategy needs
type AllowlistStore interface {
	Exists(userIDHash string) (bool, error)
}

// VerifierCache is an optional read-through cache for allow-list lookups
type VerifierCache interface {
	GetVerifier(userIDHash string) (isVerifier bool, found bool, err error)
	SetVerifier(userIDHash string, isVerifier bool) error
}

// AllowlistChecker grants capability when the hashed identifier is present
// in the verifier allow-list table
type AllowlistChecker struct {
	store AllowlistStore
	cache VerifierCache
}

// NewAllowlistChecker creates an allow-list strategy; cache may be nil
func NewAllowlistChecker(store AllowlistStore, cache VerifierCache) *AllowlistChecker {
	return &AllowlistChecker{store: store, cache: cache}
}

func (c *AllowlistChecker) IsVerifier(ident Identity) (bool, error) {
	hash := HashUserID(ident.UserID)

	if c.cache != nil {
		if ok, found, err := c.cache.GetVerifier(hash); err == nil && found {
			return ok, nil
		}
	}

	ok, err := c.store.Exists(hash)
	if err != nil {
		return false, err
	}

	if c.cache != nil {
		// Cache failures must not block the authorization decision
		_ = c.cache.SetVerifier(hash, ok)
	}

	return ok, nil
}

// RoleClaimChecker grants capability from role claims embedded in the
// session token itself; no table lookup involved
type RoleClaimChecker struct {
	roles []string
}

// NewRoleClaimChecker accepts the role names that carry moderation capability
func NewRoleClaimChecker(roles ...string) *RoleClaimChecker {
	if len(roles) == 0 {
		roles = []string{"verifier", "admin"}
	}
	return &RoleClaimChecker{roles: roles}
}

func (c *RoleClaimChecker) IsVerifier(ident Identity) (bool, error) {
	for _, have := range ident.Roles {
		for _, want := range c.roles {
			if have == want {
				return true, nil
			}
		}
	}
	return false, nil
}
