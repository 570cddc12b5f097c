package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes which limit a rejected request hit.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// PolicyLimiter enforces rate limits based on a policy and resolved scopes.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow checks every limit configured for the given scopes against the
// client key. The LimitExceeded return value is nil when allowed.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			// Key combines client + scope + window for independent tracking.
			key := fmt.Sprintf("%s:%s:%d", clientKey, scope, limit.Window.Milliseconds())

			count, err := l.store.Record(ctx, key, limit.Window)
			if err != nil {
				return false, nil, err
			}

			if count > limit.Max {
				return false, &LimitExceeded{
					Scope:  scope,
					Config: limit,
					Count:  count,
				}, nil
			}
		}
	}

	return true, nil, nil
}

// Store returns the underlying rate limit store.
func (l *PolicyLimiter) Store() Store {
	return l.store
}
