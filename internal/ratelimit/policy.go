package ratelimit

import "time"

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// DefaultPolicy returns the service-wide default limits: write traffic is
// throttled harder than reads, with a coarse global ceiling on top.
func DefaultPolicy() *Policy {
	return &Policy{
		Limits: map[Scope][]LimitConfig{
			ScopeGlobal: {
				{Window: time.Minute, Max: 600},
			},
			ScopeRead: {
				{Window: time.Minute, Max: 300},
			},
			ScopeWrite: {
				{Window: time.Minute, Max: 60},
				{Window: time.Hour, Max: 1000},
			},
		},
	}
}
