package ratelimit

import "github.com/danielgtaylor/huma/v2"

// Scope categorizes a request for rate limiting purposes.
type Scope string

const (
	// ScopeGlobal applies to all requests regardless of type.
	ScopeGlobal Scope = "global"
	// ScopeRead applies to read operations (GET, HEAD, OPTIONS).
	ScopeRead Scope = "read"
	// ScopeWrite applies to write operations (POST, PUT, PATCH, DELETE).
	ScopeWrite Scope = "write"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig is per-endpoint rate limit configuration, attached to Huma
// operations via the Metadata field.
//
// When Limits is non-empty the middleware applies those limits directly and
// skips the scope-based policy; Scope then has no effect. When Limits is
// empty and Scope is set, the scoped policy limits apply. Disabled skips
// rate limiting for the endpoint entirely.
type EndpointConfig struct {
	Scope    Scope
	Limits   []LimitConfig
	Disabled bool
}

// ScopeResolver determines which scopes apply to a given request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// MethodScopeResolver classifies GET, HEAD, and OPTIONS as reads and
// everything else as writes.
type MethodScopeResolver struct{}

// NewMethodScopeResolver creates a new method-based scope resolver.
func NewMethodScopeResolver() *MethodScopeResolver {
	return &MethodScopeResolver{}
}

// Resolve returns the scopes that apply to the request based on its HTTP method.
func (r *MethodScopeResolver) Resolve(ctx huma.Context) []Scope {
	scopes := []Scope{ScopeGlobal}

	switch ctx.Method() {
	case "GET", "HEAD", "OPTIONS":
		scopes = append(scopes, ScopeRead)
	default:
		scopes = append(scopes, ScopeWrite)
	}

	return scopes
}

// OperationScopeResolver resolves scopes from operation metadata first, then
// falls back to method-based detection.
type OperationScopeResolver struct {
	fallback *MethodScopeResolver
}

// NewOperationScopeResolver creates a new operation-aware scope resolver.
func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{
		fallback: NewMethodScopeResolver(),
	}
}

// Resolve returns the scopes for a request, checking operation metadata first.
func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	cfg := GetEndpointConfig(ctx)
	if cfg == nil || cfg.Scope == "" {
		return r.fallback.Resolve(ctx)
	}

	return []Scope{ScopeGlobal, cfg.Scope}
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
