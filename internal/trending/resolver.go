package trending

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Resolver resolves per-trend-list tunables with a fallback to the default
// row. It is a pure read; both the Recorder and the Query use it.
type Resolver struct {
	configs ConfigRepository
}

// NewResolver creates a config resolver over the given repository.
func NewResolver(configs ConfigRepository) *Resolver {
	return &Resolver{configs: configs}
}

// Resolve returns the config for the trend list, falling back to the
// "default" row when no dedicated row exists. A row whose fields do not
// parse fails with MalformedConfigError; when neither row exists the call
// fails with ConfigNotFoundError carrying the originally requested id.
func (r *Resolver) Resolve(ctx context.Context, trendListID string) (Config, error) {
	fields, err := r.configs.Get(ctx, trendListID)
	if errors.Is(err, ErrNotFound) {
		fields, err = r.configs.Get(ctx, DefaultConfigID)
		if errors.Is(err, ErrNotFound) {
			return Config{}, &ConfigNotFoundError{TrendListID: trendListID}
		}
	}

	if err != nil {
		return Config{}, err
	}

	cfg, err := parseConfig(fields)
	if err != nil {
		return Config{}, &MalformedConfigError{TrendListID: trendListID, Err: err}
	}

	return cfg, nil
}

func parseConfig(fields map[string]string) (Config, error) {
	limit, err := parsePositiveInt(fields, "trendListLimit")
	if err != nil {
		return Config{}, err
	}

	window, err := parsePositiveInt(fields, "aggregationWindow")
	if err != nil {
		return Config{}, err
	}

	return Config{TrendListLimit: limit, AggregationWindow: window}, nil
}

func parsePositiveInt(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %s", key)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", key, err)
	}

	if v <= 0 {
		return 0, fmt.Errorf("field %s must be positive, got %d", key, v)
	}

	return v, nil
}
