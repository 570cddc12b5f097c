package trending

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// ConfigNotFoundError indicates neither the requested trend list nor the
// default row carries a config.
type ConfigNotFoundError struct {
	TrendListID string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("trend list config not found for %q", e.TrendListID)
}

// MalformedConfigError indicates a config row exists but its fields do not
// parse as the expected numeric shape.
type MalformedConfigError struct {
	TrendListID string
	Err         error
}

func (e *MalformedConfigError) Error() string {
	return fmt.Sprintf("trend list config for %q has unexpected shape: %v", e.TrendListID, e.Err)
}

func (e *MalformedConfigError) Unwrap() error { return e.Err }

// RecordWriteError indicates the interaction record could not be persisted.
// No count increment is attempted after this failure.
type RecordWriteError struct {
	Err error
}

func (e *RecordWriteError) Error() string {
	return fmt.Sprintf("writing interaction record: %v", e.Err)
}

func (e *RecordWriteError) Unwrap() error { return e.Err }

// CountUpdateError indicates the atomic count increment failed after the
// interaction record was already persisted. The record is left in place and
// expires through the normal reconcile path.
type CountUpdateError struct {
	Err error
}

func (e *CountUpdateError) Error() string {
	return fmt.Sprintf("updating interaction count: %v", e.Err)
}

func (e *CountUpdateError) Unwrap() error { return e.Err }

// InvokeError indicates the downstream invocation itself failed.
type InvokeError struct {
	Target string
	Err    error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("invoking %s: %v", e.Target, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }

// ResponseParseError indicates the downstream invocation replied with a
// payload that does not parse as a ranked list.
type ResponseParseError struct {
	Target string
	Err    error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("parsing response from %s: %v", e.Target, e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// QueryError indicates the ranked count read failed at the store.
// The condition is retryable from the caller's side.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("reading counts: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// FormatError indicates a result set had an unexpected shape. Nothing is
// partially returned and no mutations are attempted after it.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting data: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ScanError indicates the expired-record scan failed.
type ScanError struct {
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning interaction records: %v", e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// ReconcileChainError wraps the first failure in the sequential reconcile
// loop. Records processed before the failure stay processed; the rest remain
// pending for the next run.
type ReconcileChainError struct {
	Record InteractionRecord
	Err    error
}

func (e *ReconcileChainError) Error() string {
	return fmt.Sprintf("reconcile chain stopped at item %q: %v", e.Record.ItemID, e.Err)
}

func (e *ReconcileChainError) Unwrap() error { return e.Err }
