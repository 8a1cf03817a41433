package connect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultBackOff polls up to 6 times, waiting 200ms, 400ms, ... in between.
func DefaultBackOff() wait.Backoff {
	return wait.Backoff{Duration: 200 * time.Millisecond, Factor: 2, Steps: 6}
}

// ValidateBackOff reports every problem with b at once.
func ValidateBackOff(b wait.Backoff) error {
	var errs []error
	if b.Duration <= 0 {
		errs = append(errs, fmt.Errorf("backoff initial delay must be positive, got %s", b.Duration))
	}
	if b.Factor < 1 {
		errs = append(errs, fmt.Errorf("backoff multiplier must be at least 1, got %v", b.Factor))
	}
	if b.Steps < 1 {
		errs = append(errs, fmt.Errorf("backoff max attempts must be at least 1, got %d", b.Steps))
	}
	return errors.Join(errs...)
}

// MaxAttemptsExceededError is returned when every attempt of a backoff
// hit a retriable error.
type MaxAttemptsExceededError struct {
	Attempts int
	Err      error
}

func (e *MaxAttemptsExceededError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *MaxAttemptsExceededError) Unwrap() error {
	return e.Err
}

// Retry calls fn until it succeeds, returns an error retriable rejects, or
// b.Steps calls have been made. The first call is not delayed.
func Retry(ctx context.Context, b wait.Backoff, retriable func(error) bool, fn func(context.Context) error) error {
	var lastErr error
	err := wait.ExponentialBackoffWithContext(ctx, b, func(ctx context.Context) (bool, error) {
		lastErr = fn(ctx)
		switch {
		case lastErr == nil:
			return true, nil
		case retriable(lastErr):
			return false, nil
		default:
			return false, lastErr
		}
	})
	if err != nil && lastErr != nil && wait.Interrupted(err) && ctx.Err() == nil {
		return &MaxAttemptsExceededError{Attempts: b.Steps, Err: lastErr}
	}
	return err
}

// StatusWithBackOff polls the connector status, retrying while the REST API
// answers 404. A connector that was just created is not visible on every
// worker immediately. A status without a connector state is an error.
func StatusWithBackOff(ctx context.Context, api API, name string, b wait.Backoff) (*ConnectorStatus, error) {
	var status *ConnectorStatus
	err := Retry(ctx, b, IsNotFound, func(ctx context.Context) error {
		s, err := api.Status(ctx, name)
		if err != nil {
			return err
		}
		status = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get status of connector %s: %w", name, err)
	}
	if status.Connector.State == "" {
		return nil, &MissingStateError{Connector: name}
	}
	return status, nil
}

// MissingStateError is returned when a status response carries no
// connector state.
type MissingStateError struct {
	Connector string
}

func (e *MissingStateError) Error() string {
	return fmt.Sprintf("status of connector %s lacks connector.state", e.Connector)
}
