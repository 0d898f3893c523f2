// Package wait provides the bounded waits used between page and dialog
// state transitions.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a condition is not met within its timeout.
var ErrTimeout = errors.New("timed out")

// Condition blocks until a state is reached or ctx is done.
type Condition func(ctx context.Context) error

// Until runs cond with a context bounded by timeout. A deadline hit inside
// cond is reported as ErrTimeout. A non-positive timeout means no bound
// beyond ctx itself.
func Until(ctx context.Context, timeout time.Duration, cond Condition) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := cond(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v: %v", ErrTimeout, timeout, err)
	}
	return err
}

// Pause sleeps for d unless ctx is cancelled first.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
