package runner

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
)

const maxPollInterval = 5 * time.Second

var errNotDelivered = errors.New("email not delivered yet")

// waitForDelivery polls the inbox until a row matching exp shows up or
// timeout elapses. The inbox is checked once more at the deadline. It
// reports whether the row was seen; running out of time is not an error.
func waitForDelivery(ctx context.Context, b driver.Browser, exp Expectation, interval, timeout time.Duration) (bool, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = interval
	bo.MaxInterval = max(interval, maxPollInterval)
	bo.MaxElapsedTime = 0
	bo.Reset()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	poll := func() error {
		delivered, err := pollInbox(ctx, b, exp)
		switch {
		case err != nil:
			return backoff.Permanent(err)
		case !delivered:
			return errNotDelivered
		}
		return nil
	}

	err := backoff.Retry(poll, backoff.WithContext(bo, waitCtx))
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, errNotDelivered), errors.Is(err, context.DeadlineExceeded):
		return pollInbox(ctx, b, exp)
	default:
		return false, err
	}
}

// pollInbox checks the inbox once. Rows that are still rendering count as
// not delivered.
func pollInbox(ctx context.Context, b driver.Browser, exp Expectation) (bool, error) {
	row, err := findMatchingRow(ctx, b, exp)
	switch {
	case errors.Is(err, driver.ErrElementNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return row != nil, nil
}
