package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentSite returns a site with one self-sent email waiting for delivery and
// the expectation that matches it.
func sentSite() (*fakeSite, Expectation) {
	site := newFakeSite()
	site.sent = []sentEmail{{
		to:      site.address,
		subject: "This is a test email subject!!!",
		body:    "This is a test email body!!!",
	}}
	exp := Expectation{
		Address: site.address,
		Domain:  "sharklasers.com",
		Subject: "This is a test email subject!!!",
		Body:    "This is a test email body!!!",
	}
	return site, exp
}

func TestWaitForDelivery(t *testing.T) {
	t.Run("delivered just before the deadline", func(t *testing.T) {
		site, exp := sentSite()
		const timeout = 300 * time.Millisecond
		start := time.Now()
		site.deliverAt = start.Add(270 * time.Millisecond)

		// A large interval leaves the backoff sleeping past the delivery.
		delivered, err := waitForDelivery(context.Background(), &fakeBrowser{site: site}, exp, 200*time.Millisecond, timeout)
		require.NoError(t, err)
		assert.True(t, delivered)
		assert.GreaterOrEqual(t, time.Since(start), 270*time.Millisecond)
	})

	t.Run("waits the full duration when never delivered", func(t *testing.T) {
		site, exp := sentSite()
		site.deliverAfter = -1
		const timeout = 150 * time.Millisecond
		start := time.Now()

		delivered, err := waitForDelivery(context.Background(), &fakeBrowser{site: site}, exp, 20*time.Millisecond, timeout)
		require.NoError(t, err)
		assert.False(t, delivered)
		assert.GreaterOrEqual(t, time.Since(start), timeout)
		assert.Greater(t, site.listings, 1)
	})

	t.Run("immediate delivery", func(t *testing.T) {
		site, exp := sentSite()

		delivered, err := waitForDelivery(context.Background(), &fakeBrowser{site: site}, exp, time.Second, time.Minute)
		require.NoError(t, err)
		assert.True(t, delivered)
		assert.Equal(t, 1, site.listings)
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		site, exp := sentSite()
		site.deliverAfter = -1
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		delivered, err := waitForDelivery(ctx, &fakeBrowser{site: site}, exp, time.Millisecond, time.Second)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, delivered)
	})
}
