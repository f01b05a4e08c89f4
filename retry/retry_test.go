package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, Jitter: false}
}

func TestPolicyDo(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		calls := 0
		err := fastPolicy(3).Do(context.Background(), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := fastPolicy(3).Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		calls := 0
		last := errors.New("still failing")
		err := fastPolicy(3).Do(context.Background(), func() error {
			calls++
			return last
		})
		assert.ErrorIs(t, err, last)
		assert.Equal(t, 3, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := Policy{MaxAttempts: 0}.Do(context.Background(), func() error { return nil })
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := fastPolicy(3).Do(ctx, func() error {
			calls++
			return errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		p := Policy{MaxAttempts: 2, BaseDelay: 5 * time.Millisecond, Jitter: true}
		start := time.Now()
		err := p.Do(context.Background(), func() error { return errors.New("transient") })
		require.Error(t, err)
		// One sleep of at most BaseDelay plus scheduling slack
		assert.Less(t, time.Since(start), 250*time.Millisecond)
	})
}
