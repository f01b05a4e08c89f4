// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package retry provides the bounded retry policy applied to every
// upstream provider call: embedding, similarity search, and generation.
package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Policy describes a bounded retry schedule with exponential backoff and
// full jitter. The zero value is not usable; construct with DefaultPolicy
// or set the fields explicitly.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the second attempt; it doubles on each
	// subsequent retry.
	BaseDelay time.Duration

	// Jitter enables full jitter: each sleep is a uniformly random duration
	// in (0, delay].
	Jitter bool
}

// DefaultPolicy returns the policy used for all upstream calls unless
// overridden: 3 attempts, 500ms base delay, jitter enabled.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Jitter:      true,
	}
}

// Do runs the operation under the policy, retrying on any error until the
// attempt budget is exhausted. Returns the error from the last attempt if
// all attempts fail, or the context error if the context is cancelled.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		// Exponential backoff: baseDelay * 2^(attempt-1)
		delay := p.BaseDelay
		for i := 1; i < attempt; i++ {
			delay *= 2
		}
		if p.Jitter && delay > 0 {
			delay = time.Duration(rand.Int63n(int64(delay))) + 1
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
