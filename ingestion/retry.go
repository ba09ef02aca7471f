// Copyright 2025 Serica Labs
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


package ingestion

import (
	"context"
	"log/slog"
	"time"
)

// retryPolicy retries index operations with exponential backoff. Only the
// idempotent ones go through it: delete-by-query and bulk writes keyed by
// deterministic record IDs, both safe to repeat after a partial failure.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func newRetryPolicy(maxAttempts int, baseDelay time.Duration, logger *slog.Logger) (retryPolicy, error) {
	if maxAttempts < 1 {
		return retryPolicy{}, ErrInvalidMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return retryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger,
	}, nil
}

// do runs fn until it succeeds, attempts run out, or the context is done.
// The delay doubles after each failed attempt. Returns the last error when
// all attempts fail.
func (rp retryPolicy) do(ctx context.Context, op string, fn func() error) error {
	if rp.maxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	delay := rp.baseDelay
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				rp.logger.Debug("operation succeeded after retry", "op", op, "attempt", attempt)
			}
			return nil
		}

		if attempt == rp.maxAttempts {
			return lastErr
		}
		rp.logger.Debug("operation failed, will retry",
			"op", op, "attempt", attempt, "maxAttempts", rp.maxAttempts, "err", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
