// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/flashcard-engine/internal/prompts"
)

// ErrPermanent marks backend errors that retrying cannot fix, such as
// rejected credentials or blocked content.
var ErrPermanent = errors.New("permanent backend error")

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff: backoffBase,
// then double each attempt. Permanent errors and cancellation stop early.
func callWithRetry(ctx context.Context, backend Backend, p prompts.Prompt, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Complete(ctx, p)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, ErrPermanent) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
