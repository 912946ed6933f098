// Package ratelimit provides per-key request limiters for public endpoints.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether the caller identified by key may proceed. When it
// may not, retryAfter says how long to wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
