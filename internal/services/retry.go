package services

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times, sleeping a fixed interval between
// tries. Fixed, not exponential: upstream feeds here fail transiently and
// recover within seconds, and a cycle runs on a schedule measured in hours.
// No retry state survives the call.
func Retry(ctx context.Context, attempts int, interval time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}
