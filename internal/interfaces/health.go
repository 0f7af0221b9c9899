package interfaces

import "context"

// HealthChecker reports whether backing storage answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
