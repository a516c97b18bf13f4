package conn

import "time"

// backoff returns the delay before reconnect attempt n (1-based):
// exponential from base, capped at ceil. The result is monotonically
// non-decreasing in n, so a flapping backend cannot provoke a connection
// storm.
func backoff(attempt int, base, ceil time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 32 {
		return ceil
	}
	d := base << uint(attempt-1)
	if d <= 0 || d > ceil {
		return ceil
	}
	return d
}
