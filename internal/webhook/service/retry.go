package service

import "time"

// retryDelay returns how long to wait before the next attempt, given the
// number of attempts already made. Production waits 1m, 5m, 30m and 2h
// before attempts 2-5; the short schedule used by integration tests waits
// attempts*5 seconds instead.
func retryDelay(attempts int, short bool) time.Duration {
	if short {
		return time.Duration(attempts) * 5 * time.Second
	}
	switch attempts {
	case 1:
		return time.Minute
	case 2:
		return 5 * time.Minute
	case 3:
		return 30 * time.Minute
	default:
		return 2 * time.Hour
	}
}
