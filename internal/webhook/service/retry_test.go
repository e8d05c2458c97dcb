package service

import (
	"testing"
	"time"
)

func TestRetryDelayProduction(t *testing.T) {
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, time.Minute},
		{2, 5 * time.Minute},
		{3, 30 * time.Minute},
		{4, 2 * time.Hour},
		{5, 2 * time.Hour},
	}
	for _, tc := range cases {
		if got := retryDelay(tc.attempts, false); got != tc.want {
			t.Errorf("retryDelay(%d, false) = %v, want %v", tc.attempts, got, tc.want)
		}
	}
}

func TestRetryDelayShort(t *testing.T) {
	for attempts := 1; attempts <= 4; attempts++ {
		want := time.Duration(attempts) * 5 * time.Second
		if got := retryDelay(attempts, true); got != want {
			t.Errorf("retryDelay(%d, true) = %v, want %v", attempts, got, want)
		}
	}
}
