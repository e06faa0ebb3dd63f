package dashboard

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		burst    int
		window   time.Duration
		requests int
		delay    time.Duration
		wantPass int
	}{
		{
			name:     "burst allows multiple requests",
			rate:     10,
			burst:    5,
			window:   time.Second,
			requests: 5,
			wantPass: 5,
		},
		{
			name:     "exceeding burst fails",
			rate:     10,
			burst:    3,
			window:   time.Second,
			requests: 5,
			wantPass: 3,
		},
		{
			name:     "tokens refill over time",
			rate:     10,
			burst:    2,
			window:   100 * time.Millisecond,
			requests: 4,
			delay:    150 * time.Millisecond,
			wantPass: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := newRateLimiter(tt.rate, tt.burst, tt.window)
			defer rl.Close()

			passed := 0
			for i := 0; i < tt.requests; i++ {
				if i > 0 && tt.delay > 0 {
					time.Sleep(tt.delay)
				}
				if rl.allow("10.0.0.1") {
					passed++
				}
			}
			if passed != tt.wantPass {
				t.Errorf("passed = %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestRateLimiter_SeparatesClientsByIP(t *testing.T) {
	rl := newRateLimiter(10, 1, time.Second)
	defer rl.Close()

	if !rl.allow("10.0.0.1") {
		t.Fatal("first request from 10.0.0.1 should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("second request from 10.0.0.1 should exceed burst of 1")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("first request from a different IP should be allowed")
	}
}
