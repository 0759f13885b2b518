package ratelimiter

import (
	ratelimiter "happystack/internal/core/domain/rate_limiter"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWindowKey(t *testing.T) {
	at := time.Date(2020, 6, 1, 12, 34, 56, 0, time.UTC)

	key, d := windowKey("log-in::foo@bar.com", ratelimiter.Hour, at)
	require.Equal(t, "happystack::log-in::foo@bar.com::2020060112", key)
	require.Equal(t, time.Hour, d)

	key, d = windowKey("log-in::foo@bar.com", ratelimiter.Minute, at)
	require.Equal(t, "happystack::log-in::foo@bar.com::202006011234", key)
	require.Equal(t, time.Minute, d)
}

func TestWindowKeyChangesNextDay(t *testing.T) {
	today, _ := windowKey("k", ratelimiter.Hour, time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC))
	tomorrow, _ := windowKey("k", ratelimiter.Hour, time.Date(2020, 6, 2, 12, 0, 0, 0, time.UTC))
	require.NotEqual(t, today, tomorrow)
}
