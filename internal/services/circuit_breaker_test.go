package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerTripsAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreakerService(5, time.Minute, testLogger())

	failing := func() (interface{}, error) { return nil, errors.New("upstream down") }
	for i := 0; i < 3; i++ {
		_, err := cb.Execute(BreakerStatsAPI, failing)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.GetState(BreakerStatsAPI))

	_, err := cb.Execute(BreakerStatsAPI, func() (interface{}, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState, "open breaker short-circuits the call")
}

func TestCircuitBreakerPassesResultsThrough(t *testing.T) {
	cb := NewCircuitBreakerService(5, time.Minute, testLogger())

	result, err := cb.Execute(BreakerStatsAPI, func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState(BreakerStatsAPI))
	assert.Equal(t, uint32(1), cb.GetCounts(BreakerStatsAPI).TotalSuccesses)
}

func TestCircuitBreakerUnknownServiceExecutesDirectly(t *testing.T) {
	cb := NewCircuitBreakerService(5, time.Minute, testLogger())

	result, err := cb.Execute("unregistered", func() (interface{}, error) { return "raw", nil })
	require.NoError(t, err)
	assert.Equal(t, "raw", result)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("unregistered"))
}
