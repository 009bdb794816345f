package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBackend = errors.New("backend down")

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "redis", MaxFailures: 2, Timeout: 20 * time.Millisecond})
	assert.Equal(t, "redis", cb.Name())

	fail := func() error { return errBackend }
	calls := 0
	ok := func() error { calls++; return nil }

	assert.ErrorIs(t, cb.Execute(fail), errBackend)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), errBackend)
	assert.Equal(t, StateOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(ok), ErrOpen)
	assert.Equal(t, 0, calls)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(Settings{MaxFailures: 1, Timeout: 20 * time.Millisecond})

	assert.Error(t, cb.Execute(func() error { return errBackend }))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(40 * time.Millisecond)
	assert.ErrorIs(t, cb.Execute(func() error { return errBackend }), errBackend)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(Settings{})

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBackend }), errBackend)
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errBackend }), errBackend)
	assert.Equal(t, StateOpen, cb.State())
}
