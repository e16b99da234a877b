package utils

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetry_ReintentaHastaExito(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("temporal")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_DevuelveUltimoError(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.New("siempre")
	})

	assert.EqualError(t, err, "siempre")
	assert.Equal(t, 2, calls)
}

func TestRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Second, func() error { return errors.New("x") })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnmarshalAndHandle(t *testing.T) {
	type payload struct {
		N int `json:"n"`
	}
	var got payload
	called := false

	UnmarshalAndHandle[payload](zap.NewNop(), json.RawMessage(`{"n":7}`), func(p payload) {
		called = true
		got = p
	})
	assert.True(t, called)
	assert.Equal(t, 7, got.N)

	called = false
	UnmarshalAndHandle[payload](zap.NewNop(), json.RawMessage(`{`), func(p payload) { called = true })
	assert.False(t, called)
}

func TestTernary(t *testing.T) {
	assert.Equal(t, "a", Ternary(true, "a", "b"))
	assert.Equal(t, 2, Ternary(false, 1, 2))
}
