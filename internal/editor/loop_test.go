package editor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := NewLoop()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		require.True(t, loop.Post(func() {
			order = append(order, i)
			if i == 0 {
				loop.Post(func() { order = append(order, 10) })
			}
		}))
	}

	assert.Equal(t, 4, loop.Flush())
	assert.Equal(t, []int{0, 1, 2, 10}, order)
	assert.Zero(t, loop.Flush())
}

func TestLoopCloseRejectsPosts(t *testing.T) {
	loop := NewLoop()
	ran := false
	loop.Post(func() { ran = true })
	loop.Close()

	assert.False(t, loop.Post(func() {}))
	assert.Zero(t, loop.Flush())
	assert.False(t, ran)
}

func TestLoopRunAndDo(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, loop.Do(ctx, func() { calls.Add(1) }))
	}
	assert.Equal(t, int32(5), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.False(t, loop.Post(func() {}))
	assert.Error(t, loop.Do(context.Background(), func() {}))
}
