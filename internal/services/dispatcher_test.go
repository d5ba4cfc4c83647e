package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsTasks(t *testing.T) {
	d := NewDispatcher(2, 8, time.Second, testLogger())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := d.Enqueue("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		assert.True(t, ok)
	}
	d.Close()

	assert.Equal(t, int32(5), ran.Load())
}

func TestDispatcherSwallowsTaskErrors(t *testing.T) {
	d := NewDispatcher(1, 4, time.Second, testLogger())

	ok := d.Enqueue("failing", func(ctx context.Context) error {
		return errors.New("smtp down")
	})
	assert.True(t, ok)

	// Close waits for the failing task; it must not panic or deadlock.
	d.Close()
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	d := NewDispatcher(1, 1, time.Second, testLogger())

	// First task occupies the worker, second fills the queue.
	d.Enqueue("blocker", func(ctx context.Context) error {
		<-block
		return nil
	})

	// The worker may not have picked up the blocker yet, so fill until the
	// queue rejects.
	deadline := time.After(time.Second)
	for {
		if ok := d.Enqueue("filler", func(ctx context.Context) error { return nil }); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("queue never filled")
		default:
		}
	}

	close(block)
	d.Close()
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(1, 4, time.Second, testLogger())
	d.Close()

	ok := d.Enqueue("late", func(ctx context.Context) error { return nil })
	assert.False(t, ok)

	// Closing twice is a no-op.
	d.Close()
}

func TestDispatcherAppliesTimeout(t *testing.T) {
	d := NewDispatcher(1, 4, 10*time.Millisecond, testLogger())

	done := make(chan error, 1)
	d.Enqueue("slow", func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})
	d.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	default:
		t.Fatal("task never observed its deadline")
	}
}
