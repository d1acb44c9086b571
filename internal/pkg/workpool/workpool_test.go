package workpool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoolDo(t *testing.T) {

	t.Run("ReturnsTaskResult", func(t *testing.T) {

		// Arrange
		pool := New(2)
		want := errors.New("task says no")

		// Act
		err := pool.Do(context.Background(), func(ctx context.Context) error {
			return want
		})

		// Assert
		if !errors.Is(err, want) {
			t.Fatalf("err = %v, want %v", err, want)
		}
	})

	t.Run("NilOnSuccess", func(t *testing.T) {

		// Arrange
		pool := New(2)

		// Act
		err := pool.Do(context.Background(), func(ctx context.Context) error {
			return nil
		})

		// Assert
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	})

	t.Run("TimeoutMidRun", func(t *testing.T) {

		// Arrange
		pool := New(1)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		release := make(chan struct{})
		defer close(release)

		// Act
		err := pool.Do(ctx, func(ctx context.Context) error {
			<-release
			return nil
		})

		// Assert
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})

	t.Run("TimeoutWhileQueued", func(t *testing.T) {

		// Arrange: fill the only slot so the next task cannot start.
		pool := New(1)
		started := make(chan struct{})
		release := make(chan struct{})

		go pool.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
		<-started
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		// Act
		err := pool.Do(ctx, func(ctx context.Context) error {
			return nil
		})

		// Assert
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
	})

	t.Run("PanicBecomesError", func(t *testing.T) {

		// Arrange
		pool := New(1)

		// Act
		err := pool.Do(context.Background(), func(ctx context.Context) error {
			panic("pixel buffer went sideways")
		})

		// Assert
		if err == nil {
			t.Fatalf("expected an error from a panicking task")
		}
	})

	t.Run("InFlightGauge", func(t *testing.T) {

		// Arrange
		pool := New(2)
		started := make(chan struct{})
		release := make(chan struct{})

		go pool.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
		<-started

		// Act / Assert
		if got := pool.InFlight(); got != 1 {
			t.Fatalf("in flight = %d, want 1", got)
		}
		close(release)
	})
}
