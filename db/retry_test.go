package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func withFastRetry(t *testing.T) {
	t.Helper()
	original := retryDelay
	retryDelay = func(int) time.Duration { return time.Millisecond }
	t.Cleanup(func() { retryDelay = original })
}

func TestRetryDelayIsExponential(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, retryDelay(1))
	assert.Equal(t, time.Second, retryDelay(2))
	assert.Equal(t, 2*time.Second, retryDelay(3))
}

func TestWarmUpDelayIsLinear(t *testing.T) {
	assert.Equal(t, time.Second, warmUpDelay(1))
	assert.Equal(t, 3*time.Second, warmUpDelay(3))
}

func TestIsConnectionError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "refused", err: errors.New("dial tcp 127.0.0.1:27017: connect: connection refused"), want: true},
		{name: "selection", err: errors.New("server selection error: context deadline exceeded"), want: true},
		{name: "no documents", err: mongo.ErrNoDocuments, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "validation", err: errors.New("title is required"), want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConnectionError(tc.err))
		})
	}
}

func TestWithRetryRetriesConnectionErrors(t *testing.T) {
	withFastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "get_session", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUpAfterThreeAttempts(t *testing.T) {
	withFastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "get_user", func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, maxRetryAttempts, calls)
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	withFastRetry(t)

	calls := 0
	err := WithRetry(context.Background(), "create_user", func(ctx context.Context) error {
		calls++
		return mongo.ErrNoDocuments
	})

	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.Equal(t, 1, calls)
}

func TestWithRetryValue(t *testing.T) {
	withFastRetry(t)

	calls := 0
	v, err := WithRetryValue(context.Background(), "count", func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("i/o timeout")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestInitRemembersFirstFailure(t *testing.T) {
	origConnect := connectFn
	t.Cleanup(func() {
		connectFn = origConnect
		clientOnce = sync.Once{}
		initErr = nil
	})
	clientOnce = sync.Once{}
	initErr = nil

	calls := 0
	connectFn = func(context.Context) error {
		calls++
		return errors.New("no reachable servers")
	}

	first := Init(context.Background())
	require.Error(t, first)
	second := Init(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Nil(t, Client())
}
