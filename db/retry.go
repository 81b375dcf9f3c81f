package db

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"portfolio/internal/logger"
)

const (
	maxRetryAttempts = 3
	retryBaseDelay   = 500 * time.Millisecond
)

// retryDelay 는 attempt 번째 실패 이후 대기 시간이다 (500ms, 1s, 2s, ...).
var retryDelay = func(attempt int) time.Duration {
	return retryBaseDelay * time.Duration(1<<(attempt-1))
}

var connectionErrorPhrases = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"broken pipe",
	"server selection error",
	"no reachable servers",
	"i/o timeout",
	"socket was unexpectedly closed",
}

// IsConnectionError 는 err 가 재시도해 볼 만한 연결 계열 오류인지 판단한다.
// 중복 키나 디코딩 오류처럼 다시 시도해도 결과가 같은 오류는 false 다.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var selErr topology.ServerSelectionError
	if errors.As(err, &selErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range connectionErrorPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// WithRetry 는 fn 을 실행하고, 연결 오류일 때만 최대 3회까지 지수 백오프로 다시 시도한다.
func WithRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsConnectionError(err) {
			return err
		}
		if attempt == maxRetryAttempts {
			break
		}
		delay := retryDelay(attempt)
		logger.WarnWithFields("database operation failed, retrying", logger.Fields{
			"operation": operation,
			"attempt":   attempt,
			"delay":     delay.String(),
			"error":     err.Error(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// WithRetryValue 는 값을 돌려주는 작업용 WithRetry 다.
func WithRetryValue[T any](ctx context.Context, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := WithRetry(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
