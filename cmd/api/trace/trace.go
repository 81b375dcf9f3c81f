package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info 는 요청 하나의 트레이싱 정보다. spanSeq 는 같은 요청 안의 외부 호출마다 1,2,3... 으로 증가한다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID 는 하이픈 없는 UUIDv4 를 돌려준다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithRequestAndSpan 은 Request ID 와 초기 span 값(보통 0)을 담은 컨텍스트를 만든다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID, spanSeq: initialSpan})
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// CurrentSpanID 는 현재 span 값을 증가시키지 않고 돌려준다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID 는 spanSeq 를 1 올리고 (requestID, spanID) 를 돌려준다.
// 미들웨어 밖(워커, CLI)에서 호출되면 새 Request ID 와 span 1 을 쓴다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}

// Fields 는 로그에 붙일 request_id/span_id 다.
func Fields(ctx context.Context) map[string]any {
	return map[string]any{
		"request_id": RequestIDFromContext(ctx),
		"span_id":    CurrentSpanID(ctx),
	}
}
