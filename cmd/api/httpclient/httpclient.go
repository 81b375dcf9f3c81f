package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"portfolio/cmd/api/trace"
	"portfolio/internal/logger"
)

const maxBodyLog = 1024

// Config 는 HTTP 클라이언트 공통 설정이다.
type Config struct {
	Timeout time.Duration
	// Transport 가 nil 이면 http.DefaultTransport 를 쓴다.
	Transport http.RoundTripper
}

// loggingRoundTripper 는 모든 외부 HTTP 호출에 X-Request-Id/X-Span-Id 를 붙이고 결과를 로깅한다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	// RoundTripper 는 원본 요청을 수정하면 안 된다
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)

	var bodySnippet string
	if req.Body != nil && req.Body != http.NoBody && isTextual(req.Header.Get("Content-Type")) {
		if bodyBytes, err := io.ReadAll(req.Body); err == nil {
			bodySnippet = snippet(bodyBytes)
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	fields := logger.Fields{
		"method":     req.Method,
		"url":        redactedURL(req.URL),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}

	resp, err := l.inner.RoundTrip(req)
	fields["duration"] = time.Since(start).String()
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

func isTextual(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "text/")
}

func snippet(b []byte) string {
	if len(b) > maxBodyLog {
		return string(b[:maxBodyLog])
	}
	return string(b)
}

// redactedURL 은 code/token 같은 민감한 쿼리 값을 가린다.
func redactedURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	for _, key := range []string{"code", "access_token", "client_secret", "token"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	out := *u
	out.RawQuery = q.Encode()
	return out.String()
}

// BaseClient 는 공통 HTTP 클라이언트와 baseURL 을 묶어 요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewBaseClientWithClient 는 httpClient 가 nil 이면 기본 클라이언트를 쓴다.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	return &BaseClient{HTTPClient: httpClient, BaseURL: baseURL}
}

// NewRequest 는 baseURL 에 relPath 를 붙이고 query 를 인코딩한다.
// relPath 에 쿼리(?)가 들어 있으면 path.Join 이 망가뜨리므로 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New 는 로깅 RoundTripper 를 끼운 http.Client 를 만든다. Timeout 이 0 이면 10초.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}

func NewDefault() *http.Client {
	return New(Config{})
}
