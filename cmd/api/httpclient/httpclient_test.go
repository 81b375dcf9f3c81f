package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/cmd/api/trace"
)

func TestLoggingRoundTripperPropagatesTraceHeaders(t *testing.T) {
	var gotRequestID, gotSpanID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(trace.HeaderRequestID)
		gotSpanID = r.Header.Get(trace.HeaderSpanID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewBaseClientWithClient(New(Config{Transport: srv.Client().Transport}), srv.URL)
	ctx := trace.WithRequestAndSpan(context.Background(), "req-xyz", 0)

	for want := 1; want <= 2; want++ {
		req, err := client.NewRequest(ctx, http.MethodGet, "/api/ping", url.Values{"a": {"1"}}, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "req-xyz", gotRequestID)
		assert.Equal(t, string(rune('0'+want)), gotSpanID)
	}
}

func TestNewRequestRejectsQueryInPath(t *testing.T) {
	client := NewBaseClientWithClient(nil, "https://api.example.com/v1")
	_, err := client.NewRequest(context.Background(), http.MethodGet, "/stats?x=1", nil, nil)
	assert.Error(t, err)

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/websites/abc/stats", url.Values{"start": {"1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/websites/abc/stats?start=1", req.URL.String())
}

func TestRedactedURL(t *testing.T) {
	u, _ := url.Parse("https://github.com/login/oauth/access_token?code=secret&state=s")
	out := redactedURL(u)
	assert.Contains(t, out, "code=REDACTED")
	assert.Contains(t, out, "state=s")
}
