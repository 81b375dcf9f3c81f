package umamiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"portfolio/cmd/api/httpclient"
	"portfolio/internal/resilience"
)

// Client 는 Umami 통계 API 를 호출하는 얇은 클라이언트다.
//
// baseURL 예: https://analytics.example.com/api

var (
	ErrNotConfigured = errors.New("umami analytics not configured")
	ErrUnavailable   = errors.New("umami analytics unavailable")
)

type Config struct {
	BaseURL   string
	Token     string
	WebsiteID string
	Timeout   time.Duration
}

func (c Config) Configured() bool {
	return c.BaseURL != "" && c.Token != "" && c.WebsiteID != ""
}

type Client struct {
	base      *httpclient.BaseClient
	token     string
	websiteID string
	cb        *gobreaker.CircuitBreaker[[]byte]
}

// New 는 httpClient 가 nil 이면 cfg.Timeout 으로 로깅 클라이언트를 만든다.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: cfg.Timeout})
	}
	return &Client{
		base:      httpclient.NewBaseClientWithClient(httpClient, strings.TrimRight(cfg.BaseURL, "/")),
		token:     cfg.Token,
		websiteID: cfg.WebsiteID,
		cb:        resilience.NewBreaker[[]byte](resilience.DefaultBreakerConfig("umami")),
	}, nil
}

// Range 는 조회 기간이다. Umami 에는 날짜(YYYY-MM-DD)만 넘긴다.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) query() url.Values {
	return url.Values{
		"start":    {r.Start.UTC().Format(time.DateOnly)},
		"end":      {r.End.UTC().Format(time.DateOnly)},
		"timezone": {"UTC"},
	}
}

// Count 는 Umami 버전에 따라 숫자 또는 {"value": n} 으로 오는 값을 받아준다.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Count(n)
		return nil
	}
	var wrapped struct {
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return fmt.Errorf("umami count: %w", err)
	}
	*c = Count(wrapped.Value)
	return nil
}

type Stats struct {
	PageViews Count `json:"pageviews"`
	Visitors  Count `json:"visitors"`
}

// Metric 은 /pages, /referrers, /devices 응답의 한 행이다 (x=이름, y=값).
type Metric struct {
	X string `json:"x"`
	Y int64  `json:"y"`
}

const (
	MetricPages     = "pages"
	MetricReferrers = "referrers"
	MetricDevices   = "devices"
)

func (c *Client) Stats(ctx context.Context, r Range) (Stats, error) {
	var out Stats
	err := c.getJSON(ctx, "stats", r.query(), &out)
	return out, err
}

func (c *Client) Metrics(ctx context.Context, kind string, r Range) ([]Metric, error) {
	var out []Metric
	if err := c.getJSON(ctx, kind, r.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ActiveVisitors(ctx context.Context) (int64, error) {
	var out struct {
		ActiveVisitors Count `json:"activeVisitors"`
	}
	if err := c.getJSON(ctx, "realtime", nil, &out); err != nil {
		return 0, err
	}
	return int64(out.ActiveVisitors), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := c.base.NewRequest(ctx, http.MethodGet, "/websites/"+url.PathEscape(c.websiteID)+"/"+endpoint, query, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.base.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("umami %s: status=%d body=%s", endpoint, resp.StatusCode, truncate(b, 256))
		}
		return b, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("umami %s: decode: %w", endpoint, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
