package feeder

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type FeedItem struct {
	Title       string
	Link        string
	Description string
	Content     string
	Categories  []string
	PublishedAt time.Time
}

const FeederTimeout = 30 * time.Second

// BrowserUserAgent 는 외부 피드/기사를 요청할 때 쓰는 브라우저 유사 User-Agent 이다.
// CDN/보안 프록시 뒤의 블로그는 기본 Go UA 를 차단하는 경우가 많다.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// Fetcher 는 RSS/Atom 피드를 가져온다. 클라이언트는 테스트에서 바꿔 끼울 수 있다.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = NewBrowserClient(FeederTimeout)
	}
	return &Fetcher{client: client}
}

// NewBrowserClient 는 리다이렉트 중에도 User-Agent 를 유지하는 HTTP 클라이언트다.
func NewBrowserClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			// 인증서 체인이 불완전한 기술 블로그가 있다 (ex. 우아한 형제들)
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			req.Header.Set("User-Agent", BrowserUserAgent)
			return nil
		},
	}
}

// SetBrowserHeaders 는 WAF 에 막히지 않도록 브라우저 요청처럼 헤더를 채운다.
func SetBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ko;q=0.8")
	req.Header.Set("Referer", "https://www.google.com/")
}

// Fetch 는 feedURL 의 항목을 가져온다. limit > 0 이면 앞에서부터 limit 개만 돌려준다.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, limit int) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}
	SetBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodySample, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("failed to fetch feed: status code %d, url: %s, body: %s", resp.StatusCode, feedURL, string(bodySample))
	}

	cleaned, err := cleanControlCharacters(resp.Body)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: item.Description,
			Content:     item.Content,
			Categories:  item.Categories,
			PublishedAt: published,
		})
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// XML 에서 허용되지 않는 제어 문자 (탭, LF, CR 제외)
var invalidControlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

func cleanControlCharacters(r io.Reader) (io.Reader, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body for cleaning: %w", err)
	}
	return bytes.NewReader(invalidControlCharRegex.ReplaceAll(body, nil)), nil
}
