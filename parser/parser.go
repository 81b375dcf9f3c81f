package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"portfolio/feeder"
)

// maxHTMLBytes 보다 큰 문서는 잘라서 읽는다.
const maxHTMLBytes = 5 << 20

type ParsedArticle struct {
	Title            string
	Excerpt          string
	PlainTextContent string
	TopImage         string
}

// FetchHTML 은 서버 렌더링 페이지의 HTML 을 가져온다.
func FetchHTML(ctx context.Context, client *http.Client, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	feeder.SetBrowserHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ParseArticle 은 readability 로 본문 텍스트를 뽑고, 대표 이미지는 ParseTopImageFromHTML 규칙으로 찾는다.
func ParseArticle(ctx context.Context, htmlStr, pageURL string) (*ParsedArticle, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	baseURL := parseBaseURL(pageURL)
	article, err := readability.FromDocument(doc, baseURL)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	parsed := &ParsedArticle{
		Title:            strings.TrimSpace(article.Title),
		Excerpt:          strings.TrimSpace(article.Excerpt),
		PlainTextContent: strings.TrimSpace(article.TextContent),
	}
	if article.Image != "" {
		parsed.TopImage = resolveImageURL(article.Image, baseURL)
		return parsed, nil
	}

	// readability 가 문서를 변형하므로 이미지 탐색은 원본을 다시 파싱해서 한다.
	topImage, err := ParseTopImageFromHTML(ctx, htmlStr, pageURL)
	if err != nil {
		return nil, err
	}
	parsed.TopImage = topImage
	return parsed, nil
}

func parseBaseURL(pageURL string) *url.URL {
	if pageURL == "" {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	return u
}
