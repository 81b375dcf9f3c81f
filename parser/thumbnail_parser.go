package parser

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"portfolio/internal/logger"
)

const (
	minThumbnailWidth  = 300
	minThumbnailHeight = 300
)

// ImageDimensions 는 크기 정보가 없는 <img> 의 실제 크기를 알아낼 때 쓴다. 테스트에서 교체한다.
var ImageDimensions = fetchImageDimensions

// ParseTopImageFromHTML 은 readability → og/twitter meta → link rel → 충분히 큰 <img> 순서로 대표 이미지를 찾는다.
func ParseTopImageFromHTML(ctx context.Context, htmlStr string, pageURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}
	baseURL := parseBaseURL(pageURL)

	if imgURL := findTopImageWithReadability(doc, baseURL); imgURL != "" {
		return resolveImageURL(imgURL, baseURL), nil
	}

	// readability 가 트리를 건드리므로 다시 파싱
	doc, err = html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	if imgURL := findTopImageFromMeta(doc); imgURL != "" {
		return resolveImageURL(imgURL, baseURL), nil
	}

	if imgURL := findTopImageFromLink(doc); imgURL != "" {
		return resolveImageURL(imgURL, baseURL), nil
	}

	if imgURL := findTopImageFromImg(ctx, doc, baseURL, minThumbnailWidth, minThumbnailHeight); imgURL != "" {
		return imgURL, nil
	}

	logger.DebugWithFields("no top image found", logger.Fields{
		"url":       pageURL,
		"html_size": len(htmlStr),
	})
	return "", nil
}

func findTopImageWithReadability(doc *html.Node, baseURL *url.URL) string {
	article, err := readability.FromDocument(doc, baseURL)
	if err != nil {
		return ""
	}
	return article.Image
}

func findTopImageFromMeta(doc *html.Node) string {
	// Open Graph → Twitter 카드 → 기타
	if u := findMetaContent(doc, "property", []string{"og:image", "og:image:url", "og:image:secure_url"}); u != "" {
		return u
	}
	if u := findMetaContent(doc, "name", []string{"twitter:image", "twitter:image:src", "thumbnail", "image"}); u != "" {
		return u
	}
	return findMetaContent(doc, "itemprop", []string{"image"})
}

func findMetaContent(root *html.Node, key string, candidates []string) string {
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[strings.ToLower(c)] = struct{}{}
	}

	var result string
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return false
		}
		var attrValue, content string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case key:
				attrValue = strings.ToLower(a.Val)
			case "content":
				content = strings.TrimSpace(a.Val)
			}
		}
		if content == "" {
			return false
		}
		if _, ok := candidateSet[attrValue]; ok {
			result = content
			return true
		}
		return false
	})
	return result
}

func findTopImageFromLink(doc *html.Node) string {
	var result string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "link" {
			return false
		}
		var rel, href string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "rel":
				rel = strings.ToLower(a.Val)
			case "href":
				href = a.Val
			}
		}
		if href != "" && (rel == "image_src" || strings.Contains(rel, "thumbnail")) {
			result = href
			return true
		}
		return false
	})
	return result
}

// findTopImageFromImg 는 본문 이미지 중 썸네일로 쓸 만큼 큰 첫 이미지를 고른다.
// width/height 속성이 둘 다 충분하면 바로 채택하고, 모자라면 건너뛰고, 없으면 실제로 받아서 잰다.
func findTopImageFromImg(ctx context.Context, doc *html.Node, baseURL *url.URL, minWidth, minHeight int) string {
	var result string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "img" {
			return false
		}
		var src string
		var declaredWidth, declaredHeight int
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "src":
				src = a.Val
			case "width":
				declaredWidth, _ = strconv.Atoi(a.Val)
			case "height":
				declaredHeight, _ = strconv.Atoi(a.Val)
			}
		}

		absURL, ok := makeAbsoluteImageURL(src, baseURL)
		if !ok {
			return false
		}
		if (declaredWidth > 0 && declaredWidth < minWidth) || (declaredHeight > 0 && declaredHeight < minHeight) {
			return false
		}
		if declaredWidth >= minWidth && declaredHeight >= minHeight {
			result = absURL
			return true
		}

		width, height, err := ImageDimensions(ctx, absURL)
		if err != nil {
			return false
		}
		if width >= minWidth && height >= minHeight {
			result = absURL
			return true
		}
		return false
	})
	return result
}

// walk 는 visit 가 true 를 돌려줄 때까지 깊이 우선으로 순회한다.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return false
	}
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func makeAbsoluteImageURL(src string, baseURL *url.URL) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return "", false
	}
	parsed, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if parsed.IsAbs() {
		return parsed.String(), true
	}
	if baseURL == nil {
		return "", false
	}
	return baseURL.ResolveReference(parsed).String(), true
}

func resolveImageURL(src string, baseURL *url.URL) string {
	if abs, ok := makeAbsoluteImageURL(src, baseURL); ok {
		return abs
	}
	return src
}

func fetchImageDimensions(ctx context.Context, imageURL string) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status code %d when fetching image", resp.StatusCode)
	}

	const maxImageBytes = 8 << 20
	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
