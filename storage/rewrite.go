package storage

import (
	"net/url"
	"regexp"
	"strings"
)

const ProxyPathPrefix = "/api/media/"

// ProxyURL 은 API 의 미디어 프록시 경로다. key 의 각 경로 조각을 escape 한다.
func ProxyURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return ProxyPathPrefix + strings.Join(segments, "/")
}

// RewriteDirectURLs 는 본문에 박혀 있는 버킷 직접 URL(directBase + key)을 프록시 URL 로 바꾼다.
// directBase 는 "https://host/bucket" 형태이며 끝의 "/" 는 있어도 없어도 된다.
// 따옴표로 감싼 HTML 속성 안에서는 key 에 공백이 들어갈 수 있고,
// 그 밖(마크다운, 일반 문장)에서는 공백이나 ")" 에서 key 가 끝난다.
func RewriteDirectURLs(content, directBase string) (string, int) {
	directBase = strings.TrimRight(strings.TrimSpace(directBase), "/")
	if directBase == "" || content == "" {
		return content, 0
	}
	base := regexp.QuoteMeta(directBase)
	quoted := regexp.MustCompile(`(["'])` + base + `/([^"'<>\n]+)(["'])`)
	bare := regexp.MustCompile(base + `/([^\s)"'<>]+)`)

	count := 0
	out := quoted.ReplaceAllStringFunc(content, func(match string) string {
		m := quoted.FindStringSubmatch(match)
		key := strings.TrimRight(m[2], " \t")
		if key == "" {
			return match
		}
		count++
		return m[1] + proxyFor(key) + m[2][len(key):] + m[3]
	})
	out = bare.ReplaceAllStringFunc(out, func(match string) string {
		rest := match[len(directBase)+1:]
		// 문장 끝 구두점은 key 가 아니다
		key := strings.TrimRight(rest, ".,;:!?")
		if key == "" {
			return match
		}
		count++
		return proxyFor(key) + rest[len(key):]
	})
	return out, count
}

func proxyFor(key string) string {
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return ProxyURL(key)
}
