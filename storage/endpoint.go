package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint 는 minio 클라이언트가 요구하는 host 와 TLS 여부, 그리고 공개 URL 기준값이다.
type Endpoint struct {
	Host   string
	Secure bool
	URL    string
}

// ParseEndpoint 는 "https://minio.example.com", "http://localhost:9000" 같은 전체 URL 과
// "bucket.example.com" 같은 host 만 있는 값을 모두 받는다. scheme 이 없으면 https 로 간주한다.
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Endpoint{}, fmt.Errorf("empty endpoint")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("endpoint %q has no host", raw)
	}
	return Endpoint{
		Host:   u.Host,
		Secure: u.Scheme == "https",
		URL:    u.Scheme + "://" + u.Host,
	}, nil
}
