package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noFetch(t *testing.T) {
	t.Helper()
	original := ImageDimensions
	ImageDimensions = func(ctx context.Context, imageURL string) (int, int, error) {
		return 0, 0, errors.New("network disabled in test")
	}
	t.Cleanup(func() { ImageDimensions = original })
}

const articleHTML = `<!doctype html>
<html><head>
<title>Understanding InnoDB Logs</title>
<meta property="og:image" content="/images/cover.png">
</head>
<body>
<nav>home | about</nav>
<article>
<h1>Understanding InnoDB Logs</h1>
<p>InnoDB keeps a redo log so that committed transactions survive a crash. The log is written sequentially and flushed according to innodb_flush_log_at_trx_commit.</p>
<p>The undo log, on the other hand, keeps older row versions so that consistent reads and rollbacks work. Purge threads remove undo records once no transaction needs them anymore.</p>
<p>Tuning both logs matters for write heavy workloads, and this post walks through the settings we changed in production along with the metrics we watched.</p>
</article>
</body></html>`

func TestParseArticle(t *testing.T) {
	noFetch(t)

	article, err := ParseArticle(context.Background(), articleHTML, "https://blog.example.com/posts/1")
	require.NoError(t, err)
	assert.Contains(t, article.PlainTextContent, "redo log")
	assert.NotContains(t, article.PlainTextContent, "home | about")
	assert.Equal(t, "https://blog.example.com/images/cover.png", article.TopImage)
}

func TestParseTopImageFromHTMLFallbacks(t *testing.T) {
	noFetch(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "twitter meta",
			html: `<html><head><meta name="twitter:image" content="https://cdn.example.com/t.png"></head><body></body></html>`,
			want: "https://cdn.example.com/t.png",
		},
		{
			name: "link image_src",
			html: `<html><head><link rel="image_src" href="thumb.jpg"></head><body></body></html>`,
			want: "https://blog.example.com/posts/thumb.jpg",
		},
		{
			name: "large declared img",
			html: `<html><body><img src="/small.png" width="16" height="16"><img src="/big.png" width="800" height="400"></body></html>`,
			want: "https://blog.example.com/big.png",
		},
		{
			name: "nothing",
			html: `<html><body><img src="data:image/png;base64,AAAA"><p>text</p></body></html>`,
			want: "",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTopImageFromHTML(ctx, tc.html, "https://blog.example.com/posts/1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTopImageMeasuresUndeclaredImages(t *testing.T) {
	original := ImageDimensions
	ImageDimensions = func(ctx context.Context, imageURL string) (int, int, error) {
		if strings.HasSuffix(imageURL, "/large.png") {
			return 1200, 630, nil
		}
		return 10, 10, nil
	}
	t.Cleanup(func() { ImageDimensions = original })

	htmlStr := `<html><body><img src="/icon.png"><img src="/large.png"></body></html>`
	got, err := ParseTopImageFromHTML(context.Background(), htmlStr, "https://blog.example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/large.png", got)
}

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	body, err := FetchHTML(context.Background(), srv.Client(), srv.URL+"/post")
	require.NoError(t, err)
	assert.Contains(t, body, "ok")

	_, err = FetchHTML(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}
