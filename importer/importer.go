package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"portfolio/feeder"
	"portfolio/internal/logger"
	"portfolio/models"
	"portfolio/parser"
	"portfolio/summarizer"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
	// 동시에 가져오는 기사 수
	fetchConcurrency = 3
	maxTitleRunes    = 255
)

var ErrInvalidRequest = errors.New("invalid import request")

type BlogStore interface {
	ExistsBySourceLink(ctx context.Context, link string) (bool, error)
	Insert(ctx context.Context, b *models.Blog) error
}

type FeedSource interface {
	Fetch(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error)
}

type ArticleSource interface {
	Fetch(ctx context.Context, pageURL string) (*parser.ParsedArticle, error)
}

type Suggester interface {
	Suggest(ctx context.Context, text string) (*summarizer.Suggestion, error)
}

// HTTPArticleSource 는 기사 HTML 을 받아 readability 로 파싱한다.
type HTTPArticleSource struct {
	Client *http.Client
}

func (s HTTPArticleSource) Fetch(ctx context.Context, pageURL string) (*parser.ParsedArticle, error) {
	client := s.Client
	if client == nil {
		client = feeder.NewBrowserClient(feeder.FeederTimeout)
	}
	htmlStr, err := parser.FetchHTML(ctx, client, pageURL)
	if err != nil {
		return nil, err
	}
	return parser.ParseArticle(ctx, htmlStr, pageURL)
}

type Request struct {
	FeedURL  string
	Limit    int
	AuthorID primitive.ObjectID
}

// Importer 는 외부 피드 항목을 미게시 블로그 초안으로 저장한다.
type Importer struct {
	blogs     BlogStore
	feeds     FeedSource
	articles  ArticleSource
	suggester Suggester
}

// New 는 Importer 를 만든다. suggester 가 nil 이면 요약/태그 제안 없이 피드 정보만 쓴다.
func New(blogs BlogStore, feeds FeedSource, articles ArticleSource, suggester Suggester) *Importer {
	return &Importer{blogs: blogs, feeds: feeds, articles: articles, suggester: suggester}
}

func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (i *Importer) Import(ctx context.Context, req Request) (models.ImportResult, error) {
	var result models.ImportResult
	if !strings.HasPrefix(req.FeedURL, "http://") && !strings.HasPrefix(req.FeedURL, "https://") {
		return result, fmt.Errorf("%w: feed url must be http(s)", ErrInvalidRequest)
	}
	if req.AuthorID.IsZero() {
		return result, fmt.Errorf("%w: author is required", ErrInvalidRequest)
	}

	items, err := i.feeds.Fetch(ctx, req.FeedURL, NormalizeLimit(req.Limit))
	if err != nil {
		return result, fmt.Errorf("fetch feed: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, item := range items {
		g.Go(func() error {
			outcome := i.importItem(gctx, item, req.AuthorID)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeImported:
				result.Imported++
			case outcomeSkipped:
				result.Skipped++
			default:
				result.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	logger.InfoWithFields("feed import finished", logger.Fields{
		"feed_url": req.FeedURL,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	})
	return result, nil
}

type outcome int

const (
	outcomeImported outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (i *Importer) importItem(ctx context.Context, item feeder.FeedItem, authorID primitive.ObjectID) outcome {
	fields := logger.Fields{"link": item.Link}

	exists, err := i.blogs.ExistsBySourceLink(ctx, item.Link)
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("failed to check imported blog", fields)
		return outcomeFailed
	}
	if exists {
		return outcomeSkipped
	}

	article, err := i.articles.Fetch(ctx, item.Link)
	if err != nil {
		fields["error"] = err.Error()
		logger.WarnWithFields("failed to fetch article", fields)
		return outcomeFailed
	}

	blog := BuildDraft(item, article)
	blog.CreatedByID = authorID
	if blog.Content == "" {
		logger.WarnWithFields("article has no content", fields)
		return outcomeFailed
	}

	if i.suggester != nil {
		if s, err := i.suggester.Suggest(ctx, blog.Content); err != nil {
			fields["error"] = err.Error()
			logger.WarnWithFields("suggestion skipped", fields)
		} else {
			if s.Excerpt != "" {
				blog.Excerpt = s.Excerpt
			}
			if len(s.Tags) > 0 {
				blog.Tags = s.Tags
			}
		}
	}

	if err := i.blogs.Insert(ctx, blog); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return outcomeSkipped
		}
		fields["error"] = err.Error()
		logger.ErrorWithFields("failed to insert imported blog", fields)
		return outcomeFailed
	}
	return outcomeImported
}

// BuildDraft 는 피드 항목과 파싱한 기사를 미게시 블로그로 합친다.
// 기사에서 못 얻은 값은 피드 값으로 채운다.
func BuildDraft(item feeder.FeedItem, article *parser.ParsedArticle) *models.Blog {
	if article == nil {
		article = &parser.ParsedArticle{}
	}

	title := firstNonEmpty(item.Title, article.Title, item.Link)
	content := firstNonEmpty(article.PlainTextContent, item.Content, item.Description)
	excerpt := firstNonEmpty(article.Excerpt, item.Description)

	tags := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" && len(tags) < summarizer.MaxTags {
			tags = append(tags, c)
		}
	}

	return &models.Blog{
		Title:      truncateRunes(title, maxTitleRunes),
		Content:    content,
		Excerpt:    truncateRunes(excerpt, summarizer.MaxExcerptRunes),
		CoverImage: article.TopImage,
		Tags:       tags,
		Published:  false,
		SourceLink: item.Link,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
