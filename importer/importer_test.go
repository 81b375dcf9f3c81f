package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/feeder"
	"portfolio/models"
	"portfolio/parser"
	"portfolio/summarizer"
)

type fakeBlogs struct {
	mu       sync.Mutex
	existing map[string]bool
	inserted []*models.Blog
}

func (f *fakeBlogs) ExistsBySourceLink(ctx context.Context, link string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[link], nil
}

func (f *fakeBlogs) Insert(ctx context.Context, b *models.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, b)
	return nil
}

type fakeFeed struct {
	items []feeder.FeedItem
	err   error
}

func (f fakeFeed) Fetch(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

type fakeArticles map[string]*parser.ParsedArticle

func (f fakeArticles) Fetch(ctx context.Context, pageURL string) (*parser.ParsedArticle, error) {
	a, ok := f[pageURL]
	if !ok {
		return nil, errors.New("404")
	}
	return a, nil
}

type fakeSuggester struct{}

func (fakeSuggester) Suggest(ctx context.Context, text string) (*summarizer.Suggestion, error) {
	return &summarizer.Suggestion{Excerpt: "suggested", Tags: []string{"Go", "MongoDB", "Kafka"}}, nil
}

func TestImportCountsImportedSkippedFailed(t *testing.T) {
	blogs := &fakeBlogs{existing: map[string]bool{"https://b.example.com/old": true}}
	feed := fakeFeed{items: []feeder.FeedItem{
		{Title: "New", Link: "https://b.example.com/new", Categories: []string{"go"}},
		{Title: "Old", Link: "https://b.example.com/old"},
		{Title: "Broken", Link: "https://b.example.com/broken"},
	}}
	articles := fakeArticles{
		"https://b.example.com/new": {PlainTextContent: "body", TopImage: "https://b.example.com/cover.png"},
	}
	author := primitive.NewObjectID()

	res, err := New(blogs, feed, articles, nil).Import(context.Background(), Request{
		FeedURL:  "https://b.example.com/feed",
		Limit:    10,
		AuthorID: author,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ImportResult{Imported: 1, Skipped: 1, Failed: 1}, res)

	require.Len(t, blogs.inserted, 1)
	b := blogs.inserted[0]
	assert.False(t, b.Published)
	assert.Equal(t, "https://b.example.com/new", b.SourceLink)
	assert.Equal(t, author, b.CreatedByID)
	assert.Equal(t, []string{"go"}, b.Tags)
	assert.Equal(t, "https://b.example.com/cover.png", b.CoverImage)
}

func TestImportUsesSuggestions(t *testing.T) {
	blogs := &fakeBlogs{}
	feed := fakeFeed{items: []feeder.FeedItem{{Title: "A", Link: "https://b.example.com/a"}}}
	articles := fakeArticles{"https://b.example.com/a": {PlainTextContent: "text", Excerpt: "readability excerpt"}}

	res, err := New(blogs, feed, articles, fakeSuggester{}).Import(context.Background(), Request{
		FeedURL:  "https://b.example.com/feed",
		AuthorID: primitive.NewObjectID(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "suggested", blogs.inserted[0].Excerpt)
	assert.Equal(t, []string{"Go", "MongoDB", "Kafka"}, blogs.inserted[0].Tags)
}

func TestImportRejectsInvalidRequest(t *testing.T) {
	imp := New(&fakeBlogs{}, fakeFeed{}, fakeArticles{}, nil)

	_, err := imp.Import(context.Background(), Request{FeedURL: "ftp://x", AuthorID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = imp.Import(context.Background(), Request{FeedURL: "https://x.example.com/feed"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestImportFeedError(t *testing.T) {
	imp := New(&fakeBlogs{}, fakeFeed{err: errors.New("status 403")}, fakeArticles{}, nil)
	_, err := imp.Import(context.Background(), Request{FeedURL: "https://x.example.com/feed", AuthorID: primitive.NewObjectID()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestBuildDraftFallsBackToFeedFields(t *testing.T) {
	item := feeder.FeedItem{
		Title:       strings.Repeat("t", 300),
		Link:        "https://b.example.com/x",
		Description: "feed description",
		Content:     "feed content",
	}
	b := BuildDraft(item, nil)
	assert.Len(t, b.Title, maxTitleRunes)
	assert.Equal(t, "feed content", b.Content)
	assert.Equal(t, "feed description", b.Excerpt)
	assert.Empty(t, b.Tags)
	assert.NotNil(t, b.Tags)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, 5, NormalizeLimit(5))
	assert.Equal(t, MaxLimit, NormalizeLimit(1000))
}
