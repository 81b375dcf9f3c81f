//go:build integration

package repositories

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio/db"
	"portfolio/models"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startMongo 는 테스트 전용 MongoDB 컨테이너를 띄우고 인덱스가 보장된 DB 를 돌려준다.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	skipIfNoDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s", host, port.Port())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("portfolio_test")
	require.NoError(t, db.EnsureIndexes(ctx, database))
	return database
}

func TestProjectRepositoryPublicPagination(t *testing.T) {
	database := startMongo(t)
	ctx := context.Background()
	repo := NewProjectRepository(database)
	author := primitive.NewObjectID()

	// featured 2개, 일반 4개, 미게시 1개
	for i := 0; i < 7; i++ {
		p := &models.Project{
			Title:       fmt.Sprintf("project-%d", i),
			Description: "desc",
			Featured:    i < 2,
			Published:   i != 6,
			Order:       i % 3,
			CreatedByID: author,
		}
		require.NoError(t, repo.Insert(ctx, p))
	}

	var seen []models.Project
	cursor := ""
	for page := 0; page < 10; page++ {
		items, next, err := repo.List(ctx, ListQuery{Public: true, Limit: 4, Cursor: cursor})
		require.NoError(t, err)
		seen = append(seen, items...)
		if next == "" {
			break
		}
		cursor = next
	}

	require.Len(t, seen, 6)
	assert.True(t, seen[0].Featured)
	assert.True(t, seen[1].Featured)
	for i := 2; i < len(seen); i++ {
		assert.False(t, seen[i].Featured)
		if i > 2 {
			assert.LessOrEqual(t, seen[i-1].Order, seen[i].Order)
		}
	}
	ids := map[primitive.ObjectID]bool{}
	for _, p := range seen {
		assert.False(t, ids[p.ID], "duplicate project across pages")
		ids[p.ID] = true
		assert.True(t, p.Published)
	}
}

func TestBlogRepositoryViewsTagsAndToggle(t *testing.T) {
	database := startMongo(t)
	ctx := context.Background()
	repo := NewBlogRepository(database)

	published := &models.Blog{Title: "a", Content: "x", Tags: []string{"go", "mongo"}, Published: true}
	draft := &models.Blog{Title: "b", Content: "y", Tags: []string{"draft-only"}}
	require.NoError(t, repo.Insert(ctx, published))
	require.NoError(t, repo.Insert(ctx, draft))

	b, err := repo.IncrementViews(ctx, published.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, b.Views)
	_, err = repo.IncrementViews(ctx, published.ID)
	require.NoError(t, err)

	total, err := repo.TotalViews(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	tags, err := repo.PublishedTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "mongo"}, tags)

	toggled, err := repo.TogglePublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Published)

	_, err = repo.TogglePublished(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	items, _, err := repo.List(ctx, ListQuery{Search: "Y"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, draft.ID, items[0].ID)
}

func TestUserRepositoryPromoteAndList(t *testing.T) {
	database := startMongo(t)
	ctx := context.Background()
	repo := NewUserRepository(database)

	u := &models.User{Name: "Owner", Email: "Owner@Example.com"}
	require.NoError(t, repo.Insert(ctx, u))
	assert.Equal(t, models.RoleViewer, u.Role)

	changed, err := repo.PromoteByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.FindByEmail(ctx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	users, next, err := repo.List(ctx, "owner", 0, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, users, 1)
}

func TestRewriteContentDryRunAndApply(t *testing.T) {
	database := startMongo(t)
	ctx := context.Background()
	repo := NewStoryRepository(database)

	withURL := &models.Story{Title: "a", Content: "![x](https://minio.local/bucket/a.png)"}
	plain := &models.Story{Title: "b", Content: "no media"}
	require.NoError(t, repo.Insert(ctx, withURL))
	require.NoError(t, repo.Insert(ctx, plain))

	rewrite := func(s string) (string, int) {
		if !strings.Contains(s, "https://minio.local/bucket/") {
			return s, 0
		}
		return strings.ReplaceAll(s, "https://minio.local/bucket/", "/api/media/"), 1
	}

	stats, err := RewriteContent(ctx, database, db.CollectionStories, rewrite, true)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 1, stats.Changed)
	got, err := repo.FindByID(ctx, withURL.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Content, "minio.local")

	stats, err = RewriteContent(ctx, database, db.CollectionStories, rewrite, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Replacements)
	got, err = repo.FindByID(ctx, withURL.ID)
	require.NoError(t, err)
	assert.Equal(t, "![x](/api/media/a.png)", got.Content)
}
