package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/models"
)

func TestBlogGetHidesUnpublishedFromNonAdmins(t *testing.T) {
	draft := &models.Blog{Title: "draft", Content: "x"}
	svc := NewBlogService(newMemBlogStore(draft), nil, nil)
	ctx := context.Background()

	testCases := []struct {
		name    string
		viewer  *models.User
		wantErr error
	}{
		{name: "anonymous", viewer: nil, wantErr: ErrNotFound},
		{name: "viewer", viewer: &models.User{Role: models.RoleViewer}, wantErr: ErrNotFound},
		{name: "admin", viewer: &models.User{Role: models.RoleAdmin}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := svc.Get(ctx, draft.ID.Hex(), tc.viewer)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "draft", b.Title)
		})
	}
}

func TestContentGetRejectsMalformedID(t *testing.T) {
	svc := NewBlogService(newMemBlogStore(), nil, nil)

	_, err := svc.Get(context.Background(), "not-an-id", nil)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlogGetAndCountViewIncrements(t *testing.T) {
	author := primitive.NewObjectID()
	post := &models.Blog{Title: "hello", Content: "x", Published: true, CreatedByID: author}
	authors := fakeAuthors{users: map[primitive.ObjectID]models.User{
		author: {ID: author, Name: "Kim", Image: "https://img/kim.png"},
	}}
	svc := NewBlogService(newMemBlogStore(post), authors, nil)

	b, err := svc.GetAndCountView(context.Background(), post.ID.Hex(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, b.Views)
	require.NotNil(t, b.CreatedBy)
	assert.Equal(t, "Kim", b.CreatedBy.Name)

	b, err = svc.GetAndCountView(context.Background(), post.ID.Hex(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, b.Views)
}

func TestListPublishedIgnoresAdminFilters(t *testing.T) {
	store := newMemBlogStore(
		&models.Blog{Title: "a", Published: true},
		&models.Blog{Title: "b", Published: false},
	)
	svc := NewBlogService(store, nil, nil)
	unpublished := false

	page, err := svc.ListPublished(context.Background(), ListInput{Search: "b", Published: &unpublished})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Title)
}

func TestListTranslatesInvalidCursor(t *testing.T) {
	svc := NewBlogService(newMemBlogStore(), nil, nil)

	_, err := svc.ListAll(context.Background(), ListInput{Cursor: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestListEmptyPageHasNonNilItems(t *testing.T) {
	svc := NewBlogService(newMemBlogStore(), nil, nil)

	page, err := svc.ListAll(context.Background(), ListInput{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.NextCursor)
}

func TestAuthorLookupFailureDoesNotFailList(t *testing.T) {
	store := newMemBlogStore(&models.Blog{Title: "a", Published: true, CreatedByID: primitive.NewObjectID()})
	svc := NewBlogService(store, fakeAuthors{err: errors.New("mongo down")}, nil)

	page, err := svc.ListAll(context.Background(), ListInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].CreatedBy)
}

func TestCreateSetsAuthorAndToggle(t *testing.T) {
	store := newMemBlogStore()
	svc := NewBlogService(store, nil, nil)
	author := primitive.NewObjectID()
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Blog{Title: "new", Content: "body"}, author)
	require.NoError(t, err)
	assert.Equal(t, author, created.CreatedByID)
	assert.False(t, created.Published)

	toggled, err := svc.TogglePublished(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, toggled.Published)

	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.Hex()), ErrNotFound)
	_, err = svc.TogglePublished(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlogCountsAndTags(t *testing.T) {
	store := newMemBlogStore(
		&models.Blog{Title: "a", Published: true, Views: 3, Tags: []string{"mongo", "go"}},
		&models.Blog{Title: "b", Published: true, Views: 2, Tags: []string{"go"}},
		&models.Blog{Title: "c", Tags: []string{"secret"}},
	)
	svc := NewBlogService(store, nil, nil)
	ctx := context.Background()

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts.Total)
	assert.EqualValues(t, 2, counts.Published)
	assert.EqualValues(t, 5, counts.TotalViews)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "mongo"}, tags)

	empty, err := NewBlogService(newMemBlogStore(), nil, nil).Tags(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
}

func TestBlogSuggest(t *testing.T) {
	b := &models.Blog{Title: "a", Content: "long article body"}
	store := newMemBlogStore(b)

	_, err := NewBlogService(store, nil, nil).Suggest(context.Background(), b.ID.Hex())
	assert.ErrorIs(t, err, ErrNotConfigured)

	sug := &fakeSuggester{}
	out, err := NewBlogService(store, nil, sug).Suggest(context.Background(), b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "long article body", sug.got)
	assert.Equal(t, "short", out.Excerpt)
	assert.Equal(t, []string{"go"}, out.Tags)
}
