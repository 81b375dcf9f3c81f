package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/eventbus"
	"portfolio/importer"
	"portfolio/models"
	"portfolio/repositories"
)

type memJobStore struct {
	jobs      map[primitive.ObjectID]*models.ImportJob
	updateErr error
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[primitive.ObjectID]*models.ImportJob{}}
}

func (s *memJobStore) Insert(_ context.Context, j *models.ImportJob) error {
	j.ID = primitive.NewObjectID()
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *memJobStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.ImportJob, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *memJobStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ImportStatus, result *models.ImportResult, errMsg string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	j, ok := s.jobs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	j.Status, j.Result, j.Error = status, result, errMsg
	return nil
}

type fakeImporter struct {
	got importer.Request
}

func (f *fakeImporter) Import(_ context.Context, req importer.Request) (models.ImportResult, error) {
	f.got = req
	return models.ImportResult{Imported: 2, Skipped: 1}, nil
}

// recordingBus 는 발행된 이벤트만 기록한다.
type recordingBus struct {
	eventbus.NopEventBus
	published []eventbus.Event
	err       error
}

func (b *recordingBus) Publish(_ context.Context, _ string, evt eventbus.Event) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, evt)
	return nil
}

func TestImportRunsInlineWithoutEventBus(t *testing.T) {
	imp := &fakeImporter{}
	jobs := newMemJobStore()
	svc := NewImportService(jobs, nil, imp)
	author := primitive.NewObjectID()

	out, err := svc.Start(context.Background(), "https://blog.example.com/feed", 0, author)
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Nil(t, out.Job)
	assert.Equal(t, 2, out.Result.Imported)
	assert.Equal(t, author, imp.got.AuthorID)
	assert.Equal(t, importer.NormalizeLimit(0), imp.got.Limit)
	assert.Empty(t, jobs.jobs)
}

func TestImportQueuesJobWhenBusConfigured(t *testing.T) {
	bus := &recordingBus{}
	jobs := newMemJobStore()
	svc := NewImportService(jobs, bus, &fakeImporter{})

	out, err := svc.Start(context.Background(), "https://blog.example.com/feed", 5, primitive.NewObjectID())
	require.NoError(t, err)
	require.NotNil(t, out.Job)
	assert.Equal(t, models.ImportQueued, out.Job.Status)
	require.Len(t, bus.published, 1)

	job, err := svc.Get(context.Background(), out.Job.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.ImportQueued, job.Status)
	assert.Equal(t, "https://blog.example.com/feed", job.FeedURL)
}

func TestImportPublishFailureMarksJobFailed(t *testing.T) {
	bus := &recordingBus{err: errors.New("broker down")}
	jobs := newMemJobStore()
	svc := NewImportService(jobs, bus, &fakeImporter{})

	_, err := svc.Start(context.Background(), "https://blog.example.com/feed", 5, primitive.NewObjectID())
	require.Error(t, err)
	require.Len(t, jobs.jobs, 1)
	for _, j := range jobs.jobs {
		assert.Equal(t, models.ImportFailed, j.Status)
		assert.Contains(t, j.Error, "broker down")
	}
}

func TestImportPublishFailureSurvivesStatusUpdateError(t *testing.T) {
	bus := &recordingBus{err: errors.New("broker down")}
	jobs := newMemJobStore()
	jobs.updateErr = errors.New("mongo unavailable")
	svc := NewImportService(jobs, bus, &fakeImporter{})

	_, err := svc.Start(context.Background(), "https://blog.example.com/feed", 5, primitive.NewObjectID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.NotContains(t, err.Error(), "mongo unavailable")
	for _, j := range jobs.jobs {
		assert.Equal(t, models.ImportQueued, j.Status)
	}
}

func TestImportGetUnknownJob(t *testing.T) {
	svc := NewImportService(newMemJobStore(), nil, &fakeImporter{})

	_, err := svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(context.Background(), "xyz")
	assert.ErrorIs(t, err, ErrInvalidID)
}
