package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/cmd/api/dto"
	"portfolio/eventbus"
	"portfolio/events"
	"portfolio/importer"
	"portfolio/internal/logger"
	"portfolio/models"
)

type ImportJobStore interface {
	Insert(ctx context.Context, j *models.ImportJob) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ImportJob, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ImportStatus, result *models.ImportResult, errMsg string) error
}

type FeedImporter interface {
	Import(ctx context.Context, req importer.Request) (models.ImportResult, error)
}

// ImportOutcome 은 둘 중 하나만 채워진다. Job 이면 워커로 넘긴 것(202), Result 면 바로 실행한 것(200).
type ImportOutcome struct {
	Job    *models.ImportJob
	Result *models.ImportResult
}

type ImportService struct {
	jobs     ImportJobStore
	bus      eventbus.EventBus
	importer FeedImporter
}

func NewImportService(jobs ImportJobStore, bus eventbus.EventBus, imp FeedImporter) *ImportService {
	if bus == nil {
		bus = eventbus.NopEventBus{}
	}
	return &ImportService{jobs: jobs, bus: bus, importer: imp}
}

func (s *ImportService) async() bool {
	_, nop := s.bus.(eventbus.NopEventBus)
	return !nop
}

// Start 는 이벤트 버스가 있으면 작업을 큐에 넣고, 없으면 요청 안에서 바로 가져온다.
func (s *ImportService) Start(ctx context.Context, feedURL string, limit int, requestedBy primitive.ObjectID) (ImportOutcome, error) {
	limit = importer.NormalizeLimit(limit)
	if !s.async() {
		result, err := s.importer.Import(ctx, importer.Request{FeedURL: feedURL, Limit: limit, AuthorID: requestedBy})
		if err != nil {
			return ImportOutcome{}, err
		}
		return ImportOutcome{Result: &result}, nil
	}

	job := &models.ImportJob{
		FeedURL:     feedURL,
		Limit:       limit,
		RequestedBy: requestedBy,
		Status:      models.ImportQueued,
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return ImportOutcome{}, fmt.Errorf("create import job: %w", err)
	}

	evt := events.NewImportRequestedEvent("api", job.ID, feedURL, limit, requestedBy)
	if err := eventbus.PublishJSON(ctx, s.bus, eventbus.TopicImportEvents, evt.ID, evt); err != nil {
		if uerr := s.jobs.UpdateStatus(ctx, job.ID, models.ImportFailed, nil, err.Error()); uerr != nil {
			logger.WarnWithFields("import job status update failed", logger.Fields{
				"job_id": job.ID.Hex(),
				"status": models.ImportFailed,
				"error":  uerr.Error(),
			})
		}
		return ImportOutcome{}, fmt.Errorf("publish import event: %w", err)
	}
	logger.InfoWithFields("import job queued", logger.Fields{
		"job_id":   job.ID.Hex(),
		"feed_url": feedURL,
		"event_id": evt.ID,
	})
	return ImportOutcome{Job: job}, nil
}

func (s *ImportService) Get(ctx context.Context, rawID string) (dto.ImportJobDTO, error) {
	id, err := parseID(rawID)
	if err != nil {
		return dto.ImportJobDTO{}, err
	}
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return dto.ImportJobDTO{}, translateRepoError(err)
	}
	return dto.ImportJobDTO{
		ID:      job.ID.Hex(),
		FeedURL: job.FeedURL,
		Status:  job.Status,
		Result:  job.Result,
		Error:   job.Error,
		Created: job.CreatedAt.UTC().Format(time.RFC3339),
		Updated: job.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// IsInvalidImport 는 잘못된 요청(피드 주소 형식 등)인지 확인한다.
func IsInvalidImport(err error) bool {
	return errors.Is(err, importer.ErrInvalidRequest)
}
