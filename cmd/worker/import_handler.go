package main

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/eventbus"
	"portfolio/events"
	"portfolio/importer"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/models"
	"portfolio/repositories"
)

type jobStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ImportJob, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ImportStatus, result *models.ImportResult, errMsg string) error
}

type feedImporter interface {
	Import(ctx context.Context, req importer.Request) (models.ImportResult, error)
}

// ImportHandler 는 import.requested 이벤트 하나를 받아 import_jobs 문서 상태를 진행시킨다.
type ImportHandler struct {
	jobs     jobStore
	importer feedImporter
}

func NewImportHandler(jobs jobStore, imp feedImporter) *ImportHandler {
	return &ImportHandler{jobs: jobs, importer: imp}
}

// Handle 은 eventbus.SubscribeJSON 에 그대로 넘길 수 있는 시그니처다.
// nil 을 반환하면 커밋되고, 에러면 재시도 토픽(마지막엔 DLQ)으로 간다.
func (h *ImportHandler) Handle(ctx context.Context, evt events.ImportRequestedEvent, meta eventbus.Event) error {
	fields := logger.Fields{
		"event_id": meta.ID,
		"job_id":   evt.JobID.Hex(),
		"retry":    meta.Retry,
	}

	job, err := h.jobs.FindByID(ctx, evt.JobID)
	if errors.Is(err, repositories.ErrNotFound) {
		// 작업 문서가 지워졌으면 다시 시도해도 소용없다.
		logger.WarnWithFields("import job not found; dropping event", fields)
		return nil
	}
	if err != nil {
		return err
	}
	// 재전달된 이벤트
	if job.Status == models.ImportDone {
		logger.DebugWithFields("import job already done", fields)
		return nil
	}

	if err := h.jobs.UpdateStatus(ctx, job.ID, models.ImportRunning, nil, ""); err != nil {
		return err
	}

	result, err := h.importer.Import(ctx, importer.Request{
		FeedURL:  evt.FeedURL,
		Limit:    evt.Limit,
		AuthorID: evt.RequestedBy,
	})
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("import job failed", fields)
		metrics.ImportJobsTotal.WithLabelValues(string(models.ImportFailed)).Inc()
		if uerr := h.jobs.UpdateStatus(ctx, job.ID, models.ImportFailed, nil, err.Error()); uerr != nil {
			logger.WarnWithFields("failed to record import failure", logger.Fields{"job_id": job.ID.Hex(), "error": uerr.Error()})
		}
		if errors.Is(err, importer.ErrInvalidRequest) {
			return nil
		}
		return err
	}

	if err := h.jobs.UpdateStatus(ctx, job.ID, models.ImportDone, &result, ""); err != nil {
		return err
	}
	metrics.ImportJobsTotal.WithLabelValues(string(models.ImportDone)).Inc()

	fields["imported"] = result.Imported
	fields["skipped"] = result.Skipped
	fields["failed"] = result.Failed
	logger.InfoWithFields("import job done", fields)
	return nil
}
