package events

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	ImportRequested EventType = "import.requested"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api", "portfolioctl"
	Version   string    `json:"version"`
}

func (e BaseEvent) GetType() EventType {
	return e.Type
}

func NewBaseEvent(t EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   "1.0",
	}
}

// ImportRequestedEvent 는 import_jobs 문서 하나를 처리하라는 요청이다.
type ImportRequestedEvent struct {
	BaseEvent
	JobID       primitive.ObjectID `json:"job_id"`
	FeedURL     string             `json:"feed_url"`
	Limit       int                `json:"limit"`
	RequestedBy primitive.ObjectID `json:"requested_by"`
}

func NewImportRequestedEvent(source string, jobID primitive.ObjectID, feedURL string, limit int, requestedBy primitive.ObjectID) ImportRequestedEvent {
	return ImportRequestedEvent{
		BaseEvent:   NewBaseEvent(ImportRequested, source),
		JobID:       jobID,
		FeedURL:     feedURL,
		Limit:       limit,
		RequestedBy: requestedBy,
	}
}
