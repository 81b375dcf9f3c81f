package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportStatus string

const (
	ImportQueued  ImportStatus = "queued"
	ImportRunning ImportStatus = "running"
	ImportDone    ImportStatus = "done"
	ImportFailed  ImportStatus = "failed"
)

// ImportResult 는 피드 하나를 가져온 결과 집계다.
type ImportResult struct {
	Imported int `bson:"imported" json:"imported"`
	Skipped  int `bson:"skipped" json:"skipped"`
	Failed   int `bson:"failed" json:"failed"`
}

// ImportJob tracks an asynchronous feed import.
// Collection: import_jobs
type ImportJob struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FeedURL     string             `bson:"feed_url" json:"feed_url"`
	Limit       int                `bson:"limit" json:"limit"`
	RequestedBy primitive.ObjectID `bson:"requested_by" json:"requested_by"`
	Status      ImportStatus       `bson:"status" json:"status"`
	Result      *ImportResult      `bson:"result,omitempty" json:"result,omitempty"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
