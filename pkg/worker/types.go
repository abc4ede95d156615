// Package worker consumes analysis jobs from RabbitMQ and publishes their outcomes.
package worker

import (
	"context"
	"time"

	"github.com/nikogura/ats-match/pkg/scorer"
)

// Outcome statuses.
const (
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// RoutingKeyPrefix prefixes the job ID in the routing key of published outcomes.
const RoutingKeyPrefix = "analysis."

// Job is one queued analysis. CVObjectKey, when set, names a stored CV document
// and takes precedence over CVText.
type Job struct {
	ID             string `json:"id"`
	JobDescription string `json:"job_description"`
	CVText         string `json:"cv_text,omitempty"`
	CVObjectKey    string `json:"cv_object_key,omitempty"`
	CVFileName     string `json:"cv_file_name,omitempty"`
}

// Outcome is published for every consumed job.
type Outcome struct {
	ID        string                `json:"id"`
	Status    string                `json:"status"`
	Result    scorer.AnalysisResult `json:"result"`
	Timestamp time.Time             `json:"timestamp"`
}

// RoutingKey returns the routing key the outcome is published under.
func (o Outcome) RoutingKey() (key string) {
	id := o.ID
	if id == "" {
		id = "unknown"
	}
	key = RoutingKeyPrefix + id
	return key
}

// Publisher sends an outcome body to the reply exchange.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) (err error)
}

// Downloader fetches a stored CV document.
type Downloader interface {
	Download(ctx context.Context, key string) (data []byte, err error)
}
