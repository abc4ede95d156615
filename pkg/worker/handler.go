package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/service"
)

// Handler turns queued jobs into outcomes.
type Handler struct {
	svc        *service.Service
	downloader Downloader
	now        func() time.Time
}

// NewHandler creates a handler. downloader may be nil when no storage is
// configured, in which case jobs referencing stored CVs fail.
func NewHandler(svc *service.Service, downloader Downloader) (h *Handler) {
	h = &Handler{
		svc:        svc,
		downloader: downloader,
		now:        time.Now,
	}
	return h
}

// Process decodes body, runs the analysis and returns the outcome to publish.
func (h *Handler) Process(ctx context.Context, body []byte) (outcome Outcome) {
	h.svc.Metrics().WorkerMessages.Add(1)

	var job Job
	err := json.Unmarshal(body, &job)
	if err != nil {
		h.svc.Logger().Warn("invalid job message", slog.Any("error", err))
		outcome = h.outcome(job.ID, StatusRejected, scorer.ErrorResult("Invalid job message: "+err.Error()))
		return outcome
	}

	requestID := job.ID
	if requestID == "" {
		requestID = observe.NewRequestID()
	}
	ctx = observe.WithRequestID(ctx, requestID)

	req := service.Request{JobDescription: job.JobDescription, CVText: job.CVText}
	if job.CVObjectKey != "" {
		var file *service.File
		file, err = h.fetch(ctx, job)
		if err != nil {
			h.svc.Metrics().WorkerDownloadErr.Add(1)
			h.svc.Logger().Error("cv download failed",
				slog.String("request_id", requestID),
				slog.String("object_key", job.CVObjectKey),
				slog.Any("error", err),
			)
			outcome = h.outcome(job.ID, StatusFailed, scorer.ErrorResult(scorer.FileProcessingError+err.Error()))
			return outcome
		}
		req.CVFile = file
	}

	result, err := h.svc.Analyze(ctx, req)
	if err != nil {
		kind, errResult := service.ErrorResult(err)
		status := StatusFailed
		if kind == service.KindInvalidInput {
			status = StatusRejected
		}
		outcome = h.outcome(job.ID, status, errResult)
		return outcome
	}

	outcome = h.outcome(job.ID, StatusCompleted, result)
	return outcome
}

func (h *Handler) fetch(ctx context.Context, job Job) (file *service.File, err error) {
	if h.downloader == nil {
		err = errors.New("document storage is not configured")
		return file, err
	}

	data, err := retry(ctx, DownloadAttempts, func() ([]byte, error) {
		return h.downloader.Download(ctx, job.CVObjectKey)
	})
	if err != nil {
		return file, err
	}

	name := job.CVFileName
	if name == "" {
		name = path.Base(job.CVObjectKey)
	}

	file = &service.File{Name: name, Data: data}
	return file, err
}

func (h *Handler) outcome(id string, status string, result scorer.AnalysisResult) (outcome Outcome) {
	outcome = Outcome{
		ID:        id,
		Status:    status,
		Result:    result,
		Timestamp: h.now().UTC(),
	}
	return outcome
}

// Deliver processes body and publishes the outcome.
func (h *Handler) Deliver(ctx context.Context, publisher Publisher, body []byte) (outcome Outcome, err error) {
	outcome = h.Process(ctx, body)

	payload, err := json.Marshal(outcome)
	if err != nil {
		err = errors.Wrap(err, "failed marshalling outcome")
		return outcome, err
	}

	err = publisher.Publish(ctx, outcome.RoutingKey(), payload)
	if err != nil {
		err = errors.Wrapf(err, "failed publishing outcome for job %s", outcome.ID)
		return outcome, err
	}

	return outcome, err
}
