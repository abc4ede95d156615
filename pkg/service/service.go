// Package service resolves analysis requests into engine input and maps
// failures to caller-facing outcomes. The HTTP API, MCP tools, queue worker and
// CLI all go through it.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/document"
	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/skills"
)

// SupportedIndustries is the industry list advertised to clients. It is fixed
// and does not follow the loaded taxonomy.
//
//nolint:gochecknoglobals // Fixed discovery list
var SupportedIndustries = []string{"technology", "healthcare", "finance", "education", "general"}

// File is an uploaded CV document.
type File struct {
	Name string
	Data []byte
}

// Request is one analysis request. A non-empty CVFile takes precedence over CVText.
type Request struct {
	JobDescription string
	CVText         string
	CVFile         *File
}

// Analyzer scores a job description and CV text.
type Analyzer interface {
	Analyze(input scorer.AnalysisInput) (result scorer.AnalysisResult, err error)
}

// Service runs analyses with logging, counters and panic recovery.
type Service struct {
	engine    Analyzer
	documents document.TextExtractor
	logger    *slog.Logger
	metrics   *observe.Metrics
}

// New creates a service. A nil logger discards events; nil metrics are allocated.
func New(engine Analyzer, documents document.TextExtractor, logger *slog.Logger, metrics *observe.Metrics) (svc *Service) {
	if documents == nil {
		documents = document.NewExtractor()
	}
	if logger == nil {
		logger = observe.Discard()
	}
	if metrics == nil {
		metrics = observe.NewMetrics()
	}

	svc = &Service{
		engine:    engine,
		documents: documents,
		logger:    logger,
		metrics:   metrics,
	}
	return svc
}

// Metrics returns the service counters.
func (s *Service) Metrics() (metrics *observe.Metrics) {
	metrics = s.metrics
	return metrics
}

// Logger returns the service logger.
func (s *Service) Logger() (logger *slog.Logger) {
	logger = s.logger
	return logger
}

// Analyze resolves the CV text of req and scores it. Errors are one of
// *scorer.InvalidInputError, *document.Error or *scorer.InternalError.
func (s *Service) Analyze(ctx context.Context, req Request) (result scorer.AnalysisResult, err error) {
	requestID := observe.RequestID(ctx)
	if requestID == "" {
		requestID = observe.NewRequestID()
	}
	start := time.Now()

	result, err = s.analyze(ctx, req)
	if err != nil {
		s.record(requestID, err)
		return result, err
	}

	s.metrics.Analyses.Add(1)
	if result.SkillSource == skills.SourceFallback {
		s.metrics.FallbackUses.Add(1)
	}

	s.logger.Info("analysis completed",
		slog.String("request_id", requestID),
		slog.String("industry", result.DetectedIndustry),
		slog.Float64("match_percentage", result.MatchPercentage),
		slog.String("skill_source", result.SkillSource),
		slog.String("job_description", observe.Preview(req.JobDescription)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return result, err
}

func (s *Service) analyze(ctx context.Context, req Request) (result scorer.AnalysisResult, err error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		err = &scorer.InvalidInputError{Reason: scorer.JobDescriptionRequired}
		return result, err
	}

	var cvText string
	cvText, err = s.resolveCV(req)
	if err != nil {
		return result, err
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = &scorer.InternalError{Err: errors.Wrap(ctxErr, "analysis cancelled")}
		return result, err
	}

	result, err = s.score(scorer.AnalysisInput{JobDescription: req.JobDescription, CVText: cvText})
	return result, err
}

func (s *Service) resolveCV(req Request) (text string, err error) {
	if req.CVFile != nil && len(req.CVFile.Data) > 0 {
		text, err = s.documents.Extract(req.CVFile.Data, req.CVFile.Name)
		if err != nil {
			var docErr *document.Error
			if !errors.As(err, &docErr) {
				err = &document.Error{FileName: req.CVFile.Name, Reason: "Failed to read " + req.CVFile.Name, Err: err}
			}
			return text, err
		}
		return text, err
	}

	if strings.TrimSpace(req.CVText) == "" {
		err = &scorer.InvalidInputError{Reason: scorer.CVContentRequired}
		return text, err
	}

	text = req.CVText
	return text, err
}

// score runs the engine, turning panics and untyped errors into *scorer.InternalError.
func (s *Service) score(input scorer.AnalysisInput) (result scorer.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = scorer.AnalysisResult{}
			err = &scorer.InternalError{Err: errors.Errorf("panic: %v", r)}
		}
	}()

	result, err = s.engine.Analyze(input)
	if err == nil {
		return result, err
	}

	var invalid *scorer.InvalidInputError
	var internal *scorer.InternalError
	if !errors.As(err, &invalid) && !errors.As(err, &internal) {
		err = &scorer.InternalError{Err: err}
	}
	return result, err
}

func (s *Service) record(requestID string, err error) {
	kind, message := Classify(err)

	switch kind {
	case KindInvalidInput:
		s.metrics.InvalidInputs.Add(1)
		s.logger.Warn("analysis rejected",
			slog.String("request_id", requestID),
			slog.String("reason", message),
		)
	case KindDocument:
		s.metrics.DocumentErrors.Add(1)
		s.logger.Warn("document extraction failed",
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	default:
		s.metrics.InternalErrors.Add(1)
		s.logger.Error("analysis failed",
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	}
}
