package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/ats-match/pkg/document"
	"github.com/nikogura/ats-match/pkg/observe"
	"github.com/nikogura/ats-match/pkg/scorer"
	"github.com/nikogura/ats-match/pkg/taxonomy"
)

const (
	testJD = "We need a Java developer with Spring Boot and SQL experience"
	testCV = "Experienced Java developer skilled in Spring Boot and MySQL"
)

type stubExtractor struct {
	text string
	err  error
	name string
}

func (s *stubExtractor) Extract(data []byte, fileName string) (text string, err error) {
	s.name = fileName
	text = s.text
	err = s.err
	return text, err
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(scorer.AnalysisInput) (result scorer.AnalysisResult, err error) {
	panic("index out of range")
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(scorer.AnalysisInput) (result scorer.AnalysisResult, err error) {
	err = errors.New("taxonomy exploded")
	return result, err
}

func newEngine(t *testing.T) (engine *scorer.Engine) {
	t.Helper()

	tax, err := taxonomy.Default()
	require.NoError(t, err)

	engine, err = scorer.NewEngine(tax)
	require.NoError(t, err)
	return engine
}

func TestAnalyzeText(t *testing.T) {
	var logs bytes.Buffer
	logger, err := observe.NewLoggerTo(&logs, "info", observe.FormatJSON)
	require.NoError(t, err)

	svc := New(newEngine(t), nil, logger, nil)
	ctx := observe.WithRequestID(context.Background(), "req-1")

	result, err := svc.Analyze(ctx, Request{JobDescription: testJD, CVText: testCV})
	require.NoError(t, err)

	assert.Equal(t, "technology", result.DetectedIndustry)
	assert.InDelta(t, 66.7, result.MatchPercentage, 1e-9)
	assert.Equal(t, int64(1), svc.Metrics().Analyses.Load())
	assert.Contains(t, logs.String(), `"request_id":"req-1"`)
	assert.Contains(t, logs.String(), "analysis completed")
}

func TestAnalyzeFileWinsOverText(t *testing.T) {
	extractor := &stubExtractor{text: testCV}
	svc := New(newEngine(t), extractor, nil, nil)

	result, err := svc.Analyze(context.Background(), Request{
		JobDescription: testJD,
		CVText:         "Carpenter",
		CVFile:         &File{Name: "cv.pdf", Data: []byte("%PDF")},
	})
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", extractor.name)
	assert.Equal(t, []string{"java", "spring boot"}, result.MatchedSkills)
}

func TestAnalyzeEmptyFileFallsBackToText(t *testing.T) {
	extractor := &stubExtractor{text: "unused"}
	svc := New(newEngine(t), extractor, nil, nil)

	_, err := svc.Analyze(context.Background(), Request{
		JobDescription: testJD,
		CVText:         testCV,
		CVFile:         &File{Name: "cv.pdf"},
	})
	require.NoError(t, err)
	assert.Empty(t, extractor.name)
}

func TestAnalyzeErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		analyzer  Analyzer
		extractor document.TextExtractor
		ctx       context.Context
		req       Request
		kind      Kind
		message   string
	}{
		{
			name:    "empty job description",
			ctx:     context.Background(),
			req:     Request{JobDescription: "  ", CVText: testCV},
			kind:    KindInvalidInput,
			message: scorer.JobDescriptionRequired,
		},
		{
			name:    "no cv",
			ctx:     context.Background(),
			req:     Request{JobDescription: testJD},
			kind:    KindInvalidInput,
			message: scorer.CVContentRequired,
		},
		{
			name:      "document error",
			extractor: &stubExtractor{err: &document.Error{FileName: "cv.rtf", Reason: "Unsupported file type: cv.rtf"}},
			ctx:       context.Background(),
			req:       Request{JobDescription: testJD, CVFile: &File{Name: "cv.rtf", Data: []byte("x")}},
			kind:      KindDocument,
			message:   "Error processing file: Unsupported file type: cv.rtf",
		},
		{
			name:      "untyped extractor error",
			extractor: &stubExtractor{err: errors.New("disk on fire")},
			ctx:       context.Background(),
			req:       Request{JobDescription: testJD, CVFile: &File{Name: "cv.pdf", Data: []byte("x")}},
			kind:      KindDocument,
			message:   "Error processing file: Failed to read cv.pdf: disk on fire",
		},
		{
			name:     "panic",
			analyzer: panicAnalyzer{},
			ctx:      context.Background(),
			req:      Request{JobDescription: testJD, CVText: testCV},
			kind:     KindInternal,
			message:  "An unexpected error occurred: panic: index out of range",
		},
		{
			name:     "untyped engine error",
			analyzer: failingAnalyzer{},
			ctx:      context.Background(),
			req:      Request{JobDescription: testJD, CVText: testCV},
			kind:     KindInternal,
			message:  "An unexpected error occurred: taxonomy exploded",
		},
		{
			name:    "cancelled context",
			ctx:     cancelled,
			req:     Request{JobDescription: testJD, CVText: testCV},
			kind:    KindInternal,
			message: "An unexpected error occurred: analysis cancelled: context canceled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := tt.analyzer
			if analyzer == nil {
				analyzer = newEngine(t)
			}
			svc := New(analyzer, tt.extractor, nil, nil)

			_, err := svc.Analyze(tt.ctx, tt.req)
			require.Error(t, err)

			kind, message := Classify(err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.message, message)

			m := svc.Metrics()
			assert.Equal(t, int64(0), m.Analyses.Load())
			switch tt.kind {
			case KindInvalidInput:
				assert.Equal(t, int64(1), m.InvalidInputs.Load())
			case KindDocument:
				assert.Equal(t, int64(1), m.DocumentErrors.Load())
			case KindInternal:
				assert.Equal(t, int64(1), m.InternalErrors.Load())
			}
		})
	}
}

func TestErrorResult(t *testing.T) {
	kind, result := ErrorResult(&scorer.InvalidInputError{Reason: scorer.JobDescriptionRequired})

	assert.Equal(t, KindInvalidInput, kind)
	assert.Equal(t, "general", result.DetectedIndustry)
	assert.Equal(t, []string{scorer.JobDescriptionRequired}, result.OptimizationTips)
	assert.NotNil(t, result.MatchedKeywords)

	kind, result = ErrorResult(errors.New("boom"))
	assert.Equal(t, KindInternal, kind)
	assert.Equal(t, []string{"An unexpected error occurred: boom"}, result.OptimizationTips)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_input", KindInvalidInput.String())
	assert.Equal(t, "document", KindDocument.String())
	assert.Equal(t, "internal", KindInternal.String())
}
