package service

import (
	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/document"
	"github.com/nikogura/ats-match/pkg/scorer"
)

// Kind is the caller-facing category of a failed analysis.
type Kind int

// Failure kinds.
const (
	KindInvalidInput Kind = iota + 1
	KindDocument
	KindInternal
)

func (k Kind) String() (name string) {
	switch k {
	case KindInvalidInput:
		name = "invalid_input"
	case KindDocument:
		name = "document"
	default:
		name = "internal"
	}
	return name
}

// Classify maps an analysis error to its kind and the message shown to the caller.
func Classify(err error) (kind Kind, message string) {
	var invalid *scorer.InvalidInputError
	var docErr *document.Error
	var internal *scorer.InternalError

	switch {
	case errors.As(err, &invalid):
		kind = KindInvalidInput
		message = invalid.Reason
	case errors.As(err, &docErr):
		kind = KindDocument
		message = scorer.FileProcessingError + docErr.Error()
	case errors.As(err, &internal):
		kind = KindInternal
		message = internal.Error()
	default:
		kind = KindInternal
		message = scorer.UnexpectedError + err.Error()
	}

	return kind, message
}

// ErrorResult classifies err and builds the matching error-shaped result.
func ErrorResult(err error) (kind Kind, result scorer.AnalysisResult) {
	var message string
	kind, message = Classify(err)
	result = scorer.ErrorResult(message)
	return kind, result
}
