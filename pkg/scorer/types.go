package scorer

import (
	"fmt"

	"github.com/nikogura/ats-match/pkg/industry"
)

// AnalysisInput is one job description and CV pair.
type AnalysisInput struct {
	JobDescription string `json:"job_description"`
	CVText         string `json:"cv_text"`
}

// AnalysisResult is the outcome of an analysis. Field names follow the web client.
type AnalysisResult struct {
	MatchPercentage  float64  `json:"matchPercentage"`
	MatchedKeywords  []string `json:"matchedKeywords"`
	MissingKeywords  []string `json:"missingKeywords"`
	MatchedSkills    []string `json:"matchedSkills"`
	MissingSkills    []string `json:"missingSkills"`
	DetectedIndustry string   `json:"detectedIndustry"`
	OptimizationTips []string `json:"optimizationTips"`

	// SkillSource records which skill stage produced the skill lists.
	SkillSource string `json:"-"`
}

// ErrorResult is the result shape reported alongside a failure.
func ErrorResult(message string) (result AnalysisResult) {
	result = AnalysisResult{
		MatchedKeywords:  []string{},
		MissingKeywords:  []string{},
		MatchedSkills:    []string{},
		MissingSkills:    []string{},
		DetectedIndustry: industry.Default,
		OptimizationTips: []string{message},
	}
	return result
}

// InvalidInputError reports a missing job description or CV.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() (msg string) {
	msg = e.Reason
	return msg
}

// InternalError wraps an unexpected failure during analysis.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() (msg string) {
	msg = fmt.Sprintf("%s%v", UnexpectedError, e.Err)
	return msg
}

// Unwrap returns the underlying cause.
func (e *InternalError) Unwrap() (err error) {
	err = e.Err
	return err
}
