// Package scorer combines keyword and skill overlap into an ATS match score.
package scorer

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/industry"
	"github.com/nikogura/ats-match/pkg/keywords"
	"github.com/nikogura/ats-match/pkg/skills"
	"github.com/nikogura/ats-match/pkg/taxonomy"
)

// Engine scores a CV against a job description. It holds no per-request
// state and may be shared between goroutines.
type Engine struct {
	taxonomy *taxonomy.Taxonomy
	detector *industry.Detector
	keywords *keywords.Extractor
	skills   skills.Stage
}

// NewEngine wires the extractors for a taxonomy, with the fallback vocabulary
// behind the taxonomy skill extractor.
func NewEngine(tax *taxonomy.Taxonomy) (engine *Engine, err error) {
	if tax == nil {
		err = errors.New("taxonomy is required")
		return engine, err
	}

	detector := industry.NewDetector(tax)

	var extractor *skills.Extractor
	extractor, err = skills.NewExtractor(tax, detector)
	if err != nil {
		err = errors.Wrap(err, "failed to build skill extractor")
		return engine, err
	}

	engine = &Engine{
		taxonomy: tax,
		detector: detector,
		keywords: keywords.NewExtractor(),
		skills:   skills.NewChain(extractor, skills.NewFallback()),
	}
	return engine, err
}

// Taxonomy returns the taxonomy the engine was built with.
func (e *Engine) Taxonomy() (tax *taxonomy.Taxonomy) {
	tax = e.taxonomy
	return tax
}

// Detector returns the engine's industry detector.
func (e *Engine) Detector() (detector *industry.Detector) {
	detector = e.detector
	return detector
}

// Analyze scores input. Blank input yields an *InvalidInputError.
func (e *Engine) Analyze(input AnalysisInput) (result AnalysisResult, err error) {
	if strings.TrimSpace(input.JobDescription) == "" {
		err = &InvalidInputError{Reason: JobDescriptionRequired}
		return result, err
	}
	if strings.TrimSpace(input.CVText) == "" {
		err = &InvalidInputError{Reason: CVContentRequired}
		return result, err
	}

	jdKeywords := e.keywords.Extract(input.JobDescription)
	cvKeywords := e.keywords.Extract(input.CVText)

	skillResult := e.skills.Extract(input.JobDescription, input.CVText)

	matchedKeywords, missingKeywords := partition(jdKeywords, cvKeywords)

	keywordScore := KeywordScore(len(matchedKeywords), len(jdKeywords))
	skillScore := SkillScore(len(skillResult.MatchedSkills), len(skillResult.MissingSkills))
	overall := keywordScore*KeywordWeight + skillScore*SkillWeight

	result = AnalysisResult{
		MatchPercentage:  Round(overall),
		MatchedKeywords:  matchedKeywords,
		MissingKeywords:  missingKeywords,
		MatchedSkills:    nonNil(skillResult.MatchedSkills),
		MissingSkills:    nonNil(skillResult.MissingSkills),
		DetectedIndustry: skillResult.Industry,
		SkillSource:      skillResult.Source,
	}
	result.OptimizationTips = Tips(result, overall)

	return result, err
}

// KeywordScore is the percentage of job description keywords found in the CV,
// or 0 when the job description yields no keywords.
func KeywordScore(matched int, total int) (score float64) {
	if total == 0 {
		return score
	}
	score = float64(matched) / float64(total) * 100
	return score
}

// SkillScore is the percentage of recognized job description skills found in
// the CV, or 100 when no skill was recognized.
func SkillScore(matched int, missing int) (score float64) {
	total := matched + missing
	if total == 0 {
		score = 100
		return score
	}
	score = float64(matched) / float64(total) * 100
	return score
}

// Round rounds to one decimal place, halves away from zero for positive values.
func Round(score float64) (rounded float64) {
	rounded = math.Floor(score*10+0.5) / 10
	return rounded
}

// partition splits source by exact membership in target, keeping source order.
func partition(source []string, target []string) (matched []string, missing []string) {
	matched = []string{}
	missing = []string{}

	have := make(map[string]bool, len(target))
	for _, t := range target {
		have[t] = true
	}

	for _, s := range source {
		if have[s] {
			matched = append(matched, s)
			continue
		}
		missing = append(missing, s)
	}

	return matched, missing
}

func nonNil(list []string) (out []string) {
	out = list
	if out == nil {
		out = []string{}
	}
	return out
}
