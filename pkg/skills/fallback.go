package skills

import (
	"regexp"
	"strings"
)

// FallbackVocabulary is the general technology and soft-skill list consulted
// when the taxonomy recognizes no skill in a job description.
//
//nolint:gochecknoglobals // Fixed vocabulary
var FallbackVocabulary = []string{
	"java", "python", "javascript", "typescript",
	"sql", "mysql", "postgresql",
	"spring boot", "spring framework",
	"html", "css", "bootstrap",
	"react", "angular", "vue",
	"docker", "kubernetes", "aws", "azure", "cloud computing",
	"rest api", "microservices",
	"git", "github", "version control",
	"communication", "teamwork", "leadership", "problem solving", "time management",
}

type term struct {
	name    string
	pattern *regexp.Regexp
}

// Fallback matches FallbackVocabulary. Words of multi-word terms may be
// separated by any amount of whitespace, including none.
type Fallback struct {
	terms []term
}

// NewFallback compiles the fallback vocabulary.
func NewFallback() (fallback *Fallback) {
	fallback = &Fallback{terms: make([]term, 0, len(FallbackVocabulary))}
	for _, name := range FallbackVocabulary {
		words := strings.Fields(name)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		re := regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s*`) + `\b`)
		fallback.terms = append(fallback.terms, term{name: name, pattern: re})
	}
	return fallback
}

// Find returns the fallback terms present in text, in vocabulary order.
func (f *Fallback) Find(text string) (found []string) {
	found = []string{}
	if strings.TrimSpace(text) == "" {
		return found
	}

	for _, t := range f.terms {
		if t.pattern.MatchString(text) {
			found = append(found, t.name)
		}
	}
	return found
}

// Extract splits the fallback terms of the job description by presence in the CV.
// The industry is left empty for the caller to fill in.
func (f *Fallback) Extract(jobDescription string, cvText string) (result Result) {
	matched, missing := split(f.Find(jobDescription), f.Find(cvText))

	result = Result{
		MatchedSkills: matched,
		MissingSkills: missing,
		Source:        SourceFallback,
	}
	return result
}

// Chain runs the taxonomy extractor and falls back to a second stage when the
// first recognizes nothing in the job description.
type Chain struct {
	primary   Stage
	secondary Stage
}

// NewChain builds a two-stage chain. A nil secondary disables the fallback.
func NewChain(primary Stage, secondary Stage) (chain *Chain) {
	chain = &Chain{primary: primary, secondary: secondary}
	return chain
}

// Extract returns the primary result unless it is empty, in which case the
// secondary result is returned with the primary's industry.
func (c *Chain) Extract(jobDescription string, cvText string) (result Result) {
	result = c.primary.Extract(jobDescription, cvText)
	if !result.Empty() || c.secondary == nil {
		return result
	}

	industryName := result.Industry
	result = c.secondary.Extract(jobDescription, cvText)
	result.Industry = industryName
	return result
}
