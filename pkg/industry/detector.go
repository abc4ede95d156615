// Package industry classifies a job description into one of the taxonomy's industries.
package industry

import (
	"strings"

	"github.com/nikogura/ats-match/pkg/taxonomy"
)

// Default is reported when no industry keyword occurs in the text.
const Default = "general"

// Score is the keyword hit count of one industry.
type Score struct {
	Industry string `json:"industry"`
	Hits     int    `json:"hits"`
}

type profile struct {
	name     string
	keywords []string
}

// Detector scores text against the industry keywords of a taxonomy.
type Detector struct {
	profiles []profile
}

// NewDetector builds a detector over the taxonomy's industries, keeping their order.
func NewDetector(tax *taxonomy.Taxonomy) (detector *Detector) {
	detector = &Detector{}
	if tax == nil {
		return detector
	}

	for _, name := range tax.Industries() {
		p, _ := tax.ProfileFor(name)
		lowered := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			lowered = append(lowered, strings.ToLower(kw))
		}
		detector.profiles = append(detector.profiles, profile{name: name, keywords: lowered})
	}

	return detector
}

// Scores returns the hit count of every industry in taxonomy order. A keyword
// counts once per non-overlapping occurrence anywhere in the text, including
// inside longer words.
func (d *Detector) Scores(text string) (scores []Score) {
	scores = make([]Score, 0, len(d.profiles))
	lowered := strings.ToLower(text)

	for _, p := range d.profiles {
		hits := 0
		for _, kw := range p.keywords {
			hits += strings.Count(lowered, kw)
		}
		scores = append(scores, Score{Industry: p.name, Hits: hits})
	}

	return scores
}

// Detect returns the industry with the most keyword hits. Ties go to the
// industry listed first; no hits at all yields Default.
func (d *Detector) Detect(text string) (industry string) {
	industry = Default
	best := 0

	for _, s := range d.Scores(text) {
		if s.Hits > best {
			best = s.Hits
			industry = s.Industry
		}
	}

	return industry
}
