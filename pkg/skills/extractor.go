package skills

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/ats-match/pkg/industry"
	"github.com/nikogura/ats-match/pkg/taxonomy"
)

// Extractor matches the taxonomy's skill vocabulary against text.
// Patterns are compiled once in NewExtractor, so an Extractor is safe for
// concurrent use.
type Extractor struct {
	tax      *taxonomy.Taxonomy
	detector *industry.Detector
	patterns map[string]*regexp.Regexp
}

// NewExtractor compiles a pattern for every skill in the taxonomy.
func NewExtractor(tax *taxonomy.Taxonomy, detector *industry.Detector) (extractor *Extractor, err error) {
	if tax == nil {
		err = errors.New("taxonomy is required")
		return extractor, err
	}
	if detector == nil {
		detector = industry.NewDetector(tax)
	}

	patterns := make(map[string]*regexp.Regexp)
	for _, skill := range tax.AllSkills() {
		key := lower(skill)
		if _, ok := patterns[key]; ok {
			continue
		}

		var re *regexp.Regexp
		re, err = regexp.Compile(Pattern(skill))
		if err != nil {
			err = errors.Wrapf(err, "failed to compile pattern for skill %q", skill)
			return extractor, err
		}
		patterns[key] = re
	}

	extractor = &Extractor{
		tax:      tax,
		detector: detector,
		patterns: patterns,
	}
	return extractor, err
}

// Pattern returns the case-insensitive regular expression used to find skill.
// Spaces between words accept any run of whitespace or hyphens, hyphens inside
// a word accept a hyphen, a single whitespace character or nothing. Word
// boundaries are asserted at each end that is a word character, so skills
// such as "c++" still match at the end of a phrase.
func Pattern(skill string) (pattern string) {
	words := strings.Fields(lower(skill))
	parts := make([]string, 0, len(words))
	for _, word := range words {
		pieces := strings.Split(word, "-")
		for i, piece := range pieces {
			pieces[i] = regexp.QuoteMeta(piece)
		}
		parts = append(parts, strings.Join(pieces, `[-\s]?`))
	}

	body := strings.Join(parts, `[-\s]+`)
	if body == "" {
		pattern = `(?i)$^`
		return pattern
	}

	var b strings.Builder
	b.WriteString(`(?i)`)
	if isWordByte(words[0][0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(body)
	last := words[len(words)-1]
	if isWordByte(last[len(last)-1]) {
		b.WriteString(`\b`)
	}

	pattern = b.String()
	return pattern
}

// ExtractFromText returns the skills of industry's vocabulary found in text,
// in vocabulary order and spelled as stored in the taxonomy.
func (e *Extractor) ExtractFromText(text string, industryName string) (found []string) {
	found = []string{}
	if strings.TrimSpace(text) == "" {
		return found
	}

	seen := make(map[string]bool)
	for _, skill := range e.tax.SkillsFor(industryName) {
		key := lower(skill)
		if seen[key] {
			continue
		}

		re := e.patterns[key]
		if re == nil || !re.MatchString(text) {
			continue
		}

		seen[key] = true
		found = append(found, skill)
	}

	return found
}

// Extract detects the industry from the job description and compares the
// skills of both texts against that industry's vocabulary.
func (e *Extractor) Extract(jobDescription string, cvText string) (result Result) {
	industryName := e.detector.Detect(jobDescription)

	jdSkills := e.ExtractFromText(jobDescription, industryName)
	cvSkills := e.ExtractFromText(cvText, industryName)

	matched, missing := split(jdSkills, cvSkills)

	result = Result{
		Industry:      industryName,
		MatchedSkills: matched,
		MissingSkills: missing,
		Source:        SourceTaxonomy,
	}
	return result
}

func isWordByte(c byte) (word bool) {
	word = c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return word
}

func lower(s string) (out string) {
	out = strings.ToLower(s)
	return out
}
