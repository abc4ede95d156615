// Package skills finds taxonomy skills in job descriptions and CVs and splits
// them into matched and missing sets.
package skills

// Sources of a Result.
const (
	SourceTaxonomy = "taxonomy"
	SourceFallback = "fallback"
)

// Result is the outcome of comparing the skills of a job description and a CV.
type Result struct {
	Industry      string   `json:"industry"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Source        string   `json:"source"`
}

// Empty reports whether no skill of the job description was recognized.
func (r Result) Empty() (empty bool) {
	empty = len(r.MatchedSkills) == 0 && len(r.MissingSkills) == 0
	return empty
}

// Stage is one skill extraction strategy.
type Stage interface {
	Extract(jobDescription string, cvText string) (result Result)
}

// split partitions jdSkills by case-insensitive membership in cvSkills, keeping jdSkills order.
func split(jdSkills []string, cvSkills []string) (matched []string, missing []string) {
	matched = []string{}
	missing = []string{}

	have := make(map[string]bool, len(cvSkills))
	for _, s := range cvSkills {
		have[lower(s)] = true
	}

	for _, s := range jdSkills {
		if have[lower(s)] {
			matched = append(matched, s)
			continue
		}
		missing = append(missing, s)
	}

	return matched, missing
}
