package scorer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tips builds the optimization advice for a result. The closing tip is chosen
// from the unrounded overall score.
func Tips(result AnalysisResult, overall float64) (tips []string) {
	tips = []string{fmt.Sprintf(headerTipFormat, capitalize(result.DetectedIndustry))}

	if len(result.MissingKeywords) > 0 {
		tips = append(tips, missingKeywordPrefix+strings.Join(head(result.MissingKeywords, MaxKeywordTips), ", "))
	}

	if len(result.MatchedSkills) > 0 {
		tips = append(tips, strongSkillPrefix+strings.Join(head(result.MatchedSkills, MaxStrongSkillTips), ", "))
	}

	if len(result.MissingSkills) > 0 {
		tips = append(tips, missingSkillPrefix+strings.Join(head(result.MissingSkills, MaxMissingSkillTips), ", "))
	}

	tips = append(tips, BandFor(overall).Message)
	return tips
}

// capitalize upper-cases the first letter only.
func capitalize(s string) (out string) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return out
	}
	out = cases.Upper(language.Und).String(string(r)) + s[size:]
	return out
}

func head(list []string, n int) (out []string) {
	out = list
	if len(out) > n {
		out = out[:n]
	}
	return out
}
