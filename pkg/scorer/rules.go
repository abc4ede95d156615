package scorer

// Weights of the component scores in the overall match percentage.
const (
	KeywordWeight = 0.6
	SkillWeight   = 0.4
)

// Tip limits and prefixes.
const (
	MaxKeywordTips       = 5
	MaxStrongSkillTips   = 5
	MaxMissingSkillTips  = 3
	headerTipFormat      = "Analysis for %s position:"
	missingKeywordPrefix = "Important keywords to include: "
	strongSkillPrefix    = "Your strong skills: "
	missingSkillPrefix   = "Skills to highlight: "
)

// Messages returned for rejected input.
const (
	JobDescriptionRequired = "Job description cannot be empty"
	CVContentRequired      = "Either CV text or file must be provided"
	FileProcessingError    = "Error processing file: "
	UnexpectedError        = "An unexpected error occurred: "
)

// Band is a range of overall scores sharing one closing tip.
type Band struct {
	Name    string
	Below   float64 // Exclusive upper bound; zero means unbounded
	Message string
}

// ScoreBands are checked in order; the first band whose bound exceeds the
// score supplies the closing tip.
//
//nolint:gochecknoglobals // Scoring configuration constants
var ScoreBands = []Band{
	{
		Name:    "weak",
		Below:   40,
		Message: "Significant improvements needed in keyword and skill alignment.",
	},
	{
		Name:    "partial",
		Below:   70,
		Message: "Good potential match - focus on missing elements.",
	},
	{
		Name:    "strong",
		Message: "Excellent match with the job requirements!",
	},
}

// BandFor returns the band an overall score falls into.
func BandFor(score float64) (band Band) {
	for _, b := range ScoreBands {
		band = b
		if b.Below == 0 || score < b.Below {
			return band
		}
	}
	return band
}
