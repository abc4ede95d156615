package taxonomy

import (
	"fmt"
)

// IndustryProfile holds the characteristic keywords and skills of one industry.
type IndustryProfile struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Skills   []string `json:"skills" yaml:"skills"`
}

// Taxonomy is the industry taxonomy used by the matching engine.
// It is immutable once built; accessors hand out copies.
type Taxonomy struct {
	names           []string
	profiles        map[string]IndustryProfile
	universalSkills []string
}

// ConfigError reports a missing or malformed taxonomy source.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() (msg string) {
	if e.Source == "" {
		msg = fmt.Sprintf("invalid taxonomy: %v", e.Err)
		return msg
	}
	msg = fmt.Sprintf("invalid taxonomy %s: %v", e.Source, e.Err)
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() (err error) {
	err = e.Err
	return err
}

// Industries returns the industry names in load order.
func (t *Taxonomy) Industries() (names []string) {
	names = make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Len returns the number of industries.
func (t *Taxonomy) Len() (n int) {
	n = len(t.names)
	return n
}

// ProfileFor returns the profile of the named industry.
func (t *Taxonomy) ProfileFor(industry string) (profile IndustryProfile, found bool) {
	var stored IndustryProfile
	stored, found = t.profiles[industry]
	if !found {
		return profile, found
	}

	profile = IndustryProfile{
		Keywords: cloneStrings(stored.Keywords),
		Skills:   cloneStrings(stored.Skills),
	}
	return profile, found
}

// UniversalSkills returns the skills applied to every industry.
func (t *Taxonomy) UniversalSkills() (skills []string) {
	skills = cloneStrings(t.universalSkills)
	return skills
}

// SkillsFor returns the skill vocabulary for an industry: its own skills followed
// by the universal skills. Unknown industries get the universal skills only.
func (t *Taxonomy) SkillsFor(industry string) (skills []string) {
	profile := t.profiles[industry]
	skills = make([]string, 0, len(profile.Skills)+len(t.universalSkills))
	skills = append(skills, profile.Skills...)
	skills = append(skills, t.universalSkills...)
	return skills
}

// AllSkills returns every skill named anywhere in the taxonomy, in load order.
func (t *Taxonomy) AllSkills() (skills []string) {
	skills = []string{}
	for _, name := range t.names {
		skills = append(skills, t.profiles[name].Skills...)
	}
	skills = append(skills, t.universalSkills...)
	return skills
}

func cloneStrings(in []string) (out []string) {
	out = make([]string, len(in))
	copy(out, in)
	return out
}
