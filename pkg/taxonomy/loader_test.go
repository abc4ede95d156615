package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testJSON = `{
  "industries": {
    "zeta": {"keywords": ["z1"], "skills": ["Zed Skill"]},
    "alpha": {"keywords": ["a1", "a2"], "skills": ["spring boot"]},
    "mid": {"keywords": ["m1"], "skills": []}
  },
  "universal_skills": ["communication", "teamwork"]
}`

const testYAML = `industries:
  zeta:
    keywords: [z1]
    skills: [Zed Skill]
  alpha:
    keywords: [a1, a2]
    skills: [spring boot]
  mid:
    keywords: [m1]
    skills: []
universal_skills:
  - communication
  - teamwork
`

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "json", file: "taxonomy.json", content: testJSON},
		{name: "yaml", file: "taxonomy.yaml", content: testYAML},
		{name: "yml", file: "taxonomy.yml", content: testYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			err := os.WriteFile(path, []byte(tt.content), 0600)
			if err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			tax, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load taxonomy: %v", err)
			}

			// Industries must come back in file order, not sorted.
			wantOrder := []string{"zeta", "alpha", "mid"}
			if !reflect.DeepEqual(tax.Industries(), wantOrder) {
				t.Errorf("Expected industries %v, got %v", wantOrder, tax.Industries())
			}

			profile, found := tax.ProfileFor("alpha")
			if !found {
				t.Fatal("Expected profile for 'alpha'")
			}
			if !reflect.DeepEqual(profile.Keywords, []string{"a1", "a2"}) {
				t.Errorf("Unexpected alpha keywords: %v", profile.Keywords)
			}

			wantUniversal := []string{"communication", "teamwork"}
			if !reflect.DeepEqual(tax.UniversalSkills(), wantUniversal) {
				t.Errorf("Expected universal skills %v, got %v", wantUniversal, tax.UniversalSkills())
			}
		})
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/taxonomy.json")
	if err == nil {
		t.Fatal("Expected error loading nonexistent file, got nil")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigError, got %T", err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "not json", data: "not valid json", format: FormatJSON},
		{name: "json array root", data: `["a"]`, format: FormatJSON},
		{name: "missing industries", data: `{"universal_skills": []}`, format: FormatJSON},
		{name: "industries not object", data: `{"industries": []}`, format: FormatJSON},
		{name: "profile missing skills", data: `{"industries": {"tech": {"keywords": ["x"]}}}`, format: FormatJSON},
		{name: "profile missing keywords", data: `{"industries": {"tech": {"skills": ["x"]}}}`, format: FormatJSON},
		{name: "non string skill", data: `{"industries": {"tech": {"keywords": [], "skills": [1]}}}`, format: FormatJSON},
		{name: "duplicate skill", data: `{"industries": {"tech": {"keywords": [], "skills": ["Java", "java"]}}}`, format: FormatJSON},
		{name: "duplicate industry", data: `{"industries": {"tech": {"keywords": [], "skills": []}, "Tech": {"keywords": [], "skills": []}}}`, format: FormatJSON},
		{name: "empty industry name", data: `{"industries": {"": {"keywords": [], "skills": []}}}`, format: FormatJSON},
		{name: "universal not array", data: `{"industries": {}, "universal_skills": "x"}`, format: FormatJSON},
		{name: "bad yaml", data: "industries: [unclosed", format: FormatYAML},
		{name: "empty yaml", data: "", format: FormatYAML},
		{name: "yaml profile missing skills", data: "industries:\n  tech:\n    keywords: [x]\n", format: FormatYAML},
		{name: "yaml non string keyword", data: "industries:\n  tech:\n    keywords: [1]\n    skills: []\n", format: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected ConfigError, got %T", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	tax, err := Default()
	if err != nil {
		t.Fatalf("Failed to load default taxonomy: %v", err)
	}

	if tax.Len() == 0 {
		t.Fatal("Expected default taxonomy to contain industries")
	}

	if tax.Industries()[0] != "technology" {
		t.Errorf("Expected first industry 'technology', got '%s'", tax.Industries()[0])
	}

	if len(tax.UniversalSkills()) == 0 {
		t.Error("Expected universal skills in default taxonomy")
	}
}

func TestSkillsFor(t *testing.T) {
	tax, err := Parse([]byte(testJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Failed to parse taxonomy: %v", err)
	}

	got := tax.SkillsFor("alpha")
	want := []string{"spring boot", "communication", "teamwork"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = tax.SkillsFor("unknown")
	want = []string{"communication", "teamwork"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected universal skills only for unknown industry, got %v", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	tax, err := Parse([]byte(testJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Failed to parse taxonomy: %v", err)
	}

	profile, _ := tax.ProfileFor("alpha")
	profile.Skills[0] = "mutated"

	universal := tax.UniversalSkills()
	universal[0] = "mutated"

	names := tax.Industries()
	names[0] = "mutated"

	again, _ := tax.ProfileFor("alpha")
	if again.Skills[0] != "spring boot" {
		t.Error("ProfileFor leaked internal state")
	}
	if tax.UniversalSkills()[0] != "communication" {
		t.Error("UniversalSkills leaked internal state")
	}
	if tax.Industries()[0] != "zeta" {
		t.Error("Industries leaked internal state")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{path: "skills.json", want: FormatJSON},
		{path: "skills.YAML", want: FormatYAML},
		{path: "skills.yml", want: FormatYAML},
		{path: "skills", want: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
