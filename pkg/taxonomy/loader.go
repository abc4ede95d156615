package taxonomy

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a taxonomy source.
type Format string

const (
	// FormatJSON is a JSON document with "industries" and "universal_skills".
	FormatJSON Format = "json"
	// FormatYAML is the same structure written as YAML.
	FormatYAML Format = "yaml"
)

//go:embed default.json
var defaultTaxonomy []byte

type entry struct {
	name    string
	profile IndustryProfile
}

type rawTaxonomy struct {
	industries      []entry
	universalSkills []string
}

// FormatFromPath picks the format from a file extension. Anything that is not
// YAML is treated as JSON.
func FormatFromPath(path string) (format Format) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		format = FormatJSON
	}
	return format
}

// Load reads a taxonomy from a JSON or YAML file.
func Load(path string) (tax *Taxonomy, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = &ConfigError{Source: path, Err: errors.Wrap(err, "failed to read taxonomy file")}
		return tax, err
	}

	tax, err = parse(data, FormatFromPath(path), path)
	return tax, err
}

// Parse builds a taxonomy from raw bytes in the given format.
func Parse(data []byte, format Format) (tax *Taxonomy, err error) {
	tax, err = parse(data, format, "")
	return tax, err
}

// Default returns the taxonomy compiled into the binary.
func Default() (tax *Taxonomy, err error) {
	tax, err = parse(defaultTaxonomy, FormatJSON, "embedded default")
	return tax, err
}

func parse(data []byte, format Format, source string) (tax *Taxonomy, err error) {
	var raw rawTaxonomy
	switch format {
	case FormatYAML:
		raw, err = parseYAML(data)
	default:
		raw, err = parseJSON(data)
	}
	if err != nil {
		err = &ConfigError{Source: source, Err: err}
		return tax, err
	}

	candidate := &Taxonomy{
		names:           make([]string, 0, len(raw.industries)),
		profiles:        make(map[string]IndustryProfile, len(raw.industries)),
		universalSkills: raw.universalSkills,
	}
	for _, e := range raw.industries {
		candidate.names = append(candidate.names, e.name)
		candidate.profiles[e.name] = e.profile
	}

	err = candidate.Validate()
	if err != nil {
		err = &ConfigError{Source: source, Err: errors.Wrap(err, "taxonomy validation failed")}
		return tax, err
	}

	tax = candidate
	return tax, err
}

// parseJSON walks the document with gjson so industries keep their file order.
func parseJSON(data []byte) (raw rawTaxonomy, err error) {
	if !gjson.ValidBytes(data) {
		err = errors.New("failed to parse taxonomy JSON")
		return raw, err
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		err = errors.New("taxonomy must be a JSON object")
		return raw, err
	}

	industries := root.Get("industries")
	if !industries.Exists() {
		err = errors.New("industries is required")
		return raw, err
	}
	if !industries.IsObject() {
		err = errors.New("industries must be an object")
		return raw, err
	}

	industries.ForEach(func(key, value gjson.Result) (next bool) {
		name := key.String()
		if !value.IsObject() {
			err = errors.Errorf("industry %q must be an object", name)
			return next
		}

		var profile IndustryProfile
		profile.Keywords, err = jsonStrings(value.Get("keywords"), name+".keywords", true)
		if err != nil {
			return next
		}
		profile.Skills, err = jsonStrings(value.Get("skills"), name+".skills", true)
		if err != nil {
			return next
		}

		raw.industries = append(raw.industries, entry{name: name, profile: profile})
		next = true
		return next
	})
	if err != nil {
		return raw, err
	}

	raw.universalSkills, err = jsonStrings(root.Get("universal_skills"), "universal_skills", false)
	return raw, err
}

func jsonStrings(value gjson.Result, field string, required bool) (list []string, err error) {
	list = []string{}
	if !value.Exists() {
		if required {
			err = errors.Errorf("%s is required", field)
		}
		return list, err
	}
	if !value.IsArray() {
		err = errors.Errorf("%s must be an array", field)
		return list, err
	}

	for i, item := range value.Array() {
		if item.Type != gjson.String {
			err = errors.Errorf("%s[%d] must be a string", field, i)
			return list, err
		}
		list = append(list, item.String())
	}

	return list, err
}

// parseYAML decodes into a node tree because a Go map would lose mapping order.
func parseYAML(data []byte) (raw rawTaxonomy, err error) {
	var doc yaml.Node
	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		err = errors.Wrap(err, "failed to parse taxonomy YAML")
		return raw, err
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		err = errors.New("taxonomy YAML is empty")
		return raw, err
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		err = errors.New("taxonomy must be a YAML mapping")
		return raw, err
	}

	industries := mappingValue(root, "industries")
	if industries == nil {
		err = errors.New("industries is required")
		return raw, err
	}
	if industries.Kind != yaml.MappingNode {
		err = errors.New("industries must be a mapping")
		return raw, err
	}

	for i := 0; i+1 < len(industries.Content); i += 2 {
		name := industries.Content[i].Value
		value := industries.Content[i+1]
		if value.Kind != yaml.MappingNode {
			err = errors.Errorf("industry %q must be a mapping", name)
			return raw, err
		}

		var profile IndustryProfile
		profile.Keywords, err = yamlStrings(mappingValue(value, "keywords"), name+".keywords", true)
		if err != nil {
			return raw, err
		}
		profile.Skills, err = yamlStrings(mappingValue(value, "skills"), name+".skills", true)
		if err != nil {
			return raw, err
		}

		raw.industries = append(raw.industries, entry{name: name, profile: profile})
	}

	raw.universalSkills, err = yamlStrings(mappingValue(root, "universal_skills"), "universal_skills", false)
	return raw, err
}

func mappingValue(node *yaml.Node, key string) (value *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			value = node.Content[i+1]
			return value
		}
	}
	return value
}

func yamlStrings(node *yaml.Node, field string, required bool) (list []string, err error) {
	list = []string{}
	if node == nil {
		if required {
			err = errors.Errorf("%s is required", field)
		}
		return list, err
	}
	if node.Kind != yaml.SequenceNode {
		err = errors.Errorf("%s must be a list", field)
		return list, err
	}

	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			err = errors.Errorf("%s[%d] must be a string", field, i)
			return list, err
		}
		list = append(list, item.Value)
	}

	return list, err
}

// Validate checks that the taxonomy is well-formed.
func (t *Taxonomy) Validate() (err error) {
	seen := make(map[string]bool, len(t.names))
	for _, name := range t.names {
		if strings.TrimSpace(name) == "" {
			err = errors.New("industry name cannot be empty")
			return err
		}

		key := strings.ToLower(name)
		if seen[key] {
			err = errors.Errorf("duplicate industry: %s", name)
			return err
		}
		seen[key] = true

		profile := t.profiles[name]
		err = validateTerms(profile.Keywords, name+".keywords")
		if err != nil {
			return err
		}
		err = validateTerms(profile.Skills, name+".skills")
		if err != nil {
			return err
		}
	}

	err = validateTerms(t.universalSkills, "universal_skills")
	return err
}

func validateTerms(terms []string, field string) (err error) {
	seen := make(map[string]bool, len(terms))
	for i, term := range terms {
		if strings.TrimSpace(term) == "" {
			err = errors.Errorf("%s[%d] is empty", field, i)
			return err
		}

		key := strings.ToLower(term)
		if seen[key] {
			err = errors.Errorf("%s contains duplicate entry: %s", field, term)
			return err
		}
		seen[key] = true
	}
	return err
}
