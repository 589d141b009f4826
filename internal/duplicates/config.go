package duplicates

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a malformed policy table.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid policy config: %s: %s", e.Field, e.Msg)
}

// RuleConfig is the YAML form of a Rule.
type RuleConfig struct {
	Field    string  `yaml:"field"`
	Kind     string  `yaml:"kind"`
	Weight   float64 `yaml:"weight"`
	Penalty  float64 `yaml:"penalty,omitempty"`
	Hard     bool    `yaml:"hard,omitempty"`
	Baseline bool    `yaml:"baseline,omitempty"`
}

// PolicyFile is the YAML document accepted by LoadPolicies.
type PolicyFile struct {
	Threshold  float64                 `yaml:"threshold"`
	TypeWeight float64                 `yaml:"type_weight"`
	Generic    []RuleConfig            `yaml:"generic"`
	Types      map[string][]RuleConfig `yaml:"types"`
}

// LoadPolicies reads and validates a YAML policy file.
func LoadPolicies(path string) (*Policies, error) {
	slog.Debug("Loading policy file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	p, err := ParsePolicies(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy file %s: %w", path, err)
	}

	slog.Debug("Policy file loaded", "types", len(p.byType), "threshold", p.threshold)
	return p, nil
}

// ParsePolicies decodes and validates a YAML policy document.
func ParsePolicies(data []byte) (*Policies, error) {
	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return file.Build()
}

// Build converts the file form into validated Policies.
func (f PolicyFile) Build() (*Policies, error) {
	generic, err := convertRules("generic", f.Generic)
	if err != nil {
		return nil, err
	}

	typed := make([]Policy, 0, len(f.Types))
	for name, rules := range f.Types {
		t := bib.ParseEntryType(name)
		converted, err := convertRules("types."+name, rules)
		if err != nil {
			return nil, err
		}
		typed = append(typed, Policy{Type: t, Rules: converted})
	}

	return NewPolicies(Policy{Rules: generic}, typed, f.TypeWeight, f.Threshold)
}

func convertRules(path string, in []RuleConfig) ([]Rule, error) {
	out := make([]Rule, 0, len(in))
	for i, rc := range in {
		kind, err := ParseKind(rc.Kind)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("%s.rules[%d]", path, i), Msg: err.Error()}
		}
		out = append(out, Rule{
			Field:    bib.FieldFor(rc.Field),
			Kind:     kind,
			Weight:   rc.Weight,
			Penalty:  rc.Penalty,
			Hard:     rc.Hard,
			Baseline: rc.Baseline,
		})
	}
	return out, nil
}

// File returns the YAML form of p, e.g. to write out the defaults as a
// starting point for a custom policy.
func (p *Policies) File() PolicyFile {
	f := PolicyFile{
		Threshold:  p.threshold,
		TypeWeight: p.typeWeight,
		Generic:    ruleConfigs(p.generic.Rules),
		Types:      make(map[string][]RuleConfig, len(p.byType)),
	}
	for t, tp := range p.byType {
		f.Types[string(t)] = ruleConfigs(tp.Rules)
	}
	return f
}

// MarshalYAML encodes p as a policy file.
func (p *Policies) MarshalYAML() (any, error) {
	return p.File(), nil
}

func ruleConfigs(rules []Rule) []RuleConfig {
	out := make([]RuleConfig, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleConfig{
			Field:    string(r.Field),
			Kind:     r.Kind.String(),
			Weight:   r.Weight,
			Penalty:  r.Penalty,
			Hard:     r.Hard,
			Baseline: r.Baseline,
		})
	}
	return out
}
