package duplicates

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/bibdedup/internal/bib"
)

// Kind is how a rule compares a field.
type Kind int

const (
	// KindExact earns its weight when both sides hold the same non-blank
	// value. Its weight always counts toward the total.
	KindExact Kind = iota
	// KindFuzzyText earns weight * bigram correlation. Absent values
	// compare as "".
	KindFuzzyText
	// KindOptionalExact is skipped unless both sides hold a value. Equal
	// values earn the weight; different values cost Penalty * weight.
	KindOptionalExact
)

var kindNames = map[Kind]string{
	KindExact:         "exact",
	KindFuzzyText:     "fuzzy-text",
	KindOptionalExact: "optional-exact",
}

// ParseKind parses the names used in policy files.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison kind %q (supported: exact, fuzzy-text, optional-exact)", s)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Rule is one field comparison within a Policy.
type Rule struct {
	Field  bib.Field
	Kind   Kind
	Weight float64
	// Penalty multiplies Weight when an optional-exact rule sees two
	// different values.
	Penalty float64
	// Hard makes an optional-exact mismatch final: the pair scores zero.
	Hard bool
	// Baseline rules are the ones kept when two entries of different
	// types are compared.
	Baseline bool
}

// Policy is the ordered rule set for one entry type.
type Policy struct {
	Type  bib.EntryType
	Rules []Rule
}

func (p Policy) baselineFields() map[bib.Field]struct{} {
	out := make(map[bib.Field]struct{})
	for _, r := range p.Rules {
		if r.Baseline {
			out[r.Field] = struct{}{}
		}
	}
	return out
}

func (p Policy) hardFields() map[bib.Field]struct{} {
	out := make(map[bib.Field]struct{})
	for _, r := range p.Rules {
		if r.Hard {
			out[r.Field] = struct{}{}
		}
	}
	return out
}

// Policies is the complete, immutable comparison configuration. Build it
// with DefaultPolicies or LoadPolicies and share it freely.
type Policies struct {
	generic    Policy
	byType     map[bib.EntryType]Policy
	typeWeight float64
	threshold  float64
}

// Default calibration. Title carries most of the identity of a work; a type
// agreement bonus keeps entries with only a shared author apart when their
// types differ.
const (
	DefaultThreshold  = 0.75
	DefaultTypeWeight = 2.0

	weightAuthor    = 2.5
	weightTitle     = 6.0
	weightYear      = 1.0
	weightJournal   = 1.5
	weightPublisher = 1.0
	weightSecondary = 1.0
	weightEdition   = 2.0

	penaltySecondary = 1.0
	penaltyEdition   = 4.0
)

func baselineRules() []Rule {
	return []Rule{
		{Field: bib.FieldAuthor, Kind: KindFuzzyText, Weight: weightAuthor, Baseline: true},
		{Field: bib.FieldTitle, Kind: KindFuzzyText, Weight: weightTitle, Baseline: true},
		{Field: bib.FieldYear, Kind: KindExact, Weight: weightYear, Baseline: true},
	}
}

func partRules() []Rule {
	return append(baselineRules(),
		Rule{Field: bib.FieldChapter, Kind: KindOptionalExact, Weight: weightSecondary, Penalty: penaltySecondary, Hard: true},
		Rule{Field: bib.FieldPages, Kind: KindOptionalExact, Weight: weightSecondary, Penalty: penaltySecondary, Hard: true},
	)
}

// DefaultPolicies returns the built-in rule tables.
func DefaultPolicies() *Policies {
	article := append(baselineRules(),
		Rule{Field: bib.FieldJournal, Kind: KindFuzzyText, Weight: weightJournal},
		Rule{Field: bib.FieldNumber, Kind: KindOptionalExact, Weight: weightSecondary, Penalty: penaltySecondary},
		Rule{Field: bib.FieldVolume, Kind: KindOptionalExact, Weight: weightSecondary, Penalty: penaltySecondary},
		Rule{Field: bib.FieldPages, Kind: KindOptionalExact, Weight: weightSecondary, Penalty: penaltySecondary},
	)
	book := append(baselineRules(),
		Rule{Field: bib.FieldPublisher, Kind: KindFuzzyText, Weight: weightPublisher, Baseline: true},
		Rule{Field: bib.FieldEdition, Kind: KindOptionalExact, Weight: weightEdition, Penalty: penaltyEdition},
	)

	p, err := NewPolicies(
		Policy{Rules: baselineRules()},
		[]Policy{
			{Type: bib.TypeArticle, Rules: article},
			{Type: bib.TypeBook, Rules: book},
			{Type: bib.TypeInBook, Rules: partRules()},
			{Type: bib.TypeInCollection, Rules: partRules()},
		},
		DefaultTypeWeight,
		DefaultThreshold,
	)
	if err != nil {
		panic(fmt.Sprintf("duplicates: invalid built-in policies: %v", err))
	}
	return p
}

// NewPolicies validates and freezes a policy table. Rule slices are copied.
func NewPolicies(generic Policy, typed []Policy, typeWeight, threshold float64) (*Policies, error) {
	if threshold <= 0 || threshold > 2 {
		return nil, &ConfigError{Field: "threshold", Msg: fmt.Sprintf("must be in (0, 2], got %v", threshold)}
	}
	if typeWeight < 0 {
		return nil, &ConfigError{Field: "type_weight", Msg: fmt.Sprintf("must not be negative, got %v", typeWeight)}
	}
	if len(generic.Rules) == 0 {
		return nil, &ConfigError{Field: "generic", Msg: "needs at least one rule"}
	}
	if err := validateRules("generic", generic.Rules); err != nil {
		return nil, err
	}

	p := &Policies{
		generic:    Policy{Rules: slices.Clone(generic.Rules)},
		byType:     make(map[bib.EntryType]Policy, len(typed)),
		typeWeight: typeWeight,
		threshold:  threshold,
	}
	for _, tp := range typed {
		tp.Type = bib.ParseEntryType(string(tp.Type))
		name := string(tp.Type)
		if name == "" {
			return nil, &ConfigError{Field: "types", Msg: "policy without entry type"}
		}
		if _, dup := p.byType[tp.Type]; dup {
			return nil, &ConfigError{Field: "types." + name, Msg: "declared more than once"}
		}
		if len(tp.Rules) == 0 {
			return nil, &ConfigError{Field: "types." + name, Msg: "needs at least one rule"}
		}
		if err := validateRules("types."+name, tp.Rules); err != nil {
			return nil, err
		}
		p.byType[tp.Type] = Policy{Type: tp.Type, Rules: slices.Clone(tp.Rules)}
	}
	return p, nil
}

func validateRules(path string, rules []Rule) error {
	seen := make(map[bib.Field]bool, len(rules))
	for i, r := range rules {
		where := fmt.Sprintf("%s.rules[%d]", path, i)
		if r.Field == "" {
			return &ConfigError{Field: where, Msg: "missing field name"}
		}
		if seen[r.Field] {
			return &ConfigError{Field: where, Msg: fmt.Sprintf("field %q listed twice", r.Field)}
		}
		seen[r.Field] = true
		if _, ok := kindNames[r.Kind]; !ok {
			return &ConfigError{Field: where, Msg: fmt.Sprintf("unknown kind %d", int(r.Kind))}
		}
		if r.Weight <= 0 {
			return &ConfigError{Field: where, Msg: fmt.Sprintf("weight must be positive, got %v", r.Weight)}
		}
		if r.Penalty < 0 {
			return &ConfigError{Field: where, Msg: fmt.Sprintf("penalty must not be negative, got %v", r.Penalty)}
		}
		if r.Hard && r.Kind != KindOptionalExact {
			return &ConfigError{Field: where, Msg: "hard is only valid on optional-exact rules"}
		}
	}
	return nil
}

// Threshold is the minimum score for a duplicate verdict.
func (p *Policies) Threshold() float64 { return p.threshold }

// TypeWeight is the weight of the entry type agreement term.
func (p *Policies) TypeWeight() float64 { return p.typeWeight }

// Generic returns the fallback policy.
func (p *Policies) Generic() Policy {
	return Policy{Rules: slices.Clone(p.generic.Rules)}
}

// Lookup returns the policy registered for t.
func (p *Policies) Lookup(t bib.EntryType) (Policy, bool) {
	tp, ok := p.byType[t]
	if !ok {
		return Policy{}, false
	}
	return Policy{Type: tp.Type, Rules: slices.Clone(tp.Rules)}, true
}

// Types returns the entry types with a dedicated policy, sorted.
func (p *Policies) Types() []bib.EntryType {
	out := make([]bib.EntryType, 0, len(p.byType))
	for t := range p.byType {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Resolve picks the rules used for a pair of types. Equal types use their
// own policy. Different known types use the baseline rules both policies
// share plus any hard rule declared on the same field by both. Anything
// involving an unknown type uses the generic policy. The returned slice is
// shared and must not be modified.
func (p *Policies) Resolve(a, b bib.EntryType) []Rule {
	if a == b {
		if tp, ok := p.byType[a]; ok {
			return tp.Rules
		}
		return p.generic.Rules
	}

	pa, okA := p.byType[a]
	pb, okB := p.byType[b]
	if !okA || !okB {
		return p.generic.Rules
	}

	// Walk the lexically smaller type so Resolve(a, b) and Resolve(b, a)
	// return rules in the same order.
	if b < a {
		pa, pb = pb, pa
	}
	shared := pb.baselineFields()
	hard := pb.hardFields()
	rules := make([]Rule, 0, len(pa.Rules))
	for _, r := range pa.Rules {
		if _, ok := shared[r.Field]; ok && r.Baseline {
			rules = append(rules, r)
			continue
		}
		// A hard rule both policies declare still separates the pair.
		if _, ok := hard[r.Field]; ok && r.Hard {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		return p.generic.Rules
	}
	return rules
}
