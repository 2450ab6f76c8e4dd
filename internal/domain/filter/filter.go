// Package filter defines the search filter value object.
//
// A filter constrains one card attribute: (variable, kind, value). The
// variable vocabulary is closed per kind path, so filters that reach the
// storage layer are safe to compile into query text.
package filter

import (
	"sort"
	"strings"

	"github.com/yz-create/magicsearch/internal/domain"
)

// Kind is the comparison kind of a filter.
type Kind string

const (
	// HigherThan matches cards whose numeric attribute exceeds the value.
	HigherThan Kind = "higher_than"
	// LowerThan matches cards whose numeric attribute is below the value.
	LowerThan Kind = "lower_than"
	// EqualTo matches cards whose numeric attribute equals the value.
	EqualTo Kind = "equal_to"
	// Positive matches cards whose categorical attribute equals or contains the value.
	Positive Kind = "positive"
	// Negative matches cards whose categorical attribute differs from or excludes the value.
	Negative Kind = "negative"
)

// ParseKind validates a kind name against the closed enumeration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case HigherThan, LowerThan, EqualTo, Positive, Negative:
		return Kind(s), nil
	}
	return "", domain.NewValidationError(domain.ErrInvalidFilterKind,
		"%q is not one of higher_than, lower_than, equal_to, positive, negative", s)
}

// IsNumeric reports whether the kind selects the numeric filter path.
func (k Kind) IsNumeric() bool {
	return k == HigherThan || k == LowerThan || k == EqualTo
}

// numericVariables is the allow-list for the numeric filter path.
var numericVariables = map[string]bool{
	"mana_value":       true,
	"power":            true,
	"toughness":        true,
	"loyalty":          true,
	"defense":          true,
	"edhrec_rank":      true,
	"edhrec_saltiness": true,
}

// multiValuedVariables are categorical attributes backed by join tables;
// positive/negative test set membership for these.
var multiValuedVariables = map[string]bool{
	"color":          true,
	"color_identity": true,
	"keyword":        true,
	"type":           true,
	"subtype":        true,
	"supertype":      true,
	"set":            true,
}

// scalarVariables are categorical attributes stored on the card row;
// positive/negative test equality/inequality for these.
var scalarVariables = map[string]bool{
	"layout":                     true,
	"side":                       true,
	"is_funny":                   true,
	"is_reserved":                true,
	"has_alternative_deck_limit": true,
}

// NumericVariables returns the numeric allow-list, sorted.
func NumericVariables() []string { return sortedKeys(numericVariables) }

// CategoricalVariables returns the categorical allow-list, sorted.
func CategoricalVariables() []string {
	all := make(map[string]bool, len(multiValuedVariables)+len(scalarVariables))
	for v := range multiValuedVariables {
		all[v] = true
	}
	for v := range scalarVariables {
		all[v] = true
	}
	return sortedKeys(all)
}

// IsMultiValued reports whether a categorical variable is backed by a join table.
func IsMultiValued(variable string) bool { return multiValuedVariables[variable] }

// Filter is a validated, transient search constraint. Construction is the
// only validation point: a Filter value always compiles.
type Filter struct {
	variable string
	kind     Kind
	number   float64
	text     string
}

// New validates the (variable, kind, value) triple and creates a Filter.
// Numeric kinds require a numeric value; categorical kinds require a string.
// Numeric strings are rejected, not coerced.
func New(variable string, kind Kind, value any) (Filter, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Filter{}, err
	}

	if kind.IsNumeric() {
		if !numericVariables[variable] {
			return Filter{}, domain.NewValidationError(domain.ErrInvalidFilterVariable,
				"%q is not a numeric attribute; allowed: %s",
				variable, strings.Join(NumericVariables(), ", "))
		}
		n, ok := asNumber(value)
		if !ok {
			return Filter{}, domain.NewValidationError(domain.ErrInvalidFilterValue,
				"%s filter on %q requires a numeric value, got %T", kind, variable, value)
		}
		return Filter{variable: variable, kind: kind, number: n}, nil
	}

	if !multiValuedVariables[variable] && !scalarVariables[variable] {
		return Filter{}, domain.NewValidationError(domain.ErrInvalidFilterVariable,
			"%q is not a categorical attribute; allowed: %s",
			variable, strings.Join(CategoricalVariables(), ", "))
	}
	s, ok := value.(string)
	if !ok {
		return Filter{}, domain.NewValidationError(domain.ErrInvalidFilterValue,
			"%s filter on %q requires a string value, got %T", kind, variable, value)
	}
	if s == "" {
		return Filter{}, domain.NewValidationError(domain.ErrInvalidFilterValue,
			"%s filter on %q requires a non-empty value", kind, variable)
	}
	return Filter{variable: variable, kind: kind, text: s}, nil
}

// Variable returns the constrained attribute name.
func (f Filter) Variable() string { return f.variable }

// Kind returns the comparison kind.
func (f Filter) Kind() Kind { return f.kind }

// Number returns the comparison value for numeric kinds.
func (f Filter) Number() float64 { return f.number }

// Text returns the comparison value for categorical kinds.
func (f Filter) Text() string { return f.text }

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
