package db

import (
	"fmt"
	"strconv"

	"github.com/yz-create/magicsearch/internal/domain"
	"github.com/yz-create/magicsearch/internal/domain/filter"
)

// Predicate is a compiled WHERE fragment over the cards table (aliased c).
// The fragment references exactly the placeholders $1..$len(Args); executors
// run one predicate per statement.
type Predicate struct {
	SQL  string
	Args []any
}

// numericExprs maps numeric filter variables to safe SQL expressions.
// Printed stats are text columns ("*", "1+*"); the guarded cast makes
// non-numeric values compare as NULL so they never match.
var numericExprs = map[string]string{
	"mana_value":       "c.mana_value",
	"edhrec_rank":      "c.edhrec_rank",
	"edhrec_saltiness": "c.edhrec_saltiness",
	"power":            guardedCast("c.power"),
	"toughness":        guardedCast("c.toughness"),
	"loyalty":          guardedCast("c.loyalty"),
	"defense":          guardedCast("c.defense"),
}

func guardedCast(col string) string {
	return `(CASE WHEN ` + col + ` ~ '^-?[0-9]+(\.[0-9]+)?$' THEN ` + col + `::numeric END)`
}

// joinSpec describes the join table and lookup table behind a multi-valued
// categorical variable.
type joinSpec struct {
	joinTable   string
	fkColumn    string
	lookupTable string
}

var multiValuedJoins = map[string]joinSpec{
	"color":          {"card_colors", "color_id", "colors"},
	"color_identity": {"card_color_identity", "color_id", "colors"},
	"keyword":        {"card_keywords", "keyword_id", "keywords"},
	"type":           {"card_types", "type_id", "card_type_names"},
	"subtype":        {"card_subtypes", "subtype_id", "subtype_names"},
	"supertype":      {"card_supertypes", "supertype_id", "supertype_names"},
	"set":            {"card_printings", "set_id", "sets"},
}

// scalarColumns maps scalar categorical variables to card columns.
var scalarColumns = map[string]string{
	"layout":                     "c.layout",
	"side":                       "c.side",
	"is_funny":                   "c.is_funny",
	"is_reserved":                "c.is_reserved",
	"has_alternative_deck_limit": "c.has_alt_deck_limit",
}

var booleanScalars = map[string]bool{
	"is_funny":                   true,
	"is_reserved":                true,
	"has_alternative_deck_limit": true,
}

// CompileFilter turns a validated filter into a parameterized predicate.
// Identifiers come only from the maps above; the comparison value is always
// a bound argument.
func CompileFilter(f filter.Filter) (Predicate, error) {
	kind := f.Kind()

	if kind.IsNumeric() {
		expr, ok := numericExprs[f.Variable()]
		if !ok {
			return Predicate{}, domain.NewValidationError(domain.ErrInvalidFilterVariable,
				"no numeric expression for %q", f.Variable())
		}
		var op string
		switch kind {
		case filter.HigherThan:
			op = ">"
		case filter.LowerThan:
			op = "<"
		case filter.EqualTo:
			op = "="
		}
		return Predicate{
			SQL:  fmt.Sprintf("%s %s $1", expr, op),
			Args: []any{f.Number()},
		}, nil
	}

	if spec, ok := multiValuedJoins[f.Variable()]; ok {
		sub := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s j JOIN %s l ON l.id = j.%s WHERE j.card_id = c.id AND l.name = $1)",
			spec.joinTable, spec.lookupTable, spec.fkColumn,
		)
		// negative on a multi-valued attribute means the value is absent
		// from the attribute's set.
		if kind == filter.Negative {
			return Predicate{SQL: "NOT " + sub, Args: []any{f.Text()}}, nil
		}
		return Predicate{SQL: sub, Args: []any{f.Text()}}, nil
	}

	col, ok := scalarColumns[f.Variable()]
	if !ok {
		return Predicate{}, domain.NewValidationError(domain.ErrInvalidFilterVariable,
			"no column for %q", f.Variable())
	}

	var arg any = f.Text()
	if booleanScalars[f.Variable()] {
		b, err := strconv.ParseBool(f.Text())
		if err != nil {
			return Predicate{}, domain.NewValidationError(domain.ErrInvalidFilterValue,
				"%q filter on %q requires true or false, got %q", kind, f.Variable(), f.Text())
		}
		arg = b
	}

	op := "="
	if kind == filter.Negative {
		op = "<>"
	}
	return Predicate{
		SQL:  fmt.Sprintf("%s %s $1", col, op),
		Args: []any{arg},
	}, nil
}
