package profilekit

import (
	"regexp"
	"strings"
)

// criterionKind tags the value variants a Criterion can carry.
type criterionKind int

const (
	critSkip  criterionKind = iota // placeholder, matches everything
	critValue                      // single string, literal or generic
	critList                       // list of literals and/or generics
	critRegex                      // compiled pattern
)

// Criterion is one selection value for the filter engine. Build criteria
// with Lit, List, Regex or Skip.
//
// A string value is interpreted by content: "**" matches any non-empty
// field, "*sub*" is a containment test, a value without wildcard characters
// is an equality test, and anything else is a generic pattern. A list of
// plain values is a membership test; a list containing at least one generic
// becomes a single alternation pattern.
type Criterion struct {
	kind    criterionKind
	value   string
	values  []string
	pattern *regexp.Regexp
}

// Lit builds a criterion from a single string value.
func Lit(value string) Criterion {
	return Criterion{kind: critValue, value: value}
}

// List builds a criterion from several values.
func List(values ...string) Criterion {
	return Criterion{kind: critList, values: values}
}

// Regex builds a criterion from a compiled pattern. The pattern is applied
// from the start of each field value and need not match the whole field.
func Regex(re *regexp.Regexp) Criterion {
	return Criterion{kind: critRegex, pattern: anchorStart(re)}
}

// Skip builds a placeholder criterion that selects every row. Use it to
// pass over positional index levels or columns.
func Skip() Criterion {
	return Criterion{kind: critSkip}
}

// String renders the criterion for diagnostics.
func (c Criterion) String() string {
	switch c.kind {
	case critValue:
		return c.value
	case critList:
		return "[" + simpleListed(c.values) + "]"
	case critRegex:
		return "/" + c.pattern.String() + "/"
	default:
		return "**"
	}
}

// isSkip reports whether the criterion is a positional skip marker. "**"
// always skips at positional slots; ".*" additionally skips in regex mode.
func (c Criterion) isSkip(regexPattern bool) bool {
	if c.kind == critSkip {
		return true
	}
	if c.kind != critValue {
		return false
	}
	return c.value == "**" || (regexPattern && c.value == ".*")
}

// isIndexSkip reports whether the criterion skips an index level. A bare "*"
// is true-for-all when bound to an index level, while the same value bound to
// a column is an equality test.
func (c Criterion) isIndexSkip(regexPattern bool) bool {
	return c.isSkip(regexPattern) || (c.kind == critValue && c.value == "*")
}

// anchorStart rewrites a pattern so it only matches from the start of the
// candidate value, mirroring vectorized str.match semantics.
func anchorStart(re *regexp.Regexp) *regexp.Regexp {
	expr := re.String()
	if strings.HasPrefix(expr, "^") || strings.HasPrefix(expr, `\A`) {
		return re
	}
	return regexp.MustCompile("^(?:" + expr + ")")
}

// compileAnchored compiles a textual regex pattern anchored at the start.
func compileAnchored(expr string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(expr, "^") && !strings.HasPrefix(expr, `\A`) {
		expr = "^(?:" + expr + ")"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, NewError(ErrInvalidArguments, "invalid regex pattern "+expr)
	}
	return re, nil
}

// mask evaluates the criterion against a column (or index level) of values
// and returns the boolean row-mask. With regexPattern set, string values are
// treated as regular expressions instead of literal-or-generic.
func (c Criterion) mask(values []string, regexPattern bool) ([]bool, error) {
	out := make([]bool, len(values))

	switch c.kind {
	case critSkip:
		for i := range out {
			out[i] = true
		}
		return out, nil

	case critRegex:
		for i, v := range values {
			out[i] = c.pattern.MatchString(v)
		}
		return out, nil

	case critValue:
		if regexPattern {
			re, err := compileAnchored(c.value)
			if err != nil {
				return nil, err
			}
			for i, v := range values {
				out[i] = re.MatchString(v)
			}
			return out, nil
		}
		return maskValue(c.value, values)

	case critList:
		return maskList(c.values, values)
	}

	return nil, NewError(ErrInvalidArguments, "malformed criterion")
}

// maskValue applies single-string semantics: any-value, containment,
// equality or generic match, inferred from the value's content.
func maskValue(sel string, values []string) ([]bool, error) {
	out := make([]bool, len(values))
	switch {
	case sel == "**":
		for i, v := range values {
			out[i] = v != ""
		}
	case len(sel) > 2 && sel[0] == '*' && sel[len(sel)-1] == '*' &&
		!strings.Contains(sel[1:len(sel)-1], "*"):
		sub := sel[1 : len(sel)-1]
		for i, v := range values {
			out[i] = strings.Contains(v, sub)
		}
	case sel == "*" || !isGeneric(sel):
		for i, v := range values {
			out[i] = v == sel
		}
	default:
		re, err := CompileGeneric(sel)
		if err != nil {
			return nil, NewError(ErrInvalidArguments, "cannot compile generic pattern "+sel)
		}
		for i, v := range values {
			out[i] = re.MatchString(v)
		}
	}
	return out, nil
}

// maskList applies list semantics: membership for plain literals, one
// combined alternation when any entry is generic.
func maskList(sel []string, values []string) ([]bool, error) {
	out := make([]bool, len(values))

	generic := false
	for _, s := range sel {
		if isGeneric(s) {
			generic = true
			break
		}
	}

	if generic {
		parts := make([]string, len(sel))
		for i, s := range sel {
			parts[i] = GenericToRegex(s)
		}
		re, err := compileAnchored(strings.Join(parts, "|"))
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			out[i] = re.MatchString(v)
		}
		return out, nil
	}

	members := make(map[string]bool, len(sel))
	for _, s := range sel {
		members[s] = true
	}
	for i, v := range values {
		out[i] = members[v]
	}
	return out, nil
}
