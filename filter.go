package profilekit

import (
	"fmt"

	"github.com/apex/log"
)

// FilterOptions control how the filter engine binds and evaluates criteria.
type FilterOptions struct {
	// Aliases maps selection keywords to column names.
	Aliases map[string]string

	// UseIndex binds positional criteria to index levels instead of columns.
	UseIndex bool

	// Exclude inverts the result: rows matching ALL criteria are removed.
	Exclude bool

	// RegexPattern treats every string value as a regular expression.
	RegexPattern bool
}

// NewFilterOptions creates FilterOptions with default values.
func NewFilterOptions() FilterOptions {
	return FilterOptions{}
}

// WithAliases sets the keyword alias map.
func (o FilterOptions) WithAliases(aliases map[string]string) FilterOptions {
	o.Aliases = aliases
	return o
}

// WithIndex binds positional criteria to index levels.
func (o FilterOptions) WithIndex() FilterOptions {
	o.UseIndex = true
	return o
}

// WithExclude inverts the selection.
func (o FilterOptions) WithExclude() FilterOptions {
	o.Exclude = true
	return o
}

// WithRegexPattern treats string values as regular expressions.
func (o FilterOptions) WithRegexPattern() FilterOptions {
	o.RegexPattern = true
	return o
}

// boundCriterion is a criterion resolved to a concrete column.
type boundCriterion struct {
	column string
	crit   Criterion
}

// Filter returns the rows satisfying the conjunction of all positional and
// keyword criteria, or with Exclude set, the rows NOT satisfying it.
//
// Positional criteria bind to columns by ordinal position, or to index
// levels with UseIndex. Keywords resolve in order: the literal keyword
// "match" (routed to profile resolution, profile frames only), the alias
// map, an exact column name, a prefixed column name. An unresolvable
// keyword fails with ErrUnknownCriterion.
//
// In select mode each criterion narrows the frame before the next one is
// evaluated; masks commute under conjunction, so this only saves compares.
// In exclude mode every mask is computed against the original frame and the
// conjunction is inverted once at the end, since narrowing would change the
// universe later masks refer to.
//
// Filter never mutates the frame; it is a pure function over its inputs.
func (f *Frame) Filter(selection []Criterion, keywords map[string]Criterion, opts FilterOptions) (*Frame, error) {
	df := f

	// Exclude mode accumulates "matches all criteria" over the full frame.
	var locs []bool
	if opts.Exclude {
		locs = make([]bool, f.Len())
		for i := range locs {
			locs[i] = true
		}
	}

	scope := func() *Frame {
		if opts.Exclude {
			return f
		}
		return df
	}

	apply := func(mask []bool) {
		if opts.Exclude {
			for i := range locs {
				locs[i] = locs[i] && mask[i]
			}
		} else {
			df = df.where(mask)
		}
	}

	var bound []boundCriterion

	if opts.UseIndex {
		for s, sel := range selection {
			if sel.isIndexSkip(opts.RegexPattern) {
				continue
			}
			values, err := scope().IndexValues(s)
			if err != nil {
				return nil, err
			}
			mask, err := sel.mask(values, opts.RegexPattern)
			if err != nil {
				return nil, err
			}
			apply(mask)
		}
	} else {
		for s, sel := range selection {
			if sel.isSkip(opts.RegexPattern) {
				continue
			}
			if s >= len(f.columns) {
				return nil, NewError(ErrInvalidArguments,
					fmt.Sprintf("positional criterion %d exceeds %d columns", s, len(f.columns)))
			}
			bound = append(bound, boundCriterion{column: f.columns[s], crit: sel})
		}
	}

	for _, kwd := range sortedKeys(keywords) {
		sel := keywords[kwd]

		if kwd == "match" {
			matched, err := f.routeMatch(scope(), sel)
			if err != nil {
				return nil, err
			}
			if opts.Exclude {
				apply(f.membershipMask(matched))
			} else {
				df = matched
			}
			continue
		}

		column, ok := f.resolveKeyword(kwd, opts.Aliases)
		if !ok {
			msg := fmt.Sprintf("unknown selection filter(%s=%s)", kwd, sel)
			if len(opts.Aliases) > 0 {
				msg += ", try " + readableList(sortedKeys(opts.Aliases))
			}
			msg += ", or a column name instead"
			return nil, NewError(ErrUnknownCriterion, msg).WithKeyword(kwd).WithFrame(f.kind)
		}
		log.Debugf("filter: keyword %s resolved to column %s", kwd, column)
		bound = append(bound, boundCriterion{column: column, crit: sel})
	}

	for _, bc := range bound {
		values, err := scope().Column(bc.column)
		if err != nil {
			return nil, err
		}
		mask, err := bc.crit.mask(values, opts.RegexPattern)
		if err != nil {
			return nil, err
		}
		apply(mask)
	}

	if opts.Exclude {
		return f.whereNot(locs), nil
	}
	return df, nil
}

// resolveKeyword resolves a selection keyword through the ordered chain:
// alias map, exact column name, prefixed column name.
func (f *Frame) resolveKeyword(kwd string, aliases map[string]string) (string, bool) {
	if column, ok := aliases[kwd]; ok {
		return column, true
	}
	if _, ok := f.columnOrdinal(kwd); ok {
		return kwd, true
	}
	if f.prefix != "" {
		if _, ok := f.columnOrdinal(f.prefix + kwd); ok {
			return f.prefix + kwd, true
		}
	}
	return "", false
}

// routeMatch handles the "match" keyword by resolving the governing
// profile(s) within the scope frame. Only base-profile frames support it.
func (f *Frame) routeMatch(scope *Frame, sel Criterion) (*Frame, error) {
	if !f.kind.isProfile() {
		return nil, NewError(ErrUnsupportedOperation,
			fmt.Sprintf("match criterion not supported on %s frames", f.kind)).WithFrame(f.kind)
	}

	var names []string
	switch sel.kind {
	case critValue:
		names = []string{sel.value}
	case critList:
		names = sel.values
	default:
		return nil, NewError(ErrInvalidArguments, "match criterion needs a name or list of names")
	}

	return scope.Match(MatchNames(names...))
}

// membershipMask marks the rows of f that are present in the subset view.
func (f *Frame) membershipMask(subset *Frame) []bool {
	present := make(map[int]bool, len(subset.ids))
	for _, id := range subset.ids {
		present[id] = true
	}
	mask := make([]bool, len(f.rows))
	for i, id := range f.ids {
		mask[i] = present[id]
	}
	return mask
}

// GFilter selects rows by generic patterns: index-bound for profile frames,
// column-bound for everything else.
func (f *Frame) GFilter(selection ...Criterion) (*Frame, error) {
	return f.Filter(selection, nil, FilterOptions{UseIndex: f.kind.isProfile()})
}

// GFilterBy is GFilter with keyword criteria, resolved through the default
// alias registry for the frame's kind.
func (f *Frame) GFilterBy(selection []Criterion, keywords map[string]Criterion) (*Frame, error) {
	opts := FilterOptions{
		Aliases:  DefaultAliases.Aliases(f.kind),
		UseIndex: f.kind.isProfile(),
	}
	return f.Filter(selection, keywords, opts)
}

// RFilter selects rows by regular expressions, index-bound for profile
// frames.
func (f *Frame) RFilter(selection ...Criterion) (*Frame, error) {
	opts := FilterOptions{UseIndex: f.kind.isProfile(), RegexPattern: true}
	return f.Filter(selection, nil, opts)
}

// RFilterBy is RFilter with keyword criteria.
func (f *Frame) RFilterBy(selection []Criterion, keywords map[string]Criterion) (*Frame, error) {
	opts := FilterOptions{
		Aliases:      DefaultAliases.Aliases(f.kind),
		UseIndex:     f.kind.isProfile(),
		RegexPattern: true,
	}
	return f.Filter(selection, keywords, opts)
}
