package profilekit

import (
	"fmt"
	"strings"

	"github.com/apex/log"
)

// MatchQuery describes a profile resolution request.
//
// Dataset frames take one or more fully qualified dataset names. General
// resource frames take one or more resource names and, optionally, either a
// class label (Class) or a pre-narrowed frame slice (Scope), never both.
type MatchQuery struct {
	// Names are the concrete resource or dataset names to resolve.
	Names []string

	// Class narrows a general-resource frame to one class before matching.
	Class string

	// Scope is a pre-narrowed view to match within, as an alternative to
	// Class. Must be a view of the queried frame.
	Scope *Frame
}

// MatchNames creates a MatchQuery for one or more names.
func MatchNames(names ...string) MatchQuery {
	return MatchQuery{Names: names}
}

// WithClass sets the resource class to narrow by.
func (q MatchQuery) WithClass(class string) MatchQuery {
	q.Class = class
	return q
}

// WithScope sets a pre-narrowed frame slice to match within.
func (q MatchQuery) WithScope(scope *Frame) MatchQuery {
	q.Scope = scope
	return q
}

// Match finds the profile rows that would govern each queried name under
// generic-matching precedence. Frame row order is authoritative: the first
// matching profile encountered wins, and no specificity sorting is applied.
//
// For dataset frames the winning profile is resolved per name; permission
// frames (multi-level index) return every row under the winning profile's
// leading key. For general-resource frames precedence is class-scoped: per
// class, only the first matching profile and its rows survive.
//
// Results for multiple names are concatenated with exact-duplicate rows
// removed. Names that resolve to nothing contribute nothing; if no name
// resolves, an empty frame with the original schema is returned.
func (f *Frame) Match(q MatchQuery) (*Frame, error) {
	switch {
	case f.kind.isDataset():
		return f.matchDataset(q)
	case f.kind.isGeneral():
		return f.matchGeneral(q)
	default:
		return nil, NewError(ErrUnsupportedOperation,
			fmt.Sprintf("match not supported on %s frames", f.kind)).WithFrame(f.kind)
	}
}

// matchDataset resolves dataset names against a dataset profile or
// permission frame.
func (f *Frame) matchDataset(q MatchQuery) (*Frame, error) {
	if len(q.Names) == 0 {
		return nil, NewError(ErrInvalidArguments, "match needs at least one dataset name")
	}
	if q.Class != "" || q.Scope != nil {
		return nil, NewError(ErrInvalidArguments, "dataset frames take names only, no class or scope")
	}
	if f.IndexDepth() == 0 {
		return nil, NewError(ErrInvalidFrame, "match needs an indexed frame")
	}

	results := make([]*Frame, 0, len(q.Names))
	for _, name := range q.Names {
		sep := strings.Index(name, ".")
		if sep < 0 {
			return nil, NewError(ErrInvalidName,
				fmt.Sprintf("dataset name %q has no qualifier", name)).WithName(name)
		}
		qualifier := name[:sep+1]

		// Cheap prefix narrowing on the name field. This deliberately avoids
		// index narrowing: slicing a multi-level index can misalign the
		// remaining levels on wide permission frames.
		names, err := f.IndexValues(0)
		if err != nil {
			return nil, err
		}
		mask := make([]bool, len(names))
		any := false
		for i, v := range names {
			if strings.HasPrefix(v, qualifier) {
				mask[i] = true
				any = true
			}
		}
		if !any {
			continue
		}
		candidates := f.where(mask)

		winner := candidates.firstGenericMatch(name)
		if winner < 0 {
			continue
		}

		if f.IndexDepth() == 1 {
			// One profile governs a dataset name.
			results = append(results, candidates.view(
				candidates.rows[winner:winner+1], candidates.ids[winner:winner+1]))
			continue
		}

		// Permission frame: return every row under the winning profile.
		key := candidates.indexValue(winner, 0)
		keep := make([]bool, candidates.Len())
		for i := range candidates.rows {
			keep[i] = candidates.indexValue(i, 0) == key
		}
		results = append(results, candidates.where(keep))
	}

	return f.combineResults(results)
}

// matchGeneral resolves resource names against a general-resource profile or
// permission frame, applying class-scoped first-profile precedence.
func (f *Frame) matchGeneral(q MatchQuery) (*Frame, error) {
	if len(q.Names) == 0 {
		return nil, NewError(ErrInvalidArguments, "match needs at least one resource name")
	}
	if q.Class != "" && q.Scope != nil {
		return nil, NewError(ErrInvalidArguments, "class and scope are mutually exclusive")
	}
	if f.IndexDepth() < 2 {
		return nil, NewError(ErrInvalidFrame, "general-resource frames need a class + name index")
	}

	scope := f
	if q.Scope != nil {
		scope = q.Scope
	} else if q.Class != "" {
		classes, err := f.IndexValues(0)
		if err != nil {
			return nil, err
		}
		mask := make([]bool, len(classes))
		for i, c := range classes {
			mask[i] = c == q.Class
		}
		scope = f.where(mask)
	}

	results := make([]*Frame, 0, len(q.Names))
	for _, name := range q.Names {
		mask := make([]bool, scope.Len())
		for i := range scope.rows {
			mask[i] = MatchGeneric(scope.indexValue(i, 1), name)
		}
		hits := scope.where(mask)
		if hits.Empty() {
			continue
		}
		results = append(results, hits.firstProfilePerClass())
	}

	log.Debugf("match: %d name(s) against %s frame, %d result set(s)",
		len(q.Names), f.kind, len(results))
	return f.combineResults(results)
}

// firstGenericMatch returns the ordinal of the first row whose name field,
// read as a generic pattern, matches the queried name; -1 when none does.
func (f *Frame) firstGenericMatch(name string) int {
	for i := range f.rows {
		if MatchGeneric(f.indexValue(i, 0), name) {
			return i
		}
	}
	return -1
}

// firstProfilePerClass walks rows in order and keeps, per class, only the
// rows of the first profile encountered. An explicit fold over the
// (class, resource) pair: the first row of a class activates its profile,
// later rows survive only while both class and resource still equal the
// active pair.
func (f *Frame) firstProfilePerClass() *Frame {
	mask := make([]bool, len(f.rows))
	var curClass, curResource string
	active := false
	for i := range f.rows {
		class, resource := f.indexValue(i, 0), f.indexValue(i, 1)
		if !active || class != curClass {
			curClass, curResource = class, resource
			active = true
			mask[i] = true
			continue
		}
		mask[i] = resource == curResource
	}
	return f.where(mask)
}

// combineResults merges per-name result sets: zero results yield an empty
// frame with the original schema, one is returned as-is, several are
// concatenated with duplicates removed.
func (f *Frame) combineResults(results []*Frame) (*Frame, error) {
	switch len(results) {
	case 0:
		return f.EmptyLike(), nil
	case 1:
		return results[0], nil
	default:
		return results[0].Concat(results[1:]...)
	}
}
