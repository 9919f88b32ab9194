package profilekit

import (
	"fmt"
	"strings"
)

// Kind identifies the record layout of a Frame and selects the matching and
// resolution semantics that apply to it.
type Kind int

const (
	// KindUnclassified is a frame without profile semantics. Filtering works,
	// profile resolution does not.
	KindUnclassified Kind = iota

	// KindDatasetProfile holds dataset profiles, one row per profile.
	KindDatasetProfile

	// KindDatasetAccess holds dataset permission entries, one row per permit.
	KindDatasetAccess

	// KindGeneralProfile holds general-resource profiles, scoped by class.
	KindGeneralProfile

	// KindGeneralAccess holds general-resource permission entries.
	KindGeneralAccess
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDatasetProfile:
		return "dataset-profile"
	case KindDatasetAccess:
		return "dataset-access"
	case KindGeneralProfile:
		return "general-profile"
	case KindGeneralAccess:
		return "general-access"
	default:
		return "unclassified"
	}
}

// DefaultPrefix returns the conventional field prefix for the kind, shared by
// all columns of a record type in the unloaded security database.
func (k Kind) DefaultPrefix() string {
	switch k {
	case KindDatasetProfile:
		return "DSBD_"
	case KindDatasetAccess:
		return "DSACC_"
	case KindGeneralProfile:
		return "GRBD_"
	case KindGeneralAccess:
		return "GRACC_"
	default:
		return ""
	}
}

// isDataset reports whether the kind carries dataset resolution semantics.
func (k Kind) isDataset() bool {
	return k == KindDatasetProfile || k == KindDatasetAccess
}

// isGeneral reports whether the kind carries general-resource semantics.
func (k Kind) isGeneral() bool {
	return k == KindGeneralProfile || k == KindGeneralAccess
}

// isProfile reports whether the kind holds base profiles (one row per
// profile) rather than permission entries.
func (k Kind) isProfile() bool {
	return k == KindDatasetProfile || k == KindGeneralProfile
}

// isAccess reports whether the kind holds permission entries.
func (k Kind) isAccess() bool {
	return k == KindDatasetAccess || k == KindGeneralAccess
}

// Frame is an ordered, indexed, immutable collection of security-profile
// rows. All operations return new views over the same backing rows; a Frame
// is never mutated in place, so concurrent reads are safe.
//
// Row order is authoritative: within an index group, the first row for a
// given class/name combination wins during profile resolution. Frames must
// be built in the precedence order of the source system.
type Frame struct {
	kind    Kind
	prefix  string
	columns []string
	index   []int // column ordinals forming the ordered index levels
	rows    [][]string
	ids     []int // stable row identities, assigned at construction
}

// FrameSpec describes a frame to build. Columns are named, string valued;
// Index names the columns that form the ordered key levels, leading level
// first. Prefix overrides the kind's default field prefix (conditional
// access tables reuse the access kinds with their own prefix).
type FrameSpec struct {
	Kind    Kind
	Prefix  string
	Columns []string
	Index   []string
	Rows    [][]string
}

// NewFrame builds an immutable Frame from a spec. The spec is validated:
// index columns must exist, rows must be rectangular, and column names must
// be unique.
func NewFrame(spec FrameSpec) (*Frame, error) {
	if len(spec.Columns) == 0 {
		return nil, NewError(ErrInvalidFrame, "frame needs at least one column")
	}

	seen := make(map[string]bool, len(spec.Columns))
	for _, c := range spec.Columns {
		if c == "" {
			return nil, NewError(ErrInvalidFrame, "empty column name")
		}
		if seen[c] {
			return nil, NewError(ErrInvalidFrame, fmt.Sprintf("duplicate column %q", c))
		}
		seen[c] = true
	}

	prefix := spec.Prefix
	if prefix == "" {
		prefix = spec.Kind.DefaultPrefix()
	}

	index := make([]int, 0, len(spec.Index))
	for _, name := range spec.Index {
		ord := -1
		for i, c := range spec.Columns {
			if c == name {
				ord = i
				break
			}
		}
		if ord == -1 {
			return nil, NewError(ErrInvalidFrame, fmt.Sprintf("index column %q not in columns", name))
		}
		index = append(index, ord)
	}

	rows := make([][]string, len(spec.Rows))
	ids := make([]int, len(spec.Rows))
	for i, row := range spec.Rows {
		if len(row) != len(spec.Columns) {
			return nil, NewError(ErrInvalidFrame,
				fmt.Sprintf("row %d has %d values, want %d", i, len(row), len(spec.Columns)))
		}
		rows[i] = row
		ids[i] = i
	}

	return &Frame{
		kind:    spec.Kind,
		prefix:  prefix,
		columns: append([]string(nil), spec.Columns...),
		index:   index,
		rows:    rows,
		ids:     ids,
	}, nil
}

// Kind returns the frame's schema kind.
func (f *Frame) Kind() Kind {
	return f.kind
}

// Prefix returns the shared field prefix of the frame's columns.
func (f *Frame) Prefix() string {
	return f.prefix
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool {
	return len(f.rows) == 0
}

// Columns returns the column names.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// IndexDepth returns the number of index key levels.
func (f *Frame) IndexDepth() int {
	return len(f.index)
}

// IndexLevels returns the names of the index columns, leading level first.
func (f *Frame) IndexLevels() []string {
	names := make([]string, len(f.index))
	for i, ord := range f.index {
		names[i] = f.columns[ord]
	}
	return names
}

// Row returns the values of row i in column order. The returned slice is
// shared with the frame and must not be modified.
func (f *Frame) Row(i int) []string {
	return f.rows[i]
}

// Column returns the values of a named column, one per row.
func (f *Frame) Column(name string) ([]string, error) {
	ord, ok := f.columnOrdinal(name)
	if !ok {
		return nil, NewError(ErrUnknownCriterion, fmt.Sprintf("no column %q", name)).WithKeyword(name)
	}
	return f.columnValues(ord), nil
}

// columnOrdinal resolves a column name to its ordinal.
func (f *Frame) columnOrdinal(name string) (int, bool) {
	for i, c := range f.columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// columnValues extracts one column by ordinal.
func (f *Frame) columnValues(ord int) []string {
	vals := make([]string, len(f.rows))
	for i, row := range f.rows {
		vals[i] = row[ord]
	}
	return vals
}

// IndexValues returns the key values of one index level, one per row.
func (f *Frame) IndexValues(level int) ([]string, error) {
	if level < 0 || level >= len(f.index) {
		return nil, NewError(ErrInvalidArguments,
			fmt.Sprintf("index level %d out of range, frame has %d", level, len(f.index)))
	}
	return f.columnValues(f.index[level]), nil
}

// indexValue returns the key value of one index level for row i.
func (f *Frame) indexValue(i, level int) string {
	return f.rows[i][f.index[level]]
}

// leadingKey returns the values of the first n index levels for row i.
func (f *Frame) leadingKey(i, n int) []string {
	key := make([]string, n)
	for l := 0; l < n; l++ {
		key[l] = f.indexValue(i, l)
	}
	return key
}

// view returns a frame sharing schema and identity with f but holding the
// given rows.
func (f *Frame) view(rows [][]string, ids []int) *Frame {
	return &Frame{
		kind:    f.kind,
		prefix:  f.prefix,
		columns: f.columns,
		index:   f.index,
		rows:    rows,
		ids:     ids,
	}
}

// where returns the rows for which mask is true.
func (f *Frame) where(mask []bool) *Frame {
	rows := make([][]string, 0, len(f.rows))
	ids := make([]int, 0, len(f.rows))
	for i, keep := range mask {
		if keep {
			rows = append(rows, f.rows[i])
			ids = append(ids, f.ids[i])
		}
	}
	return f.view(rows, ids)
}

// whereNot returns the rows for which mask is false.
func (f *Frame) whereNot(mask []bool) *Frame {
	inv := make([]bool, len(mask))
	for i, m := range mask {
		inv[i] = !m
	}
	return f.where(inv)
}

// EmptyLike returns a zero-row frame with f's schema.
func (f *Frame) EmptyLike() *Frame {
	return f.view(nil, nil)
}

// Head returns a view of at most n leading rows.
func (f *Frame) Head(n int) *Frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return f.view(f.rows[:n], f.ids[:n])
}

// Concat appends same-schema frames to f and removes exact-duplicate rows,
// preserving the first occurrence. Frames must share the column set.
func (f *Frame) Concat(others ...*Frame) (*Frame, error) {
	rows := make([][]string, 0, len(f.rows))
	ids := make([]int, 0, len(f.rows))
	seen := make(map[string]bool)

	// Row identities are carried over, so views concatenated from the same
	// base frame stay addressable by membership masks.
	add := func(g *Frame) {
		for i, row := range g.rows {
			key := strings.Join(row, "\x1f")
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, row)
			ids = append(ids, g.ids[i])
		}
	}

	add(f)
	for _, g := range others {
		if len(g.columns) != len(f.columns) {
			return nil, NewError(ErrInvalidFrame, "concat of frames with different columns")
		}
		for i := range g.columns {
			if g.columns[i] != f.columns[i] {
				return nil, NewError(ErrInvalidFrame, "concat of frames with different columns")
			}
		}
		add(g)
	}

	out := f.view(rows, ids)
	return out, nil
}

// StripPrefix returns a view with the frame's field prefix removed from the
// column names. The prefix itself is kept so the view can still resolve
// prefixed criteria.
func (f *Frame) StripPrefix() *Frame {
	if f.prefix == "" {
		return f
	}
	cols := make([]string, len(f.columns))
	for i, c := range f.columns {
		cols[i] = strings.TrimPrefix(c, f.prefix)
	}
	out := f.view(f.rows, f.ids)
	out.columns = cols
	return out
}
