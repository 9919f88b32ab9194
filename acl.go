package profilekit

import (
	"fmt"
	"sort"
	"strings"
)

// ACLSource provides the companion frames an access-list view needs to tie
// profiles and permits together.
type ACLSource struct {
	// Profiles is the base profile frame matching the queried frame's entity
	// (dataset or general resource). Required when ACL is called on a
	// permission frame.
	Profiles *Frame

	// Access lists the permission frames (normal and conditional) to collect
	// permits from. Required when ACL is called on a profile frame.
	Access []*Frame

	// GroupMembers connects groups to user IDs: leading index level is the
	// group name and a USER_ID column (optionally prefixed) names the member.
	// Required for Explode and Resolve.
	GroupMembers *Frame

	// Groups optionally lists all defined group names, used to mark group
	// permits. When empty, the groups seen in GroupMembers are used.
	Groups []string
}

// ACLOptions control the shape of an access-list view.
type ACLOptions struct {
	// Permits includes the plain access-list entries. Group authorities are
	// marked "-group-" in USER_ID.
	Permits bool

	// Explode replaces each group authority with one entry per connected
	// user.
	Explode bool

	// Resolve reduces the exploded list to one entry per user: a user's own
	// permit, or failing that the highest group permit.
	Resolve bool

	// Access keeps only entries with exactly this access level.
	Access string

	// Allows keeps only entries with at least this access level.
	Allows string

	// Sort orders the output: "profile", "user", "id" or "access".
	Sort string
}

// NewACLOptions creates ACLOptions with default values.
func NewACLOptions() ACLOptions {
	return ACLOptions{
		Permits: true,
		Sort:    "profile",
	}
}

// WithExplode replaces group permits with per-user entries.
func (o ACLOptions) WithExplode() ACLOptions {
	o.Explode = true
	return o
}

// WithResolve reduces the list to each user's effective permit.
func (o ACLOptions) WithResolve() ACLOptions {
	o.Resolve = true
	return o
}

// WithAccess keeps only entries at exactly the given level.
func (o ACLOptions) WithAccess(level string) ACLOptions {
	o.Access = level
	return o
}

// WithAllows keeps only entries at or above the given level.
func (o ACLOptions) WithAllows(level string) ACLOptions {
	o.Allows = level
	return o
}

// WithSort sets the output order.
func (o ACLOptions) WithSort(order string) ACLOptions {
	o.Sort = order
	return o
}

// aclEntry is one flattened access-list line while the view is being built.
type aclEntry struct {
	key    []string // profile key values (NAME or CLASS_NAME+NAME)
	user   string   // USER_ID: user, "-group-" or "-uacc-"
	auth   string   // AUTH_ID: authorized user or group from the permit
	access string
}

// ACL flattens a profile or permission frame into a uniform access-list
// frame with the profile key columns followed by USER_ID, AUTH_ID and
// ACCESS. It may be called on a profile frame (collecting permits for the
// selected profiles from src.Access) or on a permission frame (adding the
// owning profiles from src.Profiles for UACC entries).
func (f *Frame) ACL(src ACLSource, opts ACLOptions) (*Frame, error) {
	var profiles *Frame
	var permits []*Frame

	switch {
	case f.kind.isProfile():
		profiles = f
		permits = src.Access
	case f.kind.isAccess():
		if src.Profiles == nil {
			return nil, NewError(ErrInvalidArguments, "acl on a permission frame needs src.Profiles")
		}
		if !src.Profiles.kind.isProfile() {
			return nil, NewError(ErrInvalidFrame, "src.Profiles must be a base profile frame")
		}
		profiles = src.Profiles
		permits = []*Frame{f}
	default:
		return nil, NewError(ErrUnsupportedOperation,
			fmt.Sprintf("acl not supported on %s frames", f.kind)).WithFrame(f.kind)
	}

	keyLen := profiles.IndexDepth()
	if keyLen == 0 {
		return nil, NewError(ErrInvalidFrame, "acl needs an indexed profile frame")
	}

	if _, ok := aclSortOrders[opts.Sort]; !ok {
		return nil, NewError(ErrInvalidArguments,
			fmt.Sprintf("sort value %q not supported, use profile, user, id or access", opts.Sort))
	}
	if opts.Access != "" && !ValidAccess(strings.ToUpper(opts.Access)) {
		return nil, NewError(ErrInvalidArguments, "unknown access level "+opts.Access)
	}
	if opts.Allows != "" && !ValidAccess(strings.ToUpper(opts.Allows)) {
		return nil, NewError(ErrInvalidArguments, "unknown access level "+opts.Allows)
	}
	if (opts.Explode || opts.Resolve) && src.GroupMembers == nil {
		return nil, NewError(ErrInvalidArguments, "explode and resolve need src.GroupMembers")
	}

	// Select the governing profiles. On a permission frame invocation the
	// profile set is derived from the permits' leading keys.
	selected, uaccByKey, err := selectedProfiles(f, profiles, permits, keyLen)
	if err != nil {
		return nil, err
	}

	groups, members, err := groupIndex(src)
	if err != nil {
		return nil, err
	}

	var entries []aclEntry

	if opts.Permits || opts.Explode || opts.Resolve {
		for _, af := range permits {
			if af == nil || af.Empty() {
				continue
			}
			list, err := permitEntries(af, selected, keyLen)
			if err != nil {
				return nil, err
			}
			entries = append(entries, list...)
		}

		if opts.Explode || opts.Resolve {
			entries = explodeGroups(entries, members)
		} else {
			for i := range entries {
				if groups[entries[i].auth] {
					entries[i].user = "-group-"
				} else {
					entries[i].user = entries[i].auth
				}
			}
		}

		// Pseudo entries for universal access.
		for key, uacc := range uaccByKey {
			if uacc == "" || uacc == " " || uacc == "NONE" {
				continue
			}
			entries = append(entries, aclEntry{
				key:    strings.Split(key, "\x1f"),
				user:   "-uacc-",
				auth:   "-uacc-",
				access: uacc,
			})
		}
	}

	if opts.Resolve {
		entries = resolveEntries(entries)
	}

	if opts.Access != "" {
		want := AccessRank(strings.ToUpper(opts.Access))
		entries = filterEntries(entries, func(e aclEntry) bool { return AccessRank(e.access) == want })
	}
	if opts.Allows != "" {
		want := AccessRank(strings.ToUpper(opts.Allows))
		entries = filterEntries(entries, func(e aclEntry) bool { return AccessRank(e.access) >= want })
	}

	sortEntries(entries, opts.Sort)

	return aclFrame(profiles, entries, keyLen)
}

// selectedProfiles returns the profile key set in scope plus each key's
// UACC, keyed by the joined leading index values.
func selectedProfiles(f, profiles *Frame, permits []*Frame, keyLen int) (map[string]bool, map[string]string, error) {
	selected := make(map[string]bool)
	if f.kind.isProfile() {
		for i := range f.rows {
			selected[strings.Join(f.leadingKey(i, keyLen), "\x1f")] = true
		}
	} else {
		for _, af := range permits {
			if af.IndexDepth() < keyLen {
				return nil, nil, NewError(ErrInvalidFrame, "permission frame index shallower than profile key")
			}
			for i := range af.rows {
				selected[strings.Join(af.leadingKey(i, keyLen), "\x1f")] = true
			}
		}
	}

	uacc := make(map[string]string)
	uaccCol, ok := profiles.resolveKeyword("UACC", nil)
	if ok {
		vals, err := profiles.Column(uaccCol)
		if err != nil {
			return nil, nil, err
		}
		for i := range profiles.rows {
			key := strings.Join(profiles.leadingKey(i, keyLen), "\x1f")
			if selected[key] {
				uacc[key] = vals[i]
			}
		}
	}
	return selected, uacc, nil
}

// permitEntries extracts the permits of an access frame that belong to the
// selected profiles.
func permitEntries(af *Frame, selected map[string]bool, keyLen int) ([]aclEntry, error) {
	authCol, ok := af.resolveKeyword("AUTH_ID", nil)
	if !ok {
		return nil, NewError(ErrInvalidFrame, "permission frame has no AUTH_ID column")
	}
	accessCol, ok := af.resolveKeyword("ACCESS", nil)
	if !ok {
		return nil, NewError(ErrInvalidFrame, "permission frame has no ACCESS column")
	}
	auths, err := af.Column(authCol)
	if err != nil {
		return nil, err
	}
	accesses, err := af.Column(accessCol)
	if err != nil {
		return nil, err
	}
	if af.IndexDepth() < keyLen {
		return nil, NewError(ErrInvalidFrame, "permission frame index shallower than profile key")
	}

	var entries []aclEntry
	for i := range af.rows {
		key := af.leadingKey(i, keyLen)
		if !selected[strings.Join(key, "\x1f")] {
			continue
		}
		entries = append(entries, aclEntry{key: key, auth: auths[i], access: accesses[i]})
	}
	return entries, nil
}

// groupIndex builds the group name set and the group → members mapping from
// the ACL source.
func groupIndex(src ACLSource) (map[string]bool, map[string][]string, error) {
	groups := make(map[string]bool, len(src.Groups))
	for _, g := range src.Groups {
		groups[g] = true
	}
	members := make(map[string][]string)

	if src.GroupMembers == nil {
		return groups, members, nil
	}
	gm := src.GroupMembers
	if gm.IndexDepth() == 0 {
		return nil, nil, NewError(ErrInvalidFrame, "group members frame needs a group index level")
	}
	userCol, ok := gm.resolveKeyword("USER_ID", nil)
	if !ok {
		return nil, nil, NewError(ErrInvalidFrame, "group members frame has no USER_ID column")
	}
	users, err := gm.Column(userCol)
	if err != nil {
		return nil, nil, err
	}
	for i := range gm.rows {
		group := gm.indexValue(i, 0)
		groups[group] = true
		members[group] = append(members[group], users[i])
	}
	return groups, members, nil
}

// explodeGroups replaces each group permit with one entry per connected
// user. Non-group permits keep the authorized ID as USER_ID.
func explodeGroups(entries []aclEntry, members map[string][]string) []aclEntry {
	out := make([]aclEntry, 0, len(entries))
	for _, e := range entries {
		if users, ok := members[e.auth]; ok {
			for _, u := range users {
				exploded := e
				exploded.user = u
				out = append(out, exploded)
			}
			continue
		}
		e.user = e.auth
		out = append(out, e)
	}
	return out
}

// resolveEntries keeps one entry per (profile, user): the user's own permit
// outranks any group permit, otherwise the highest access wins.
func resolveEntries(entries []aclEntry) []aclEntry {
	rank := func(e aclEntry) int {
		r := AccessRank(e.access)
		if e.user == e.auth {
			// User-specific permits override group permits of any level.
			r += 10
		}
		return r
	}

	best := make(map[string]aclEntry)
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		k := strings.Join(e.key, "\x1f") + "\x1f" + e.user
		cur, ok := best[k]
		if !ok {
			best[k] = e
			order = append(order, k)
			continue
		}
		if rank(e) > rank(cur) {
			best[k] = e
		}
	}

	out := make([]aclEntry, 0, len(best))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

func filterEntries(entries []aclEntry, keep func(aclEntry) bool) []aclEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// aclSortOrders maps sort names to comparison key builders. "access" orders
// strongest first.
var aclSortOrders = map[string]func(e aclEntry) []string{
	"profile": func(e aclEntry) []string { return append(append([]string{}, e.key...), e.user) },
	"user":    func(e aclEntry) []string { return append([]string{e.user}, e.key...) },
	"id":      func(e aclEntry) []string { return append([]string{e.auth}, e.key...) },
	"access": func(e aclEntry) []string {
		return []string{fmt.Sprintf("%02d", 10-AccessRank(e.access)), e.user}
	},
}

func sortEntries(entries []aclEntry, order string) {
	keyOf := aclSortOrders[order]
	sort.SliceStable(entries, func(a, b int) bool {
		ka, kb := keyOf(entries[a]), keyOf(entries[b])
		for i := 0; i < len(ka) && i < len(kb); i++ {
			if ka[i] != kb[i] {
				return ka[i] < kb[i]
			}
		}
		return len(ka) < len(kb)
	})
}

// aclFrame materializes the entries into an unclassified frame with the
// profile key columns (prefix stripped) followed by USER_ID, AUTH_ID and
// ACCESS, indexed by the profile key.
func aclFrame(profiles *Frame, entries []aclEntry, keyLen int) (*Frame, error) {
	keyNames := profiles.IndexLevels()[:keyLen]
	columns := make([]string, 0, keyLen+3)
	for _, n := range keyNames {
		columns = append(columns, strings.TrimPrefix(n, profiles.prefix))
	}
	columns = append(columns, "USER_ID", "AUTH_ID", "ACCESS")

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, 0, len(columns))
		row = append(row, e.key...)
		row = append(row, e.user, e.auth, e.access)
		rows = append(rows, row)
	}

	return NewFrame(FrameSpec{
		Kind:    KindUnclassified,
		Columns: columns,
		Index:   columns[:keyLen],
		Rows:    rows,
	})
}
