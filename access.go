package profilekit

// accessKeywords orders the access levels from weakest to strongest. The
// leading blank covers distorted records, "-owner-" marks pseudo entries
// produced by access-list views and outranks every real level.
var accessKeywords = []string{" ", "NONE", "EXECUTE", "READ", "UPDATE", "CONTROL", "ALTER", "-owner-"}

// AccessRank returns the ordinal strength of an access level, or -1 when the
// level is not a known keyword. Higher rank means stronger access.
func AccessRank(level string) int {
	for i, kw := range accessKeywords {
		if kw == level {
			return i
		}
	}
	return -1
}

// ValidAccess reports whether the level is a known access keyword.
func ValidAccess(level string) bool {
	return AccessRank(level) >= 0
}

// AccessAllows reports whether a granted access level satisfies a required
// one. Unknown levels never satisfy anything.
func AccessAllows(granted, required string) bool {
	g, r := AccessRank(granted), AccessRank(required)
	if g < 0 || r < 0 {
		return false
	}
	return g >= r
}

// HigherAccess returns the stronger of two access levels.
func HigherAccess(a, b string) string {
	if AccessRank(a) >= AccessRank(b) {
		return a
	}
	return b
}
