package profilekit

import "sync"

// AliasRegistry maps selection keywords to column names per frame kind.
// It is created at startup and should be treated as immutable afterwards.
type AliasRegistry struct {
	mu     sync.RWMutex
	byKind map[Kind]map[string]string
}

// NewAliasRegistry creates an empty alias registry.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{
		byKind: make(map[Kind]map[string]string),
	}
}

// Define registers an alias for a frame kind. Returns the registry for
// fluent chaining.
//
// Example:
//
//	registry.Define(KindDatasetAccess, "user", "USER_ID").
//	    Define(KindDatasetAccess, "access", "ACCESS")
func (r *AliasRegistry) Define(kind Kind, alias, column string) *AliasRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()

	aliases, ok := r.byKind[kind]
	if !ok {
		aliases = make(map[string]string)
		r.byKind[kind] = aliases
	}
	aliases[alias] = column
	return r
}

// Aliases returns a copy of the alias map for a frame kind. The copy is safe
// to hand to FilterOptions.
func (r *AliasRegistry) Aliases(kind Kind) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := r.byKind[kind]
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// DefaultAliases is the registry consulted by the GFilterBy and RFilterBy
// shorthands. It ships with the conventional access-list keywords.
var DefaultAliases = NewAliasRegistry().
	Define(KindDatasetAccess, "user", "DSACC_AUTH_ID").
	Define(KindDatasetAccess, "auth", "DSACC_AUTH_ID").
	Define(KindDatasetAccess, "id", "DSACC_AUTH_ID").
	Define(KindDatasetAccess, "access", "DSACC_ACCESS").
	Define(KindGeneralAccess, "user", "GRACC_AUTH_ID").
	Define(KindGeneralAccess, "auth", "GRACC_AUTH_ID").
	Define(KindGeneralAccess, "id", "GRACC_AUTH_ID").
	Define(KindGeneralAccess, "access", "GRACC_ACCESS").
	Define(KindUnclassified, "user", "USER_ID").
	Define(KindUnclassified, "auth", "AUTH_ID").
	Define(KindUnclassified, "id", "AUTH_ID").
	Define(KindUnclassified, "access", "ACCESS")
