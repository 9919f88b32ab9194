package profilekit

import (
	"regexp"
	"strings"
	"sync"
)

// Generic pattern translation.
//
// Profile names may be generic: "%" stands for exactly one character and "*"
// for a run of characters within one qualifier, while "**" spans qualifier
// boundaries. GenericToRegex turns such a pattern into a regular expression
// with the same meaning.
//
// Examples:
//
//	GenericToRegex("SYS1.*")        // matches "SYS1.PARMLIB", not "SYS1.A.B"
//	GenericToRegex("SYS1.**")       // matches "SYS1.A" and "SYS1.A.B"
//	GenericToRegex("SYS%.LINKLIB")  // matches "SYS1.LINKLIB", "SYSA.LINKLIB"

// qualifierChars are the characters a name qualifier may contain. The "*"
// expansion is lenient and also matches wildcard characters, so a generic
// selection pattern can match profile names that are themselves generic.
const (
	qualifierChars = `[\w@#$-]`
	lenientChars   = `[\w@#$%&*-]`
)

// GenericToRegex converts a generic naming pattern into a regular expression
// string. The result is anchored at the end; callers match it from the start
// of the candidate value. The function is pure, total and deterministic.
func GenericToRegex(pattern string) string {
	if pattern == "" || pattern == "**" {
		return ".*$"
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString(lenientChars + "*")
			i++
		case pattern[i] == '%':
			b.WriteString(qualifierChars)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	b.WriteString("$")
	return b.String()
}

// genericCache memoizes compiled generic patterns. Profile resolution
// compiles one pattern per candidate row, and the same profile names recur
// across calls.
type genericCache struct {
	mu sync.RWMutex
	m  map[string]*regexp.Regexp
}

var compiledGenerics = &genericCache{m: make(map[string]*regexp.Regexp)}

func (c *genericCache) get(pattern string) (*regexp.Regexp, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	re, ok := c.m[pattern]
	return re, ok
}

func (c *genericCache) put(pattern string, re *regexp.Regexp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[pattern] = re
}

// CompileGeneric translates a generic pattern and compiles it anchored at the
// start, so it matches candidate values from their beginning.
func CompileGeneric(pattern string) (*regexp.Regexp, error) {
	if re, ok := compiledGenerics.get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + GenericToRegex(pattern) + ")")
	if err != nil {
		return nil, err
	}
	compiledGenerics.put(pattern, re)
	return re, nil
}

// MatchGeneric reports whether a generic pattern matches a concrete value.
func MatchGeneric(pattern, value string) bool {
	re, err := CompileGeneric(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// isGeneric reports whether a value contains generic wildcard characters.
func isGeneric(value string) bool {
	return strings.ContainsAny(value, "*%")
}
