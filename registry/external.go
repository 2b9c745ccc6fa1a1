package registry

// PatternCache and FormatterCache name the two per-thread caches a host
// embeds this runtime to avoid cross-fiber contention: a compiled-regex
// cache backing value.RegexMatcher's pattern lookups, and a parsed-layout
// cache backing date/time formatting builtins. Both are external
// collaborators — the regex engine and date/time library themselves are
// named out of scope — so only their contract is declared here; a host
// wires a concrete implementation (e.g. one sync.Map keyed by
// goroutine id, populated lazily) in behind these interfaces.
type PatternCache interface {
	// CompiledPattern returns a cached compiled pattern for source, compiling
	// and caching it on first use.
	CompiledPattern(source string) (any, error)
}

type FormatterCache interface {
	// CompiledFormatter returns a cached parsed date/time layout for
	// layout, parsing and caching it on first use.
	CompiledFormatter(layout string) (any, error)
}
