package registry

// Flags is the bitmask describing a registered callable's calling
// convention.
type Flags uint8

const (
	// AsyncInstance marks a method whose receiver instance may itself be
	// suspendable (the receiver expression's evaluation can suspend).
	AsyncInstance Flags = 1 << iota
	// AsyncParams marks a function where at least one parameter's
	// async-ness infects the call as a whole; see Handle.AsyncParamIdx
	// for which ones.
	AsyncParams
	// NeedsLocation marks an Impl that wants the caller's source text and
	// offset passed through rather than zero values.
	NeedsLocation
	// VarArgs marks the final declared Param as a trailing variadic
	// collector, bound as a List per the binding rules.
	VarArgs
)

// Has reports whether flag is set.
func (f Flags) Has(flag Flags) bool { return f&flag != 0 }
