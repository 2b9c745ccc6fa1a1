// Package registry implements method/function dispatch: registerMethod,
// registerFunction, lookupMethod, the Flags bitmask describing a
// registered callable's calling convention (AsyncInstance, AsyncParams,
// NeedsLocation, VarArgs), and positional/named argument binding.
//
// The registry is process-wide and lazily initialized with sync.Once,
// the same pattern used elsewhere in this module for one-time global
// setup.
package registry
