// Package reduce implements the generalized reducer/match driver: one
// state machine (Drive) that pulls an upstream suspendable iterator and
// folds it through an Accumulator, used for
// reduce, sum, avg, min, max, join, groupBy and transpose; and a second,
// simpler driver (Match) for the short-circuiting allMatch/anyMatch/
// noneMatch family.
//
// Both drivers follow the same resumable pull-then-apply shape the iter
// package's drainer uses, generalized to let the per-kind behavior live
// in a small Accumulator value rather than a new state machine per
// terminal operation — grounded on the same upstream pull convention
// (HasNext/Next suspend, the driver loop resumes via cont.Propagate).
package reduce
