// Package match reconciles declared requirements against the imports found
// in a source tree.
//
// The engine partitions every requirement into used or unused (never both)
// and every non-stdlib, non-relative import root into matched or unmatched.
// Matching is by normalized name identity only; version specifiers are
// carried through to output and never evaluated. The computation is a
// single in-memory pass with no I/O and is deterministic regardless of the
// order import records arrive.
package match
