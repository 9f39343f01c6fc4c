// Package pyscan extracts top-level imported module names from Python
// source files.
//
// Extraction works by case analysis over logical source lines (plain
// import, from-import, aliased, comma and parenthesized multi-name,
// relative). It deliberately does no control-flow analysis: imports inside
// try/except or if blocks are extracted like any other, which
// over-approximates optional dependencies. Source is never executed.
package pyscan
