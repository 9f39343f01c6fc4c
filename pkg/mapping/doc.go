// Package mapping maintains the lookup tables that connect Python import
// names to declared package names.
//
// A Table carries three dictionaries:
//   - package mappings: import name → declared package name (many-to-one)
//   - runtime dependencies: declared name → packages it implicitly requires
//   - package extras: declared name → recommended extras (advisory only)
//
// Tables are built by layering: compiled-in defaults, then a persisted
// config (typically generated from registry metadata), then user overrides.
// Later layers win key-by-key; the defaults themselves are never mutated.
// Every key and value is normalized on the way in, so match-time lookups
// never re-normalize.
package mapping
