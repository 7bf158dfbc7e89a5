// Package metadata holds the type registry that validation and transformation
// rules hang off. Types are registered under opaque tokens, rules are attached
// to (token, field) pairs, and instances are map-backed values constructed
// through the registry so defaults and initializers run the same way for
// declared and derived types.
//
// Ancestor chains are explicit: a TypeDef lists its parent tokens. Reads that
// flatten a chain (Validations, Transforms, Fields) walk it closest-first, the
// type's own declarations before those of its parents. Construction runs the
// other way round, root-first, so a parent's defaults are in place before a
// child's initializers observe them.
package metadata
