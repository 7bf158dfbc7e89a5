// Package mapped derives new types from registered ones by re-pointing their
// metadata. Required strips the optional marker from every field, Partial adds
// it, and Pick/Omit narrow the field set. Derived types are abstract, carry no
// parents, and get a fresh token on every call, so repeated derivation never
// overwrites earlier registrations.
package mapped
