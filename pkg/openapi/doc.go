// Package openapi exports registered types as OpenAPI 3 component schemas.
// Property types and constraints come from validation rules, defaults from a
// constructed instance, and the required list from the absence of the
// optional marker, so a required mapped type exports every field as required.
package openapi
