// Package mappedtypes derives DTO variants from registered types without
// redeclaring their fields. The helpers here operate on the process-wide
// registry returned by metadata.Default; use pkg/mapped directly to work with
// an isolated registry.
package mappedtypes

import (
	"context"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// Register adds a type to the process-wide registry.
func Register(def metadata.TypeDef) (metadata.Token, error) {
	return metadata.Default().Register(def)
}

// RequiredType derives a variant of source where every field is mandatory.
func RequiredType(source metadata.Token, options ...mapped.Option) (metadata.Token, error) {
	return mapped.New(metadata.Default(), options...).Required(source)
}

// PartialType derives a variant of source where every field is optional.
func PartialType(source metadata.Token, options ...mapped.Option) (metadata.Token, error) {
	return mapped.New(metadata.Default(), options...).Partial(source)
}

// PickType derives a variant of source limited to fields.
func PickType(source metadata.Token, fields []string, options ...mapped.Option) (metadata.Token, error) {
	return mapped.New(metadata.Default(), options...).Pick(source, fields...)
}

// OmitType derives a variant of source without fields.
func OmitType(source metadata.Token, fields []string, options ...mapped.Option) (metadata.Token, error) {
	return mapped.New(metadata.Default(), options...).Omit(source, fields...)
}

// New constructs an instance from the process-wide registry.
func New(token metadata.Token) (*metadata.Instance, error) {
	return metadata.Default().New(token)
}

// Validate validates inst against the process-wide registry.
func Validate(ctx context.Context, inst *metadata.Instance) ([]validation.ValidationError, error) {
	return validation.Validate(ctx, metadata.Default(), inst)
}

// InstanceToInstance applies transforms registered in the process-wide registry.
func InstanceToInstance(ctx context.Context, inst *metadata.Instance) (*metadata.Instance, error) {
	return transform.InstanceToInstance(ctx, metadata.Default(), inst)
}
