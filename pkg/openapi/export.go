package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// TokenExtension carries the registry token on exported schemas.
const TokenExtension = "x-mapped-token"

// SchemaFor builds an object schema for token.
func SchemaFor(reg *metadata.Registry, token metadata.Token) (*openapi3.Schema, error) {
	def, err := reg.Type(token)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}
	fields, err := reg.Fields(token)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}
	rules, err := reg.Validations(token)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}
	defaults := metadata.NewInstance(token)
	if err := reg.Construct(token, defaults); err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Title:      def.Name,
		Properties: make(openapi3.Schemas, len(fields)),
		Extensions: map[string]any{TokenExtension: token.String()},
	}
	for _, field := range fields {
		var own []metadata.ValidationRule
		for _, rule := range rules {
			if rule.Field == field {
				own = append(own, rule)
			}
		}
		property := propertySchema(own)
		if value, ok := defaults.Get(field); ok && value != nil {
			property.Default = value
		}
		schema.Properties[field] = openapi3.NewSchemaRef("", property)
		if !validation.IsOptionalField(own, field) {
			schema.Required = append(schema.Required, field)
		}
	}
	return schema, nil
}

// Components exports tokens keyed by their registered names.
func Components(reg *metadata.Registry, tokens ...metadata.Token) (openapi3.Schemas, error) {
	out := make(openapi3.Schemas, len(tokens))
	for _, token := range tokens {
		schema, err := SchemaFor(reg, token)
		if err != nil {
			return nil, err
		}
		if _, dup := out[schema.Title]; dup {
			return nil, fmt.Errorf("openapi: duplicate component name %q", schema.Title)
		}
		out[schema.Title] = openapi3.NewSchemaRef("", schema)
	}
	return out, nil
}

// DocumentInfo labels a generated document.
type DocumentInfo struct {
	Title   string
	Version string
}

// Document builds and validates an OpenAPI document whose components hold the
// exported tokens.
func Document(ctx context.Context, reg *metadata.Registry, info DocumentInfo, tokens ...metadata.Token) (*openapi3.T, error) {
	if strings.TrimSpace(info.Title) == "" {
		return nil, errors.New("openapi: document title is required")
	}
	if info.Version == "" {
		info.Version = "0.0.0"
	}
	schemas, err := Components(reg, tokens...)
	if err != nil {
		return nil, err
	}
	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: info.Title, Version: info.Version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

func propertySchema(rules []metadata.ValidationRule) *openapi3.Schema {
	scalar := &openapi3.Schema{}
	each, notEmpty := false, false
	for _, rule := range rules {
		switch rule.Kind {
		case validation.KindIsString:
			scalar.Type = &openapi3.Types{openapi3.TypeString}
		case validation.KindIsInt:
			scalar.Type = &openapi3.Types{openapi3.TypeInteger}
		case validation.KindIsNumber:
			scalar.Type = &openapi3.Types{openapi3.TypeNumber}
		case validation.KindIsBoolean:
			scalar.Type = &openapi3.Types{openapi3.TypeBoolean}
		case validation.KindMinLength:
			if n, err := strconv.ParseUint(rule.Params["min"], 10, 64); err == nil {
				scalar.MinLength = n
			}
		case validation.KindMaxLength:
			if n, err := strconv.ParseUint(rule.Params["max"], 10, 64); err == nil {
				scalar.MaxLength = &n
			}
		case validation.KindMatches:
			scalar.Pattern = rule.Params["pattern"]
		case validation.KindIsIn:
			for _, value := range strings.Split(rule.Params["values"], ",") {
				scalar.Enum = append(scalar.Enum, strings.TrimSpace(value))
			}
		case validation.KindIsNotEmpty:
			notEmpty = true
		default:
			continue
		}
		if rule.Each {
			each = true
		}
	}
	if notEmpty && scalar.MinLength == 0 && scalar.Type != nil && scalar.Type.Is(openapi3.TypeString) {
		scalar.MinLength = 1
	}
	if !each {
		return scalar
	}
	return &openapi3.Schema{
		Type:  &openapi3.Types{openapi3.TypeArray},
		Items: openapi3.NewSchemaRef("", scalar),
	}
}
