package mapped

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

// Name prefixes for derived types. They only affect diagnostics.
const (
	RequiredPrefix = "Required"
	PartialPrefix  = "Partial"
	PickPrefix     = "Pick"
	OmitPrefix     = "Omit"
)

// Generator derives mapped types within one registry. The optional-marker
// predicate is resolved once in New.
type Generator struct {
	registry       *metadata.Registry
	logger         *slog.Logger
	filterOptional bool
	optionalKind   string
	markerActive   bool
}

// New builds a Generator. A nil registry selects metadata.Default().
func New(reg *metadata.Registry, options ...Option) *Generator {
	g := defaultGenerator()
	if reg == nil {
		reg = metadata.Default()
	}
	g.registry = reg
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&g)
	}

	switch {
	case !g.filterOptional:
		g.logger.Info("optional-field filtering disabled; mapped types copy validation rules unfiltered")
	case g.optionalKind == "":
		g.logger.Warn("optional marker kind unavailable; mapped types copy validation rules unfiltered")
	default:
		g.markerActive = true
	}
	return &g
}

// Registry returns the registry the generator writes to.
func (g *Generator) Registry() *metadata.Registry {
	return g.registry
}

// OptionalFilteringActive reports whether the optional marker is resolved and
// filtering is enabled.
func (g *Generator) OptionalFilteringActive() bool {
	return g.markerActive
}

// Required derives a type from source where every field is mandatory. All
// validation rules are copied except those whose kind is the optional marker;
// transforms and initializers are copied unchanged.
func (g *Generator) Required(source metadata.Token) (metadata.Token, error) {
	return g.derive(source, RequiredPrefix, allFields, func(rule metadata.ValidationRule) bool {
		return !g.markerActive || rule.Kind != g.optionalKind
	})
}

// Partial derives a type from source where every validated field is optional.
func (g *Generator) Partial(source metadata.Token) (metadata.Token, error) {
	derived, err := g.derive(source, PartialPrefix, allFields, keepRule)
	if err != nil {
		return "", err
	}
	if !g.markerActive {
		return derived, nil
	}

	rules := g.registry.OwnValidations(derived)
	var marked []string
	seen := make(map[string]struct{})
	for _, rule := range rules {
		if _, ok := seen[rule.Field]; ok {
			continue
		}
		seen[rule.Field] = struct{}{}
		if hasKind(rules, rule.Field, g.optionalKind) {
			continue
		}
		marked = append(marked, rule.Field)
	}
	for _, field := range marked {
		if err := g.registry.AddValidation(metadata.ValidationRule{
			Type:  derived,
			Field: field,
			Kind:  g.optionalKind,
		}); err != nil {
			return "", err
		}
	}
	return derived, nil
}

// Pick derives a type from source restricted to fields.
func (g *Generator) Pick(source metadata.Token, fields ...string) (metadata.Token, error) {
	set := fieldSet(fields)
	return g.derive(source, PickPrefix, func(name string) bool {
		_, ok := set[name]
		return ok
	}, keepRule)
}

// Omit derives a type from source without fields.
func (g *Generator) Omit(source metadata.Token, fields ...string) (metadata.Token, error) {
	set := fieldSet(fields)
	return g.derive(source, OmitPrefix, func(name string) bool {
		_, ok := set[name]
		return !ok
	}, keepRule)
}

func (g *Generator) derive(source metadata.Token, prefix string, inherited fieldPredicate, keep rulePredicate) (metadata.Token, error) {
	def, err := g.registry.Type(source)
	if err != nil {
		return "", err
	}
	names, err := g.registry.Fields(source)
	if err != nil {
		return "", err
	}

	fields := make([]metadata.FieldDef, 0, len(names))
	for _, name := range names {
		if inherited(name) {
			fields = append(fields, metadata.FieldDef{Name: name})
		}
	}

	derived, err := g.registry.Register(metadata.TypeDef{
		Name:         prefix + def.Name,
		Fields:       fields,
		Initializers: []metadata.Initializer{g.inheritInitializers(source, inherited)},
		Abstract:     true,
	})
	if err != nil {
		return "", fmt.Errorf("mapped: register %s%s: %w", prefix, def.Name, err)
	}

	validations, err := g.inheritValidations(source, derived, inherited, keep)
	if err != nil {
		return "", err
	}
	transforms, err := g.inheritTransforms(source, derived, inherited)
	if err != nil {
		return "", err
	}

	g.logger.Debug("derived mapped type",
		slog.String("source", def.Name),
		slog.String("derived", prefix+def.Name),
		slog.String("token", derived.String()),
		slog.Int("validations", validations),
		slog.Int("transforms", transforms),
	)
	return derived, nil
}

func fieldSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func hasKind(rules []metadata.ValidationRule, field, kind string) bool {
	for _, rule := range rules {
		if rule.Field == field && rule.Kind == kind {
			return true
		}
	}
	return false
}

// Required derives a required variant of source with default options.
func Required(reg *metadata.Registry, source metadata.Token) (metadata.Token, error) {
	return New(reg).Required(source)
}
