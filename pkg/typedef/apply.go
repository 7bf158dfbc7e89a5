package typedef

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-mappedtypes/pkg/mapped"
	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/transform"
)

// Catalog maps declared names to the tokens Apply registered.
type Catalog struct {
	tokens  map[string]metadata.Token
	derived map[string]metadata.Token
}

// Token returns the token registered for name.
func (c *Catalog) Token(name string) (metadata.Token, bool) {
	if c == nil {
		return "", false
	}
	token, ok := c.tokens[name]
	return token, ok
}

// Derived returns the abstract mapped type behind a derive entry.
func (c *Catalog) Derived(name string) (metadata.Token, bool) {
	if c == nil {
		return "", false
	}
	token, ok := c.derived[name]
	return token, ok
}

// Names returns the declared names, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.tokens))
	for name := range c.tokens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply registers the document's types in order, then performs derivations
// with gen. Parents and derive sources resolve against earlier entries first
// and the registry second.
func (d *Document) Apply(ctx context.Context, reg *metadata.Registry, gen *mapped.Generator) (*Catalog, error) {
	if gen == nil {
		gen = mapped.New(reg)
	}
	if gen.Registry() != reg {
		return nil, fmt.Errorf("typedef: generator is bound to a different registry")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		tokens:  make(map[string]metadata.Token),
		derived: make(map[string]metadata.Token),
	}
	resolve := func(name string) (metadata.Token, error) {
		if token, ok := catalog.tokens[name]; ok {
			return token, nil
		}
		if token, ok := reg.Lookup(name); ok {
			return token, nil
		}
		return "", fmt.Errorf("typedef: type %q: %w", name, metadata.ErrTypeNotFound)
	}

	for _, spec := range d.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token, err := registerType(reg, spec, resolve)
		if err != nil {
			return nil, err
		}
		catalog.tokens[spec.Name] = token
	}

	for _, spec := range d.Derive {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source, err := resolve(spec.Source)
		if err != nil {
			return nil, fmt.Errorf("typedef: derive %q: %w", spec.Name, err)
		}
		derived, err := derive(gen, spec, source)
		if err != nil {
			return nil, fmt.Errorf("typedef: derive %q: %w", spec.Name, err)
		}
		token, err := reg.Register(metadata.TypeDef{Name: spec.Name, Parents: []metadata.Token{derived}})
		if err != nil {
			return nil, fmt.Errorf("typedef: derive %q: %w", spec.Name, err)
		}
		catalog.derived[spec.Name] = derived
		catalog.tokens[spec.Name] = token
	}
	return catalog, nil
}

func derive(gen *mapped.Generator, spec DeriveSpec, source metadata.Token) (metadata.Token, error) {
	switch spec.Mapping {
	case MappingRequired:
		return gen.Required(source)
	case MappingPartial:
		return gen.Partial(source)
	case MappingPick:
		return gen.Pick(source, spec.Fields...)
	case MappingOmit:
		return gen.Omit(source, spec.Fields...)
	default:
		return "", fmt.Errorf("unknown mapping %q", spec.Mapping)
	}
}

func registerType(reg *metadata.Registry, spec TypeSpec, resolve func(string) (metadata.Token, error)) (metadata.Token, error) {
	def := metadata.TypeDef{Name: spec.Name, Abstract: spec.Abstract}
	for _, parent := range spec.Extends {
		token, err := resolve(parent)
		if err != nil {
			return "", fmt.Errorf("typedef: %s extends %s: %w", spec.Name, parent, err)
		}
		def.Parents = append(def.Parents, token)
	}
	for _, field := range spec.Fields {
		fd := metadata.FieldDef{Name: field.Name}
		if field.Default != nil {
			fd.Default = staticCopy(field.Default)
		}
		def.Fields = append(def.Fields, fd)
	}

	token, err := reg.Register(def)
	if err != nil {
		return "", fmt.Errorf("typedef: %w", err)
	}

	for _, field := range spec.Fields {
		for _, rule := range field.Validate {
			if err := reg.AddValidation(metadata.ValidationRule{
				Type:    token,
				Field:   field.Name,
				Kind:    rule.Kind,
				Params:  rule.Params,
				Message: rule.Message,
				Each:    rule.Each,
			}); err != nil {
				return "", fmt.Errorf("typedef: %s.%s: %w", spec.Name, field.Name, err)
			}
		}
		for _, ts := range field.Transform {
			fn, err := transform.Lookup(ts.Name, ts.Params)
			if err != nil {
				return "", fmt.Errorf("typedef: %s.%s: %w", spec.Name, field.Name, err)
			}
			if err := reg.AddTransform(metadata.TransformRule{
				Type:  token,
				Field: field.Name,
				Fn:    fn,
				Options: metadata.TransformOptions{
					ToInstanceOnly: ts.ToInstanceOnly,
					ToPlainOnly:    ts.ToPlainOnly,
				},
			}); err != nil {
				return "", fmt.Errorf("typedef: %s.%s: %w", spec.Name, field.Name, err)
			}
		}
	}
	return token, nil
}

// staticCopy returns a DefaultFunc yielding a fresh copy of value so instances
// never share decoded maps or slices.
func staticCopy(value any) metadata.DefaultFunc {
	return func(*metadata.Instance) any {
		return copyValue(value)
	}
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
