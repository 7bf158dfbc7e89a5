package mapped

import (
	"log/slog"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

type (
	fieldPredicate func(name string) bool
	rulePredicate  func(rule metadata.ValidationRule) bool
)

func allFields(string) bool { return true }

func keepRule(metadata.ValidationRule) bool { return true }

// inheritInitializers returns an initializer that re-runs source's
// construction on a scratch instance and copies every defined value the
// predicate accepts. Dynamic defaults are evaluated per construction.
func (g *Generator) inheritInitializers(source metadata.Token, inherited fieldPredicate) metadata.Initializer {
	return func(inst *metadata.Instance) {
		scratch := metadata.NewInstance(source)
		if err := g.registry.Construct(source, scratch); err != nil {
			g.logger.Error("construct source type", slog.String("token", source.String()), slog.Any("error", err))
			return
		}
		for _, key := range scratch.Keys() {
			if !inherited(key) {
				continue
			}
			value, _ := scratch.Get(key)
			if value == nil {
				continue
			}
			inst.Set(key, value)
		}
	}
}

func (g *Generator) inheritValidations(source, target metadata.Token, inherited fieldPredicate, keep rulePredicate) (int, error) {
	rules, err := g.registry.Validations(source)
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, rule := range rules {
		if !inherited(rule.Field) || !keep(rule) {
			continue
		}
		if err := g.registry.AddValidation(rule.WithTarget(target)); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func (g *Generator) inheritTransforms(source, target metadata.Token, inherited fieldPredicate) (int, error) {
	rules, err := g.registry.Transforms(source)
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, rule := range rules {
		if !inherited(rule.Field) {
			continue
		}
		if err := g.registry.AddTransform(rule.WithTarget(target)); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}
