package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

// Validate checks inst against every rule visible on its type. Failures are
// grouped per property in the order the property's first rule appears.
// Properties marked optional are skipped when their value is absent or nil.
func Validate(ctx context.Context, reg *metadata.Registry, inst *metadata.Instance) ([]ValidationError, error) {
	if inst == nil {
		return nil, fmt.Errorf("validation: instance is nil")
	}
	rules, err := reg.Validations(inst.Type())
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	var out []ValidationError
	for _, group := range groupByField(rules) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, _ := inst.Get(group.field)
		failed, err := checkField(group.field, value, group.rules)
		if err != nil {
			return nil, err
		}
		if failed != nil {
			out = append(out, *failed)
		}
	}
	return out, nil
}

// ValidateField checks a single value against the rules token carries for
// field. It returns nil or an Errors value.
func ValidateField(reg *metadata.Registry, token metadata.Token, field string, value any) error {
	rules, err := reg.Validations(token)
	if err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	var own []metadata.ValidationRule
	for _, rule := range rules {
		if rule.Field == field {
			own = append(own, rule)
		}
	}
	failed, err := checkField(field, value, own)
	if err != nil {
		return err
	}
	if failed == nil {
		return nil
	}
	return Errors{*failed}
}

type fieldRules struct {
	field string
	rules []metadata.ValidationRule
}

func groupByField(rules []metadata.ValidationRule) []fieldRules {
	var (
		out   []fieldRules
		index = make(map[string]int)
	)
	for _, rule := range rules {
		idx, ok := index[rule.Field]
		if !ok {
			idx = len(out)
			index[rule.Field] = idx
			out = append(out, fieldRules{field: rule.Field})
		}
		out[idx].rules = append(out[idx].rules, rule)
	}
	return out
}

func checkField(field string, value any, rules []metadata.ValidationRule) (*ValidationError, error) {
	if value == nil && IsOptionalField(rules, field) {
		return nil, nil
	}

	constraints := make(map[string]string)
	for _, rule := range rules {
		if rule.Kind == KindIsOptional {
			continue
		}
		checker, ok := lookupKind(rule.Kind)
		if !ok {
			return nil, fmt.Errorf("validation: field %q: unknown rule kind %q", field, rule.Kind)
		}
		if passes(checker, rule, value) {
			continue
		}
		if _, seen := constraints[rule.Kind]; seen {
			continue
		}
		constraints[rule.Kind] = render(checker, rule, field, value)
	}
	if len(constraints) == 0 {
		return nil, nil
	}
	return &ValidationError{Property: field, Value: value, Constraints: constraints}, nil
}

func passes(checker Checker, rule metadata.ValidationRule, value any) bool {
	if !rule.Each {
		return checker.Check(value, rule.Params)
	}
	items, ok := value.([]any)
	if !ok {
		if strs, isStrings := value.([]string); isStrings {
			for _, s := range strs {
				if !checker.Check(s, rule.Params) {
					return false
				}
			}
			return true
		}
		return checker.Check(value, rule.Params)
	}
	for _, item := range items {
		if !checker.Check(item, rule.Params) {
			return false
		}
	}
	return true
}

func render(checker Checker, rule metadata.ValidationRule, field string, value any) string {
	template := rule.Message
	if template == "" {
		template = checker.Message
	}
	if rule.Each {
		template = strings.Replace(template, "$property", "each value in $property", 1)
	}
	constraint := ""
	if checker.Param != "" {
		constraint = rule.Params[checker.Param]
	}
	replacer := strings.NewReplacer(
		"$property", field,
		"$value", fmt.Sprint(value),
		"$constraint1", constraint,
	)
	return replacer.Replace(template)
}
