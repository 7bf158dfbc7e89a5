package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
	"github.com/goliatone/go-mappedtypes/pkg/validation"
)

// Fill prompts for every field token exposes and returns the populated
// instance. Construction defaults seed the prompts; optional fields accept an
// empty answer and are left unset. Each answer is checked with the field's
// validation rules before it is accepted.
func Fill(ctx context.Context, reg *metadata.Registry, token metadata.Token, driver PromptDriver) (*metadata.Instance, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}
	def, err := reg.Type(token)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	fields, err := reg.Fields(token)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	rules, err := reg.Validations(token)
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	inst := metadata.NewInstance(token)
	if err := reg.Construct(token, inst); err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	if err := driver.Info(ctx, def.Name); err != nil {
		return nil, err
	}

	for _, name := range fields {
		f := newField(name, rules)
		current, _ := inst.Get(name)
		value, set, err := f.ask(ctx, reg, token, driver, current)
		if err != nil {
			return nil, err
		}
		if !set {
			inst.Delete(name)
			continue
		}
		inst.Set(name, value)
	}
	return inst, nil
}

// skipOption leads the choices of optional enumerated fields.
const skipOption = "(none)"

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindNumber
	kindBool
)

type field struct {
	name     string
	kind     fieldKind
	optional bool
	each     bool
	choices  []string
}

func newField(name string, rules []metadata.ValidationRule) field {
	f := field{name: name}
	for _, rule := range rules {
		if rule.Field != name {
			continue
		}
		if rule.Each {
			f.each = true
		}
		switch rule.Kind {
		case validation.KindIsOptional:
			f.optional = true
		case validation.KindIsInt:
			f.kind = kindInt
		case validation.KindIsNumber:
			f.kind = kindNumber
		case validation.KindIsBoolean:
			f.kind = kindBool
		case validation.KindIsIn:
			if !rule.Each {
				for _, v := range strings.Split(rule.Params["values"], ",") {
					f.choices = append(f.choices, strings.TrimSpace(v))
				}
			}
		}
	}
	return f
}

func (f field) help() string {
	if f.optional {
		return "optional, leave empty to skip"
	}
	return ""
}

func (f field) ask(ctx context.Context, reg *metadata.Registry, token metadata.Token, driver PromptDriver, current any) (any, bool, error) {
	switch {
	case f.kind == kindBool && !f.each:
		def, _ := current.(bool)
		ok, err := driver.Confirm(ctx, ConfirmConfig{Message: f.name, Default: def, Help: f.help()})
		return ok, err == nil, err
	case len(f.choices) > 0:
		options := f.choices
		if f.optional {
			options = append([]string{skipOption}, options...)
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      f.name,
			Options:      options,
			DefaultIndex: max(indexOf(options, stringify(current)), 0),
			Help:         f.help(),
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, false, fmt.Errorf("prompt: field %q: invalid selection %d", f.name, idx)
		}
		if options[idx] == skipOption {
			return nil, false, nil
		}
		return options[idx], true, nil
	}

	cfg := InputConfig{
		Message: f.name,
		Default: stringify(current),
		Help:    f.help(),
		Validator: func(answer string) error {
			value, set, err := f.parse(answer)
			if err != nil {
				return err
			}
			if !set {
				value = nil
			}
			return validation.ValidateField(reg, token, f.name, value)
		},
	}
	ask := driver.Input
	if strings.Contains(strings.ToLower(f.name), "password") {
		cfg.Default = ""
		ask = driver.Password
	}
	answer, err := ask(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	if err := cfg.Validator(answer); err != nil {
		return nil, false, fmt.Errorf("prompt: field %q: %w", f.name, err)
	}
	return f.parse(answer)
}

// parse converts raw answers into the value shape the field's rules expect.
// An empty answer on an optional field reports set=false.
func (f field) parse(answer string) (any, bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" && f.optional {
		return nil, false, nil
	}
	if f.each {
		var items []any
		for _, part := range strings.Split(answer, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			item, err := f.scalar(part)
			if err != nil {
				return nil, false, err
			}
			items = append(items, item)
		}
		return items, true, nil
	}
	value, err := f.scalar(answer)
	return value, err == nil, err
}

func (f field) scalar(raw string) (any, error) {
	switch f.kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer number", f.name)
		}
		return n, nil
	case kindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", f.name)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean value", f.name)
		}
		return b, nil
	}
	return raw, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	}
	return fmt.Sprint(v)
}
