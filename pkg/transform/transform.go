// Package transform applies the transform rules attached to registered types
// when converting between instances and plain maps.
package transform

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-mappedtypes/pkg/metadata"
)

// Attach registers fn on token's field.
func Attach(reg *metadata.Registry, token metadata.Token, field string, fn metadata.TransformFunc, opts ...metadata.TransformOptions) error {
	rule := metadata.TransformRule{Type: token, Field: field, Fn: fn}
	if len(opts) > 0 {
		rule.Options = opts[0]
	}
	return reg.AddTransform(rule)
}

// MustAttach panics when Attach fails.
func MustAttach(reg *metadata.Registry, token metadata.Token, field string, fn metadata.TransformFunc, opts ...metadata.TransformOptions) {
	if err := Attach(reg, token, field, fn, opts...); err != nil {
		panic(err)
	}
}

// InstanceToInstance returns a copy of inst with every applicable transform
// applied. The source instance is not modified.
func InstanceToInstance(ctx context.Context, reg *metadata.Registry, inst *metadata.Instance) (*metadata.Instance, error) {
	if inst == nil {
		return nil, fmt.Errorf("transform: instance is nil")
	}
	out := inst.Clone()
	if err := apply(ctx, reg, inst.Type(), inst, out, metadata.DirectionInstanceToInstance); err != nil {
		return nil, err
	}
	return out, nil
}

// InstanceToPlain converts inst into a plain map, applying transforms that run
// on the outbound direction.
func InstanceToPlain(ctx context.Context, reg *metadata.Registry, inst *metadata.Instance) (map[string]any, error) {
	if inst == nil {
		return nil, fmt.Errorf("transform: instance is nil")
	}
	out := inst.Clone()
	if err := apply(ctx, reg, inst.Type(), inst, out, metadata.DirectionInstanceToPlain); err != nil {
		return nil, err
	}
	return out.Map(), nil
}

// PlainToInstance constructs an instance of token, overlays plain values and
// applies inbound transforms. Declared fields are assigned in declaration
// order, any remaining keys in sorted order.
func PlainToInstance(ctx context.Context, reg *metadata.Registry, token metadata.Token, plain map[string]any) (*metadata.Instance, error) {
	inst, err := reg.New(token)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	fields, err := reg.Fields(token)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	for _, key := range orderedKeys(fields, plain) {
		inst.Set(key, plain[key])
	}
	if err := apply(ctx, reg, token, inst, inst, metadata.DirectionPlainToInstance); err != nil {
		return nil, err
	}
	return inst, nil
}

func apply(ctx context.Context, reg *metadata.Registry, token metadata.Token, src, dst *metadata.Instance, dir metadata.Direction) error {
	rules, err := reg.Transforms(token)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !rule.Options.Applies(dir) {
			continue
		}
		value, ok := dst.Get(rule.Field)
		if !ok {
			continue
		}
		dst.Set(rule.Field, rule.Fn(metadata.TransformParams{
			Value:     value,
			Key:       rule.Field,
			Object:    src,
			Direction: dir,
		}))
	}
	return nil
}

func orderedKeys(declared []string, plain map[string]any) []string {
	out := make([]string, 0, len(plain))
	seen := make(map[string]struct{}, len(plain))
	for _, name := range declared {
		if _, ok := plain[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	var rest []string
	for key := range plain {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
