package metadata

import (
	"github.com/google/uuid"
)

// Token identifies a registered type. Tokens are opaque; callers compare them
// but never parse them.
type Token string

// NewToken returns a fresh, unique token.
func NewToken() Token {
	return Token(uuid.NewString())
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return string(t)
}

// DefaultFunc computes a field's initial value during construction. It may
// read fields that were assigned before it. A nil result leaves the field
// unset.
type DefaultFunc func(inst *Instance) any

// Static returns a DefaultFunc that always yields value.
func Static(value any) DefaultFunc {
	return func(*Instance) any {
		return value
	}
}

// Initializer runs after field defaults as part of a type's construction.
type Initializer func(inst *Instance)

// FieldDef declares a field on a type.
type FieldDef struct {
	Name    string
	Default DefaultFunc
}

// TypeDef describes a type to register. Parents are listed closest-first.
type TypeDef struct {
	Token        Token
	Name         string
	Parents      []Token
	Fields       []FieldDef
	Initializers []Initializer
	// Abstract types only run as ancestors of other types.
	Abstract bool
}

// ValidationRule is a single validation constraint attached to a field. Kind
// is compared by identity so generators can filter exact rule kinds.
type ValidationRule struct {
	Type    Token             `json:"type"`
	Field   string            `json:"field"`
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message,omitempty"`
	// Each applies the rule to every element of a slice value.
	Each bool `json:"each,omitempty"`
}

// WithTarget returns a copy of the rule keyed against another type.
func (r ValidationRule) WithTarget(token Token) ValidationRule {
	out := r
	out.Type = token
	out.Params = cloneParams(r.Params)
	return out
}

// TransformOptions restricts when a transform applies.
type TransformOptions struct {
	ToInstanceOnly bool `json:"toInstanceOnly,omitempty"`
	ToPlainOnly    bool `json:"toPlainOnly,omitempty"`
}

// TransformParams is passed to a TransformFunc.
type TransformParams struct {
	Value     any
	Key       string
	Object    *Instance
	Direction Direction
}

// TransformFunc maps a field value.
type TransformFunc func(params TransformParams) any

// TransformRule attaches a value mapping to a field. The function is opaque to
// the registry.
type TransformRule struct {
	Type    Token
	Field   string
	Fn      TransformFunc
	Options TransformOptions
}

// WithTarget returns a copy of the rule keyed against another type.
func (r TransformRule) WithTarget(token Token) TransformRule {
	out := r
	out.Type = token
	return out
}

// Direction names the conversion a transform runs under.
type Direction int

const (
	DirectionPlainToInstance Direction = iota + 1
	DirectionInstanceToPlain
	DirectionInstanceToInstance
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case DirectionPlainToInstance:
		return "plainToInstance"
	case DirectionInstanceToPlain:
		return "instanceToPlain"
	case DirectionInstanceToInstance:
		return "instanceToInstance"
	default:
		return "unknown"
	}
}

// Applies reports whether a transform with these options runs under d.
func (o TransformOptions) Applies(d Direction) bool {
	switch {
	case o.ToInstanceOnly && o.ToPlainOnly:
		return true
	case o.ToInstanceOnly:
		return d == DirectionPlainToInstance || d == DirectionInstanceToInstance
	case o.ToPlainOnly:
		return d == DirectionInstanceToPlain
	default:
		return true
	}
}

func cloneParams(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
