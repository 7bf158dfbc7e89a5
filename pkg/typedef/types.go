// Package typedef loads declarative type definitions from JSON or YAML and
// registers them, including mapped type derivations, in a metadata registry.
package typedef

// Mapping names accepted in derive entries.
const (
	MappingRequired = "required"
	MappingPartial  = "partial"
	MappingPick     = "pick"
	MappingOmit     = "omit"
)

// Document is the merged content of one or more definition files.
type Document struct {
	Types  []TypeSpec   `json:"types" yaml:"types"`
	Derive []DeriveSpec `json:"derive" yaml:"derive"`
}

// TypeSpec declares a type. Extends lists parent names closest-first.
type TypeSpec struct {
	Name     string      `json:"name" yaml:"name"`
	Extends  []string    `json:"extends,omitempty" yaml:"extends,omitempty"`
	Abstract bool        `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Fields   []FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty"`

	source string
}

// FieldSpec declares a field with its default and attached rules.
type FieldSpec struct {
	Name      string          `json:"name" yaml:"name"`
	Default   any             `json:"default,omitempty" yaml:"default,omitempty"`
	Validate  []RuleSpec      `json:"validate,omitempty" yaml:"validate,omitempty"`
	Transform []TransformSpec `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// RuleSpec mirrors metadata.ValidationRule.
type RuleSpec struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Each    bool              `json:"each,omitempty" yaml:"each,omitempty"`
}

// TransformSpec references a named transform from the transform catalog.
type TransformSpec struct {
	Name           string            `json:"name" yaml:"name"`
	Params         map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	ToInstanceOnly bool              `json:"toInstanceOnly,omitempty" yaml:"toInstanceOnly,omitempty"`
	ToPlainOnly    bool              `json:"toPlainOnly,omitempty" yaml:"toPlainOnly,omitempty"`
}

// DeriveSpec derives Source through Mapping and registers the result's
// concrete subtype under Name.
type DeriveSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Mapping string   `json:"mapping" yaml:"mapping"`
	Source  string   `json:"source" yaml:"source"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty"`

	source string
}
