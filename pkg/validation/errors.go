package validation

import (
	"sort"
	"strings"
)

// ValidationError reports the failed constraints for one property. Constraints
// maps rule kind to rendered message.
type ValidationError struct {
	Property    string            `json:"property"`
	Value       any               `json:"value,omitempty"`
	Constraints map[string]string `json:"constraints"`
}

// Error implements error.
func (e ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the constraint messages sorted by kind.
func (e ValidationError) Messages() []string {
	kinds := make([]string, 0, len(e.Constraints))
	for kind := range e.Constraints {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, e.Constraints[kind])
	}
	return out
}

// Errors is a list of property failures usable as an error.
type Errors []ValidationError

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, item := range e {
		parts = append(parts, item.Error())
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Fields maps property names to messages, the shape error payloads use.
func (e Errors) Fields() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for _, item := range e {
		out[item.Property] = append(out[item.Property], item.Messages()...)
	}
	return out
}

// AsError returns nil for an empty list and Errors otherwise.
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}
