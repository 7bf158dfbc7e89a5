package metadata

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrTypeNotFound is returned when a token is not registered.
	ErrTypeNotFound = errors.New("metadata: type not found")
	// ErrAbstractType is returned when constructing an abstract type directly.
	ErrAbstractType = errors.New("metadata: cannot construct abstract type")
)

// Registry stores type definitions and the rules attached to them. Writes are
// expected during program initialisation; reads are safe for concurrent use
// afterwards.
type Registry struct {
	mu          sync.RWMutex
	types       map[Token]*TypeDef
	byName      map[string]Token
	validations map[Token][]ValidationRule
	transforms  map[Token][]TransformRule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:       make(map[Token]*TypeDef),
		byName:      make(map[string]Token),
		validations: make(map[Token][]ValidationRule),
		transforms:  make(map[Token][]TransformRule),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a type definition and returns its token. A token is generated
// when def.Token is empty. Parents must already be registered.
func (r *Registry) Register(def TypeDef) (Token, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return "", errors.New("metadata: type name is required")
	}
	if def.Token == "" {
		def.Token = NewToken()
	}
	def.Name = name
	def.Parents = append([]Token(nil), def.Parents...)
	def.Fields = append([]FieldDef(nil), def.Fields...)
	def.Initializers = append([]Initializer(nil), def.Initializers...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[def.Token]; exists {
		return "", fmt.Errorf("metadata: token %q already registered", def.Token)
	}
	seen := make(map[string]struct{}, len(def.Fields))
	for _, field := range def.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return "", fmt.Errorf("metadata: type %q declares a field without a name", name)
		}
		if _, dup := seen[field.Name]; dup {
			return "", fmt.Errorf("metadata: type %q declares field %q twice", name, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	for _, parent := range def.Parents {
		if _, ok := r.types[parent]; !ok {
			return "", fmt.Errorf("metadata: parent %q of %q: %w", parent, name, ErrTypeNotFound)
		}
	}

	r.types[def.Token] = &def
	r.byName[name] = def.Token
	return def.Token, nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def TypeDef) Token {
	token, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return token
}

// Type returns a copy of the definition registered under token.
func (r *Registry) Type(token Token) (TypeDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.types[token]
	if !ok {
		return TypeDef{}, fmt.Errorf("metadata: type %q: %w", token, ErrTypeNotFound)
	}
	return *def, nil
}

// Name returns the registered name for token, or "" when unknown.
func (r *Registry) Name(token Token) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.types[token]; ok {
		return def.Name
	}
	return ""
}

// Lookup returns the most recently registered token for name.
func (r *Registry) Lookup(name string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.byName[name]
	return token, ok
}

// Has reports whether token is registered.
func (r *Registry) Has(token Token) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[token]
	return ok
}

// List returns the sorted names of registered types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ancestors returns token followed by its ancestors, closest-first. Parents are
// walked depth-first in declaration order and each type appears once.
func (r *Registry) Ancestors(token Token) ([]Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ancestorsLocked(token)
}

func (r *Registry) ancestorsLocked(token Token) ([]Token, error) {
	if _, ok := r.types[token]; !ok {
		return nil, fmt.Errorf("metadata: type %q: %w", token, ErrTypeNotFound)
	}
	var (
		out  []Token
		seen = make(map[Token]struct{})
		walk func(Token)
	)
	walk = func(t Token) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
		for _, parent := range r.types[t].Parents {
			walk(parent)
		}
	}
	walk(token)
	return out, nil
}

// AddValidation attaches a validation rule to rule.Type.
func (r *Registry) AddValidation(rule ValidationRule) error {
	if rule.Field == "" {
		return errors.New("metadata: validation rule field is required")
	}
	if rule.Kind == "" {
		return errors.New("metadata: validation rule kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[rule.Type]; !ok {
		return fmt.Errorf("metadata: validation target %q: %w", rule.Type, ErrTypeNotFound)
	}
	r.validations[rule.Type] = append(r.validations[rule.Type], rule)
	return nil
}

// AddTransform attaches a transform rule to rule.Type.
func (r *Registry) AddTransform(rule TransformRule) error {
	if rule.Field == "" {
		return errors.New("metadata: transform rule field is required")
	}
	if rule.Fn == nil {
		return errors.New("metadata: transform rule function is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[rule.Type]; !ok {
		return fmt.Errorf("metadata: transform target %q: %w", rule.Type, ErrTypeNotFound)
	}
	r.transforms[rule.Type] = append(r.transforms[rule.Type], rule)
	return nil
}

// OwnValidations returns the rules attached directly to token.
func (r *Registry) OwnValidations(token Token) []ValidationRule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]ValidationRule(nil), r.validations[token]...)
}

// OwnTransforms returns the transforms attached directly to token.
func (r *Registry) OwnTransforms(token Token) []TransformRule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]TransformRule(nil), r.transforms[token]...)
}

// Validations returns every validation rule visible on token, closest-first.
func (r *Registry) Validations(token Token) ([]ValidationRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.ancestorsLocked(token)
	if err != nil {
		return nil, err
	}
	var out []ValidationRule
	for _, t := range chain {
		out = append(out, r.validations[t]...)
	}
	return out, nil
}

// Transforms returns every transform visible on token, closest-first.
func (r *Registry) Transforms(token Token) ([]TransformRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.ancestorsLocked(token)
	if err != nil {
		return nil, err
	}
	var out []TransformRule
	for _, t := range chain {
		out = append(out, r.transforms[t]...)
	}
	return out, nil
}

// Fields returns the declared field names visible on token, closest-first,
// followed by any field that only carries rules.
func (r *Registry) Fields(token Token) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.ancestorsLocked(token)
	if err != nil {
		return nil, err
	}
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, t := range chain {
		for _, field := range r.types[t].Fields {
			add(field.Name)
		}
	}
	for _, t := range chain {
		for _, rule := range r.validations[t] {
			add(rule.Field)
		}
		for _, rule := range r.transforms[t] {
			add(rule.Field)
		}
	}
	return out, nil
}
