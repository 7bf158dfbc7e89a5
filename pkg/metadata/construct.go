package metadata

import "fmt"

// New constructs an instance of token, running the construction logic of every
// ancestor root-first.
func (r *Registry) New(token Token) (*Instance, error) {
	def, err := r.Type(token)
	if err != nil {
		return nil, err
	}
	if def.Abstract {
		return nil, fmt.Errorf("metadata: %s: %w", def.Name, ErrAbstractType)
	}
	inst := NewInstance(token)
	if err := r.Construct(token, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew panics when New fails.
func (r *Registry) MustNew(token Token) *Instance {
	inst, err := r.New(token)
	if err != nil {
		panic(err)
	}
	return inst
}

// Construct runs token's construction logic against inst without changing the
// instance's type. Field defaults run before initializers, and parents run
// before children.
func (r *Registry) Construct(token Token, inst *Instance) error {
	if inst == nil {
		return fmt.Errorf("metadata: construct %q: instance is nil", token)
	}
	steps, err := r.constructionSteps(token)
	if err != nil {
		return err
	}
	for _, def := range steps {
		for _, field := range def.Fields {
			if field.Default == nil {
				continue
			}
			if value := field.Default(inst); value != nil {
				inst.Set(field.Name, value)
			}
		}
		for _, init := range def.Initializers {
			if init != nil {
				init(inst)
			}
		}
	}
	return nil
}

// constructionSteps snapshots the chain root-first so construction logic runs
// without holding the lock; initializers may call back into the registry.
func (r *Registry) constructionSteps(token Token) ([]TypeDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.ancestorsLocked(token)
	if err != nil {
		return nil, err
	}
	steps := make([]TypeDef, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		steps = append(steps, *r.types[chain[i]])
	}
	return steps, nil
}
