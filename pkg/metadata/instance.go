package metadata

import (
	"encoding/json"
	"fmt"
)

// Instance is a value of a registered type. Keys keep their first assignment
// order so plain conversions and error reports are deterministic.
type Instance struct {
	typ    Token
	values map[string]any
	keys   []string
}

// NewInstance returns an empty instance tagged with token. It does not run
// construction; use Registry.New for that.
func NewInstance(token Token) *Instance {
	return &Instance{typ: token, values: make(map[string]any)}
}

// Type returns the instance's type token.
func (i *Instance) Type() Token {
	if i == nil {
		return ""
	}
	return i.typ
}

// Get returns the value stored under name.
func (i *Instance) Get(name string) (any, bool) {
	if i == nil {
		return nil, false
	}
	v, ok := i.values[name]
	return v, ok
}

// Has reports whether name has been assigned, even to nil.
func (i *Instance) Has(name string) bool {
	_, ok := i.Get(name)
	return ok
}

// Set assigns a value.
func (i *Instance) Set(name string, value any) {
	if _, ok := i.values[name]; !ok {
		i.keys = append(i.keys, name)
	}
	i.values[name] = value
}

// Delete removes a value.
func (i *Instance) Delete(name string) {
	if _, ok := i.values[name]; !ok {
		return
	}
	delete(i.values, name)
	for idx, key := range i.keys {
		if key == name {
			i.keys = append(i.keys[:idx], i.keys[idx+1:]...)
			break
		}
	}
}

// Keys returns assigned keys in assignment order.
func (i *Instance) Keys() []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.keys...)
}

// String returns the value under name when it is a string.
func (i *Instance) String(name string) string {
	v, _ := i.Get(name)
	s, _ := v.(string)
	return s
}

// Clone returns a shallow copy carrying the same type token.
func (i *Instance) Clone() *Instance {
	out := NewInstance(i.typ)
	for _, key := range i.keys {
		out.Set(key, i.values[key])
	}
	return out
}

// Map returns the values as a plain map.
func (i *Instance) Map() map[string]any {
	out := make(map[string]any, len(i.keys))
	for _, key := range i.keys {
		out[key] = i.values[key]
	}
	return out
}

// MarshalJSON encodes the values in assignment order.
func (i *Instance) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for idx, key := range i.keys {
		if idx > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(i.values[key])
		if err != nil {
			return nil, fmt.Errorf("metadata: encode field %q: %w", key, err)
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}
