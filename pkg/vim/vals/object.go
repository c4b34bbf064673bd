package vals

import "sort"

// Object is a shared, mutable, string-keyed dictionary.
type Object struct {
	m map[string]any
}

// NewObject creates an empty dict.
func NewObject() *Object {
	return &Object{m: make(map[string]any)}
}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.m) }

// Get returns the value under a key.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.m[k]
	return v, ok
}

// Set stores a value under a key.
func (o *Object) Set(k string, v any) error {
	if err := checkContainment(o, v); err != nil {
		return err
	}
	o.m[k] = v
	return nil
}

// Delete removes a key, returning the removed value.
func (o *Object) Delete(k string) (any, bool) {
	v, ok := o.m[k]
	delete(o.m, k)
	return v, ok
}

// Keys returns the keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend copies all entries of another dict into o. When keep is true,
// existing keys are left alone.
func (o *Object) Extend(other *Object, keep bool) error {
	if other == o {
		return nil
	}
	for k, v := range other.m {
		if _, exists := o.m[k]; exists && keep {
			continue
		}
		if err := o.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
