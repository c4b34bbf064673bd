package vals

// Copy returns a shallow copy: a new list or dict holding the same elements.
// Other values are returned unchanged.
func Copy(v any) any {
	switch v := v.(type) {
	case *List:
		return NewList(v.elems...)
	case *Object:
		o := NewObject()
		for k, e := range v.m {
			o.m[k] = e
		}
		return o
	}
	return v
}

// DeepCopy returns a copy sharing no list or dict with v. A container that
// appears more than once in v is copied once, and the copies are shared the
// same way the originals were.
func DeepCopy(v any) any {
	return deepCopy(v, make(map[any]any))
}

func deepCopy(v any, seen map[any]any) any {
	switch v := v.(type) {
	case *List:
		if c, ok := seen[v]; ok {
			return c
		}
		l := &List{elems: make([]any, len(v.elems))}
		seen[v] = l
		for i, e := range v.elems {
			l.elems[i] = deepCopy(e, seen)
		}
		return l
	case *Object:
		if c, ok := seen[v]; ok {
			return c
		}
		o := NewObject()
		seen[v] = o
		for k, e := range v.m {
			o.m[k] = deepCopy(e, seen)
		}
		return o
	}
	return v
}
