package vals

// Equal reports whether two values are equal. Lists and dicts are compared
// element by element; other values are equal only if they have the same kind
// and value, so Integer 1 is not equal to Number 1.0.
func Equal(a, b any) bool {
	return equal(a, b, 0)
}

func equal(a, b any, depth int) bool {
	if depth > maxReprDepth {
		return false
	}
	switch a := a.(type) {
	case nil:
		return b == nil
	case int:
		b, ok := b.(int)
		return ok && a == b
	case float64:
		b, ok := b.(float64)
		return ok && a == b
	case string:
		b, ok := b.(string)
		return ok && a == b
	case bool:
		b, ok := b.(bool)
		return ok && a == b
	case Funcref:
		b, ok := b.(Funcref)
		return ok && a == b
	case *List:
		b, ok := b.(*List)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !equal(a.elems[i], b.elems[i], depth+1) {
				return false
			}
		}
		return true
	case *Object:
		b, ok := b.(*Object)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !equal(av, bv, depth+1) {
				return false
			}
		}
		return true
	}
	return false
}

// Less reports whether a < b. It is only defined for two Integers, two
// Numbers or two strings; every other pairing is false.
func Less(a, b any) bool {
	switch a := a.(type) {
	case int:
		b, ok := b.(int)
		return ok && a < b
	case float64:
		b, ok := b.(float64)
		return ok && a < b
	case string:
		b, ok := b.(string)
		return ok && a < b
	}
	return false
}

// LessEq reports whether a <= b, with the same restrictions as Less.
func LessEq(a, b any) bool {
	switch a := a.(type) {
	case int:
		b, ok := b.(int)
		return ok && a <= b
	case float64:
		b, ok := b.(float64)
		return ok && a <= b
	case string:
		b, ok := b.(string)
		return ok && a <= b
	}
	return false
}
