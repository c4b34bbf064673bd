package vals

import (
	"math"

	"src.rvim.sh/pkg/vim/errs"
)

// FuncExists reports whether a function reference resolves to a function.
type FuncExists func(Funcref) bool

// Bool converts a value to a boolean. Numbers are true when nonzero, strings,
// lists and dicts when nonempty, and function references when they resolve
// according to exists. A nil exists treats every reference as resolving.
func Bool(v any, exists FuncExists) (bool, error) {
	switch v := v.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return v != "", nil
	case *List:
		return v.Len() > 0, nil
	case *Object:
		return v.Len() > 0, nil
	case Funcref:
		return exists == nil || exists(v), nil
	}
	return false, errs.ErrNotABool
}

// ToInt converts a value to an Integer. Numbers are truncated toward zero.
// Strings, lists, dicts and function references are rejected.
func ToInt(v any) (int, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case float64:
		if math.IsNaN(v) {
			return 0, nil
		}
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errs.ExpectedType{Kind: "number", Got: Kind(v)}
}

// ToNum converts a value to a Number. Strings, lists, dicts and function
// references are rejected.
func ToNum(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errs.ExpectedType{Kind: "float", Got: Kind(v)}
}

// ToList returns the list a value holds.
func ToList(v any) (*List, error) {
	if l, ok := v.(*List); ok {
		return l, nil
	}
	return nil, errs.ExpectedType{Kind: "list", Got: Kind(v)}
}

// ToObject returns the dict a value holds.
func ToObject(v any) (*Object, error) {
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return nil, errs.ExpectedType{Kind: "dict", Got: Kind(v)}
}

// FromGo converts common Go values into runtime values: integer types become
// int, float32 becomes float64, slices become lists and string-keyed maps
// become dicts. Other values are returned unchanged.
func FromGo(v any) any {
	switch v := v.(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return float64(v)
	case []any:
		l := NewList()
		for _, e := range v {
			l.elems = append(l.elems, FromGo(e))
		}
		return l
	case map[string]any:
		o := NewObject()
		for k, e := range v {
			o.m[k] = FromGo(e)
		}
		return o
	case map[any]any:
		o := NewObject()
		for k, e := range v {
			o.m[ToString(FromGo(k))] = FromGo(e)
		}
		return o
	}
	return v
}
