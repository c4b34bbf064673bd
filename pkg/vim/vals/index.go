package vals

import (
	"unicode/utf8"
)

// Index indexes a value. Lists and strings take a signed index (negative
// counts from the end; strings are indexed by character), dicts take the
// string form of the key. Indexing never fails: a missing element, a
// non-integer index or an unindexable value gives nil.
func Index(v, k any) any {
	switch v := v.(type) {
	case *List:
		i, ok := indexInt(k)
		if !ok {
			return nil
		}
		return v.Get(i)
	case string:
		i, ok := indexInt(k)
		if !ok {
			return nil
		}
		runes := []rune(v)
		if i, ok := normIndex(i, len(runes)); ok {
			return string(runes[i])
		}
		return nil
	case *Object:
		e, _ := v.Get(ToString(k))
		return e
	}
	return nil
}

func indexInt(k any) (int, bool) {
	switch k := k.(type) {
	case int:
		return k, true
	case float64:
		return int(k), true
	case bool:
		if k {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Slice returns the part of a list or string between two inclusive signed
// indices. A nil bound means the start or the end. Other values give nil.
func Slice(v, from, to any) any {
	var n int
	switch v := v.(type) {
	case *List:
		n = v.Len()
	case string:
		n = utf8.RuneCountInString(v)
	default:
		return nil
	}
	f, t := 0, n-1
	if from != nil {
		f, _ = indexInt(from)
	}
	if to != nil {
		t, _ = indexInt(to)
	}
	switch v := v.(type) {
	case *List:
		return v.Slice(f, t)
	case string:
		f, t, ok := sliceBounds(f, t, n)
		if !ok {
			return ""
		}
		return string([]rune(v)[f:t])
	}
	return nil
}

// Iterate calls f with each element of a value until f returns false. Lists
// yield their elements in order, dicts yield [key, value] lists in key order,
// strings yield their characters. Other values yield nothing.
func Iterate(v any, f func(any) bool) {
	switch v := v.(type) {
	case *List:
		for _, e := range v.Elems() {
			if !f(e) {
				return
			}
		}
	case *Object:
		for _, k := range v.Keys() {
			e, ok := v.Get(k)
			if !ok {
				continue
			}
			if !f(NewList(k, e)) {
				return
			}
		}
	case string:
		for _, r := range v {
			if !f(string(r)) {
				return
			}
		}
	}
}

// Collect returns the elements Iterate would yield.
func Collect(v any) []any {
	var vs []any
	Iterate(v, func(e any) bool {
		vs = append(vs, e)
		return true
	})
	return vs
}

// Len returns the length of a list, dict or string (in bytes), or the length
// of the string form of a number. Other values have length 0.
func Len(v any) int {
	switch v := v.(type) {
	case *List:
		return v.Len()
	case *Object:
		return v.Len()
	case string:
		return len(v)
	case int, float64:
		return len(ToString(v))
	}
	return 0
}

// Empty reports whether a value is empty: an empty container or string, zero,
// false or nil.
func Empty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case Funcref:
		return v.Name == ""
	case *List, *Object, string:
		return Len(v) == 0
	}
	b, _ := Bool(v, nil)
	return !b
}
