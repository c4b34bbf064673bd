package vals

import (
	"src.rvim.sh/pkg/vim/errs"
)

// List is a shared, mutable, ordered sequence of values.
type List struct {
	elems []any
}

// NewList creates a list holding the given values.
func NewList(vs ...any) *List {
	return &List{elems: append([]any(nil), vs...)}
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// Elems returns a snapshot of the elements. Mutating the returned slice does
// not affect the list.
func (l *List) Elems() []any {
	return append([]any(nil), l.elems...)
}

// normIndex turns a possibly negative index into an offset from the start.
func normIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// Get returns the element at a signed index, or nil if out of range.
func (l *List) Get(i int) any {
	if i, ok := normIndex(i, len(l.elems)); ok {
		return l.elems[i]
	}
	return nil
}

// Set replaces the element at a signed index.
func (l *List) Set(i int, v any) error {
	if err := checkContainment(l, v); err != nil {
		return err
	}
	j, ok := normIndex(i, len(l.elems))
	if !ok {
		return errs.Expected{Token: "index within list"}
	}
	l.elems[j] = v
	return nil
}

// Insert inserts a value before a signed index. An index equal to the length
// appends.
func (l *List) Insert(i int, v any) error {
	if err := checkContainment(l, v); err != nil {
		return err
	}
	if i < 0 {
		i += len(l.elems)
	}
	if i < 0 || i > len(l.elems) {
		return errs.Expected{Token: "index within list"}
	}
	l.elems = append(l.elems, nil)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = v
	return nil
}

// Append adds a value to the end of the list.
func (l *List) Append(v any) error {
	return l.Insert(len(l.elems), v)
}

// Extend inserts all elements of another list before a signed index.
func (l *List) Extend(other *List, i int) error {
	if other == l {
		return errs.ErrSelfReference
	}
	for _, v := range other.elems {
		if err := checkContainment(l, v); err != nil {
			return err
		}
	}
	if i < 0 {
		i += len(l.elems)
	}
	if i < 0 || i > len(l.elems) {
		return errs.Expected{Token: "index within list"}
	}
	tail := append(append([]any(nil), other.elems...), l.elems[i:]...)
	l.elems = append(l.elems[:i], tail...)
	return nil
}

// Remove deletes and returns the element at a signed index.
func (l *List) Remove(i int) (any, error) {
	j, ok := normIndex(i, len(l.elems))
	if !ok {
		return nil, errs.Expected{Token: "index within list"}
	}
	v := l.elems[j]
	l.elems = append(l.elems[:j], l.elems[j+1:]...)
	return v, nil
}

// Reverse reverses the list in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.elems)-1; i < j; i, j = i+1, j-1 {
		l.elems[i], l.elems[j] = l.elems[j], l.elems[i]
	}
}

// Replace substitutes the whole content of the list, keeping its identity.
func (l *List) Replace(vs []any) {
	l.elems = vs
}

// Slice returns a new list with the elements from index from to index to,
// both inclusive and signed. Out-of-range bounds are clamped.
func (l *List) Slice(from, to int) *List {
	from, to, ok := sliceBounds(from, to, len(l.elems))
	if !ok {
		return NewList()
	}
	return NewList(l.elems[from:to]...)
}

func sliceBounds(from, to, n int) (int, int, bool) {
	if from < 0 {
		from += n
		if from < 0 {
			from = 0
		}
	}
	if to < 0 {
		to += n
	}
	if to >= n {
		to = n - 1
	}
	to++
	return from, to, from < to
}

func checkContainment(container, v any) error {
	switch v := v.(type) {
	case *List:
		if c, ok := container.(*List); ok && c == v {
			return errs.ErrSelfReference
		}
	case *Object:
		if c, ok := container.(*Object); ok && c == v {
			return errs.ErrSelfReference
		}
	}
	return nil
}
