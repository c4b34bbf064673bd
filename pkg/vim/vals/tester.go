package vals

import "github.com/google/go-cmp/cmp"

// CmpOpt makes cmp.Diff and cmp.Equal compare lists and dicts structurally
// with Equal.
var CmpOpt = cmp.Options{
	cmp.Comparer(func(a, b *List) bool { return Equal(a, b) }),
	cmp.Comparer(func(a, b *Object) bool { return Equal(a, b) }),
}

// ObjectOf builds a dict from alternating keys and values. It panics if the
// number of arguments is odd. It is mainly useful in tests.
func ObjectOf(kvs ...any) *Object {
	if len(kvs)%2 != 0 {
		panic("odd number of arguments to ObjectOf")
	}
	o := NewObject()
	for i := 0; i < len(kvs); i += 2 {
		o.m[ToString(kvs[i])] = kvs[i+1]
	}
	return o
}
