package vals

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
)

func TestParseNum(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"0", 0},
		{"09", 9},
		{"077", 77},
		{"0xD", 13},
		{"0o77", 63},
		{"0b101", 5},
		{"1_000", 1000},
		{"0.0", 0.0},
		{"1.1", 1.1},
		{"2.5e2", 250.0},
	}
	for _, test := range tests {
		got, err := ParseNum(test.in)
		if err != nil || !Equal(got, test.want) {
			t.Errorf("ParseNum(%q) -> (%v, %v), want %v", test.in, got, err, test.want)
		}
	}
	if _, err := ParseNum("0x"); !errors.Is(err, errs.ErrInvalidExpression) {
		t.Errorf("ParseNum(0x) -> %v, want ErrInvalidExpression", err)
	}
}

func TestBool(t *testing.T) {
	exists := func(f Funcref) bool { return f.Name == "Known" }
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{0, false}, {3, true},
		{0.0, false}, {0.5, true},
		{"", false}, {"x", true},
		{true, true}, {false, false},
		{NewList(), false}, {NewList(1), true},
		{NewObject(), false}, {ObjectOf("a", 1), true},
		{Funcref{Name: "Known", Script: ns.NoID}, true},
		{Funcref{Name: "Missing", Script: ns.NoID}, false},
	}
	for _, test := range tests {
		got, err := Bool(test.v, exists)
		if err != nil || got != test.want {
			t.Errorf("Bool(%s) -> (%v, %v), want %v", Repr(test.v), got, err, test.want)
		}
	}
	if _, err := Bool(struct{}{}, exists); !errors.Is(err, errs.ErrNotABool) {
		t.Errorf("Bool of a foreign value -> %v, want ErrNotABool", err)
	}
}

func TestToIntRejectsNonNumbers(t *testing.T) {
	for _, v := range []any{"1", NewList(), NewObject(), Funcref{Name: "F"}} {
		if _, err := ToInt(v); !errors.Is(err, errs.ExpectedType{Kind: "number"}) {
			t.Errorf("ToInt(%s) -> %v, want ExpectedType number", Repr(v), err)
		}
		if _, err := ToNum(v); !errors.Is(err, errs.ExpectedType{Kind: "float"}) {
			t.Errorf("ToNum(%s) -> %v, want ExpectedType float", Repr(v), err)
		}
	}
	if i, _ := ToInt(2.9); i != 2 {
		t.Errorf("ToInt(2.9) = %d, want 2", i)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b any) (any, error)
		a, b any
		want any
	}{
		{"Add", Add, 1, 1, 2},
		{"Add", Add, 1.0, 1, 2.0},
		{"Add", Add, 1, 0.5, 1.5},
		{"Sub", Sub, 1, 3, -2},
		{"Mul", Mul, 2, 3, 6},
		{"Div", Div, 7, 2, 3},
		{"Div", Div, 7.0, 2, 3.5},
		{"Mod", Mod, 7, 3, 1},
	}
	for _, test := range tests {
		got, err := test.op(test.a, test.b)
		if err != nil || !Equal(got, test.want) {
			t.Errorf("%s(%v, %v) -> (%v, %v), want %v",
				test.name, test.a, test.b, got, err, test.want)
		}
	}
	for _, b := range []any{0, 0.0} {
		if _, err := Div(1, b); !errors.Is(err, errs.ErrDivideByZero) {
			t.Errorf("Div(1, %v) -> %v, want ErrDivideByZero", b, err)
		}
	}
	if _, err := Add(1, "1"); !errors.Is(err, errs.ExpectedType{Kind: "float"}) {
		t.Errorf("Add(1, '1') -> %v, want ExpectedType", err)
	}
}

func TestConcat(t *testing.T) {
	if got := Concat("", 1.1); got != "1.1" {
		t.Errorf("Concat('', 1.1) = %q", got)
	}
	if got := Concat(1, ""); got != "1" {
		t.Errorf("Concat(1, '') = %q", got)
	}
	if got := Concat(2.0, "x"); got != "2x" {
		t.Errorf("Concat(2.0, 'x') = %q", got)
	}
}

func TestCompare(t *testing.T) {
	if !LessEq(1, 1) || Less(1, 1) || !Less(1, 2) || !Less("a", "b") || !Less(1.0, 2.0) {
		t.Errorf("ordering of like kinds is wrong")
	}
	if Less(1, "2") || LessEq(1, 1.0) || Less(NewList(), NewList(1)) {
		t.Errorf("ordering across kinds should be false")
	}
	if Equal(1, 1.0) {
		t.Errorf("Integer and Number should not be equal")
	}
	if !Equal(NewList(1, ObjectOf("a", "b")), NewList(1, ObjectOf("a", "b"))) {
		t.Errorf("structurally equal lists are not Equal")
	}
}

func TestIndex(t *testing.T) {
	l := NewList(1, 2, 3)
	tests := []struct {
		v, k any
		want any
	}{
		{l, 0, 1},
		{l, -1, 3},
		{l, 3, nil},
		{l, "x", nil},
		{"héllo", 1, "é"},
		{"abc", -1, "c"},
		{"abc", 10, nil},
		{ObjectOf("1", "one"), 1, "one"},
		{ObjectOf("a", 1), "b", nil},
		{42, 0, nil},
	}
	for _, test := range tests {
		if got := Index(test.v, test.k); !Equal(got, test.want) {
			t.Errorf("Index(%s, %s) = %s, want %s",
				Repr(test.v), Repr(test.k), Repr(got), Repr(test.want))
		}
	}
	if got := Slice(l, 1, nil); !Equal(got, NewList(2, 3)) {
		t.Errorf("Slice(l, 1, nil) = %s", Repr(got))
	}
	if got := Slice("hello", nil, 1); got != "he" {
		t.Errorf("Slice('hello', nil, 1) = %v", got)
	}
	if got := Slice(NewList(1, 2), -math.MaxInt, math.MaxInt); !Equal(got, NewList(1, 2)) {
		t.Errorf("Slice([1, 2], -MaxInt, MaxInt) = %s, want [1, 2]", Repr(got))
	}
	if got := Slice("ab", 0, math.MaxInt); got != "ab" {
		t.Errorf("Slice('ab', 0, MaxInt) = %v, want ab", got)
	}
	if got := Slice(NewList(), 0, math.MaxInt); !Equal(got, NewList()) {
		t.Errorf("Slice([], 0, MaxInt) = %s, want []", Repr(got))
	}
}

func TestIterate(t *testing.T) {
	tests := []struct {
		v    any
		want []any
	}{
		{NewList(1, "a"), []any{1, "a"}},
		{ObjectOf("b", 2, "a", 1), []any{NewList("a", 1), NewList("b", 2)}},
		{"hé", []any{"h", "é"}},
		{42, nil},
		{nil, nil},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, Collect(test.v), CmpOpt); diff != "" {
			t.Errorf("Collect(%s) (-want +got):\n%s", Repr(test.v), diff)
		}
	}
}

func TestAliasing(t *testing.T) {
	l := NewList(1)
	alias := any(l)
	if err := alias.(*List).Append(2); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Errorf("mutation through alias not visible")
	}
	c := DeepCopy(l).(*List)
	c.Append(3)
	if l.Len() != 2 {
		t.Errorf("mutation of deep copy visible in original")
	}
}

func TestSelfReference(t *testing.T) {
	l := NewList()
	if err := l.Append(l); !errors.Is(err, errs.ErrSelfReference) {
		t.Errorf("Append(self) -> %v, want ErrSelfReference", err)
	}
	if err := l.Extend(l, 0); !errors.Is(err, errs.ErrSelfReference) {
		t.Errorf("Extend(self) -> %v, want ErrSelfReference", err)
	}
	o := NewObject()
	if err := o.Set("me", o); !errors.Is(err, errs.ErrSelfReference) {
		t.Errorf("Set(self) -> %v, want ErrSelfReference", err)
	}
	if err := l.Append(NewList(l)); err != nil {
		t.Errorf("indirect containment should not be rejected, got %v", err)
	}
}

func TestListEditing(t *testing.T) {
	l := NewList(1, 2, 3)
	l.Insert(0, 0)
	l.Extend(NewList("a", "b"), -1)
	if got := Repr(l); got != "[0, 1, 2, 'a', 'b', 3]" {
		t.Errorf("after edits got %s", got)
	}
	v, err := l.Remove(-1)
	if err != nil || v != 3 {
		t.Errorf("Remove(-1) -> (%v, %v)", v, err)
	}
	l.Reverse()
	if got := Repr(l); got != "['b', 'a', 2, 1, 0]" {
		t.Errorf("after Reverse got %s", got)
	}
}

func TestToStringAndRepr(t *testing.T) {
	tests := []struct {
		v          any
		wantString string
		wantRepr   string
	}{
		{1, "1", "1"},
		{2.0, "2", "2"},
		{math.Inf(1), "inf", "inf"},
		{"it's", "it's", `'it\'s'`},
		{true, "true", "v:true"},
		{nil, "v:null", "v:null"},
		{NewList(1, "a"), "[1, 'a']", "[1, 'a']"},
		{ObjectOf("k", NewList()), "{'k': []}", "{'k': []}"},
		{Funcref{Name: "g:F"}, "g:F", "function('g:F')"},
	}
	for _, test := range tests {
		if got := ToString(test.v); got != test.wantString {
			t.Errorf("ToString -> %q, want %q", got, test.wantString)
		}
		if got := Repr(test.v); got != test.wantRepr {
			t.Errorf("Repr -> %q, want %q", got, test.wantRepr)
		}
	}
}

func TestFromGo(t *testing.T) {
	got := FromGo(map[string]any{"a": []any{int64(1), float32(0.5)}})
	want := ObjectOf("a", NewList(1, 0.5))
	if !Equal(got, want) {
		t.Errorf("FromGo -> %s, want %s", Repr(got), Repr(want))
	}
}
