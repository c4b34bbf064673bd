package eval

import (
	"sort"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

// List and dict functions.

func addContainerBuiltins[S State](c *Ctx[S]) {
	addGoFns(c,
		NewGoFn[S]("get", get).Optional(1),
		NewGoFn[S]("len", length),
		NewGoFn[S]("empty", vals.Empty),
		NewGoFn[S]("insert", insert).Optional(1),
		NewGoFn[S]("add", add),
		NewGoFn[S]("extend", extend).Optional(1),
		NewGoFn[S]("remove", remove).Optional(1),
		NewGoFn[S]("copy", vals.Copy),
		NewGoFn[S]("deepcopy", vals.DeepCopy),
		NewGoFn[S]("filter", filter[S]),
		NewGoFn[S]("map", mapFn[S]),
		NewGoFn[S]("sort", sortFn[S]).Optional(1),
		NewGoFn[S]("uniq", uniq[S]).Optional(1),
		NewGoFn[S]("reverse", reverse),
		NewGoFn[S]("range", rangeFn).Optional(2),
		NewGoFn[S]("index", index).Optional(2),
		NewGoFn[S]("count", count).Optional(1),
		NewGoFn[S]("max", maxFn),
		NewGoFn[S]("min", minFn),
		NewGoFn[S]("flatten", flatten).Optional(1),
		NewGoFn[S]("has_key", hasKey),
		NewGoFn[S]("keys", keys),
		NewGoFn[S]("values", values),
		NewGoFn[S]("items", items),
	)
}

// get returns an item of a list or dict, or def if it does not exist. The
// "name" of a function reference is its function name.
func get(v, key, def any) (any, error) {
	switch v := v.(type) {
	case *vals.List:
		i, err := vals.ToInt(key)
		if err != nil {
			return nil, err
		}
		if i < -v.Len() || i >= v.Len() {
			return def, nil
		}
		return v.Get(i), nil
	case *vals.Object:
		if e, ok := v.Get(vals.ToString(key)); ok {
			return e, nil
		}
		return def, nil
	case vals.Funcref:
		if vals.ToString(key) == "name" {
			return v.Name, nil
		}
		return def, nil
	}
	return nil, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(v)}
}

func length(v any) (int, error) {
	switch v.(type) {
	case *vals.List, *vals.Object, string, int, float64:
		return vals.Len(v), nil
	}
	return 0, errs.ExpectedType{Kind: "string, list or dict", Got: vals.Kind(v)}
}

func insert(l *vals.List, item any, idx int) (*vals.List, error) {
	return l, l.Insert(idx, item)
}

func add(l *vals.List, item any) (*vals.List, error) {
	return l, l.Append(item)
}

// extend adds the items of b to a in place. For lists the third argument is
// the index to insert at; for dicts it says what to do with keys a already
// has: "force" (the default), "keep" or "error".
func extend(a, b, third any) (any, error) {
	switch a := a.(type) {
	case *vals.List:
		other, err := vals.ToList(b)
		if err != nil {
			return nil, err
		}
		i := a.Len()
		if third != nil {
			if i, err = vals.ToInt(third); err != nil {
				return nil, err
			}
		}
		return a, a.Extend(other, i)
	case *vals.Object:
		other, err := vals.ToObject(b)
		if err != nil {
			return nil, err
		}
		how := "force"
		if third != nil {
			how = vals.ToString(third)
		}
		switch how {
		case "force", "keep":
			return a, a.Extend(other, how == "keep")
		case "error":
			for _, k := range other.Keys() {
				if _, ok := a.Get(k); ok {
					return nil, errs.InvalidArgument{Func: "extend", Message: "key already exists: " + k}
				}
			}
			return a, a.Extend(other, false)
		}
		return nil, errs.InvalidArgument{Func: "extend", Message: "invalid action " + vals.Quote(how)}
	}
	return nil, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(a)}
}

// remove removes an item from a list or dict and returns it. With an end
// index, it removes the items from key to end inclusive and returns them as
// a list.
func remove(v, key, end any) (any, error) {
	switch v := v.(type) {
	case *vals.List:
		i, err := vals.ToInt(key)
		if err != nil {
			return nil, err
		}
		if end == nil {
			return v.Remove(i)
		}
		j, err := vals.ToInt(end)
		if err != nil {
			return nil, err
		}
		n := v.Len()
		if i < 0 {
			i += n
		}
		if j < 0 {
			j += n
		}
		if i < 0 || j >= n || i > j {
			return nil, errs.Expected{Token: "index within list"}
		}
		elems := v.Elems()
		removed := vals.NewList(elems[i : j+1]...)
		v.Replace(append(elems[:i:i], elems[j+1:]...))
		return removed, nil
	case *vals.Object:
		k := vals.ToString(key)
		e, ok := v.Delete(k)
		if !ok {
			return nil, errs.InvalidArgument{Func: "remove", Message: "key not present: " + k}
		}
		return e, nil
	}
	return nil, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(v)}
}

// apply calls f, a function reference or an expression string, for an item
// of a list or dict. An expression sees the item as v:key and v:val.
func (c *Ctx[S]) apply(state S, f, key, val any) (any, error) {
	switch f := f.(type) {
	case vals.Funcref:
		return c.callFuncref(f, []any{key, val}, state)
	case string:
		oldKey, _, _ := c.vars.Get("v:key")
		oldVal, _, _ := c.vars.Get("v:val")
		c.vars.InsertBuiltin("key", key)
		c.vars.InsertBuiltin("val", val)
		defer func() {
			c.vars.InsertBuiltin("key", oldKey)
			c.vars.InsertBuiltin("val", oldVal)
		}()
		return c.eval(f, state)
	}
	return nil, errs.ExpectedType{Kind: "string or funcref", Got: vals.Kind(f)}
}

// filter removes in place the items of a list or dict for which f is false.
func filter[S State](c *Ctx[S], state S, v, f any) (any, error) {
	keep := func(key, val any) (bool, error) {
		r, err := c.apply(state, f, key, val)
		if err != nil {
			return false, err
		}
		return vals.Bool(r, c.funcExists)
	}
	switch v := v.(type) {
	case *vals.List:
		var kept []any
		for i, e := range v.Elems() {
			ok, err := keep(i, e)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, e)
			}
		}
		v.Replace(kept)
		return v, nil
	case *vals.Object:
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			ok, err := keep(k, e)
			if err != nil {
				return nil, err
			}
			if !ok {
				v.Delete(k)
			}
		}
		return v, nil
	}
	return nil, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(v)}
}

// mapFn replaces in place every item of a list or dict with the result of f.
func mapFn[S State](c *Ctx[S], state S, v, f any) (any, error) {
	switch v := v.(type) {
	case *vals.List:
		elems := v.Elems()
		mapped := make([]any, len(elems))
		for i, e := range elems {
			r, err := c.apply(state, f, i, e)
			if err != nil {
				return nil, err
			}
			mapped[i] = r
		}
		v.Replace(mapped)
		return v, nil
	case *vals.Object:
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			r, err := c.apply(state, f, k, e)
			if err != nil {
				return nil, err
			}
			if err := v.Set(k, r); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return nil, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(v)}
}

// comparator returns a three-way comparison for sort() and uniq(). how is
// omitted or empty for string order, "i" or 1 for case-insensitive string
// order, "n" for numbers, "N" for numbers in strings, "f" for floats, or a
// function that returns a negative, zero or positive number.
func (c *Ctx[S]) comparator(state S, how any) (func(a, b any) (int, error), error) {
	byString := func(fold bool) func(a, b any) (int, error) {
		return func(a, b any) (int, error) {
			sa, sb := vals.ToString(a), vals.ToString(b)
			if fold {
				sa, sb = strings.ToLower(sa), strings.ToLower(sb)
			}
			return strings.Compare(sa, sb), nil
		}
	}
	byNum := func(conv func(any) float64) func(a, b any) (int, error) {
		return func(a, b any) (int, error) {
			fa, fb := conv(a), conv(b)
			switch {
			case fa < fb:
				return -1, nil
			case fa > fb:
				return 1, nil
			}
			return 0, nil
		}
	}
	switch how := how.(type) {
	case nil:
		return byString(false), nil
	case int:
		return byString(how == 1), nil
	case vals.Funcref:
		return c.funcComparator(state, how), nil
	case string:
		switch how {
		case "":
			return byString(false), nil
		case "i":
			return byString(true), nil
		case "n":
			return byNum(func(v any) float64 {
				if _, ok := v.(string); ok {
					return 0
				}
				f, _ := vals.ToNum(v)
				return f
			}), nil
		case "N":
			return byNum(func(v any) float64 {
				i, _ := str2nr(vals.ToString(v), nil)
				return float64(i)
			}), nil
		case "f":
			return byNum(func(v any) float64 {
				f, _ := vals.ToNum(v)
				return f
			}), nil
		}
		return c.funcComparator(state, vals.NewFuncref(how, c.ScriptID())), nil
	}
	return nil, errs.ExpectedType{Kind: "string or funcref", Got: vals.Kind(how)}
}

func (c *Ctx[S]) funcComparator(state S, f vals.Funcref) func(a, b any) (int, error) {
	return func(a, b any) (int, error) {
		r, err := c.callFuncref(f, []any{a, b}, state)
		if err != nil {
			return 0, err
		}
		return vals.ToInt(r)
	}
}

// sortFn sorts a list in place. The sort is stable.
func sortFn[S State](c *Ctx[S], state S, l *vals.List, how any) (*vals.List, error) {
	cmp, err := c.comparator(state, how)
	if err != nil {
		return nil, err
	}
	elems := l.Elems()
	var sortErr error
	sort.SliceStable(elems, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		r, err := cmp(elems[i], elems[j])
		if err != nil {
			sortErr = err
		}
		return r < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	l.Replace(elems)
	return l, nil
}

// uniq removes in place adjacent items that compare equal. Without how,
// items are compared with ==.
func uniq[S State](c *Ctx[S], state S, l *vals.List, how any) (*vals.List, error) {
	same := func(a, b any) (bool, error) { return vals.Equal(a, b), nil }
	if how != nil {
		cmp, err := c.comparator(state, how)
		if err != nil {
			return nil, err
		}
		same = func(a, b any) (bool, error) {
			r, err := cmp(a, b)
			return r == 0, err
		}
	}
	elems := l.Elems()
	var kept []any
	for i, e := range elems {
		if i > 0 {
			dup, err := same(kept[len(kept)-1], e)
			if err != nil {
				return nil, err
			}
			if dup {
				continue
			}
		}
		kept = append(kept, e)
	}
	l.Replace(kept)
	return l, nil
}

func reverse(l *vals.List) *vals.List {
	l.Reverse()
	return l
}

// Longest list range() builds.
const maxRange = 1 << 24

// rangeFn returns the numbers [0, a) with one argument, or [a, b] with a
// stride.
func rangeFn(a int, b, stride any) (*vals.List, error) {
	if b == nil && a <= 0 {
		return vals.NewList(), nil
	}
	from, to, step := 0, a-1, 1
	if b != nil {
		var err error
		from = a
		if to, err = vals.ToInt(b); err != nil {
			return nil, err
		}
	}
	if stride != nil {
		var err error
		if step, err = vals.ToInt(stride); err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return nil, errs.InvalidArgument{Func: "range", Message: "stride is zero"}
	}
	n := rangeLen(from, to, step)
	if n > maxRange {
		return nil, errs.InvalidArgument{Func: "range", Message: "list too long"}
	}
	elems := make([]any, n)
	for k := range elems {
		elems[k] = from + k*step
	}
	return vals.NewList(elems...), nil
}

// rangeLen returns the number of items from from to to with the given
// stride. The distance is computed in uint64 so that it cannot overflow.
func rangeLen(from, to, step int) uint64 {
	var span, stride uint64
	if step > 0 {
		if to < from {
			return 0
		}
		span, stride = uint64(to)-uint64(from), uint64(step)
	} else {
		if from < to {
			return 0
		}
		span, stride = uint64(from)-uint64(to), -uint64(step)
	}
	return span/stride + 1
}

// index returns the index of the first item of l equal to item, or -1.
func index(l *vals.List, item any, start int, ignoreCase bool) int {
	elems := l.Elems()
	if start < 0 {
		start = max(start+len(elems), 0)
	}
	for i := start; i < len(elems); i++ {
		if equalFold(elems[i], item, ignoreCase) {
			return i
		}
	}
	return -1
}

func equalFold(a, b any, ignoreCase bool) bool {
	if ignoreCase {
		sa, okA := a.(string)
		sb, okB := b.(string)
		if okA && okB {
			return strings.EqualFold(sa, sb)
		}
	}
	return vals.Equal(a, b)
}

// count returns how many times item appears in a list, among the values of a
// dict, or as a substring of a string.
func count(v, item any, ignoreCase bool) (int, error) {
	switch v := v.(type) {
	case string:
		needle := vals.ToString(item)
		if needle == "" {
			return 0, nil
		}
		if ignoreCase {
			v, needle = strings.ToLower(v), strings.ToLower(needle)
		}
		return strings.Count(v, needle), nil
	case *vals.List, *vals.Object:
		n := 0
		for _, e := range containerValues(v) {
			if equalFold(e, item, ignoreCase) {
				n++
			}
		}
		return n, nil
	}
	return 0, errs.ExpectedType{Kind: "string, list or dict", Got: vals.Kind(v)}
}

func containerValues(v any) []any {
	switch v := v.(type) {
	case *vals.List:
		return v.Elems()
	case *vals.Object:
		vs := make([]any, 0, v.Len())
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			vs = append(vs, e)
		}
		return vs
	}
	return nil
}

// extreme returns the item of a list or dict values that better prefers, or
// 0 if there are none.
func extreme(v any, better func(a, b int) bool) (int, error) {
	switch v.(type) {
	case *vals.List, *vals.Object:
	default:
		return 0, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(v)}
	}
	result := 0
	for i, e := range containerValues(v) {
		n, err := vals.ToInt(e)
		if err != nil {
			return 0, err
		}
		if i == 0 || better(n, result) {
			result = n
		}
	}
	return result, nil
}

func maxFn(v any) (int, error) { return extreme(v, func(a, b int) bool { return a > b }) }

func minFn(v any) (int, error) { return extreme(v, func(a, b int) bool { return a < b }) }

// flatten replaces nested lists in l with their items, up to depth levels
// deep, or all the way when depth is omitted.
func flatten(l *vals.List, depth any) (*vals.List, error) {
	d := -1
	if depth != nil {
		var err error
		if d, err = vals.ToInt(depth); err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, errs.InvalidArgument{Func: "flatten", Message: "depth must not be negative"}
		}
	}
	l.Replace(flattenElems(l.Elems(), d))
	return l, nil
}

func flattenElems(elems []any, depth int) []any {
	var out []any
	for _, e := range elems {
		if sub, ok := e.(*vals.List); ok && depth != 0 {
			out = append(out, flattenElems(sub.Elems(), depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func hasKey(o *vals.Object, key string) bool {
	_, ok := o.Get(key)
	return ok
}

func keys(o *vals.Object) *vals.List {
	l := vals.NewList()
	for _, k := range o.Keys() {
		l.Append(k)
	}
	return l
}

func values(o *vals.Object) *vals.List {
	return vals.NewList(containerValues(o)...)
}

func items(o *vals.Object) *vals.List {
	l := vals.NewList()
	for _, k := range o.Keys() {
		e, _ := o.Get(k)
		l.Append(vals.NewList(k, e))
	}
	return l
}
