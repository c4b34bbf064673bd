// Package ns implements the scope-qualified symbol tables of Vim script.
//
// A name is resolved to a scope by its sigil:
//
//	g:name  global
//	b:name  the active buffer
//	w:name  the active window
//	s:name  the active script
//	v:name  builtin
//	name    local, or global if name starts with an uppercase letter
//
// The buffer, window and script scopes are keyed by object identities that the
// host selects with SetBuffer, SetWindow and SetScript.
package ns

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"src.rvim.sh/pkg/vim/errs"
)

// ID identifies a host object (buffer, window or script).
type ID int

// NoID marks the absence of an active object.
const NoID ID = -1

// Scope is one partition of a Namespaced table.
type Scope int

// Scopes.
const (
	Global Scope = iota
	Buffer
	Window
	Script
	Local
	Builtin
)

var scopeNames = [...]string{"global", "buffer", "window", "script", "local", "builtin"}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return "unknown"
	}
	return scopeNames[s]
}

// Sigil returns the prefix that selects the scope, or "" for Local.
func (s Scope) Sigil() string {
	switch s {
	case Global:
		return "g:"
	case Buffer:
		return "b:"
	case Window:
		return "w:"
	case Script:
		return "s:"
	case Builtin:
		return "v:"
	}
	return ""
}

// Resolve splits a name into its scope and its unqualified key. It does not
// depend on any state.
func Resolve(name string) (Scope, string, error) {
	if len(name) >= 2 && name[1] == ':' {
		key := name[2:]
		switch name[0] {
		case 'g':
			return Global, key, nil
		case 'b':
			return Buffer, key, nil
		case 'w':
			return Window, key, nil
		case 's':
			return Script, key, nil
		case 'v':
			return Builtin, key, nil
		case 'l', 'a':
			return Local, key, nil
		}
		return 0, "", errs.ErrUnknownNamespace
	}
	if strings.ContainsRune(name, ':') {
		return 0, "", errs.ErrUnknownNamespace
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return Global, name, nil
		}
		break
	}
	return Local, name, nil
}

// A frame is one level of the local scope. Function frames hide the frames
// below them; block frames, pushed for loop bodies, do not.
type frame[T any] struct {
	vars  map[string]T
	block bool
}

// Namespaced is a symbol table partitioned into scopes. The zero value is not
// usable; use New.
type Namespaced[T any] struct {
	global  map[string]T
	buffer  map[ID]map[string]T
	window  map[ID]map[string]T
	script  map[ID]map[string]T
	local   []frame[T]
	builtin map[string]T

	bufferID ID
	windowID ID
	scriptID ID
}

// New creates an empty Namespaced with no active objects.
func New[T any]() *Namespaced[T] {
	return &Namespaced[T]{
		global:   make(map[string]T),
		buffer:   make(map[ID]map[string]T),
		window:   make(map[ID]map[string]T),
		script:   make(map[ID]map[string]T),
		builtin:  make(map[string]T),
		bufferID: NoID, windowID: NoID, scriptID: NoID,
	}
}

// SetBuffer selects the buffer whose variables b: names refer to. NoID
// deselects it.
func (n *Namespaced[T]) SetBuffer(id ID) { n.bufferID = id }

// SetWindow selects the window whose variables w: names refer to. NoID
// deselects it.
func (n *Namespaced[T]) SetWindow(id ID) { n.windowID = id }

// SetScript selects the script whose variables s: names refer to. NoID
// deselects it.
func (n *Namespaced[T]) SetScript(id ID) { n.scriptID = id }

// ScriptID returns the active script.
func (n *Namespaced[T]) ScriptID() ID { return n.scriptID }

// EnterLocal pushes a new function frame. Names in the frames below it are
// not visible until it is popped.
func (n *Namespaced[T]) EnterLocal() {
	n.local = append(n.local, frame[T]{vars: make(map[string]T)})
}

// EnterBlock pushes a new block frame. Names in the frames below it stay
// visible, and new local names are still created in the enclosing function
// frame; only names created with Define live in the block frame.
func (n *Namespaced[T]) EnterBlock() {
	n.local = append(n.local, frame[T]{vars: make(map[string]T), block: true})
}

// LeaveLocal pops the innermost frame. It does nothing if there is none.
func (n *Namespaced[T]) LeaveLocal() {
	if len(n.local) > 0 {
		n.local[len(n.local)-1] = frame[T]{}
		n.local = n.local[:len(n.local)-1]
	}
}

// visible returns the frames a local name can be found in, innermost last:
// the frames from the innermost function frame upwards.
func (n *Namespaced[T]) visible() []frame[T] {
	for i := len(n.local) - 1; i >= 0; i-- {
		if !n.local[i].block {
			return n.local[i:]
		}
	}
	return n.local
}

func (n *Namespaced[T]) inFunction() bool {
	for _, f := range n.local {
		if !f.block {
			return true
		}
	}
	return false
}

// Define stores a value in the innermost frame, or among script-level names
// if there are no frames. It is used to bind loop variables.
func (n *Namespaced[T]) Define(name string, v T) error {
	scope, key, err := Resolve(name)
	if err != nil {
		return err
	}
	if scope != Local || len(n.local) == 0 {
		_, _, err := n.Insert(name, v)
		return err
	}
	n.local[len(n.local)-1].vars[key] = v
	return nil
}

// Depth returns the number of local frames.
func (n *Namespaced[T]) Depth() int { return len(n.local) }

func perObject[T any](m map[ID]map[string]T, id ID, scope Scope, create bool) (map[string]T, error) {
	if id == NoID {
		return nil, errs.NamespaceNotDefined{Scope: scope.String()}
	}
	table := m[id]
	if table == nil && create {
		table = make(map[string]T)
		m[id] = table
	}
	return table, nil
}

// table returns the map a write to the scope goes to. Local names outside of
// any function frame are script-level names, which live in the global table.
func (n *Namespaced[T]) table(scope Scope, create bool) (map[string]T, error) {
	switch scope {
	case Global:
		return n.global, nil
	case Buffer:
		return perObject(n.buffer, n.bufferID, scope, create)
	case Window:
		return perObject(n.window, n.windowID, scope, create)
	case Script:
		return perObject(n.script, n.scriptID, scope, create)
	case Local:
		frames := n.visible()
		if len(frames) == 0 || frames[0].block {
			return n.global, nil
		}
		return frames[0].vars, nil
	case Builtin:
		return n.builtin, nil
	}
	return nil, errs.ErrUnknownNamespace
}

// Insert stores a value under a qualified name, returning the previous value
// if there was one.
func (n *Namespaced[T]) Insert(name string, v T) (old T, replaced bool, err error) {
	scope, key, err := Resolve(name)
	if err != nil {
		return old, false, err
	}
	m, err := n.table(scope, true)
	if err != nil {
		return old, false, err
	}
	if scope == Local {
		if f, ok := n.findLocal(key); ok {
			m = f
		}
	}
	old, replaced = m[key]
	m[key] = v
	return old, replaced, nil
}

// findLocal returns the visible frame that holds key.
func (n *Namespaced[T]) findLocal(key string) (map[string]T, bool) {
	frames := n.visible()
	for i := len(frames) - 1; i >= 0; i-- {
		if _, ok := frames[i].vars[key]; ok {
			return frames[i].vars, true
		}
	}
	return nil, false
}

// Remove deletes a qualified name, returning the removed value if there was
// one.
func (n *Namespaced[T]) Remove(name string) (old T, removed bool, err error) {
	scope, key, err := Resolve(name)
	if err != nil {
		return old, false, err
	}
	m, err := n.table(scope, false)
	if err != nil {
		return old, false, err
	}
	if scope == Local {
		if f, ok := n.findLocal(key); ok {
			m = f
		}
	}
	old, removed = m[key]
	delete(m, key)
	return old, removed, nil
}

// Get looks up a qualified name. Local names are searched in the visible
// frames innermost-first, then among builtins. Script-level names are only
// reachable without a sigil outside of functions.
func (n *Namespaced[T]) Get(name string) (v T, ok bool, err error) {
	scope, key, err := Resolve(name)
	if err != nil {
		return v, false, err
	}
	if scope == Local {
		if f, ok := n.findLocal(key); ok {
			return f[key], true, nil
		}
		if !n.inFunction() {
			if v, ok := n.global[key]; ok {
				return v, true, nil
			}
		}
		v, ok = n.builtin[key]
		return v, ok, nil
	}
	m, err := n.table(scope, false)
	if err != nil {
		return v, false, err
	}
	v, ok = m[key]
	return v, ok, nil
}

// InsertBuiltin stores a value in the builtin scope. The name must not carry a
// sigil.
func (n *Namespaced[T]) InsertBuiltin(name string, v T) {
	n.builtin[name] = v
}

// Names returns the sorted qualified names visible from the current state:
// builtins, globals, the visible local frames and the active per-object
// scopes. It is used for suggestions and completion.
func (n *Namespaced[T]) Names() []string {
	var names []string
	add := func(prefix string, m map[string]T) {
		for k := range m {
			names = append(names, prefix+k)
		}
	}
	add("", n.builtin)
	add("g:", n.global)
	for _, f := range n.visible() {
		add("", f.vars)
	}
	for _, s := range []Scope{Buffer, Window, Script} {
		if m, err := n.table(s, false); err == nil {
			add(s.Sigil(), m)
		}
	}
	sort.Strings(names)
	return names
}

// IsNotDefined reports whether err is a NamespaceNotDefined error.
func IsNotDefined(err error) bool {
	var e errs.NamespaceNotDefined
	return errors.As(err, &e)
}
