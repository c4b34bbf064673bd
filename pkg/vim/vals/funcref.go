package vals

import (
	"strings"

	"src.rvim.sh/pkg/vim/ns"
)

// Funcref is a reference to a function by name. It is resolved every time it
// is called, so redefining the function changes what the reference calls.
// Script is the script a s: name was taken in, or ns.NoID.
type Funcref struct {
	Name   string
	Script ns.ID
}

// NewFuncref creates a reference to name. A s: name remembers the script that
// is active at the time of the call, so that the reference keeps working from
// other scripts.
func NewFuncref(name string, activeScript ns.ID) Funcref {
	if strings.HasPrefix(name, "s:") {
		return Funcref{name, activeScript}
	}
	return Funcref{name, ns.NoID}
}
