// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import "errors"

// ErrNoVar is returned by Store.SharedVar when there is no such variable.
var ErrNoVar = errors.New("no such variable")

// Store is an interface satisfied by the storage service.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	Cmds(from, upto int) ([]Cmd, error)

	SharedVar(name string) (any, error)
	SetSharedVar(name string, value any) error
	DelSharedVar(name string) error
	SharedVarNames() ([]string, error)

	Close() error
}

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
}
