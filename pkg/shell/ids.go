package shell

import "src.rvim.sh/pkg/vim/ns"

// ids hands out buffer, window and script identities. The vimscript command
// has a single buffer shown in a single window; every script it runs,
// including each :source, gets a new script id.
type ids struct {
	nextScript ns.ID
	scripts    []string
}

const (
	mainBuffer ns.ID = 1
	mainWindow ns.ID = 1000
)

// newScript returns the id of a newly started script.
func (i *ids) newScript(name string) ns.ID {
	i.nextScript++
	i.scripts = append(i.scripts, name)
	return i.nextScript
}

// names returns the names of the scripts started so far, indexed by id - 1.
func (i *ids) names() []string { return i.scripts }
