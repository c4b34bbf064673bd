// Vimscript runs Vim script outside of an editor. It runs a script file or
// code given with -c, offers an interactive prompt when given neither, and can
// act as a language server for editors with -lsp.
package main

import (
	"os"

	"src.rvim.sh/pkg/buildinfo"
	"src.rvim.sh/pkg/lsp"
	"src.rvim.sh/pkg/prog"
	"src.rvim.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &lsp.Program{}, &shell.Program{})))
}
