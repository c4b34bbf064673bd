package shell

import (
	"path/filepath"
	"testing"

	"src.rvim.sh/pkg/must"
	. "src.rvim.sh/pkg/prog/progtest"
	"src.rvim.sh/pkg/testutil"
)

func TestScript(t *testing.T) {
	dir := testutil.TempDir(t)
	hello := filepath.Join(dir, "hello.vim")
	must.WriteFile(hello, "echo 'hello'")
	args := filepath.Join(dir, "args.vim")
	must.WriteFile(args, "echo g:argv")
	invalid := filepath.Join(dir, "invalid-utf8.vim")
	must.WriteFile(invalid, "\xff")
	lib := filepath.Join(dir, "lib.vim")
	must.WriteFile(lib, "let s:x = 'lib'\nfunction! Lib()\n  return s:x\nendfunction\n")

	Test(t, &Program{},
		ThatVimscript(hello).WritesStdout("hello\n"),
		ThatVimscript("-c", "echo 'hello'").WritesStdout("hello\n"),
		ThatVimscript(args, "a", "b").WritesStdout("['a', 'b']\n"),
		ThatVimscript("-c", "echo g:argv", "x").WritesStdout("['x']\n"),

		ThatVimscript(invalid).
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		ThatVimscript(filepath.Join(dir, "non-existent.vim")).
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),

		// runtime errors
		ThatVimscript("-c", "echo x").
			ExitsWith(2).
			WritesStderrContaining("Vim script error"),
		ThatVimscript("-c", "echo 'before'\necho 1 / 0\necho 'after'").
			ExitsWith(2).
			WritesStdout("before\n").
			WritesStderrContaining("division by zero"),
		ThatVimscript("-c", "echo 1\nfinish\necho 2").WritesStdout("1\n"),

		// :source and script-local variables
		ThatVimscript("-c", "source "+lib+"\necho Lib()").WritesStdout("lib\n"),
		ThatVimscript("-c", "let s:x = 'main'\nsource "+lib+"\necho s:x Lib()").
			WritesStdout("main lib\n"),
		ThatVimscript("-c", "source "+lib+"\nscriptnames").
			WritesStdout("  1: code from -c\n  2: "+lib+"\n"),
		ThatVimscript("-c", "source "+filepath.Join(dir, "nope.vim")).
			ExitsWith(2).
			WritesStderrContaining("cannot read"),
		ThatVimscript("-c", "source").
			ExitsWith(2).
			WritesStderrContaining("file name required"),

		// :silent applies to the terminal
		ThatVimscript("-c", "silent echo 'hidden'\necho 'shown'").
			WritesStdout("shown\n"),
	)
}

func TestScript_Check(t *testing.T) {
	Test(t, &Program{},
		ThatVimscript("-check", "-c", "if 1\necho 1\nendif").DoesNothing(),
		// -check doesn't run the script
		ThatVimscript("-check", "-c", "echo x").DoesNothing(),
		ThatVimscript("-check", "-c", "if 1").
			ExitsWith(2).
			WritesStderrContaining("unexpected end of script"),
		ThatVimscript("-check", "-json", "-c", "if 1").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","start":0,"end":4,"message":"unexpected end of script"}]` + "\n"),
		ThatVimscript("-check", "-json", "-c", "endif").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","start":0,"end":5,"message":"unexpected keyword: endif"}]` + "\n"),
		ThatVimscript("-check", "-json", "-c", "echo 1").
			WritesStdout("[]\n"),
	)
}
