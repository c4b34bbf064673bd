package buildinfo

import (
	"fmt"
	"testing"

	. "src.rvim.sh/pkg/prog/progtest"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatVimscript("-version").WritesStdout(Value.Version+"\n"),
		ThatVimscript("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),

		ThatVimscript("-buildinfo").WritesStdout(
			fmt.Sprintf(
				"Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatVimscript("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),

		ThatVimscript().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}
