// Package progtest contains utilities for testing [prog.Program] instances.
//
// Test cases are constructed with ThatVimscript, naming the command-line
// arguments, followed by methods that describe the expected outcome:
//
//	Test(t, p,
//	    ThatVimscript("-c", "echo 1").WritesStdout("1\n"),
//	    ThatVimscript("-bad").ExitsWith(2).WritesStderrContaining("Usage:"))
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rvim.sh/pkg/must"
	"src.rvim.sh/pkg/prog"
)

// Case is a test case for a program.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit   int
	stdout output
	stderr output
}

type output struct {
	content  string
	partial  bool
	explicit bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + o.content
	}
	return o.content
}

// ThatVimscript returns a Case that runs the program with the given
// arguments. By default the case expects an exit status of 0 and no output.
func ThatVimscript(args ...string) Case {
	return Case{args: append([]string{"vimscript"}, args...)}
}

// WithStdin returns an altered Case that feeds the given text to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any expectations, for example:
//
//	ThatVimscript("x.vim").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to return with
// the given exit status.
func (c Case) ExitsWith(code int) Case {
	c.want.exit = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s, explicit: true}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true, explicit: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s, explicit: true}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true, explicit: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, tc := range cases {
		t.Run(strings.Join(tc.args[1:], " "), func(t *testing.T) {
			t.Helper()
			exit, stdout, stderr := Run(p, tc.stdin, tc.args...)
			if exit != tc.want.exit {
				t.Errorf("got exit %v, want %v", exit, tc.want.exit)
			}
			checkOutput(t, "stdout", stdout, tc.want.stdout)
			checkOutput(t, "stderr", stderr, tc.want.stderr)
		})
	}
}

func checkOutput(t *testing.T, name, got string, want output) {
	t.Helper()
	if want.partial {
		if !strings.Contains(got, want.content) {
			t.Errorf("got %s %q, want %s", name, got, want)
		}
		return
	}
	if got != want.content {
		t.Errorf("%s (-want +got):\n%s", name, cmp.Diff(want.content, got))
	}
}

// Run runs a program with the given arguments, which include the program name,
// and stdin. It returns the exit status and the output. Output is read
// concurrently so that programs writing more than a pipe can buffer don't
// block.
func Run(p prog.Program, stdin string, args ...string) (exit int, stdout, stderr string) {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	outCh, errCh := readAllAsync(r1), readAllAsync(r2)

	exit = prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return exit, <-outCh, <-errCh
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}
