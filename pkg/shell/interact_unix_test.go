//go:build !windows && !plan9 && !js

package shell

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"src.rvim.sh/pkg/must"
	"src.rvim.sh/pkg/prog"
	"src.rvim.sh/pkg/testutil"
)

func TestInteract_TTY(t *testing.T) {
	ptmx, tty := must.OK2(pty.Open())
	defer ptmx.Close()
	defer tty.Close()

	exit := make(chan int, 1)
	go func() {
		exit <- prog.Run([3]*os.File{tty, tty, tty},
			[]string{"vimscript", "-norc"}, &Program{})
	}()

	must.OK1(ptmx.Write([]byte("echo 'hi' . 'there'\n")))
	waitForOutput(t, ptmx, "hithere\r\n")
	// Ctrl-D ends the session.
	must.OK1(ptmx.Write([]byte{4}))

	select {
	case code := <-exit:
		if code != 0 {
			t.Errorf("got exit %v, want 0", code)
		}
	case <-time.After(testutil.Scaled(2 * time.Second)):
		t.Fatal("timed out waiting for the session to end")
	}
}

func waitForOutput(t *testing.T, f *os.File, want string) {
	t.Helper()
	found := make(chan struct{})
	go func() {
		var buf bytes.Buffer
		b := make([]byte, 1024)
		for {
			n, err := f.Read(b)
			buf.Write(b[:n])
			if bytes.Contains(buf.Bytes(), []byte(want)) {
				close(found)
				return
			}
			if err != nil {
				return
			}
		}
	}()
	select {
	case <-found:
	case <-time.After(testutil.Scaled(2 * time.Second)):
		t.Fatalf("timed out waiting for %q", want)
	}
}
