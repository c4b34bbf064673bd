// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rvim.sh/pkg/store/storedefs"
	"src.rvim.sh/pkg/vim/vals"
)

var (
	cmds     = []string{"echo foo", "let x = 1", "echo bar", "call F()"}
	wantCmds = []storedefs.Cmd{
		{Text: "echo foo", Seq: 1},
		{Text: "let x = 1", Seq: 2},
		{Text: "echo bar", Seq: 3},
		{Text: "call F()", Seq: 4},
	}
)

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", startSeq, err, 1)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%v) -> %v, %v, want %v, nil",
				cmd, seq, err, wantSeq)
		}
	}

	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil",
			endSeq, err, wantedEndSeq)
	}

	tests := []struct {
		from, upto int
		want       []storedefs.Cmd
	}{
		{0, endSeq, wantCmds},
		{startSeq + 1, startSeq + 3, wantCmds[1:3]},
		{-5, startSeq + 1, wantCmds[:1]},
		{endSeq, endSeq + 10, nil},
		{3, 2, nil},
	}
	for _, test := range tests {
		got, err := store.Cmds(test.from, test.upto)
		if err != nil {
			t.Errorf("store.Cmds(%v, %v) -> error %v", test.from, test.upto, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("store.Cmds(%v, %v) (-want +got):\n%s", test.from, test.upto, diff)
		}
	}
}

// TestSharedVar tests the shared variable functionality of a Store.
func TestSharedVar(t *testing.T, store storedefs.Store) {
	const varname = "foo"
	const value1 = "lorem ipsum"
	value2 := vals.NewList(1, -2, 2.5, true, nil,
		vals.ObjectOf("k", vals.NewList("v")))

	_, err := store.SharedVar(varname)
	if !errors.Is(err, storedefs.ErrNoVar) {
		t.Error("want ErrNoVar, got", err)
	}

	for _, value := range []any{value1, value2} {
		if err := store.SetSharedVar(varname, value); err != nil {
			t.Error("want no error, got", err)
		}
		v, err := store.SharedVar(varname)
		if !vals.Equal(v, value) || err != nil {
			t.Errorf("store.SharedVar() -> %s, %v, want %s, nil",
				vals.Repr(v), err, vals.Repr(value))
		}
	}

	if err := store.SetSharedVar("bar", 1); err != nil {
		t.Error("want no error, got", err)
	}
	names, err := store.SharedVarNames()
	if diff := cmp.Diff([]string{"bar", varname}, names); diff != "" || err != nil {
		t.Errorf("store.SharedVarNames() (-want +got):\n%s, err %v", diff, err)
	}

	if err := store.DelSharedVar(varname); err != nil {
		t.Error("want no error, got", err)
	}
	_, err = store.SharedVar(varname)
	if !errors.Is(err, storedefs.ErrNoVar) {
		t.Error("want ErrNoVar, got", err)
	}
}
