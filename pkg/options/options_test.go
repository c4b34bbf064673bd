package options_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "src.rvim.sh/pkg/options"
	"src.rvim.sh/pkg/tt"
	"src.rvim.sh/pkg/vim/errs"
)

func TestTable(t *testing.T) {
	seen := map[string]bool{}
	for _, opt := range Table {
		for _, name := range []string{opt.Name, opt.Short} {
			if name == "" {
				continue
			}
			if seen[name] {
				t.Errorf("name %q used twice", name)
			}
			seen[name] = true
		}
		var ok bool
		switch opt.Kind {
		case Bool:
			_, ok = opt.Default.(bool)
		case Int:
			_, ok = opt.Default.(int)
		case String:
			_, ok = opt.Default.(string)
		}
		if !ok {
			t.Errorf("default of %s is %T, want %s", opt.Name, opt.Default, opt.Kind)
		}
	}
}

func TestGet(t *testing.T) {
	o := New()
	tt.Test(t, tt.Fn("Get", o.Get), tt.Table{
		tt.Args("ignorecase").Rets(false, nil),
		tt.Args("ic").Rets(false, nil),
		tt.Args("g:ic").Rets(false, nil),
		tt.Args("l:tabstop").Rets(8, nil),
		tt.Args("background").Rets("dark", nil),
		tt.Args("nosuch").Rets(nil, errs.VariableUndefined{Name: "&nosuch"}),
	})
}

func TestSet(t *testing.T) {
	set := func(name, text string) (any, error) {
		o := New()
		if err := o.Set(name, text); err != nil {
			return nil, err
		}
		return o.Get(name)
	}
	tt.Test(t, tt.Fn("Set", set), tt.Table{
		tt.Args("ts", "4").Rets(4, nil),
		tt.Args("ts", "x").Rets(nil, errs.ExpectedType{Kind: "number", Got: "string"}),
		tt.Args("ic", "1").Rets(true, nil),
		tt.Args("ic", "0").Rets(false, nil),
		tt.Args("ic", "true").Rets(true, nil),
		tt.Args("ic", "v:false").Rets(false, nil),
		tt.Args("ic", "yes").Rets(nil, errs.ExpectedType{Kind: "bool", Got: "string"}),
		tt.Args("ft", "vim").Rets("vim", nil),
		tt.Args("ft", "").Rets("", nil),
		tt.Args("nosuch", "1").Rets(nil, errs.VariableUndefined{Name: "&nosuch"}),
	})
}

func TestSetBool(t *testing.T) {
	setBool := func(name string, b bool) error { return New().SetBool(name, b) }
	tt.Test(t, tt.Fn("SetBool", setBool).Opts(cmpopts.EquateErrors()), tt.Table{
		tt.Args("ic", true).Rets(nil),
		tt.Args("ts", true).Rets(errs.ErrNotABool),
		tt.Args("nosuch", true).Rets(errs.VariableUndefined{Name: "&nosuch"}),
	})
}

func TestResetAndNonDefault(t *testing.T) {
	o := New()
	if got := o.NonDefault(); len(got) != 0 {
		t.Errorf("NonDefault of new Options = %q, want none", got)
	}
	o.SetBool("ic", true)
	o.Set("ts", "4")
	o.SetBool("wrap", false)
	want := []string{"  ignorecase", "  tabstop=4", "nowrap"}
	if diff := cmp.Diff(want, o.NonDefault()); diff != "" {
		t.Errorf("NonDefault (-want +got):\n%s", diff)
	}
	o.Reset("tabstop")
	o.Reset("ic")
	o.Reset("wrap")
	if got := o.NonDefault(); len(got) != 0 {
		t.Errorf("NonDefault after Reset = %q, want none", got)
	}
	if err := o.Reset("nosuch"); err != (errs.VariableUndefined{Name: "&nosuch"}) {
		t.Errorf("Reset(nosuch) -> %v", err)
	}
}

func TestAll(t *testing.T) {
	all := New().All()
	if len(all) != len(Table) {
		t.Errorf("All returned %d lines, want %d", len(all), len(Table))
	}
}
