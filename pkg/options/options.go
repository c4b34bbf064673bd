// Package options keeps the editor options that scripts read with &name and
// change with :set.
package options

import (
	"fmt"
	"strconv"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
)

// Options holds the current value of every option in Table.
type Options struct {
	values map[string]any
}

// New returns Options with every option at its default.
func New() *Options {
	o := &Options{values: make(map[string]any, len(Table))}
	for _, opt := range Table {
		o.values[opt.Name] = opt.Default
	}
	return o
}

// Option reads may carry the l: or g: qualifier of &l:name and &g:name. There
// are no local options, so both see the same value.
func lookup(name string) (*Option, error) {
	if len(name) > 2 && (name[:2] == "l:" || name[:2] == "g:") {
		name = name[2:]
	}
	opt, ok := Lookup(name)
	if !ok {
		return nil, errs.VariableUndefined{Name: "&" + name}
	}
	return opt, nil
}

// Get returns the value of an option: a bool, an int or a string.
func (o *Options) Get(name string) (any, error) {
	opt, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return o.values[opt.Name], nil
}

// Set parses text according to the kind of the option and stores it. Boolean
// options accept numbers, with zero meaning off, as well as true and false.
func (o *Options) Set(name, text string) error {
	opt, err := lookup(name)
	if err != nil {
		return err
	}
	v, err := parseValue(opt, text)
	if err != nil {
		return err
	}
	o.values[opt.Name] = v
	return nil
}

func parseValue(opt *Option, text string) (any, error) {
	switch opt.Kind {
	case Bool:
		switch text {
		case "true", "v:true":
			return true, nil
		case "false", "v:false":
			return false, nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, errs.ExpectedType{Kind: "bool", Got: "string"}
		}
		return n != 0, nil
	case Int:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, errs.ExpectedType{Kind: "number", Got: "string"}
		}
		return n, nil
	}
	return text, nil
}

// SetBool sets a boolean option. It fails with errs.ErrNotABool for other
// options.
func (o *Options) SetBool(name string, b bool) error {
	opt, err := lookup(name)
	if err != nil {
		return err
	}
	if opt.Kind != Bool {
		return errs.ErrNotABool
	}
	o.values[opt.Name] = b
	return nil
}

// Reset restores the default value of an option.
func (o *Options) Reset(name string) error {
	opt, err := lookup(name)
	if err != nil {
		return err
	}
	o.values[opt.Name] = opt.Default
	return nil
}

// NonDefault returns the options that differ from their defaults, formatted
// the way :set shows them.
func (o *Options) NonDefault() []string {
	var lines []string
	for i := range Table {
		opt := &Table[i]
		if o.values[opt.Name] != opt.Default {
			lines = append(lines, o.format(opt))
		}
	}
	return lines
}

// All returns every option, formatted the way :set shows them.
func (o *Options) All() []string {
	lines := make([]string, len(Table))
	for i := range Table {
		lines[i] = o.format(&Table[i])
	}
	return lines
}

// Boolean options show as name or noname, others as name=value.
func (o *Options) format(opt *Option) string {
	v := o.values[opt.Name]
	if b, ok := v.(bool); ok {
		if b {
			return "  " + opt.Name
		}
		return "no" + opt.Name
	}
	return fmt.Sprintf("  %s=%v", opt.Name, v)
}

// Format returns a single option formatted the way :set name? shows it.
func (o *Options) Format(name string) (string, error) {
	opt, err := lookup(name)
	if err != nil {
		return "", err
	}
	return strings.TrimLeft(o.format(opt), " "), nil
}
