package lsp

import (
	"slices"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"src.rvim.sh/pkg/vim/parse"
)

type candidate struct {
	name string
	kind lsp.CompletionItemKind
}

func withKind(names []string, kind lsp.CompletionItemKind) []candidate {
	cands := make([]candidate, len(names))
	for i, name := range names {
		cands[i] = candidate{name, kind}
	}
	return cands
}

func isWordByte(b byte) bool {
	return b == '_' || b == ':' || b == '#' ||
		'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

// Returns the range of the name around idx.
func wordAt(s string, idx int) (from, to int) {
	from, to = idx, idx
	for from > 0 && isWordByte(s[from-1]) {
		from--
	}
	for to < len(s) && isWordByte(s[to]) {
		to++
	}
	return from, to
}

// Reports whether a command name is expected at idx: it is only preceded by
// blanks and colons since the start of the line or a bar.
func atCommandPosition(s string, idx int) bool {
	i := idx
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t' || s[i-1] == ':') {
		i--
	}
	switch {
	case i == 0 || s[i-1] == '\n' || s[i-1] == '\r':
		return true
	case s[i-1] == '|':
		// Not the || operator.
		return i < 2 || s[i-2] != '|'
	}
	return false
}

// Returns the names of the functions defined in a script.
func definedFuncs(code string) []string {
	var names []string
	eachLine(code, func(l parse.Line) {
		if l.Keyword() != "function" {
			return
		}
		if i := strings.IndexByte(l.Args, '('); i > 0 {
			names = append(names, strings.TrimSpace(l.Args[:i]))
		}
	})
	return sortedUnique(names)
}

// Returns the names of the variables assigned with :let or :for in a script.
func definedVars(code string) []string {
	var names []string
	eachLine(code, func(l parse.Line) {
		switch l.Keyword() {
		case "let", "for":
			from, to := wordAt(l.Args, 0)
			if to > from {
				names = append(names, l.Args[from:to])
			}
		}
	})
	return sortedUnique(names)
}

// Calls f with every line of code, skipping the ones that can't be parsed.
func eachLine(code string, f func(parse.Line)) {
	t := parse.NewTokenizer(&parse.Source{Code: code})
	for {
		line, ok, err := t.Next()
		if err != nil {
			continue
		}
		if !ok {
			return
		}
		f(line)
	}
}

func sortedUnique(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}

func mergeSorted(a, b []string) []string {
	return sortedUnique(append(slices.Clone(a), b...))
}

func contains(names []string, name string) bool {
	_, found := slices.BinarySearch(names, name)
	return found
}
