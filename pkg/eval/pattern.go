package eval

import (
	"regexp"
	"sort"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
)

// compilePattern compiles a Vim pattern in "magic" mode. The pattern is
// translated to RE2 syntax: \( \) \| \+ \= \? \{n,m} are the grouping and
// repetition operators, their unescaped forms are literals, \< and \> match
// word boundaries, and \c anywhere makes the pattern ignore case. Features RE2
// lacks, like backreferences, fail to compile.
func compilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '\\' || i+1 == len(pattern) {
			if strings.IndexByte("()|+?{}", c) >= 0 {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := pattern[i]; e {
		case '(', ')', '|', '+', '?':
			sb.WriteByte(e)
		case '=':
			sb.WriteByte('?')
		case '{':
			// \{n,m} and \{-n,m}, the lazy form. The closing brace may be
			// escaped or not.
			end := strings.IndexByte(pattern[i:], '}')
			if end == -1 {
				return nil, errs.InvalidArgument{Func: "pattern", Message: "unmatched \\{"}
			}
			bounds := strings.TrimSuffix(pattern[i+1:i+end], `\`)
			lazy := strings.HasPrefix(bounds, "-")
			bounds = strings.TrimPrefix(bounds, "-")
			if strings.HasPrefix(bounds, ",") {
				bounds = "0" + bounds
			}
			if bounds == "" {
				sb.WriteByte('*')
			} else {
				sb.WriteString("{" + bounds + "}")
			}
			if lazy {
				sb.WriteByte('?')
			}
			i += end
		case '<', '>':
			sb.WriteString(`\b`)
		case 'c':
			ignoreCase = true
		case 'C':
			ignoreCase = false
		case 's', 'S', 'd', 'D', 'w', 'W', 'n', 't':
			sb.WriteByte('\\')
			sb.WriteByte(e)
		case 'e':
			sb.WriteString(`\x1b`)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return nil, errs.InvalidArgument{Func: "pattern", Message: "backreferences are not supported"}
		default:
			sb.WriteString(regexp.QuoteMeta(string(e)))
		}
	}
	translated := sb.String()
	if ignoreCase {
		translated = "(?i)" + translated
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, errs.InvalidArgument{Func: "pattern", Message: err.Error()}
	}
	return re, nil
}

// expandReplacement converts the replacement string of substitute() into the
// template syntax of regexp.Expand: & and \0 are the whole match, \1 to \9
// the groups, and \& a literal ampersand.
func expandReplacement(sub string) string {
	var sb strings.Builder
	for i := 0; i < len(sub); i++ {
		c := sub[i]
		switch {
		case c == '&':
			sb.WriteString("${0}")
		case c == '$':
			sb.WriteString("$$")
		case c == '\\' && i+1 < len(sub):
			i++
			switch e := sub[i]; {
			case e >= '0' && e <= '9':
				sb.WriteString("${" + string(e) + "}")
			case e == 'n':
				sb.WriteByte('\n')
			case e == 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
