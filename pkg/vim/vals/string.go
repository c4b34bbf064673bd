package vals

import (
	"math"
	"strconv"
	"strings"
)

// ToString formats a value the way string concatenation and :echo show it.
// Strings are returned verbatim; containers use their Repr.
func ToString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "v:null"
	case Funcref:
		return v.Name
	}
	return Repr(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Repr returns a representation of a value in Vim script literal syntax where
// one exists.
func Repr(v any) string {
	var sb strings.Builder
	writeRepr(&sb, v, 0)
	return sb.String()
}

// Containers can only reject direct self-insertion, so deeper cycles are cut
// off by depth.
const maxReprDepth = 64

func writeRepr(sb *strings.Builder, v any, depth int) {
	if depth > maxReprDepth {
		sb.WriteString("...")
		return
	}
	switch v := v.(type) {
	case string:
		sb.WriteString(Quote(v))
	case *List:
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			if el, ok := e.(*List); ok && el == v {
				sb.WriteString("[...]")
				continue
			}
			writeRepr(sb, e, depth+1)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Quote(k))
			sb.WriteString(": ")
			if e, ok := v.m[k].(*Object); ok && e == v {
				sb.WriteString("{...}")
			} else {
				writeRepr(sb, v.m[k], depth+1)
			}
		}
		sb.WriteByte('}')
	case Funcref:
		sb.WriteString("function(")
		sb.WriteString(Quote(v.Name))
		sb.WriteByte(')')
	case bool:
		if v {
			sb.WriteString("v:true")
		} else {
			sb.WriteString("v:false")
		}
	default:
		sb.WriteString(ToString(v))
	}
}

// Quote returns s as a single-quoted string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
