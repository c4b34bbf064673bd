// Package vals contains the runtime values of Vim script and the operations on
// them.
//
// Values use native Go types where possible:
//
//	Integer   int
//	Number    float64
//	Str       string
//	Bool      bool
//	List      *List
//	Object    *Object
//	Function  Funcref
//	Nil       nil
//
// *List and *Object are shared handles: every value aliasing one observes
// mutations made through any other, unless DeepCopy is used.
package vals

import "fmt"

// Type numbers, matching the v:t_* constants.
const (
	TypeInteger = 0
	TypeStr     = 1
	TypeFuncref = 2
	TypeList    = 3
	TypeObject  = 4
	TypeNumber  = 5
	TypeBool    = 6
	TypeNil     = 7
)

// Kind returns the name of the kind of a value. For values of foreign types it
// returns the Go type name preceded by "!!".
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case int:
		return "number"
	case float64:
		return "float"
	case string:
		return "string"
	case bool:
		return "bool"
	case *List:
		return "list"
	case *Object:
		return "dict"
	case Funcref:
		return "funcref"
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// Type returns the type number of a value, as reported by type(). Foreign
// values report -1.
func Type(v any) int {
	switch v.(type) {
	case nil:
		return TypeNil
	case int:
		return TypeInteger
	case float64:
		return TypeNumber
	case string:
		return TypeStr
	case bool:
		return TypeBool
	case *List:
		return TypeList
	case *Object:
		return TypeObject
	case Funcref:
		return TypeFuncref
	}
	return -1
}
