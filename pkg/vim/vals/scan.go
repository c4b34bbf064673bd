package vals

import (
	"fmt"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
)

// ScanToGo converts a runtime value to the type ptr points to, and stores it.
// The supported pointer types and the values they accept are:
//
//	*any       any value
//	*string    strings and numbers (formatted with ToString)
//	*int       what ToInt accepts
//	*float64   what ToNum accepts
//	*bool      what Bool accepts, with every function reference true
//	*List      lists
//	*Object    dicts
//	*Funcref   function references and function names
func ScanToGo(v any, ptr any) error {
	switch ptr := ptr.(type) {
	case *any:
		*ptr = v
	case *string:
		switch v.(type) {
		case string, int, float64:
			*ptr = ToString(v)
		default:
			return errs.ExpectedType{Kind: "string", Got: Kind(v)}
		}
	case *int:
		i, err := ToInt(v)
		if err != nil {
			return err
		}
		*ptr = i
	case *float64:
		f, err := ToNum(v)
		if err != nil {
			return err
		}
		*ptr = f
	case *bool:
		b, err := Bool(v, nil)
		if err != nil {
			return err
		}
		*ptr = b
	case **List:
		l, err := ToList(v)
		if err != nil {
			return err
		}
		*ptr = l
	case **Object:
		o, err := ToObject(v)
		if err != nil {
			return err
		}
		*ptr = o
	case *Funcref:
		switch v := v.(type) {
		case Funcref:
			*ptr = v
		case string:
			*ptr = Funcref{Name: v, Script: ns.NoID}
		default:
			return errs.ExpectedType{Kind: "funcref", Got: Kind(v)}
		}
	default:
		panic(fmt.Sprintf("ScanToGo: unsupported destination %T", ptr))
	}
	return nil
}
