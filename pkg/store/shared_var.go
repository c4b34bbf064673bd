package store

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
	. "src.rvim.sh/pkg/store/storedefs"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

func init() {
	initDB["initialize shared variable table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSharedVar))
		return err
	}
}

var (
	encMode = must(cbor.CanonicalEncOptions().EncMode())
	decMode = must(cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode())
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// SharedVar gets the value of a shared variable.
func (s *dbStore) SharedVar(n string) (any, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		v := b.Get([]byte(n))
		if v == nil {
			return ErrNoVar
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeValue(data)
}

// SetSharedVar sets the value of a shared variable.
func (s *dbStore) SetSharedVar(n string, v any) error {
	data, err := encodeValue(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.Put([]byte(n), data)
	})
}

// DelSharedVar deletes a shared variable.
func (s *dbStore) DelSharedVar(n string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.Delete([]byte(n))
	})
}

// SharedVarNames returns the names of all shared variables, in byte order.
func (s *dbStore) SharedVarNames() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSharedVar))
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func encodeValue(v any) ([]byte, error) {
	plain, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(plain)
}

func decodeValue(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("corrupt shared variable: %w", err)
	}
	return vals.FromGo(v), nil
}

// Converts a runtime value to values that CBOR can encode. Funcrefs refer to
// functions of one interpreter and cannot be stored.
func toPlain(v any) (any, error) {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v, nil
	case *vals.List:
		elems := v.Elems()
		l := make([]any, len(elems))
		for i, e := range elems {
			p, err := toPlain(e)
			if err != nil {
				return nil, err
			}
			l[i] = p
		}
		return l, nil
	case *vals.Object:
		m := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			p, err := toPlain(e)
			if err != nil {
				return nil, err
			}
			m[k] = p
		}
		return m, nil
	}
	return nil, errs.ExpectedType{Kind: "storable value", Got: vals.Kind(v)}
}
