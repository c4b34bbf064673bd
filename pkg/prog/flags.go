package prog

import "flag"

// FlagSet wraps a [flag.FlagSet] and provides methods to register flags
// shared by multiple subprograms. Each of them registers the flag the first
// time it is called and returns the same pointer afterwards.
type FlagSet struct {
	*flag.FlagSet
	json *bool
	db   *string
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -check or -version in JSON")
		fs.json = &json
	}
	return fs.json
}

// DB returns a pointer to the value of the -db flag.
func (fs *FlagSet) DB() *string {
	if fs.db == nil {
		var db string
		fs.StringVar(&db, "db", "",
			"Path to the database of shared variables and command history")
		fs.db = &db
	}
	return fs.db
}
