package options

// Kind is the type of an option's value.
type Kind int

// Option kinds.
const (
	Bool Kind = iota
	Int
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "number"
	default:
		return "string"
	}
}

// Option describes one option.
type Option struct {
	Name    string
	Short   string
	Kind    Kind
	Default any
}

// Table lists all options, in the order :set all shows them.
var Table = []Option{
	{"autoindent", "ai", Bool, true},
	{"background", "bg", String, "dark"},
	{"columns", "co", Int, 80},
	{"cpoptions", "cpo", String, "aABceFs"},
	{"encoding", "enc", String, "utf-8"},
	{"expandtab", "et", Bool, false},
	{"fileformat", "ff", String, "unix"},
	{"filetype", "ft", String, ""},
	{"history", "hi", Int, 10000},
	{"hlsearch", "hls", Bool, false},
	{"ignorecase", "ic", Bool, false},
	{"incsearch", "is", Bool, false},
	{"lines", "", Int, 24},
	{"list", "", Bool, false},
	{"magic", "", Bool, true},
	{"modeline", "ml", Bool, true},
	{"number", "nu", Bool, false},
	{"relativenumber", "rnu", Bool, false},
	{"shell", "sh", String, "sh"},
	{"shiftwidth", "sw", Int, 8},
	{"smartcase", "scs", Bool, false},
	{"softtabstop", "sts", Int, 0},
	{"tabstop", "ts", Int, 8},
	{"textwidth", "tw", Int, 0},
	{"timeoutlen", "tm", Int, 1000},
	{"undolevels", "ul", Int, 1000},
	{"verbose", "vbs", Int, 0},
	{"wrap", "", Bool, true},
	{"wrapscan", "ws", Bool, true},
}

var byName = map[string]*Option{}

func init() {
	for i := range Table {
		opt := &Table[i]
		byName[opt.Name] = opt
		if opt.Short != "" {
			byName[opt.Short] = opt
		}
	}
}

// Lookup finds an option by its full or short name.
func Lookup(name string) (*Option, bool) {
	opt, ok := byName[name]
	return opt, ok
}
