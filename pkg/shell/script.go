package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.rvim.sh/pkg/diag"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd   bool
	Check bool
	JSON  bool
}

// Executes a script, or checks it without running it. Arguments after the
// script are available in g:argv. Returns the exit status.
func script(s *Session, fds [3]*os.File, args []string, cfg *scriptCfg) int {
	src, err := loadScript(args[0], cfg.Cmd)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}
	argv := make([]any, len(args)-1)
	for i, arg := range args[1:] {
		argv[i] = arg
	}
	s.Ctx.InsertVar("g:argv", vals.NewList(argv...))

	if cfg.Check {
		diags := parse.Check(src)
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(diags))
		} else {
			for _, d := range diags {
				diag.ShowError(fds[2], d)
			}
		}
		if len(diags) > 0 {
			return 2
		}
		return 0
	}

	if err := s.Run(src); err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

func loadScript(arg0 string, inArg bool) (*parse.Source, error) {
	if inArg {
		return &parse.Source{Name: "code from -c", Code: arg0}, nil
	}
	name, err := filepath.Abs(arg0)
	if err != nil {
		return nil, fmt.Errorf("cannot get full path of script %q: %v", arg0, err)
	}
	code, err := readFileUTF8(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read script %q: %v", name, err)
	}
	return &parse.Source{Name: name, Code: code}, nil
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts the problems found by parse.Check into JSON.
func errorsToJSON(diags []*diag.Error) []byte {
	converted := []errorInJSON{}
	for _, e := range diags {
		converted = append(converted,
			errorInJSON{e.Context.Name, e.Context.From, e.Context.To, e.Message})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
