package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	"src.rvim.sh/pkg/logutil"
	"src.rvim.sh/pkg/vim/errs"
)

var logger = logutil.GetLogger("[options] ")

const schemaURL = "rvim://options.schema.json"

var schema = mustCompileSchema()

// Schema returns the JSON Schema that option files are validated against. It
// is an object with one property per option, typed after the option's kind.
func Schema() map[string]any {
	props := make(map[string]any, len(Table))
	for _, opt := range Table {
		typ := "string"
		switch opt.Kind {
		case Bool:
			typ = "boolean"
		case Int:
			typ = "integer"
		}
		props[opt.Name] = map[string]any{"type": typ, "default": opt.Default}
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func mustCompileSchema() *jsonschema.Schema {
	data, err := json.Marshal(Schema())
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(schemaURL)
}

// LoadFile reads option values from a YAML (.yaml, .yml) or TOML (.toml)
// file. The file is validated as a whole before any option changes.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.IO{Path: path, Err: err}
	}
	var doc map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return fmt.Errorf("%s: unsupported options file type %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if doc == nil {
		// An empty YAML document.
		doc = map[string]any{}
	}

	// Go through JSON so that the validator sees only JSON types.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	values := v.(map[string]any)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opt, _ := Lookup(name)
		switch value := values[name].(type) {
		case json.Number:
			n, err := value.Int64()
			if err != nil {
				return fmt.Errorf("%s: %s: %w", path, name, err)
			}
			o.values[opt.Name] = int(n)
		default:
			o.values[opt.Name] = value
		}
	}
	logger.Printf("loaded %d options from %s", len(names), path)
	return nil
}
