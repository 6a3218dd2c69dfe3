// Package schemas holds the JSON Schemas for the catalog file and for every
// persisted client-state blob.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed state/*.json
var schemaFS embed.FS

// Schema names, one per persisted key plus the catalog file.
const (
	Catalog    = "catalog"
	Cart       = "cart"
	Favorites  = "favorites"
	Comparison = "comparison"
	Theme      = "theme"
	User       = "user"
	Orders     = "orders"
)

var (
	once     sync.Once
	compiled map[string]*jsonschema.Schema
	loadErr  error
)

func load() {
	compiler := jsonschema.NewCompiler()

	// every file is registered first so $ref between them resolves
	err := fs.WalkDir(schemaFS, "state", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemaFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		loadErr = err
		return
	}

	compiled = make(map[string]*jsonschema.Schema)
	for _, name := range []string{Catalog, Cart, Favorites, Comparison, Theme, User, Orders} {
		schema, err := compiler.Compile("state/" + name + ".json")
		if err != nil {
			loadErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
			return
		}
		compiled[name] = schema
	}
}

// Validate checks that body is JSON conforming to the named schema.
func Validate(name string, body []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}

	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}
