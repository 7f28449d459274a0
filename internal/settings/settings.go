// Package settings loads the optional .taskforge.yml settings file
// supplying engine defaults: default target, parallelism, single-target
// mode, and environment-variable overrides. Validated against an embedded
// JSON Schema compiled once via a sync.Once guard, and decoded with
// gopkg.in/yaml.v3.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	schemafs "github.com/andreyakinshin/taskforge/schema"
)

// Settings is the parsed, schema-validated content of .taskforge.yml.
type Settings struct {
	Target       string            `yaml:"target,omitempty"`
	ParallelJobs int               `yaml:"parallel_jobs,omitempty"`
	SingleTarget bool              `yaml:"single_target,omitempty"`
	Environment  map[string]string `yaml:"environment,omitempty"`
}

var (
	compiled    *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

func compile() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile("taskforge.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read taskforge schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal taskforge schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("taskforge.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add taskforge schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("taskforge.schema.json")
	})
	return compiled, compileErr
}

// Validate checks doc (already YAML-decoded into a generic value via
// yaml.Unmarshal, which produces JSON-compatible map[string]interface{}
// shapes for mapping nodes) against the embedded schema.
func Validate(doc interface{}) error {
	schema, err := compile()
	if err != nil {
		return err
	}
	// jsonschema/v6 requires plain JSON types (map[string]interface{}, not
	// map[interface{}]interface{}); round-trip through encoding/json to
	// normalize whatever yaml.v3 produced.
	normalized, err := roundTripJSON(doc)
	if err != nil {
		return fmt.Errorf("normalize settings document: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

func roundTripJSON(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads and validates path (typically ".taskforge.yml"). A missing
// file is not an error: Load returns a zero-value *Settings so callers fall
// through to CLI/env-var defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if err := Validate(generic); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings file %s: %w", path, err)
	}
	return &s, nil
}

// ApplyEnvironment sets every key/value pair from s.Environment into the
// process environment, as a settings-file-level equivalent of the CLI's
// -e/--environment-variable flag.
func (s *Settings) ApplyEnvironment() error {
	for k, v := range s.Environment {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("setting environment variable %q: %w", k, err)
		}
	}
	return nil
}
