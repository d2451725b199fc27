package schema

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Names of the embedded definitions.
const (
	NameBundle   = "bundle"
	NameTask     = "task"
	NameBoard    = "board"
	NameSettings = "settings"
)

//go:embed definitions/*.yaml
var definitions embed.FS

var (
	registryOnce sync.Once
	registry     map[string]*Schema
	registryErr  error
)

// Parse parses a single YAML schema document. References are left
// unresolved; call Resolve before validating with the result.
func Parse(data []byte) (*Schema, error) {
	var s Schema

	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	return &s, nil
}

// Resolve replaces every $ref node reachable from s with the named schema
// from defs, then compiles the tree.
func Resolve(s *Schema, defs map[string]*Schema) error {
	if err := resolveRefs(s, defs, 0); err != nil {
		return err
	}

	return s.Compile()
}

const maxRefDepth = 32

func resolveRefs(s *Schema, defs map[string]*Schema, depth int) error {
	if depth > maxRefDepth {
		return fmt.Errorf("schema references nested deeper than %d levels", maxRefDepth)
	}

	for name, prop := range s.Properties {
		target, err := deref(prop, defs)
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}

		s.Properties[name] = target

		if err := resolveRefs(target, defs, depth+1); err != nil {
			return err
		}
	}

	if s.Items != nil {
		target, err := deref(s.Items, defs)
		if err != nil {
			return fmt.Errorf("items: %w", err)
		}

		s.Items = target

		return resolveRefs(target, defs, depth+1)
	}

	return nil
}

func deref(s *Schema, defs map[string]*Schema) (*Schema, error) {
	if s == nil || s.Ref == "" {
		return s, nil
	}

	target, ok := defs[s.Ref]
	if !ok {
		return nil, fmt.Errorf("unknown schema reference %q", s.Ref)
	}

	return target, nil
}

// Definitions returns the embedded schemas keyed by name, with references
// resolved. The result is shared and must not be modified.
func Definitions() (map[string]*Schema, error) {
	registryOnce.Do(func() {
		registry, registryErr = loadDefinitions()
	})

	return registry, registryErr
}

func loadDefinitions() (map[string]*Schema, error) {
	entries, err := definitions.ReadDir("definitions")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema definitions: %w", err)
	}

	defs := make(map[string]*Schema, len(entries))

	for _, entry := range entries {
		data, err := definitions.ReadFile(path.Join("definitions", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}

		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", entry.Name(), err)
		}

		defs[strings.TrimSuffix(entry.Name(), ".yaml")] = s
	}

	for name, s := range defs {
		if err := Resolve(s, defs); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}

	return defs, nil
}

// Lookup returns the embedded schema called name.
func Lookup(name string) (*Schema, error) {
	defs, err := Definitions()
	if err != nil {
		return nil, err
	}

	s, ok := defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	return s, nil
}

func mustLookup(name string) *Schema {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return s
}

// Bundle returns the schema of a whole bundle document.
func Bundle() *Schema { return mustLookup(NameBundle) }

// Task returns the schema of a single task record.
func Task() *Schema { return mustLookup(NameTask) }

// Board returns the schema of a single board record.
func Board() *Schema { return mustLookup(NameBoard) }

// Settings returns the schema of the settings record.
func Settings() *Schema { return mustLookup(NameSettings) }
