package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Type is a JSON value type name.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
)

// IsValid returns true if the type is one a schema may declare.
func (t Type) IsValid() bool {
	switch t {
	case TypeObject, TypeArray, TypeString, TypeNumber, TypeBoolean:
		return true
	default:
		return false
	}
}

// TypeSet is a union of allowed types. It unmarshals from a single type name
// or a list of them.
type TypeSet []Type

// UnmarshalYAML implements yaml.Unmarshaler.
func (ts *TypeSet) UnmarshalYAML(unmarshal func(any) error) error {
	var single Type
	if err := unmarshal(&single); err == nil {
		*ts = TypeSet{single}
		return nil
	}

	var multi []Type
	if err := unmarshal(&multi); err == nil {
		*ts = multi
		return nil
	}

	return errors.New("expected type name or list of type names")
}

// MarshalYAML implements yaml.Marshaler.
func (ts TypeSet) MarshalYAML() (any, error) {
	if len(ts) == 1 {
		return string(ts[0]), nil
	}

	return []Type(ts), nil
}

// Allows reports whether a value of type t is permitted. An empty set allows
// every type.
func (ts TypeSet) Allows(t Type) bool {
	return len(ts) == 0 || slices.Contains(ts, t)
}

func (ts TypeSet) String() string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = string(t)
	}

	return strings.Join(names, "|")
}

// Format names a string format check.
type Format string

// FormatDateTime requires an RFC 3339 timestamp.
const FormatDateTime Format = "date-time"

// Schema is one node of a declarative schema tree.
type Schema struct {
	Type                 TypeSet            `yaml:"type,omitempty"`
	Ref                  string             `yaml:"$ref,omitempty"`
	Required             []string           `yaml:"required,omitempty"`
	Properties           map[string]*Schema `yaml:"properties,omitempty"`
	AdditionalProperties *bool              `yaml:"additionalProperties,omitempty"`
	Items                *Schema            `yaml:"items,omitempty"`
	MaxItems             *int               `yaml:"maxItems,omitempty"`
	MinLength            *int               `yaml:"minLength,omitempty"`
	MaxLength            *int               `yaml:"maxLength,omitempty"`
	Pattern              string             `yaml:"pattern,omitempty"`
	Enum                 []string           `yaml:"enum,omitempty"`
	Format               Format             `yaml:"format,omitempty"`
	Minimum              *float64           `yaml:"minimum,omitempty"`
	Maximum              *float64           `yaml:"maximum,omitempty"`
	Default              any                `yaml:"default,omitempty"`
	Identifier           bool               `yaml:"identifier,omitempty"`

	pattern *regexp.Regexp
}

// AllowsAdditional reports whether properties not listed in Properties are
// permitted.
func (s *Schema) AllowsAdditional() bool {
	return s.AdditionalProperties == nil || *s.AdditionalProperties
}

// Is reports whether the schema declares exactly the single type t.
func (s *Schema) Is(t Type) bool {
	return len(s.Type) == 1 && s.Type[0] == t
}

// IsRequired reports whether name is listed in Required.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// DefaultValue returns a fresh copy of the declared default, normalized to
// the JSON value model, and whether one is declared.
func (s *Schema) DefaultValue() (any, bool) {
	if s.Default == nil {
		return nil, false
	}

	return Normalize(s.Default), true
}

// MatchPattern reports whether v matches the declared pattern. A schema
// without a pattern matches everything.
func (s *Schema) MatchPattern(v string) (bool, error) {
	if s.Pattern == "" {
		return true, nil
	}

	re := s.pattern
	if re == nil {
		var err error
		if re, err = regexp.Compile(s.Pattern); err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", s.Pattern, err)
		}
	}

	return re.MatchString(v), nil
}

// Compile checks the declared types and precompiles patterns for the whole
// tree. Nodes that still carry an unresolved $ref are rejected.
func (s *Schema) Compile() error {
	return s.compile("")
}

func (s *Schema) compile(at string) error {
	if s.Ref != "" {
		return fmt.Errorf("unresolved reference %q at %s", s.Ref, displayPath(at))
	}

	for _, t := range s.Type {
		if !t.IsValid() {
			return fmt.Errorf("unknown type %q at %s", t, displayPath(at))
		}
	}

	if s.Pattern != "" && s.pattern == nil {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern at %s: %w", displayPath(at), err)
		}

		s.pattern = re
	}

	for name, prop := range s.Properties {
		if prop == nil {
			return fmt.Errorf("empty schema for property %q at %s", name, displayPath(at))
		}

		if err := prop.compile(joinPath(at, name)); err != nil {
			return err
		}
	}

	if s.Items != nil {
		return s.Items.compile(at + "[]")
	}

	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}

func displayPath(p string) string {
	if p == "" {
		return "root"
	}

	return p
}
