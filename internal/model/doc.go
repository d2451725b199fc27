// Package model defines the typed bundle exchanged between datasets and the
// decode step that turns an untyped parsed document into it.
//
// A Bundle is built once per import attempt. Every stage of the pipeline
// returns new values; nothing in this package mutates its inputs.
//
// # Decode boundary
//
// Parsed documents arrive as untyped trees (map[string]any, []any, string,
// float64, bool, nil). Decode converts such a tree into a Bundle and reports
// every shape problem it meets as a diagnostic, so later stages work on typed
// values only and never re-check shapes ad hoc.
package model
