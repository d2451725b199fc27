// Package sanitize repairs untyped documents against a schema.
//
// Sanitize never modifies its input. It walks the value and builds a new
// tree, applying the enabled fixes to each node in a fixed order:
//
//  1. strip properties the schema does not allow
//  2. fill missing required fields with defaults (or generated ids)
//  3. recurse into properties and array items
//  4. convert recognizable dates to ISO-8601
//  5. truncate overlong strings and arrays
//  6. trim and collapse whitespace
//
// Every fix is reported as a diagnostic.Change. The operation is idempotent:
// sanitizing sanitized output reports no changes.
package sanitize
