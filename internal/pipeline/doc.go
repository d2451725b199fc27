// Package pipeline reconciles a raw bundle document with an existing
// dataset.
//
// A run moves through fixed stages:
//
//	parse -> validate -> sanitize -> decode -> version -> relations ->
//	normalize -> detect -> resolve -> verify
//
// Sanitize and normalize are optional. A run stops at the first stage that
// leaves blocking errors; the Outcome then carries the diagnostics gathered
// so far and no bundle. The existing dataset is only read.
//
// # Relationship errors
//
// What happens to records that fail a relationship check is chosen by
// RelationshipPolicy:
//
//   - exclude: the offending task or board is left out of the import and
//     the error is reported as a warning
//   - abort: the errors block the import
//   - report: the errors are reported as warnings, the records stay, and
//     the merged result is verified as usual
//
// A task whose board is missing from the bundle but present in the
// existing dataset is not an error at all; it is reported as a warning and
// kept under every policy.
package pipeline
