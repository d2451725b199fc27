// Package diagnostic provides structured errors, warnings and infos produced
// while validating and reconciling a bundle.
//
// Validators never return Go errors for data-shape problems. They return a
// Diagnostics value instead:
//   - Errors block the merge of the affected record (or the whole import)
//   - Warnings are informational and usually fixed by the sanitizer
//   - Infos record decisions worth surfacing in a detail view
//
// Every diagnostic carries a stable Code and the Path of the offending value,
// rendered like "tasks[3].tags[1]".
package diagnostic
