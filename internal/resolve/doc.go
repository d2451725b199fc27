// Package resolve merges an incoming bundle into the existing dataset
// according to per-entity strategies.
//
// # Strategies
//
// Tasks and boards use one of:
//   - skip: an incoming record whose id already exists is dropped
//   - overwrite: it replaces the existing record with that id
//   - generateNewIds: it is kept under a freshly generated id
//
// Settings use skip, overwrite or merge. Merge compares the two records
// field by field and settles each difference with the MergeStrategy
// tie-break rule.
//
// # Order of operations
//
// Boards are resolved first and every board id change is recorded in an
// IDMap. Task board references are rewritten from that map before any task
// id is regenerated. Orphan handling runs after duplicate handling, so a
// task skipped as a duplicate is never also reported as an orphan.
//
// Every decision is appended to the resolution log.
package resolve
