// Package match provides the text normalization shared by the sanitizer,
// the relationship validator and the conflict detector, and the fuzzy
// matching behind schema suggestions.
//
// Key functions:
//   - NormalizeName: folds a display name for case-insensitive comparison
//   - SameName: compares two display names after folding
//   - CollapseWhitespace: trims and collapses whitespace runs to one space
//   - Closest: picks the most similar allowed value by edit distance
package match
