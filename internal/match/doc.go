// Package match finds property names similar to a name that could not be
// resolved, for "did you mean" hints on unknown properties.
//
// Key functions:
//   - Fold: case- and separator-insensitive form of an identifier
//   - Distance: Levenshtein edit distance over runes
//   - Suggest: ranks candidate names close to a missing one
package match
