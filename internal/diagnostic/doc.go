// Package diagnostic turns property binding outcomes and manifest problems
// into coded, human-readable diagnostics.
//
// Key capabilities:
//   - One diagnostic per rejected value of a batch
//   - Fatal failures reported with "did you mean" suggestions
//   - Warnings and infos for manifest checks
package diagnostic
