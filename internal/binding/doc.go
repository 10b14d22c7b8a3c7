// Package binding applies ordered batches of property assignments to a
// Target and aggregates the failures that do not stop the batch.
//
// A Target exposes named properties through Read and Write. Every Write
// failure is classified by Kind:
//   - KindNotWritable: the property is missing or read-only. Swallowed when
//     Flags.IgnoreUnknown is set, otherwise the batch stops.
//   - KindNullPath: a nested path runs through a nil segment. Swallowed when
//     Flags.IgnoreInvalid is set, otherwise the batch stops.
//   - KindValueRejected: the property was reached but refused the value.
//     Always collected; the batch continues.
//
// A stopped batch returns the single *PropertyError that stopped it. A batch
// that ran to completion with rejected values returns one *BatchError holding
// every rejection in assignment order. Writes that succeeded before a stop are
// not rolled back.
//
// The IgnoreUnknown setting travels to the target as a Scope value for the
// duration of one Apply call; targets implementing ScopedTarget may use it to
// skip work on failures that will be discarded. No state outlives the call.
package binding
