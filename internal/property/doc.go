// Package property implements binding.Target over ordinary Go values using
// reflection.
//
// An Accessor wraps a root value (a non-nil pointer or a map) and resolves
// property paths against it:
//
//	Name              exported struct field or string map key
//	Address.Street    nested field
//	Items[0].SKU      slice or array element
//	Labels[env]       map entry, quotes optional: Labels['env']
//	Matrix[1][2]      chained keys
//
// # Struct fields
//
// A path name matches the field's tag name (tag "prop" by default, see
// WithTagName) or its Go name. Embedded fields are promoted. Tag options:
//
//	`prop:"-"`              hidden
//	`prop:"name,readonly"`  visible to Read, not writable
//
// When the struct pointer has a method Set<Field> taking one argument and
// returning nothing or an error, Write calls it instead of assigning the
// field.
//
// # Writes
//
// Values are converted to the destination type before assignment; see
// Convert. With WithValidator, fields carrying a `validate` tag are checked
// after conversion. Nil intermediate values are created only with
// WithAutoGrow.
//
// Failures are reported as *binding.PropertyError so that binding.Apply can
// classify them.
package property
