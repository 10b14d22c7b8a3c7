package binding

import (
	"maps"
	"slices"
)

// Target exposes named properties of some object.
// Write failures should be returned as *PropertyError so Apply can classify
// them; any other error is treated as a rejected value.
type Target interface {
	Read(name string) (any, error)
	Write(name string, value any) error
}

// Scope carries the tolerance settings of one Apply call to the target.
type Scope struct {
	// IgnoreUnknown is true when KindNotWritable failures will be discarded.
	IgnoreUnknown bool
}

// ScopedTarget is implemented by targets that want to know the calling
// batch's Scope. Apply prefers WriteScoped over Write when available.
type ScopedTarget interface {
	Target
	WriteScoped(scope Scope, name string, value any) error
}

// Assignment is one property name and the value to write to it.
type Assignment struct {
	Name  string
	Value any
}

// Assignments is an ordered batch of assignments.
type Assignments []Assignment

// FromMap builds assignments from m with keys in sorted order.
func FromMap(m map[string]any) Assignments {
	out := make(Assignments, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Assignment{Name: k, Value: m[k]})
	}

	return out
}

// Add appends an assignment and returns the extended batch.
func (a Assignments) Add(name string, value any) Assignments {
	return append(a, Assignment{Name: name, Value: value})
}

// Get returns the value of the last assignment to name.
func (a Assignments) Get(name string) (any, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Name == name {
			return a[i].Value, true
		}
	}

	return nil, false
}

// Names returns the assigned names in order, duplicates included.
func (a Assignments) Names() []string {
	names := make([]string, len(a))
	for i := range a {
		names[i] = a[i].Name
	}

	return names
}

// Flags selects which failure kinds Apply tolerates.
type Flags struct {
	// IgnoreUnknown swallows KindNotWritable failures.
	IgnoreUnknown bool
	// IgnoreInvalid swallows KindNullPath failures.
	IgnoreInvalid bool
}
