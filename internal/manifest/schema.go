package manifest

import (
	"property-binder/internal/binding"
	"property-binder/internal/property"
)

// CurrentVersion is the manifest schema version this package writes.
const CurrentVersion = "1"

// File represents the root of a YAML batch manifest.
type File struct {
	// Version of the manifest schema.
	Version string `yaml:"version,omitempty"`

	// IgnoreUnknown tolerates assignments to missing or read-only properties.
	IgnoreUnknown bool `yaml:"ignore_unknown,omitempty"`

	// IgnoreInvalid tolerates assignments whose path runs through nil values.
	IgnoreInvalid bool `yaml:"ignore_invalid,omitempty"`

	// AutoGrow creates nil intermediate values instead of failing.
	AutoGrow bool `yaml:"auto_grow,omitempty"`

	// OldValues records the previous value of failed properties.
	OldValues bool `yaml:"old_values,omitempty"`

	// Rules maps property names to validator tags checked on write.
	Rules map[string]string `yaml:"rules,omitempty"`

	// Document is the initial document assignments are applied to.
	Document map[string]any `yaml:"document,omitempty"`

	// Set lists the assignments in application order.
	Set EntryList `yaml:"set"`
}

// Entry is one assignment of a manifest.
type Entry struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// EntryList is an ordered list of entries with flexible YAML forms.
type EntryList []Entry

// Assignments returns the entries as a binding batch.
func (f *File) Assignments() binding.Assignments {
	out := make(binding.Assignments, 0, len(f.Set))
	for _, e := range f.Set {
		out = out.Add(e.Name, e.Value)
	}

	return out
}

// Flags returns the tolerance flags of the manifest.
func (f *File) Flags() binding.Flags {
	return binding.Flags{
		IgnoreUnknown: f.IgnoreUnknown,
		IgnoreInvalid: f.IgnoreInvalid,
	}
}

// AccessorOptions returns the property accessor options of the manifest.
func (f *File) AccessorOptions() []property.Option {
	return []property.Option{
		property.WithAutoGrow(f.AutoGrow),
		property.WithOldValues(f.OldValues),
		property.WithRules(f.Rules),
	}
}
