package manifest

import (
	"fmt"
	"maps"
	"slices"

	"property-binder/internal/diagnostic"
	"property-binder/internal/property"
)

// Validate checks a manifest for structural problems. Paths are only parsed;
// whether they exist is decided when the batch is applied.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported manifest version %q", f.Version), "version", "")
	}

	if len(f.Set) == 0 {
		res.AddInfo("empty_batch", "manifest has no assignments", "set", "")
	}

	seen := map[string]int{}

	for i, e := range f.Set {
		source := fmt.Sprintf("set[%d]", i)

		if e.Name == "" {
			res.AddError("empty_name", "assignment has no property name", source, "")
			continue
		}

		if _, err := property.ParsePath(e.Name); err != nil {
			res.AddError("invalid_path", err.Error(), source, e.Name)
			continue
		}

		if first, ok := seen[e.Name]; ok {
			res.AddWarning("duplicate_name",
				fmt.Sprintf("also assigned at set[%d]; the later value wins", first), source, e.Name)

			continue
		}

		seen[e.Name] = i
	}

	for _, name := range slices.Sorted(maps.Keys(f.Rules)) {
		source := fmt.Sprintf("rules[%s]", name)

		if _, err := property.ParsePath(name); err != nil {
			res.AddError("invalid_path", err.Error(), source, name)
			continue
		}

		if err := property.CheckRule(f.Rules[name]); err != nil {
			res.AddError("invalid_rule", err.Error(), source, name)
			continue
		}

		if _, ok := seen[name]; !ok {
			res.AddWarning("unused_rule", "no assignment sets this property", source, name)
		}
	}

	return res
}
