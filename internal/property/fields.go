package property

import (
	"reflect"
	"strings"
	"sync"
)

// fieldInfo describes one addressable struct field.
type fieldInfo struct {
	// name is the name paths use: the tag name, or the Go name without a tag.
	name     string
	goName   string
	index    []int
	readOnly bool
	// validate holds the field's `validate` tag.
	validate string
}

type fieldsKey struct {
	typ reflect.Type
	tag string
}

var fieldsCache sync.Map // fieldsKey -> []fieldInfo

// fieldsOf returns the exported, visible fields of struct type t.
func fieldsOf(t reflect.Type, tagName string) []fieldInfo {
	key := fieldsKey{typ: t, tag: tagName}
	if cached, ok := fieldsCache.Load(key); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		fi := fieldInfo{
			name:     sf.Name,
			goName:   sf.Name,
			index:    sf.Index,
			validate: sf.Tag.Get("validate"),
		}

		if tag, ok := sf.Tag.Lookup(tagName); ok {
			name, opts, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}

			if name != "" {
				fi.name = name
			}

			for opt := range strings.SplitSeq(opts, ",") {
				if opt == "readonly" {
					fi.readOnly = true
				}
			}
		}

		fields = append(fields, fi)
	}

	cached, _ := fieldsCache.LoadOrStore(key, fields)

	return cached.([]fieldInfo)
}

// lookupField finds a field by path name first, then by Go name.
func lookupField(t reflect.Type, tagName, name string) (fieldInfo, bool) {
	fields := fieldsOf(t, tagName)

	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}

	for _, f := range fields {
		if f.goName == name {
			return f, true
		}
	}

	return fieldInfo{}, false
}

// fieldNames lists the path names of t's fields, for suggestions.
func fieldNames(t reflect.Type, tagName string) []string {
	fields := fieldsOf(t, tagName)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.name)
	}

	return names
}
