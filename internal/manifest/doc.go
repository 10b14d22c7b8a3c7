// Package manifest loads property batches from YAML files.
//
// A manifest names an ordered list of assignments, the tolerance flags to
// apply them with, accessor options, and optionally an initial document to
// apply them to:
//
//	version: "1"
//	ignore_unknown: true
//	ignore_invalid: false
//	auto_grow: true
//	old_values: true
//	rules:
//	  server.port: min=1,max=65535
//	document:
//	  server:
//	    port: 80
//	set:
//	  server.port: 8080
//	  server.hosts[0]: api.internal
//
// The set block keeps file order. It may also be written as a sequence,
// either of single-key mappings or of explicit entries:
//
//	set:
//	  - server.port: 8080
//	  - name: server.hosts[0]
//	    value: api.internal
//
// An item is an explicit entry only when it has exactly the keys name and
// value. Unknown top-level keys are an error.
package manifest
