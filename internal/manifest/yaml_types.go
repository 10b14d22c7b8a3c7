package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements custom YAML unmarshaling for EntryList.
// Accepts:
//   - Mapping: {Name: value, Address.City: value}
//   - Sequence of single-key mappings: [{Name: value}]
//   - Sequence of entries: [{name: Name, value: value}]
//
// An item is an explicit entry only when its keys are exactly name and value,
// so a single-key item like {name: api} assigns the property "name".
func (l *EntryList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		entries, err := entriesFromMapping(node)
		if err != nil {
			return err
		}

		*l = entries

		return nil

	case yaml.SequenceNode:
		entries := make(EntryList, 0, len(node.Content))

		for i, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("set[%d]: expected mapping, got %v", i, kindName(item.Kind))
			}

			if isExplicitEntry(item) {
				var e Entry

				err := item.Decode(&e)
				if err != nil {
					return fmt.Errorf("set[%d]: %w", i, err)
				}

				entries = append(entries, e)

				continue
			}

			pair, err := entriesFromMapping(item)
			if err != nil {
				return fmt.Errorf("set[%d]: %w", i, err)
			}

			if len(pair) != 1 {
				return fmt.Errorf("set[%d]: expected exactly one property, got %d", i, len(pair))
			}

			entries = append(entries, pair[0])
		}

		*l = entries

		return nil

	default:
		return fmt.Errorf("set: expected mapping or sequence, got %v", kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for EntryList.
// Outputs a mapping in entry order.
func (l EntryList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range l {
		var value yaml.Node

		err := value.Encode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Name, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			&value,
		)
	}

	return node, nil
}

// entriesFromMapping reads the key/value pairs of a mapping node in order.
func entriesFromMapping(node *yaml.Node) (EntryList, error) {
	entries := make(EntryList, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, errors.New("property name must be a scalar")
		}

		var value any

		err := node.Content[i+1].Decode(&value)
		if err != nil {
			return nil, fmt.Errorf("value of %q: %w", keyNode.Value, err)
		}

		entries = append(entries, Entry{Name: keyNode.Value, Value: value})
	}

	return entries, nil
}

func isExplicitEntry(node *yaml.Node) bool {
	return len(node.Content) == 4 && hasKey(node, "name") && hasKey(node, "value")
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}

	return false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
