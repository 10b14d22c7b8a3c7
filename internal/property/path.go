package property

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Segment is one step of a property path: either a name or a bracketed key.
type Segment struct {
	// Name is set for dotted segments.
	Name string
	// Key is set for bracketed segments.
	Key   string
	IsKey bool
}

// Text returns the name or key this segment addresses.
func (s Segment) Text() string {
	if s.IsKey {
		return s.Key
	}

	return s.Name
}

// Path is a parsed property path.
type Path []Segment

// String renders the path in canonical form.
func (p Path) String() string {
	var b strings.Builder

	for i, s := range p {
		if s.IsKey {
			b.WriteByte('[')

			if strings.ContainsAny(s.Key, ".[]") {
				b.WriteString("'" + s.Key + "'")
			} else {
				b.WriteString(s.Key)
			}

			b.WriteByte(']')

			continue
		}

		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(s.Name)
	}

	return b.String()
}

// ParsePath parses a property path.
// Supports: "Name", "Address.Street", "Items[0]", "Items[0].SKU",
// "Labels[env]", "Labels['a.b']", "Matrix[1][2]".
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var segments Path

	i := 0
	for i < len(path) {
		switch path[i] {
		case '[':
			key, next, err := scanKey(path, i)
			if err != nil {
				return nil, err
			}

			segments = append(segments, Segment{Key: key, IsKey: true})
			i = next

			if i < len(path) && path[i] != '.' && path[i] != '[' {
				return nil, fmt.Errorf("invalid path %q: unexpected %q after key", path, path[i])
			}
		case '.':
			if i == 0 || i == len(path)-1 || path[i+1] == '.' {
				return nil, fmt.Errorf("invalid path %q: empty segment", path)
			}

			if path[i+1] == '[' {
				return nil, fmt.Errorf("invalid path %q: key without property name", path)
			}

			i++
		default:
			end := i
			for end < len(path) && path[end] != '.' && path[end] != '[' {
				end++
			}

			name := path[i:end]
			if !isValidName(name) {
				return nil, fmt.Errorf("invalid path %q: invalid property name %q", path, name)
			}

			segments = append(segments, Segment{Name: name})
			i = end
		}
	}

	return segments, nil
}

// scanKey reads a bracketed key starting at path[start] == '['.
// It returns the key and the index just past the closing bracket.
func scanKey(path string, start int) (string, int, error) {
	i := start + 1
	if i < len(path) && (path[i] == '\'' || path[i] == '"') {
		quote := path[i]

		end := strings.IndexByte(path[i+1:], quote)
		if end < 0 {
			return "", 0, fmt.Errorf("invalid path %q: unterminated quoted key", path)
		}

		key := path[i+1 : i+1+end]
		closing := i + 1 + end + 1

		if closing >= len(path) || path[closing] != ']' {
			return "", 0, fmt.Errorf("invalid path %q: expected ']' after quoted key", path)
		}

		return key, closing + 1, nil
	}

	end := strings.IndexByte(path[i:], ']')
	if end < 0 {
		return "", 0, fmt.Errorf("invalid path %q: missing ']'", path)
	}

	key := path[i : i+end]
	if key == "" {
		return "", 0, fmt.Errorf("invalid path %q: empty key", path)
	}

	return key, i + end + 1, nil
}

// isValidName accepts letters, digits, '_' and '-'; YAML and JSON documents
// commonly use dashed keys.
func isValidName(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}

	return true
}

// index parses a key segment as a non-negative integer index.
func (s Segment) index() (int, error) {
	if !s.IsKey {
		return 0, fmt.Errorf("%q is not an index", s.Name)
	}

	n, err := strconv.Atoi(s.Key)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a valid index", s.Key)
	}

	return n, nil
}
