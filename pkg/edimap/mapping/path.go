package mapping

import (
	"strconv"
	"strings"
)

// GetPath resolves a dot-delimited path in a nested object.
// Numeric segments index into arrays. A nil value anywhere along the path
// counts as missing.
func GetPath(obj any, path string) (any, bool) {
	value := obj
	for _, key := range strings.Split(path, ".") {
		var ok bool
		switch v := value.(type) {
		case map[string]any:
			value, ok = v[key]
		case []any:
			var i int
			if i, ok = index(key, len(v)); ok {
				value = v[i]
			}
		case []map[string]any:
			var i int
			if i, ok = index(key, len(v)); ok {
				value = v[i]
			}
		}
		if !ok || value == nil {
			return nil, false
		}
	}
	return value, value != nil
}

// index parses key as a position in a slice of length n.
func index(key string, n int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// SetPath writes value at a dot-delimited path, creating intermediate
// objects and replacing intermediates that are not objects.
func SetPath(obj map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	current := obj
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
