// Package output serializes extracted tables and loads them back as a catalog.
package output

import (
	"bytes"
	"encoding/json"
)

// ToJSON serializes v. Non-ASCII and HTML characters are written as is.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
