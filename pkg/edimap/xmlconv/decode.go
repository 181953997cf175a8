package xmlconv

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prefixes maps namespaces back to the prefixes ToXML writes.
var prefixes = map[string]string{
	NamespaceQDT: "qdt",
	NamespaceUDT: "udt",
}

// ErrNoRoot is returned for documents without a root element.
var ErrNoRoot = errors.New("no root element")

// FromXML parses an XML document into the object under its root element.
// Attributes are dropped, repeated child elements become slices and leaf
// elements become trimmed strings.
func FromXML(doc string) (map[string]any, error) {
	_, data, err := Decode(strings.NewReader(doc))
	return data, err
}

// Decode reads one XML document and returns the root element name and its content.
func Decode(r io.Reader) (string, map[string]any, error) {
	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", nil, fmt.Errorf("xml to json: %w", ErrNoRoot)
		}
		if err != nil {
			return "", nil, fmt.Errorf("xml to json: %w", err)
		}
		if se, ok := token.(xml.StartElement); ok {
			v, err := decodeElement(decoder)
			if err != nil {
				return "", nil, fmt.Errorf("xml to json: %w", err)
			}
			obj, ok := v.(map[string]any)
			if !ok {
				obj = map[string]any{}
				if s, _ := v.(string); s != "" {
					obj[textKey] = s
				}
			}
			return elementName(se.Name), obj, nil
		}
	}
}

// decodeElement consumes tokens up to the end of the current element.
func decodeElement(decoder *xml.Decoder) (any, error) {
	var text strings.Builder
	var children map[string]any

	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := decodeElement(decoder)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = map[string]any{}
			}
			addChild(children, elementName(t.Name), child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if children == nil {
				return s, nil
			}
			if s != "" {
				children[textKey] = s
			}
			return children, nil
		}
	}
}

func addChild(children map[string]any, name string, v any) {
	existing, ok := children[name]
	if !ok {
		children[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		children[name] = append(list, v)
		return
	}
	children[name] = []any{existing, v}
}

func elementName(n xml.Name) string {
	if p, ok := prefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	return n.Local
}
