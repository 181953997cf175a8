// Package xmlconv converts EDI message objects to and from SME common EDI XML.
package xmlconv

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// UN/CEFACT namespaces written on every root element.
const (
	NamespaceCII = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

const (
	header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

	// attrPrefix marks a key written as an attribute of its parent.
	attrPrefix = "@"
	// textKey holds character data of an element that also has children.
	textKey = "#text"
)

// ErrInvalidName is returned for keys that cannot be used as XML names.
var ErrInvalidName = errors.New("invalid XML name")

var rootElements = map[models.MessageType]string{
	models.MessageOrder:                           "SMEOrder",
	models.MessageOrderResponse:                   "SMEOrderResponse",
	models.MessageInvoice:                         "SMEInvoice",
	models.MessageConsolidatedInvoice:             "SMEConsolidatedInvoice",
	models.MessageQuotation:                       "SMEQuotation",
	models.MessageQuotationResponse:               "SMEQuotationResponse",
	models.MessageDespatchAdvice:                  "SMEDespatchAdvice",
	models.MessageReceivingAdvice:                 "SMEReceivingAdvice",
	models.MessageSelfInvoice:                     "SMESelfInvoice",
	models.MessageConsolidatedSelfInvoice:         "SMEConsolidatedSelfInvoice",
	models.MessageSelfInvoiceResponse:             "SMESelfInvoiceResponse",
	models.MessageConsolidatedSelfInvoiceResponse: "SMEConsolidatedSelfInvoiceResponse",
	models.MessageRemittanceAdvice:                "SMERemittanceAdvaice",
	models.MessageDemandForecast:                  "SMESchedulingDemandForcast",
	models.MessageSupplyInstruction:               "SMESchedulingSupplyInstruction",
}

// RootElement returns the document element name for a message type.
// Unknown types fall back to CrossIndustryInvoice.
func RootElement(mt models.MessageType) string {
	if name, ok := rootElements[mt]; ok {
		return name
	}
	return "CrossIndustryInvoice"
}

// ToXML renders data as an indented XML document rooted at the element for mt.
//
// Nested maps become child elements and slices become repeated elements
// with the same name. Keys starting with "@" are written as attributes and
// "#text" as character data. Keys are emitted in sorted order.
func ToXML(data map[string]any, mt models.MessageType) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: RootElement(mt)},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NamespaceCII},
			{Name: xml.Name{Local: "xmlns:qdt"}, Value: NamespaceQDT},
			{Name: xml.Name{Local: "xmlns:udt"}, Value: NamespaceUDT},
		},
	}
	if err := encodeObject(enc, root, data); err != nil {
		return "", fmt.Errorf("json to xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("json to xml: %w", err)
	}
	return buf.String(), nil
}

func encodeObject(enc *xml.Encoder, start xml.StartElement, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var text string
	children := keys[:0:0]
	for _, k := range keys {
		switch {
		case k == textKey:
			text = scalar(obj[k])
		case strings.HasPrefix(k, attrPrefix):
			name := strings.TrimPrefix(k, attrPrefix)
			if !validName(name) {
				return fmt.Errorf("%w: %q", ErrInvalidName, k)
			}
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: scalar(obj[k])})
		default:
			children = append(children, k)
		}
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, k := range children {
		if err := encodeValue(enc, k, obj[k]); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeValue(enc *xml.Encoder, name string, v any) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}

	switch val := v.(type) {
	case map[string]any:
		return encodeObject(enc, start, val)
	case []any:
		for _, item := range val {
			if err := encodeValue(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	case []map[string]any:
		for _, item := range val {
			if err := encodeObject(enc, start, item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, item := range val {
			if err := encodeValue(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if s := scalar(v); s != "" {
		if err := enc.EncodeToken(xml.CharData(s)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// validName accepts NCNames with at most one prefix separator.
func validName(name string) bool {
	parts := strings.Split(name, ":")
	if len(parts) > 2 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_' || unicode.IsLetter(r):
			case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			default:
				return false
			}
		}
	}
	return true
}
