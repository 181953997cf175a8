package xmlconv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

const namespaceMarker = "urn:un:unece:uncefact"

// Result is the outcome of Validate.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate checks that doc is well-formed and declares a UN/CEFACT namespace.
// Schema validation against the SME XSDs is not performed.
func Validate(doc string, mt models.MessageType) Result {
	var errs []string

	if !mt.Valid() {
		errs = append(errs, fmt.Sprintf("unknown message type: %s", mt))
	}
	if err := wellFormed(doc); err != nil {
		errs = append(errs, fmt.Sprintf("XML parsing error: %v", err))
		return Result{Errors: errs}
	}
	if !strings.Contains(doc, namespaceMarker) {
		errs = append(errs, "XML namespace may not match SME Common EDI standard")
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func wellFormed(doc string) error {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	roots := 0
	depth := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch token.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	switch {
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return fmt.Errorf("%d root elements", roots)
	}
	return nil
}
