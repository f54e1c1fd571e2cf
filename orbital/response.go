package orbital

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ResponseRecord is the flat decoding of a gateway response: every tag
// under the response body element mapped to its text. Tags with no text are
// absent keys, not empty strings. Values are kept verbatim, leading zeros
// included.
type ResponseRecord map[string]string

// decodeResponse takes the immediate children of the response's first
// element (the body element) as the result set.
func decodeResponse(raw []byte) (ResponseRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	if _, err := nextStart(dec); err != nil {
		return nil, fmt.Errorf("%w: no document root: %v", ErrMalformedResponse, err)
	}
	if _, err := nextStart(dec); err != nil {
		return nil, fmt.Errorf("%w: no response body element: %v", ErrMalformedResponse, err)
	}

	record := ResponseRecord{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text, err := elementText(dec)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			if text != "" {
				record[t.Name.Local] = text
			}
		case xml.EndElement:
			// End of the body element.
			return record, nil
		}
	}
}

// decodeProfileResponse decodes like decodeResponse, then title-cases the
// name and address values the gateway upper-cases on profile reads.
func decodeProfileResponse(raw []byte) (ResponseRecord, error) {
	record, err := decodeResponse(raw)
	if err != nil {
		return nil, err
	}
	titler := cases.Title(language.English)
	for _, key := range []string{"CustomerName", "CustomerAddress1", "CustomerAddress2", "CustomerCity"} {
		if v, ok := record[key]; ok {
			record[key] = titler.String(v)
		}
	}
	return record, nil
}

// nextStart advances to the next start element, skipping character data.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.EndElement:
			return xml.StartElement{}, fmt.Errorf("unexpected end of element %s", t.Name.Local)
		}
	}
}

// elementText collects the element's own text up to its end tag; nested
// elements' text does not belong to the parent.
func elementText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("unexpected end of document")
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
