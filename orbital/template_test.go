package orbital

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupTemplate_LoadsAllShapes(t *testing.T) {
	for _, name := range []string{
		templateOrderNew,
		templateEcheckOrderNew,
		templateMarkForCapture,
		templateReversal,
		templateProfile,
		templateEcheckProfile,
		templateProfileRead,
	} {
		doc, err := lookupTemplate(name)
		if err != nil {
			t.Fatalf("lookupTemplate(%s): %v", name, err)
		}
		if doc.name != "Request" {
			t.Fatalf("%s: root %q, want Request", name, doc.name)
		}
	}
}

func TestLookupTemplate_UnknownNameIsConfigurationError(t *testing.T) {
	_, err := lookupTemplate("no_such_shape.xml")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want *ConfigurationError", err)
	}
}

func TestFill_SetsSlotsAndReportsUnmatched(t *testing.T) {
	doc, err := lookupTemplate(templateMarkForCapture)
	if err != nil {
		t.Fatal(err)
	}
	filled := doc.clone()
	unmatched := filled.fill(map[string]string{
		"OrderID":  "X1",
		"Amount":   "1000",
		"NotASlot": "whatever",
	}, "")
	if len(unmatched) != 1 || unmatched[0] != "NotASlot" {
		t.Fatalf("unmatched = %v", unmatched)
	}

	out := string(filled.marshal())
	if !strings.Contains(out, "<OrderID>X1</OrderID>") {
		t.Fatalf("missing OrderID slot: %s", out)
	}
	if !strings.Contains(out, "<Amount>1000</Amount>") {
		t.Fatalf("missing Amount slot: %s", out)
	}
	if strings.Contains(out, "NotASlot") {
		t.Fatalf("unknown key leaked into document: %s", out)
	}
	// Pre-filled slots survive untouched.
	if !strings.Contains(out, "<TerminalID>001</TerminalID>") {
		t.Fatalf("TerminalID default lost: %s", out)
	}
}

func TestFill_DoesNotMutateLoadedTemplate(t *testing.T) {
	doc, err := lookupTemplate(templateReversal)
	if err != nil {
		t.Fatal(err)
	}
	filled := doc.clone()
	filled.fill(map[string]string{"TxRefNum": "ABC123"}, "")

	if slot := doc.find("TxRefNum"); slot.text != "" {
		t.Fatalf("loaded template mutated: %q", slot.text)
	}
}

func TestFill_StripsControlCharacters(t *testing.T) {
	doc, err := lookupTemplate(templateMarkForCapture)
	if err != nil {
		t.Fatal(err)
	}
	filled := doc.clone()
	// \x01 is a control character, U+200B a format character; both corrupt
	// the wire document and must go.
	filled.fill(map[string]string{"OrderID": "X\x011​"}, "")
	if slot := filled.find("OrderID"); slot.text != "X1" {
		t.Fatalf("control characters not stripped: %q", slot.text)
	}
}

func TestMarshal_EscapesText(t *testing.T) {
	doc, err := lookupTemplate(templateProfile)
	if err != nil {
		t.Fatal(err)
	}
	filled := doc.clone()
	filled.fill(map[string]string{"CustomerName": "Bed & Breakfast <Inc>"}, "")
	out := string(filled.marshal())
	if !strings.Contains(out, "<CustomerName>Bed &amp; Breakfast &lt;Inc&gt;</CustomerName>") {
		t.Fatalf("text not escaped: %s", out)
	}
}
