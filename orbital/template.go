package orbital

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"sync"

	"github.com/SendOutCards/chase/internal/sanitize"
)

// Request shapes, one per (operation x payment-method family). The files
// are versioned with the DTD they were written against; a slot is any leaf
// element in the document.
const (
	templateOrderNew       = "order_new.xml"
	templateEcheckOrderNew = "echeck_order_new.xml"
	templateMarkForCapture = "mark_for_capture.xml"
	templateReversal       = "reversal.xml"
	templateProfile        = "profile_CU.xml"
	templateEcheckProfile  = "echeck_profile_CU.xml"
	templateProfileRead    = "profile_RD.xml"
)

//go:embed templates/*.xml
var templateFS embed.FS

// node is one element of a parsed template. Templates are trees of named
// elements; leaves carry text.
type node struct {
	name     string
	text     string
	children []*node
}

var (
	templateOnce sync.Once
	templateDocs map[string]*node
	templateErr  error
)

// lookupTemplate returns the parsed, immutable document for name. All
// templates load on first use; an unknown name is a configuration error.
func lookupTemplate(name string) (*node, error) {
	templateOnce.Do(func() {
		templateDocs = make(map[string]*node)
		entries, err := templateFS.ReadDir("templates")
		if err != nil {
			templateErr = fmt.Errorf("reading templates: %w", err)
			return
		}
		for _, e := range entries {
			raw, err := templateFS.ReadFile("templates/" + e.Name())
			if err != nil {
				templateErr = fmt.Errorf("reading template %s: %w", e.Name(), err)
				return
			}
			doc, err := parseTemplate(raw)
			if err != nil {
				templateErr = fmt.Errorf("parsing template %s: %w", e.Name(), err)
				return
			}
			templateDocs[e.Name()] = doc
		}
	})
	if templateErr != nil {
		return nil, templateErr
	}
	doc, ok := templateDocs[name]
	if !ok {
		return nil, &ConfigurationError{Field: "template", Detail: fmt.Sprintf("unknown template %q", name)}
	}
	return doc, nil
}

func parseTemplate(raw []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var stack []*node
	var root *node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				if len(cur.children) == 0 {
					cur.text += string(t)
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	root.trim()
	return root, nil
}

// trim drops the indentation chardata that leaks into non-leaf elements.
func (n *node) trim() {
	if len(n.children) > 0 {
		n.text = ""
	}
	for _, c := range n.children {
		c.trim()
	}
}

func (n *node) clone() *node {
	c := &node{name: n.name, text: n.text}
	for _, child := range n.children {
		c.children = append(c.children, child.clone())
	}
	return c
}

// fill sets the text of the first slot matching each key. Values pass
// through a control-character strip so no slot can corrupt the document;
// empty values fall back to defaultValue. Keys without a matching slot are
// returned for the caller's strictness policy.
func (n *node) fill(values map[string]string, defaultValue string) []string {
	var unmatched []string
	for key, value := range values {
		slot := n.find(key)
		if slot == nil {
			unmatched = append(unmatched, key)
			continue
		}
		if value == "" {
			value = defaultValue
		}
		slot.text = sanitize.StripControl(value)
	}
	return unmatched
}

func (n *node) find(name string) *node {
	if n.name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// marshal serializes the tree compactly with escaped text.
func (n *node) marshal() []byte {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.Bytes()
}

func (n *node) write(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(n.name)
	buf.WriteByte('>')
	if len(n.children) > 0 {
		for _, c := range n.children {
			c.write(buf)
		}
	} else {
		xml.EscapeText(buf, []byte(n.text))
	}
	buf.WriteString("</")
	buf.WriteString(n.name)
	buf.WriteByte('>')
}
