package wfs

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ParseDocument parses text into a DOM tree. Element and attribute lookups in
// this package go by local name, whatever prefix a service chose.
func ParseDocument(text string) (xmldom.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	decoder := xmldom.NewDecoderFromBytes([]byte(text))
	doc, err := decoder.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML document: %w", err)
	}
	if doc.DocumentElement() == nil {
		return nil, fmt.Errorf("failed to parse XML document: no root element")
	}
	return doc, nil
}

// elementsByLocalName returns every element below (and including) root with the
// given local name, depth first in document order
func elementsByLocalName(root xmldom.Element, name string) []xmldom.Element {
	var found []xmldom.Element
	walkElements(root, func(elem xmldom.Element) {
		if string(elem.LocalName()) == name {
			found = append(found, elem)
		}
	})
	return found
}

// firstDescendant returns the first element strictly below root with the given
// local name, or nil
func firstDescendant(root xmldom.Element, name string) xmldom.Element {
	children := root.Children()
	for i := uint(0); i < children.Length(); i++ {
		child := children.Item(i)
		if child == nil {
			continue
		}
		if string(child.LocalName()) == name {
			return child
		}
		if found := firstDescendant(child, name); found != nil {
			return found
		}
	}
	return nil
}

// attributeValuesByLocalName returns the values of every attribute with the given
// local name anywhere below root, in document order
func attributeValuesByLocalName(root xmldom.Element, name string) []string {
	var values []string
	walkElements(root, func(elem xmldom.Element) {
		attrs := elem.Attributes()
		for i := uint(0); i < attrs.Length(); i++ {
			attr := attrs.Item(i)
			if attr == nil {
				continue
			}
			if attrLocalName(attr) == name {
				values = append(values, string(attr.NodeValue()))
			}
		}
	})
	return values
}

// attrLocalName falls back to the qualified name when the parser left the
// local name empty (prefix without a namespace declaration)
func attrLocalName(attr xmldom.Node) string {
	if local := string(attr.LocalName()); local != "" {
		return local
	}
	qualified := string(attr.NodeName())
	if i := strings.LastIndexByte(qualified, ':'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func walkElements(elem xmldom.Element, visit func(xmldom.Element)) {
	if elem == nil {
		return
	}
	visit(elem)
	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		walkElements(children.Item(i), visit)
	}
}
