package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Header is the XML declaration emitted at the top of every serialized part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Encode serializes the tree back to part bytes. Namespace prefixes are
// restored from the xmlns declarations on the root element, so a parsed part
// round-trips with the prefixed names word processors expect. The input tree
// is not modified.
func Encode(root *Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("encode part: nil root")
	}

	prefixes := prefixMap(root)
	clone := root.Clone()
	applyPrefixes(clone, prefixes)

	var buf bytes.Buffer
	buf.WriteString(Header)
	encoder := xml.NewEncoder(&buf)
	if err := encodeNode(encoder, clone); err != nil {
		return nil, fmt.Errorf("encode part: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("encode part: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeNode(encoder *xml.Encoder, node *Node) error {
	if node.IsText {
		return encoder.EncodeToken(xml.CharData(node.Text))
	}
	start := xml.StartElement{Name: node.Name, Attr: node.Attr}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := encodeNode(encoder, child); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}

// prefixMap maps a namespace URL to the prefix declared for it on the root
// element. The default namespace maps to the empty prefix.
func prefixMap(root *Node) map[string]string {
	m := map[string]string{
		"http://www.w3.org/XML/1998/namespace": "xml",
	}
	for _, attr := range root.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			m[attr.Value] = attr.Name.Local
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			m[attr.Value] = ""
		}
	}
	return m
}

// applyPrefixes rewrites namespace-qualified names into their prefixed form
// so the stdlib encoder emits them verbatim instead of inventing bindings.
func applyPrefixes(node *Node, prefixes map[string]string) {
	if node.IsText {
		return
	}
	if prefix, ok := prefixes[node.Name.Space]; ok {
		node.Name = prefixedName(prefix, node.Name.Local)
	}
	for i, attr := range node.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			node.Attr[i].Name = xml.Name{Local: "xmlns:" + attr.Name.Local}
		case attr.Name.Space == "xml":
			// the decoder reports the xml prefix literally, not as a URL
			node.Attr[i].Name = xml.Name{Local: "xml:" + attr.Name.Local}
		case attr.Name.Space == "":
			// unprefixed attribute, leave as is
		default:
			if prefix, ok := prefixes[attr.Name.Space]; ok && prefix != "" {
				node.Attr[i].Name = prefixedName(prefix, attr.Name.Local)
			}
		}
	}
	for _, child := range node.Children {
		applyPrefixes(child, prefixes)
	}
}

func prefixedName(prefix, local string) xml.Name {
	if prefix == "" {
		return xml.Name{Local: local}
	}
	return xml.Name{Local: prefix + ":" + local}
}
