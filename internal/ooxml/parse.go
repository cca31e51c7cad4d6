package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Parse reads one XML part into a tree. The XML declaration, if present, is
// discarded; Encode always emits the standard declaration.
func Parse(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var stack []*Node
	var root *Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse part: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name}
			if len(t.Attr) > 0 {
				node.Attr = make([]xml.Attr, len(t.Attr))
				copy(node.Attr, t.Attr)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parse part: multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(t)
			if text == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{IsText: true, Text: text})
		}
	}

	if root == nil {
		return nil, errors.New("parse part: no root element")
	}
	if len(stack) != 0 {
		return nil, errors.New("parse part: unclosed elements")
	}
	return root, nil
}
