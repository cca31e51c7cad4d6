// Package reconcile renumbers the id spaces of one document snapshot so its
// collections can be unioned into an accumulator without collisions. Every
// rewrite is an exact, type-aware attribute assignment: ids are parsed as
// integers, shifted, and formatted back, never substituted textually.
package reconcile

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// Footnotes rewrites every positive footnote id k to offset+k, both in the
// footnote definitions and in the footnote references embedded in the
// content tree. Ids at or below zero (separator and continuation markers)
// are left untouched. Returns the new content tree, the new footnote list in
// original order, and the resulting footnote high-water mark.
func Footnotes(content *ooxml.Node, footnotes []snapshot.Footnote, offset int) (*ooxml.Node, []snapshot.Footnote, int, error) {
	if content == nil {
		return nil, nil, 0, fmt.Errorf("reconcile footnotes: %w: nil content", snapshot.ErrInvalidArgument)
	}
	if offset < 0 {
		return nil, nil, 0, fmt.Errorf("reconcile footnotes: %w: negative offset %d", snapshot.ErrInvalidArgument, offset)
	}

	newContent := content.Clone()
	if offset > 0 {
		newContent.Walk(func(n *ooxml.Node) bool {
			if !n.IsElement(ooxml.NSWordprocessingML, "footnoteReference") {
				return true
			}
			if v, ok := n.AttrValue(ooxml.NSWordprocessingML, "id"); ok {
				if k, err := strconv.Atoi(v); err == nil && k > 0 {
					n.SetAttr(ooxml.NSWordprocessingML, "id", strconv.Itoa(k+offset))
				}
			}
			return true
		})
	}

	newFootnotes := make([]snapshot.Footnote, 0, len(footnotes))
	for _, f := range footnotes {
		nf := snapshot.Footnote{ID: f.ID, Tree: f.Tree}
		if f.ID > 0 && offset > 0 {
			nf.ID = f.ID + offset
			nf.Tree = f.Tree.Clone()
			nf.Tree.SetAttr(ooxml.NSWordprocessingML, "id", strconv.Itoa(nf.ID))
		}
		newFootnotes = append(newFootnotes, nf)
	}

	return newContent, newFootnotes, offset + snapshot.MaxFootnoteNumber(footnotes), nil
}
