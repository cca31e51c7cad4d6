// Package compose merges an ordered sequence of document snapshots into one,
// renumbering footnote, relationship and chart id spaces so every identifier
// in the result is globally unique and every reference still resolves.
package compose

import (
	"fmt"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/reconcile"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// Fold merges next into acc and returns the new accumulator. Neither input
// is modified. The stages run in a fixed order because each stage's offset
// depends on the counters the previous stage observed:
//
//  1. footnote ids, offset by acc's footnote high-water mark
//  2. footnote-relationship ids, rewriting references inside footnotes
//  3. document-relationship ids, rewriting references inside content
//  4. chart parts, structurally deduplicated against acc's chart set
//  5. set union of the tables, concatenation of content and charts
//
// On error the accumulator is returned unchanged in spirit: no stage output
// is committed.
func Fold(acc, next *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	if acc == nil || next == nil {
		return nil, fmt.Errorf("fold: %w: nil snapshot", snapshot.ErrInvalidArgument)
	}

	// Stage 1: footnotes.
	content, footnotes, footnoteMax, err := reconcile.Footnotes(next.Content, next.Footnotes, acc.MaxFootnoteID)
	if err != nil {
		return nil, err
	}

	// Stage 2: footnote relationships, applied to the footnote trees.
	fnTrees := make([]*ooxml.Node, len(footnotes))
	for i, f := range footnotes {
		fnTrees[i] = f.Tree
	}
	footnoteRels, fnTrees, footnoteRelMax, err := reconcile.Relationships(next.FootnoteRelations, acc.MaxFootnoteRelationID, fnTrees...)
	if err != nil {
		return nil, err
	}
	for i := range footnotes {
		footnotes[i].Tree = fnTrees[i]
	}

	// Stage 3: document relationships, applied to the content tree.
	docRels, trees, docRelMax, err := reconcile.Relationships(next.ContentRelations, acc.MaxDocumentRelationID, content)
	if err != nil {
		return nil, err
	}
	content = trees[0]

	// Stage 4: charts.
	chartMerge := reconcile.Charts(acc.Charts, next.Charts, docRels)

	// Stage 5: union.
	merged := &snapshot.Snapshot{
		Content:           mergeContent(acc.Content, content),
		ContentRelations:  unionRelations(acc.ContentRelations, chartMerge.Relations),
		ContentTypes:      unionContentTypes(acc.ContentTypes, renameOverrides(next.ContentTypes, chartMerge.Renamed), chartMerge.Overrides),
		Footnotes:         unionFootnotes(acc.Footnotes, footnotes),
		FootnoteRelations: unionRelations(acc.FootnoteRelations, footnoteRels),
		Charts:            chartMerge.Charts,

		MaxDocumentRelationID: maxInt(acc.MaxDocumentRelationID, docRelMax),
		MaxFootnoteID:         maxInt(acc.MaxFootnoteID, footnoteMax),
		MaxFootnoteRelationID: maxInt(acc.MaxFootnoteRelationID, footnoteRelMax),

		Extras: acc.Extras,
	}
	return merged, nil
}

// FoldAll applies Fold left to right over inputs. The initial accumulator is
// typically the snapshot of the designated output document. Input order is
// significant: the concrete ids assigned to each document's footnotes and
// relationships depend on everything folded before it.
func FoldAll(initial *snapshot.Snapshot, inputs []*snapshot.Snapshot) (*snapshot.Snapshot, error) {
	if initial == nil {
		return nil, fmt.Errorf("fold: %w: nil initial snapshot", snapshot.ErrInvalidArgument)
	}
	acc := initial
	for _, next := range inputs {
		var err error
		acc, err = Fold(acc, next)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// mergeContent appends next's body elements after acc's, in document order.
// Any section properties in the accumulated body are dropped so the final
// document keeps the last input's sectPr.
func mergeContent(accDoc, nextDoc *ooxml.Node) *ooxml.Node {
	merged := accDoc.Clone()
	body := merged.FindFirst(ooxml.NSWordprocessingML, "body")
	if body == nil {
		return merged
	}

	kept := body.Children[:0]
	for _, child := range body.Children {
		if child.IsElement(ooxml.NSWordprocessingML, "sectPr") {
			continue
		}
		kept = append(kept, child)
	}
	body.Children = kept

	if nextBody := nextDoc.FindFirst(ooxml.NSWordprocessingML, "body"); nextBody != nil {
		body.Children = append(body.Children, nextBody.Children...)
	}
	return merged
}

// unionRelations unions two tables keyed by id; the accumulator's entry wins
// on collision. After renumbering the numeric id ranges are disjoint, so
// collisions only occur for byte-identical duplicated entries.
func unionRelations(acc, next []snapshot.Relationship) []snapshot.Relationship {
	out := append([]snapshot.Relationship(nil), acc...)
	seen := make(map[string]bool, len(acc))
	for _, r := range acc {
		seen[r.ID] = true
	}
	for _, r := range next {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// unionFootnotes unions two footnote tables keyed by id; the accumulator's
// definition wins on collision. After renumbering the positive id ranges are
// disjoint, so collisions only occur for the reserved separator and
// continuation entries every document carries, which collapse to the
// accumulator's version even when their trees differ.
func unionFootnotes(acc, next []snapshot.Footnote) []snapshot.Footnote {
	out := append([]snapshot.Footnote(nil), acc...)
	seen := make(map[int]bool, len(acc))
	for _, f := range acc {
		seen[f.ID] = true
	}
	for _, f := range next {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}

func unionContentTypes(acc, next snapshot.ContentTypes, extra []snapshot.Override) snapshot.ContentTypes {
	out := snapshot.ContentTypes{
		Defaults:  append([]snapshot.Default(nil), acc.Defaults...),
		Overrides: append([]snapshot.Override(nil), acc.Overrides...),
	}

	exts := make(map[string]bool, len(out.Defaults))
	for _, d := range out.Defaults {
		exts[d.Extension] = true
	}
	for _, d := range next.Defaults {
		if !exts[d.Extension] {
			exts[d.Extension] = true
			out.Defaults = append(out.Defaults, d)
		}
	}

	parts := make(map[string]bool, len(out.Overrides))
	for _, o := range out.Overrides {
		parts[o.PartName] = true
	}
	for _, o := range append(next.Overrides, extra...) {
		if !parts[o.PartName] {
			parts[o.PartName] = true
			out.Overrides = append(out.Overrides, o)
		}
	}
	return out
}

// renameOverrides maps the incoming document's chart override entries to the
// final chart part names assigned during chart reconciliation.
func renameOverrides(ct snapshot.ContentTypes, renamed map[string]string) snapshot.ContentTypes {
	if len(renamed) == 0 {
		return ct
	}
	out := snapshot.ContentTypes{
		Defaults:  ct.Defaults,
		Overrides: make([]snapshot.Override, len(ct.Overrides)),
	}
	for i, o := range ct.Overrides {
		if finalName, ok := renamed[trimSlash(o.PartName)]; ok {
			o.PartName = "/" + finalName
		}
		out.Overrides[i] = o
	}
	return out
}

func trimSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
