package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/opc"
)

// Load builds a snapshot from a package. The document and content-types
// parts are mandatory; footnotes and both relationship tables default to
// empty when absent. Chart parts are discovered through document-relation
// targets under the charts/ prefix.
func Load(pkg *opc.Package) (*Snapshot, error) {
	if pkg == nil {
		return nil, fmt.Errorf("load snapshot: %w: nil package", ErrInvalidArgument)
	}

	content, err := mandatoryTree(pkg, PartDocument)
	if err != nil {
		return nil, err
	}
	typesTree, err := mandatoryTree(pkg, PartContentTypes)
	if err != nil {
		return nil, err
	}
	contentTypes, err := parseContentTypes(typesTree)
	if err != nil {
		return nil, err
	}

	contentRels, err := optionalRelations(pkg, PartDocumentRels)
	if err != nil {
		return nil, err
	}
	footnoteRels, err := optionalRelations(pkg, PartFootnoteRels)
	if err != nil {
		return nil, err
	}

	footnotes, err := optionalFootnotes(pkg)
	if err != nil {
		return nil, err
	}

	charts, err := discoverCharts(pkg, contentRels)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Content:           content,
		ContentRelations:  contentRels,
		ContentTypes:      contentTypes,
		Footnotes:         footnotes,
		FootnoteRelations: footnoteRels,
		Charts:            charts,

		MaxDocumentRelationID: MaxRelationshipNumber(contentRels),
		MaxFootnoteID:         MaxFootnoteNumber(footnotes),
		MaxFootnoteRelationID: MaxRelationshipNumber(footnoteRels),

		Extras: collectExtras(pkg, charts),
	}
	return s, nil
}

func mandatoryTree(pkg *opc.Package, name string) (*ooxml.Node, error) {
	data, ok := pkg.Part(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	tree, err := ooxml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPart, name, err)
	}
	return tree, nil
}

func optionalRelations(pkg *opc.Package, name string) ([]Relationship, error) {
	data, ok := pkg.Part(name)
	if !ok {
		return nil, nil
	}
	tree, err := ooxml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPart, name, err)
	}
	return parseRelations(tree), nil
}

func optionalFootnotes(pkg *opc.Package) ([]Footnote, error) {
	data, ok := pkg.Part(PartFootnotes)
	if !ok {
		return nil, nil
	}
	tree, err := ooxml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPart, PartFootnotes, err)
	}

	var footnotes []Footnote
	for _, child := range tree.Children {
		if !child.IsElement(ooxml.NSWordprocessingML, "footnote") {
			continue
		}
		id := 0
		if v, ok := child.AttrValue(ooxml.NSWordprocessingML, "id"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				id = n
			}
		}
		footnotes = append(footnotes, Footnote{ID: id, Tree: child})
	}
	return footnotes, nil
}

func parseRelations(tree *ooxml.Node) []Relationship {
	var rels []Relationship
	for _, child := range tree.Children {
		if !child.IsElement(ooxml.NSPackageRels, "Relationship") {
			continue
		}
		var r Relationship
		r.ID, _ = child.AttrValue("", "Id")
		r.Type, _ = child.AttrValue("", "Type")
		r.Target, _ = child.AttrValue("", "Target")
		r.TargetMode, _ = child.AttrValue("", "TargetMode")
		rels = append(rels, r)
	}
	return rels
}

func parseContentTypes(tree *ooxml.Node) (ContentTypes, error) {
	if !tree.IsElement(ooxml.NSContentTypes, "Types") {
		return ContentTypes{}, fmt.Errorf("%w: %s: unexpected root %s", ErrMalformedPart, PartContentTypes, tree.Name.Local)
	}
	var ct ContentTypes
	for _, child := range tree.Children {
		switch {
		case child.IsElement(ooxml.NSContentTypes, "Default"):
			ext, _ := child.AttrValue("", "Extension")
			typ, _ := child.AttrValue("", "ContentType")
			ct.Defaults = append(ct.Defaults, Default{Extension: ext, ContentType: typ})
		case child.IsElement(ooxml.NSContentTypes, "Override"):
			part, _ := child.AttrValue("", "PartName")
			typ, _ := child.AttrValue("", "ContentType")
			ct.Overrides = append(ct.Overrides, Override{PartName: part, ContentType: typ})
		}
	}
	return ct, nil
}

func discoverCharts(pkg *opc.Package, rels []Relationship) ([]Chart, error) {
	var charts []Chart
	for _, r := range rels {
		target := strings.TrimPrefix(r.Target, "./")
		if !strings.HasPrefix(target, ChartTargetPrefix) {
			continue
		}
		name := "word/" + target
		data, ok := pkg.Part(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (target of %s)", ErrPartNotFound, name, r.ID)
		}
		tree, err := ooxml.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPart, name, err)
		}
		charts = append(charts, Chart{Name: name, Tree: tree})
	}
	return charts, nil
}

func collectExtras(pkg *opc.Package, charts []Chart) map[string][]byte {
	owned := map[string]bool{
		PartContentTypes: true,
		PartDocument:     true,
		PartDocumentRels: true,
		PartFootnotes:    true,
		PartFootnoteRels: true,
	}
	for _, c := range charts {
		owned[c.Name] = true
	}

	extras := make(map[string][]byte)
	for _, name := range pkg.Names() {
		if owned[name] {
			continue
		}
		data, _ := pkg.Part(name)
		extras[name] = data
	}
	return extras
}
