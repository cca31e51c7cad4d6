package snapshot

import (
	"encoding/xml"
	"fmt"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/opc"
)

// ToPackage serializes the snapshot into a package ready for container
// output. The snapshot itself is not modified; bookkeeping entries a valid
// package requires (the root relationship table, the footnotes relationship
// and content-type override) are added to the serialized form only.
func (s *Snapshot) ToPackage() (*opc.Package, error) {
	if s == nil || s.Content == nil {
		return nil, fmt.Errorf("serialize snapshot: %w: nil content", ErrInvalidArgument)
	}

	pkg := opc.New()
	for name, data := range s.Extras {
		pkg.SetPart(name, data)
	}
	if !pkg.HasPart(PartRootRels) {
		data, err := ooxml.Encode(rootRelsTree())
		if err != nil {
			return nil, err
		}
		pkg.SetPart(PartRootRels, data)
	}

	contentRels := append([]Relationship(nil), s.ContentRelations...)
	contentTypes := ContentTypes{
		Defaults:  append([]Default(nil), s.ContentTypes.Defaults...),
		Overrides: append([]Override(nil), s.ContentTypes.Overrides...),
	}

	writeFootnotes := len(s.Footnotes) > 0
	if writeFootnotes {
		if !hasRelationshipType(contentRels, RelTypeFootnotes) {
			next := MaxRelationshipNumber(contentRels) + 1
			contentRels = append(contentRels, Relationship{
				ID:     RelationshipID(next),
				Type:   RelTypeFootnotes,
				Target: "footnotes.xml",
			})
		}
		if !contentTypes.HasOverride("/" + PartFootnotes) {
			contentTypes.Overrides = append(contentTypes.Overrides, Override{
				PartName:    "/" + PartFootnotes,
				ContentType: MediaTypeFootnotes,
			})
		}
	}

	if err := setTree(pkg, PartDocument, s.Content); err != nil {
		return nil, err
	}
	if err := setTree(pkg, PartContentTypes, contentTypesTree(contentTypes)); err != nil {
		return nil, err
	}
	if err := setTree(pkg, PartDocumentRels, relationsTree(contentRels)); err != nil {
		return nil, err
	}
	if writeFootnotes {
		if err := setTree(pkg, PartFootnotes, footnotesTree(s.Footnotes)); err != nil {
			return nil, err
		}
	}
	if len(s.FootnoteRelations) > 0 {
		if err := setTree(pkg, PartFootnoteRels, relationsTree(s.FootnoteRelations)); err != nil {
			return nil, err
		}
	}
	for _, c := range s.Charts {
		if err := setTree(pkg, c.Name, c.Tree); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

func setTree(pkg *opc.Package, name string, tree *ooxml.Node) error {
	data, err := ooxml.Encode(tree)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", name, err)
	}
	pkg.SetPart(name, data)
	return nil
}

func hasRelationshipType(rels []Relationship, relType string) bool {
	for _, r := range rels {
		if r.Type == relType {
			return true
		}
	}
	return false
}

func relationsTree(rels []Relationship) *ooxml.Node {
	root := ooxml.NewElement(ooxml.NSPackageRels, "Relationships").
		WithAttr("", "xmlns", ooxml.NSPackageRels)
	for _, r := range rels {
		rel := ooxml.NewElement(ooxml.NSPackageRels, "Relationship").
			WithAttr("", "Id", r.ID).
			WithAttr("", "Type", r.Type).
			WithAttr("", "Target", r.Target)
		if r.TargetMode != "" {
			rel.SetAttr("", "TargetMode", r.TargetMode)
		}
		root.Append(rel)
	}
	return root
}

func contentTypesTree(ct ContentTypes) *ooxml.Node {
	root := ooxml.NewElement(ooxml.NSContentTypes, "Types").
		WithAttr("", "xmlns", ooxml.NSContentTypes)
	for _, d := range ct.Defaults {
		root.Append(ooxml.NewElement(ooxml.NSContentTypes, "Default").
			WithAttr("", "Extension", d.Extension).
			WithAttr("", "ContentType", d.ContentType))
	}
	for _, o := range ct.Overrides {
		root.Append(ooxml.NewElement(ooxml.NSContentTypes, "Override").
			WithAttr("", "PartName", o.PartName).
			WithAttr("", "ContentType", o.ContentType))
	}
	return root
}

func footnotesTree(footnotes []Footnote) *ooxml.Node {
	root := ooxml.NewElement(ooxml.NSWordprocessingML, "footnotes")
	root.Attr = append(root.Attr, wmlRootNamespaces()...)
	for _, f := range footnotes {
		root.Append(f.Tree)
	}
	return root
}

func rootRelsTree() *ooxml.Node {
	return relationsTree([]Relationship{{
		ID:     RelationshipID(1),
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: PartDocument,
	}})
}

// EmptyContent returns a minimal well-formed document tree with no body
// children, used to seed importer-built snapshots.
func EmptyContent() *ooxml.Node {
	doc := ooxml.NewElement(ooxml.NSWordprocessingML, "document")
	doc.Attr = append(doc.Attr, wmlRootNamespaces()...)
	return doc.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "body"))
}

func wmlRootNamespaces() []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Space: "xmlns", Local: "w"}, Value: ooxml.NSWordprocessingML},
		{Name: xml.Name{Space: "xmlns", Local: "r"}, Value: ooxml.NSRelationships},
	}
}
