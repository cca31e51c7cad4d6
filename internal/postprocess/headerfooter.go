// Package postprocess applies cosmetic passes to a composed snapshot after
// the fold: header/footer injection and styles template installation. These
// passes add parts and relationship entries but never renumber existing ids.
package postprocess

import (
	"fmt"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// InjectHeaderFooter adds a simple text header and/or footer to the final
// section of the document. Empty strings leave the document untouched.
// Returns a new snapshot; the input is not modified.
func InjectHeaderFooter(s *snapshot.Snapshot, headerText, footerText string) (*snapshot.Snapshot, error) {
	if headerText == "" && footerText == "" {
		return s, nil
	}

	out := shallowCopy(s)
	out.Content = s.Content.Clone()

	sectPr, err := finalSectPr(out.Content)
	if err != nil {
		return nil, err
	}

	if headerText != "" {
		relID := nextRelationshipID(out)
		name := freePartName(out, "header")
		if err := addPart(out, name, bandTree("hdr", headerText)); err != nil {
			return nil, err
		}
		out.ContentRelations = append(out.ContentRelations, snapshot.Relationship{
			ID: relID, Type: snapshot.RelTypeHeader, Target: name[len("word/"):],
		})
		out.ContentTypes.Overrides = append(out.ContentTypes.Overrides, snapshot.Override{
			PartName: "/" + name, ContentType: snapshot.MediaTypeHeader,
		})
		sectPr.Children = append([]*ooxml.Node{bandReference("headerReference", relID)}, sectPr.Children...)
	}

	if footerText != "" {
		relID := nextRelationshipID(out)
		name := freePartName(out, "footer")
		if err := addPart(out, name, bandTree("ftr", footerText)); err != nil {
			return nil, err
		}
		out.ContentRelations = append(out.ContentRelations, snapshot.Relationship{
			ID: relID, Type: snapshot.RelTypeFooter, Target: name[len("word/"):],
		})
		out.ContentTypes.Overrides = append(out.ContentTypes.Overrides, snapshot.Override{
			PartName: "/" + name, ContentType: snapshot.MediaTypeFooter,
		})
		sectPr.Children = append([]*ooxml.Node{bandReference("footerReference", relID)}, sectPr.Children...)
	}

	return out, nil
}

func shallowCopy(s *snapshot.Snapshot) *snapshot.Snapshot {
	out := *s
	out.ContentRelations = append([]snapshot.Relationship(nil), s.ContentRelations...)
	out.ContentTypes = snapshot.ContentTypes{
		Defaults:  append([]snapshot.Default(nil), s.ContentTypes.Defaults...),
		Overrides: append([]snapshot.Override(nil), s.ContentTypes.Overrides...),
	}
	out.Extras = make(map[string][]byte, len(s.Extras))
	for name, data := range s.Extras {
		out.Extras[name] = data
	}
	return &out
}

func nextRelationshipID(s *snapshot.Snapshot) string {
	s.MaxDocumentRelationID++
	return snapshot.RelationshipID(s.MaxDocumentRelationID)
}

func freePartName(s *snapshot.Snapshot, base string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("word/%s%d.xml", base, n)
		if _, taken := s.Extras[name]; !taken {
			return name
		}
	}
}

func addPart(s *snapshot.Snapshot, name string, tree *ooxml.Node) error {
	data, err := ooxml.Encode(tree)
	if err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	s.Extras[name] = data
	return nil
}

// finalSectPr returns the trailing section properties of the body, creating
// an empty one if the document has none.
func finalSectPr(content *ooxml.Node) (*ooxml.Node, error) {
	body := content.FindFirst(ooxml.NSWordprocessingML, "body")
	if body == nil {
		return nil, fmt.Errorf("inject header/footer: %w: document has no body", snapshot.ErrMalformedPart)
	}
	for i := len(body.Children) - 1; i >= 0; i-- {
		if body.Children[i].IsElement(ooxml.NSWordprocessingML, "sectPr") {
			return body.Children[i], nil
		}
	}
	sectPr := ooxml.NewElement(ooxml.NSWordprocessingML, "sectPr")
	body.Append(sectPr)
	return sectPr, nil
}

// bandTree builds a minimal header (w:hdr) or footer (w:ftr) part tree
// holding one centered paragraph of text.
func bandTree(rootLocal, text string) *ooxml.Node {
	root := ooxml.NewElement(ooxml.NSWordprocessingML, rootLocal).
		WithAttr("xmlns", "w", ooxml.NSWordprocessingML).
		WithAttr("xmlns", "r", ooxml.NSRelationships)
	jc := ooxml.NewElement(ooxml.NSWordprocessingML, "jc").
		WithAttr(ooxml.NSWordprocessingML, "val", "center")
	run := ooxml.NewElement(ooxml.NSWordprocessingML, "r").
		Append(ooxml.NewElement(ooxml.NSWordprocessingML, "t").Append(ooxml.NewText(text)))
	root.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "p").
		Append(ooxml.NewElement(ooxml.NSWordprocessingML, "pPr").Append(jc), run))
	return root
}

func bandReference(local, relID string) *ooxml.Node {
	ref := ooxml.NewElement(ooxml.NSWordprocessingML, local).
		WithAttr(ooxml.NSWordprocessingML, "type", "default")
	ref.SetAttr(ooxml.NSRelationships, "id", relID)
	return ref
}
