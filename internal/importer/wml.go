package importer

import (
	"fmt"
	"strings"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// block is one converted content unit: a heading (level 1-6) or body text.
type block struct {
	level int
	text  string
}

// buildSnapshot assembles a minimal snapshot from converted blocks. The
// result has an empty relationship table and no footnotes or charts; the
// fold assigns ids only to documents that carry them.
func buildSnapshot(blocks []block) *snapshot.Snapshot {
	content := snapshot.EmptyContent()
	body := content.FindFirst(ooxml.NSWordprocessingML, "body")
	for _, b := range blocks {
		body.Append(paragraph(b))
	}

	return &snapshot.Snapshot{
		Content: content,
		ContentTypes: snapshot.ContentTypes{
			Defaults: []snapshot.Default{
				{Extension: "rels", ContentType: snapshot.MediaTypeRels},
				{Extension: "xml", ContentType: snapshot.MediaTypeXML},
			},
			Overrides: []snapshot.Override{
				{PartName: "/" + snapshot.PartDocument, ContentType: snapshot.MediaTypeDocument},
			},
		},
	}
}

func paragraph(b block) *ooxml.Node {
	p := ooxml.NewElement(ooxml.NSWordprocessingML, "p")
	if b.level > 0 {
		style := ooxml.NewElement(ooxml.NSWordprocessingML, "pStyle").
			WithAttr(ooxml.NSWordprocessingML, "val", fmt.Sprintf("Heading%d", b.level))
		p.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "pPr").Append(style))
	}

	lines := strings.Split(b.text, "\n")
	for i, line := range lines {
		if i > 0 {
			p.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "r").
				Append(ooxml.NewElement(ooxml.NSWordprocessingML, "br")))
		}
		if line == "" {
			continue
		}
		t := ooxml.NewElement(ooxml.NSWordprocessingML, "t").Append(ooxml.NewText(line))
		if line != strings.TrimSpace(line) {
			t.SetAttr("xml", "space", "preserve")
		}
		p.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "r").Append(t))
	}
	return p
}

// splitParagraphs breaks plain text into paragraphs on blank lines.
func splitParagraphs(text string) []string {
	var out []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
