package postprocess

import "github.com/dgallion1/doccompose/internal/snapshot"

// defaultStyles is the static styles template installed when a composed
// document has no styles part, so imported Heading1..3 paragraphs render as
// headings instead of plain text.
const defaultStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/><w:spacing w:before="200" w:after="100"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="2"/><w:spacing w:before="160" w:after="80"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
</w:styles>
`

const stylesPart = "word/styles.xml"

// EnsureStyles installs the default styles template when the snapshot has no
// styles relationship. Documents composed from native packages keep the base
// document's own styles untouched.
func EnsureStyles(s *snapshot.Snapshot) *snapshot.Snapshot {
	for _, r := range s.ContentRelations {
		if r.Type == snapshot.RelTypeStyles {
			return s
		}
	}

	out := shallowCopy(s)
	out.Extras[stylesPart] = []byte(defaultStyles)
	out.ContentRelations = append(out.ContentRelations, snapshot.Relationship{
		ID:     nextRelationshipID(out),
		Type:   snapshot.RelTypeStyles,
		Target: "styles.xml",
	})
	if !out.ContentTypes.HasOverride("/" + stylesPart) {
		out.ContentTypes.Overrides = append(out.ContentTypes.Overrides, snapshot.Override{
			PartName:    "/" + stylesPart,
			ContentType: snapshot.MediaTypeStyles,
		})
	}
	return out
}
