// Package snapshot models the parts of one word-processing document as an
// immutable bundle with derived id high-water marks.
package snapshot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dgallion1/doccompose/internal/ooxml"
)

// Conventional part paths within a package.
const (
	PartContentTypes = "[Content_Types].xml"
	PartRootRels     = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartFootnotes    = "word/footnotes.xml"
	PartFootnoteRels = "word/_rels/footnotes.xml.rels"

	// ChartTargetPrefix is the relationship-target prefix that marks a
	// chart sub-part, relative to the word/ directory.
	ChartTargetPrefix = "charts/"
)

// Relationship types and media types referenced by the engine.
const (
	RelTypeChart     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypeFootnotes = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelTypeHeader    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelTypeFooter    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	RelTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"

	MediaTypeChart     = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	MediaTypeDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	MediaTypeFootnotes = "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"
	MediaTypeHeader    = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	MediaTypeFooter    = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	MediaTypeStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	MediaTypeRels      = "application/vnd.openxmlformats-package.relationships+xml"
	MediaTypeXML       = "application/xml"
)

var (
	// ErrPartNotFound indicates a mandatory part is missing from a package.
	ErrPartNotFound = errors.New("part not found")
	// ErrMalformedPart indicates a part failed to parse as a structured tree.
	ErrMalformedPart = errors.New("malformed part")
	// ErrInvalidArgument indicates a nil or empty required input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Relationship is one entry of a relationship table.
type Relationship struct {
	ID         string // e.g. "rId3"
	Type       string
	Target     string
	TargetMode string // "External" for hyperlinks, empty otherwise
}

// Number returns the numeric portion of an rId-style identifier, or 0 if the
// identifier does not have that shape. Non-conforming ids are preserved
// untouched during reconciliation and excluded from high-water marks.
func (r Relationship) Number() int {
	return RelationshipNumber(r.ID)
}

// RelationshipNumber parses the numeric portion of an rId-style identifier.
func RelationshipNumber(id string) int {
	rest, ok := strings.CutPrefix(id, "rId")
	if !ok || rest == "" {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// RelationshipID formats an rId-style identifier.
func RelationshipID(n int) string {
	return "rId" + strconv.Itoa(n)
}

// Default is a file-extension content-type declaration.
type Default struct {
	Extension   string
	ContentType string
}

// Override is a per-part content-type declaration. PartName carries the
// leading slash, e.g. "/word/charts/chart1.xml".
type Override struct {
	PartName    string
	ContentType string
}

// ContentTypes is the declaration table of a package.
type ContentTypes struct {
	Defaults  []Default
	Overrides []Override
}

// HasOverride reports whether a part name already has an override entry.
func (ct ContentTypes) HasOverride(partName string) bool {
	for _, o := range ct.Overrides {
		if o.PartName == partName {
			return true
		}
	}
	return false
}

// Footnote is one footnote definition. IDs at or below zero are reserved
// separator and continuation markers and are never renumbered.
type Footnote struct {
	ID   int
	Tree *ooxml.Node // the w:footnote element, id attribute included
}

// Chart is one chart sub-part. Two charts are duplicates when their trees
// are structurally equal, regardless of name.
type Chart struct {
	Name string // part name, e.g. "word/charts/chart1.xml"
	Tree *ooxml.Node
}

// Target returns the chart's relationship target relative to word/.
func (c Chart) Target() string {
	return strings.TrimPrefix(c.Name, "word/")
}

// Snapshot is the immutable bundle of one document's parts. Fold steps build
// new snapshots; an existing snapshot is never modified in place.
type Snapshot struct {
	Content           *ooxml.Node
	ContentRelations  []Relationship
	ContentTypes      ContentTypes
	Footnotes         []Footnote
	FootnoteRelations []Relationship
	Charts            []Chart

	MaxDocumentRelationID int
	MaxFootnoteID         int
	MaxFootnoteRelationID int

	// Extras carries parts the engine does not reconcile (styles, settings,
	// themes, ...) from the designated output document through to
	// serialization, untouched.
	Extras map[string][]byte
}

// MaxRelationshipNumber returns the largest numeric id in a relationship
// table, or 0 if the table is empty or holds no numeric ids.
func MaxRelationshipNumber(rels []Relationship) int {
	max := 0
	for _, r := range rels {
		if n := r.Number(); n > max {
			max = n
		}
	}
	return max
}

// MaxFootnoteNumber returns the largest positive footnote id, or 0.
func MaxFootnoteNumber(footnotes []Footnote) int {
	max := 0
	for _, f := range footnotes {
		if f.ID > max {
			max = f.ID
		}
	}
	return max
}
