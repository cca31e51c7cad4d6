package snapshot

import (
	"errors"
	"testing"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/opc"
)

const (
	fixtureDocument = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body><w:p><w:r><w:t>body</w:t></w:r></w:p></w:body></w:document>`

	fixtureContentTypes = `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	fixtureDocumentRels = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/><Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/></Relationships>`

	fixtureFootnotes = `<w:footnotes xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:footnote w:id="-1"><w:p/></w:footnote><w:footnote w:id="0"><w:p/></w:footnote><w:footnote w:id="1"><w:p><w:r><w:t>first note</w:t></w:r></w:p></w:footnote><w:footnote w:id="3"><w:p><w:r><w:t>third note</w:t></w:r></w:p></w:footnote></w:footnotes>`

	fixtureChart = `<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart/></c:chartSpace>`
)

func fixturePackage(t *testing.T, parts map[string]string) *opc.Package {
	t.Helper()
	pkg := opc.New()
	for name, data := range parts {
		pkg.SetPart(name, []byte(data))
	}
	return pkg
}

func minimalParts() map[string]string {
	return map[string]string{
		PartDocument:     fixtureDocument,
		PartContentTypes: fixtureContentTypes,
	}
}

func TestLoad_Minimal(t *testing.T) {
	s, err := Load(fixturePackage(t, minimalParts()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Content == nil || !s.Content.IsElement(ooxml.NSWordprocessingML, "document") {
		t.Error("expected a parsed document tree")
	}
	if len(s.Footnotes) != 0 || len(s.ContentRelations) != 0 || len(s.Charts) != 0 {
		t.Error("expected empty optional collections for a minimal package")
	}
	if s.MaxFootnoteID != 0 || s.MaxDocumentRelationID != 0 || s.MaxFootnoteRelationID != 0 {
		t.Errorf("expected zero counters, got %d/%d/%d",
			s.MaxFootnoteID, s.MaxDocumentRelationID, s.MaxFootnoteRelationID)
	}
	if len(s.ContentTypes.Defaults) != 2 || len(s.ContentTypes.Overrides) != 1 {
		t.Errorf("unexpected content types: %+v", s.ContentTypes)
	}
}

func TestLoad_Full(t *testing.T) {
	parts := minimalParts()
	parts[PartDocumentRels] = fixtureDocumentRels
	parts[PartFootnotes] = fixtureFootnotes
	s, err := Load(fixturePackage(t, parts))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.ContentRelations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(s.ContentRelations))
	}
	ext := s.ContentRelations[1]
	if ext.ID != "rId7" || ext.TargetMode != "External" {
		t.Errorf("unexpected external relation: %+v", ext)
	}
	if s.MaxDocumentRelationID != 7 {
		t.Errorf("expected relation high-water mark 7, got %d", s.MaxDocumentRelationID)
	}

	if len(s.Footnotes) != 4 {
		t.Fatalf("expected 4 footnotes, got %d", len(s.Footnotes))
	}
	// reserved separator ids stay out of the high-water mark
	if s.MaxFootnoteID != 3 {
		t.Errorf("expected footnote high-water mark 3, got %d", s.MaxFootnoteID)
	}
	if s.Footnotes[0].ID != -1 || s.Footnotes[3].ID != 3 {
		t.Errorf("unexpected footnote ids: %+v", s.Footnotes)
	}
}

func TestLoad_ChartDiscovery(t *testing.T) {
	parts := minimalParts()
	parts[PartDocumentRels] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="` + RelTypeChart + `" Target="charts/chart1.xml"/></Relationships>`
	parts["word/charts/chart1.xml"] = fixtureChart

	s, err := Load(fixturePackage(t, parts))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Charts) != 1 {
		t.Fatalf("expected 1 chart, got %d", len(s.Charts))
	}
	if s.Charts[0].Name != "word/charts/chart1.xml" {
		t.Errorf("unexpected chart name %q", s.Charts[0].Name)
	}
	if s.Charts[0].Target() != "charts/chart1.xml" {
		t.Errorf("unexpected chart target %q", s.Charts[0].Target())
	}
	if _, ok := s.Extras["word/charts/chart1.xml"]; ok {
		t.Error("chart parts must not leak into extras")
	}
}

func TestLoad_ChartTargetMissing(t *testing.T) {
	parts := minimalParts()
	parts[PartDocumentRels] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="` + RelTypeChart + `" Target="charts/chart9.xml"/></Relationships>`

	_, err := Load(fixturePackage(t, parts))
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("expected ErrPartNotFound, got %v", err)
	}
}

func TestLoad_MissingMandatoryParts(t *testing.T) {
	for _, missing := range []string{PartDocument, PartContentTypes} {
		parts := minimalParts()
		delete(parts, missing)
		_, err := Load(fixturePackage(t, parts))
		if !errors.Is(err, ErrPartNotFound) {
			t.Errorf("without %s: expected ErrPartNotFound, got %v", missing, err)
		}
	}
}

func TestLoad_MalformedParts(t *testing.T) {
	cases := map[string]string{
		PartDocument:  "<w:document",
		PartFootnotes: "not xml at all",
	}
	for part, garbage := range cases {
		parts := minimalParts()
		parts[part] = garbage
		_, err := Load(fixturePackage(t, parts))
		if !errors.Is(err, ErrMalformedPart) {
			t.Errorf("%s: expected ErrMalformedPart, got %v", part, err)
		}
	}
}

func TestLoad_NilPackage(t *testing.T) {
	if _, err := Load(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoad_ExtrasCarried(t *testing.T) {
	parts := minimalParts()
	parts["word/styles.xml"] = "<w:styles/>"
	parts["docProps/core.xml"] = "<cp:coreProperties/>"
	s, err := Load(fixturePackage(t, parts))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(s.Extras["word/styles.xml"]) != "<w:styles/>" {
		t.Error("expected styles part in extras")
	}
	if _, ok := s.Extras[PartDocument]; ok {
		t.Error("engine-owned parts must not appear in extras")
	}
}

func TestRelationshipNumber(t *testing.T) {
	cases := []struct {
		id   string
		want int
	}{
		{"rId1", 1},
		{"rId42", 42},
		{"rId0", 0},
		{"rId-3", 0},
		{"rId", 0},
		{"hyperlink7", 0},
		{"", 0},
		{"rIdabc", 0},
	}
	for _, c := range cases {
		if got := RelationshipNumber(c.id); got != c.want {
			t.Errorf("RelationshipNumber(%q) = %d, want %d", c.id, got, c.want)
		}
	}
}

func TestToPackage_RoundTrip(t *testing.T) {
	parts := minimalParts()
	parts[PartDocumentRels] = fixtureDocumentRels
	parts[PartFootnotes] = fixtureFootnotes
	parts["word/styles.xml"] = "<w:styles/>"
	s, err := Load(fixturePackage(t, parts))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	pkg, err := s.ToPackage()
	if err != nil {
		t.Fatalf("ToPackage: %v", err)
	}
	for _, name := range []string{PartContentTypes, PartRootRels, PartDocument, PartDocumentRels, PartFootnotes, "word/styles.xml"} {
		if !pkg.HasPart(name) {
			t.Errorf("expected part %s in serialized package", name)
		}
	}

	reloaded, err := Load(pkg)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Content.Equal(s.Content) {
		t.Error("expected document tree to survive serialization")
	}
	if len(reloaded.Footnotes) != len(s.Footnotes) {
		t.Errorf("expected %d footnotes after reload, got %d", len(s.Footnotes), len(reloaded.Footnotes))
	}
	if reloaded.MaxFootnoteID != s.MaxFootnoteID {
		t.Errorf("footnote high-water mark changed: %d != %d", reloaded.MaxFootnoteID, s.MaxFootnoteID)
	}
}

func TestToPackage_EnsuresFootnoteBookkeeping(t *testing.T) {
	s := &Snapshot{
		Content: EmptyContent(),
		ContentTypes: ContentTypes{
			Defaults: []Default{{Extension: "xml", ContentType: MediaTypeXML}},
		},
		Footnotes: []Footnote{{
			ID: 1,
			Tree: ooxml.NewElement(ooxml.NSWordprocessingML, "footnote").
				WithAttr(ooxml.NSWordprocessingML, "id", "1"),
		}},
		MaxFootnoteID: 1,
	}

	pkg, err := s.ToPackage()
	if err != nil {
		t.Fatalf("ToPackage: %v", err)
	}
	reloaded, err := Load(pkg)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !hasRelationshipType(reloaded.ContentRelations, RelTypeFootnotes) {
		t.Error("expected a footnotes relationship to be added")
	}
	if !reloaded.ContentTypes.HasOverride("/" + PartFootnotes) {
		t.Error("expected a footnotes content-type override to be added")
	}
	// bookkeeping must not mutate the source snapshot
	if len(s.ContentRelations) != 0 {
		t.Error("expected the source snapshot to stay untouched")
	}
}

func TestToPackage_NilContent(t *testing.T) {
	s := &Snapshot{}
	if _, err := s.ToPackage(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
