package reconcile

import (
	"errors"
	"strconv"
	"testing"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

func footnoteDef(id int) snapshot.Footnote {
	tree := ooxml.NewElement(ooxml.NSWordprocessingML, "footnote").
		WithAttr(ooxml.NSWordprocessingML, "id", strconv.Itoa(id)).
		Append(ooxml.NewElement(ooxml.NSWordprocessingML, "p"))
	return snapshot.Footnote{ID: id, Tree: tree}
}

func contentWithFootnoteRefs(ids ...int) *ooxml.Node {
	body := ooxml.NewElement(ooxml.NSWordprocessingML, "body")
	for _, id := range ids {
		body.Append(ooxml.NewElement(ooxml.NSWordprocessingML, "p").Append(
			ooxml.NewElement(ooxml.NSWordprocessingML, "r").Append(
				ooxml.NewElement(ooxml.NSWordprocessingML, "footnoteReference").
					WithAttr(ooxml.NSWordprocessingML, "id", strconv.Itoa(id)),
			),
		))
	}
	return ooxml.NewElement(ooxml.NSWordprocessingML, "document").Append(body)
}

func footnoteRefIDs(t *testing.T, content *ooxml.Node) []int {
	t.Helper()
	var ids []int
	content.Walk(func(n *ooxml.Node) bool {
		if n.IsElement(ooxml.NSWordprocessingML, "footnoteReference") {
			v, _ := n.AttrValue(ooxml.NSWordprocessingML, "id")
			id, err := strconv.Atoi(v)
			if err != nil {
				t.Fatalf("non-numeric reference id %q", v)
			}
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

func TestFootnotes_Offset(t *testing.T) {
	content := contentWithFootnoteRefs(1, 2, 3)
	defs := []snapshot.Footnote{footnoteDef(1), footnoteDef(2), footnoteDef(3)}

	newContent, newDefs, high, err := Footnotes(content, defs, 2)
	if err != nil {
		t.Fatalf("Footnotes: %v", err)
	}
	if high != 5 {
		t.Errorf("expected high-water mark 5, got %d", high)
	}

	wantIDs := []int{3, 4, 5}
	for i, f := range newDefs {
		if f.ID != wantIDs[i] {
			t.Errorf("definition %d: id %d, want %d", i, f.ID, wantIDs[i])
		}
		if v, _ := f.Tree.AttrValue(ooxml.NSWordprocessingML, "id"); v != strconv.Itoa(wantIDs[i]) {
			t.Errorf("definition %d: id attribute %q, want %d", i, v, wantIDs[i])
		}
	}

	gotRefs := footnoteRefIDs(t, newContent)
	for i, want := range wantIDs {
		if gotRefs[i] != want {
			t.Errorf("reference %d: id %d, want %d", i, gotRefs[i], want)
		}
	}
}

func TestFootnotes_SparseIDs(t *testing.T) {
	// renumbering shifts, it does not compact: {1, 12} + 10 -> {11, 22}
	defs := []snapshot.Footnote{footnoteDef(1), footnoteDef(12)}
	_, newDefs, high, err := Footnotes(contentWithFootnoteRefs(1, 12), defs, 10)
	if err != nil {
		t.Fatalf("Footnotes: %v", err)
	}
	if newDefs[0].ID != 11 || newDefs[1].ID != 22 {
		t.Errorf("expected ids 11 and 22, got %d and %d", newDefs[0].ID, newDefs[1].ID)
	}
	if high != 22 {
		t.Errorf("expected high-water mark 22, got %d", high)
	}
}

func TestFootnotes_ReservedIDsUntouched(t *testing.T) {
	defs := []snapshot.Footnote{footnoteDef(-1), footnoteDef(0), footnoteDef(1)}
	_, newDefs, high, err := Footnotes(contentWithFootnoteRefs(1), defs, 5)
	if err != nil {
		t.Fatalf("Footnotes: %v", err)
	}
	if newDefs[0].ID != -1 || newDefs[1].ID != 0 {
		t.Errorf("expected reserved ids untouched, got %d and %d", newDefs[0].ID, newDefs[1].ID)
	}
	if v, _ := newDefs[0].Tree.AttrValue(ooxml.NSWordprocessingML, "id"); v != "-1" {
		t.Errorf("expected reserved id attribute untouched, got %q", v)
	}
	if newDefs[2].ID != 6 {
		t.Errorf("expected positive id shifted to 6, got %d", newDefs[2].ID)
	}
	if high != 6 {
		t.Errorf("expected high-water mark 6, got %d", high)
	}
}

func TestFootnotes_ZeroOffsetKeepsTrees(t *testing.T) {
	content := contentWithFootnoteRefs(1, 2)
	defs := []snapshot.Footnote{footnoteDef(1), footnoteDef(2)}

	newContent, newDefs, high, err := Footnotes(content, defs, 0)
	if err != nil {
		t.Fatalf("Footnotes: %v", err)
	}
	if !newContent.Equal(content) {
		t.Error("expected content unchanged at offset 0")
	}
	if high != 2 {
		t.Errorf("expected high-water mark 2, got %d", high)
	}
	for i := range defs {
		if newDefs[i].ID != defs[i].ID {
			t.Errorf("definition %d changed at offset 0", i)
		}
	}
}

func TestFootnotes_InputNotModified(t *testing.T) {
	content := contentWithFootnoteRefs(1)
	defs := []snapshot.Footnote{footnoteDef(1)}
	before := content.Clone()
	beforeDef := defs[0].Tree.Clone()

	if _, _, _, err := Footnotes(content, defs, 3); err != nil {
		t.Fatalf("Footnotes: %v", err)
	}
	if !content.Equal(before) {
		t.Error("expected the input content untouched")
	}
	if !defs[0].Tree.Equal(beforeDef) {
		t.Error("expected the input definition untouched")
	}
}

func TestFootnotes_InvalidArguments(t *testing.T) {
	if _, _, _, err := Footnotes(nil, nil, 0); !errors.Is(err, snapshot.ErrInvalidArgument) {
		t.Errorf("nil content: expected ErrInvalidArgument, got %v", err)
	}
	if _, _, _, err := Footnotes(contentWithFootnoteRefs(), nil, -1); !errors.Is(err, snapshot.ErrInvalidArgument) {
		t.Errorf("negative offset: expected ErrInvalidArgument, got %v", err)
	}
}
