package ooxml

import (
	"encoding/xml"
	"testing"
)

func TestEqual_AttributeOrderIgnored(t *testing.T) {
	a := NewElement(NSWordprocessingML, "p").
		WithAttr(NSWordprocessingML, "one", "1").
		WithAttr(NSWordprocessingML, "two", "2")
	b := NewElement(NSWordprocessingML, "p").
		WithAttr(NSWordprocessingML, "two", "2").
		WithAttr(NSWordprocessingML, "one", "1")

	if !a.Equal(b) {
		t.Error("expected trees with reordered attributes to be equal")
	}
}

func TestEqual_AttributeValueDiffers(t *testing.T) {
	a := NewElement(NSWordprocessingML, "p").WithAttr(NSWordprocessingML, "id", "1")
	b := NewElement(NSWordprocessingML, "p").WithAttr(NSWordprocessingML, "id", "2")
	if a.Equal(b) {
		t.Error("expected trees with different attribute values to differ")
	}
}

func TestEqual_ChildOrderSignificant(t *testing.T) {
	a := NewElement(NSWordprocessingML, "body").
		Append(NewText("x"), NewText("y"))
	b := NewElement(NSWordprocessingML, "body").
		Append(NewText("y"), NewText("x"))
	if a.Equal(b) {
		t.Error("expected trees with reordered children to differ")
	}
}

func TestEqual_DeepStructure(t *testing.T) {
	build := func() *Node {
		return NewElement(NSWordprocessingML, "p").Append(
			NewElement(NSWordprocessingML, "r").Append(
				NewElement(NSWordprocessingML, "t").Append(NewText("hello")),
			),
		)
	}
	if !build().Equal(build()) {
		t.Error("expected independently built identical trees to be equal")
	}
}

func TestEqual_NameDiffers(t *testing.T) {
	a := NewElement(NSWordprocessingML, "p")
	b := NewElement(NSWordprocessingML, "r")
	if a.Equal(b) {
		t.Error("expected trees with different tags to differ")
	}
}

func TestClone_Independent(t *testing.T) {
	orig := NewElement(NSWordprocessingML, "p").
		WithAttr(NSWordprocessingML, "id", "1").
		Append(NewElement(NSWordprocessingML, "r").Append(NewText("text")))

	clone := orig.Clone()
	if !orig.Equal(clone) {
		t.Fatal("expected clone to be structurally equal")
	}

	clone.SetAttr(NSWordprocessingML, "id", "99")
	clone.Children[0].Children[0].Text = "changed"

	if v, _ := orig.AttrValue(NSWordprocessingML, "id"); v != "1" {
		t.Errorf("expected original attribute untouched, got %q", v)
	}
	if orig.Children[0].Children[0].Text != "text" {
		t.Errorf("expected original text untouched, got %q", orig.Children[0].Children[0].Text)
	}
}

func TestSetAttr_ReplacesExisting(t *testing.T) {
	n := NewElement(NSWordprocessingML, "p").WithAttr(NSWordprocessingML, "id", "1")
	n.SetAttr(NSWordprocessingML, "id", "2")

	if len(n.Attr) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(n.Attr))
	}
	if v, _ := n.AttrValue(NSWordprocessingML, "id"); v != "2" {
		t.Errorf("expected id 2, got %q", v)
	}
}

func TestFindFirst_DocumentOrder(t *testing.T) {
	first := NewElement(NSWordprocessingML, "t").Append(NewText("first"))
	second := NewElement(NSWordprocessingML, "t").Append(NewText("second"))
	root := NewElement(NSWordprocessingML, "body").Append(
		NewElement(NSWordprocessingML, "p").Append(first),
		second,
	)

	got := root.FindFirst(NSWordprocessingML, "t")
	if got != first {
		t.Error("expected FindFirst to return the first match in document order")
	}
	if root.FindFirst(NSWordprocessingML, "tbl") != nil {
		t.Error("expected nil for a missing element")
	}
}

func TestTextContent_Concatenates(t *testing.T) {
	root := NewElement(NSWordprocessingML, "p").Append(
		NewElement(NSWordprocessingML, "r").Append(
			NewElement(NSWordprocessingML, "t").Append(NewText("hello ")),
		),
		NewElement(NSWordprocessingML, "r").Append(
			NewElement(NSWordprocessingML, "t").Append(NewText("world")),
		),
	)
	if got := root.TextContent(); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
}

func TestWalk_SkipsChildrenOnFalse(t *testing.T) {
	root := NewElement(NSWordprocessingML, "body").Append(
		NewElement(NSWordprocessingML, "p").Append(NewElement(NSWordprocessingML, "r")),
	)

	var visited []xml.Name
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Name)
		return !n.IsElement(NSWordprocessingML, "p")
	})

	if len(visited) != 2 {
		t.Fatalf("expected 2 visited nodes, got %d", len(visited))
	}
	if visited[1].Local != "p" {
		t.Errorf("expected p to be the last visited node, got %s", visited[1].Local)
	}
}
