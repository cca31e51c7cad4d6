package reconcile

import (
	"fmt"

	"github.com/dgallion1/doccompose/internal/ooxml"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// DanglingReferenceError reports a relationship reference that no longer
// resolves after renumbering. It indicates a reconciliation bug, not
// malformed user input: well-formed snapshots cannot trigger it.
type DanglingReferenceError struct {
	ID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling relationship reference %q", e.ID)
}

// Relationships rewrites every rId-style identifier k in the table to
// offset+k, and every embedded reference in the given trees (hyperlinks,
// image embeds, chart references) to match. Targets and types are copied
// verbatim. Ids that do not have the rId<number> shape are preserved
// untouched. Returns the new table, the rewritten trees in input order, and
// the resulting high-water mark.
func Relationships(rels []snapshot.Relationship, offset int, trees ...*ooxml.Node) ([]snapshot.Relationship, []*ooxml.Node, int, error) {
	if offset < 0 {
		return nil, nil, 0, fmt.Errorf("reconcile relationships: %w: negative offset %d", snapshot.ErrInvalidArgument, offset)
	}

	idMap := make(map[string]string, len(rels))
	newRels := make([]snapshot.Relationship, 0, len(rels))
	known := make(map[string]bool, len(rels))
	for _, r := range rels {
		nr := r
		if n := r.Number(); n > 0 && offset > 0 {
			nr.ID = snapshot.RelationshipID(n + offset)
			idMap[r.ID] = nr.ID
		}
		newRels = append(newRels, nr)
		known[nr.ID] = true
	}

	newTrees := make([]*ooxml.Node, 0, len(trees))
	for _, tree := range trees {
		if tree == nil {
			return nil, nil, 0, fmt.Errorf("reconcile relationships: %w: nil tree", snapshot.ErrInvalidArgument)
		}
		nt := tree.Clone()
		var dangling *DanglingReferenceError
		nt.Walk(func(n *ooxml.Node) bool {
			if n.IsText || dangling != nil {
				return dangling == nil
			}
			for i, attr := range n.Attr {
				if attr.Name.Space != ooxml.NSRelationships {
					continue
				}
				if mapped, ok := idMap[attr.Value]; ok {
					n.Attr[i].Value = mapped
				}
				if !known[n.Attr[i].Value] {
					dangling = &DanglingReferenceError{ID: n.Attr[i].Value}
					return false
				}
			}
			return true
		})
		if dangling != nil {
			return nil, nil, 0, dangling
		}
		newTrees = append(newTrees, nt)
	}

	return newRels, newTrees, offset + snapshot.MaxRelationshipNumber(rels), nil
}
