package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/doccompose/internal/snapshot"
)

// ChartMerge is the outcome of folding one document's chart parts into the
// accumulated set.
type ChartMerge struct {
	// Charts is the accumulated set extended with the non-duplicate
	// incoming charts under their final names.
	Charts []snapshot.Chart
	// Relations is the incoming relationship table with chart targets
	// rewritten to final part names.
	Relations []snapshot.Relationship
	// Overrides holds content-type override entries for newly added charts.
	Overrides []snapshot.Override
	// Renamed maps incoming part names to final part names, for every
	// incoming chart (deduplicated or freshly named).
	Renamed map[string]string
}

// Charts merges incoming chart parts (relationship ids already renumbered)
// into the accumulated set. A structurally equal chart is not added again:
// the incoming relations are rewired to the existing part. New charts get
// fresh collision-free names from the accumulated set's name counter.
func Charts(existing, incoming []snapshot.Chart, rels []snapshot.Relationship) ChartMerge {
	merged := append([]snapshot.Chart(nil), existing...)
	renamed := make(map[string]string, len(incoming))
	var overrides []snapshot.Override

	next := maxChartIndex(existing) + 1
	for _, in := range incoming {
		if dup := findEqualChart(merged, in); dup != "" {
			renamed[in.Name] = dup
			continue
		}
		name := chartPartName(next)
		next++
		renamed[in.Name] = name
		merged = append(merged, snapshot.Chart{Name: name, Tree: in.Tree})
		overrides = append(overrides, snapshot.Override{
			PartName:    "/" + name,
			ContentType: snapshot.MediaTypeChart,
		})
	}

	newRels := make([]snapshot.Relationship, 0, len(rels))
	for _, r := range rels {
		target := strings.TrimPrefix(r.Target, "./")
		if finalName, ok := renamed["word/"+target]; ok {
			r.Target = strings.TrimPrefix(finalName, "word/")
		}
		newRels = append(newRels, r)
	}

	return ChartMerge{
		Charts:    merged,
		Relations: newRels,
		Overrides: overrides,
		Renamed:   renamed,
	}
}

func findEqualChart(charts []snapshot.Chart, c snapshot.Chart) string {
	for _, existing := range charts {
		if existing.Tree.Equal(c.Tree) {
			return existing.Name
		}
	}
	return ""
}

func chartPartName(n int) string {
	return fmt.Sprintf("word/%schart%d.xml", snapshot.ChartTargetPrefix, n)
}

// maxChartIndex extracts the largest numeric suffix among accumulated chart
// part names, so fresh names never collide.
func maxChartIndex(charts []snapshot.Chart) int {
	max := 0
	for _, c := range charts {
		base := strings.TrimSuffix(c.Name, ".xml")
		idx := strings.LastIndex(base, "chart")
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(base[idx+len("chart"):]); err == nil && n > max {
			max = n
		}
	}
	return max
}
