package outline

import "strings"

// Document is the heading outline of a composed document.
type Document struct {
	Title    string     `json:"title"`
	Words    int        `json:"words"`
	Sections []*Section `json:"sections,omitempty"`
}

// Section is a recursive heading-level entry.
type Section struct {
	Title    string     `json:"title"`
	Level    int        `json:"level"`
	Words    int        `json:"words"`
	Sections []*Section `json:"sections,omitempty"`
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TotalWords sums the word counts of a section subtree.
func TotalWords(sections []*Section) int {
	total := 0
	for _, s := range sections {
		total += s.Words + TotalWords(s.Sections)
	}
	return total
}
