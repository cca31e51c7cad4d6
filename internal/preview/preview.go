// Package preview extracts a heading outline from a composed package so
// callers can inspect a merge result without opening the document.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/doccompose/internal/outline"
	"github.com/fumiama/go-docx"
)

// Outline parses a serialized package and returns its heading outline with
// per-section word counts.
func Outline(data []byte, title string) (*outline.Document, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	out := &outline.Document{Title: title}

	type stackEntry struct {
		sections *[]*outline.Section
		section  *outline.Section
		level    int
	}
	stack := []stackEntry{{sections: &out.Sections, level: 0}}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := paragraphHeadingLevel(para)
		text := paragraphText(para)

		if level > 0 && text != "" {
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			section := &outline.Section{Title: text, Level: level}
			top := stack[len(stack)-1]
			if top.section != nil {
				top.section.Sections = append(top.section.Sections, section)
			} else {
				*top.sections = append(*top.sections, section)
			}
			stack = append(stack, stackEntry{section: section, level: level})
			continue
		}

		if text == "" {
			continue
		}
		words := outline.CountWords(text)
		if top := stack[len(stack)-1]; top.section != nil {
			top.section.Words += words
		} else {
			out.Words += words
		}
	}

	out.Words += outline.TotalWords(out.Sections)
	return out, nil
}

func paragraphHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok || len(rest) != 1 {
		return 0
	}
	if rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
