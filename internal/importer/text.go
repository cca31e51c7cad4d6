package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/doccompose/internal/snapshot"
)

// TextImporter converts plain text files; blank lines separate paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*snapshot.Snapshot, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var blocks []block
	for _, para := range splitParagraphs(strings.Join(lines, "\n")) {
		blocks = append(blocks, block{text: para})
	}
	return buildSnapshot(blocks), nil
}
