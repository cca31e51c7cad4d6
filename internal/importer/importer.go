// Package importer turns uploaded merge inputs into document snapshots.
// Native word-processing packages are loaded part by part; markdown, HTML,
// PDF and plain-text inputs are converted into minimal well-formed snapshots
// so they can participate in the same composition fold.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doccompose/internal/snapshot"
)

// Importer converts raw input bytes into a document snapshot.
type Importer interface {
	Import(r io.Reader, filename string) (*snapshot.Snapshot, error)
}

// SupportedExtensions lists file extensions this service can merge.
var SupportedExtensions = map[string]bool{
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".txt":      true,
	".pdf":      true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DocxImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
