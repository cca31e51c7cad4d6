// Package opc reads and writes the zip container that holds the parts of a
// word-processing document.
package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Package is an in-memory part container. Part names use forward slashes
// with no leading slash, e.g. "word/document.xml".
type Package struct {
	order []string
	parts map[string][]byte
}

// New returns an empty package.
func New() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// Open reads a zip container into a package.
func Open(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	pkg := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		pkg.SetPart(cleanName(f.Name), data)
	}
	return pkg, nil
}

// OpenBytes reads a zip container held in memory.
func OpenBytes(data []byte) (*Package, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

// Part returns the raw bytes of the named part.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[cleanName(name)]
	return data, ok
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[cleanName(name)]
	return ok
}

// SetPart stores a part, replacing any existing content. Insertion order is
// preserved so serialized output is deterministic.
func (p *Package) SetPart(name string, data []byte) {
	name = cleanName(name)
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// Names returns the part names in insertion order.
func (p *Package) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// WriteTo serializes the package as a zip container. The content-types part
// is written first, matching the convention of common producers.
func (p *Package) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	names := p.order
	const contentTypes = "[Content_Types].xml"
	if p.HasPart(contentTypes) {
		ordered := make([]string, 0, len(names))
		ordered = append(ordered, contentTypes)
		for _, n := range names {
			if n != contentTypes {
				ordered = append(ordered, n)
			}
		}
		names = ordered
	}

	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return fmt.Errorf("write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}

// Bytes serializes the package to memory.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cleanName(name string) string {
	return strings.TrimPrefix(name, "/")
}
