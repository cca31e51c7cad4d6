package importer

import (
	"fmt"
	"io"

	"github.com/dgallion1/doccompose/internal/opc"
	"github.com/dgallion1/doccompose/internal/snapshot"
)

// DocxImporter loads native word-processing packages.
type DocxImporter struct{}

func (p *DocxImporter) Import(r io.Reader, filename string) (*snapshot.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	pkg, err := opc.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	s, err := snapshot.Load(pkg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return s, nil
}
