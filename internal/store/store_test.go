package store

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := New(fs, "/results")
	require.NoError(t, err)
	return s, fs
}

func TestStore_SaveAndOpen(t *testing.T) {
	s, _ := newTestStore(t)

	path, err := s.Save("job-1", []byte("package bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/results/job-1.docx", path)

	rc, err := s.Open("job-1")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "package bytes", string(data))

	size, err := s.Size("job-1")
	require.NoError(t, err)
	assert.Equal(t, int64(len("package bytes")), size)
}

func TestStore_OpenMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Open("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Save("job-1", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete("job-1"))
	require.NoError(t, s.Delete("job-1"))

	_, err = s.Open("job-1")
	assert.Error(t, err)
}

func TestStore_Sweep(t *testing.T) {
	s, fs := newTestStore(t)
	_, err := s.Save("old", []byte("x"))
	require.NoError(t, err)
	_, err = s.Save("fresh", []byte("y"))
	require.NoError(t, err)

	// age one result past the cutoff
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, fs.Chtimes("/results/old.docx", past, past))

	removed, err := s.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Open("old")
	assert.Error(t, err)
	_, err = s.Open("fresh")
	assert.NoError(t, err)
}
