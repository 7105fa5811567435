package localfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "datasheets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datasheets", "a.pdf"), []byte("%PDF"), 0o644))
	s := New(dir)

	b, err := s.ReadFile("datasheets/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), b)

	b, err = s.ReadFile("/datasheets/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), b)

	_, err = s.ReadFile("datasheets/missing.pdf")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = s.ReadFile("../etc/passwd")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRepositoryAssets(t *testing.T) {
	s := New("../../../../assets")
	for _, name := range []string{"fonts/DejaVuSans.ttf", "pages/page-01.html", "datasheets/profil-zlabovy.pdf"} {
		_, err := s.ReadFile(name)
		assert.NoError(t, err, name)
	}
}
