package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, dir, name string, files map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for fname, data := range files {
		w, err := zw.Create(fname)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpenBundle_FindsSingleModelAndResources(t *testing.T) {
	archive := writeZip(t, t.TempDir(), "pump.zip", map[string][]byte{
		"pump/pump.obj":       []byte("o pump"),
		"pump/pump.mtl":       []byte("newmtl steel"),
		"pump/textures/a.png": []byte("png"),
		"__MACOSX/._pump.obj": []byte("fork"),
		"README.txt":          []byte("hi"),
	})

	b, err := OpenBundle(context.Background(), archive)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "pump.obj", filepath.Base(b.ModelPath))
	assert.Equal(t, ".obj", b.ModelExt())
	assert.Len(t, b.Resources, 2)

	data, err := os.ReadFile(b.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, "o pump", string(data))
}

func TestOpenBundle_RejectsMultipleModels(t *testing.T) {
	archive := writeZip(t, t.TempDir(), "two.zip", map[string][]byte{
		"a.glb": []byte("glTF"),
		"b.fbx": []byte("fbx"),
	})

	_, err := OpenBundle(context.Background(), archive)
	assert.ErrorIs(t, err, ErrMultipleModels)
}

func TestOpenBundle_RejectsArchiveWithoutModel(t *testing.T) {
	archive := writeZip(t, t.TempDir(), "none.zip", map[string][]byte{
		"texture.png": []byte("png"),
	})

	_, err := OpenBundle(context.Background(), archive)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestOpenBundle_SearchesNestedArchive(t *testing.T) {
	dir := t.TempDir()
	inner := writeZip(t, dir, "inner.zip", map[string][]byte{
		"robot.glb": []byte("glTF"),
	})
	innerData, err := os.ReadFile(inner)
	require.NoError(t, err)
	outer := writeZip(t, dir, "outer.zip", map[string][]byte{
		"inner.zip": innerData,
	})

	b, err := OpenBundle(context.Background(), outer)
	require.NoError(t, err)
	assert.Equal(t, "robot.glb", filepath.Base(b.ModelPath))

	require.NoError(t, b.Close())
	_, err = os.Stat(b.ModelPath)
	assert.True(t, os.IsNotExist(err))
}

func TestExtensionHelpers(t *testing.T) {
	assert.True(t, IsModelExt(".GLB"))
	assert.False(t, IsModelExt(".png"))
	assert.True(t, IsArchiveExt(".zip"))
	assert.False(t, IsArchiveExt(".glb"))
	assert.True(t, shouldIgnoreFile(".DS_Store"))
	assert.True(t, shouldIgnoreFile("Thumbs.db"))
	assert.False(t, shouldIgnoreFile("pump.obj"))
}
