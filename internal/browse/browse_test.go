package browse

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"b", "A", ".hidden", "c/nested/deep"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644))
	return root
}

func names(items []Entry) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.Name)
	}
	return out
}

func TestList(t *testing.T) {
	root := makeTree(t)

	l, err := List(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "b", "c", ".hidden"}, names(l.Items))
	assert.Equal(t, root, l.CurrentPath)
	require.NotNil(t, l.ParentPath)
	assert.Equal(t, filepath.Dir(root), *l.ParentPath)
	assert.True(t, l.CurrentWritable)

	byName := map[string]Entry{}
	for _, e := range l.Items {
		byName[e.Name] = e
	}
	assert.True(t, byName["c"].HasSubdirs)
	assert.False(t, byName["A"].HasSubdirs)
	assert.True(t, byName[".hidden"].Hidden)
	assert.True(t, byName["A"].Readable)
	assert.Equal(t, "directory", byName["A"].Type)
}

func TestList_Roots(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("drive listing")
	}
	l, err := List("")
	require.NoError(t, err)
	assert.Equal(t, "/", l.CurrentPath)
	assert.Nil(t, l.ParentPath)
}

func TestList_Errors(t *testing.T) {
	root := makeTree(t)

	_, err := List(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = List(filepath.Join(root, "f.txt"))
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestWalk(t *testing.T) {
	root := makeTree(t)

	var paths []string
	for e := range Walk(root, 2) {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}
	assert.ElementsMatch(t, []string{".hidden", "A", "b", "c", "c/nested"}, paths)

	count := 0
	for range Walk(root, 10) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)

	assert.Empty(t, slices.Collect(Walk(root, 0)))
}
