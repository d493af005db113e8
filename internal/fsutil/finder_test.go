package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.hcl", "a.hcl", "notes.txt", "nested/c.hcl", ".git/d.hcl")

	flat, err := FindFilesByExtension(dir, ".hcl", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl")}, flat)

	deep, err := FindFilesByExtension(dir, ".hcl", true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, deep)

	_, err = FindFilesByExtension(dir, "", true)
	assert.ErrorIs(t, err, ErrEmptyExtension)
}

func TestResolveFile(t *testing.T) {
	single := t.TempDir()
	touch(t, single, "site.hcl", "page.hbs")

	got, err := ResolveFile(single, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(single, "site.hcl"), got)

	got, err = ResolveFile(filepath.Join(single, "page.hbs"), ".hcl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(single, "page.hbs"), got)

	empty := t.TempDir()
	_, err = ResolveFile(empty, ".hcl")
	assert.ErrorIs(t, err, ErrNoMatch)

	many := t.TempDir()
	touch(t, many, "a.hcl", "b.hcl")
	_, err = ResolveFile(many, ".hcl")
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.ErrorContains(t, err, "a.hcl, b.hcl")

	_, err = ResolveFile(filepath.Join(empty, "missing"), ".hcl")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
