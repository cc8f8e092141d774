package behavior

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibrary(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, lib.Version)
	assert.NotEmpty(t, lib.Categories)
	assert.Greater(t, lib.Count(), 20)

	names := lib.CategoryNames()
	assert.Contains(t, names, "Communication Styles")
	assert.Contains(t, names, "Manipulation Patterns")
}

func TestDefaultLibraryUniqueIDs(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range lib.Categories {
		for _, sc := range c.Subcategories {
			for _, b := range sc.Behaviors {
				assert.NotEmpty(t, b.ID)
				assert.False(t, seen[b.ID], "duplicate behavior id %s", b.ID)
				seen[b.ID] = true
			}
		}
	}
}

func TestFind(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	b, ok := lib.Find("manip-gaslighting")
	require.True(t, ok)
	assert.Equal(t, "Gaslighting", b.Name)

	_, ok = lib.Find("no-such-behavior")
	assert.False(t, ok)
}

func TestLoadCustomLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	custom := `version: "2.0.0"
categories:
  - category: Test Category
    subcategories:
      - name: Test Sub
        behaviors:
          - id: test-one
            name: Test behavior
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", lib.Version)
	assert.Equal(t, 1, lib.Count())
	assert.Equal(t, []string{"Test Category"}, lib.CategoryNames())
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def.Version, lib.Version)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [not: valid: yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
