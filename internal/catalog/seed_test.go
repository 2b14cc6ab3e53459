package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed()
	require.Len(t, seed, 12)
	require.Equal(t, "apple", seed[0].Name)
	require.Equal(t, "salt", seed[11].Name)
	for _, p := range seed {
		require.Positive(t, p.Price, p.Name)
		require.GreaterOrEqual(t, p.Stock, int64(0), p.Name)
		require.NotEmpty(t, p.Unit, p.Name)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"mango","price":120,"unit":"per kg","stock":25}]`), 0o600))

	products, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "mango", products[0].Name)
}

func TestLoadSeedFileRejectsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing name":   `[{"price":120,"unit":"per kg","stock":25}]`,
		"zero price":     `[{"name":"mango","price":0,"unit":"per kg","stock":25}]`,
		"negative stock": `[{"name":"mango","price":120,"unit":"per kg","stock":-1}]`,
		"not an array":   `{"name":"mango"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
			_, err := LoadSeedFile(path)
			require.Error(t, err)
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
