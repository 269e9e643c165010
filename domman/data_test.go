package domman

import (
	"testing"

	"github.com/chrisuehlinger/domman/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementData(t *testing.T) {
	dm, _ := setup(t, `<p id="a"></p><p id="b"></p>`)
	ps := dm.Select("p")

	ps.SetData("user", map[string]any{"id": 1}).SetData("n", 2)
	v, ok := dm.Select("#b").Data("user")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": 1}, v)

	all := dm.Select("#a").DataAll()
	assert.Len(t, all, 2)
	all["extra"] = true
	_, ok = dm.Select("#a").Data("extra")
	assert.False(t, ok, "DataAll returns a copy")

	dm.Select("#a").RemoveData("n")
	_, ok = dm.Select("#a").Data("n")
	assert.False(t, ok)
	_, ok = dm.Select("#b").Data("n")
	assert.True(t, ok)

	ps.RemoveAllData()
	assert.Empty(t, dm.Select("#b").DataAll())
	assert.Zero(t, dm.data.len())

	_, ok = dm.Select(".none").Data("user")
	assert.False(t, ok)
	assert.Nil(t, dm.Select(".none").DataAll())
}

func TestDataIsPerDomMan(t *testing.T) {
	dm, doc := setup(t, `<p id="a"></p>`)
	other := New(doc)
	dm.Select("#a").SetData("k", "v")
	_, ok := other.Select("#a").Data("k")
	assert.False(t, ok)
}

func TestLocalStorage(t *testing.T) {
	m, err := storage.NewManager()
	require.NoError(t, err)
	dm, doc := setup(t, `<p></p>`, WithStorage(m))
	doc.SetURL("https://example.com/app")

	require.NoError(t, dm.SetLocalStorage("prefs", map[string]any{"theme": "dark", "size": 3}))
	v, ok := dm.GetLocalStorage("prefs")
	require.True(t, ok)
	if diff := cmp.Diff(map[string]any{"theme": "dark", "size": float64(3)}, v); diff != "" {
		t.Errorf("stored value mismatch (-want +got):\n%s", diff)
	}

	var prefs struct {
		Theme string `json:"theme"`
		Size  int    `json:"size"`
	}
	found, err := dm.GetLocalStorageInto("prefs", &prefs)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, 3, prefs.Size)

	raw, _ := m.Area(storage.Local, "https://example.com:443").GetItem("prefs")
	assert.JSONEq(t, `{"theme":"dark","size":3}`, raw)

	require.NoError(t, m.Area(storage.Local, "https://example.com:443").SetItem("broken", "{"))
	_, ok = dm.GetLocalStorage("broken")
	assert.False(t, ok)
	_, err = dm.GetLocalStorageInto("broken", &prefs)
	assert.Error(t, err)

	dm.RemoveLocalStorage("prefs")
	_, ok = dm.GetLocalStorage("prefs")
	assert.False(t, ok)

	require.NoError(t, dm.SetLocalStorage("a", 1))
	dm.ClearLocalStorage()
	_, ok = dm.GetLocalStorage("a")
	assert.False(t, ok)

	assert.Error(t, dm.SetLocalStorage("fn", func() {}))
}

func TestLocalStorageFallsBackToConfiguredOrigin(t *testing.T) {
	m, err := storage.NewManager()
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Origin = "app://local"
	dm, _ := setup(t, `<p></p>`, WithStorage(m), WithConfig(cfg))

	require.NoError(t, dm.SetLocalStorage("k", "v"))
	raw, ok := m.Area(storage.Local, "app://local").GetItem("k")
	assert.True(t, ok)
	assert.Equal(t, `"v"`, raw)
}
