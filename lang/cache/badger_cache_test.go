package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/cycles/lang/interp"
)

type fakeLoader struct {
	libs  map[string]*interp.Library
	calls int
}

func (f *fakeLoader) Load(name string) (*interp.Library, error) {
	f.calls++
	lib, ok := f.libs[name]
	if !ok {
		return nil, &interp.ImportError{Library: name}
	}
	return lib, nil
}

func TestCachedLoaderRecordsSourceOnFirstLoad(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	defer db.Close()

	base := &fakeLoader{libs: map[string]*interp.Library{
		"mylib": interp.NewLibrary("mylib").WithSource("export { x };\nconst x = 1;"),
	}}
	loader := NewLibraryLoader(db, base)

	_, err = loader.Load("mylib")
	require.NoError(t, err)
	_, err = loader.Load("mylib")
	require.NoError(t, err)

	require.Equal(t, 2, base.calls) // the cache short-circuits *validation*, not the base lookup

	hit, err := db.get("mylib", "export { x };\nconst x = 1;")
	require.NoError(t, err)
	require.True(t, hit)
}

func TestNilCacheDegradesToBaseLoaderDirectly(t *testing.T) {
	base := &fakeLoader{libs: map[string]*interp.Library{
		"mylib": interp.NewLibrary("mylib"),
	}}
	loader := NewLibraryLoader(nil, base)
	lib, err := loader.Load("mylib")
	require.NoError(t, err)
	require.Equal(t, "mylib", lib.Name)
}

func TestCachedLoaderPropagatesMissingLibraryError(t *testing.T) {
	base := &fakeLoader{libs: map[string]*interp.Library{}}
	loader := NewLibraryLoader(nil, base)
	_, err := loader.Load("nope")
	require.ErrorIs(t, err, interp.ErrImport)
}
