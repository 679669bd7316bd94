package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binderir/aidlc/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveAIDLInterface(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/example/IFoo.aidl", `
package com.example;
interface IFoo {
    void ping();
}
`)
	l := New([]string{root}, 11)
	units, err := l.Resolve("com.example.IFoo")
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, model.UnitBinder, units[0].Type)
	require.Equal(t, "com.example.IFoo", units[0].QName)
}

func TestResolveMissingGivesResolutionError(t *testing.T) {
	l := New([]string{t.TempDir()}, 11)
	_, err := l.Resolve("com.example.Nope")
	require.Error(t, err)
}

func TestResolveWildcardImportsAllSiblings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/example/IFoo.aidl", `
package com.example;
interface IFoo { void ping(); }
`)
	writeFile(t, root, "com/example/IBar.aidl", `
package com.example;
interface IBar { void pong(); }
`)
	l := New([]string{root}, 11)
	units, err := l.Resolve("com.example.*")
	require.NoError(t, err)
	require.Len(t, units, 2)
}

func TestResolveCachesByQName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/example/IFoo.aidl", `
package com.example;
interface IFoo { void ping(); }
`)
	l := New([]string{root}, 11)
	first, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	second, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestResolveJSONPrecompiledUnit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/example/IBaz.json", `{
  "qname": "com.example.IBaz",
  "type": "BINDER",
  "methods": []
}`)
	l := New([]string{root}, 11)
	units, err := l.Resolve("com.example.IBaz")
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.True(t, units[0].IsCompiled)
	require.NotNil(t, units[0].Binder)
}

func TestInvalidateDropsCacheEntry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/example/IFoo.aidl", `
package com.example;
interface IFoo { void ping(); }
`)
	l := New([]string{root}, 11)
	first, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	l.Invalidate("com.example.IFoo")
	second, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	require.NotSame(t, first, second)
}

func TestSearchPathAndAndroidVersionAccessors(t *testing.T) {
	l := New([]string{"/a", "/b"}, 9)
	require.Equal(t, []string{"/a", "/b"}, l.SearchPath())
	require.Equal(t, 9, l.AndroidVersion())
}

func TestWatcherInvalidatePathSkipsUnchangedContent(t *testing.T) {
	root := t.TempDir()
	src := "com/example/IFoo.aidl"
	body := `
package com.example;
interface IFoo { void ping(); }
`
	writeFile(t, root, src, body)
	l := New([]string{root}, 11)
	first, err := l.Get("com.example.IFoo")
	require.NoError(t, err)

	w := &Watcher{loader: l}
	writeFile(t, root, src, body) // rewritten, identical bytes
	w.invalidatePath(filepath.Join(root, src))

	second, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestWatcherInvalidatePathDropsChangedContent(t *testing.T) {
	root := t.TempDir()
	src := "com/example/IFoo.aidl"
	writeFile(t, root, src, `
package com.example;
interface IFoo { void ping(); }
`)
	l := New([]string{root}, 11)
	first, err := l.Get("com.example.IFoo")
	require.NoError(t, err)

	w := &Watcher{loader: l}
	writeFile(t, root, src, `
package com.example;
interface IFoo { void ping(); void pong(); }
`)
	w.invalidatePath(filepath.Join(root, src))

	second, err := l.Get("com.example.IFoo")
	require.NoError(t, err)
	require.NotSame(t, first, second)
}
