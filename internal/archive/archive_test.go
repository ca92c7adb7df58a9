package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

type fakeStubGenerator struct {
	dir string
	ok  bool
}

func (f *fakeStubGenerator) Generate(klibPath string) (string, bool) { return f.dir, f.ok }

func buildAarFixture(t *testing.T, withClassesJar bool) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if withClassesJar {
		f, err := w.Create("classes.jar")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("fake jar bytes")); err != nil {
			t.Fatal(err)
		}
	} else {
		f, err := w.Create("AndroidManifest.xml")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("<manifest/>")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "lib.aar")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAdaptExtractsAarClassesJar(t *testing.T) {
	aar := buildAarFixture(t, true)
	a := New(nil, nil)
	res := a.Adapt([]string{aar})

	if len(res.Classpath) != 1 {
		t.Fatalf("Classpath = %v, want one extracted jar", res.Classpath)
	}
	content, err := os.ReadFile(res.Classpath[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "fake jar bytes" {
		t.Errorf("content = %q, want the inner classes.jar bytes", content)
	}
	if len(res.ExtractedDirs) != 1 {
		t.Errorf("ExtractedDirs = %v, want one entry", res.ExtractedDirs)
	}
}

func TestAdaptDropsAarWithoutClassesJar(t *testing.T) {
	aar := buildAarFixture(t, false)
	a := New(nil, nil)
	res := a.Adapt([]string{aar})
	if len(res.Classpath) != 0 {
		t.Errorf("Classpath = %v, want the entry dropped", res.Classpath)
	}
}

func TestAdaptDropsAarOnUnreadableZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.aar")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := New(nil, nil)
	res := a.Adapt([]string{path})
	if len(res.Classpath) != 0 {
		t.Errorf("Classpath = %v, want the unreadable entry dropped", res.Classpath)
	}
}

func TestAdaptRoutesKlibToStubGeneratorAsSourceRoot(t *testing.T) {
	stubs := &fakeStubGenerator{dir: "/tmp/kotlinlsp-klib-fixture", ok: true}
	a := New(stubs, nil)
	res := a.Adapt([]string{"stdlib.klib"})

	if len(res.Classpath) != 0 {
		t.Errorf("Classpath = %v, want klib never appended to classpath", res.Classpath)
	}
	if len(res.ExtraSourceRoots) != 1 || res.ExtraSourceRoots[0] != stubs.dir {
		t.Errorf("ExtraSourceRoots = %v, want [%q]", res.ExtraSourceRoots, stubs.dir)
	}
}

func TestAdaptDropsKlibWhenGeneratorMissing(t *testing.T) {
	a := New(nil, nil)
	res := a.Adapt([]string{"stdlib.klib"})
	if len(res.ExtraSourceRoots) != 0 {
		t.Errorf("ExtraSourceRoots = %v, want none without a stub generator", res.ExtraSourceRoots)
	}
}

func TestAdaptDropsKlibOnGenerateFailure(t *testing.T) {
	a := New(&fakeStubGenerator{ok: false}, nil)
	res := a.Adapt([]string{"stdlib.klib"})
	if len(res.ExtraSourceRoots) != 0 {
		t.Errorf("ExtraSourceRoots = %v, want none on generator failure", res.ExtraSourceRoots)
	}
}

func TestAdaptPassesThroughOrdinaryClasspathEntries(t *testing.T) {
	a := New(nil, nil)
	res := a.Adapt([]string{"/libs/kotlin-stdlib.jar"})
	if len(res.Classpath) != 1 || res.Classpath[0] != "/libs/kotlin-stdlib.jar" {
		t.Errorf("Classpath = %v, want the jar passed through unchanged", res.Classpath)
	}
}

func TestCleanUpRemovesAllDirs(t *testing.T) {
	d1 := t.TempDir()
	d2 := t.TempDir()
	if err := CleanUp([]string{d1, d2}); err != nil {
		t.Fatalf("CleanUp: %v", err)
	}
	if _, err := os.Stat(d1); !os.IsNotExist(err) {
		t.Errorf("d1 still exists after CleanUp")
	}
}

func TestCleanUpToleratesAlreadyMissingDir(t *testing.T) {
	// os.RemoveAll on a nonexistent path is a no-op, not an error: a dir that was
	// already cleaned up (or never materialized) must not fail CleanUp.
	if err := CleanUp([]string{"/this/path/does/not/exist/at/all"}); err != nil {
		t.Errorf("CleanUp: %v, want nil for an already-missing dir", err)
	}
}
