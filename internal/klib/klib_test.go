package klib

import (
	"archive/zip"
	"bytes"
	"os"
	"testing"
)

func TestPackageFromEntryName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"linkdata/root_package/com/example/widgets/0_f.knm", "com.example.widgets"},
		{"linkdata/root_package/0_f.knm", ""},
		{"manifest", ""},
	}
	for _, c := range cases {
		if got := packageFromEntryName(c.name); got != c.want {
			t.Errorf("packageFromEntryName(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestGenerateOnUnreadableZipFails(t *testing.T) {
	g := New(nil)
	dir, ok := g.Generate("/nonexistent/path.klib")
	if ok {
		t.Error("Generate on a missing file returned ok=true")
		os.RemoveAll(dir)
	}
}

func buildKlibFixture(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	header := buildFragmentHeader("widgets.Label")
	var cls []byte
	cls = appendStr(cls, declFieldKind, "CLASS")
	cls = appendVarint(cls, declFieldNameIndex, 1)
	cls = appendStr(cls, declFieldVisibility, "public")
	fragment := appendSub(header, fieldTopLevel, cls)

	f, err := w.Create("linkdata/root_package/widgets/0_f.knm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(fragment); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	path := t.TempDir() + "/fixture.klib"
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateWritesOneStubPerPackage(t *testing.T) {
	path := buildKlibFixture(t)
	g := New(nil)
	dir, ok := g.Generate(path)
	defer os.RemoveAll(dir)
	if !ok {
		t.Fatal("Generate returned ok=false for a readable klib")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ReadDir = %d entries, want 1", len(entries))
	}
	if entries[0].Name() != "widgets.kt" {
		t.Errorf("stub file name = %q, want widgets.kt", entries[0].Name())
	}

	content, err := os.ReadFile(dir + "/" + entries[0].Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(content, []byte("class Label")) {
		t.Errorf("stub content = %q, want it to contain \"class Label\"", content)
	}
}
