package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSourceOnlyProviderIsAlwaysCandidate(t *testing.T) {
	p := NewSourceOnlyProvider()
	if !p.IsCandidate(t.TempDir()) {
		t.Error("IsCandidate = false, want true (provider of last resort)")
	}
}

func TestSourceOnlyProviderFindsConventionalDirs(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "src/main/kotlin"))
	mustMkdirAll(t, filepath.Join(root, "src/test/kotlin"))

	p := NewSourceOnlyProvider()
	pm, err := p.Resolve(context.Background(), root, "debug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(pm.Modules) != 1 {
		t.Fatalf("Modules = %d, want 1", len(pm.Modules))
	}
	m := pm.Modules[0]
	if len(m.SourceRoots) != 1 || len(m.TestSourceRoots) != 1 {
		t.Errorf("SourceRoots=%v TestSourceRoots=%v, want exactly one dir each", m.SourceRoots, m.TestSourceRoots)
	}
	if m.IsMultiplatform() {
		t.Error("source-only module should never be multiplatform")
	}
}

func TestSourceOnlyProviderNeverFailsOnEmptyTree(t *testing.T) {
	root := t.TempDir()
	p := NewSourceOnlyProvider()
	pm, err := p.Resolve(context.Background(), root, "debug")
	if err != nil {
		t.Fatalf("Resolve on an empty tree: %v", err)
	}
	if len(pm.Modules) != 1 || len(pm.Modules[0].SourceRoots) != 0 {
		t.Errorf("expected one module with no source roots, got %+v", pm.Modules)
	}
}

func TestSourceOnlyProviderIncludesVariantDir(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "src/release/kotlin"))

	p := NewSourceOnlyProvider()
	pm, err := p.Resolve(context.Background(), root, "release")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(pm.Modules[0].SourceRoots) != 1 {
		t.Errorf("SourceRoots = %v, want the release variant dir included", pm.Modules[0].SourceRoots)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}
