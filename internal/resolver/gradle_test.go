package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type fakeRunner struct {
	stdout string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, root, script string) (string, error) {
	return f.stdout, f.err
}

func TestGradleProviderIsCandidateOnMarkerFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "build.gradle.kts"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewGradleProvider(&fakeRunner{}, nil)
	if !p.IsCandidate(root) {
		t.Error("IsCandidate = false, want true (build.gradle.kts present)")
	}
}

func TestGradleProviderIsNotCandidateWithoutMarkers(t *testing.T) {
	p := NewGradleProvider(&fakeRunner{}, nil)
	if p.IsCandidate(t.TempDir()) {
		t.Error("IsCandidate = true, want false (no gradle markers)")
	}
}

func TestGradleProviderResolveMergesStructuralAndInitScriptPasses(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "build.gradle.kts"), []byte("plugins { id(\"org.jetbrains.kotlin.jvm\") }"), 0o644); err != nil {
		t.Fatal(err)
	}
	mustMkdirAll(t, filepath.Join(root, "src/main/kotlin"))

	// The root module's Gradle project path is ":" (spec §6.2's
	// "${project.path}"), not the directory's base name: the record's module
	// field is itself ":", so the line carries three consecutive colons
	// (prefix, module value, field separator) before the absolute path.
	runner := &fakeRunner{stdout: "LSPCP:::/libs/a.jar\n"}
	p := NewGradleProvider(runner, nil)

	pm, err := p.Resolve(context.Background(), root, "debug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(pm.Modules) != 1 {
		t.Fatalf("Modules = %d, want 1", len(pm.Modules))
	}
	m := pm.Modules[0]
	if len(m.SourceRoots) != 1 {
		t.Errorf("SourceRoots = %v, want src/main/kotlin", m.SourceRoots)
	}
	if len(m.Classpath) != 1 {
		t.Errorf("Classpath = %v, want the init-script jar merged in", m.Classpath)
	}
}

func TestGradleProviderResolveFailsWhenInitScriptRunFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "build.gradle.kts"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &fakeRunner{err: context.DeadlineExceeded}
	p := NewGradleProvider(runner, nil)

	if _, err := p.Resolve(context.Background(), root, "debug"); err == nil {
		t.Fatal("Resolve: want error when the init-script run fails")
	}
}

func TestGradleProviderResolveFailsWhenNoBuildFiles(t *testing.T) {
	p := NewGradleProvider(&fakeRunner{}, nil)
	if _, err := p.Resolve(context.Background(), t.TempDir(), "debug"); err == nil {
		t.Fatal("Resolve: want error when no build.gradle(.kts) files exist")
	}
}

func TestGradleProviderModelPassDetectsMultiplatformModule(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "build.gradle.kts"), []byte(`kotlin("multiplatform")`), 0o644); err != nil {
		t.Fatal(err)
	}
	mustMkdirAll(t, filepath.Join(root, "src/commonMain/kotlin"))
	mustMkdirAll(t, filepath.Join(root, "src/jvmMain/kotlin"))

	p := NewGradleProvider(&fakeRunner{}, nil)
	modules, err := p.modelPass(root, "debug")
	if err != nil {
		t.Fatalf("modelPass: %v", err)
	}
	if len(modules) != 1 || !modules[0].IsMultiplatform() {
		t.Fatalf("modules = %+v, want one multiplatform module", modules)
	}
	if len(modules[0].SourceRoots) != 1 {
		t.Errorf("SourceRoots = %v, want common main root", modules[0].SourceRoots)
	}
	if len(modules[0].Targets) != 1 || modules[0].Targets[0].Name != "jvm" {
		t.Errorf("Targets = %+v, want one jvm target", modules[0].Targets)
	}
}

func TestModuleNameUsesGradleRootPathForTopLevel(t *testing.T) {
	root := t.TempDir()
	if got := moduleName(root, root); got != ":" {
		t.Errorf("moduleName = %q, want %q", got, ":")
	}
}

func TestModuleNameUsesColonSeparatedGradlePathForNested(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "app", "feature")
	if got := moduleName(root, nested); got != ":app:feature" {
		t.Errorf("moduleName = %q, want :app:feature", got)
	}
}
