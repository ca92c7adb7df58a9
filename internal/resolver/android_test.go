package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnrichAndroidModuleFallsBackToConventionalDirsWhenEmpty(t *testing.T) {
	moduleDir := t.TempDir()
	mustMkdirAll(t, filepath.Join(moduleDir, "src/main/kotlin"))
	mustMkdirAll(t, filepath.Join(moduleDir, "src/debug/kotlin"))

	roots, _ := enrichAndroidModule(moduleDir, "debug", nil, nil)
	found := map[string]bool{}
	for _, r := range roots {
		found[r] = true
	}
	if !found[filepath.Join(moduleDir, "src/main/kotlin")] {
		t.Errorf("roots = %v, want src/main/kotlin", roots)
	}
	if !found[filepath.Join(moduleDir, "src/debug/kotlin")] {
		t.Errorf("roots = %v, want the variant dir src/debug/kotlin", roots)
	}
}

func TestEnrichAndroidModulePicksUpGeneratedRJar(t *testing.T) {
	moduleDir := t.TempDir()
	rJarDir := filepath.Join(moduleDir, "build/intermediates/compile_only_not_namespaced_r_class_jar/debug")
	mustMkdirAll(t, rJarDir)
	if err := os.WriteFile(filepath.Join(rJarDir, "R.jar"), []byte("fake jar"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, classpath := enrichAndroidModule(moduleDir, "debug", nil, nil)
	found := false
	for _, c := range classpath {
		if c == filepath.Join(rJarDir, "R.jar") {
			found = true
		}
	}
	if !found {
		t.Errorf("classpath = %v, want the generated R.jar", classpath)
	}
}

func TestEnrichAndroidModulePicksUpGeneratedSourceDirs(t *testing.T) {
	moduleDir := t.TempDir()
	kspDir := filepath.Join(moduleDir, "build/intermediates/generated/ksp/debug/kotlin")
	mustMkdirAll(t, kspDir)

	roots, _ := enrichAndroidModule(moduleDir, "debug", []string{"/already/present"}, nil)
	found := false
	for _, r := range roots {
		if r == kspDir {
			found = true
		}
	}
	if !found {
		t.Errorf("roots = %v, want generated ksp dir", roots)
	}
}

func TestEnrichAndroidModulePicksUpTaskNamedKspDir(t *testing.T) {
	moduleDir := t.TempDir()
	kspDir := filepath.Join(moduleDir, "build/intermediates/generated/ksp/kspDebugKotlin/kotlin")
	mustMkdirAll(t, kspDir)

	roots, _ := enrichAndroidModule(moduleDir, "debug", nil, nil)
	found := false
	for _, r := range roots {
		if r == kspDir {
			found = true
		}
	}
	if !found {
		t.Errorf("roots = %v, want task-named ksp dir %s", roots, kspDir)
	}
}

func TestHighestInstalledPlatformJarPicksHighestVersion(t *testing.T) {
	sdk := t.TempDir()
	for _, v := range []string{"android-30", "android-33", "android-21"} {
		dir := filepath.Join(sdk, "platforms", v)
		mustMkdirAll(t, dir)
		if err := os.WriteFile(filepath.Join(dir, "android.jar"), []byte("jar"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("ANDROID_HOME", sdk)
	t.Setenv("ANDROID_SDK_ROOT", "")

	got := highestInstalledPlatformJar()
	want := filepath.Join(sdk, "platforms", "android-33", "android.jar")
	if got != want {
		t.Errorf("highestInstalledPlatformJar = %q, want %q", got, want)
	}
}

func TestHighestInstalledPlatformJarEmptyWithoutSdk(t *testing.T) {
	t.Setenv("ANDROID_HOME", "")
	t.Setenv("ANDROID_SDK_ROOT", "")
	if got := highestInstalledPlatformJar(); got != "" {
		t.Errorf("highestInstalledPlatformJar = %q, want empty", got)
	}
}
