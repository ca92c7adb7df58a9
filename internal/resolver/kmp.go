package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// multiplatformPluginTokens are the build-file substrings that mark a module as
// Kotlin Multiplatform, spec §4.1 step 6.
var multiplatformPluginTokens = []string{
	"kotlin(\"multiplatform\")",
	"org.jetbrains.kotlin.multiplatform",
	"id(\"org.jetbrains.kotlin.multiplatform\")",
}

// intermediateSourceSetTargets maps an intermediate source-set name to the leaf
// target names it should be attached to, spec §4.1 step 6: "attaching
// intermediate sets (nativeMain, iosMain, macosMain) to their leaf native
// targets".
var intermediateSourceSetTargets = map[string][]string{
	"native": {"iosArm64", "macosArm64", "macosX64", "linuxX64", "mingwX64"},
	"ios":    {"iosArm64", "iosX64", "iosSimulatorArm64"},
	"macos":  {"macosArm64", "macosX64"},
}

// isMultiplatformModule inspects a module's build file text for a
// multiplatform plugin token.
func isMultiplatformModule(buildFileText string) bool {
	for _, tok := range multiplatformPluginTokens {
		if strings.Contains(buildFileText, tok) {
			return true
		}
	}
	return false
}

// defaultLeafTargets is the set of leaf platform targets this resolver probes
// for on disk when a module is multiplatform, grounded on the common template
// produced by the Kotlin Multiplatform Gradle plugin's default target names.
var defaultLeafTargets = []string{
	"jvm", "android", "js", "wasmJs",
	"iosArm64", "iosX64", "iosSimulatorArm64",
	"macosArm64", "macosX64", "linuxX64", "mingwX64",
}

// discoverKmpTargets enumerates target source sets by disk convention (spec
// §4.1 step 6): src/<target>Main/{kotlin,java}, src/<target>Test/{kotlin,java},
// plus intermediate sets folded into their leaf native targets.
func discoverKmpTargets(moduleDir string) ([]model.KmpTarget, error) {
	byLeaf := map[string]*model.KmpTarget{}
	ensure := func(name string) *model.KmpTarget {
		if t, ok := byLeaf[name]; ok {
			return t
		}
		platform, err := model.PlatformForTargetName(name)
		if err != nil {
			return nil
		}
		t := &model.KmpTarget{Name: name, Platform: platform}
		byLeaf[name] = t
		return t
	}

	addSourceSet := func(t *model.KmpTarget, setName string) {
		for _, lang := range []string{"kotlin", "java"} {
			mainDir := filepath.Join(moduleDir, "src", setName+"Main", lang)
			if dirExists(mainDir) {
				t.SourceRoots = appendUnique(t.SourceRoots, mainDir)
			}
			testDir := filepath.Join(moduleDir, "src", setName+"Test", lang)
			if dirExists(testDir) {
				t.TestSourceRoots = appendUnique(t.TestSourceRoots, testDir)
			}
		}
	}

	for _, leaf := range defaultLeafTargets {
		t := ensure(leaf)
		if t == nil {
			continue
		}
		addSourceSet(t, leaf)
	}
	for intermediate, leaves := range intermediateSourceSetTargets {
		if !dirExists(filepath.Join(moduleDir, "src", intermediate+"Main")) {
			continue
		}
		for _, leaf := range leaves {
			t := ensure(leaf)
			if t == nil {
				continue
			}
			addSourceSet(t, intermediate)
		}
	}

	var out []model.KmpTarget
	for _, leaf := range defaultLeafTargets {
		t, ok := byLeaf[leaf]
		if !ok {
			continue
		}
		if len(t.SourceRoots) == 0 && len(t.TestSourceRoots) == 0 {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

// readBuildFileText returns the text of a module's build.gradle(.kts), or "" if
// neither exists.
func readBuildFileText(moduleDir string) string {
	for _, name := range []string{"build.gradle.kts", "build.gradle"} {
		p := filepath.Join(moduleDir, name)
		if b, err := os.ReadFile(p); err == nil {
			return string(b)
		}
	}
	return ""
}
