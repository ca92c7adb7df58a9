package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/blueprint/pathtools"
)

// androidGeneratedSourceDirs are the generated-source kinds spec §4.1 step 5
// names, relative to a variant-specific build-output root. A pattern may carry
// a glob segment: KSP output directories are named after the compile task, with
// the variant capitalized ("kspDebugKotlin"), not the bare variant name, so a
// bare dirExists check on the variant alone misses them. Glob patterns are
// tried with the variant as given and with its first letter upper-cased.
var androidGeneratedSourceDirs = []string{
	"generated/aidl_source_output_dir/%s/out",
	"generated/ap_generated_sources/%s/out",
	"generated/data_binding_base_class_source_out/%s/out",
	"generated/source/r/%s",
	"generated/ksp/*%s*/kotlin",
}

// enrichAndroidModule applies spec §4.1 step 5 to a single Android module
// rooted at moduleDir: platform jar, generated R jar, generated source roots,
// and a conventional-layout fallback when the structural pass found no source
// roots.
func enrichAndroidModule(moduleDir, variant string, sourceRoots, classpath []string) (newSourceRoots, newClasspath []string) {
	newSourceRoots = sourceRoots
	newClasspath = classpath

	if platformJar := highestInstalledPlatformJar(); platformJar != "" {
		newClasspath = appendUnique(newClasspath, platformJar)
	}

	buildDir := filepath.Join(moduleDir, "build")
	if rJar := filepath.Join(buildDir, "intermediates", "compile_only_not_namespaced_r_class_jar", variant, "R.jar"); fileExists(rJar) {
		newClasspath = appendUnique(newClasspath, rJar)
	}

	for _, pattern := range androidGeneratedSourceDirs {
		full := filepath.Join(buildDir, "intermediates", sprintfVariant(pattern, variant))
		if !pathtools.IsGlob(full) {
			if dirExists(full) {
				newSourceRoots = appendUnique(newSourceRoots, full)
			}
			continue
		}
		globs := []string{full}
		if variant != "" {
			capitalized := strings.ToUpper(variant[:1]) + variant[1:]
			globs = append(globs, filepath.Join(buildDir, "intermediates", sprintfVariant(pattern, capitalized)))
		}
		for _, g := range globs {
			for _, dir := range globDirs(g) {
				newSourceRoots = appendUnique(newSourceRoots, dir)
			}
		}
	}

	if len(newSourceRoots) == 0 {
		for _, d := range conventionalSourceDirs {
			full := filepath.Join(moduleDir, d)
			if dirExists(full) {
				newSourceRoots = appendUnique(newSourceRoots, full)
			}
		}
		variantDir := filepath.Join(moduleDir, "src", variant, "kotlin")
		if dirExists(variantDir) {
			newSourceRoots = appendUnique(newSourceRoots, variantDir)
		}
	}

	return newSourceRoots, newClasspath
}

func sprintfVariant(pattern, variant string) string {
	return strings.ReplaceAll(pattern, "%s", variant)
}

// globDirs resolves a glob pattern (spec §4.1 step 5's task-named generated
// output directories) to the set of existing directories it matches. A glob
// error or zero matches is never fatal, same as every other resolver fallback.
func globDirs(pattern string) []string {
	result, err := pathtools.Glob(pattern, nil, pathtools.DontFollowSymlinks)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range result.Files {
		if dirExists(f) {
			out = append(out, f)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// androidSdkRoots returns the Android SDK roots named by $ANDROID_HOME and
// $ANDROID_SDK_ROOT, where an SDK's platform jars conventionally live.
func androidSdkRoots() []string {
	var out []string
	if v := os.Getenv("ANDROID_HOME"); v != "" {
		out = append(out, v)
	}
	if v := os.Getenv("ANDROID_SDK_ROOT"); v != "" {
		out = append(out, v)
	}
	return out
}

var platformDirPattern = regexp.MustCompile(`^android-(\d+)$`)

// highestInstalledPlatformJar picks the highest-numbered installed platform's
// android.jar, spec §4.1 step 5. Returns "" when no Android SDK is installed.
func highestInstalledPlatformJar() string {
	best := -1
	var bestPath string
	for _, root := range androidSdkRoots() {
		platformsDir := filepath.Join(root, "platforms")
		entries, err := os.ReadDir(platformsDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			m := platformDirPattern.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			jar := filepath.Join(platformsDir, e.Name(), "android.jar")
			if n > best && fileExists(jar) {
				best = n
				bestPath = jar
			}
		}
	}
	return bestPath
}
