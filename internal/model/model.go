// Package model defines the project model: the language-neutral description of a
// workspace that the resolver produces and every session is built from.
package model

import (
	"fmt"
	"path/filepath"

	"github.com/google/blueprint/proptools"
)

// String re-exports proptools.String: the zero value for a nil *string optional
// field (KotlinVersion, JvmTarget), mirroring android/config.go's re-export of
// the same helper for Soong's own optional Module properties.
var String = proptools.String

// StringDefault re-exports proptools.StringDefault.
var StringDefault = proptools.StringDefault

// StringPtr re-exports proptools.StringPtr, used by resolver providers to set
// KotlinVersion/JvmTarget from parsed build-file text.
var StringPtr = proptools.StringPtr

// Platform identifies the target platform kind a session is pinned to.
type Platform string

const (
	JVM     Platform = "JVM"
	Android Platform = "ANDROID"
	JS      Platform = "JS"
	Native  Platform = "NATIVE"
)

// platformByTargetName maps a KmpTarget.Name to its Platform, per spec §3 and §6.2's
// config-name table. Unknown names are a hard error at model construction.
var platformByTargetName = map[string]Platform{
	"jvm":               JVM,
	"android":           Android,
	"js":                JS,
	"wasmJs":            JS,
	"native":            Native,
	"ios":               Native,
	"iosArm64":          Native,
	"iosX64":            Native,
	"iosSimulatorArm64": Native,
	"macos":             Native,
	"macosX64":          Native,
	"macosArm64":        Native,
	"linux":             Native,
	"linuxX64":          Native,
	"mingw":             Native,
	"mingwX64":          Native,
}

// PlatformForTargetName resolves a KmpTarget name to its Platform.
func PlatformForTargetName(name string) (Platform, error) {
	if p, ok := platformByTargetName[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("model: unknown kmp target name %q", name)
}

// KmpTarget is a single per-platform descriptor of a multiplatform Module.
type KmpTarget struct {
	Name     string
	Platform Platform

	SourceRoots     []string
	TestSourceRoots []string
	Classpath       []string
	TestClasspath   []string
}

// Module is one build-system module.
type Module struct {
	Name string

	SourceRoots     []string
	TestSourceRoots []string
	Classpath       []string
	TestClasspath   []string

	KotlinVersion *string
	JvmTarget     *string

	IsAndroid bool

	// Targets is non-empty iff this module is multiplatform. SourceRoots/TestSourceRoots
	// in that case are the "common" roots shared across every target.
	Targets []KmpTarget
}

// IsMultiplatform reports whether m represents a multiplatform module.
func (m *Module) IsMultiplatform() bool { return len(m.Targets) > 0 }

// ProjectModel is the immutable description of a resolved workspace.
type ProjectModel struct {
	Modules   []Module
	ProjectDir string // optional, empty when unknown
	Variant   string
	IsMultiplatform bool
}

// NewProjectModel canonicalizes paths and validates target names, returning an
// immutable ProjectModel. Variant defaults to "debug" per spec §3.
func NewProjectModel(projectDir, variant string, modules []Module) (*ProjectModel, error) {
	if variant == "" {
		variant = "debug"
	}
	mp := &ProjectModel{
		Variant: variant,
	}
	if projectDir != "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return nil, fmt.Errorf("model: canonicalize project dir: %w", err)
		}
		mp.ProjectDir = filepath.Clean(abs)
	}

	out := make([]Module, 0, len(modules))
	for _, m := range modules {
		cm, err := canonicalizeModule(m)
		if err != nil {
			return nil, err
		}
		out = append(out, cm)
		if cm.IsMultiplatform() {
			mp.IsMultiplatform = true
		}
	}
	mp.Modules = out
	return mp, nil
}

func canonicalizeModule(m Module) (Module, error) {
	var err error
	if m.SourceRoots, err = canonicalizePaths(m.SourceRoots); err != nil {
		return Module{}, err
	}
	if m.TestSourceRoots, err = canonicalizePaths(m.TestSourceRoots); err != nil {
		return Module{}, err
	}
	if m.Classpath, err = canonicalizePaths(m.Classpath); err != nil {
		return Module{}, err
	}
	if m.TestClasspath, err = canonicalizePaths(m.TestClasspath); err != nil {
		return Module{}, err
	}
	for i := range m.Targets {
		t := &m.Targets[i]
		if _, err := PlatformForTargetName(t.Name); err != nil {
			return Module{}, fmt.Errorf("model: module %q: %w", m.Name, err)
		}
		t.Platform, _ = PlatformForTargetName(t.Name)
		if t.SourceRoots, err = canonicalizePaths(t.SourceRoots); err != nil {
			return Module{}, err
		}
		if t.TestSourceRoots, err = canonicalizePaths(t.TestSourceRoots); err != nil {
			return Module{}, err
		}
		if t.Classpath, err = canonicalizePaths(t.Classpath); err != nil {
			return Module{}, err
		}
		if t.TestClasspath, err = canonicalizePaths(t.TestClasspath); err != nil {
			return Module{}, err
		}
	}
	return m, nil
}

func canonicalizePaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("model: canonicalize path %q: %w", p, err)
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

// AllPlatforms returns the distinct set of platforms appearing across every
// module's targets, in a deterministic order (JVM, ANDROID, JS, NATIVE).
func (p *ProjectModel) AllPlatforms() []Platform {
	seen := map[Platform]bool{}
	for _, m := range p.Modules {
		for _, t := range m.Targets {
			seen[t.Platform] = true
		}
	}
	order := []Platform{JVM, Android, JS, Native}
	out := make([]Platform, 0, len(seen))
	for _, p := range order {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}
