package session

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/archive"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// Builder builds one Analysis Session per target platform (spec §4.4), on the
// analysis worker. It owns archive/klib adaptation so every extracted temp
// directory it creates is tracked for cleanup at dispose.
type Builder struct {
	backend facade.Backend
	arch    *archive.Adapter
	log     *zap.Logger
	javaHome string
}

// NewBuilder constructs a Builder. javaHome overrides JDK discovery (spec §6.4);
// empty means "discover from the environment".
func NewBuilder(backend facade.Backend, arch *archive.Adapter, javaHome string, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{backend: backend, arch: arch, javaHome: javaHome, log: log}
}

// BuildResult is a freshly built session set plus every temp directory created
// while building it, for later cleanup.
type BuildResult struct {
	Set           *setData
	ExtractedDirs []string
}

// Build composes sessions from pm per the policy in spec §4.4:
//   - non-multiplatform project -> one session keyed JVM (or ANDROID mapped to
//     JVM) containing every module's source roots and classpath, main+test,
//     deduplicated.
//   - multiplatform project -> one session per distinct platform appearing in
//     any module's target, with source roots/classpath unioned from common
//     module roots and that platform's per-target roots. JDK included iff
//     platform ∈ {JVM, ANDROID}.
func (b *Builder) Build(ctx context.Context, pm *model.ProjectModel, primaryOverride string) (*BuildResult, error) {
	sdkRoot := b.discoverSDK()
	result := &BuildResult{Set: &setData{byPlatform: map[model.Platform]*Session{}}}

	b.logModuleToolchains(pm)

	if !pm.IsMultiplatform {
		sourceRoots, classpath := b.mergeNonMultiplatform(pm)
		adapted := b.arch.Adapt(classpath)
		result.ExtractedDirs = append(result.ExtractedDirs, adapted.ExtractedDirs...)
		sourceRoots = append(sourceRoots, adapted.ExtraSourceRoots...)

		sess, err := b.buildOne(ctx, model.JVM, sourceRoots, adapted.Classpath, sdkRoot)
		if err != nil {
			return nil, err
		}
		result.Set.byPlatform[model.JVM] = sess
		result.Set.primary = model.JVM
		result.Set.hasPrimary = true
		return result, nil
	}

	result.Set.multiplatform = true
	for _, platform := range pm.AllPlatforms() {
		sourceRoots, classpath := b.mergeForPlatform(pm, platform)
		adapted := b.arch.Adapt(classpath)
		result.ExtractedDirs = append(result.ExtractedDirs, adapted.ExtractedDirs...)
		sourceRoots = append(sourceRoots, adapted.ExtraSourceRoots...)

		var root string
		if platform == model.JVM || platform == model.Android {
			root = sdkRoot
		}
		sess, err := b.buildOne(ctx, platform, sourceRoots, adapted.Classpath, root)
		if err != nil {
			b.log.Warn("session: build failed, switching to stub", zap.String("platform", string(platform)), zap.Error(err))
			sess = &Session{Platform: platform, Backend: facade.NewStubSession(), SourceRoots: sourceRoots}
		}
		result.Set.byPlatform[platform] = sess
	}

	result.Set.primary, result.Set.hasPrimary = choosePrimary(result.Set.byPlatform, primaryOverride)
	return result, nil
}

func (b *Builder) buildOne(ctx context.Context, platform model.Platform, sourceRoots, classpath []string, sdkRoot string) (*Session, error) {
	backendSession, err := b.backend.BuildSession(ctx, facade.SessionConfig{
		Platform:     string(platform),
		SourceRoots:  sourceRoots,
		LibraryRoots: classpath,
		SDKRoot:      sdkRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("session: build %s: %w", platform, err)
	}
	return &Session{
		Platform:     platform,
		Backend:      backendSession,
		SourceRoots:  sourceRoots,
		LibraryRoots: classpath,
		SDKRoot:      sdkRoot,
	}, nil
}

// mergeNonMultiplatform implements the merged source module (spec §4.5): every
// module's source roots collapse into one compilation unit.
func (b *Builder) mergeNonMultiplatform(pm *model.ProjectModel) (sourceRoots, classpath []string) {
	seenSrc := map[string]bool{}
	seenCp := map[string]bool{}
	for _, m := range pm.Modules {
		for _, p := range append(append([]string{}, m.SourceRoots...), m.TestSourceRoots...) {
			if !seenSrc[p] {
				seenSrc[p] = true
				sourceRoots = append(sourceRoots, p)
			}
		}
		for _, p := range append(append([]string{}, m.Classpath...), m.TestClasspath...) {
			if !seenCp[p] {
				seenCp[p] = true
				classpath = append(classpath, p)
			}
		}
	}
	return sourceRoots, classpath
}

func (b *Builder) mergeForPlatform(pm *model.ProjectModel, platform model.Platform) (sourceRoots, classpath []string) {
	seenSrc := map[string]bool{}
	seenCp := map[string]bool{}
	add := func(dst *[]string, seen map[string]bool, paths []string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				*dst = append(*dst, p)
			}
		}
	}
	for _, m := range pm.Modules {
		add(&sourceRoots, seenSrc, m.SourceRoots)
		add(&sourceRoots, seenSrc, m.TestSourceRoots)
		add(&classpath, seenCp, m.Classpath)
		add(&classpath, seenCp, m.TestClasspath)
		for _, t := range m.Targets {
			if t.Platform != platform {
				continue
			}
			add(&sourceRoots, seenSrc, t.SourceRoots)
			add(&sourceRoots, seenSrc, t.TestSourceRoots)
			add(&classpath, seenCp, t.Classpath)
			add(&classpath, seenCp, t.TestClasspath)
		}
	}
	return sourceRoots, classpath
}

// choosePrimary picks the primary session for shared (common) source-set files:
// the configured override if it has a built session, else JVM > ANDROID > any
// (spec §4.1, GLOSSARY).
func choosePrimary(sessions map[model.Platform]*Session, override string) (model.Platform, bool) {
	if override != "" {
		if _, ok := sessions[model.Platform(override)]; ok {
			return model.Platform(override), true
		}
	}
	for _, p := range []model.Platform{model.JVM, model.Android} {
		if _, ok := sessions[p]; ok {
			return p, true
		}
	}
	for p := range sessions {
		return p, true
	}
	return "", false
}

// discoverSDK resolves the JDK home used for the SDK module (spec §4.4: included
// iff platform ∈ {JVM, ANDROID}). javaHome from config wins; otherwise JAVA_HOME.
func (b *Builder) discoverSDK() string {
	if b.javaHome != "" {
		return b.javaHome
	}
	return os.Getenv("JAVA_HOME")
}

// Commit atomically replaces the live Set with a freshly built one. The previous
// sessions are disposed here, after the replacement has been built and just
// before the swap, so the old and new sessions are both alive while Build runs.
func Commit(set *Set, result *BuildResult) {
	prev := set.Load()
	prev.DisposeAll()
	// No explicit runtime.GC() call is made; Go's GC reclaims the dropped
	// snapshot once no reader holds it.
	set.store(result.Set)
}
