package resolver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// gradleMarkerFiles are the marker files that make GradleProvider a candidate,
// spec §4.1 step 1.
var gradleMarkerFiles = []string{"build.gradle.kts", "build.gradle", "settings.gradle.kts", "settings.gradle"}

// CommandRunner executes the injected init-script against the build tool and
// returns its stdout. Build-tool invocation beyond the init-script contract is
// explicitly out of scope (spec §1); this interface is the entire surface the
// core depends on, letting tests substitute a fake without a real Gradle
// installation.
type CommandRunner interface {
	Run(ctx context.Context, root string, script string) (stdout string, err error)
}

// execCommandRunner shells out to the Gradle wrapper, grounded on
// cmd/soong_build/main.go's pattern of invoking external build tooling via
// os/exec and capturing its stdout.
type execCommandRunner struct{}

// NewExecCommandRunner returns a CommandRunner that invokes ./gradlew (or
// gradle on PATH) with the injected init script.
func NewExecCommandRunner() CommandRunner { return execCommandRunner{} }

func (execCommandRunner) Run(ctx context.Context, root, script string) (string, error) {
	scriptFile, err := os.CreateTemp("", "kotlinlsp-init-*.gradle.kts")
	if err != nil {
		return "", fmt.Errorf("gradle: create init script: %w", err)
	}
	defer os.Remove(scriptFile.Name())
	if _, err := scriptFile.WriteString(script); err != nil {
		scriptFile.Close()
		return "", fmt.Errorf("gradle: write init script: %w", err)
	}
	scriptFile.Close()

	gradlew := filepath.Join(root, "gradlew")
	name := gradlew
	if _, err := os.Stat(gradlew); err != nil {
		name = "gradle"
	}

	cmd := exec.CommandContext(ctx, name, "--init-script", scriptFile.Name(), "lspClasspathReport", "-q")
	cmd.Dir = root
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr // diagnostic output redirected away from the record stream, spec §6.2
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("gradle: init-script run failed: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// GradleProvider is the primary resolver for Gradle-based workspaces (spec
// §4.1 step 3): a structural "model pass" over each module's build file,
// followed by an init-script pass for classpath entries the structural pass
// did not resolve.
type GradleProvider struct {
	runner CommandRunner
	log    *zap.Logger
}

// NewGradleProvider builds the primary provider.
func NewGradleProvider(runner CommandRunner, log *zap.Logger) *GradleProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &GradleProvider{runner: runner, log: log}
}

func (p *GradleProvider) Name() string { return "gradle" }

func (p *GradleProvider) IsCandidate(root string) bool {
	for _, marker := range gradleMarkerFiles {
		if fileExists(filepath.Join(root, marker)) {
			return true
		}
	}
	return false
}

func (p *GradleProvider) Resolve(ctx context.Context, root, variant string) (*model.ProjectModel, error) {
	modules, err := p.modelPass(root, variant)
	if err != nil {
		return nil, fmt.Errorf("gradle: model pass: %w", err)
	}

	stdout, err := p.runner.Run(ctx, root, renderInitScript())
	if err != nil {
		// Per spec §4.1 step 3b the init-script pass uses lenient resolution so
		// a single unresolvable dependency never aborts the run; a failure to
		// invoke the build tool at all, however, is the provider-level failure
		// that triggers fallback to the source-only provider.
		return nil, fmt.Errorf("gradle: init-script pass: %w", err)
	}
	records := parseInitScriptOutput(stdout, p.log)
	modules = mergeInitScriptRecords(modules, records)

	return model.NewProjectModel(root, variant, modules)
}

// modelPass walks every build.gradle(.kts) under root, producing one Module per
// directory that contains one, enriched per spec §4.1 steps 5-6. Dependency
// edges are left to the init-script pass: per spec step 3a this is "the common
// case for Android and some multiplatform modules", and build-tool model
// extraction beyond the init-script contract is out of scope (spec §1).
func (p *GradleProvider) modelPass(root, variant string) ([]model.Module, error) {
	var modules []model.Module
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // a single unreadable directory must not abort the walk
		}
		if d.IsDir() {
			if d.Name() == "build" || d.Name() == ".gradle" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "build.gradle.kts" && d.Name() != "build.gradle" {
			return nil
		}
		moduleDir := filepath.Dir(path)
		name := moduleName(root, moduleDir)
		text := readBuildFileText(moduleDir)
		isAndroid := strings.Contains(text, "com.android.application") ||
			strings.Contains(text, "com.android.library") ||
			strings.Contains(text, "com.android.base")

		m := model.Module{Name: name, IsAndroid: isAndroid}
		m.KotlinVersion = extractKotlinVersion(text)
		m.JvmTarget = extractJvmTarget(text)

		if isMultiplatformModule(text) {
			targets, terr := discoverKmpTargets(moduleDir)
			if terr != nil {
				p.log.Warn("resolver: kmp target discovery failed", zap.String("module", name), zap.Error(terr))
			} else {
				m.Targets = targets
			}
			for _, d := range []string{"src/commonMain/kotlin", "src/commonMain/java"} {
				if full := filepath.Join(moduleDir, d); dirExists(full) {
					m.SourceRoots = appendUnique(m.SourceRoots, full)
				}
			}
			for _, d := range []string{"src/commonTest/kotlin", "src/commonTest/java"} {
				if full := filepath.Join(moduleDir, d); dirExists(full) {
					m.TestSourceRoots = appendUnique(m.TestSourceRoots, full)
				}
			}
		} else if isAndroid {
			m.SourceRoots, m.Classpath = enrichAndroidModule(moduleDir, variant, m.SourceRoots, m.Classpath)
			for _, d := range []string{"src/" + variant + "/kotlin", "src/" + variant + "/java", "src/androidTest/kotlin", "src/androidTest/java"} {
				if full := filepath.Join(moduleDir, d); dirExists(full) {
					if strings.Contains(d, "Test") {
						m.TestSourceRoots = appendUnique(m.TestSourceRoots, full)
					} else {
						m.SourceRoots = appendUnique(m.SourceRoots, full)
					}
				}
			}
		} else {
			for _, d := range conventionalSourceDirs {
				if full := filepath.Join(moduleDir, d); dirExists(full) {
					m.SourceRoots = appendUnique(m.SourceRoots, full)
				}
			}
			for _, d := range conventionalTestDirs {
				if full := filepath.Join(moduleDir, d); dirExists(full) {
					m.TestSourceRoots = appendUnique(m.TestSourceRoots, full)
				}
			}
		}

		modules = append(modules, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("gradle: no build.gradle(.kts) files found under %s", root)
	}
	return modules, nil
}

var kotlinVersionPattern = regexp.MustCompile(`kotlin\(['"]jvm['"]\)\s*version\s*['"]([^'"]+)['"]|kotlinCompilerExtensionVersion\s*=\s*['"]([^'"]+)['"]`)
var jvmTargetPattern = regexp.MustCompile(`jvmTarget\s*=\s*['"]?(?:JavaVersion\.VERSION_)?([0-9._]+)['"]?`)

// extractKotlinVersion reads the declared Kotlin plugin/compiler version out of
// a build file, per spec §3's optional Module.kotlinVersion field. Returns nil
// when the build file does not pin one, using blueprint/proptools the way
// android/config.go threads optional struct fields through Soong.
func extractKotlinVersion(text string) *string {
	m := kotlinVersionPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	for _, g := range m[1:] {
		if g != "" {
			return model.StringPtr(g)
		}
	}
	return nil
}

// extractJvmTarget reads the configured `jvmTarget` compiler option.
func extractJvmTarget(text string) *string {
	m := jvmTargetPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return model.StringPtr(m[1])
}

// moduleName derives the module's identity in Gradle project-path form
// (":", ":app", ":core:data") rather than a bare directory-relative path, so it
// matches the "${project.path}" the injected init script prints on every
// LSPCP/LSPTCP/LSPKMP record (spec §6.2) and mergeInitScriptRecords can key on
// it directly.
func moduleName(root, moduleDir string) string {
	rel, err := filepath.Rel(root, moduleDir)
	if err != nil || rel == "." {
		return ":"
	}
	return ":" + strings.ReplaceAll(rel, string(filepath.Separator), ":")
}

// renderInitScript produces the injected script described in spec §6.2: for
// every module it prints classpath entries of well-known configuration names,
// tagged per record type, using lenient resolution.
func renderInitScript() string {
	return `
allprojects {
    afterEvaluate {
        def printEntries = { String tagPrefix, def files ->
            files.each { f -> println("${tagPrefix}${project.path}:${f.absolutePath}") }
        }
        tasks.register("lspClasspathReport") {
            doLast {
                ["compileClasspath", "implementation"].each { cfgName ->
                    def cfg = configurations.findByName(cfgName)
                    if (cfg != null) {
                        try {
                            printEntries("LSPCP:", cfg.resolvedConfiguration.lenientConfiguration.files)
                        } catch (Exception e) {
                            println("LSPERR:${project.path}:${cfgName}:${e.message}")
                        }
                    }
                }
                def testCfg = configurations.findByName("testCompileClasspath")
                if (testCfg != null) {
                    try {
                        printEntries("LSPTCP:", testCfg.resolvedConfiguration.lenientConfiguration.files)
                    } catch (Exception e) {
                        println("LSPERR:${project.path}:testCompileClasspath:${e.message}")
                    }
                }
                configurations.matching { it.name.endsWith("CompileClasspath") }.each { cfg ->
                    try {
                        cfg.resolvedConfiguration.lenientConfiguration.files.each { f ->
                            println("LSPKMP:${project.path}:${cfg.name}:${f.absolutePath}")
                        }
                    } catch (Exception e) {
                        println("LSPERR:${project.path}:${cfg.name}:${e.message}")
                    }
                }
            }
        }
    }
}
`
}
