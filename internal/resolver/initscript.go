package resolver

import (
	"bufio"
	"strings"

	"go.uber.org/zap"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// Record prefixes for the build-system init-script contract, spec §6.2.
const (
	prefixClasspath     = "LSPCP:"
	prefixTestClasspath = "LSPTCP:"
	prefixKmpClasspath  = "LSPKMP:"
	prefixError         = "LSPERR:"
	prefixDebug         = "LSPDBG:"
)

// classpathRecord is one parsed LSPCP/LSPTCP line.
type classpathRecord struct {
	module string
	path   string
}

// kmpClasspathRecord is one parsed LSPKMP line.
type kmpClasspathRecord struct {
	module     string
	configName string
	path       string
}

// parsedRecords is the full set of records extracted from one init-script run.
type parsedRecords struct {
	mainClasspath []classpathRecord
	testClasspath []classpathRecord
	kmpClasspath  []kmpClasspathRecord
}

// parseInitScriptOutput parses the record stream per spec §6.2: one record per
// line, prefix-tagged; non-tagged lines are ignored (diagnostic output mixed
// into stdout by a misbehaving build tool must not break parsing).
func parseInitScriptOutput(output string, log *zap.Logger) parsedRecords {
	var pr parsedRecords
	scanner := bufio.NewScanner(strings.NewReader(output))
	// Build outputs can be long; raise the default 64KiB token limit generously.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, prefixClasspath):
			if rec, ok := splitTwo(line, prefixClasspath); ok {
				pr.mainClasspath = append(pr.mainClasspath, classpathRecord{module: rec[0], path: rec[1]})
			}
		case strings.HasPrefix(line, prefixTestClasspath):
			if rec, ok := splitTwo(line, prefixTestClasspath); ok {
				pr.testClasspath = append(pr.testClasspath, classpathRecord{module: rec[0], path: rec[1]})
			}
		case strings.HasPrefix(line, prefixKmpClasspath):
			if rec, ok := splitThree(line, prefixKmpClasspath); ok {
				pr.kmpClasspath = append(pr.kmpClasspath, kmpClasspathRecord{module: rec[0], configName: rec[1], path: rec[2]})
			}
		case strings.HasPrefix(line, prefixError):
			if log != nil {
				log.Warn("resolver: init-script reported non-fatal failure", zap.String("record", strings.TrimPrefix(line, prefixError)))
			}
		case strings.HasPrefix(line, prefixDebug):
			// Diagnostic only, not logged at warning level.
		default:
			// Not a tagged record; ignore per spec §6.2.
		}
	}
	return pr
}

// splitTwo splits "<module>:<abs-path>" from the right, not the left: a Gradle
// project path is itself colon-separated (":", ":app", ":core:data"), so the
// first colon is not a reliable field boundary, but the trailing <abs-path>
// field is an absolute filesystem path that never contains a colon. The last
// colon in rest is therefore always the module/path boundary.
func splitTwo(line, prefix string) ([2]string, bool) {
	rest := strings.TrimPrefix(line, prefix)
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 || idx == len(rest)-1 {
		return [2]string{}, false
	}
	module, path := rest[:idx], rest[idx+1:]
	if module == "" || path == "" {
		return [2]string{}, false
	}
	return [2]string{module, path}, true
}

// splitThree splits "<module>:<configName>:<abs-path>" the same way, applied
// twice: the last colon separates <abs-path>, then the last colon of what
// remains separates <configName> (a Gradle configuration name, never
// colon-bearing) from <module> (which may itself contain colons).
func splitThree(line, prefix string) ([3]string, bool) {
	rest := strings.TrimPrefix(line, prefix)
	pathIdx := strings.LastIndex(rest, ":")
	if pathIdx <= 0 || pathIdx == len(rest)-1 {
		return [3]string{}, false
	}
	head, path := rest[:pathIdx], rest[pathIdx+1:]

	cfgIdx := strings.LastIndex(head, ":")
	if cfgIdx <= 0 || cfgIdx == len(head)-1 {
		return [3]string{}, false
	}
	module, configName := head[:cfgIdx], head[cfgIdx+1:]
	if module == "" || configName == "" || path == "" {
		return [3]string{}, false
	}
	return [3]string{module, configName, path}, true
}

// kmpConfigNamePatterns maps the leading part of a "<prefix>…CompileClasspath"
// configuration name to the platform it belongs to, per spec §6.2's table.
// Checked in order; unknown names are dropped.
var kmpConfigNamePatterns = []struct {
	prefix   string
	platform model.Platform
}{
	{"jvm", model.JVM},
	{"android", model.Android},
	{"debug", model.Android},
	{"release", model.Android},
	{"ios", model.Native},
	{"native", model.Native},
	{"linux", model.Native},
	{"macos", model.Native},
	{"mingw", model.Native},
	{"js", model.JS},
	{"wasmJs", model.JS},
}

// platformForConfigName resolves an LSPKMP config name to a platform, or
// ok=false when unrecognized (dropped per spec §6.2).
func platformForConfigName(configName string) (model.Platform, bool) {
	if !strings.HasSuffix(configName, "CompileClasspath") {
		return "", false
	}
	for _, pat := range kmpConfigNamePatterns {
		if strings.HasPrefix(configName, pat.prefix) {
			return pat.platform, true
		}
	}
	return "", false
}

// mergeInitScriptRecords unions init-script-resolved classpath entries into the
// structural modules (spec §4.1 step 4), deduplicating by path. Target-specific
// records are routed by config-name -> platform to the module's first KmpTarget
// on that platform; when several targets share a platform, the others receive
// none of these records.
func mergeInitScriptRecords(modules []model.Module, pr parsedRecords) []model.Module {
	byName := make(map[string]*model.Module, len(modules))
	for i := range modules {
		byName[modules[i].Name] = &modules[i]
	}

	for _, rec := range pr.mainClasspath {
		if m, ok := byName[rec.module]; ok {
			m.Classpath = appendUnique(m.Classpath, rec.path)
		}
	}
	for _, rec := range pr.testClasspath {
		if m, ok := byName[rec.module]; ok {
			m.TestClasspath = appendUnique(m.TestClasspath, rec.path)
		}
	}
	for _, rec := range pr.kmpClasspath {
		m, ok := byName[rec.module]
		if !ok {
			continue
		}
		platform, ok := platformForConfigName(rec.configName)
		if !ok {
			continue
		}
		for i := range m.Targets {
			if m.Targets[i].Platform == platform {
				m.Targets[i].Classpath = appendUnique(m.Targets[i].Classpath, rec.path)
				break
			}
		}
	}
	return modules
}

func appendUnique(paths []string, p string) []string {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}
	return append(paths, p)
}
