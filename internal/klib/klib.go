package klib

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const linkdataMarker = "linkdata/"
const rootPackageSentinel = "root_package/"
const knmExt = ".knm"

// Generator reads klib binary metadata and emits source-level stubs (spec §4.3).
type Generator struct {
	log     *zap.Logger
	tempDir string
}

// New builds a Generator. log may be nil.
func New(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log}
}

// Generate implements archive.StubGenerator: it opens klibPath as a zip, walks
// every linkdata/**/*.knm fragment, and writes one stub file per package into a
// unique temp directory. Returns ok=false only if the zip itself cannot be
// opened or the temp directory cannot be created (spec §4.3 "Error handling").
func (g *Generator) Generate(klibPath string) (string, bool) {
	r, err := zip.OpenReader(klibPath)
	if err != nil {
		g.log.Warn("klib: open failed", zap.String("path", klibPath), zap.Error(err))
		return "", false
	}
	defer r.Close()

	dir, err := os.MkdirTemp(g.tempDir, "kotlinlsp-klib-"+uuid.NewString())
	if err != nil {
		g.log.Warn("klib: mktemp failed", zap.Error(err))
		return "", false
	}

	wrote := false
	stubs := map[string]string{} // stub file name -> text, one file per package
	var order []string
	for _, f := range r.File {
		if !strings.Contains(f.Name, linkdataMarker) || !strings.HasSuffix(f.Name, knmExt) {
			continue
		}
		pkg := packageFromEntryName(f.Name)
		src, ok := g.renderFragment(f)
		if !ok || src == "" {
			continue
		}
		fileName := pkg
		if fileName == "" {
			fileName = "root"
		}
		fileName = strings.ReplaceAll(fileName, ".", "_") + ".kt"
		if prev, seen := stubs[fileName]; seen {
			// Further fragments of the same package append their declarations
			// without repeating the package header.
			stubs[fileName] = prev + strings.TrimPrefix(src, "package "+pkg+"\n\n")
			continue
		}
		stubs[fileName] = src
		order = append(order, fileName)
	}
	for _, fileName := range order {
		if err := os.WriteFile(filepath.Join(dir, fileName), []byte(stubs[fileName]), 0o644); err != nil {
			g.log.Warn("klib: write stub failed", zap.String("file", fileName), zap.Error(err))
			continue
		}
		wrote = true
	}
	if !wrote {
		// Still a usable (empty) source root; spec only requires the zip itself
		// be readable for a non-null result.
		g.log.Warn("klib: no fragments produced any stubs", zap.String("path", klibPath))
	}
	return dir, true
}

// packageFromEntryName derives a dotted package FQN from a linkdata zip entry's
// relative directory, per spec §4.3 step 1: strip the root_package/ sentinel and
// substitute '/' with '.'.
func packageFromEntryName(name string) string {
	idx := strings.Index(name, linkdataMarker)
	if idx < 0 {
		return ""
	}
	rest := name[idx+len(linkdataMarker):]
	dir := filepath.Dir(rest)
	rootPackageDir := strings.TrimSuffix(rootPackageSentinel, "/")
	if dir == "." || dir == rootPackageDir {
		return ""
	}
	dir = strings.TrimPrefix(dir, rootPackageSentinel)
	return strings.ReplaceAll(dir, "/", ".")
}

// renderFragment deserializes one PackageFragment and renders every reachable
// public/protected declaration as Kotlin source text (spec §4.3 steps 2-3). Any
// per-fragment failure is swallowed: ok is false only when the entry cannot even
// be opened or read; a fragment with no renderable declarations yields only its
// package header (an empty string in the root package).
func (g *Generator) renderFragment(f *zip.File) (string, bool) {
	rc, err := f.Open()
	if err != nil {
		g.log.Warn("klib: open fragment failed", zap.String("entry", f.Name), zap.Error(err))
		return "", false
	}
	defer rc.Close()
	buf, err := io.ReadAll(rc)
	if err != nil {
		g.log.Warn("klib: read fragment failed", zap.String("entry", f.Name), zap.Error(err))
		return "", false
	}

	pkg := packageFromEntryName(f.Name)
	msg := parseMessage(buf)
	rr := newRenderer(msg)

	var b strings.Builder
	if pkg != "" {
		fmt.Fprintf(&b, "package %s\n\n", pkg)
	}
	for _, decl := range msg.repeatedSub(fieldTopLevel) {
		rr.renderDeclaration(&b, decl, 0)
	}
	return b.String(), true
}
