// Package archive implements the Archive Adapter (spec §4.2): it converts
// bundled binary archives into forms the Analysis Backend can consume — AAR-style
// archives are unwrapped to their inner classes jar, klib-style binaries are handed
// to the klib stub generator and become a synthesized source root instead of a
// classpath entry.
//
// Grounded on the teacher's own zip-handling tools (cmd/zip2zip/zip2zip.go,
// cmd/merge_zips/merge_zips.go): open with archive/zip, copy/extract one entry,
// fail soft.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StubGenerator is the subset of the klib package's Generator this adapter needs,
// declared here to avoid an import cycle between archive and klib.
type StubGenerator interface {
	// Generate reads klibPath and returns a temp directory containing synthesized
	// source stubs, or ok=false if the klib could not be read at all (spec §4.3:
	// "a klib whose zip cannot be read yields null; the session is still built").
	Generate(klibPath string) (dir string, ok bool)
}

// Adapter converts classpath entries into a form the Analysis Backend can read.
type Adapter struct {
	stubs   StubGenerator
	log     *zap.Logger
	tempDir string // base directory for extracted jars; "" uses os.TempDir
}

// New builds an Adapter. stubs may be nil if klib support is not needed (tests).
func New(stubs StubGenerator, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{stubs: stubs, log: log}
}

// Result is the classpath/source-root adjustment produced from one module's
// configured classpath.
type Result struct {
	// Classpath is the input classpath with .aar entries replaced by their
	// extracted classes jar, and .klib/failed entries dropped.
	Classpath []string
	// ExtraSourceRoots holds one directory per successfully stubbed klib.
	ExtraSourceRoots []string
	// ExtractedDirs records every temp directory created, for cleanup at dispose.
	ExtractedDirs []string
}

// Adapt transforms a classpath list per spec §4.2.
func (a *Adapter) Adapt(classpath []string) Result {
	var res Result
	for _, entry := range classpath {
		switch filepath.Ext(entry) {
		case ".aar":
			jar, dir, ok := a.extractClassesJar(entry)
			if !ok {
				a.log.Warn("archive: dropping aar entry", zap.String("path", entry))
				continue
			}
			res.Classpath = append(res.Classpath, jar)
			res.ExtractedDirs = append(res.ExtractedDirs, dir)
		case ".klib":
			if a.stubs == nil {
				a.log.Warn("archive: no klib stub generator configured, dropping entry", zap.String("path", entry))
				continue
			}
			dir, ok := a.stubs.Generate(entry)
			if !ok {
				a.log.Warn("archive: klib stub generation failed, dropping entry", zap.String("path", entry))
				continue
			}
			res.ExtraSourceRoots = append(res.ExtraSourceRoots, dir)
			res.ExtractedDirs = append(res.ExtractedDirs, dir)
		default:
			res.Classpath = append(res.Classpath, entry)
		}
	}
	return res
}

// extractClassesJar opens aarPath as a zip and extracts its inner "classes.jar"
// entry to a uniquely-named temp directory (spec §4.2). Never fatal: any failure
// returns ok=false so the caller can drop the entry with a warning.
func (a *Adapter) extractClassesJar(aarPath string) (jarPath, dir string, ok bool) {
	r, err := zip.OpenReader(aarPath)
	if err != nil {
		a.log.Warn("archive: open aar failed", zap.String("path", aarPath), zap.Error(err))
		return "", "", false
	}
	defer r.Close()

	var inner *zip.File
	for _, f := range r.File {
		if f.Name == "classes.jar" {
			inner = f
			break
		}
	}
	if inner == nil {
		a.log.Warn("archive: aar has no classes.jar entry", zap.String("path", aarPath))
		return "", "", false
	}

	dir, err = os.MkdirTemp(a.tempDir, "kotlinlsp-aar-"+uuid.NewString())
	if err != nil {
		a.log.Warn("archive: mktemp failed", zap.Error(err))
		return "", "", false
	}

	rc, err := inner.Open()
	if err != nil {
		a.log.Warn("archive: open classes.jar entry failed", zap.Error(err))
		return "", "", false
	}
	defer rc.Close()

	jarPath = filepath.Join(dir, "classes.jar")
	out, err := os.Create(jarPath)
	if err != nil {
		a.log.Warn("archive: create extracted jar failed", zap.Error(err))
		return "", "", false
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		a.log.Warn("archive: copy classes.jar failed", zap.Error(err))
		return "", "", false
	}
	return jarPath, dir, true
}

// CleanUp removes every extracted directory. Called at dispose (spec §9 "archive
// handling as I/O": temp materialization must be cleanly scoped to process
// lifetime).
func CleanUp(dirs []string) error {
	var firstErr error
	for _, d := range dirs {
		if err := os.RemoveAll(d); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("archive: cleanup %s: %w", d, err)
		}
	}
	return firstErr
}
