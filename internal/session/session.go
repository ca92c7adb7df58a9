// Package session owns the Analysis Session set: one immutable, platform-pinned
// analysis context per target platform (spec §4.4), and the routing layer that
// maps a file path to the session that should answer queries about it (spec §6.3).
//
// Grounded on android/config.go's Targets map[OsType][]Target and the variant
// handles Soong builds once per configuration and never mutates in place.
package session

import (
	"sync/atomic"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// Session is one immutable, platform-pinned analysis context.
type Session struct {
	Platform     model.Platform
	Backend      facade.BackendSession
	SourceRoots  []string
	LibraryRoots []string
	SDKRoot      string
}

// Set is the full collection of sessions for one project-model generation,
// addressed by platform. It is swapped, never mutated, by the Rebuild
// Orchestrator (spec §4.9): readers take an atomic snapshot of the pointer.
type Set struct {
	ptr atomic.Pointer[setData]
}

type setData struct {
	byPlatform   map[model.Platform]*Session
	primary      model.Platform
	hasPrimary   bool
	multiplatform bool
}

// NewEmptySet returns a Set with no sessions, the state before the first build.
func NewEmptySet() *Set {
	s := &Set{}
	s.ptr.Store(&setData{byPlatform: map[model.Platform]*Session{}})
	return s
}

// Snapshot is a read-only view taken atomically off the live Set.
type Snapshot struct {
	data *setData
}

// Load takes an atomic snapshot of the current sessions.
func (s *Set) Load() Snapshot { return Snapshot{data: s.ptr.Load()} }

// store atomically replaces the session set. Only the analysis worker calls this.
func (s *Set) store(d *setData) { s.ptr.Store(d) }

// Get returns the session for platform, if any.
func (sn Snapshot) Get(p model.Platform) (*Session, bool) {
	s, ok := sn.data.byPlatform[p]
	return s, ok
}

// Primary returns the session picked to answer queries for shared (common)
// source-set files, per the preference order JVM > ANDROID > any (spec §4.1,
// GLOSSARY "Primary session"), or the configured override.
func (sn Snapshot) Primary() (*Session, bool) {
	if !sn.data.hasPrimary {
		return nil, false
	}
	return sn.Get(sn.data.primary)
}

// IsMultiplatform reports whether this snapshot was built from a multiplatform
// project model.
func (sn Snapshot) IsMultiplatform() bool { return sn.data.multiplatform }

// AvailableTargets returns every platform with a built session, spec §4.6
// getAvailableTargets. Empty for non-multiplatform projects.
func (sn Snapshot) AvailableTargets() []string {
	if !sn.data.multiplatform {
		return nil
	}
	out := make([]string, 0, len(sn.data.byPlatform))
	for _, p := range []model.Platform{model.JVM, model.Android, model.JS, model.Native} {
		if _, ok := sn.data.byPlatform[p]; ok {
			out = append(out, string(p))
		}
	}
	return out
}

// All returns every session in this snapshot, for full-workspace scans
// (findReferences, findImplementations, expect/actual).
func (sn Snapshot) All() []*Session {
	out := make([]*Session, 0, len(sn.data.byPlatform))
	for _, s := range sn.data.byPlatform {
		out = append(out, s)
	}
	return out
}

// Others returns every session other than the one pinned to exclude.
func (sn Snapshot) Others(exclude model.Platform) []*Session {
	out := make([]*Session, 0, len(sn.data.byPlatform))
	for p, s := range sn.data.byPlatform {
		if p != exclude {
			out = append(out, s)
		}
	}
	return out
}

// DisposeAll tears down every backend session in this snapshot. Called by Commit
// after the replacement set has been built, and by Core.Dispose at shutdown.
func (sn Snapshot) DisposeAll() {
	for _, s := range sn.data.byPlatform {
		if s.Backend != nil {
			_ = s.Backend.Dispose()
		}
	}
}
