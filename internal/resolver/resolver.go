// Package resolver implements the Project-Model Resolver (spec §4.1): given a
// workspace root and a variant string, produce a model.ProjectModel or fall back
// to a source-only model. No provider failure is ever fatal to the server.
//
// Grounded on cmd/soong_build/main.go's own "pick a front end, fail soft" shape:
// Soong's entrypoint is itself selected by priority among Android's build front
// ends, and a front-end failure degrades rather than aborting a live server here.
package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
)

// ResolveFailure is raised when every provider, including the source-only
// fallback, fails to produce a model. In practice the source-only provider never
// fails (spec §4.1 step 2: "this is never fatal"), so this should only surface
// from a programming error or an unreadable/missing root directory.
type ResolveFailure struct {
	Root string
	Err  error
}

func (f *ResolveFailure) Error() string {
	return fmt.Sprintf("resolver: failed to resolve project model at %q: %v", f.Root, f.Err)
}
func (f *ResolveFailure) Unwrap() error { return f.Err }

// Provider discovers a project model from disk. Providers are ordered by
// priority (highest first); a provider is a candidate if any of its marker
// files exist under the root (spec §4.1 step 1).
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// IsCandidate reports whether this provider's marker files are present
	// under root.
	IsCandidate(root string) bool
	// Resolve performs full resolution. A returned error triggers fallback to
	// the source-only provider; lower-priority candidates are not tried.
	Resolve(ctx context.Context, root, variant string) (*model.ProjectModel, error)
}

// Resolver orchestrates providers by priority with a source-only fallback.
type Resolver struct {
	providers  []Provider // priority order, highest first
	sourceOnly Provider
	log        *zap.Logger
}

// New builds a Resolver. providers should be given in priority order (highest
// first); sourceOnly is the provider of last resort and is always a candidate.
func New(providers []Provider, sourceOnly Provider, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{providers: providers, sourceOnly: sourceOnly, log: log}
}

// Resolve implements spec §4.1's algorithm: the first candidate provider
// attempts full resolution; any failure (connection error, abnormal exit, parser
// error) falls back to the source-only provider, which scans conventional
// source directories.
func (r *Resolver) Resolve(ctx context.Context, root, variant string) (*model.ProjectModel, error) {
	for _, p := range r.providers {
		if !p.IsCandidate(root) {
			continue
		}
		pm, err := p.Resolve(ctx, root, variant)
		if err == nil {
			return pm, nil
		}
		r.log.Warn("resolver: provider failed, falling back",
			zap.String("provider", p.Name()), zap.Error(err))
		break
	}

	pm, err := r.sourceOnly.Resolve(ctx, root, variant)
	if err != nil {
		return nil, &ResolveFailure{Root: root, Err: err}
	}
	return pm, nil
}
