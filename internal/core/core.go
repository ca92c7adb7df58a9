// Package core wires the Analysis Core together: the session set, the single
// analysis worker, the symbol cache, the buffer mirror, and the resolver, behind
// the facade.CompilerFacade interface (spec §2, §4.6). It is the only internal
// package that depends on both facade and session, breaking the cycle that would
// otherwise exist between a pure interface package and the session package that
// implements part of its contract.
package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/archive"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/buffer"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/cache"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/config"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/rebuild"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/resolver"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/session"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/worker"
)

// Core implements facade.CompilerFacade.
type Core struct {
	root string
	cfg  config.Config

	resolver *resolver.Resolver
	builder  *session.Builder

	sessions *session.Set
	worker   *worker.Worker
	cache    *cache.SymbolCache
	mirror   *buffer.Mirror
	log      *zap.Logger

	rebuildGroup singleflight.Group
	debouncer    *rebuild.Debouncer

	mu            sync.Mutex
	lastModel     *model.ProjectModel
	extractedDirs []string
}

// New constructs a Core with empty sessions; call InitialBuild to perform the
// first resolve+build. InitialBuild runs the resolve on the calling goroutine
// and returns only once the sessions are built.
func New(root string, cfg config.Config, res *resolver.Resolver, builder *session.Builder, log *zap.Logger) *Core {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Core{
		root:     root,
		cfg:      cfg,
		resolver: res,
		builder:  builder,
		sessions: session.NewEmptySet(),
		worker:   worker.New(),
		cache:    cache.New(cache.DefaultCapacity),
		mirror:   buffer.New(),
		log:      log,
	}
	c.debouncer = rebuild.NewDebouncer(cfg.RebuildDebounce, func() {
		if err := c.rebuild(context.Background()); err != nil {
			c.log.Warn("core: debounced rebuild failed", zap.Error(err))
		}
	})
	return c
}

var _ facade.CompilerFacade = (*Core)(nil)

// InitialBuild resolves the project model and builds every session. Errors are
// logged and swallowed (spec §7 resolve-failure): the server stays live with
// empty sessions on total failure, which should not happen since the
// source-only provider never fails.
func (c *Core) InitialBuild(ctx context.Context) {
	if err := c.rebuild(ctx); err != nil {
		c.log.Warn("core: initial build failed", zap.Error(err))
	}
}

// rebuild resolves a fresh ProjectModel and atomically swaps the session set.
// Every caller goes through c.rebuildGroup so concurrent triggers (a debounce
// burst plus an explicit save) coalesce into one worker round-trip (spec §5,
// §4.9).
func (c *Core) rebuild(ctx context.Context) error {
	_, err, _ := c.rebuildGroup.Do("rebuild", func() (any, error) {
		pm, err := c.resolver.Resolve(ctx, c.root, c.cfg.BuildVariant)
		if err != nil {
			return nil, fmt.Errorf("core: resolve: %w", err)
		}

		c.cache.Clear()

		result := worker.Call(c.worker, func() *session.BuildResult {
			r, berr := c.builder.Build(ctx, pm, c.cfg.PrimaryTarget)
			if berr != nil {
				c.log.Warn("core: session build failed", zap.Error(berr))
				return nil
			}
			session.Commit(c.sessions, r)
			return r
		})

		c.mu.Lock()
		c.lastModel = pm
		if result != nil {
			c.extractedDirs = append(c.extractedDirs, result.ExtractedDirs...)
		}
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// RefreshAnalysis implements spec §4.6 row 18 / §4.9: tear down and rebuild all
// sessions. It is a full fence (spec §5): everything submitted after this call
// returns observes the new session set, because rebuild() returns only after the
// build and the swap have run on c.worker (the resolve runs on the caller).
func (c *Core) RefreshAnalysis(ctx context.Context) error {
	return c.rebuild(ctx)
}

// NotifyBuildFileChanged implements spec §4.9's debounce window: an external
// watcher reports a build-file or generated-source change, and a run of calls
// within the debounce window collapses into exactly one rebuild.
func (c *Core) NotifyBuildFileChanged() {
	c.debouncer.Trigger()
}

// Dispose releases the worker and every tracked temp directory (spec §4.6 row
// 19, §9).
func (c *Core) Dispose() error {
	c.debouncer.Cancel()
	worker.Call(c.worker, func() struct{} {
		c.sessions.Load().DisposeAll()
		return struct{}{}
	})
	c.worker.Close()

	c.mu.Lock()
	dirs := c.extractedDirs
	c.extractedDirs = nil
	c.mu.Unlock()

	return archive.CleanUp(dirs)
}

// PlatformForFile implements spec §4.6 row 16 / §6.3 / §8 invariant 2.
func (c *Core) PlatformForFile(path string) (string, bool) {
	return session.RouteFile(path, c.sessions.Load())
}

// GetAvailableTargets implements spec §4.6 row 17.
func (c *Core) GetAvailableTargets() []string {
	return c.sessions.Load().AvailableTargets()
}

// sessionFor resolves the session that should answer queries about path:
// routed by platform for multiplatform projects, or the single session
// otherwise.
func (c *Core) sessionFor(path string) (*session.Session, bool) {
	snap := c.sessions.Load()
	if platform, ok := session.RouteFile(path, snap); ok {
		return snap.Get(modelPlatform(platform))
	}
	return snap.Primary()
}
