package main

import (
	"context"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
)

// placeholderBackend stands in for the Analysis Backend (spec §1: "explicitly
// out of scope... assumed to be provided by an external Analysis Backend").
// Every session it builds answers with the empty-results stub, so the server
// stays live and routes requests correctly even with no real parser wired in.
// A production deployment replaces this with an adapter over the actual
// backend process.
type placeholderBackend struct{}

func newPlaceholderBackend() facade.Backend { return placeholderBackend{} }

func (placeholderBackend) BuildSession(ctx context.Context, cfg facade.SessionConfig) (facade.BackendSession, error) {
	return facade.NewStubSession(), nil
}
