package core

import (
	"context"
	"time"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/model"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/worker"
)

// requestTimeout is the "reasonable request timeout" spec §5 names at the LSP
// boundary; a timed-out request surfaces an empty/null result.
const requestTimeout = 10 * time.Second

func modelPlatform(s string) model.Platform { return model.Platform(s) }

// UpdateFileContent implements spec §4.6 row 1: unconditional buffer-mirror
// update plus per-file cache invalidation (spec §7 "buffer-edit loss: never
// occurs").
func (c *Core) UpdateFileContent(path, text string) {
	c.mirror.Update(path, text)
	c.cache.Invalidate(path)
	if sess, ok := c.sessionFor(path); ok && sess.Backend != nil {
		c.worker.Submit(func() { sess.Backend.UpdateFileContent(path, text) })
	}
}

// GetDiagnostics implements spec §4.6 row 2: empty on any failure.
func (c *Core) GetDiagnostics(ctx context.Context, path string) []DiagnosticInfoAlias {
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil
	}
	result, ok := worker.CallContext(ctx, c.worker, requestTimeout, func() []facade.DiagnosticInfo {
		return sess.Backend.Diagnostics(path)
	})
	if !ok {
		return nil
	}
	return result
}

// DiagnosticInfoAlias keeps this file's exported signature aligned with
// facade.CompilerFacade without an import-named collision; it is simply
// facade.DiagnosticInfo.
type DiagnosticInfoAlias = facade.DiagnosticInfo

// ResolveAtPosition implements spec §4.6.1's priority order. The backend
// performs the tree walk and reports which branch matched; this layer only
// renders the final Signature (spec §4.6.4) and never inspects tree structure
// itself (spec §9).
func (c *Core) ResolveAtPosition(ctx context.Context, path string, line, col int) (*facade.ResolvedSymbol, bool) {
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil, false
	}
	res, ok := worker.CallContext(ctx, c.worker, requestTimeout, func() *facade.ResolveResult {
		r, ok := sess.Backend.ResolveAtPosition(path, line, col)
		if !ok {
			return nil
		}
		return r
	})
	if !ok || res == nil {
		return nil, false
	}

	sym := res.Symbol
	switch {
	case res.IsAnnotationUsage:
		sym.Signature = "annotation class " + sym.FqName
	case res.SourceText != "":
		sym.Signature = facade.ExtractSignatureFromSource(res.SourceText)
	case res.Decl != nil:
		sym.Signature = facade.SynthesizeSignature(res.Decl)
	}
	return &sym, true
}

// GetType implements spec §4.6 row 4.
func (c *Core) GetType(ctx context.Context, path string, line, col int) (*facade.TypeInfo, bool) {
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil, false
	}
	type result struct {
		t  *facade.TypeInfo
		ok bool
	}
	r, callOk := worker.CallContext(ctx, c.worker, requestTimeout, func() result {
		t, ok := sess.Backend.TypeAt(path, line, col)
		return result{t, ok}
	})
	if !callOk || !r.ok {
		return nil, false
	}
	return r.t, true
}

// GetDocumentation implements spec §4.6 row 5.
func (c *Core) GetDocumentation(ctx context.Context, symbol facade.ResolvedSymbol) (string, bool) {
	sess, ok := c.sessionFor(symbol.Location.Path)
	if !ok || sess.Backend == nil {
		return "", false
	}
	type result struct {
		doc string
		ok  bool
	}
	r, callOk := worker.CallContext(ctx, c.worker, requestTimeout, func() result {
		doc, ok := sess.Backend.Documentation(symbol)
		return result{doc, ok}
	})
	if !callOk || !r.ok {
		return "", false
	}
	return r.doc, true
}

// GetFileSymbols implements spec §4.6 row 6: recursive, cache-backed.
func (c *Core) GetFileSymbols(ctx context.Context, path string) []facade.ResolvedSymbol {
	if cached, ok := c.cache.Get(path); ok {
		return cached
	}
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil
	}
	decls, callOk := worker.CallContext(ctx, c.worker, requestTimeout, func() []*facade.Declaration {
		d, ok := sess.Backend.Declarations(path)
		if !ok {
			return nil
		}
		return d
	})
	if !callOk {
		return nil
	}
	symbols := flattenSymbols(decls)
	c.cache.Put(path, symbols)
	return symbols
}

func flattenSymbols(decls []*facade.Declaration) []facade.ResolvedSymbol {
	var out []facade.ResolvedSymbol
	var walk func(d *facade.Declaration, containingClass string)
	walk = func(d *facade.Declaration, containingClass string) {
		out = append(out, facade.ResolvedSymbol{
			Name:            d.Name,
			Kind:            d.Kind,
			Location:        d.Location,
			ContainingClass: containingClass,
			FqName:          d.FqName,
		})
		nextContaining := containingClass
		if d.Kind == facade.KindClass || d.Kind == facade.KindInterface || d.Kind == facade.KindObject || d.Kind == facade.KindEnum {
			nextContaining = d.Name
		}
		for _, child := range d.Children {
			walk(child, nextContaining)
		}
	}
	for _, d := range decls {
		walk(d, "")
	}
	return out
}

// GetTypeDefinitionLocation implements spec §4.6 row 9.
func (c *Core) GetTypeDefinitionLocation(ctx context.Context, path string, line, col int) (*facade.SourceLocation, bool) {
	t, ok := c.GetType(ctx, path, line, col)
	if !ok || t == nil || t.FqName == "" {
		return nil, false
	}
	sess, ok := c.sessionFor(path)
	if !ok {
		return nil, false
	}
	decls := sess.Backend.DeclarationsByFqName(t.FqName)
	if len(decls) == 0 {
		return nil, false
	}
	return &decls[0].Location, true
}
