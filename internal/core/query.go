package core

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/session"
	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/worker"
)

// identifierPattern matches a single Kotlin-style identifier token, used by
// findReferences' source scan (§4.6.2).
var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// FindReferences implements spec §4.6.2: a full source scan across every
// active session confirmed by resolution, O(total_source_size) per call.
func (c *Core) FindReferences(ctx context.Context, symbol facade.ResolvedSymbol, includeDecl bool) []facade.SourceLocation {
	snap := c.sessions.Load()
	var out []facade.SourceLocation
	if includeDecl {
		out = append(out, symbol.Location)
	}

	for _, sess := range snap.All() {
		if sess.Backend == nil {
			continue
		}
		for _, path := range sess.Backend.SourceFiles() {
			text, ok := sess.Backend.FileText(path)
			if !ok {
				continue
			}
			for _, loc := range identifierPattern.FindAllStringIndex(text, -1) {
				if text[loc[0]:loc[1]] != symbol.Name {
					continue
				}
				line, col := lineColOf(text, loc[0])
				res := worker.Call(c.worker, func() *facade.ResolveResult {
					r, ok := sess.Backend.ResolveAtPosition(path, line, col)
					if !ok {
						return nil
					}
					return r
				})
				if res == nil {
					continue
				}
				if res.Symbol.Location != symbol.Location {
					continue
				}
				// The scan's own occurrence at the declaration's name token also
				// resolves to symbol.Location; includeDecl is the sole control for
				// whether the declaration is reported (spec §9 Open Question), so
				// skip it here; when wanted, it was already added before the scan.
				if path == symbol.Location.Path && line == symbol.Location.Line && col == symbol.Location.Column {
					continue
				}
				out = append(out, facade.SourceLocation{Path: path, Line: line, Column: col})
			}
		}
	}
	return out
}

// lineColOf converts a byte offset in text into a 0-based (line, column) pair.
func lineColOf(text string, offset int) (int, int) {
	line, col := 0, 0
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// FindImplementations implements spec §4.6.3: only meaningful for
// CLASS/INTERFACE symbols.
func (c *Core) FindImplementations(ctx context.Context, symbol facade.ResolvedSymbol) []facade.SourceLocation {
	if symbol.Kind != facade.KindClass && symbol.Kind != facade.KindInterface {
		return nil
	}
	targetFqn := symbol.FqName
	snap := c.sessions.Load()
	var out []facade.SourceLocation

	for _, sess := range snap.All() {
		if sess.Backend == nil {
			continue
		}
		for _, path := range sess.Backend.SourceFiles() {
			decls, ok := sess.Backend.Declarations(path)
			if !ok {
				continue
			}
			walkClassLike(decls, func(d *facade.Declaration) {
				if d.Kind != facade.KindClass && d.Kind != facade.KindInterface && d.Kind != facade.KindObject && d.Kind != facade.KindEnum {
					return
				}
				if !hasSupertypeNamed(d.Supertypes, symbol.Name) {
					return
				}
				if confirmSupertype(sess, d, targetFqn, symbol.Location) {
					out = append(out, d.Location)
				}
			})
		}
	}
	return out
}

func walkClassLike(decls []*facade.Declaration, visit func(*facade.Declaration)) {
	for _, d := range decls {
		visit(d)
		walkClassLike(d.Children, visit)
	}
}

// hasSupertypeNamed implements the cheap textual pre-filter of §4.6.3: match
// on the supertype's simple name before confirming by FQN/location.
func hasSupertypeNamed(supertypes []string, simpleName string) bool {
	for _, s := range supertypes {
		if s == simpleName || strings.HasSuffix(s, "."+simpleName) {
			return true
		}
	}
	return false
}

// confirmSupertype resolves d's supertype references through the backend and
// compares fully-qualified names, falling back to source-location comparison
// when no FQN is available (§4.6.3).
func confirmSupertype(sess *session.Session, d *facade.Declaration, targetFqn string, targetLoc facade.SourceLocation) bool {
	if targetFqn != "" {
		for _, s := range d.Supertypes {
			if s == targetFqn {
				return true
			}
		}
		return false
	}
	matches := sess.Backend.DeclarationsByFqName(d.FqName)
	for _, m := range matches {
		if m.Location == targetLoc {
			return true
		}
	}
	return false
}

// GetCompletions implements spec §4.7.
func (c *Core) GetCompletions(ctx context.Context, path string, line, col int) []facade.CompletionCandidate {
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil
	}
	text, ok := c.mirror.Get(path)
	if !ok {
		if t, okf := sess.Backend.FileText(path); okf {
			text = t
		}
	}

	prefix, dotOffset, hasReceiver := extractPrefixAndReceiver(text, line, col)

	var scopes []facade.ScopeEntry
	if hasReceiver {
		recvName := extractReceiverName(text, dotOffset)
		scopes, ok = resolveMemberScope(ctx, c, sess, path, recvName)
		if !ok {
			return nil
		}
	} else {
		result, callOk := worker.CallContext(ctx, c.worker, requestTimeout, func() []facade.ScopeEntry {
			s, ok := sess.Backend.ScopeAt(path, line, col)
			if !ok {
				return nil
			}
			return s
		})
		if !callOk {
			return nil
		}
		scopes = result
		if prefix == "" {
			scopes = filterImportScopes(scopes)
		}
	}

	return rankCompletions(scopes, prefix)
}

// extractPrefixAndReceiver implements §4.7 steps 1-2 against the buffer text.
func extractPrefixAndReceiver(text string, line, col int) (prefix string, dotOffset int, hasReceiver bool) {
	offset := offsetOf(text, line, col)
	if offset > len(text) {
		offset = len(text)
	}
	end := offset
	start := offset
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	prefix = text[start:offset]

	p := start
	if p > 0 && text[p-1] == '?' {
		p--
	}
	if p > 0 && text[p-1] == '.' {
		return prefix, p - 1, true
	}
	_ = end
	return prefix, 0, false
}

func extractReceiverName(text string, dotOffset int) string {
	end := dotOffset
	start := end
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	return text[start:end]
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func offsetOf(text string, line, col int) int {
	curLine := 0
	i := 0
	for curLine < line && i < len(text) {
		if text[i] == '\n' {
			curLine++
		}
		i++
	}
	return i + col
}

// resolveMemberScope implements §4.7 step 3: locate a callable by PSI search,
// take its type, enumerate the combined member scope.
func resolveMemberScope(ctx context.Context, c *Core, sess *session.Session, path, recvName string) ([]facade.ScopeEntry, bool) {
	scopeAt, ok := worker.CallContext(ctx, c.worker, requestTimeout, func() []facade.ScopeEntry {
		s, ok := sess.Backend.ScopeAt(path, 0, 0)
		if !ok {
			return nil
		}
		return s
	})
	if !ok {
		return nil, false
	}
	var recvType *facade.TypeInfo
	for _, e := range scopeAt {
		if e.Name == recvName && e.Type != nil {
			recvType = e.Type
			break
		}
	}
	if recvType == nil {
		decls, ok := sess.Backend.Declarations(path)
		if ok {
			if d := findDeclarationNamed(decls, recvName); d != nil && d.Type != nil {
				recvType = d.Type
			}
		}
	}
	if recvType == nil {
		return nil, false
	}
	members, callOk := worker.CallContext(ctx, c.worker, requestTimeout, func() []facade.ScopeEntry {
		m, ok := sess.Backend.MembersOf(*recvType)
		if !ok {
			return nil
		}
		return m
	})
	return members, callOk
}

func findDeclarationNamed(decls []*facade.Declaration, name string) *facade.Declaration {
	for _, d := range decls {
		if d.Name == name {
			return d
		}
		if found := findDeclarationNamed(d.Children, name); found != nil {
			return found
		}
	}
	return nil
}

// filterImportScopes drops explicit-import and default-import ranked entries
// when the prefix is empty (§4.7 step 4: "too many results").
func filterImportScopes(entries []facade.ScopeEntry) []facade.ScopeEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.ScopeRank >= 2 {
			continue
		}
		out = append(out, e)
	}
	return out
}

const maxCompletions = 150

// rankCompletions implements §4.7 steps 5-6: filter by prefix, assign
// priority, shape insert text, cap at 150, stable by enumeration order.
func rankCompletions(entries []facade.ScopeEntry, prefix string) []facade.CompletionCandidate {
	type ranked struct {
		cand     facade.CompletionCandidate
		priority int
		order    int
	}
	var items []ranked
	for i, e := range entries {
		if prefix != "" && !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		priority := e.ScopeRank
		if e.IsDeprecated {
			priority = 9
		}
		items = append(items, ranked{
			cand: facade.CompletionCandidate{
				Label:        e.Name,
				Kind:         e.Kind,
				Detail:       e.Detail,
				InsertText:   shapeInsertText(e),
				IsDeprecated: e.IsDeprecated,
				SortPriority: priority,
			},
			priority: priority,
			order:    i,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].priority != items[j].priority {
			return items[i].priority < items[j].priority
		}
		return items[i].order < items[j].order
	})
	if len(items) > maxCompletions {
		items = items[:maxCompletions]
	}
	out := make([]facade.CompletionCandidate, len(items))
	for i, it := range items {
		out[i] = it.cand
	}
	return out
}

// shapeInsertText implements §4.7 step 6.
func shapeInsertText(e facade.ScopeEntry) string {
	if e.Kind != facade.KindFunction && e.Kind != facade.KindConstructor {
		return e.Name
	}
	if strings.Contains(e.Detail, "()") || e.Detail == "" {
		return e.Name + "()"
	}
	return e.Name + "("
}

// packageDirectiveLine matches a Kotlin package directive line, used by
// prepareRename's refusal rule (spec §4.6 row 12).
var packageDirectiveLine = regexp.MustCompile(`^\s*package\s+`)

// PrepareRename implements spec §4.6 row 12: refuses on package directives.
func (c *Core) PrepareRename(ctx context.Context, path string, line, col int) (*facade.RenameContext, bool) {
	sess, ok := c.sessionFor(path)
	if !ok || sess.Backend == nil {
		return nil, false
	}
	text, ok := c.mirror.Get(path)
	if !ok {
		text, ok = sess.Backend.FileText(path)
		if !ok {
			return nil, false
		}
	}
	lines := strings.Split(text, "\n")
	if line >= 0 && line < len(lines) && packageDirectiveLine.MatchString(lines[line]) {
		return nil, false
	}

	sym, ok := c.ResolveAtPosition(ctx, path, line, col)
	if !ok {
		return nil, false
	}
	return &facade.RenameContext{
		Symbol: *sym,
		Range: facade.SourceRange{
			Path:        sym.Location.Path,
			StartLine:   sym.Location.Line,
			StartColumn: sym.Location.Column,
			EndLine:     sym.Location.Line,
			EndColumn:   sym.Location.Column + len(sym.Name),
		},
	}, true
}

// ComputeRename implements spec §4.6 row 13 / §8 invariant 4: the declaration
// edit plus one edit per confirmed reference.
func (c *Core) ComputeRename(ctx context.Context, renameCtx facade.RenameContext, newName string) []facade.FileEdit {
	refs := c.FindReferences(ctx, renameCtx.Symbol, true)
	edits := make([]facade.FileEdit, 0, len(refs))
	for _, loc := range refs {
		edits = append(edits, facade.FileEdit{
			Path: loc.Path,
			Range: facade.SourceRange{
				Path:        loc.Path,
				StartLine:   loc.Line,
				StartColumn: loc.Column,
				EndLine:     loc.Line,
				EndColumn:   loc.Column + len(renameCtx.Symbol.Name),
			},
			NewText: newName,
		})
	}
	return edits
}

// FindExpectActualCounterparts implements spec §4.8.
func (c *Core) FindExpectActualCounterparts(ctx context.Context, path string, line, col int) []facade.ResolvedSymbol {
	snap := c.sessions.Load()
	if !snap.IsMultiplatform() {
		return nil
	}
	sym, ok := c.ResolveAtPosition(ctx, path, line, col)
	if !ok || sym.FqName == "" {
		return nil
	}
	sess, ok := c.sessionFor(path)
	if !ok {
		return nil
	}

	isExpect, isActual := declarationModifiers(sess, sym)
	var out []facade.ResolvedSymbol

	switch {
	case isExpect:
		for _, other := range snap.Others(sess.Platform) {
			out = append(out, collectMatches(other, sym.FqName, "actual")...)
		}
	case isActual:
		primary, ok := snap.Primary()
		if !ok {
			return nil
		}
		out = append(out, collectMatches(primary, sym.FqName, "expect")...)
	}
	return out
}

func declarationModifiers(sess *session.Session, sym *facade.ResolvedSymbol) (isExpect, isActual bool) {
	matches := sess.Backend.DeclarationsByFqName(sym.FqName)
	for _, d := range matches {
		for _, m := range d.Modifiers {
			if m == "expect" {
				isExpect = true
			}
			if m == "actual" {
				isActual = true
			}
		}
	}
	return
}

func collectMatches(sess *session.Session, fqName, modifier string) []facade.ResolvedSymbol {
	if sess.Backend == nil {
		return nil
	}
	var out []facade.ResolvedSymbol
	for _, path := range sess.Backend.SourceFiles() {
		decls, ok := sess.Backend.Declarations(path)
		if !ok {
			continue
		}
		walkClassLike(decls, func(d *facade.Declaration) {
			if d.FqName != fqName {
				return
			}
			for _, m := range d.Modifiers {
				if m == modifier {
					out = append(out, facade.ResolvedSymbol{
						Name:            d.Name,
						Kind:            d.Kind,
						Location:        d.Location,
						ContainingClass: "",
						FqName:          d.FqName,
					})
				}
			}
		})
	}
	return out
}

