package facade

import "context"

// CompilerFacade is the stable, language-neutral surface feature providers use
// to query the live workspace (spec §4.6). Every backend-specific type stays
// behind the Backend interface; only the semantic types in types.go and
// backend.go cross this boundary.
type CompilerFacade interface {
	// UpdateFileContent records the editor's latest text for path in the buffer
	// mirror and invalidates that file's symbol cache entry (spec §4.6 row 1).
	UpdateFileContent(path, text string)

	// GetDiagnostics returns path's diagnostics, or empty on any failure (spec
	// §4.6 row 2, §7).
	GetDiagnostics(ctx context.Context, path string) []DiagnosticInfo

	// ResolveAtPosition implements the §4.6.1 priority order: annotation usage,
	// then reference expression, then named declaration.
	ResolveAtPosition(ctx context.Context, path string, line, col int) (*ResolvedSymbol, bool)

	// GetType returns a declaration's inferred/declared type, or an
	// expression's type (spec §4.6 row 4).
	GetType(ctx context.Context, path string, line, col int) (*TypeInfo, bool)

	// GetDocumentation reads the doc comment at symbol's source location.
	GetDocumentation(ctx context.Context, symbol ResolvedSymbol) (string, bool)

	// GetFileSymbols returns path's symbols recursively, cache-backed (spec
	// §4.6 row 6, §2 item 8).
	GetFileSymbols(ctx context.Context, path string) []ResolvedSymbol

	// FindReferences implements §4.6.2. includeDecl controls whether the
	// declaration's own location is included (spec §9 Open Question: always
	// true for rename, caller's choice for "show usages").
	FindReferences(ctx context.Context, symbol ResolvedSymbol, includeDecl bool) []SourceLocation

	// FindImplementations implements §4.6.3; only meaningful for CLASS/INTERFACE
	// symbols, empty otherwise.
	FindImplementations(ctx context.Context, symbol ResolvedSymbol) []SourceLocation

	// GetTypeDefinitionLocation resolves the declared/expression type at a
	// position to its declaration's location (spec §4.6 row 9).
	GetTypeDefinitionLocation(ctx context.Context, path string, line, col int) (*SourceLocation, bool)

	// GetCompletions implements §4.7.
	GetCompletions(ctx context.Context, path string, line, col int) []CompletionCandidate

	// PrepareRename refuses on package directives (spec §4.6 row 12).
	PrepareRename(ctx context.Context, path string, line, col int) (*RenameContext, bool)
	// ComputeRename returns the declaration edit plus one edit per confirmed
	// reference (spec §4.6 row 13, §8 invariant 4).
	ComputeRename(ctx context.Context, renameCtx RenameContext, newName string) []FileEdit

	// FindExpectActualCounterparts implements §4.8.
	FindExpectActualCounterparts(ctx context.Context, path string, line, col int) []ResolvedSymbol

	// PlatformForFile returns null (ok=false) when the project is
	// non-multiplatform (spec §4.6 row 16).
	PlatformForFile(path string) (string, bool)
	// GetAvailableTargets is empty for non-multiplatform projects (spec §4.6
	// row 17).
	GetAvailableTargets() []string

	// RefreshAnalysis tears down and rebuilds all sessions (spec §4.6 row 18,
	// §4.9). It is a full fence: spec §5 ordering guarantee.
	RefreshAnalysis(ctx context.Context) error

	// Dispose releases the worker and every tracked resource (spec §4.6 row
	// 19, §9 "archive handling as I/O").
	Dispose() error
}
