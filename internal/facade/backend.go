package facade

import "context"

// Backend is the contract the Analysis Backend (the external, out-of-scope parser
// and semantic model, spec §1) must satisfy. Every backend-specific type stays on
// the far side of this interface; BackendSession and Declaration are the only
// vocabulary CompilerFacade speaks to it in.
type Backend interface {
	// BuildSession constructs an immutable analysis context over cfg. Called only
	// from the analysis worker (spec §5).
	BuildSession(ctx context.Context, cfg SessionConfig) (BackendSession, error)
}

// SessionConfig is what the Session Builder (spec §4.4) hands to the backend.
type SessionConfig struct {
	Platform     string
	SourceRoots  []string
	LibraryRoots []string
	SDKRoot      string // empty when this platform has no JDK module
}

// ScopeEntry is one name visible at a point in source, used by completion (§4.7).
type ScopeEntry struct {
	Name         string
	Kind         SymbolKind
	Detail       string
	Type         *TypeInfo
	IsDeprecated bool
	// ScopeRank is local=0, type/package/static-member/type-param=1, explicit
	// import=2, default import=3, per spec §4.7 step 5's ranking table.
	ScopeRank int
}

// Param is one value parameter of a callable declaration, used to synthesize a
// signature when the backend symbol has no readable source (spec §4.6.1 item 2).
type Param struct {
	Name string
	Type TypeInfo
}

// Declaration is a single node in a file's declaration tree: a class, function,
// property, or nested member. The facade only ever holds these plus FqName and
// SourceLocation — never a backend-native PSI/FIR handle (spec §9).
type Declaration struct {
	Kind       SymbolKind
	Name       string
	FqName     string
	Location   SourceLocation
	Modifiers  []string // e.g. "expect", "actual", "abstract", "suspend", ...
	Supertypes []string // FQNs, used by findImplementations
	Type       *TypeInfo // declared/inferred return type (callables) or property type
	Params     []Param   // value parameters, for FUNCTION/CONSTRUCTOR synthesis
	// SourceText is the raw declaration source, used for signature extraction
	// (§4.6.4). Empty for declarations resolved from compiled/binary symbols.
	SourceText string
	Children   []*Declaration
}

// ResolveResult is what resolveAtPosition's tree walk (spec §4.6.1) produces:
// enough raw material for CompilerFacade to render the final Signature without
// the backend needing to know anything about signature-rendering policy.
type ResolveResult struct {
	Symbol ResolvedSymbol // Signature is left blank; the facade fills it in

	// IsAnnotationUsage is true when the resolved node is an annotation entry
	// (§4.6.1 item 1); the facade renders "annotation class <FQName>" for it
	// unconditionally.
	IsAnnotationUsage bool

	// SourceText is the declaration's own source, when readable (§4.6.1 item 2,
	// first branch). Empty for compiled/binary symbols.
	SourceText string

	// Decl backs synthetic signature rendering (§4.6.1 item 2, second branch,
	// and item 3 for callables lacking an explicit type) when SourceText is
	// empty.
	Decl *Declaration
}

// BackendSession is one immutable analysis context pinned to a platform.
type BackendSession interface {
	Dispose() error

	UpdateFileContent(path, text string)
	Diagnostics(path string) []DiagnosticInfo

	ResolveAtPosition(path string, line, col int) (*ResolveResult, bool)
	TypeAt(path string, line, col int) (*TypeInfo, bool)
	Documentation(sym ResolvedSymbol) (string, bool)

	// SourceFiles lists every source file path configured into this session,
	// used by findReferences/findImplementations full scans (§4.6.2, §4.6.3).
	SourceFiles() []string
	// FileText returns the parsed (as-of-last-build) text of path.
	FileText(path string) (string, bool)
	// Declarations returns the top-level declaration tree for path, recursively
	// populated one level into class/function bodies.
	Declarations(path string) ([]*Declaration, bool)

	// ScopeAt returns the scope stack visible at a position, for non-dot
	// completion (§4.7 step 4).
	ScopeAt(path string, line, col int) ([]ScopeEntry, bool)
	// MembersOf enumerates the combined member scope of t, for dot-completion
	// (§4.7 step 3).
	MembersOf(t TypeInfo) ([]ScopeEntry, bool)

	// DeclarationsByFqName finds every declaration in this session with the
	// given fully-qualified name, used by expect/actual navigation (§4.8),
	// implementation search and type-definition lookup.
	DeclarationsByFqName(fqName string) []*Declaration
}
