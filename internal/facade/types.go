// Package facade defines CompilerFacade, the stable, language-neutral surface
// feature providers use to query the live workspace (spec §4.6), and the semantic
// types that cross that boundary.
package facade

// SymbolKind classifies a resolved declaration, spec §3.
type SymbolKind string

const (
	KindClass         SymbolKind = "CLASS"
	KindInterface     SymbolKind = "INTERFACE"
	KindObject        SymbolKind = "OBJECT"
	KindEnum          SymbolKind = "ENUM"
	KindEnumEntry     SymbolKind = "ENUM_ENTRY"
	KindFunction      SymbolKind = "FUNCTION"
	KindProperty      SymbolKind = "PROPERTY"
	KindConstructor   SymbolKind = "CONSTRUCTOR"
	KindTypeAlias     SymbolKind = "TYPE_ALIAS"
	KindTypeParameter SymbolKind = "TYPE_PARAMETER"
	KindPackage       SymbolKind = "PACKAGE"
	KindFile          SymbolKind = "FILE"
	KindLocalVariable SymbolKind = "LOCAL_VARIABLE"
	KindParameter     SymbolKind = "PARAMETER"
)

// Severity is a diagnostic's level, spec §3.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// SourceLocation is a single point in a file, 0-based.
type SourceLocation struct {
	Path   string
	Line   int
	Column int
}

// SourceRange is a half-open span in a file, 0-based.
type SourceRange struct {
	Path        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// ResolvedSymbol is the result of resolving a position or a reference to a
// declaration.
type ResolvedSymbol struct {
	Name            string
	Kind            SymbolKind
	Location        SourceLocation
	ContainingClass string // optional, empty when not applicable
	Signature       string // optional, one-line printable rendering
	FqName          string // optional, dotted fully-qualified name where known
}

// TypeInfo describes a resolved type.
type TypeInfo struct {
	FqName        string
	ShortName     string
	Nullable      bool
	TypeArguments []TypeInfo
}

// FileEdit is a single textual edit to apply to a file.
type FileEdit struct {
	Path    string
	Range   SourceRange
	NewText string
}

// QuickFix is an offered remediation for a diagnostic.
type QuickFix struct {
	Title string
	Edits []FileEdit
}

// DiagnosticInfo is a single compiler/analysis diagnostic.
type DiagnosticInfo struct {
	Severity    Severity
	Message     string
	Range       SourceRange
	Code        string // optional, empty when the backend has none
	QuickFixes  []QuickFix
}

// CompletionCandidate is a single completion result, spec §4.7.
type CompletionCandidate struct {
	Label         string
	Kind          SymbolKind
	Detail        string // optional
	InsertText    string
	IsDeprecated  bool
	SortPriority  int
}

// RenameContext carries the symbol and range a rename was prepared against.
type RenameContext struct {
	Symbol ResolvedSymbol
	Range  SourceRange
}
