package facade

// stubSession is the empty-results fallback used when the Analysis Backend
// refuses to build a session (spec §7, "session-build failure"). It keeps the
// rest of the server live instead of propagating the failure.
type stubSession struct{}

// NewStubSession returns a BackendSession that answers every query with the
// empty/zero result, never an error.
func NewStubSession() BackendSession { return stubSession{} }

func (stubSession) Dispose() error                 { return nil }
func (stubSession) UpdateFileContent(string, string) {}
func (stubSession) Diagnostics(string) []DiagnosticInfo { return nil }

func (stubSession) ResolveAtPosition(string, int, int) (*ResolveResult, bool) { return nil, false }
func (stubSession) TypeAt(string, int, int) (*TypeInfo, bool)                  { return nil, false }
func (stubSession) Documentation(ResolvedSymbol) (string, bool)                { return "", false }

func (stubSession) SourceFiles() []string                       { return nil }
func (stubSession) FileText(string) (string, bool)               { return "", false }
func (stubSession) Declarations(string) ([]*Declaration, bool)    { return nil, false }

func (stubSession) ScopeAt(string, int, int) ([]ScopeEntry, bool) { return nil, false }
func (stubSession) MembersOf(TypeInfo) ([]ScopeEntry, bool)       { return nil, false }

func (stubSession) DeclarationsByFqName(string) []*Declaration { return nil }
