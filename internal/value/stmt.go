package value

// StmtKind tags the variant of a Stmt.
type StmtKind string

const (
	StmtExpression StmtKind = "expression"
	StmtReturn     StmtKind = "return"
	StmtVarDecl    StmtKind = "variable-declaration"
	StmtIf         StmtKind = "if"
	StmtForOf      StmtKind = "for-of"
)

// Stmt is implemented by every statement variant used to model function
// bodies during partial evaluation (§3.4).
type Stmt interface {
	StmtKind() StmtKind
}

// ExpressionStmt wraps a bare expression statement, e.g. `c.register(x)`.
type ExpressionStmt struct {
	Expr Value
}

func (ExpressionStmt) StmtKind() StmtKind { return StmtExpression }

// ReturnStmt is `return <expr>`. Expr is nil for a bare `return`.
type ReturnStmt struct {
	Expr Value
}

func (ReturnStmt) StmtKind() StmtKind { return StmtReturn }

// DeclKind distinguishes const/let/var declarations.
type DeclKind string

const (
	DeclConst DeclKind = "const"
	DeclLet   DeclKind = "let"
	DeclVar   DeclKind = "var"
)

// VarDeclStmt declares one or more bindings, e.g. `const Defaults = [...]`.
type VarDeclStmt struct {
	DeclKind DeclKind
	Name     string
	Init     Value // nil when uninitialized
}

func (VarDeclStmt) StmtKind() StmtKind { return StmtVarDecl }

// IfStmt is a conditional; Then/Else are statement lists (Else is nil when
// absent). Conditional branches that gate registration calls surface a
// conditional-registration gap at the registration-analysis layer (§4.5),
// not here: the value model only records shape.
type IfStmt struct {
	Cond Value
	Then []Stmt
	Else []Stmt
}

func (IfStmt) StmtKind() StmtKind { return StmtIf }

// ForOfStmt is `for (const x of iterable) { ... }`.
type ForOfStmt struct {
	DeclKind DeclKind
	// Pattern holds a simple identifier, or the raw destructuring source
	// text when the declaration pattern isn't a plain identifier; callers
	// that need bound names surface a loop-variable gap in that case.
	Pattern  string
	Iterable Value
	Body     []Stmt
}

func (ForOfStmt) StmtKind() StmtKind { return StmtForOf }
