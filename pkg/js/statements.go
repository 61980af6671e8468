package js

// Program is the body of one <script> block.
type Program struct {
	NodeBase
	Statements []Statement
}

// DeclarationKeyword is the surface keyword of a variable declaration.
type DeclarationKeyword string

const (
	KeywordVar   DeclarationKeyword = "var"
	KeywordLet   DeclarationKeyword = "let"
	KeywordConst DeclarationKeyword = "const"
)

type VariableDeclaration struct {
	NodeBase
	Keyword     DeclarationKeyword
	Declarators []*VariableDeclarator
}

type VariableDeclarator struct {
	NodeBase
	ID   Pattern
	Init Expression
}

type ExpressionStatement struct {
	NodeBase
	Expression Expression
}

type FunctionDeclaration struct {
	NodeBase
	ID     *Identifier
	Params []Pattern
	Body   []Statement
}

type BlockStatement struct {
	NodeBase
	Body []Statement
}

type ReturnStatement struct {
	NodeBase
	Argument Expression
}

type IfStatement struct {
	NodeBase
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

// LabeledStatement carries `label: body`. A label of `$` at the top level
// of the instance script is the legacy reactive-statement marker.
type LabeledStatement struct {
	NodeBase
	Label string
	Body  Statement
}

// ReactiveLabel is the label that marks a legacy reactive statement.
const ReactiveLabel = "$"

// ImportSpecifier binds one imported name; Imported is empty for default
// and namespace imports.
type ImportSpecifier struct {
	Local    *Identifier
	Imported string
}

type ImportDeclaration struct {
	NodeBase
	Source     string
	Specifiers []ImportSpecifier
}

// ExportStatement wraps an exported declaration. Legacy-mode components
// declare props as `export let`.
type ExportStatement struct {
	NodeBase
	Declaration Statement
}

func (*Program) stmtNode()             {}
func (*VariableDeclaration) stmtNode() {}
func (*ExpressionStatement) stmtNode() {}
func (*FunctionDeclaration) stmtNode() {}
func (*BlockStatement) stmtNode()      {}
func (*ReturnStatement) stmtNode()     {}
func (*IfStatement) stmtNode()         {}
func (*LabeledStatement) stmtNode()    {}
func (*ImportDeclaration) stmtNode()   {}
func (*ExportStatement) stmtNode()     {}
