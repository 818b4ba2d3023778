package pscript

import "fmt"

// TokenType identifies whether a token is pushed or dispatched.
type TokenType int

const (
	// TokenLiteral carries a Value that is pushed unchanged.
	TokenLiteral TokenType = iota
	// TokenExecName carries a name resolved at evaluation time.
	TokenExecName
)

// Token is one element of a tokenized program. Procedure bodies are nested
// inside literal procedure values, so a token sequence is already a tree.
type Token struct {
	Type  TokenType
	Value Value
	Name  string
	Pos   Position
}

// Position identifies a line and column in the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LiteralToken wraps a value as a literal token.
func LiteralToken(v Value) Token {
	return Token{Type: TokenLiteral, Value: v}
}

// ExecToken builds an executable-name token.
func ExecToken(name string) Token {
	return Token{Type: TokenExecName, Name: name}
}

// IsLiteral reports whether the token pushes a value.
func (t Token) IsLiteral() bool { return t.Type == TokenLiteral }

func (t Token) String() string {
	if t.Type == TokenExecName {
		return t.Name
	}
	return t.Value.Syntax()
}
