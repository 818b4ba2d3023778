package pscript

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	namePrefix  = '/'
	commentRune = '%'
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// Tokenize turns source text into a token sequence. Brace-delimited
// procedure bodies are tokenized recursively and become literal procedure
// tokens; the only failure is an unbalanced brace.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	return l.tokens(0, Position{})
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) atEOF() bool {
	return l.width == 0
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column}
}

// tokens reads until end of input (depth 0) or until the brace closing the
// procedure opened at open (depth > 0).
func (l *lexer) tokens(depth int, open Position) ([]Token, error) {
	out := []Token{}
	for {
		l.skipWhitespaceAndComments()
		if l.atEOF() {
			if depth > 0 {
				return nil, newSyntaxError(open, "unmatched '{' in procedure literal")
			}
			return out, nil
		}

		start := l.pos()
		switch l.ch {
		case '{':
			l.readRune()
			body, err := l.tokens(depth+1, start)
			if err != nil {
				return nil, err
			}
			tok := LiteralToken(NewProcedure(body, nil))
			tok.Pos = start
			out = append(out, tok)
		case '}':
			if depth == 0 {
				return nil, newSyntaxError(start, "unmatched '}'")
			}
			l.readRune()
			return out, nil
		case '(':
			tok := LiteralToken(NewString(l.readString()))
			tok.Pos = start
			out = append(out, tok)
		case ')':
			// A lone ')' closes nothing and is skipped.
			l.readRune()
		default:
			tok := classifyAtom(l.readAtom())
			tok.Pos = start
			out = append(out, tok)
		}
	}
}

func (l *lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readRune()
		case l.ch == commentRune:
			l.skipComment()
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readRune()
	}
}

// readString consumes "(...)" verbatim. There is no nesting or escaping;
// an unterminated string runs to the end of input.
func (l *lexer) readString() string {
	l.readRune()
	start := l.offset - l.width
	for !l.atEOF() && l.ch != ')' {
		l.readRune()
	}
	if l.atEOF() {
		return l.input[start:]
	}
	body := l.input[start : l.offset-l.width]
	l.readRune()
	return body
}

func (l *lexer) readAtom() string {
	start := l.offset - l.width
	for !l.atEOF() && isAtomRune(l.ch) {
		l.readRune()
	}
	if l.atEOF() {
		return l.input[start:]
	}
	return l.input[start : l.offset-l.width]
}

func isAtomRune(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	switch r {
	case '{', '}', '(', ')':
		return false
	}
	return true
}

// classifyAtom applies the fixed priority: integer, real, boolean, name
// literal, executable name.
func classifyAtom(raw string) Token {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return LiteralToken(NewInt(i))
	}
	if isRealLiteral(raw) {
		// Out-of-range spellings parse to ±Inf with ErrRange.
		f, err := strconv.ParseFloat(raw, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return LiteralToken(NewReal(f))
		}
	}
	switch raw {
	case "true":
		return LiteralToken(NewBool(true))
	case "false":
		return LiteralToken(NewBool(false))
	}
	if raw[0] == namePrefix {
		return LiteralToken(NewName(raw[1:]))
	}
	return ExecToken(raw)
}

// isRealLiteral restricts ParseFloat to decimal spellings so that names such
// as "inf", "NaN" or "0x1p-2" stay executable names.
func isRealLiteral(raw string) bool {
	digits := false
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '.' || r == 'e' || r == 'E':
		case (r == '+' || r == '-') && (i == 0 || raw[i-1] == 'e' || raw[i-1] == 'E'):
		default:
			return false
		}
	}
	return digits
}
