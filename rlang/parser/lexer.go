package parser

type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	return ch
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	return Token{
		Kind:    kind,
		Start:   start,
		Length:  l.pos - start,
		Literal: l.input[start:l.pos],
	}
}

func (l *Lexer) NextToken() Token {
	start := l.pos

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Start: start}
	}

	ch := l.peek()

	if ch == '\n' {
		l.advance()
		return l.token(TokenNewline, start)
	}
	if ch == ' ' || ch == '\t' || ch == '\r' {
		for {
			ch = l.peek()
			if ch != ' ' && ch != '\t' && ch != '\r' {
				break
			}
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	}
	if ch == '#' {
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenComment, start)
	}
	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(start)
	}
	if isIdentStart(ch) {
		return l.scanIdent(start)
	}
	if ch == '"' || ch == '\'' {
		return l.scanString(start)
	}
	if ch == '%' {
		return l.scanSpecial(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanNumber(start int) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			l.advance()
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	// Integer suffix
	if l.peek() == 'L' {
		l.advance()
	}
	return l.token(TokenNumber, start)
}

func (l *Lexer) scanIdent(start int) Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	if kind, ok := keywords[tok.Literal]; ok {
		tok.Kind = kind
	}
	return tok
}

func (l *Lexer) scanString(start int) Token {
	quote := l.advance()
	for l.pos < len(l.input) {
		ch := l.advance()
		if ch == '\\' && l.pos < len(l.input) {
			l.advance()
			continue
		}
		if ch == quote {
			return l.token(TokenString, start)
		}
		if ch == '\n' {
			// Unterminated string; stop at end of line so the rest of
			// the document still lexes.
			l.pos--
			break
		}
	}
	tok := l.token(TokenString, start)
	tok.Kind = TokenError
	return tok
}

// scanSpecial scans %%-delimited operators like %% and %in%.
func (l *Lexer) scanSpecial(start int) Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.advance()
		if ch == '%' {
			return l.token(TokenSpecial, start)
		}
		if ch == '\n' {
			l.pos--
			break
		}
	}
	tok := l.token(TokenSpecial, start)
	tok.Kind = TokenError
	return tok
}

func (l *Lexer) scanOperator(start int) Token {
	ch := l.advance()
	kind := TokenError
	switch ch {
	case '<':
		switch {
		case l.peek() == '-':
			l.advance()
			kind = TokenArrowLeft
		case l.peek() == '<' && l.peekN(1) == '-':
			l.advance()
			l.advance()
			kind = TokenArrowLeftSuper
		case l.peek() == '=':
			l.advance()
			kind = TokenLe
		default:
			kind = TokenLt
		}
	case '>':
		if l.peek() == '=' {
			l.advance()
			kind = TokenGe
		} else {
			kind = TokenGt
		}
	case '-':
		if l.peek() == '>' {
			l.advance()
			kind = TokenArrowRight
		} else {
			kind = TokenMinus
		}
	case '=':
		if l.peek() == '=' {
			l.advance()
			kind = TokenEq
		} else {
			kind = TokenAssign
		}
	case '!':
		if l.peek() == '=' {
			l.advance()
			kind = TokenNe
		} else {
			kind = TokenNot
		}
	case '&':
		if l.peek() == '&' {
			l.advance()
			kind = TokenAndAnd
		} else {
			kind = TokenAnd
		}
	case '|':
		if l.peek() == '|' {
			l.advance()
			kind = TokenOrOr
		} else {
			kind = TokenOr
		}
	case '+':
		kind = TokenPlus
	case '*':
		kind = TokenStar
	case '/':
		kind = TokenSlash
	case '^':
		kind = TokenCaret
	case '~':
		kind = TokenTilde
	case '$':
		kind = TokenDollar
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case '{':
		kind = TokenLBrace
	case '}':
		kind = TokenRBrace
	case '[':
		kind = TokenLBracket
	case ']':
		kind = TokenRBracket
	case ',':
		kind = TokenComma
	case ';':
		kind = TokenSemicolon
	}
	return l.token(kind, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '.' || ch == '_' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
