package parser

import (
	"fmt"

	"github.com/dhamidi/arbor/rlang/ast"
)

// Parse builds a syntax tree for the given source. The parser always
// returns a root covering the whole input; problems become diagnostics
// on the root, never errors. The optional provider becomes the root's
// text back-reference.
func Parse(src string, provider ast.TextProvider) *ast.Root {
	p := newParser(src)
	root := ast.NewRoot(provider)
	root.Range = ast.TextRange{Start: 0, Length: len(src)}
	p.root = root

	for _, c := range p.commentTokens {
		root.Comments.Add(ast.TextRange{Start: c.Start, Length: c.Length})
	}

	for {
		p.skipSeparators()
		if p.at(TokenEOF) {
			break
		}
		expr := p.parseExpr(0)
		root.AddChild(expr)
		if !p.at(TokenEOF) && !p.atSeparator() {
			tok := p.cur()
			p.errorf(tok, "unexpected %q", tok.Literal)
			p.advance()
		}
	}

	root.Diagnostics = p.diags
	return root
}

type parser struct {
	tokens        []Token
	commentTokens []Token
	pos           int
	depth         int // bracket nesting; newlines are soft inside brackets
	root          *ast.Root
	diags         []ast.Diagnostic
}

func newParser(src string) *parser {
	p := &parser{}
	lx := NewLexer(src)
	for {
		tok := lx.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment:
			p.commentTokens = append(p.commentTokens, tok)
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return p
		}
	}
}

func (p *parser) cur() Token {
	i := p.pos
	if p.depth > 0 {
		for i < len(p.tokens) && p.tokens[i].Kind == TokenNewline {
			i++
		}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) advance() Token {
	if p.depth > 0 {
		for p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenNewline {
			p.pos++
		}
	}
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.cur().Kind == kind
}

func (p *parser) atSeparator() bool {
	k := p.cur().Kind
	return k == TokenNewline || k == TokenSemicolon
}

func (p *parser) skipSeparators() {
	for p.atSeparator() {
		p.pos++
	}
}

func (p *parser) skipNewlines() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenNewline {
		p.pos++
	}
}

func (p *parser) errorf(tok Token, format string, args ...any) {
	p.diags = append(p.diags, ast.Diagnostic{
		Range:    ast.TextRange{Start: tok.Start, Length: tok.Length},
		Severity: ast.SeverityError,
		Message:  fmt.Sprintf(format, args...),
	})
}

func leafKind(k TokenKind) ast.NodeKind {
	switch k {
	case TokenIdent:
		return ast.KindIdentifier
	case TokenNumber:
		return ast.KindNumber
	case TokenString:
		return ast.KindString
	case TokenTrue, TokenFalse:
		return ast.KindLogical
	case TokenNull:
		return ast.KindNull
	case TokenNA:
		return ast.KindNA
	case TokenBreak:
		return ast.KindBreak
	case TokenNext:
		return ast.KindNext
	case TokenIf, TokenElse, TokenFor, TokenIn, TokenWhile, TokenRepeat, TokenFunction:
		return ast.KindKeyword
	case TokenLParen, TokenRParen, TokenLBrace, TokenRBrace,
		TokenLBracket, TokenRBracket, TokenComma, TokenSemicolon:
		return ast.KindPunct
	}
	return ast.KindOperator
}

func (p *parser) leaf(tok Token) *ast.Node {
	return &ast.Node{
		Kind:    leafKind(tok.Kind),
		Range:   ast.TextRange{Start: tok.Start, Length: tok.Length},
		Literal: tok.Literal,
	}
}

// expect consumes a token of the given kind, or records a diagnostic
// and returns a zero-length Missing node at the current position.
func (p *parser) expect(kind TokenKind) *ast.Node {
	tok := p.cur()
	if tok.Kind == kind {
		p.advance()
		return p.leaf(tok)
	}
	p.errorf(tok, "expected %q, got %q", kind.String(), tok.Literal)
	return &ast.Node{Kind: ast.KindMissing, Range: ast.TextRange{Start: tok.Start}}
}

// finish sets a composite node's span from its children.
func finish(n *ast.Node) *ast.Node {
	if len(n.Children) == 0 {
		return n
	}
	start := n.Children[0].Range.Start
	end := n.Children[len(n.Children)-1].Range.End()
	n.Range = ast.NewRange(start, end)
	return n
}

func binaryPrec(k TokenKind) int {
	switch k {
	case TokenArrowLeft, TokenArrowLeftSuper, TokenArrowRight, TokenAssign:
		return 1
	case TokenTilde:
		return 2
	case TokenOrOr, TokenOr:
		return 3
	case TokenAndAnd, TokenAnd:
		return 4
	case TokenEq, TokenNe, TokenLt, TokenGt, TokenLe, TokenGe:
		return 5
	case TokenPlus, TokenMinus:
		return 6
	case TokenStar, TokenSlash:
		return 7
	case TokenSpecial:
		return 8
	case TokenCaret:
		return 10
	}
	return 0
}

func rightAssociative(k TokenKind) bool {
	switch k {
	case TokenArrowLeft, TokenArrowLeftSuper, TokenArrowRight, TokenAssign, TokenCaret:
		return true
	}
	return false
}

func isAssignOp(k TokenKind) bool {
	switch k {
	case TokenArrowLeft, TokenArrowLeftSuper, TokenArrowRight, TokenAssign:
		return true
	}
	return false
}

// parseExpr implements precedence climbing over binary operators.
func (p *parser) parseExpr(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		if p.depth == 0 && p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenNewline {
			return left
		}
		tok := p.cur()
		prec := binaryPrec(tok.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		p.advance()
		p.skipNewlines() // an operator at end of line continues the expression
		nextMin := prec + 1
		if rightAssociative(tok.Kind) {
			nextMin = prec
		}
		right := p.parseExpr(nextMin)

		kind := ast.KindBinary
		if isAssignOp(tok.Kind) {
			kind = ast.KindAssignment
		}
		node := &ast.Node{Kind: kind}
		node.AddChild(left)
		node.AddChild(p.leaf(tok))
		node.AddChild(right)
		left = finish(node)
	}
}

func (p *parser) parseUnary() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case TokenMinus, TokenPlus, TokenNot, TokenTilde:
		p.advance()
		p.skipNewlines()
		node := &ast.Node{Kind: ast.KindUnary}
		node.AddChild(p.leaf(tok))
		node.AddChild(p.parseUnary())
		return finish(node)
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix wraps a primary in call, index, and member operations.
func (p *parser) parsePostfix(expr *ast.Node) *ast.Node {
	for {
		switch p.cur().Kind {
		case TokenLParen:
			expr = p.parseCall(expr)
		case TokenLBracket:
			expr = p.parseIndex(expr)
		case TokenDollar:
			op := p.advance()
			node := &ast.Node{Kind: ast.KindBinary}
			node.AddChild(expr)
			node.AddChild(p.leaf(op))
			node.AddChild(p.expect(TokenIdent))
			expr = finish(node)
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case TokenIdent, TokenNumber, TokenString, TokenTrue, TokenFalse,
		TokenNull, TokenNA, TokenBreak, TokenNext:
		p.advance()
		return p.leaf(tok)
	case TokenLParen:
		return p.parseParen()
	case TokenLBrace:
		return p.parseBlock()
	case TokenFunction:
		return p.parseFunction()
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenRepeat:
		return p.parseRepeat()
	case TokenEOF:
		p.errorf(tok, "unexpected end of input")
		return &ast.Node{Kind: ast.KindMissing, Range: ast.TextRange{Start: tok.Start}}
	}
	p.errorf(tok, "unexpected %q", tok.Literal)
	p.advance()
	return &ast.Node{
		Kind:    ast.KindError,
		Range:   ast.TextRange{Start: tok.Start, Length: tok.Length},
		Literal: tok.Literal,
	}
}

func (p *parser) parseParen() *ast.Node {
	node := &ast.Node{Kind: ast.KindParen}
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	node.AddChild(p.parseExpr(0))
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	return finish(node)
}

func (p *parser) parseBlock() *ast.Node {
	node := &ast.Node{Kind: ast.KindBlock}
	node.AddChild(p.expect(TokenLBrace))

	// Braces restore newline significance even inside parentheses.
	saved := p.depth
	p.depth = 0
	defer func() { p.depth = saved }()

	for {
		p.skipSeparators()
		if p.at(TokenRBrace) || p.at(TokenEOF) {
			break
		}
		node.AddChild(p.parseExpr(0))
		if !p.atSeparator() && !p.at(TokenRBrace) && !p.at(TokenEOF) {
			tok := p.cur()
			p.errorf(tok, "unexpected %q", tok.Literal)
			p.advance()
		}
	}
	node.AddChild(p.expect(TokenRBrace))
	return finish(node)
}

func (p *parser) parseCall(callee *ast.Node) *ast.Node {
	node := &ast.Node{Kind: ast.KindCall}
	node.AddChild(callee)
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	for !p.at(TokenRParen) && !p.at(TokenEOF) {
		node.AddChild(p.parseArgument())
		if p.at(TokenComma) {
			node.AddChild(p.leaf(p.advance()))
			continue
		}
		break
	}
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	return finish(node)
}

func (p *parser) parseArgument() *ast.Node {
	node := &ast.Node{Kind: ast.KindArgument}
	// Named argument: ident = value, where = is not ==.
	if p.at(TokenIdent) && p.pos+1 < len(p.tokens) {
		if next := p.peekAfterCur(); next.Kind == TokenAssign {
			name := p.advance()
			op := p.advance()
			node.AddChild(p.leaf(name))
			node.AddChild(p.leaf(op))
			node.AddChild(p.parseExpr(2))
			return finish(node)
		}
	}
	node.AddChild(p.parseExpr(2))
	return finish(node)
}

// peekAfterCur returns the token after the current one, skipping
// newlines the same way cur does.
func (p *parser) peekAfterCur() Token {
	i := p.pos
	skip := func() {
		if p.depth > 0 {
			for i < len(p.tokens) && p.tokens[i].Kind == TokenNewline {
				i++
			}
		}
	}
	skip()
	if i < len(p.tokens)-1 {
		i++
	}
	skip()
	return p.tokens[i]
}

func (p *parser) parseIndex(expr *ast.Node) *ast.Node {
	node := &ast.Node{Kind: ast.KindIndex}
	node.AddChild(expr)
	node.AddChild(p.expect(TokenLBracket))
	p.depth++
	for !p.at(TokenRBracket) && !p.at(TokenEOF) {
		node.AddChild(p.parseArgument())
		if p.at(TokenComma) {
			node.AddChild(p.leaf(p.advance()))
			continue
		}
		break
	}
	node.AddChild(p.expect(TokenRBracket))
	p.depth--
	return finish(node)
}

func (p *parser) parseFunction() *ast.Node {
	node := &ast.Node{Kind: ast.KindFunction}
	node.AddChild(p.expect(TokenFunction))
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	for !p.at(TokenRParen) && !p.at(TokenEOF) {
		node.AddChild(p.parseParameter())
		if p.at(TokenComma) {
			node.AddChild(p.leaf(p.advance()))
			continue
		}
		break
	}
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	p.skipNewlines()
	node.AddChild(p.parseExpr(0))
	return finish(node)
}

func (p *parser) parseParameter() *ast.Node {
	node := &ast.Node{Kind: ast.KindParameter}
	node.AddChild(p.expect(TokenIdent))
	if p.at(TokenAssign) {
		node.AddChild(p.leaf(p.advance()))
		node.AddChild(p.parseExpr(2))
	}
	return finish(node)
}

func (p *parser) parseIf() *ast.Node {
	node := &ast.Node{Kind: ast.KindIf}
	node.AddChild(p.expect(TokenIf))
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	node.AddChild(p.parseExpr(0))
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	p.skipNewlines()
	node.AddChild(p.parseExpr(0))
	save := p.pos
	p.skipNewlines()
	if p.at(TokenElse) {
		node.AddChild(p.leaf(p.advance()))
		p.skipNewlines()
		node.AddChild(p.parseExpr(0))
	} else {
		p.pos = save
	}
	return finish(node)
}

func (p *parser) parseFor() *ast.Node {
	node := &ast.Node{Kind: ast.KindFor}
	node.AddChild(p.expect(TokenFor))
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	node.AddChild(p.expect(TokenIdent))
	node.AddChild(p.expect(TokenIn))
	node.AddChild(p.parseExpr(0))
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	p.skipNewlines()
	node.AddChild(p.parseExpr(0))
	return finish(node)
}

func (p *parser) parseWhile() *ast.Node {
	node := &ast.Node{Kind: ast.KindWhile}
	node.AddChild(p.expect(TokenWhile))
	node.AddChild(p.expect(TokenLParen))
	p.depth++
	node.AddChild(p.parseExpr(0))
	node.AddChild(p.expect(TokenRParen))
	p.depth--
	p.skipNewlines()
	node.AddChild(p.parseExpr(0))
	return finish(node)
}

func (p *parser) parseRepeat() *ast.Node {
	node := &ast.Node{Kind: ast.KindRepeat}
	node.AddChild(p.expect(TokenRepeat))
	p.skipNewlines()
	node.AddChild(p.parseExpr(0))
	return finish(node)
}
