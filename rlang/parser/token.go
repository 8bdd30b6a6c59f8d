package parser

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenNewline
	TokenComment

	// Literals
	TokenIdent
	TokenNumber
	TokenString
	TokenTrue
	TokenFalse
	TokenNull
	TokenNA

	// Keywords
	TokenIf
	TokenElse
	TokenFor
	TokenIn
	TokenWhile
	TokenRepeat
	TokenFunction
	TokenBreak
	TokenNext

	// Operators
	TokenArrowLeft      // <-
	TokenArrowLeftSuper // <<-
	TokenArrowRight     // ->
	TokenAssign         // =
	TokenEq             // ==
	TokenNe             // !=
	TokenLe             // <=
	TokenGe             // >=
	TokenLt             // <
	TokenGt             // >
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret
	TokenNot    // !
	TokenAnd    // &
	TokenAndAnd // &&
	TokenOr     // |
	TokenOrOr   // ||
	TokenTilde  // ~
	TokenDollar // $
	TokenSpecial // %%-delimited operators such as %% or %in%

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenError:          "Error",
	TokenWhitespace:     "Whitespace",
	TokenNewline:        "Newline",
	TokenComment:        "Comment",
	TokenIdent:          "Ident",
	TokenNumber:         "Number",
	TokenString:         "String",
	TokenTrue:           "TRUE",
	TokenFalse:          "FALSE",
	TokenNull:           "NULL",
	TokenNA:             "NA",
	TokenIf:             "if",
	TokenElse:           "else",
	TokenFor:            "for",
	TokenIn:             "in",
	TokenWhile:          "while",
	TokenRepeat:         "repeat",
	TokenFunction:       "function",
	TokenBreak:          "break",
	TokenNext:           "next",
	TokenArrowLeft:      "<-",
	TokenArrowLeftSuper: "<<-",
	TokenArrowRight:     "->",
	TokenAssign:         "=",
	TokenEq:             "==",
	TokenNe:             "!=",
	TokenLe:             "<=",
	TokenGe:             ">=",
	TokenLt:             "<",
	TokenGt:             ">",
	TokenPlus:           "+",
	TokenMinus:          "-",
	TokenStar:           "*",
	TokenSlash:          "/",
	TokenCaret:          "^",
	TokenNot:            "!",
	TokenAnd:            "&",
	TokenAndAnd:         "&&",
	TokenOr:             "|",
	TokenOrOr:           "||",
	TokenTilde:          "~",
	TokenDollar:         "$",
	TokenSpecial:        "Special",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenLBrace:         "{",
	TokenRBrace:         "}",
	TokenLBracket:       "[",
	TokenRBracket:       "]",
	TokenComma:          ",",
	TokenSemicolon:      ";",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Start   int
	Length  int
	Literal string
}

func (t Token) End() int {
	return t.Start + t.Length
}

var keywords = map[string]TokenKind{
	"if":       TokenIf,
	"else":     TokenElse,
	"for":      TokenFor,
	"in":       TokenIn,
	"while":    TokenWhile,
	"repeat":   TokenRepeat,
	"function": TokenFunction,
	"break":    TokenBreak,
	"next":     TokenNext,
	"TRUE":     TokenTrue,
	"FALSE":    TokenFalse,
	"NULL":     TokenNull,
	"NA":       TokenNA,
}
