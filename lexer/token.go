package lexer

// TokenType enumerates lexical categories recognised by the lexer.
type TokenType int

const (
	Error TokenType = iota
	Identifier
	String
	Number

	// Punctuation
	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Bang         // !
	BangEqual    // !=
	Equal        // =
	EqualEqual   // ==
	Greater      // >
	GreaterEqual // >=
	Less         // <
	LessEqual    // <=
	Comma        // ,
	Dot          // .
	Semicolon    // ;

	// Literals
	True
	False
	Nil

	// Keywords
	Var
	If
	Else
	For
	While
	Fun
	Return
	Class
	This
	Super
	And
	Or
	Print

	Newline
)

func (tt TokenType) String() string {
	switch tt {
	case Error:
		return "error"
	case Identifier:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Newline:
		return "newline"
	}
	for _, entry := range fixedTokens {
		if entry.typ == tt {
			return entry.text
		}
	}
	if tt == Minus {
		return "-"
	}
	return "unknown"
}

// IsFixed reports whether tt is drawn from the fixed punctuation and keyword set.
func (tt TokenType) IsFixed() bool {
	return tt >= LeftParen && tt <= Newline
}

// LexError classifies a span the lexer could not turn into a valid token.
type LexError int

const (
	NoTokenKind LexError = iota
	// NumericContainsAlpha is reserved: the numeric grammar stops at the
	// first non-digit, so no input currently produces it.
	NumericContainsAlpha
	UnclosedString
)

func (e LexError) String() string {
	switch e {
	case NoTokenKind:
		return "NoTokenKind"
	case NumericContainsAlpha:
		return "NumericContainsAlpha"
	case UnclosedString:
		return "UnclosedString"
	default:
		return "LexError"
	}
}

// Token is a single lexical unit. Tokens carry no position; positions are
// recovered by replaying a Scanner over the original source.
type Token struct {
	Type   TokenType
	Text   string   // identifier name or string literal contents
	Number float64  // value of numeric literals
	Err    LexError // classification of error tokens
}

// Span is the byte range of a token within the scanned source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

type fixedToken struct {
	text string
	typ  TokenType
}

// Longer entries must precede their prefixes (">=" before ">"). Minus is
// handled separately because it may begin a numeric literal.
var fixedTokens = []fixedToken{
	{">=", GreaterEqual},
	{">", Greater},
	{"<=", LessEqual},
	{"<", Less},
	{"==", EqualEqual},
	{"=", Equal},
	{"!=", BangEqual},
	{"!", Bang},
	{"(", LeftParen},
	{")", RightParen},
	{"{", LeftBrace},
	{"}", RightBrace},
	{",", Comma},
	{".", Dot},
	{"+", Plus},
	{";", Semicolon},
	{"/", Slash},
	{"*", Star},
	{"true", True},
	{"false", False},
	{"nil", Nil},
	{"var", Var},
	{"if", If},
	{"else", Else},
	{"for", For},
	{"while", While},
	{"fun", Fun},
	{"return", Return},
	{"class", Class},
	{"this", This},
	{"super", Super},
	{"and", And},
	{"or", Or},
	{"print", Print},
	{"\n", Newline},
}

// FixedSpellings returns the source spelling of every fixed token, including "-".
func FixedSpellings() []string {
	out := make([]string, 0, len(fixedTokens)+1)
	for _, entry := range fixedTokens {
		out = append(out, entry.text)
	}
	return append(out, "-")
}
