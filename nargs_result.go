package nargs

// Status is the outcome of a parse call.
type Status int

const (
	StatusFailed Status = iota
	StatusOK
	StatusHelpRequested
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusHelpRequested:
		return "help"
	}
	return "failed"
}

// TokenClass tells what a parse did with one argv entry.
type TokenClass int

const (
	TokenSkipped TokenClass = iota // before the start index
	TokenOption                    // a named option's own token
	TokenValue                     // a value bound to an option
	TokenExtra                     // positional token no option wanted
	TokenUnknown                   // prefixed token matching no option
)

func (c TokenClass) String() string {
	switch c {
	case TokenOption:
		return "option"
	case TokenValue:
		return "value"
	case TokenExtra:
		return "extra"
	case TokenUnknown:
		return "unknown"
	}
	return "skipped"
}

type Token struct {
	Index  int
	Value  string
	Class  TokenClass
	Option string // canonical name for TokenOption and TokenValue
}

// Warning is a recoverable problem, such as a repeated option.
type Warning struct {
	Option        string
	Index         int
	PreviousIndex int
	Message       string
}

// Result is what a parse call did with its argv. Every token at or after
// Start has exactly one class.
type Result struct {
	Status   Status
	Args     []string
	Start    int
	Tokens   []Token
	Extra    []string
	Unknown  []string
	Warnings []Warning
}

func newResult(args []string, start int) *Result {
	res := &Result{
		Args:    args,
		Start:   start,
		Tokens:  make([]Token, len(args)),
		Extra:   []string{},
		Unknown: []string{},
	}
	for i, arg := range args {
		res.Tokens[i] = Token{Index: i, Value: arg, Class: TokenSkipped}
	}
	return res
}

func (res *Result) classify(index int, class TokenClass, option string) {
	res.Tokens[index].Class = class
	res.Tokens[index].Option = option
	switch class {
	case TokenExtra:
		res.Extra = append(res.Extra, res.Args[index])
	case TokenUnknown:
		res.Unknown = append(res.Unknown, res.Args[index])
	}
}

// Bound returns the tokens consumed by the named option, flag token included.
func (res *Result) Bound(option string) []string {
	var out []string
	for _, tok := range res.Tokens {
		if (tok.Class == TokenOption || tok.Class == TokenValue) && tok.Option == option {
			out = append(out, tok.Value)
		}
	}
	return out
}

func (res *Result) unknownTokens() []Token {
	var out []Token
	for _, tok := range res.Tokens {
		if tok.Class == TokenUnknown {
			out = append(out, tok)
		}
	}
	return out
}
