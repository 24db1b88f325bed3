package nargs

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is a compiled format string:
//
//	[.][[]type[#N][]][* | + | ? | #N]
//
// '.' asks for caller-owned storage, brackets for an array, the type letter is
// one of s i u f d b, '#N' after 's' limits string length and the trailing
// marker sets the arity. A '#' without digits takes its number from the
// arguments that follow the target in AddOption.
type Shape struct {
	Type      ValueType
	Arity     Arity
	Array     bool
	Alloc     bool
	MaxLength int

	lengthFromArgs bool
	arityFromArgs  bool
}

type formatLexer struct {
	src string
	pos int
}

func (l *formatLexer) next() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	c := l.src[l.pos]
	l.pos++
	return c, true
}

func (l *formatLexer) backup() {
	l.pos--
}

// column is the 1-based position of the last character read.
func (l *formatLexer) column() int {
	return l.pos
}

// number reads the digits after a '#'; ok is false when there are none.
func (l *formatLexer) number() (int, bool) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if start == l.pos {
		return 0, false
	}
	n, err := strconv.Atoi(l.src[start:l.pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompileFormat parses a format string into a Shape.
func CompileFormat(format string) (Shape, error) {
	sh := Shape{Arity: Exactly(1), Alloc: true}
	l := &formatLexer{src: format}

	c, ok := l.next()
	if ok && c == '.' {
		sh.Alloc = false
		c, ok = l.next()
	}
	if ok && c == '[' {
		sh.Array = true
		c, ok = l.next()
	}
	if !ok {
		return Shape{}, newSyntaxError(format, l.column()+1, "expected a type letter")
	}

	switch c {
	case 's':
		sh.Type = TypeString
	case 'i':
		sh.Type = TypeInt
	case 'u':
		sh.Type = TypeUint
	case 'f':
		sh.Type = TypeFloat
	case 'd':
		sh.Type = TypeDouble
	case 'b':
		sh.Type = TypeBool
	default:
		return Shape{}, newSyntaxError(format, l.column(), fmt.Sprintf("unknown type %q", c))
	}

	if sh.Type == TypeString {
		if c, ok = l.next(); ok && c == '#' {
			if n, ok := l.number(); ok {
				sh.MaxLength = n
			} else {
				sh.lengthFromArgs = true
			}
		} else if ok {
			l.backup()
		}
	}

	c, ok = l.next()
	if sh.Array {
		if !ok || c != ']' {
			return Shape{}, newSyntaxError(format, l.column()+boolInt(!ok), "missing ']'")
		}
		c, ok = l.next()
	} else if ok && c == ']' {
		return Shape{}, newSyntaxError(format, l.column(), "']' without '['")
	}

	hasArity := ok
	if ok {
		switch c {
		case '*':
			sh.Arity = ZeroOrMore
		case '+':
			sh.Arity = OneOrMore
		case '?':
			sh.Arity = ZeroOrOne
		case '#':
			if n, ok := l.number(); ok {
				sh.Arity = Exactly(n)
			} else {
				sh.arityFromArgs = true
			}
		default:
			return Shape{}, newSyntaxError(format, l.column(), fmt.Sprintf("unexpected %q", c))
		}
	}
	if _, ok := l.next(); ok {
		return Shape{}, newSyntaxError(format, l.column(), "unexpected trailing characters")
	}

	if hasArity && !sh.Array {
		if sh.Type == TypeBool {
			return Shape{}, NewProgrammingError(ErrConfiguration, "",
				"invalid format %q: a bool option takes no arity", format)
		}
		return Shape{}, NewProgrammingError(ErrConfiguration, "",
			"invalid format %q: an arity requires the array form", format)
	}
	if !sh.Alloc && sh.Arity.IsVariable() {
		return Shape{}, NewProgrammingError(ErrConfiguration, "",
			"invalid format %q: a caller-owned buffer needs an exact count", format)
	}
	if !sh.Array {
		if sh.Type == TypeBool {
			sh.Arity = Exactly(0)
		}
		if sh.Type != TypeString {
			sh.Alloc = false
		}
	}
	return sh, nil
}

// AddOption declares an option from a format string. names is a
// space-separated list; args follow the format: the target, then the length
// for a bare 's#', then a *int count for arrays (nil allowed), then the count
// for a bare arity '#'.
func (r *Registry) AddOption(names, description, format string, args ...any) (*Option, error) {
	shape, err := CompileFormat(format)
	if err != nil {
		return nil, err
	}
	nameList := strings.Fields(names)
	name := ""
	if len(nameList) > 0 {
		name = nameList[0]
	}

	used := 0
	next := func(what string) (any, error) {
		if used >= len(args) {
			return nil, NewProgrammingError(ErrConfiguration, name,
				"option %q: format %q needs a %s argument", name, format, what)
		}
		a := args[used]
		used++
		return a, nil
	}
	nextInt := func(what string) (int, error) {
		a, err := next(what)
		if err != nil {
			return 0, err
		}
		n, ok := a.(int)
		if !ok || n < 0 {
			return 0, NewProgrammingError(ErrConfiguration, name,
				"option %q: %s must be a non-negative int, got %v", name, what, a)
		}
		return n, nil
	}

	spec := OptionSpec{
		Names:     nameList,
		Usage:     description,
		Type:      shape.Type,
		Arity:     shape.Arity,
		MaxLength: shape.MaxLength,
		Alloc:     shape.Alloc && !shape.Array,
	}
	if spec.Target, err = next("target"); err != nil {
		return nil, err
	}
	if shape.lengthFromArgs {
		if spec.MaxLength, err = nextInt("length"); err != nil {
			return nil, err
		}
	}
	if shape.Array {
		count, err := next("count")
		if err != nil {
			return nil, err
		}
		switch c := count.(type) {
		case nil:
		case *int:
			spec.Count = c
		default:
			return nil, NewProgrammingError(ErrConfiguration, name,
				"option %q: count must be a *int, got %T", name, count)
		}
	}
	if shape.arityFromArgs {
		n, err := nextInt("count")
		if err != nil {
			return nil, err
		}
		spec.Arity = Exactly(n)
	}
	if used < len(args) {
		return nil, NewProgrammingError(ErrConfiguration, name,
			"option %q: format %q takes %d arguments, got %d", name, format, used, len(args))
	}

	if want, got := shapeKind(shape), kindOf(spec.Target); got != kindNil && want != got {
		return nil, NewProgrammingError(ErrConfiguration, name,
			"option %q: format %q needs a %s target, got %T", name, format, want, spec.Target)
	}
	return r.Register(spec)
}

type targetKind int

const (
	kindNil targetKind = iota
	kindScalar
	kindFixed
	kindGrowable
	kindOther
)

func (k targetKind) String() string {
	switch k {
	case kindScalar:
		return "pointer"
	case kindFixed:
		return "slice"
	case kindGrowable:
		return "slice pointer"
	}
	return "unsupported"
}

func shapeKind(sh Shape) targetKind {
	switch {
	case !sh.Array:
		return kindScalar
	case sh.Alloc:
		return kindGrowable
	}
	return kindFixed
}

func kindOf(t any) targetKind {
	switch t.(type) {
	case nil:
		return kindNil
	case *bool, *int, *uint, *float32, *float64, *string:
		return kindScalar
	case []bool, []int, []uint, []float32, []float64, []string:
		return kindFixed
	case *[]bool, *[]int, *[]uint, *[]float32, *[]float64, *[]string:
		return kindGrowable
	}
	return kindOther
}
