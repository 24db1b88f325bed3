package nargs

import "strconv"

// ValueType is the element type an option converts its tokens into.
type ValueType int

const (
	typeUnset ValueType = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeDouble
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	}
	return "unknown"
}

// formatChar is the type letter used by the format mini-language.
func (t ValueType) formatChar() byte {
	switch t {
	case TypeBool:
		return 'b'
	case TypeInt:
		return 'i'
	case TypeUint:
		return 'u'
	case TypeFloat:
		return 'f'
	case TypeDouble:
		return 'd'
	case TypeString:
		return 's'
	}
	return '?'
}

// Arity is the number of value tokens an option consumes. Non-negative values
// are exact counts; the negative sentinels describe variable counts.
type Arity int

const (
	OneOrMore  Arity = -1
	ZeroOrMore Arity = -2
	ZeroOrOne  Arity = -3
)

// Exactly returns an exact arity of n tokens.
func Exactly(n int) Arity {
	return Arity(n)
}

// IsVariable reports whether the arity is one of the variable sentinels.
func (a Arity) IsVariable() bool {
	return a == OneOrMore || a == ZeroOrMore || a == ZeroOrOne
}

func (a Arity) valid() bool {
	return a >= 0 || a.IsVariable()
}

// allowsZero reports whether the option is satisfied without any token.
func (a Arity) allowsZero() bool {
	return a == 0 || a == ZeroOrMore || a == ZeroOrOne
}

// bound is the maximum number of values, -1 when unbounded.
func (a Arity) bound() int {
	switch a {
	case OneOrMore, ZeroOrMore:
		return -1
	case ZeroOrOne:
		return 1
	}
	return int(a)
}

func (a Arity) String() string {
	switch a {
	case OneOrMore:
		return "+"
	case ZeroOrMore:
		return "*"
	case ZeroOrOne:
		return "?"
	}
	return strconv.Itoa(int(a))
}

// Ownership tells who provides and releases an option's storage.
type Ownership int

const (
	CallerOwned Ownership = iota
	EngineAllocated
)

func (o Ownership) String() string {
	if o == EngineAllocated {
		return "engine"
	}
	return "caller"
}

// OptionFlag holds per-option behaviour switches.
type OptionFlag uint8

const (
	Unique OptionFlag = 1 << iota // error when given more than once
	Required
)

// Flags holds registry-wide behaviour switches.
type Flags uint

const (
	FlagAutoClean   Flags = 1 << iota // Close releases engine-allocated targets
	FlagNoErrOutput                   // never write diagnostics to stderr
	FlagNoColor                       // disable colors in usage and highlights
)

// Value is the set of Go element types an option can store.
type Value interface {
	bool | int | uint | float32 | float64 | string
}

func valueTypeOf[T Value]() ValueType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return TypeBool
	case int:
		return TypeInt
	case uint:
		return TypeUint
	case float32:
		return TypeFloat
	case float64:
		return TypeDouble
	case string:
		return TypeString
	}
	return typeUnset
}
