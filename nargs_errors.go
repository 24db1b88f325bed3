package nargs

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/agilira/go-errors"
)

// Error codes. Registration and format errors come back as *ProgrammingError,
// parse-time errors as *ParseError; both carry one of these codes.
const (
	ErrDuplicateName     goerrors.ErrorCode = "NARGS_DUPLICATE_NAME"
	ErrInvalidArity      goerrors.ErrorCode = "NARGS_INVALID_ARITY"
	ErrEmptyName         goerrors.ErrorCode = "NARGS_EMPTY_NAME"
	ErrNullTarget        goerrors.ErrorCode = "NARGS_NULL_TARGET"
	ErrInvalidAllocation goerrors.ErrorCode = "NARGS_INVALID_ALLOCATION"
	ErrSyntax            goerrors.ErrorCode = "NARGS_SYNTAX_ERROR"
	ErrConfiguration     goerrors.ErrorCode = "NARGS_CONFIGURATION_ERROR"
	ErrMissingArgument   goerrors.ErrorCode = "NARGS_MISSING_ARGUMENT"
	ErrTooManyValues     goerrors.ErrorCode = "NARGS_TOO_MANY_VALUES"
	ErrInvalidValue      goerrors.ErrorCode = "NARGS_INVALID_VALUE"
	ErrDuplicateOption   goerrors.ErrorCode = "NARGS_DUPLICATE_OPTION"
	ErrMissingRequired   goerrors.ErrorCode = "NARGS_MISSING_REQUIRED_OPTION"
	ErrUnknownOption     goerrors.ErrorCode = "NARGS_UNKNOWN_OPTION"
)

// HelpInvokedErr is returned by ParseOrError when the help option was given.
var HelpInvokedErr = errors.New("help invoked")

// DumpInvokedErr is returned when parsing was replaced by a dump (WithDump(true)).
var DumpInvokedErr = errors.New("dump invoked")

// ProgrammingError is a mistake in how options were declared, not in user input.
type ProgrammingError struct {
	Code   goerrors.ErrorCode
	Option string
	Column int // offending format column, -1 when not a format error
	msg    string
	cause  *goerrors.Error
}

func (e *ProgrammingError) Error() string {
	return e.msg
}

func (e *ProgrammingError) Unwrap() error {
	return e.cause
}

// NewProgrammingError creates a programming error with the given code.
func NewProgrammingError(code goerrors.ErrorCode, option string, format string, args ...any) *ProgrammingError {
	msg := fmt.Sprintf(format, args...)
	cause := goerrors.New(code, msg)
	if option != "" {
		cause = cause.WithContext("option", option)
	}
	return &ProgrammingError{Code: code, Option: option, Column: -1, msg: msg, cause: cause}
}

func newSyntaxError(format string, column int, msg string) *ProgrammingError {
	err := NewProgrammingError(ErrSyntax, "", "invalid format %q at column %d: %s", format, column, msg)
	err.Column = column
	err.cause = err.cause.WithContext("column", column)
	return err
}

// UnknownToken is one prefixed token that matched no declared name.
type UnknownToken struct {
	Token      string
	Index      int
	Suggestion string // empty when nothing was close enough
}

// ParseError describes why a parse call failed, with enough context that the
// caller does not have to work it out again.
type ParseError struct {
	Code     goerrors.ErrorCode
	Option   string
	Index    int // argv index of the offending token, -1 when not tied to one
	Token    string
	Type     ValueType
	Expected int
	Actual   int
	Missing  []string
	Unknown  []UnknownToken

	// Highlights point at the offending tokens for FormatArgs.
	Highlights []Highlight

	msg   string
	cause *goerrors.Error
}

func (e *ParseError) Error() string {
	return e.msg
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func newParseError(code goerrors.ErrorCode, option string, index int, msg string) *ParseError {
	cause := goerrors.New(code, msg)
	if option != "" {
		cause = cause.WithContext("option", option)
	}
	if index >= 0 {
		cause = cause.WithContext("index", index)
	}
	return &ParseError{Code: code, Option: option, Index: index, msg: msg, cause: cause}
}

func newMissingArgument(o *Option, index int, expected, actual int) *ParseError {
	err := newParseError(ErrMissingArgument, o.Name(), index,
		fmt.Sprintf("not enough arguments for %s: expected %d, got %d", o.Name(), expected, actual))
	err.Expected = expected
	err.Actual = actual
	err.cause = err.cause.WithContext("expected", expected).WithContext("actual", actual)
	if index >= 0 {
		err.Highlights = []Highlight{{Index: index, Marker: '^'}}
	}
	return err
}

func newTooManyValues(o *Option, index int, limit int) *ParseError {
	err := newParseError(ErrTooManyValues, o.Name(), index,
		fmt.Sprintf("too many values for %s: at most %d allowed", o.Name(), limit))
	err.Expected = limit
	err.Actual = limit + 1
	err.cause = err.cause.WithContext("max", limit)
	return err
}

func newInvalidValue(o *Option, index int, token string) *ParseError {
	err := newParseError(ErrInvalidValue, o.Name(), index,
		fmt.Sprintf("invalid %s value for %s: %s", o.valueType, o.Name(), token))
	err.Token = token
	err.Type = o.valueType
	err.cause = err.cause.WithContext("token", token).WithContext("type", o.valueType.String())
	err.Highlights = []Highlight{{Index: index, Marker: '^'}}
	return err
}

func newDuplicateOption(o *Option, index int) *ParseError {
	err := newParseError(ErrDuplicateOption, o.Name(), index,
		fmt.Sprintf("%s was already given at argument %d and may only be given once", o.Name(), o.lastIndex))
	err.Token = o.Name()
	err.cause = err.cause.WithContext("previous", o.lastIndex)
	err.Highlights = []Highlight{
		{Index: o.lastIndex, Marker: '^'},
		{Index: index, Marker: '~'},
	}
	return err
}

func newMissingRequired(missing []string) *ParseError {
	option := ""
	if len(missing) == 1 {
		option = missing[0]
	}
	err := newParseError(ErrMissingRequired, option, -1,
		fmt.Sprintf("Missing required arguments: [%s]", strings.Join(missing, ", ")))
	err.Missing = missing
	err.cause = err.cause.WithContext("missing", strings.Join(missing, ","))
	return err
}

func newUnknownOption(unknown []UnknownToken) *ParseError {
	parts := make([]string, 0, len(unknown))
	highlights := make([]Highlight, 0, len(unknown))
	for _, u := range unknown {
		if u.Suggestion != "" {
			parts = append(parts, fmt.Sprintf("%s (did you mean %s?)", u.Token, u.Suggestion))
		} else {
			parts = append(parts, u.Token)
		}
		highlights = append(highlights, Highlight{Index: u.Index, Marker: '^'})
	}
	label := "unknown option"
	if len(unknown) > 1 {
		label = "unknown options"
	}
	err := newParseError(ErrUnknownOption, "", unknown[0].Index, fmt.Sprintf("%s: %s", label, strings.Join(parts, ", ")))
	err.Token = unknown[0].Token
	err.Unknown = unknown
	err.Highlights = highlights
	err.cause = err.cause.WithContext("token", unknown[0].Token)
	if unknown[0].Suggestion != "" {
		err.cause = err.cause.WithContext("suggestion", unknown[0].Suggestion)
	}
	return err
}

// KindOf returns the error code carried by err, or "" when err has none.
func KindOf(err error) goerrors.ErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	var pg *ProgrammingError
	if errors.As(err, &pg) {
		return pg.Code
	}
	var coder goerrors.ErrorCoder
	if errors.As(err, &coder) {
		return goerrors.ErrorCode(coder.ErrorCode())
	}
	return ""
}
