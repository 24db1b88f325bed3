package nargs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypedValues(t *testing.T) {
	r := newTestRegistry()
	i, err := NewInt("--int").Register(r)
	require.NoError(t, err)
	u, err := NewUint("--uint").Register(r)
	require.NoError(t, err)
	f, err := NewFloat("--float").Register(r)
	require.NoError(t, err)
	d, err := NewDouble("--double").Register(r)
	require.NoError(t, err)
	s, err := NewString("--string").Register(r)
	require.NoError(t, err)
	b, err := NewBool("--bool").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "prog --int 42 --uint 42 --float 42 --double 42 --string 42 --bool"), WithStartIndex(1))
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 42, *i)
	assert.Equal(t, uint(42), *u)
	assert.Equal(t, float32(42), *f)
	assert.Equal(t, 42.0, *d)
	assert.Equal(t, "42", *s)
	assert.True(t, *b)
}

func TestParseInvalidValue(t *testing.T) {
	tests := []struct {
		name     string
		register func(r *Registry) error
		typ      ValueType
	}{
		{"int", func(r *Registry) error { _, err := NewInt("--value").Register(r); return err }, TypeInt},
		{"uint", func(r *Registry) error { _, err := NewUint("--value").Register(r); return err }, TypeUint},
		{"float", func(r *Registry) error { _, err := NewFloat("--value").Register(r); return err }, TypeFloat},
		{"double", func(r *Registry) error { _, err := NewDouble("--value").Register(r); return err }, TypeDouble},
		{"int slice", func(r *Registry) error { _, err := NewInt("--value").RegisterSlice(r); return err }, TypeInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			require.NoError(t, tt.register(r))

			res, err := r.Parse(argv(t, "prog --value abc"), WithStartIndex(1))

			assert.Equal(t, ErrInvalidValue, KindOf(err))
			assert.Equal(t, StatusFailed, res.Status)
			pe := requireParseError(t, err)
			assert.Equal(t, "abc", pe.Token)
			assert.Equal(t, "--value", pe.Option)
			assert.Equal(t, tt.typ, pe.Type)
			assert.Equal(t, 2, pe.Index)
			assert.Equal(t, "invalid "+tt.typ.String()+" value for --value: abc", err.Error())
		})
	}
}

func TestParseAcceptsLeadingNumbers(t *testing.T) {
	r := newTestRegistry()
	n, err := NewInt("--n").Register(r)
	require.NoError(t, err)
	f, err := NewDouble("--f").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--n 42abc --f 3.5x"))
	require.NoError(t, err)
	assert.Equal(t, 42, *n)
	assert.Equal(t, 3.5, *f)

	_, err = r.Parse(argv(t, "--n abc42"))
	assert.Equal(t, ErrInvalidValue, KindOf(err))
}

func TestParseNegativeUintIsInvalid(t *testing.T) {
	r := newTestRegistry()
	_, err := NewUint("--n").Register(r)
	require.NoError(t, err)

	_, err = r.Parse([]string{"--n", "-3"})
	assert.Equal(t, ErrInvalidValue, KindOf(err))
}

func TestParseExactArityBoundary(t *testing.T) {
	newRegistry := func(t *testing.T) (*Registry, *[]string) {
		r := newTestRegistry()
		list, err := NewString("--list").SetArity(Exactly(3)).RegisterSlice(r)
		require.NoError(t, err)
		return r, list
	}

	t.Run("exact", func(t *testing.T) {
		r, list := newRegistry(t)
		res, err := r.Parse(argv(t, "prog --list a b c"), WithStartIndex(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, *list)
		assert.Empty(t, res.Extra)
	})

	t.Run("too few", func(t *testing.T) {
		r, list := newRegistry(t)
		_, err := r.Parse(argv(t, "prog --list a b"), WithStartIndex(1))
		assert.Equal(t, ErrMissingArgument, KindOf(err))
		pe := requireParseError(t, err)
		assert.Equal(t, 3, pe.Expected)
		assert.Equal(t, 2, pe.Actual)
		assert.Equal(t, 1, pe.Index)
		assert.Nil(t, *list)
	})

	t.Run("too few before another option", func(t *testing.T) {
		r, list := newRegistry(t)
		_, err := NewBool("--verbose").Register(r)
		require.NoError(t, err)

		_, err = r.Parse(argv(t, "prog --list a b --verbose"), WithStartIndex(1))
		assert.Equal(t, ErrMissingArgument, KindOf(err))
		pe := requireParseError(t, err)
		assert.Equal(t, 3, pe.Expected)
		assert.Equal(t, 2, pe.Actual)
		assert.Nil(t, *list)
	})

	t.Run("one more", func(t *testing.T) {
		r, list := newRegistry(t)
		res, err := r.Parse(argv(t, "prog --list a b c d"), WithStartIndex(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, *list)
		assert.Equal(t, []string{"d"}, res.Extra)
		assert.Equal(t, TokenExtra, res.Tokens[5].Class)
	})
}

func TestParseListStopsAtNextOption(t *testing.T) {
	r := newTestRegistry()
	list, err := NewString("--list").SetArity(OneOrMore).RegisterSlice(r)
	require.NoError(t, err)
	other, err := NewString("--other").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "prog --list a b --other x"), WithStartIndex(1))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, *list)
	assert.Equal(t, "x", *other)
	assert.Equal(t, []string{"--list", "a", "b"}, res.Bound("--list"))
	assert.Equal(t, []string{"--other", "x"}, res.Bound("--other"))
}

func TestParseListTakesUndeclaredPrefixedTokens(t *testing.T) {
	r := newTestRegistry()
	nums, err := NewInt("--nums").SetArity(OneOrMore).RegisterSlice(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--nums 1 -2 3"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, *nums)
}

func TestParseOneOrMoreNeedsAValue(t *testing.T) {
	r := newTestRegistry()
	_, err := NewString("--list").SetArity(OneOrMore).RegisterSlice(r)
	require.NoError(t, err)
	_, err = NewBool("--verbose").Register(r)
	require.NoError(t, err)

	for _, line := range []string{"--list", "--list --verbose"} {
		_, err = r.Parse(argv(t, line))
		assert.Equal(t, ErrMissingArgument, KindOf(err), line)
		pe := requireParseError(t, err)
		assert.Equal(t, 1, pe.Expected, line)
		assert.Equal(t, 0, pe.Actual, line)
	}
}

func TestParseZeroAllowedArities(t *testing.T) {
	r := newTestRegistry()
	var count int
	many, err := NewString("--many").SetArity(ZeroOrMore).SetCount(&count).RegisterSlice(r)
	require.NoError(t, err)
	maybe, err := NewInt("--maybe").SetArity(ZeroOrOne).RegisterSlice(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "--many --maybe"))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Nil(t, *many)
	assert.Nil(t, *maybe)
	assert.Equal(t, 0, count)
	assert.True(t, r.Option("--many").Parsed())

	res, err = r.Parse(argv(t, "--maybe 7 8 --many x y"))
	require.NoError(t, err)
	assert.Equal(t, []int{7}, *maybe)
	assert.Equal(t, []string{"x", "y"}, *many)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"8"}, res.Extra)
}

func TestParseDuplicateLastWins(t *testing.T) {
	r := newTestRegistry()
	alpha, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)
	beta, err := NewInt("--beta").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "prog --alpha 1 --beta 2 --alpha 3"), WithStartIndex(1))
	require.NoError(t, err)

	assert.Equal(t, 3, *alpha)
	assert.Equal(t, 2, *beta)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "--alpha", res.Warnings[0].Option)
	assert.Equal(t, 5, res.Warnings[0].Index)
	assert.Equal(t, 1, res.Warnings[0].PreviousIndex)
	assert.Equal(t, 5, r.Option("--alpha").LastIndex())
}

func TestParseDuplicateSliceIsReplaced(t *testing.T) {
	r := newTestRegistry()
	var count int
	list, err := NewString("--list").SetArity(OneOrMore).SetCount(&count).RegisterSlice(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--list a b c --list d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, *list)
	assert.Equal(t, 1, count)
}

func TestParseDuplicateUnique(t *testing.T) {
	r := newTestRegistry()
	alpha, err := NewInt("--alpha").SetUnique(true).Register(r)
	require.NoError(t, err)
	_, err = NewInt("--beta").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "prog --alpha 1 --beta 2 --alpha 3"), WithStartIndex(1))

	assert.Equal(t, ErrDuplicateOption, KindOf(err))
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 1, *alpha)
	pe := requireParseError(t, err)
	assert.Equal(t, "--alpha", pe.Option)
	assert.Equal(t, 5, pe.Index)
	assert.Equal(t, []Highlight{{Index: 1, Marker: '^'}, {Index: 5, Marker: '~'}}, pe.Highlights)
}

func TestParseDuplicateUniqueReleasesEngineString(t *testing.T) {
	r := newTestRegistry()
	s, err := NewString("--str").SetUnique(true).SetAlloc(true).Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--str abc --str def"))
	assert.Equal(t, ErrDuplicateOption, KindOf(err))
	assert.Equal(t, "", *s)
}

func TestParseDuplicateWarningOutput(t *testing.T) {
	out := captureOutput(t)
	r := NewRegistry("prog").SetFlags(FlagNoColor)
	_, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--alpha 1 --alpha 2"))
	require.NoError(t, err)

	expected := "Warning: --alpha was given more than once, using the last occurrence\n" +
		"--alpha 1 --alpha 2\n" +
		"^^^^^^^   ~~~~~~~\n"
	assert.Equal(t, expected, out.stderr.String())
}

func TestParseSuggestsCloseOption(t *testing.T) {
	r := newTestRegistry()
	_, err := NewInt("-alpha").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "prog -alph"), WithStartIndex(1))
	assert.Equal(t, ErrUnknownOption, KindOf(err))
	pe := requireParseError(t, err)
	require.Len(t, pe.Unknown, 1)
	assert.Equal(t, UnknownToken{Token: "-alph", Index: 1, Suggestion: "-alpha"}, pe.Unknown[0])
	assert.Equal(t, "unknown option: -alph (did you mean -alpha?)", err.Error())

	_, err = r.Parse(argv(t, "prog -xyz"), WithStartIndex(1))
	assert.Equal(t, ErrUnknownOption, KindOf(err))
	pe = requireParseError(t, err)
	require.Len(t, pe.Unknown, 1)
	assert.Equal(t, "", pe.Unknown[0].Suggestion)
	assert.Equal(t, "unknown option: -xyz", err.Error())
}

func TestParseIgnoreUnknown(t *testing.T) {
	r := newTestRegistry()
	_, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "--what --alpha 1 -x"), WithIgnoreUnknown(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"--what", "-x"}, res.Unknown)
	assert.Equal(t, []string{"--what", "-x"}, r.Unknown())
}

func TestParseReleasesOnFailure(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		r := newTestRegistry()
		nums, err := NewInt("--nums").SetArity(Exactly(3)).RegisterSlice(r)
		require.NoError(t, err)

		_, err = r.Parse(argv(t, "--nums 1 2"))
		assert.Equal(t, ErrMissingArgument, KindOf(err))
		assert.Nil(t, *nums)
	})

	t.Run("invalid value mid-list", func(t *testing.T) {
		r := newTestRegistry()
		var count int
		nums, err := NewInt("--nums").SetArity(OneOrMore).SetCount(&count).RegisterSlice(r)
		require.NoError(t, err)

		_, err = r.Parse(argv(t, "--nums 1 2 x 4"))
		assert.Equal(t, ErrInvalidValue, KindOf(err))
		assert.Nil(t, *nums)
		assert.Equal(t, 0, count)
	})

	t.Run("failure after a successful option", func(t *testing.T) {
		r := newTestRegistry()
		names, err := NewString("--names").SetArity(OneOrMore).RegisterSlice(r)
		require.NoError(t, err)
		buf := make([]int, 2)
		require.NoError(t, NewInt("--pair").RegisterWithBuffer(r, buf))

		_, err = r.Parse(argv(t, "--names a b --pair 1 2 --bogus"))
		assert.Equal(t, ErrUnknownOption, KindOf(err))
		assert.Nil(t, *names)
		assert.Equal(t, []int{0, 0}, buf)
	})
}

func TestParsePositionalSaturation(t *testing.T) {
	r := newTestRegistry()
	first, err := NewInt("first").SetArity(Exactly(3)).RegisterSlice(r)
	require.NoError(t, err)
	second, err := NewInt("second").SetArity(Exactly(3)).RegisterSlice(r)
	require.NoError(t, err)
	flag, err := NewBool("--flag").Register(r)
	require.NoError(t, err)
	name, err := NewString("--name").Register(r)
	require.NoError(t, err)

	lines := []string{
		"prog 1 2 3 4 5 6",
		"prog 1 2 --flag 3 4 --name x 5 6",
		"prog --name x 1 2 3 4 5 --flag 6",
		"prog --flag 1 --name x 2 3 4 5 6",
	}
	for _, line := range lines {
		res, err := r.Parse(argv(t, line), WithStartIndex(1))
		require.NoError(t, err, line)
		assert.Equal(t, []int{1, 2, 3}, *first, line)
		assert.Equal(t, []int{4, 5, 6}, *second, line)
		assert.Empty(t, res.Extra, line)
	}
	assert.True(t, *flag)
	assert.Equal(t, "x", *name)
}

func TestParsePositionalIncomplete(t *testing.T) {
	r := newTestRegistry()
	_, err := NewInt("first").SetArity(Exactly(3)).RegisterSlice(r)
	require.NoError(t, err)
	_, err = NewBool("--flag").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "1 2"))
	assert.Equal(t, ErrMissingArgument, KindOf(err))

	_, err = r.Parse(argv(t, "1 2 --flag"))
	assert.Equal(t, ErrMissingArgument, KindOf(err))
	pe := requireParseError(t, err)
	assert.Equal(t, 3, pe.Expected)
	assert.Equal(t, 2, pe.Actual)
}

func TestParseVariadicPositionalResumes(t *testing.T) {
	r := newTestRegistry()
	files, err := NewString("files").SetArity(ZeroOrMore).RegisterSlice(r)
	require.NoError(t, err)
	alpha, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)
	_, err = NewBool("--beta").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "a b --alpha 3 c d --beta e"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, *files)
	assert.Equal(t, 3, *alpha)
}

func TestParseMissingRequired(t *testing.T) {
	r := newTestRegistry()
	_, err := NewInt("--port").SetRequired(true).Register(r)
	require.NoError(t, err)
	_, err = NewString("file").Register(r)
	require.NoError(t, err)
	_, err = NewString("rest").SetArity(ZeroOrMore).RegisterSlice(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "prog"), WithStartIndex(1))

	assert.Equal(t, ErrMissingRequired, KindOf(err))
	pe := requireParseError(t, err)
	assert.Equal(t, []string{"--port", "file"}, pe.Missing)
	assert.Equal(t, "Missing required arguments: [--port, file]", err.Error())
}

func TestParseExtraTokens(t *testing.T) {
	r := newTestRegistry()
	file, err := NewString("file").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "prog in.txt out.txt more"), WithStartIndex(1))
	require.NoError(t, err)

	assert.Equal(t, "in.txt", *file)
	assert.Equal(t, []string{"out.txt", "more"}, res.Extra)
	assert.Equal(t, []string{"out.txt", "more"}, r.Extra())
}

func TestParseHelpShortCircuits(t *testing.T) {
	r := newTestRegistry()
	_, err := NewString("file").Register(r)
	require.NoError(t, err)

	for _, line := range []string{"prog --help", "prog -h", "prog -h --unknown"} {
		res, err := r.Parse(argv(t, line), WithStartIndex(1))
		require.NoError(t, err, line)
		assert.Equal(t, StatusHelpRequested, res.Status, line)
		assert.True(t, r.HelpRequested(), line)
	}

	err = r.ParseOrError(argv(t, "prog --help"), WithStartIndex(1))
	assert.True(t, errors.Is(err, HelpInvokedErr))
}

func TestParseHelpKeepsUserShortName(t *testing.T) {
	r := newTestRegistry()
	host, err := NewString("-h").Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "-h localhost"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", *host)
	assert.Equal(t, []string{"--help"}, r.Option("--help").Names())
}

func TestParseWithoutAutoHelp(t *testing.T) {
	r := newTestRegistry().SetAutoHelp(false)

	_, err := r.Parse(argv(t, "--help"))
	assert.Equal(t, ErrUnknownOption, KindOf(err))
	assert.Nil(t, r.Option("--help"))
}

func TestParseIsIdempotent(t *testing.T) {
	type bound struct {
		list    *[]string
		name    *string
		verbose *bool
		n       *int
	}
	build := func(t *testing.T) (*Registry, bound) {
		r := newTestRegistry()
		var b bound
		var err error
		b.list, err = NewString("--list").SetArity(OneOrMore).RegisterSlice(r)
		require.NoError(t, err)
		b.name, err = NewString("--name").SetAlloc(true).Register(r)
		require.NoError(t, err)
		b.verbose, err = NewBool("--verbose").Register(r)
		require.NoError(t, err)
		b.n, err = NewInt("--n").Register(r)
		require.NoError(t, err)
		return r, b
	}
	b := argv(t, "prog --list c extra")

	reused, reusedVals := build(t)
	_, err := reused.Parse(argv(t, "prog --list a b --verbose --n 5 --name n -zz x"), WithStartIndex(1), WithIgnoreUnknown(true))
	require.NoError(t, err)
	require.True(t, *reusedVals.verbose)
	require.Equal(t, 5, *reusedVals.n)
	got, err := reused.Parse(b, WithStartIndex(1), WithIgnoreUnknown(true))
	require.NoError(t, err)

	fresh, freshVals := build(t)
	want, err := fresh.Parse(b, WithStartIndex(1), WithIgnoreUnknown(true))
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-fresh +reused):\n%s", diff)
	}
	assert.Equal(t, *freshVals.list, *reusedVals.list)
	assert.Equal(t, *freshVals.name, *reusedVals.name)
	assert.Equal(t, *freshVals.verbose, *reusedVals.verbose)
	assert.Equal(t, *freshVals.n, *reusedVals.n)
	for _, opt := range fresh.Options() {
		reusedOpt := reused.Option(opt.Name())
		assert.Equal(t, opt.Count(), reusedOpt.Count(), opt.Name())
		assert.Equal(t, opt.Parsed(), reusedOpt.Parsed(), opt.Name())
	}
}

func TestParseRestoresCallerScalars(t *testing.T) {
	r := newTestRegistry()
	verbose := false
	level := 7
	require.NoError(t, NewBool("--verbose").RegisterWithPtr(r, &verbose))
	require.NoError(t, NewInt("--level").RegisterWithPtr(r, &level))

	_, err := r.Parse(argv(t, "--verbose --level 2"))
	require.NoError(t, err)
	assert.True(t, verbose)
	assert.Equal(t, 2, level)

	_, err = r.Parse(nil)
	require.NoError(t, err)
	assert.False(t, verbose)
	assert.Equal(t, 7, level)
}

func TestParseFailureKeepsCallerScalarUntilNextParse(t *testing.T) {
	r := newTestRegistry()
	alpha, err := NewInt("--alpha").SetUnique(true).Register(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--alpha 1 --alpha 3"))
	require.Equal(t, ErrDuplicateOption, KindOf(err))
	assert.Equal(t, 1, *alpha)

	_, err = r.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, *alpha)
}

func TestParseDefaultsReapplied(t *testing.T) {
	r := newTestRegistry()
	port, err := NewInt("--port").SetDefault(8080).Register(r)
	require.NoError(t, err)
	assert.Equal(t, 8080, *port)

	_, err = r.Parse(argv(t, "--port 9000"))
	require.NoError(t, err)
	assert.Equal(t, 9000, *port)

	_, err = r.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, *port)
}

func TestParseTokenPartition(t *testing.T) {
	r := newTestRegistry()
	_, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)
	_, err = NewString("file").Register(r)
	require.NoError(t, err)

	args := argv(t, "prog in --alpha 3 out -zz")
	res, err := r.Parse(args, WithStartIndex(1), WithIgnoreUnknown(true))
	require.NoError(t, err)

	classes := make([]TokenClass, len(res.Tokens))
	for i, tok := range res.Tokens {
		classes[i] = tok.Class
	}
	assert.Equal(t, []TokenClass{TokenSkipped, TokenValue, TokenOption, TokenValue, TokenExtra, TokenUnknown}, classes)
	assert.Equal(t, "file", res.Tokens[1].Option)
	assert.Equal(t, "--alpha", res.Tokens[3].Option)
}

func TestParseFixedBuffer(t *testing.T) {
	r := newTestRegistry()
	var count int
	buf := make([]int, 2)
	require.NoError(t, NewInt("--two").SetArity(OneOrMore).SetCount(&count).RegisterWithBuffer(r, buf))

	res, err := r.Parse(argv(t, "--two 1 2 3"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, buf)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"3"}, res.Extra)
}

func TestParseStringMaxLength(t *testing.T) {
	r := newTestRegistry()
	s, err := NewString("--short").SetMaxLength(4).Register(r)
	require.NoError(t, err)
	list, err := NewString("--list").SetMaxLength(2).SetArity(OneOrMore).RegisterSlice(r)
	require.NoError(t, err)

	_, err = r.Parse(argv(t, "--short abcdef --list xyz w"))
	require.NoError(t, err)
	assert.Equal(t, "abcd", *s)
	assert.Equal(t, []string{"xy", "w"}, *list)
}

func TestParseMaxCount(t *testing.T) {
	r := newTestRegistry()
	list, err := NewString("--list").SetArity(OneOrMore).SetMaxCount(2).RegisterSlice(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "--list a b c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, *list)
	assert.Equal(t, 2, cap(*list))
	assert.Equal(t, []string{"c"}, res.Extra)
}

func TestParseStartIndexOutOfRange(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Parse([]string{"prog"}, WithStartIndex(2))
	var pg *ProgrammingError
	assert.ErrorAs(t, err, &pg)
	assert.Equal(t, ErrConfiguration, KindOf(err))
}

func TestParseCustomPrefix(t *testing.T) {
	r := newTestRegistry().SetPrefix("/")
	verbose, err := NewBool("/v").Register(r)
	require.NoError(t, err)
	file, err := NewString("file").Register(r)
	require.NoError(t, err)

	res, err := r.Parse(argv(t, "/v -notaflag"))
	require.NoError(t, err)
	assert.True(t, *verbose)
	assert.Equal(t, "-notaflag", *file)
	assert.NotNil(t, r.Option("//help"))
	assert.Equal(t, StatusOK, res.Status)
}

func TestWriteValueTooManyValues(t *testing.T) {
	r := newTestRegistry()
	opt, err := r.Register(OptionSpec{Names: []string{"--pair"}, Arity: Exactly(2), Target: new([]int)})
	require.NoError(t, err)

	require.NoError(t, opt.writeValue("1", 1, 3))
	require.NoError(t, opt.writeValue("2", 2, 2))
	err = opt.writeValue("3", 3, 1)

	assert.Equal(t, ErrTooManyValues, KindOf(err))
	assert.Equal(t, 2, opt.Count())
}

func TestParseOrExitError(t *testing.T) {
	out := captureOutput(t)
	r := NewRegistry("prog").SetFlags(FlagNoColor)
	_, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)

	r.ParseOrExit(argv(t, "prog --alpha x"), WithStartIndex(1))

	assert.True(t, out.exitCalled)
	assert.Equal(t, 1, out.exitCode)
	assert.Contains(t, out.stderr.String(), "invalid int value for --alpha: x\n--alpha x\n        ^\n")
	assert.Contains(t, out.stderr.String(), "Usage:")
}

func TestParseOrExitHelp(t *testing.T) {
	out := captureOutput(t)
	r := newTestRegistry()

	r.ParseOrExit(argv(t, "prog --help"), WithStartIndex(1))

	assert.True(t, out.exitCalled)
	assert.Equal(t, 0, out.exitCode)
	assert.Contains(t, out.stdout.String(), "Usage:")
	assert.Empty(t, out.stderr.String())
}

func TestParseOrExitProgrammingError(t *testing.T) {
	out := captureOutput(t)
	r := NewRegistry("prog").SetFlags(FlagNoColor)

	r.ParseOrExit([]string{"prog"}, WithStartIndex(5))

	assert.True(t, out.exitCalled)
	assert.Equal(t, 1, out.exitCode)
	assert.Equal(t, "start index 5 out of range for 1 arguments\n", out.stderr.String())
}

func TestParseOrExitQuiet(t *testing.T) {
	out := captureOutput(t)
	r := newTestRegistry()
	_, err := NewInt("--alpha").Register(r)
	require.NoError(t, err)

	r.ParseOrExit(argv(t, "--alpha x"))

	assert.True(t, out.exitCalled)
	assert.Equal(t, 1, out.exitCode)
	assert.Empty(t, out.stderr.String())
}
