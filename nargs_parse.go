package nargs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/amterp/color"
)

// scanner is the cursor of one parse call.
type scanner struct {
	args []string
	i    int
}

func (sc *scanner) remaining(from int) int {
	return len(sc.args) - from
}

// Parse matches args against the registry. The result is returned even when
// parsing fails, so callers can inspect unknown and extra tokens.
func (r *Registry) Parse(args []string, opts ...ParseOpt) (*Result, error) {
	res, err := r.parse(args, newParseCfg(opts))
	r.last = res
	return res, err
}

func (r *Registry) ParseOrExit(args []string, opts ...ParseOpt) *Result {
	res, err := r.Parse(args, opts...)
	if err != nil {
		var progErr *ProgrammingError
		var parseErr *ParseError
		switch {
		case errors.Is(err, DumpInvokedErr):
			fmt.Fprint(stdoutWriter, r.GenerateDump(args, opts...))
			osExit(0)
		case r.flags&FlagNoErrOutput != 0:
			osExit(1)
		case errors.As(err, &progErr):
			// Programming error - show only error message (no usage)
			fmt.Fprintln(stderrWriter, err.Error())
			osExit(1)
		default:
			fmt.Fprintln(stderrWriter, err.Error())
			if errors.As(err, &parseErr) && len(parseErr.Highlights) > 0 {
				fmt.Fprint(stderrWriter, r.FormatArgs(args, res.Start, parseErr.Highlights...))
			}
			fmt.Fprintln(stderrWriter)
			fmt.Fprint(stderrWriter, r.GenerateUsage())
			osExit(1)
		}
		return res
	}
	if res.Status == StatusHelpRequested {
		fmt.Fprint(stdoutWriter, r.GenerateUsage())
		osExit(0)
	}
	return res
}

// ParseOrError is Parse for callers that only care about the error. A help
// request comes back as HelpInvokedErr.
func (r *Registry) ParseOrError(args []string, opts ...ParseOpt) error {
	res, err := r.Parse(args, opts...)
	if err != nil {
		return err
	}
	if res.Status == StatusHelpRequested {
		return HelpInvokedErr
	}
	return nil
}

func (r *Registry) parse(args []string, cfg *parseCfg) (*Result, error) {
	initializeColorFromEnv()

	if cfg.startIndex < 0 || cfg.startIndex > len(args) {
		return newResult(args, 0), NewProgrammingError(ErrConfiguration, "",
			"start index %d out of range for %d arguments", cfg.startIndex, len(args))
	}
	res := newResult(args, cfg.startIndex)

	if err := r.ensureHelp(); err != nil {
		return res, err
	}

	// reset state in case this is called multiple times
	for _, opt := range r.options {
		opt.reset()
	}

	if cfg.dump {
		return res, DumpInvokedErr
	}

	r.logger.Debug("parsing", "registry", r.name, "args", len(args), "start", cfg.startIndex)

	sc := &scanner{args: args, i: cfg.startIndex}
	for sc.i < len(args) {
		arg := args[sc.i]

		if opt := r.lookup(arg); opt != nil {
			if err := r.consumeNamed(sc, opt, res); err != nil {
				return r.fail(res, err)
			}
			continue
		}

		if r.hasPrefix(arg) {
			res.classify(sc.i, TokenUnknown, "")
			sc.i++
			continue
		}

		if opt := r.nextPositional(); opt != nil {
			if err := r.consume(sc, opt, sc.i, res); err != nil {
				return r.fail(res, err)
			}
			continue
		}

		res.classify(sc.i, TokenExtra, "")
		sc.i++
	}

	if r.HelpRequested() {
		res.Status = StatusHelpRequested
		return res, nil
	}

	if err := r.validateRequired(); err != nil {
		return r.fail(res, err)
	}

	if unknown := res.unknownTokens(); len(unknown) > 0 && !cfg.ignoreUnknown {
		tokens := make([]UnknownToken, 0, len(unknown))
		for _, tok := range unknown {
			suggestion, _ := r.Suggest(tok.Value)
			tokens = append(tokens, UnknownToken{Token: tok.Value, Index: tok.Index, Suggestion: suggestion})
		}
		return r.fail(res, newUnknownOption(tokens))
	}

	res.Status = StatusOK
	return res, nil
}

// fail releases every option so no partial state survives the error.
func (r *Registry) fail(res *Result, err error) (*Result, error) {
	r.ReleaseAll()
	res.Status = StatusFailed
	r.logger.Debug("parse failed", "registry", r.name, "code", string(KindOf(err)), "error", err.Error())
	return res, err
}

// nextPositional is the first positional option, in registration order,
// that still has room for values.
func (r *Registry) nextPositional() *Option {
	for _, opt := range r.options {
		if !opt.positional {
			continue
		}
		if room := opt.room(); room < 0 || room > 0 {
			return opt
		}
	}
	return nil
}

func (r *Registry) consumeNamed(sc *scanner, opt *Option, res *Result) error {
	if opt.parsed {
		if opt.Unique() {
			return newDuplicateOption(opt, sc.i)
		}
		r.warnDuplicate(sc, opt, res)
		opt.Release()
		opt.parsed = false
	}
	res.classify(sc.i, TokenOption, opt.Name())
	return r.consume(sc, opt, sc.i+1, res)
}

// consume binds tokens from start on to opt and moves the cursor past
// everything it ate: the values, plus the option's own token when named.
func (r *Registry) consume(sc *scanner, opt *Option, start int, res *Result) error {
	matchedAt := sc.i
	named := start != sc.i

	if opt.isFlag() {
		opt.setFlag()
		opt.parsed = true
		opt.lastIndex = matchedAt
		sc.i = start
		r.logger.Debug("matched flag", "option", opt.Name(), "index", matchedAt)
		return nil
	}

	avail := sc.remaining(start)
	want := opt.want(avail)
	if want > avail {
		if !opt.zeroAllowed() {
			return newMissingArgument(opt, matchedAt, want, avail)
		}
		want = avail
	}

	j := start
	for ; j < start+want; j++ {
		// Option boundary.
		if r.lookup(sc.args[j]) != nil {
			break
		}
		if err := opt.writeValue(sc.args[j], j, sc.remaining(j)); err != nil {
			return err
		}
		res.classify(j, TokenValue, opt.Name())
	}
	got := j - start

	if named && !opt.zeroAllowed() {
		need := want
		if opt.arity == OneOrMore {
			need = 1
		}
		if got < need {
			return newMissingArgument(opt, matchedAt, need, got)
		}
	}

	opt.parsed = true
	opt.lastIndex = matchedAt
	sc.i = j
	r.logger.Debug("consumed values", "option", opt.Name(), "index", matchedAt, "values", got, "total", opt.consumed)
	return nil
}

func (r *Registry) warnDuplicate(sc *scanner, opt *Option, res *Result) {
	msg := fmt.Sprintf("%s was given more than once, using the last occurrence", opt.Name())
	res.Warnings = append(res.Warnings, Warning{
		Option:        opt.Name(),
		Index:         sc.i,
		PreviousIndex: opt.lastIndex,
		Message:       msg,
	})
	r.logger.Debug("duplicate option", "option", opt.Name(), "index", sc.i, "previous", opt.lastIndex)
	if r.flags&FlagNoErrOutput != 0 {
		return
	}
	fmt.Fprintf(stderrWriter, "Warning: %s\n", msg)
	fmt.Fprint(stderrWriter, r.FormatArgs(sc.args, res.Start,
		Highlight{Index: opt.lastIndex, Marker: '^'},
		Highlight{Index: sc.i, Marker: '~'}))
}

func (r *Registry) validateRequired() error {
	var missing []string
	for _, opt := range r.options {
		if opt.Required() && !opt.parsed {
			missing = append(missing, opt.Name())
		}
	}
	if len(missing) > 0 {
		return newMissingRequired(missing)
	}

	// A positional can stop at an option boundary and resume later; it has
	// to be full by the end.
	for _, opt := range r.options {
		if opt.positional && !opt.arity.IsVariable() && opt.consumed < int(opt.arity) {
			return newMissingArgument(opt, opt.lastIndex, int(opt.arity), opt.consumed)
		}
	}
	return nil
}

func initializeColorFromEnv() {
	colorValue := strings.ToLower(strings.TrimSpace(os.Getenv("NARGS_COLOR")))
	switch colorValue {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	case "", "auto":
		// let amterp/color decide based on tty
	default:
		// invalid value - treat as auto
	}
}
