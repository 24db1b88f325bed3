package nargs

import (
	"io"
	"log/slog"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map"
)

const (
	defaultPrefix   = "-"
	defaultMaxWidth = 80
	maxMaxWidth     = 1024
	autoWidth       = 0
)

// Registry is an ordered set of options plus the parse configuration.
type Registry struct {
	name        string
	description string
	epilog      string
	prefix      string
	flags       Flags
	autoHelp    bool
	maxWidth    int // autoWidth asks the terminal
	usageFormat UsageFormat
	logger      *slog.Logger

	options []*Option              // registration order
	names   *orderedmap.OrderedMap // name -> *Option, every alias included

	helpOpt   *Option
	helpValue bool

	// state post-parse
	last *Result
}

func NewRegistry(name string) *Registry {
	return &Registry{
		name:     name,
		prefix:   defaultPrefix,
		autoHelp: true,
		maxWidth: autoWidth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		names:    orderedmap.New(),
	}
}

func (r *Registry) Name() string {
	return r.name
}

func (r *Registry) SetDescription(desc string) *Registry {
	r.description = desc
	return r
}

func (r *Registry) SetEpilog(epilog string) *Registry {
	r.epilog = epilog
	return r
}

// SetPrefix sets the characters that mark a named option. Set it before
// registering options, since positional-ness is decided at registration.
func (r *Registry) SetPrefix(chars string) *Registry {
	if chars == "" {
		chars = defaultPrefix
	}
	r.prefix = chars
	return r
}

func (r *Registry) Prefix() string {
	return r.prefix
}

// SetAutoHelp toggles the automatic help option (on by default).
func (r *Registry) SetAutoHelp(enable bool) *Registry {
	r.autoHelp = enable
	return r
}

func (r *Registry) SetFlags(flags Flags) *Registry {
	r.flags = flags
	return r
}

func (r *Registry) Flags() Flags {
	return r.flags
}

// SetMaxWidth caps the usage width. 0 means the terminal width, or 80 when
// there is no terminal. Widths above 1024 are clamped.
func (r *Registry) SetMaxWidth(width int) *Registry {
	r.maxWidth = min(max(width, autoWidth), maxMaxWidth)
	return r
}

func (r *Registry) SetLogger(logger *slog.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register adds an option described by spec.
func (r *Registry) Register(spec OptionSpec) (*Option, error) {
	if len(spec.Names) == 0 {
		return nil, NewProgrammingError(ErrEmptyName, "", "option must have at least one name")
	}
	for _, name := range spec.Names {
		if name == "" {
			return nil, NewProgrammingError(ErrEmptyName, firstName(&spec), "option name cannot be empty")
		}
	}
	if len(spec.Names) > maxNames {
		return nil, NewProgrammingError(ErrConfiguration, firstName(&spec),
			"option %q has %d names, at most %d allowed", spec.Names[0], len(spec.Names), maxNames)
	}
	if err := r.checkNamesFree(spec.Names); err != nil {
		return nil, err
	}
	if !spec.Arity.valid() {
		return nil, NewProgrammingError(ErrInvalidArity, spec.Names[0],
			"option %q has invalid arity %d", spec.Names[0], int(spec.Arity))
	}

	tgt, err := bindTarget(&spec)
	if err != nil {
		return nil, err
	}

	opt := &Option{
		names:        append([]string(nil), spec.Names...),
		usage:        spec.Usage,
		metavar:      spec.Metavar,
		valueType:    tgt.valueType(),
		arity:        spec.Arity,
		maxCount:     spec.MaxCount,
		maxLength:    spec.MaxLength,
		flags:        spec.Flags,
		positional:   !r.hasPrefix(spec.Names[0]),
		target:       tgt,
		countOut:     spec.Count,
		applyDefault: spec.applyDefault,
		defaultText:  spec.defaultText,
		lastIndex:    -1,
	}
	if err := r.validateShape(opt, &spec); err != nil {
		return nil, err
	}

	if opt.positional && !opt.arity.allowsZero() {
		opt.flags |= Required
	}

	// Engine-allocated storage starts out empty.
	if tgt.ownership() == EngineAllocated {
		tgt.release(0)
	}
	opt.syncCount()
	if opt.applyDefault != nil {
		opt.applyDefault()
	}

	r.options = append(r.options, opt)
	for _, name := range opt.names {
		r.names.Set(name, opt)
	}
	r.logger.Debug("registered option",
		"option", opt.Name(), "type", opt.valueType.String(), "arity", opt.arity.String(),
		"positional", opt.positional, "ownership", opt.Ownership().String())
	return opt, nil
}

func (r *Registry) validateShape(opt *Option, spec *OptionSpec) error {
	name := opt.Name()
	if spec.Type != typeUnset && spec.Type != opt.valueType {
		return NewProgrammingError(ErrConfiguration, name,
			"option %q declared as %s but its target holds %s", name, spec.Type, opt.valueType)
	}
	if opt.maxLength < 0 || opt.maxCount < 0 {
		return NewProgrammingError(ErrConfiguration, name, "option %q has a negative limit", name)
	}
	if opt.maxLength > 0 && opt.valueType != TypeString {
		return NewProgrammingError(ErrConfiguration, name,
			"option %q: a maximum length only applies to strings", name)
	}

	if !opt.target.isArray() {
		if opt.arity != 0 && opt.arity != 1 {
			return NewProgrammingError(ErrConfiguration, name,
				"option %q stores a single value but has arity %s; use a slice target", name, opt.arity)
		}
		if opt.valueType == TypeBool {
			opt.arity = Exactly(0)
		} else {
			opt.arity = Exactly(1)
		}
	} else {
		if opt.arity == 0 {
			return NewProgrammingError(ErrConfiguration, name, "array option %q needs a non-zero arity", name)
		}
		if c := opt.target.capacity(); c >= 0 && !opt.arity.IsVariable() && int(opt.arity) > c {
			return NewProgrammingError(ErrConfiguration, name,
				"option %q expects %d values but its buffer holds %d", name, int(opt.arity), c)
		}
	}

	if opt.positional && opt.isFlag() {
		return NewProgrammingError(ErrConfiguration, name,
			"positional option %q must consume at least one value", name)
	}
	return nil
}

// AddAlias gives an existing option more names.
func (r *Registry) AddAlias(name string, aliases ...string) error {
	opt := r.lookupName(name)
	if opt == nil {
		return NewProgrammingError(ErrConfiguration, name, "cannot alias unknown option %q", name)
	}
	for _, alias := range aliases {
		if alias == "" {
			return NewProgrammingError(ErrEmptyName, name, "alias for %q cannot be empty", name)
		}
	}
	if len(opt.names)+len(aliases) > maxNames {
		return NewProgrammingError(ErrConfiguration, name,
			"option %q can have at most %d names", name, maxNames)
	}
	if err := r.checkNamesFree(aliases); err != nil {
		return err
	}
	for _, alias := range aliases {
		opt.names = append(opt.names, alias)
		r.names.Set(alias, opt)
	}
	return nil
}

func (r *Registry) checkNamesFree(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, exists := r.names.Get(name); exists || seen[name] {
			return NewProgrammingError(ErrDuplicateName, name, "option %q already defined", name)
		}
		seen[name] = true
	}
	return nil
}

// Option returns the option registered under name (any alias), or nil.
func (r *Registry) Option(name string) *Option {
	return r.lookupName(name)
}

// Options returns every option in registration order.
func (r *Registry) Options() []*Option {
	return append([]*Option(nil), r.options...)
}

func (r *Registry) lookupName(name string) *Option {
	v, ok := r.names.Get(name)
	if !ok {
		return nil
	}
	return v.(*Option)
}

// lookup matches an argv token against the declared named options.
func (r *Registry) lookup(token string) *Option {
	if !r.hasPrefix(token) {
		return nil
	}
	opt := r.lookupName(token)
	if opt == nil || opt.positional {
		return nil
	}
	return opt
}

func (r *Registry) hasPrefix(s string) bool {
	return s != "" && strings.IndexByte(r.prefix, s[0]) >= 0
}

// ensureHelp registers the automatic help option once. The long name is the
// prefix character doubled plus "help"; the short alias is added when free.
func (r *Registry) ensureHelp() error {
	if !r.autoHelp || r.helpOpt != nil {
		return nil
	}
	p := r.prefix[:1]
	long := p + p + "help"
	if r.lookupName(long) != nil {
		return nil
	}
	names := []string{long}
	if short := p + "h"; r.lookupName(short) == nil {
		names = append(names, short)
	}
	opt, err := r.Register(OptionSpec{
		Names:  names,
		Usage:  "Print usage string.",
		Target: &r.helpValue,
	})
	if err != nil {
		return err
	}
	r.helpOpt = opt
	return nil
}

// ensureHelpLogged is ensureHelp for renderers that cannot return an error.
func (r *Registry) ensureHelpLogged() {
	if err := r.ensureHelp(); err != nil {
		r.logger.Warn("help option not registered", "registry", r.name, "error", err)
	}
}

// HelpRequested reports whether the last parse matched the help option.
func (r *Registry) HelpRequested() bool {
	return r.helpOpt != nil && r.helpOpt.parsed
}

// Unknown returns the unknown tokens of the last parse.
func (r *Registry) Unknown() []string {
	if r.last == nil {
		return nil
	}
	return r.last.Unknown
}

// Extra returns the leftover positional tokens of the last parse.
func (r *Registry) Extra() []string {
	if r.last == nil {
		return nil
	}
	return r.last.Extra
}

// ReleaseAll releases the storage of every option.
func (r *Registry) ReleaseAll() {
	for _, opt := range r.options {
		opt.Release()
	}
}

// Close releases engine-allocated storage when FlagAutoClean is set and
// drops the options. The registry must not be used afterwards.
func (r *Registry) Close() error {
	if r.flags&FlagAutoClean != 0 {
		for _, opt := range r.options {
			if opt.Ownership() == EngineAllocated {
				opt.Release()
			}
		}
	}
	r.logger.Debug("closed registry", "name", r.name, "autoclean", r.flags&FlagAutoClean != 0)
	r.options = nil
	r.names = orderedmap.New()
	r.helpOpt = nil
	r.last = nil
	return nil
}
