package nargs

// maxNames is the most names (primary plus aliases) one option may carry.
const maxNames = 4

// OptionSpec declares one option. Target is a *T for a single value, a []T
// caller-owned buffer, or a *[]T the engine allocates into, where T is one of
// bool, int, uint, float32, float64 or string.
type OptionSpec struct {
	Names     []string
	Usage     string
	Metavar   string
	Type      ValueType // optional, must agree with Target when set
	Arity     Arity     // ignored for single values
	MaxCount  int       // cap for variable arities, 0 for none
	MaxLength int       // strings only, 0 keeps the whole token
	Flags     OptionFlag
	Target    any
	Count     *int // mirrors the number of values written
	Alloc     bool // engine-allocated single value, strings only

	applyDefault func()
	defaultText  string
}

// Option is a registered option and its runtime parse state.
type Option struct {
	names      []string
	usage      string
	metavar    string
	valueType  ValueType
	arity      Arity
	maxCount   int
	maxLength  int
	flags      OptionFlag
	positional bool
	target     target
	countOut   *int

	applyDefault func()
	defaultText  string

	// state post-parse
	consumed  int
	lastIndex int
	parsed    bool
}

// Name is the canonical (first) name.
func (o *Option) Name() string {
	return o.names[0]
}

func (o *Option) Names() []string {
	return append([]string(nil), o.names...)
}

func (o *Option) Usage() string        { return o.usage }
func (o *Option) Metavar() string      { return o.metavar }
func (o *Option) Type() ValueType      { return o.valueType }
func (o *Option) Arity() Arity         { return o.arity }
func (o *Option) MaxLength() int       { return o.maxLength }
func (o *Option) IsPositional() bool   { return o.positional }
func (o *Option) IsArray() bool        { return o.target.isArray() }
func (o *Option) Ownership() Ownership { return o.target.ownership() }
func (o *Option) Required() bool       { return o.flags&Required != 0 }
func (o *Option) Unique() bool         { return o.flags&Unique != 0 }
func (o *Option) Count() int           { return o.consumed }
func (o *Option) Parsed() bool         { return o.parsed }
func (o *Option) Value() any           { return o.target.value() }

// LastIndex is the argv index where the option last matched, -1 if it did not.
func (o *Option) LastIndex() int {
	return o.lastIndex
}

// isFlag reports whether the option is a bare switch that consumes no token.
func (o *Option) isFlag() bool {
	return o.valueType == TypeBool && !o.target.isArray()
}

func (o *Option) zeroAllowed() bool {
	return o.valueType == TypeBool || o.arity.allowsZero()
}

// bound is the most values the option accepts, -1 when unbounded.
func (o *Option) bound() int {
	b := o.arity.bound()
	if c := o.target.capacity(); c >= 0 && (b < 0 || c < b) {
		b = c
	}
	if o.maxCount > 0 && (b < 0 || o.maxCount < b) {
		b = o.maxCount
	}
	return b
}

// room is how many more values fit, -1 when unbounded.
func (o *Option) room() int {
	b := o.bound()
	if b < 0 {
		return -1
	}
	return b - o.consumed
}

// want is how many tokens to look for given avail remaining in argv.
func (o *Option) want(avail int) int {
	switch o.arity {
	case OneOrMore, ZeroOrMore:
		n := avail
		if room := o.room(); room >= 0 && n > room {
			n = room
		}
		if o.arity == OneOrMore && n == 0 && o.consumed == 0 {
			n = 1
		}
		return n
	}
	return o.room()
}

// capacityHint is what a growable target reserves on its first write.
func (o *Option) capacityHint(remaining int) int {
	if !o.arity.IsVariable() {
		return int(o.arity)
	}
	if b := o.bound(); b >= 0 && b < remaining {
		return b
	}
	return remaining
}

// writeValue converts token (found at argv index) and stores it.
func (o *Option) writeValue(token string, index int, remaining int) error {
	if b := o.bound(); b >= 0 && o.consumed >= b {
		return newTooManyValues(o, index, b)
	}
	if err := o.target.write(o.consumed, token, o.maxLength, o.capacityHint(remaining)); err != nil {
		return newInvalidValue(o, index, token)
	}
	o.consumed++
	o.syncCount()
	return nil
}

func (o *Option) setFlag() {
	o.target.setTrue()
	o.consumed = 1
	o.syncCount()
}

func (o *Option) syncCount() {
	if o.countOut != nil {
		*o.countOut = o.consumed
	}
}

// Release drops every value written to the option. Engine-allocated storage
// goes back to empty and the used part of a caller buffer is zeroed. It is
// safe to call any number of times.
func (o *Option) Release() {
	o.target.release(o.consumed)
	o.consumed = 0
	o.syncCount()
}

// reset returns the option to its registered state at the start of a parse.
// Scalars the previous parse wrote get their earlier value back before the
// default is applied again.
func (o *Option) reset() {
	o.Release()
	o.target.rewind()
	o.parsed = false
	o.lastIndex = -1
	if o.applyDefault != nil {
		o.applyDefault()
	}
}

// bindTarget wraps spec.Target in the matching storage.
func bindTarget(spec *OptionSpec) (target, error) {
	switch t := spec.Target.(type) {
	case nil:
		return nil, nullTarget(spec)
	case *bool:
		return scalar(t, spec)
	case *int:
		return scalar(t, spec)
	case *uint:
		return scalar(t, spec)
	case *float32:
		return scalar(t, spec)
	case *float64:
		return scalar(t, spec)
	case *string:
		return scalar(t, spec)
	case []bool:
		return fixed(t, spec)
	case []int:
		return fixed(t, spec)
	case []uint:
		return fixed(t, spec)
	case []float32:
		return fixed(t, spec)
	case []float64:
		return fixed(t, spec)
	case []string:
		return fixed(t, spec)
	case *[]bool:
		return growable(t, spec)
	case *[]int:
		return growable(t, spec)
	case *[]uint:
		return growable(t, spec)
	case *[]float32:
		return growable(t, spec)
	case *[]float64:
		return growable(t, spec)
	case *[]string:
		return growable(t, spec)
	}
	return nil, NewProgrammingError(ErrConfiguration, firstName(spec),
		"unsupported target type %T for option %q", spec.Target, firstName(spec))
}

func scalar[T Value](p *T, spec *OptionSpec) (target, error) {
	if p == nil {
		return nil, nullTarget(spec)
	}
	owner := CallerOwned
	if spec.Alloc {
		if valueTypeOf[T]() != TypeString {
			return nil, NewProgrammingError(ErrInvalidAllocation, firstName(spec),
				"option %q: a single %s value is always caller-owned", firstName(spec), valueTypeOf[T]())
		}
		owner = EngineAllocated
	}
	return &scalarTarget[T]{ptr: p, owner: owner}, nil
}

func fixed[T Value](buf []T, spec *OptionSpec) (target, error) {
	if len(buf) == 0 {
		return nil, nullTarget(spec)
	}
	return &fixedTarget[T]{buf: buf}, nil
}

func growable[T Value](p *[]T, spec *OptionSpec) (target, error) {
	if p == nil {
		return nil, nullTarget(spec)
	}
	if valueTypeOf[T]() != TypeString && spec.Arity == 1 {
		return nil, NewProgrammingError(ErrInvalidAllocation, firstName(spec),
			"option %q: a single %s value cannot be engine-allocated", firstName(spec), valueTypeOf[T]())
	}
	return &growableTarget[T]{ptr: p}, nil
}

func nullTarget(spec *OptionSpec) error {
	return NewProgrammingError(ErrNullTarget, firstName(spec), "option %q has no target", firstName(spec))
}

func firstName(spec *OptionSpec) string {
	if len(spec.Names) == 0 {
		return ""
	}
	return spec.Names[0]
}
