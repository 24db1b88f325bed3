package nargs

import "fmt"

// Builder declares one option fluently and registers it with a target.
type Builder[T Value] struct {
	names     []string
	usage     string
	metavar   string
	arity     *Arity
	maxCount  int
	maxLength int
	flags     OptionFlag
	count     *int
	alloc     bool
	def       *T
}

func NewBool(names ...string) *Builder[bool]      { return &Builder[bool]{names: names} }
func NewInt(names ...string) *Builder[int]        { return &Builder[int]{names: names} }
func NewUint(names ...string) *Builder[uint]      { return &Builder[uint]{names: names} }
func NewFloat(names ...string) *Builder[float32]  { return &Builder[float32]{names: names} }
func NewDouble(names ...string) *Builder[float64] { return &Builder[float64]{names: names} }
func NewString(names ...string) *Builder[string]  { return &Builder[string]{names: names} }

func (b *Builder[T]) SetUsage(u string) *Builder[T] {
	b.usage = u
	return b
}

func (b *Builder[T]) SetMetavar(m string) *Builder[T] {
	b.metavar = m
	return b
}

// SetArity sets how many values a slice registration consumes.
func (b *Builder[T]) SetArity(a Arity) *Builder[T] {
	b.arity = &a
	return b
}

// SetMaxCount caps a variable arity.
func (b *Builder[T]) SetMaxCount(n int) *Builder[T] {
	b.maxCount = n
	return b
}

// SetMaxLength keeps at most n bytes of each string value.
func (b *Builder[T]) SetMaxLength(n int) *Builder[T] {
	b.maxLength = n
	return b
}

func (b *Builder[T]) SetUnique(u bool) *Builder[T] {
	return b.setFlag(Unique, u)
}

func (b *Builder[T]) SetRequired(r bool) *Builder[T] {
	return b.setFlag(Required, r)
}

// SetCount binds a variable that mirrors the number of values written.
func (b *Builder[T]) SetCount(count *int) *Builder[T] {
	b.count = count
	return b
}

// SetAlloc makes a single string value engine-allocated: it is emptied on
// release instead of left to the caller.
func (b *Builder[T]) SetAlloc(alloc bool) *Builder[T] {
	b.alloc = alloc
	return b
}

// SetDefault is written to single-value targets at the start of every parse.
func (b *Builder[T]) SetDefault(v T) *Builder[T] {
	b.def = &v
	return b
}

func (b *Builder[T]) setFlag(flag OptionFlag, on bool) *Builder[T] {
	if on {
		b.flags |= flag
	} else {
		b.flags &^= flag
	}
	return b
}

func (b *Builder[T]) Register(reg *Registry) (*T, error) {
	ptr := new(T)
	return ptr, b.RegisterWithPtr(reg, ptr)
}

func (b *Builder[T]) RegisterWithPtr(reg *Registry, ptr *T) error {
	spec := b.spec(ptr, 1)
	if b.def != nil && ptr != nil {
		def := *b.def
		spec.applyDefault = func() { *ptr = def }
		spec.defaultText = fmt.Sprint(def)
	}
	_, err := reg.Register(spec)
	return err
}

// RegisterSlice registers an engine-allocated slice. Without SetArity the
// option takes one or more values.
func (b *Builder[T]) RegisterSlice(reg *Registry) (*[]T, error) {
	ptr := new([]T)
	return ptr, b.RegisterWithSlicePtr(reg, ptr)
}

func (b *Builder[T]) RegisterWithSlicePtr(reg *Registry, ptr *[]T) error {
	if err := b.checkNoDefault(); err != nil {
		return err
	}
	_, err := reg.Register(b.spec(ptr, OneOrMore))
	return err
}

// RegisterWithBuffer registers a caller-owned buffer. Without SetArity the
// option takes exactly len(buf) values.
func (b *Builder[T]) RegisterWithBuffer(reg *Registry, buf []T) error {
	if err := b.checkNoDefault(); err != nil {
		return err
	}
	_, err := reg.Register(b.spec(buf, Exactly(len(buf))))
	return err
}

func (b *Builder[T]) spec(target any, implied Arity) OptionSpec {
	arity := implied
	if b.arity != nil {
		arity = *b.arity
	}
	return OptionSpec{
		Names:     b.names,
		Usage:     b.usage,
		Metavar:   b.metavar,
		Type:      valueTypeOf[T](),
		Arity:     arity,
		MaxCount:  b.maxCount,
		MaxLength: b.maxLength,
		Flags:     b.flags,
		Target:    target,
		Count:     b.count,
		Alloc:     b.alloc,
	}
}

func (b *Builder[T]) checkNoDefault() error {
	if b.def == nil {
		return nil
	}
	name := ""
	if len(b.names) > 0 {
		name = b.names[0]
	}
	return NewProgrammingError(ErrConfiguration, name, "option %q: defaults apply to single values only", name)
}
