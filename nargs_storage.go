package nargs

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// target is the storage an option writes into. Implementations are
// scalarTarget, fixedTarget and growableTarget.
type target interface {
	valueType() ValueType
	ownership() Ownership
	isArray() bool
	// capacity is the most values the storage can hold, -1 when unbounded.
	capacity() int
	// write converts token and stores it as value number idx. hint is the
	// capacity to reserve when the storage has not been allocated yet.
	write(idx int, token string, maxLength int, hint int) error
	setTrue()
	// release drops the values written so far; used is the consumed count.
	release(used int)
	// rewind puts back what the storage held before the previous parse wrote
	// to it.
	rewind()
	// value is the current content, for dumps.
	value() any
}

type scalarTarget[T Value] struct {
	ptr   *T
	owner Ownership

	// saved is *ptr as it was before the first write since the last rewind.
	saved   T
	written bool
}

func (t *scalarTarget[T]) valueType() ValueType { return valueTypeOf[T]() }
func (t *scalarTarget[T]) ownership() Ownership { return t.owner }
func (t *scalarTarget[T]) isArray() bool        { return false }
func (t *scalarTarget[T]) capacity() int        { return 1 }
func (t *scalarTarget[T]) value() any           { return *t.ptr }

func (t *scalarTarget[T]) write(_ int, token string, maxLength int, _ int) error {
	v, err := convert[T](token, maxLength)
	if err != nil {
		return err
	}
	t.remember()
	*t.ptr = v
	return nil
}

func (t *scalarTarget[T]) setTrue() {
	if p, ok := any(t.ptr).(*bool); ok {
		t.remember()
		*p = true
	}
}

func (t *scalarTarget[T]) remember() {
	if !t.written {
		t.saved = *t.ptr
		t.written = true
	}
}

func (t *scalarTarget[T]) rewind() {
	if t.written {
		*t.ptr = t.saved
		t.written = false
	}
}

// Caller-owned scalars have no tracked region and keep their value.
func (t *scalarTarget[T]) release(_ int) {
	if t.owner == EngineAllocated {
		var zero T
		*t.ptr = zero
	}
}

type fixedTarget[T Value] struct {
	buf []T
}

func (t *fixedTarget[T]) valueType() ValueType { return valueTypeOf[T]() }
func (t *fixedTarget[T]) ownership() Ownership { return CallerOwned }
func (t *fixedTarget[T]) isArray() bool        { return true }
func (t *fixedTarget[T]) capacity() int        { return len(t.buf) }
func (t *fixedTarget[T]) setTrue()             {}
func (t *fixedTarget[T]) rewind()              {}
func (t *fixedTarget[T]) value() any           { return t.buf }

func (t *fixedTarget[T]) write(idx int, token string, maxLength int, _ int) error {
	v, err := convert[T](token, maxLength)
	if err != nil {
		return err
	}
	t.buf[idx] = v
	return nil
}

func (t *fixedTarget[T]) release(used int) {
	clear(t.buf[:min(used, len(t.buf))])
}

type growableTarget[T Value] struct {
	ptr *[]T
}

func (t *growableTarget[T]) valueType() ValueType { return valueTypeOf[T]() }
func (t *growableTarget[T]) ownership() Ownership { return EngineAllocated }
func (t *growableTarget[T]) isArray() bool        { return true }
func (t *growableTarget[T]) capacity() int        { return -1 }
func (t *growableTarget[T]) setTrue()             {}
func (t *growableTarget[T]) rewind()              {}
func (t *growableTarget[T]) value() any           { return *t.ptr }

func (t *growableTarget[T]) write(_ int, token string, maxLength int, hint int) error {
	v, err := convert[T](token, maxLength)
	if err != nil {
		return err
	}
	if *t.ptr == nil {
		*t.ptr = make([]T, 0, max(hint, 1))
	}
	*t.ptr = append(*t.ptr, v)
	return nil
}

func (t *growableTarget[T]) release(_ int) {
	*t.ptr = nil
}

func convert[T Value](token string, maxLength int) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *bool:
		*p, err = parseBoolValue(token)
	case *int:
		var n int64
		n, err = strconv.ParseInt(numericPrefix(token, true, false), 10, strconv.IntSize)
		*p = int(n)
	case *uint:
		var n uint64
		n, err = strconv.ParseUint(strings.TrimPrefix(numericPrefix(token, false, false), "+"), 10, strconv.IntSize)
		*p = uint(n)
	case *float32:
		var f float64
		f, err = parseFloatPrefix(token, 32)
		*p = float32(f)
	case *float64:
		*p, err = parseFloatPrefix(token, 64)
	case *string:
		*p = truncate(token, maxLength)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// parseFloatPrefix accepts whatever strconv takes as a whole ("inf", "1e5",
// "0x1p-2") and otherwise falls back to the leading decimal number.
func parseFloatPrefix(token string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(token, bitSize)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f, err
	}
	return strconv.ParseFloat(numericPrefix(token, true, true), bitSize)
}

// numericPrefix returns the longest leading part of token that reads as a
// decimal number. Trailing characters after it are ignored, so "42abc" gives
// "42". Unsigned values take no minus sign. An empty result means nothing
// was consumed.
func numericPrefix(token string, signed, float bool) string {
	i := 0
	if i < len(token) && (token[i] == '+' || (signed && token[i] == '-')) {
		i++
	}
	digits := skipDigits(token, i)
	seen := digits > i
	i = digits
	if float {
		if i < len(token) && token[i] == '.' {
			frac := skipDigits(token, i+1)
			if seen || frac > i+1 {
				seen = true
				i = frac
			}
		}
		if seen && i < len(token) && (token[i] == 'e' || token[i] == 'E') {
			j := i + 1
			if j < len(token) && (token[j] == '+' || token[j] == '-') {
				j++
			}
			if exp := skipDigits(token, j); exp > j {
				i = exp
			}
		}
	}
	if !seen {
		return ""
	}
	return token[:i]
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func parseBoolValue(value string) (bool, error) {
	val, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return false, err
	}
	return val, nil
}

// truncate keeps at most n bytes of s without splitting a UTF-8 sequence.
// n <= 0 keeps everything.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return strings.Clone(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return strings.Clone(s[:n])
}
