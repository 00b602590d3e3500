// Package value implements the TorqueScript dynamic value model: a tagged
// union of integer, float, owned string, host memory reference, and lvalue
// reference, with total (never-failing) conversions between them.
package value

import (
	"strconv"
	"strings"
)

// Kind discriminates the Value union.
type Kind byte

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindMemoryRef
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMemoryRef:
		return "memoryref"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// PrimitiveKind tags the element type behind a MemoryRef.
type PrimitiveKind byte

const (
	PrimitiveInteger PrimitiveKind = iota
	PrimitiveFloat
)

// Storage is implemented by host-owned primitive storage a MemoryRef can
// read and write through. Hosts bind engine fields to scripts this way.
type Storage interface {
	Load() Value
	Store(Value)
}

// Value is a TorqueScript runtime value. The zero Value is the integer 0.
//
// A Ref is an lvalue handle: it never owns the Value it points at. The
// pointee is always an individually heap-allocated cell (a register slot,
// a named local slot, or a global slot; tagged fields are reached through a
// MemoryRef instead), never an address into a slice's
// backing array, so the pointer stays valid even if the slice that
// logically "contains" the cell later grows and reallocates.
type Value struct {
	ref     *Value
	storage Storage
	str     string
	i       int32
	f       float32
	kind    Kind
	prim    PrimitiveKind
}

// Integer constructs an integer Value.
func Integer(i int32) Value { return Value{kind: KindInteger, i: i} }

// Float constructs a float Value.
func Float(f float32) Value { return Value{kind: KindFloat, f: f} }

// String constructs an owned-string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Ref constructs an lvalue handle pointing at cell.
func Ref(cell *Value) Value { return Value{kind: KindRef, ref: cell} }

// MemoryRef constructs a Value backed by host-owned primitive storage.
func MemoryRef(prim PrimitiveKind, storage Storage) Value {
	return Value{kind: KindMemoryRef, prim: prim, storage: storage}
}

// Kind reports the Value's discriminant. Callers that need the dereferenced
// kind of a Ref should call Deref first.
func (v Value) Kind() Kind { return v.kind }

// IsRef reports whether v is an lvalue handle (Ref or MemoryRef).
func (v Value) IsRef() bool { return v.kind == KindRef || v.kind == KindMemoryRef }

// Deref follows a Ref/MemoryRef chain and returns the underlying value.
// Non-reference values are returned unchanged.
func (v Value) Deref() Value {
	for v.kind == KindRef {
		if v.ref == nil {
			return Integer(0)
		}
		v = *v.ref
	}
	if v.kind == KindMemoryRef {
		if v.storage == nil {
			return Integer(0)
		}
		return v.storage.Load()
	}
	return v
}

// GetReferencedValueCopy materializes the referent of a Ref/MemoryRef as a
// standalone Value, distinct from copying the handle itself (which plain
// Go value-copy of a Value already does for the ref pointer/storage).
func (v Value) GetReferencedValueCopy() Value {
	return v.Deref()
}

// Writable reports whether SetValue can succeed against v: only Ref and
// MemoryRef cells are lvalues: writing against a bare Integer/Float/String
// is writing to a temporary and is a no-op (logged by the caller).
func (v Value) Writable() bool {
	return v.kind == KindRef || v.kind == KindMemoryRef
}

// SetValue writes newValue through a Ref/MemoryRef cell, or in place over a
// non-reference receiver. It reports whether the write succeeded; callers
// log a "no-op assignment" warning on false, per spec.
func (v *Value) SetValue(newValue Value) bool {
	switch v.kind {
	case KindRef:
		if v.ref == nil {
			return false
		}
		return v.ref.SetValue(newValue)
	case KindMemoryRef:
		if v.storage == nil {
			return false
		}
		v.storage.Store(newValue.Deref())
		return true
	default:
		*v = newValue.Deref()
		return true
	}
}

// ToInteger performs a total string-to-integer/float-to-integer coercion.
// Parse failures silently yield 0, per spec.
func (v Value) ToInteger() int32 {
	switch d := v.Deref(); d.kind {
	case KindInteger:
		return d.i
	case KindFloat:
		return int32(d.f)
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(d.str), 10, 32)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(d.str), 32)
			if ferr != nil {
				return 0
			}
			return int32(f)
		}
		return int32(n)
	default:
		return 0
	}
}

// ToFloat performs a total coercion to float32, 0 on parse failure.
func (v Value) ToFloat() float32 {
	switch d := v.Deref(); d.kind {
	case KindInteger:
		return float32(d.i)
	case KindFloat:
		return d.f
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(d.str), 32)
		if err != nil {
			return 0
		}
		return float32(f)
	default:
		return 0
	}
}

// ToBool implements "nonzero integer" truthiness via ToInteger.
func (v Value) ToBool() bool {
	return v.ToInteger() != 0
}

// ToString formats integer/float with default precision and returns owned
// strings unchanged.
func (v Value) ToString() string {
	switch d := v.Deref(); d.kind {
	case KindInteger:
		return strconv.FormatInt(int64(d.i), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(d.f), 'g', 6, 32)
	case KindString:
		return d.str
	default:
		return ""
	}
}

// Add normalises to Float, per spec (no integer-typed Add opcode exists).
func Add(a, b Value) Value { return Float(a.ToFloat() + b.ToFloat()) }

// Sub normalises to Float.
func Sub(a, b Value) Value { return Float(a.ToFloat() - b.ToFloat()) }

// Mul normalises to Float.
func Mul(a, b Value) Value { return Float(a.ToFloat() * b.ToFloat()) }

// Div normalises to Float; division by zero follows IEEE semantics.
func Div(a, b Value) Value { return Float(a.ToFloat() / b.ToFloat()) }

// Mod normalises to Integer.
func Mod(a, b Value) Value {
	bi := b.ToInteger()
	if bi == 0 {
		return Integer(0)
	}
	return Integer(a.ToInteger() % bi)
}

// BitwiseOr is an integer operator.
func BitwiseOr(a, b Value) Value { return Integer(a.ToInteger() | b.ToInteger()) }

// Negate is unary float negation.
func Negate(a Value) Value { return Float(-a.ToFloat()) }

// Not is boolean-not yielding integer 0/1.
func Not(a Value) Value {
	if a.ToBool() {
		return Integer(0)
	}
	return Integer(1)
}

func boolValue(b bool) Value {
	if b {
		return Integer(1)
	}
	return Integer(0)
}

// LessThan compares numerically.
func LessThan(a, b Value) Value { return boolValue(a.ToFloat() < b.ToFloat()) }

// GreaterThan compares numerically.
func GreaterThan(a, b Value) Value { return boolValue(a.ToFloat() > b.ToFloat()) }

// GreaterThanOrEqual compares numerically.
func GreaterThanOrEqual(a, b Value) Value { return boolValue(a.ToFloat() >= b.ToFloat()) }

// Equals compares numerically.
func Equals(a, b Value) Value { return boolValue(a.ToFloat() == b.ToFloat()) }

// NotEquals compares numerically.
func NotEquals(a, b Value) Value { return boolValue(a.ToFloat() != b.ToFloat()) }

// StringEquals compares the to-string forms lexicographically.
func StringEquals(a, b Value) Value { return boolValue(a.ToString() == b.ToString()) }

// StringNotEquals compares the to-string forms lexicographically.
func StringNotEquals(a, b Value) Value { return boolValue(a.ToString() != b.ToString()) }

// LogicalAnd is short-circuit-free boolean AND (both operands pre-evaluated
// by the VM before this is invoked for the non-short-circuit opcode form).
func LogicalAnd(a, b Value) Value { return boolValue(a.ToBool() && b.ToBool()) }

// LogicalOr is short-circuit-free boolean OR.
func LogicalOr(a, b Value) Value { return boolValue(a.ToBool() || b.ToBool()) }

// Concat converts both operands to string and joins them with sep.
func Concat(a, b Value, sep string) Value {
	return String(a.ToString() + sep + b.ToString())
}
