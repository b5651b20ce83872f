// Package value implements the NaN-boxed 64-bit value representation
// used by the bytecode virtual machine, together with the process-wide
// string intern pool.
//
// A Value is a single uint64. Ordinary numbers are stored as their IEEE
// 754 bits; everything else lives inside the quiet-NaN space. The QNaN
// marker plus two low tag bits distinguish the small immediates (nil,
// true, false), and the sign bit marks object pointers. A word whose
// QNaN bits are not all set is a number.
package value

import (
	"math"
	"strconv"
	"unsafe"
)

const (
	// qnan is the quiet-NaN marker: exponent all ones, quiet bit, and an
	// extra mantissa bit so real NaNs produced by arithmetic never
	// collide with boxed values.
	qnan uint64 = 0x7ffc000000000000
	// signBit marks object-pointer values.
	signBit uint64 = 0x8000000000000000

	tagNil   uint64 = 1
	tagFalse uint64 = 2
	tagTrue  uint64 = 3
)

// Value is a NaN-boxed Lox value.
type Value uint64

// The three small immediates.
const (
	NilVal   = Value(qnan | tagNil)
	FalseVal = Value(qnan | tagFalse)
	TrueVal  = Value(qnan | tagTrue)
)

// FromNumber boxes an f64. Numbers round-trip bit-exactly; boxing is the
// identity on their IEEE representation.
func FromNumber(f float64) Value {
	return Value(math.Float64bits(f))
}

// FromBool boxes a boolean.
func FromBool(b bool) Value {
	if b {
		return TrueVal
	}
	return FalseVal
}

// FromObj boxes an object pointer. The referent must be kept alive by
// its owning pool for as long as the value circulates; the intern pool
// never evicts, so interned strings satisfy this for free.
func FromObj(obj *Obj) Value {
	return Value(signBit | qnan | uint64(uintptr(unsafe.Pointer(obj))))
}

// FromString boxes an interned string.
func FromString(s *ObjString) Value {
	return FromObj(&s.Obj)
}

// IsNumber reports whether v is an ordinary f64: its QNaN bits are not
// all set.
func (v Value) IsNumber() bool {
	return uint64(v)&qnan != qnan
}

// IsNil reports whether v is the nil immediate.
func (v Value) IsNil() bool {
	return v == NilVal
}

// IsBool reports whether v is true or false. Forcing the low bit maps
// both immediates onto TrueVal; no other value has those bits.
func (v Value) IsBool() bool {
	return v|1 == TrueVal
}

// IsObj reports whether v carries an object pointer.
func (v Value) IsObj() bool {
	return uint64(v)&(qnan|signBit) == qnan|signBit
}

// AsNumber unboxes a number; the caller must have checked IsNumber.
func (v Value) AsNumber() float64 {
	return math.Float64frombits(uint64(v))
}

// TryNumber unboxes a number, reporting whether v is one.
func (v Value) TryNumber() (float64, bool) {
	if !v.IsNumber() {
		return 0, false
	}
	return v.AsNumber(), true
}

// AsBool unboxes a boolean; the caller must have checked IsBool.
func (v Value) AsBool() bool {
	return v == TrueVal
}

// AsObj unboxes the object pointer; the caller must have checked IsObj.
func (v Value) AsObj() *Obj {
	ptr := uintptr(uint64(v) &^ (qnan | signBit))
	return (*Obj)(unsafe.Pointer(ptr))
}

// IsString reports whether v is an interned string object.
func (v Value) IsString() bool {
	return v.IsObj() && v.AsObj().Type == ObjStringType
}

// AsString unboxes an interned string; the caller must have checked
// IsString.
func (v Value) AsString() *ObjString {
	return (*ObjString)(unsafe.Pointer(v.AsObj()))
}

// IsFalsey implements Lox truthiness on boxed values: nil and false are
// falsey, everything else is truthy.
func (v Value) IsFalsey() bool {
	return v == NilVal || v == FalseVal
}

// Equals implements Lox equality on boxed values. Numbers compare by
// their numeric value (so +0 equals -0 and NaN equals nothing); all
// other values compare by their bits, which for interned strings is
// pointer equality and for other objects identity.
func Equals(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() == b.AsNumber()
	}
	return a == b
}

// String renders the display form of a value: numbers with a minimal
// decimal rendering, strings as raw contents, and the immediates as
// their literal spellings.
func (v Value) String() string {
	switch {
	case v.IsNumber():
		return strconv.FormatFloat(v.AsNumber(), 'f', -1, 64)
	case v == NilVal:
		return "nil"
	case v == TrueVal:
		return "true"
	case v == FalseVal:
		return "false"
	case v.IsString():
		return v.AsString().Str
	default:
		return "<object>"
	}
}
