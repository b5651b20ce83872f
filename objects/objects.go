// Package objects defines the runtime value model for the Lox
// tree-walking evaluator. It provides the primitive values (nil,
// booleans, f64 numbers, strings), the in-band error and return-signal
// objects, and native functions. All values implement the LoxObject
// interface, which allows for type checking, display rendering, and
// object inspection.
//
// Closures, classes and instances live in the function package; they
// implement the same interface.
package objects

import (
	"fmt"
	"strconv"

	"github.com/golox-lang/golox/diag"
)

// LoxType identifies the type of a Lox object as a string constant.
type LoxType string

const (
	// NilType represents the nil value
	NilType LoxType = "nil"
	// BooleanType represents true and false
	BooleanType LoxType = "bool"
	// NumberType represents 64-bit floating-point numbers
	NumberType LoxType = "number"
	// StringType represents string values
	StringType LoxType = "string"
	// ErrorType represents in-band runtime error objects
	ErrorType LoxType = "error"
	// ReturnType represents the unwinding signal of a return statement
	ReturnType LoxType = "return"
	// BuiltinType represents native (host-provided) functions
	BuiltinType LoxType = "native"

	// FunctionType represents closures (defined in the function package)
	FunctionType LoxType = "function"
	// ClassType represents class values (defined in the function package)
	ClassType LoxType = "class"
	// InstanceType represents class instances (defined in the function package)
	InstanceType LoxType = "instance"
)

// LoxObject is the core interface all runtime values implement.
type LoxObject interface {
	// GetType returns the LoxType of the object, used for type checking
	GetType() LoxType
	// ToString returns the display form of the value, as `print` shows it
	ToString() string
	// ToObject returns a detailed representation for inspection
	ToObject() string
}

// Nil represents the nil value.
type Nil struct{}

func (n *Nil) GetType() LoxType { return NilType }
func (n *Nil) ToString() string { return "nil" }
func (n *Nil) ToObject() string { return "<nil>" }

// Boolean represents true or false.
type Boolean struct {
	Value bool
}

func (b *Boolean) GetType() LoxType { return BooleanType }
func (b *Boolean) ToString() string { return strconv.FormatBool(b.Value) }
func (b *Boolean) ToObject() string { return fmt.Sprintf("<bool(%t)>", b.Value) }

// Number represents a 64-bit floating-point value.
type Number struct {
	Value float64
}

func (n *Number) GetType() LoxType { return NumberType }

// ToString renders integers without a decimal point and fractions with
// one: 3 prints as "3", 3.5 as "3.5".
func (n *Number) ToString() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n *Number) ToObject() string { return fmt.Sprintf("<number(%s)>", n.ToString()) }

// String represents a string value. Display shows the raw contents
// without quotes.
type String struct {
	Value string
}

func (s *String) GetType() LoxType { return StringType }
func (s *String) ToString() string { return s.Value }
func (s *String) ToObject() string { return fmt.Sprintf("<string(%q)>", s.Value) }

// Error is the in-band runtime error object. Evaluation methods return
// it instead of a value; callers detect it with IsError and propagate it
// up to the statement boundary, where the driver converts it into a
// diagnostic.
type Error struct {
	Kind    diag.Kind
	Message string
	Span    diag.Span
}

func (e *Error) GetType() LoxType { return ErrorType }
func (e *Error) ToString() string { return e.Message }
func (e *Error) ToObject() string { return fmt.Sprintf("<error(%s)>", e.Message) }

// Diag converts the error object into its diagnostic form.
func (e *Error) Diag() *diag.Error {
	return diag.Errorf(e.Kind, e.Span, "%s", e.Message)
}

// ReturnValue wraps the value of a return statement while it unwinds to
// the nearest call boundary.
type ReturnValue struct {
	Value LoxObject
}

func (r *ReturnValue) GetType() LoxType { return ReturnType }
func (r *ReturnValue) ToString() string { return r.Value.ToString() }
func (r *ReturnValue) ToObject() string { return fmt.Sprintf("<return(%s)>", r.Value.ToObject()) }

// BuiltinCallback is the host signature of a native function.
type BuiltinCallback func(args ...LoxObject) LoxObject

// Builtin is a native function installed in the globals scope. Natives
// are not assignable; a declaration of the same name, global or local,
// does bind over them.
type Builtin struct {
	Name     string
	Arity    int
	Callback BuiltinCallback
}

func (b *Builtin) GetType() LoxType { return BuiltinType }
func (b *Builtin) ToString() string { return fmt.Sprintf("[<native>%s]", b.Name) }
func (b *Builtin) ToObject() string { return b.ToString() }

// IsError reports whether obj is an in-band error object. It is safe to
// call with nil.
func IsError(obj LoxObject) bool {
	if obj != nil {
		return obj.GetType() == ErrorType
	}
	return false
}

// IsTruthy implements Lox truthiness: nil and false are false, every
// other value (including 0 and "") is true.
func IsTruthy(obj LoxObject) bool {
	switch o := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

// Equals implements Lox equality: same-variant values compare
// structurally, cross-type comparisons are always false. Numbers compare
// by ==, so +0 equals -0 and NaN equals nothing. Functions, classes and
// instances compare by reference identity.
func Equals(a, b LoxObject) bool {
	switch left := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Boolean:
		right, ok := b.(*Boolean)
		return ok && left.Value == right.Value
	case *Number:
		right, ok := b.(*Number)
		return ok && left.Value == right.Value
	case *String:
		right, ok := b.(*String)
		return ok && left.Value == right.Value
	default:
		// Reference types: identity.
		return a == b
	}
}
