package lang

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeNumeric
	TypeString
	TypeBoolean
	TypeCallable
)

var valueTypeNames = [...]string{
	TypeNil:      "nil",
	TypeNumeric:  "number",
	TypeString:   "string",
	TypeBoolean:  "boolean",
	TypeCallable: "callable",
}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Native is a host function exposed to programs.
type Native func(args []Value) (Value, error)

// Callable is a function value with a fixed number of parameters.
type Callable struct {
	Name  string
	Arity int
	Fn    Native
}

// Nil is the nil value, also the zero Value.
var Nil = Value{Type: TypeNil}

// NumberValue wraps a float.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumeric, payload: f}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBoolean, payload: b}
}

// CallableValue wraps a callable.
func CallableValue(c *Callable) Value {
	return Value{Type: TypeCallable, payload: c}
}

// NativeValue builds a callable value from a host function.
func NativeValue(name string, arity int, fn Native) Value {
	return CallableValue(&Callable{Name: name, Arity: arity, Fn: fn})
}

func (v Value) Num() float64 {
	f, _ := v.payload.(float64)
	return f
}

func (v Value) Str() string {
	s, _ := v.payload.(string)
	return s
}

func (v Value) Bool() bool {
	b, _ := v.payload.(bool)
	return b
}

func (v Value) Callable() *Callable {
	c, _ := v.payload.(*Callable)
	return c
}

// Truthy reports whether v counts as true in a condition: everything
// except nil and false does.
func (v Value) Truthy() bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBoolean:
		return v.Bool()
	default:
		return true
	}
}

// String returns the display form used by print.
func (v Value) String() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeNumeric:
		return formatNumber(v.Num())
	case TypeString:
		return v.Str()
	case TypeBoolean:
		return strconv.FormatBool(v.Bool())
	case TypeCallable:
		if c := v.Callable(); c != nil && c.Name != "" {
			return fmt.Sprintf("<native fn %s>", c.Name)
		}
		return "<native fn>"
	default:
		return "<unknown>"
	}
}

// formatNumber prints integral values without a fractional part and never
// uses exponent notation.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
