package runtime

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)$`)

// ToString converts a value the way String(v) does.
func ToString(v Value) string {
	return toString(v, nil)
}

func toString(v Value, seen map[*ArrayValue]bool) string {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return "undefined"
	case NullValue:
		return "null"
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case NumberValue:
		return NumberToString(val.Val)
	case StringValue:
		return val.Val
	case *ArrayValue:
		if seen[val] {
			return ""
		}
		if seen == nil {
			seen = make(map[*ArrayValue]bool)
		}
		seen[val] = true
		defer delete(seen, val)
		parts := make([]string, len(val.Elements))
		for i, elem := range val.Elements {
			switch elem.(type) {
			case nil, UndefinedValue, NullValue:
				parts[i] = ""
			default:
				parts[i] = toString(elem, seen)
			}
		}
		return strings.Join(parts, ",")
	case *ObjectValue:
		return "[object Object]"
	case *FunctionValue:
		return "function " + val.Name + "() { [code] }"
	case NativeFunctionValue:
		return "function " + val.Name + "() { [native code] }"
	case NativeBoundMethodValue:
		return "function " + val.Method.Name + "() { [native code] }"
	default:
		return ""
	}
}

// NumberToString renders a float64 using the shortest round-trip digits and
// the exponent thresholds of Number.prototype.toString.
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	formatted := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(formatted, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}

	e := n - 1
	expSign := "+"
	if e < 0 {
		expSign = "-"
		e = -e
	}
	if k == 1 {
		return sign + digits + "e" + expSign + strconv.Itoa(e)
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(e)
}

// ToNumber converts a value the way Number(v) does.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return math.NaN()
	case NullValue:
		return 0
	case BoolValue:
		if val.Val {
			return 1
		}
		return 0
	case NumberValue:
		return val.Val
	case StringValue:
		return StringToNumber(val.Val)
	case *ArrayValue:
		return StringToNumber(ToString(val))
	default:
		return math.NaN()
	}
}

// StringToNumber applies the string-to-number grammar: surrounding
// whitespace is ignored, the empty string is 0, and anything that is not a
// numeric literal is NaN.
func StringToNumber(s string) float64 {
	text := strings.TrimFunc(s, isJSSpace)
	if text == "" {
		return 0
	}
	switch text {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(text[2:], base)
			if !ok || strings.Contains(text, "_") {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	}
	if !decimalLiteral.MatchString(text) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ParseNumber reports whether s converts to a number other than NaN.
func ParseNumber(s string) (float64, bool) {
	f := StringToNumber(s)
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ToInt32 converts to a signed 32-bit integer with modular wrap-around.
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

// ToUint32 converts to an unsigned 32-bit integer with modular wrap-around.
func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

// ToIntegerOrInfinity truncates toward zero; NaN becomes 0.
func ToIntegerOrInfinity(v Value) float64 {
	f := ToNumber(v)
	if math.IsNaN(f) {
		return 0
	}
	return math.Trunc(f)
}

// Truthy reports whether v is truthy in a boolean context.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, UndefinedValue, NullValue:
		return false
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	default:
		return true
	}
}

// TypeOf returns the typeof string for v.
func TypeOf(v Value) string {
	switch v.(type) {
	case nil, UndefinedValue:
		return "undefined"
	case NullValue, *ArrayValue, *ObjectValue:
		return "object"
	case BoolValue:
		return "boolean"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case *FunctionValue, NativeFunctionValue, NativeBoundMethodValue:
		return "function"
	default:
		return "undefined"
	}
}

// StrictEquals implements ===.
func StrictEquals(a, b Value) bool {
	switch av := a.(type) {
	case nil, UndefinedValue:
		switch b.(type) {
		case nil, UndefinedValue:
			return true
		}
		return false
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		return ok && av == bv
	case *ObjectValue:
		bv, ok := b.(*ObjectValue)
		return ok && av == bv
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		return ok && av == bv
	case NativeFunctionValue:
		bv, ok := b.(NativeFunctionValue)
		return ok && av.Name == bv.Name
	case NativeBoundMethodValue:
		bv, ok := b.(NativeBoundMethodValue)
		return ok && av.Method.Name == bv.Method.Name && StrictEquals(av.Receiver, bv.Receiver)
	default:
		return false
	}
}

// SameValueZero is === except that NaN equals NaN.
func SameValueZero(a, b Value) bool {
	an, aok := a.(NumberValue)
	bn, bok := b.(NumberValue)
	if aok && bok && math.IsNaN(an.Val) && math.IsNaN(bn.Val) {
		return true
	}
	return StrictEquals(a, b)
}

// LooseEquals implements ==.
func LooseEquals(a, b Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b)
	}
	if isNullish(a) && isNullish(b) {
		return true
	}
	if isNullish(a) || isNullish(b) {
		return false
	}
	switch {
	case a.Kind() == KindNumber && b.Kind() == KindString:
		return ToNumber(a) == ToNumber(b)
	case a.Kind() == KindString && b.Kind() == KindNumber:
		return ToNumber(a) == ToNumber(b)
	case a.Kind() == KindBool:
		return LooseEquals(Number(ToNumber(a)), b)
	case b.Kind() == KindBool:
		return LooseEquals(a, Number(ToNumber(b)))
	case isPrimitive(a) && !isPrimitive(b):
		return LooseEquals(a, ToPrimitive(b))
	case !isPrimitive(a) && isPrimitive(b):
		return LooseEquals(ToPrimitive(a), b)
	}
	return false
}

// ToPrimitive converts arrays and objects to their string form; primitives
// are returned unchanged.
func ToPrimitive(v Value) Value {
	if isPrimitive(v) {
		return v
	}
	return String(ToString(v))
}

func isNullish(v Value) bool {
	switch v.(type) {
	case nil, UndefinedValue, NullValue:
		return true
	default:
		return false
	}
}

func isPrimitive(v Value) bool {
	switch v.(type) {
	case nil, UndefinedValue, NullValue, BoolValue, NumberValue, StringValue:
		return true
	default:
		return false
	}
}

// ArrayIndex interprets v as an array index: a non-negative integral number
// below 2^32-1, or its canonical string form.
func ArrayIndex(v Value) (int, bool) {
	var f float64
	switch val := v.(type) {
	case NumberValue:
		f = val.Val
	case StringValue:
		n, err := strconv.ParseUint(val.Val, 10, 32)
		if err != nil || strconv.FormatUint(n, 10) != val.Val {
			return 0, false
		}
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f >= 4294967295 || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
