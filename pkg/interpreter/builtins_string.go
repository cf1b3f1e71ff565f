package interpreter

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"dsaviz/interpreter-go/pkg/runtime"
)

type stringMethod func(s []rune, args []runtime.Value) (runtime.Value, error)

func (i *Interpreter) buildStringMethods() map[string]runtime.NativeFunctionValue {
	methods := map[string]struct {
		arity int
		fn    stringMethod
	}{
		"charAt":      {1, stringCharAt},
		"charCodeAt":  {1, stringCharCodeAt},
		"concat":      {1, stringConcat},
		"slice":       {2, stringSlice},
		"substring":   {2, stringSubstring},
		"indexOf":     {1, stringIndexOf},
		"lastIndexOf": {1, stringLastIndexOf},
		"includes":    {1, stringIncludes},
		"startsWith":  {1, stringStartsWith},
		"endsWith":    {1, stringEndsWith},
		"toUpperCase": {0, mapString(strings.ToUpper)},
		"toLowerCase": {0, mapString(strings.ToLower)},
		"trim":        {0, mapString(func(s string) string { return strings.TrimFunc(s, isTrimSpace) })},
		"trimStart":   {0, mapString(func(s string) string { return strings.TrimLeftFunc(s, isTrimSpace) })},
		"trimEnd":     {0, mapString(func(s string) string { return strings.TrimRightFunc(s, isTrimSpace) })},
		"split":       {2, i.stringSplit},
		"repeat":      {1, i.stringRepeat},
		"at":          {1, stringAt},
		"padStart":    {2, stringPad(true)},
		"padEnd":      {2, stringPad(false)},
		"replace":     {2, stringReplace},
		"toString":    {0, mapString(func(s string) string { return s })},
	}
	out := make(map[string]runtime.NativeFunctionValue, len(methods))
	for name, m := range methods {
		fn := m.fn
		out[name] = native(name, m.arity, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return fn([]rune(runtime.ToString(ctx.This)), args)
		})
	}
	// replace calls back into user code when given a function.
	replace := out["replace"]
	out["replace"] = native("replace", 2, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if fn := arg(args, 1); runtime.IsCallable(fn) {
			s := runtime.ToString(ctx.This)
			pattern := runtime.ToString(arg(args, 0))
			idx := strings.Index(s, pattern)
			if idx < 0 {
				return runtime.String(s), nil
			}
			replacement, err := ctx.Call(fn, []runtime.Value{runtime.String(pattern), runtime.Number(float64(len([]rune(s[:idx]))))})
			if err != nil {
				return nil, err
			}
			return runtime.String(s[:idx] + runtime.ToString(replacement) + s[idx+len(pattern):]), nil
		}
		return replace.Impl(ctx, args)
	})
	return out
}

func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func mapString(fn func(string) string) stringMethod {
	return func(s []rune, _ []runtime.Value) (runtime.Value, error) {
		return runtime.String(fn(string(s))), nil
	}
}

func stringCharAt(s []rune, args []runtime.Value) (runtime.Value, error) {
	idx := runtime.ToIntegerOrInfinity(arg(args, 0))
	if idx < 0 || idx >= float64(len(s)) {
		return runtime.String(""), nil
	}
	return runtime.String(string(s[int(idx)])), nil
}

func stringCharCodeAt(s []rune, args []runtime.Value) (runtime.Value, error) {
	idx := runtime.ToIntegerOrInfinity(arg(args, 0))
	if idx < 0 || idx >= float64(len(s)) {
		return runtime.Number(math.NaN()), nil
	}
	return runtime.Number(float64(s[int(idx)])), nil
}

func stringAt(s []rune, args []runtime.Value) (runtime.Value, error) {
	idx := int(runtime.ToIntegerOrInfinity(arg(args, 0)))
	if idx < 0 {
		idx += len(s)
	}
	if idx < 0 || idx >= len(s) {
		return runtime.Undefined, nil
	}
	return runtime.String(string(s[idx])), nil
}

func stringConcat(s []rune, args []runtime.Value) (runtime.Value, error) {
	var b strings.Builder
	b.WriteString(string(s))
	for _, a := range args {
		b.WriteString(runtime.ToString(a))
	}
	return runtime.String(b.String()), nil
}

func stringSlice(s []rune, args []runtime.Value) (runtime.Value, error) {
	start := relativeIndex(arg(args, 0), len(s), 0)
	end := relativeIndex(arg(args, 1), len(s), len(s))
	if end < start {
		return runtime.String(""), nil
	}
	return runtime.String(string(s[start:end])), nil
}

func stringSubstring(s []rune, args []runtime.Value) (runtime.Value, error) {
	clamp := func(v runtime.Value, def int) int {
		if _, missing := v.(runtime.UndefinedValue); missing {
			return def
		}
		f := runtime.ToIntegerOrInfinity(v)
		return int(math.Min(math.Max(f, 0), float64(len(s))))
	}
	start := clamp(arg(args, 0), 0)
	end := clamp(arg(args, 1), len(s))
	if start > end {
		start, end = end, start
	}
	return runtime.String(string(s[start:end])), nil
}

func stringIndexOf(s []rune, args []runtime.Value) (runtime.Value, error) {
	needle := []rune(runtime.ToString(arg(args, 0)))
	from := int(math.Min(math.Max(runtime.ToIntegerOrInfinity(arg(args, 1)), 0), float64(len(s))))
	for idx := from; idx+len(needle) <= len(s); idx++ {
		if string(s[idx:idx+len(needle)]) == string(needle) {
			return runtime.Number(float64(idx)), nil
		}
	}
	return runtime.Number(-1), nil
}

func stringLastIndexOf(s []rune, args []runtime.Value) (runtime.Value, error) {
	needle := []rune(runtime.ToString(arg(args, 0)))
	from := len(s) - len(needle)
	if len(args) > 1 {
		if f := runtime.ToNumber(args[1]); !math.IsNaN(f) {
			from = int(math.Min(math.Max(math.Trunc(f), 0), float64(from)))
		}
	}
	for idx := from; idx >= 0; idx-- {
		if string(s[idx:idx+len(needle)]) == string(needle) {
			return runtime.Number(float64(idx)), nil
		}
	}
	return runtime.Number(-1), nil
}

func stringIncludes(s []rune, args []runtime.Value) (runtime.Value, error) {
	idx, _ := stringIndexOf(s, args)
	return runtime.Bool(runtime.ToNumber(idx) >= 0), nil
}

func stringStartsWith(s []rune, args []runtime.Value) (runtime.Value, error) {
	prefix := runtime.ToString(arg(args, 0))
	pos := int(math.Min(math.Max(runtime.ToIntegerOrInfinity(arg(args, 1)), 0), float64(len(s))))
	return runtime.Bool(strings.HasPrefix(string(s[pos:]), prefix)), nil
}

func stringEndsWith(s []rune, args []runtime.Value) (runtime.Value, error) {
	suffix := runtime.ToString(arg(args, 0))
	end := len(s)
	if _, missing := arg(args, 1).(runtime.UndefinedValue); !missing {
		end = int(math.Min(math.Max(runtime.ToIntegerOrInfinity(args[1]), 0), float64(len(s))))
	}
	return runtime.Bool(strings.HasSuffix(string(s[:end]), suffix)), nil
}

func (i *Interpreter) stringSplit(s []rune, args []runtime.Value) (runtime.Value, error) {
	limit := i.opts.MaxArrayLength
	if l, ok := arg(args, 1).(runtime.NumberValue); ok {
		limit = int(runtime.ToUint32(l))
	}
	var parts []string
	switch sep := arg(args, 0).(type) {
	case runtime.UndefinedValue:
		parts = []string{string(s)}
	default:
		sepText := runtime.ToString(sep)
		if sepText == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(string(s), sepText)
		}
	}
	if len(parts) > limit {
		parts = parts[:limit]
	}
	elements := make([]runtime.Value, len(parts))
	for idx, p := range parts {
		elements[idx] = runtime.String(p)
	}
	return runtime.NewArray(elements), nil
}

func (i *Interpreter) stringRepeat(s []rune, args []runtime.Value) (runtime.Value, error) {
	count := runtime.ToIntegerOrInfinity(arg(args, 0))
	if count < 0 || math.IsInf(count, 0) {
		return nil, errors.New("RangeError: Invalid count value: " + runtime.NumberToString(count))
	}
	if count*float64(len(s)) > float64(i.opts.MaxArrayLength) {
		return nil, errors.New("RangeError: Invalid string length")
	}
	return runtime.String(strings.Repeat(string(s), int(count))), nil
}

func stringPad(start bool) stringMethod {
	return func(s []rune, args []runtime.Value) (runtime.Value, error) {
		target := int(runtime.ToIntegerOrInfinity(arg(args, 0)))
		fill := " "
		if _, missing := arg(args, 1).(runtime.UndefinedValue); !missing {
			fill = runtime.ToString(args[1])
		}
		if target <= len(s) || fill == "" {
			return runtime.String(string(s)), nil
		}
		need := target - len(s)
		fillRunes := []rune(fill)
		pad := make([]rune, 0, need)
		for len(pad) < need {
			pad = append(pad, fillRunes[len(pad)%len(fillRunes)])
		}
		if start {
			return runtime.String(string(pad) + string(s)), nil
		}
		return runtime.String(string(s) + string(pad)), nil
	}
}

func stringReplace(s []rune, args []runtime.Value) (runtime.Value, error) {
	text := string(s)
	pattern := runtime.ToString(arg(args, 0))
	return runtime.String(strings.Replace(text, pattern, runtime.ToString(arg(args, 1)), 1)), nil
}

func (i *Interpreter) buildNumberMethods() map[string]runtime.NativeFunctionValue {
	return map[string]runtime.NativeFunctionValue{
		"toString": native("toString", 1, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, ok := ctx.This.(runtime.NumberValue)
			if !ok {
				return runtime.String(runtime.ToString(ctx.This)), nil
			}
			radix := 10
			if _, missing := arg(args, 0).(runtime.UndefinedValue); !missing {
				radix = int(runtime.ToIntegerOrInfinity(args[0]))
			}
			if radix < 2 || radix > 36 {
				return nil, errors.New("RangeError: toString() radix must be between 2 and 36")
			}
			if radix == 10 || n.Val != math.Trunc(n.Val) || math.IsInf(n.Val, 0) || math.Abs(n.Val) > 1<<53 {
				return runtime.String(runtime.NumberToString(n.Val)), nil
			}
			return runtime.String(strconv.FormatInt(int64(n.Val), radix)), nil
		}),
		"toFixed": native("toFixed", 1, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			f := runtime.ToNumber(ctx.This)
			digits := runtime.ToIntegerOrInfinity(arg(args, 0))
			if digits < 0 || digits > 100 {
				return nil, errors.New("RangeError: toFixed() digits argument must be between 0 and 100")
			}
			if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1e21 {
				return runtime.String(runtime.NumberToString(f)), nil
			}
			return runtime.String(strconv.FormatFloat(f, 'f', int(digits), 64)), nil
		}),
	}
}
