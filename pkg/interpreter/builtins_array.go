package interpreter

import (
	"errors"
	"math"
	"sort"
	"strings"

	"dsaviz/interpreter-go/pkg/runtime"
)

var errInvalidLength = errors.New("RangeError: Invalid array length")

type arrayMethod func(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error)

func (i *Interpreter) buildArrayMethods() map[string]runtime.NativeFunctionValue {
	methods := map[string]struct {
		arity int
		fn    arrayMethod
	}{
		"push":        {1, i.arrayPush},
		"pop":         {0, arrayPop},
		"shift":       {0, arrayShift},
		"unshift":     {1, i.arrayUnshift},
		"splice":      {2, i.arraySplice},
		"sort":        {1, arraySort},
		"reverse":     {0, arrayReverse},
		"fill":        {1, arrayFill},
		"copyWithin":  {2, arrayCopyWithin},
		"concat":      {1, i.arrayConcat},
		"slice":       {2, arraySlice},
		"indexOf":     {1, arrayIndexOf},
		"lastIndexOf": {1, arrayLastIndexOf},
		"includes":    {1, arrayIncludes},
		"join":        {1, arrayJoin},
		"at":          {1, arrayAt},
		"map":         {1, arrayMap},
		"filter":      {1, arrayFilter},
		"forEach":     {1, arrayForEach},
		"reduce":      {1, arrayReduce},
		"some":        {1, arraySome},
		"every":       {1, arrayEvery},
		"find":        {1, arrayFind},
		"findIndex":   {1, arrayFindIndex},
		"toString":    {0, arrayToString},
	}
	out := make(map[string]runtime.NativeFunctionValue, len(methods))
	for name, m := range methods {
		fn := m.fn
		out[name] = native(name, m.arity, func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			arr, ok := ctx.This.(*runtime.ArrayValue)
			if !ok {
				return nil, errors.New("TypeError: Array.prototype." + name + " called on non-array")
			}
			return fn(ctx, arr, args)
		})
	}
	return out
}

// relativeIndex resolves a possibly negative index argument against length n,
// clamped to [0, n].
func relativeIndex(v runtime.Value, n int, def int) int {
	if _, missing := v.(runtime.UndefinedValue); missing {
		return def
	}
	f := runtime.ToIntegerOrInfinity(v)
	if f < 0 {
		f += float64(n)
		if f < 0 {
			return 0
		}
	}
	if f > float64(n) {
		return n
	}
	return int(f)
}

func (i *Interpreter) arrayPush(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	if len(arr.Elements)+len(args) > i.opts.MaxArrayLength {
		return nil, errInvalidLength
	}
	arr.Elements = append(arr.Elements, args...)
	return runtime.Number(float64(len(arr.Elements))), nil
}

func arrayPop(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
	n := len(arr.Elements)
	if n == 0 {
		return runtime.Undefined, nil
	}
	last := arr.Elements[n-1]
	arr.Elements = arr.Elements[:n-1]
	return orUndefined(last), nil
}

func arrayShift(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
	if len(arr.Elements) == 0 {
		return runtime.Undefined, nil
	}
	first := arr.Elements[0]
	arr.Elements = append(arr.Elements[:0], arr.Elements[1:]...)
	return orUndefined(first), nil
}

func (i *Interpreter) arrayUnshift(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	if len(arr.Elements)+len(args) > i.opts.MaxArrayLength {
		return nil, errInvalidLength
	}
	elements := make([]runtime.Value, 0, len(arr.Elements)+len(args))
	elements = append(elements, args...)
	arr.Elements = append(elements, arr.Elements...)
	return runtime.Number(float64(len(arr.Elements))), nil
}

func (i *Interpreter) arraySplice(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	n := len(arr.Elements)
	start := relativeIndex(arg(args, 0), n, 0)
	deleteCount := n - start
	if len(args) == 0 {
		deleteCount = 0
	} else if len(args) >= 2 {
		deleteCount = int(math.Min(math.Max(runtime.ToIntegerOrInfinity(args[1]), 0), float64(n-start)))
	}
	var items []runtime.Value
	if len(args) > 2 {
		items = args[2:]
	}
	if n-deleteCount+len(items) > i.opts.MaxArrayLength {
		return nil, errInvalidLength
	}
	removed := append([]runtime.Value(nil), arr.Elements[start:start+deleteCount]...)
	elements := make([]runtime.Value, 0, n-deleteCount+len(items))
	elements = append(elements, arr.Elements[:start]...)
	elements = append(elements, items...)
	elements = append(elements, arr.Elements[start+deleteCount:]...)
	arr.Elements = elements
	return runtime.NewArray(removed), nil
}

func arraySort(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	comparator := arg(args, 0)
	if _, missing := comparator.(runtime.UndefinedValue); !missing && !runtime.IsCallable(comparator) {
		return nil, errors.New("TypeError: The comparison function must be either a function or undefined")
	}
	var sortErr error
	less := func(a, b runtime.Value) bool {
		if sortErr != nil {
			return false
		}
		_, au := orUndefined(a).(runtime.UndefinedValue)
		_, bu := orUndefined(b).(runtime.UndefinedValue)
		if au || bu {
			return !au && bu
		}
		if runtime.IsCallable(comparator) {
			res, err := ctx.Call(comparator, []runtime.Value{a, b})
			if err != nil {
				sortErr = err
				return false
			}
			return runtime.ToNumber(res) < 0
		}
		return runtime.ToString(a) < runtime.ToString(b)
	}
	elements := append([]runtime.Value(nil), arr.Elements...)
	sort.SliceStable(elements, func(x, y int) bool { return less(elements[x], elements[y]) })
	if sortErr != nil {
		return nil, sortErr
	}
	copy(arr.Elements, elements)
	return arr, nil
}

func arrayReverse(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
	for l, r := 0, len(arr.Elements)-1; l < r; l, r = l+1, r-1 {
		arr.Elements[l], arr.Elements[r] = arr.Elements[r], arr.Elements[l]
	}
	return arr, nil
}

func arrayFill(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	n := len(arr.Elements)
	start := relativeIndex(arg(args, 1), n, 0)
	end := relativeIndex(arg(args, 2), n, n)
	val := arg(args, 0)
	for idx := start; idx < end; idx++ {
		arr.Elements[idx] = val
	}
	return arr, nil
}

func arrayCopyWithin(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	n := len(arr.Elements)
	target := relativeIndex(arg(args, 0), n, 0)
	start := relativeIndex(arg(args, 1), n, 0)
	end := relativeIndex(arg(args, 2), n, n)
	if end > start && target < n {
		src := append([]runtime.Value(nil), arr.Elements[start:end]...)
		copy(arr.Elements[target:], src)
	}
	return arr, nil
}

func (i *Interpreter) arrayConcat(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	elements := append([]runtime.Value(nil), arr.Elements...)
	for _, a := range args {
		if other, ok := a.(*runtime.ArrayValue); ok {
			elements = append(elements, other.Elements...)
		} else {
			elements = append(elements, a)
		}
		if len(elements) > i.opts.MaxArrayLength {
			return nil, errInvalidLength
		}
	}
	return runtime.NewArray(elements), nil
}

func arraySlice(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	n := len(arr.Elements)
	start := relativeIndex(arg(args, 0), n, 0)
	end := relativeIndex(arg(args, 1), n, n)
	if end < start {
		end = start
	}
	return runtime.NewArray(append([]runtime.Value(nil), arr.Elements[start:end]...)), nil
}

func arrayIndexOf(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	target := arg(args, 0)
	for idx := relativeIndex(arg(args, 1), len(arr.Elements), 0); idx < len(arr.Elements); idx++ {
		if runtime.StrictEquals(orUndefined(arr.Elements[idx]), target) {
			return runtime.Number(float64(idx)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrayLastIndexOf(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	target := arg(args, 0)
	from := len(arr.Elements) - 1
	if len(args) > 1 {
		from = relativeIndex(args[1], len(arr.Elements), 0)
		if from >= len(arr.Elements) {
			from = len(arr.Elements) - 1
		}
	}
	for idx := from; idx >= 0; idx-- {
		if runtime.StrictEquals(orUndefined(arr.Elements[idx]), target) {
			return runtime.Number(float64(idx)), nil
		}
	}
	return runtime.Number(-1), nil
}

func arrayIncludes(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	target := arg(args, 0)
	for idx := relativeIndex(arg(args, 1), len(arr.Elements), 0); idx < len(arr.Elements); idx++ {
		if runtime.SameValueZero(orUndefined(arr.Elements[idx]), target) {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

func arrayJoin(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	sep := ","
	if _, missing := arg(args, 0).(runtime.UndefinedValue); !missing {
		sep = runtime.ToString(args[0])
	}
	parts := make([]string, len(arr.Elements))
	for idx, elem := range arr.Elements {
		switch elem.(type) {
		case nil, runtime.UndefinedValue, runtime.NullValue:
		default:
			parts[idx] = runtime.ToString(elem)
		}
	}
	return runtime.String(strings.Join(parts, sep)), nil
}

func arrayAt(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	idx := int(runtime.ToIntegerOrInfinity(arg(args, 0)))
	if idx < 0 {
		idx += len(arr.Elements)
	}
	if idx < 0 || idx >= len(arr.Elements) {
		return runtime.Undefined, nil
	}
	return orUndefined(arr.Elements[idx]), nil
}

// iterate calls fn(element, index, array) for each index present when the
// iteration started, stopping when visit returns false.
func iterate(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value, visit func(idx int, elem, result runtime.Value) bool) error {
	fn := arg(args, 0)
	if !runtime.IsCallable(fn) {
		return errors.New("TypeError: " + runtime.ToString(fn) + " is not a function")
	}
	n := len(arr.Elements)
	for idx := 0; idx < n && idx < len(arr.Elements); idx++ {
		elem := orUndefined(arr.Elements[idx])
		result, err := ctx.Call(fn, []runtime.Value{elem, runtime.Number(float64(idx)), arr})
		if err != nil {
			return err
		}
		if !visit(idx, elem, result) {
			return nil
		}
	}
	return nil
}

func arrayMap(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	out := make([]runtime.Value, len(arr.Elements))
	for idx := range out {
		out[idx] = runtime.Undefined
	}
	err := iterate(ctx, arr, args, func(idx int, _, result runtime.Value) bool {
		out[idx] = result
		return true
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewArray(out), nil
}

func arrayFilter(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	var out []runtime.Value
	err := iterate(ctx, arr, args, func(_ int, elem, result runtime.Value) bool {
		if runtime.Truthy(result) {
			out = append(out, elem)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewArray(out), nil
}

func arrayForEach(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	err := iterate(ctx, arr, args, func(int, runtime.Value, runtime.Value) bool { return true })
	if err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

func arraySome(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	found := false
	err := iterate(ctx, arr, args, func(_ int, _, result runtime.Value) bool {
		found = runtime.Truthy(result)
		return !found
	})
	if err != nil {
		return nil, err
	}
	return runtime.Bool(found), nil
}

func arrayEvery(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	all := true
	err := iterate(ctx, arr, args, func(_ int, _, result runtime.Value) bool {
		all = runtime.Truthy(result)
		return all
	})
	if err != nil {
		return nil, err
	}
	return runtime.Bool(all), nil
}

func arrayFind(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	var found runtime.Value = runtime.Undefined
	err := iterate(ctx, arr, args, func(_ int, elem, result runtime.Value) bool {
		if runtime.Truthy(result) {
			found = elem
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func arrayFindIndex(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	found := -1
	err := iterate(ctx, arr, args, func(idx int, _, result runtime.Value) bool {
		if runtime.Truthy(result) {
			found = idx
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return runtime.Number(float64(found)), nil
}

func arrayReduce(ctx *runtime.NativeCallContext, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
	fn := arg(args, 0)
	if !runtime.IsCallable(fn) {
		return nil, errors.New("TypeError: " + runtime.ToString(fn) + " is not a function")
	}
	idx := 0
	var acc runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(arr.Elements) == 0 {
			return nil, errors.New("TypeError: Reduce of empty array with no initial value")
		}
		acc = orUndefined(arr.Elements[0])
		idx = 1
	}
	for n := len(arr.Elements); idx < n && idx < len(arr.Elements); idx++ {
		next, err := ctx.Call(fn, []runtime.Value{acc, orUndefined(arr.Elements[idx]), runtime.Number(float64(idx)), arr})
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func arrayToString(_ *runtime.NativeCallContext, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
	return runtime.String(runtime.ToString(arr)), nil
}
