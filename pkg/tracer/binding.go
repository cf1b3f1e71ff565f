package tracer

import "dsaviz/interpreter-go/pkg/runtime"

// BindingName is the global under which the primitives are exposed to an
// instrumented program.
const BindingName = "__viz"

// Primitive names as they appear in instrumented source.
const (
	MethodCreateArray     = "createArray"
	MethodSetArrayElement = "setArrayElement"
	MethodRefreshArray    = "refreshArray"
	MethodRefreshString   = "refreshString"
	MethodCreateString    = "createString"
	MethodUpdateString    = "updateString"
	MethodCreateVar       = "createVar"
	MethodUpdateVar       = "updateVar"
)

// IsPrimitive reports whether name is one of the tracer primitives.
func IsPrimitive(name string) bool {
	switch name {
	case MethodCreateArray, MethodSetArrayElement, MethodRefreshArray, MethodRefreshString,
		MethodCreateString, MethodUpdateString, MethodCreateVar, MethodUpdateVar:
		return true
	}
	return false
}

// Binding returns the __viz namespace object whose methods drive r.
func (r *Runtime) Binding() *runtime.ObjectValue {
	obj := runtime.NewObject(BindingName)
	obj.DefineNative(MethodCreateArray, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.CreateArray(arg(args, 0), nameArg(args, 1)), nil
	})
	obj.DefineNative(MethodSetArrayElement, 3, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.SetArrayElement(nameArg(args, 0), arg(args, 1), arg(args, 2)), nil
	})
	obj.DefineNative(MethodRefreshArray, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.RefreshArray(nameArg(args, 0), arg(args, 1)), nil
	})
	obj.DefineNative(MethodRefreshString, 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.RefreshString(nameArg(args, 0)), nil
	})
	obj.DefineNative(MethodCreateString, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.CreateString(arg(args, 0), nameArg(args, 1)), nil
	})
	obj.DefineNative(MethodUpdateString, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.UpdateString(nameArg(args, 0), arg(args, 1)), nil
	})
	obj.DefineNative(MethodCreateVar, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.CreateVar(arg(args, 0), nameArg(args, 1)), nil
	})
	obj.DefineNative(MethodUpdateVar, 2, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return r.UpdateVar(nameArg(args, 0), arg(args, 1)), nil
	})
	return obj
}

func arg(args []runtime.Value, idx int) runtime.Value {
	if idx < len(args) {
		return orUndefined(args[idx])
	}
	return runtime.Undefined
}

func nameArg(args []runtime.Value, idx int) string {
	return runtime.ToString(arg(args, idx))
}
