package proxy

import (
	"go/token"
	"reflect"
)

// Call invokes the named method of target with boxed arguments and returns its boxed
// results. Nil arguments become zero values of the parameter type. When the method is
// variadic, the final argument may be passed either expanded or as a single slice.
func Call(target any, name string, args ...any) ([]any, error) {
	return invoke(target, name, args, false)
}

// callSlice is Call with the final argument always taken as the variadic slice
func callSlice(target any, name string, args []any) ([]any, error) {
	return invoke(target, name, args, true)
}

func invoke(target any, name string, args []any, asSlice bool) ([]any, error) {
	if target == nil {
		return nil, newError(ErrNilTarget, "", name, "cannot call method on nil target")
	}

	value := reflect.ValueOf(target)
	method := value.MethodByName(name)
	if !method.IsValid() {
		if !token.IsExported(name) {
			return nil, newError(ErrUnknownMethod, typeName(value.Type()), name, "unexported methods cannot be called by reflection")
		}
		return nil, newError(ErrUnknownMethod, typeName(value.Type()), name, "method not found")
	}

	in, spread, err := buildArguments(method.Type(), typeName(value.Type()), name, args, asSlice)
	if err != nil {
		return nil, err
	}

	var out []reflect.Value
	if spread {
		out = method.CallSlice(in)
	} else {
		out = method.Call(in)
	}
	return boxResults(out), nil
}

// buildArguments converts boxed arguments to reflect values for fnType. spread reports
// whether the final argument is the variadic slice itself; asSlice forces it.
func buildArguments(fnType reflect.Type, ifaceName, methodName string, args []any, asSlice bool) ([]reflect.Value, bool, error) {
	numIn := fnType.NumIn()
	variadic := fnType.IsVariadic()

	if !variadic && len(args) != numIn {
		return nil, false, newError(ErrArgumentCount, ifaceName, methodName, "got %d arguments, want %d", len(args), numIn)
	}
	if variadic && len(args) < numIn-1 {
		return nil, false, newError(ErrArgumentCount, ifaceName, methodName, "got %d arguments, want at least %d", len(args), numIn-1)
	}

	if asSlice && (!variadic || len(args) != numIn) {
		return nil, false, newError(ErrArgumentCount, ifaceName, methodName, "got %d arguments, want %d with the variadic slice last", len(args), numIn)
	}

	spread := asSlice
	if !spread && variadic && len(args) == numIn {
		last := args[numIn-1]
		sliceType := fnType.In(numIn - 1)
		if last == nil || reflect.TypeOf(last).AssignableTo(sliceType) {
			spread = true
		}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		switch {
		case variadic && i >= numIn-1 && !spread:
			paramType = fnType.In(numIn - 1).Elem()
		default:
			paramType = fnType.In(i)
		}

		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}

		argValue := reflect.ValueOf(arg)
		if !argValue.Type().AssignableTo(paramType) {
			return nil, false, newError(ErrArgumentType, ifaceName, methodName, "argument %d is %s, want %s", i, argValue.Type(), paramType)
		}
		in[i] = argValue
	}

	return in, spread, nil
}

// boxResults converts reflect results to boxed values. Nil interfaces, pointers, maps,
// slices, channels and funcs are boxed as untyped nil so that Result[error] and friends
// observe a true nil.
func boxResults(out []reflect.Value) []any {
	results := make([]any, len(out))
	for i, v := range out {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			if v.IsNil() {
				results[i] = nil
				continue
			}
		}
		results[i] = v.Interface()
	}
	return results
}
