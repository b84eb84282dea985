package builtins

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/kiz-lang/kiz/bigrat"
	"github.com/kiz-lang/kiz/errz"
	"github.com/kiz-lang/kiz/object"
)

// printFn implements `print(x…)`: writes the concatenated
// to_display_string of each argument followed by a newline, per spec.md
// §6, and returns Nil.
func printFn(stdout io.Writer) object.NativeFn {
	return func(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
		for _, a := range args {
			fmt.Fprint(stdout, a.Display())
		}
		fmt.Fprintln(stdout)
		return object.Nil, nil
	}
}

// inputFn implements `input(prompt)`: writes prompt to stdout, reads one
// line from stdin, and returns it as a String with its trailing newline
// stripped.
func inputFn(stdout io.Writer, reader *bufio.Reader) object.NativeFn {
	return func(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
		if len(args) > 0 {
			if s, ok := args[0].(*object.String); ok {
				fmt.Fprint(stdout, s.RawDisplay())
			} else {
				fmt.Fprint(stdout, args[0].Display())
			}
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return object.NewString(""), nil
			}
			return nil, errz.NewRuntimeError("input: %s", err)
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		return object.NewString(line), nil
	}
}

// isinstanceFn implements `isinstance(value, kind)`, kind given as the
// String name of a spec.md §3.1 kind tag ("int", "string", "list", …).
func isinstanceFn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, errz.NewRuntimeError("isinstance expects 2 arguments, got %d", len(args))
	}
	kindName, ok := args[1].(*object.String)
	if !ok {
		return nil, object.TypeErrorf("isinstance: second argument must be a string, got %s", args[1].Kind())
	}
	return object.NewBool(string(args[0].Kind()) == kindName.Value), nil
}

// lenFn is SPEC_FULL.md's supplemented length helper: the number of
// elements for List and Dict, number of bytes for String.
func lenFn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errz.NewRuntimeError("len expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *object.String:
		return object.NewIntFromInt64(int64(len(v.Value))), nil
	case *object.List:
		return object.NewIntFromInt64(int64(v.Len())), nil
	case *object.Dict:
		return object.NewIntFromInt64(int64(v.Len())), nil
	default:
		return nil, object.TypeErrorf("len: unsupported type %s", v.Kind())
	}
}

// strFn is SPEC_FULL.md's supplemented stringification helper: returns
// the raw (unquoted) display form, unlike print which quotes strings.
func strFn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errz.NewRuntimeError("str expects 1 argument, got %d", len(args))
	}
	if s, ok := args[0].(*object.String); ok {
		return object.NewString(s.RawDisplay()), nil
	}
	return object.NewString(args[0].Display()), nil
}

// intFn is SPEC_FULL.md's supplemented int-coercion helper: truncates a
// Rational toward zero and parses decimal String input.
func intFn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errz.NewRuntimeError("int expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *object.Int:
		return v, nil
	case *object.Rational:
		return object.NewInt(truncateToInt(v.Value)), nil
	case *object.String:
		n, err := bigrat.ParseInt(v.Value)
		if err != nil {
			return nil, errz.NewRuntimeError("int: %s", err)
		}
		return object.NewInt(n), nil
	default:
		return nil, object.TypeErrorf("int: unsupported type %s", v.Kind())
	}
}

// truncateToInt divides numerator by denominator with truncation toward
// zero, since bigrat.Rational has no direct truncating accessor.
func truncateToInt(r bigrat.Rational) bigrat.Int {
	num := r.Num()
	den := r.Den()
	q, _ := num.Div(den)
	return q
}

// typeFn is SPEC_FULL.md's supplemented reflection helper: returns the
// value's kind tag as a String, e.g. "int", "list".
func typeFn(_ context.Context, _ object.Value, args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errz.NewRuntimeError("type expects 1 argument, got %d", len(args))
	}
	return object.NewString(string(args[0].Kind())), nil
}
