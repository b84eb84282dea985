package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kiz-lang/kiz/builtins"
	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/parser"
	"github.com/stretchr/testify/require"
)

// run compiles and executes src as a module, returning the top-of-stack
// value left by its last expression statement (spec.md §6: a module's
// final expression value is the REPL/eval result).
func run(t *testing.T, src string) object.Value {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	code, err := compiler.CompileModule(prog)
	require.NoError(t, err)

	globals := builtins.Install(&bytes.Buffer{}, strings.NewReader(""))
	machine := New(globals)
	state, err := machine.Load(code, t.TempDir())
	require.NoError(t, err)
	return state.Top
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	code, err := compiler.CompileModule(prog)
	require.NoError(t, err)

	globals := builtins.Install(&bytes.Buffer{}, strings.NewReader(""))
	machine := New(globals)
	_, err = machine.Load(code, t.TempDir())
	return err
}

func TestIntArithmetic(t *testing.T) {
	v := run(t, "3 + 4 * 2")
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "11", i.Value.String())
}

func TestIntDivisionProducesRational(t *testing.T) {
	v := run(t, "10 / 3")
	r, ok := v.(*object.Rational)
	require.True(t, ok, "int/int division must produce a Rational, got %T", v)
	require.Equal(t, "10/3", r.Value.String())
}

func TestIntModIsTruncating(t *testing.T) {
	v := run(t, "10 % 3")
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "1", i.Value.String())
}

func TestIntPowNegativeExponentProducesRational(t *testing.T) {
	v := run(t, "2 ^ -2")
	r, ok := v.(*object.Rational)
	require.True(t, ok)
	require.Equal(t, "1/4", r.Value.String())
}

func TestComparisonLeGe(t *testing.T) {
	require.Equal(t, object.True, run(t, "3 <= 3"))
	require.Equal(t, object.False, run(t, "4 <= 3"))
	require.Equal(t, object.True, run(t, "5 >= 3"))
	require.Equal(t, object.False, run(t, "2 >= 3"))
}

func TestStringConcatAndMul(t *testing.T) {
	v := run(t, `"a" + "b"`)
	s, ok := v.(*object.String)
	require.True(t, ok)
	require.Equal(t, "ab", s.Value)

	v = run(t, `"ab" * 3`)
	s, ok = v.(*object.String)
	require.True(t, ok)
	require.Equal(t, "ababab", s.Value)
}

func TestListConcatAndEquality(t *testing.T) {
	v := run(t, "[1, 2] + [3]")
	l, ok := v.(*object.List)
	require.True(t, ok)
	require.Len(t, l.Elements, 3)

	require.Equal(t, object.True, run(t, "[1, 2] == [1, 2]"))
	require.Equal(t, object.False, run(t, "[1, 2] == [1, 3]"))
}

// TestInDispatchesOnNeedle exercises the subtle rule that `in` dispatches
// on the Left (needle) operand's magic slot, not the container's.
func TestInDispatchesOnNeedle(t *testing.T) {
	require.Equal(t, object.True, run(t, `"b" in "abc"`))
	require.Equal(t, object.False, run(t, `"z" in "abc"`))
	require.Equal(t, object.True, run(t, `"b" in ["a", "b", "c"]`))
	require.Equal(t, object.False, run(t, `"z" in ["a", "b", "c"]`))
	require.Equal(t, object.True, run(t, `"key" in {"key": 1}`))
	require.Equal(t, object.False, run(t, `"missing" in {"key": 1}`))
}

func TestAndOrShortCircuit(t *testing.T) {
	require.Equal(t, object.False, run(t, "false and (1 / 0 == 1)"))
	require.Equal(t, object.True, run(t, "true or (1 / 0 == 1)"))
}

func TestIfElse(t *testing.T) {
	v := run(t, `
	var x = 10
	var y = 0
	if x > 5
		y = 1
	else
		y = 2
	end
	y
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "1", i.Value.String())
}

func TestWhileBreakContinue(t *testing.T) {
	v := run(t, `
	var i = 0
	var sum = 0
	while i < 10
		i = i + 1
		if i == 5
			continue
		end
		if i > 8
			break
		end
		sum = sum + i
	end
	sum
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "31", i.Value.String())
}

func TestFunctionCallAndReturn(t *testing.T) {
	v := run(t, `
	func add(a, b)
		return a + b
	end
	add(3, 4)
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "7", i.Value.String())
}

func TestRecursiveFunction(t *testing.T) {
	v := run(t, `
	func fact(n)
		if n <= 1
			return 1
		end
		return n * fact(n - 1)
	end
	fact(6)
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "720", i.Value.String())
}

func TestClosureCapturesByName(t *testing.T) {
	v := run(t, `
	var counter = 0
	func increment()
		counter = counter + 1
		return counter
	end
	increment()
	increment()
	increment()
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "3", i.Value.String())
}

func TestLambdaAsValue(t *testing.T) {
	v := run(t, `
	var square = func(x) return x * x end
	square(5)
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "25", i.Value.String())
}

// TestNestedListIndexSurvivesReceiverRelease guards against a refcount
// ordering bug: GET_INDEX must acquire the indexed-out element before
// releasing the (possibly solely stack-owned) receiver, or the element
// can be destroyed out from under the result it still needs to be.
func TestNestedListIndexSurvivesReceiverRelease(t *testing.T) {
	v := run(t, "[[1, 2], [3, 4]][0][1]")
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "2", i.Value.String())
}

func TestDictLiteralAndIndex(t *testing.T) {
	v := run(t, `
	var d = {"a": 1, "b": 2}
	d["a"]
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "1", i.Value.String())
}

func TestListIndexAssignment(t *testing.T) {
	v := run(t, `
	var l = [1, 2, 3]
	l[1] = 99
	l[1]
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "99", i.Value.String())
}

func TestAttrGetSetOnDict(t *testing.T) {
	v := run(t, `
	var d = {}
	d.x = 42
	d.x
	`)
	i, ok := v.(*object.Int)
	require.True(t, ok)
	require.Equal(t, "42", i.Value.String())
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	err := runErr(t, "1 / 0")
	require.Error(t, err)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	err := runErr(t, "undefined_name + 1")
	require.Error(t, err)
}

func TestTypeMismatchIsRuntimeError(t *testing.T) {
	err := runErr(t, `1 + "a"`)
	require.Error(t, err)
}

func TestBoolAndNilEquality(t *testing.T) {
	require.Equal(t, object.True, run(t, "true == true"))
	require.Equal(t, object.False, run(t, "true == false"))
	require.Equal(t, object.True, run(t, "nil == nil"))
}

func TestIsIdentity(t *testing.T) {
	v := run(t, `
	var a = [1]
	var b = a
	a is b
	`)
	require.Equal(t, object.True, v)

	v = run(t, "[1] is [1]")
	require.Equal(t, object.False, v)
}

// runPrinted runs src and returns everything written via print, mirroring
// spec.md §8's end-to-end scenarios which assert on printed output rather
// than a bare final expression.
func runPrinted(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	code, err := compiler.CompileModule(prog)
	require.NoError(t, err)

	var out bytes.Buffer
	globals := builtins.Install(&out, strings.NewReader(""))
	machine := New(globals)
	_, err = machine.Load(code, t.TempDir())
	require.NoError(t, err)
	return out.String()
}

// TestSemicolonSeparatedStatements mirrors spec.md §8 scenario 2,
// `var x = 10; var y = 3; print(x / y); print(x % y)`, which is
// unparseable without `;` as a recognized, skippable token.
func TestSemicolonSeparatedStatements(t *testing.T) {
	out := runPrinted(t, `var x = 10; var y = 3; print(x / y); print(x % y)`)
	require.Equal(t, "10/3\n1\n", out)
}

// TestSemicolonAfterBlockEnd mirrors spec.md §8 scenario 3's recursive
// factorial, written with `;` after both `end` keywords.
func TestSemicolonAfterBlockEnd(t *testing.T) {
	out := runPrinted(t, `
	func fact(n) if n == 0 return 1 end; return n * fact(n - 1) end;
	print(fact(10))
	`)
	require.Equal(t, "3628800\n", out)
}

// TestSemicolonInWhileLoop mirrors spec.md §8 scenario 4's string-
// building loop, written with `;` separating the var decls and the
// final print from the while loop.
func TestSemicolonInWhileLoop(t *testing.T) {
	out := runPrinted(t, `
	var s = ""; var i = 0
	while i < 3
		s = s + "a"
		i = i + 1
	end; print(s)
	`)
	require.Equal(t, "\"aaa\"\n", out)
}
