package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterp(t *testing.T) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	in := New(Options{Stdout: &out, Stderr: &out})
	require.NoError(t, in.IncludeAllSystemHeaders())
	return in, &out
}

func TestEvalArithmeticExpression(t *testing.T) {
	in, _ := newTestInterp(t)
	v, err := in.Eval("2 + 3 * 4;")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(14), v.AsInt64())
}

func TestAssignmentExpressionReturnsValue(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval("int x;")
	require.NoError(t, err)
	v, err := in.Eval("x = 7;")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.AsInt64(), "an assignment expression evaluates to the assigned value")
}

func TestShortCircuitSkipsSideEffects(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval("int calls; int sideEffect() { calls = calls + 1; return 1; }")
	require.NoError(t, err)

	v, err := in.Eval("0 && sideEffect();")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.AsInt64())

	calls, err := in.Eval("calls;")
	require.NoError(t, err)
	assert.Equal(t, int64(0), calls.AsInt64(), "short-circuited && must not evaluate its right side")
}

func TestSizeofIsPure(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval("int counter;")
	require.NoError(t, err)
	_, err = in.Eval("int bump() { counter = counter + 1; return 0; }")
	require.NoError(t, err)

	v, err := in.Eval("sizeof(bump());")
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.AsInt64(), "sizeof(int) is 8 bytes in this type registry")

	counter, err := in.Eval("counter;")
	require.NoError(t, err)
	assert.Equal(t, int64(0), counter.AsInt64(), "sizeof's operand must never execute")
}

func TestArraySizingAndIndexing(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval("int arr[5];")
	require.NoError(t, err)
	_, err = in.Eval("arr[2] = 99;")
	require.NoError(t, err)
	v, err := in.Eval("arr[2];")
	require.NoError(t, err)
	assert.Equal(t, int64(99), v.AsInt64())
}

func TestIfElseControlFlow(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int classify(int n) {
	if (n < 0) {
		return -1;
	} else if (n == 0) {
		return 0;
	} else {
		return 1;
	}
}
`
	_, err := in.Eval(src)
	require.NoError(t, err)

	_, err = in.EvalPath("<main>", "int main() { return classify(-5) + classify(0) * 10 + classify(5) * 100; }")
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(99), v.AsInt64())
}

func TestWhileLoop(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int sumTo(int n) {
	int total;
	int i;
	total = 0;
	i = 1;
	while (i <= n) {
		total = total + i;
		i = i + 1;
	}
	return total;
}
int main() { return sumTo(10); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(55), v.AsInt64())
}

func TestForLoopBreakContinue(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int oddSumUnderFive() {
	int total;
	int i;
	total = 0;
	for (i = 0; i < 10; i = i + 1) {
		if (i >= 5) {
			break;
		}
		if (i % 2 == 0) {
			continue;
		}
		total = total + i;
	}
	return total;
}
int main() { return oddSumUnderFive(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.AsInt64(), "1 + 3 = 4, for i in 0..4")
}

func TestSwitchCaseDispatch(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int pick(int n) {
	int result;
	result = -1;
	switch (n) {
	case 1:
		result = 10;
		break;
	case 2:
		result = 20;
		break;
	default:
		result = 0;
		break;
	}
	return result;
}
int main() { return pick(2) * 100 + pick(1) * 10 + pick(9); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2100), v.AsInt64())
}

func TestGotoSkipsForward(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int skipper() {
	int x;
	x = 1;
	goto done;
	x = 99;
done:
	x = x + 1;
	return x;
}
int main() { return skipper(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsInt64(), "the goto-skipped assignment must not run")
}

func TestBlockScopedLocalDoesNotLeak(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int scoped() {
	int total;
	total = 0;
	if (1) {
		int y;
		y = 5;
		total = total + y;
	}
	return total;
}
int main() { return scoped(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt64(), "y declared inside the if-block must still be usable within it")

	_, err = in.Eval("int useY() { return y; }")
	require.NoError(t, err, "a function body is captured as text when defined, not resolved")
	_, err = in.Eval("useY();")
	require.Error(t, err, "y must not be visible once its declaring block has closed")
}

func TestLoopBodyLocalIsFreshEachIteration(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int sumOfFreshLocals() {
	int i;
	int total;
	total = 0;
	for (i = 0; i < 3; i = i + 1) {
		int squared;
		squared = i * i;
		total = total + squared;
	}
	return total;
}
int main() { return sumOfFreshLocals(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt64(), "0 + 1 + 4 = 5, a fresh squared each iteration")
}

func TestGotoJumpsBackward(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int countdown() {
	int n;
	int total;
	n = 3;
	total = 0;
loop:
	total = total + n;
	n = n - 1;
	if (n > 0) {
		goto loop;
	}
	return total;
}
int main() { return countdown(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.AsInt64(), "3 + 2 + 1 = 6, a backward goto re-running the loop label")
}

func TestStaticLocalPersistsAcrossCalls(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int next() {
	static int n = 0;
	n = n + 1;
	return n;
}
`
	_, err := in.Eval(src)
	require.NoError(t, err)

	callNext, _, _, _, ok := in.globals.Get(in.intern.Register("next"))
	require.True(t, ok, "next must be defined in global scope")

	ps := newParseState(in, newLexer(in, "<call-next>", ""), nil)
	first, err := in.callFunction(ps, callNext, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.AsInt64(), "first call initializes the static local to 0, then increments")

	second, err := in.callFunction(ps, callNext, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.AsInt64(), "a static local keeps its value across calls instead of re-initializing")

	third, err := in.callFunction(ps, callNext, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.AsInt64())
}

func TestStaticLocalsInDifferentFunctionsAreDistinct(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int counterA() {
	static int n = 10;
	n = n + 1;
	return n;
}
int counterB() {
	static int n = 100;
	n = n + 1;
	return n;
}
int main() { return counterA() + counterB() + counterA(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(11+101+12), v.AsInt64(), "each function's static n is a distinct mangled slot")
}

func TestMallocFreeRoutesThroughArena(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
void *p;
int main() {
	p = malloc(4);
	return 0;
}
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	_, err = in.CallMain(nil)
	require.NoError(t, err)

	pv, _, _, _, ok := in.globals.Get(in.intern.Register("p"))
	require.True(t, ok, "p must be defined in global scope")
	require.NotNil(t, pv.Ptr, "malloc(4) must return a non-NULL pointer")
	assert.True(t, pv.Ptr.OnHeap, "a malloc'd cell must be registered with the arena, not just a bare Go slice")
	require.GreaterOrEqual(t, pv.Ptr.heapHandle, 0)
	require.Less(t, pv.Ptr.heapHandle, len(in.arena.heap))
	assert.True(t, in.arena.heap[pv.Ptr.heapHandle].used, "the arena cell backing p must be marked used before it is freed")

	_, err = in.Eval(`free(p);`)
	require.NoError(t, err)
	assert.False(t, in.arena.heap[pv.Ptr.heapHandle].used, "free(p) must release p's arena cell back to the freelist")
}

func TestDoubleFreeIsSafe(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int main() {
	char *p = malloc(8);
	free(p);
	free(p);
	return 0;
}
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	_, err = in.CallMain(nil)
	require.NoError(t, err, "freeing the same pointer twice must not error or panic")
}

func TestStdioPrintfAndStringLibrary(t *testing.T) {
	in, out := newTestInterp(t)
	src := `
int main() {
	char buf[32];
	strcpy(buf, "hi");
	printf("%s there, %d\n", buf, 2 + 2);
	return 0;
}
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	_, err = in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there, 4\n", out.String())
}

func TestExitUnwindsWithCode(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval("int main() { exit(3); return 0; }")
	require.NoError(t, err)
	_, err = in.CallMain(nil)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "exit() must unwind as *ExitError")
	assert.Equal(t, 3, exitErr.Code)
}

func TestCleanupWithoutProfilingIsNoop(t *testing.T) {
	in, _ := newTestInterp(t)
	assert.NoError(t, in.Cleanup())
}
