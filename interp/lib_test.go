package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdlibMallocReallocFree(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int allocateAndGrow() {
	char *p;
	char *q;
	int total;
	p = malloc(4);
	p[0] = 1;
	p[1] = 2;
	p[2] = 3;
	p[3] = 4;
	q = realloc(p, 8);
	q[4] = 5;
	free(q);
	total = q[0] + q[1] + q[2] + q[3] + q[4];
	return total;
}
int main() { return allocateAndGrow(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(15), v.AsInt64(), "realloc must preserve the original contents, and free must not disturb them")
}

func TestStdlibAtoiAndAtof(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int parseNumbers() {
	int n;
	double f;
	n = atoi("42");
	f = atof("1.5");
	return n + (int)(f * 2);
}
int main() { return parseNumbers(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(45), v.AsInt64())
}

func TestMathLibrary(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int checkMath() {
	double root;
	double power;
	root = sqrt(16.0);
	power = pow(2.0, 10.0);
	if (root != 4.0) {
		return 0;
	}
	if (power != 1024.0) {
		return 0;
	}
	if (floor(3.7) != 3.0) {
		return 0;
	}
	if (ceil(3.2) != 4.0) {
		return 0;
	}
	return 1;
}
int main() { return checkMath(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt64())
}

func TestCtypeLibrary(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int checkCtype() {
	if (!isdigit('5')) {
		return 0;
	}
	if (isdigit('x')) {
		return 0;
	}
	if (toupper('a') != 'A') {
		return 0;
	}
	if (tolower('Z') != 'z') {
		return 0;
	}
	return 1;
}
int main() { return checkCtype(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt64())
}
