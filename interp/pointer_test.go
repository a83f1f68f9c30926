package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerArithmeticOverArray(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int sumThroughPointer() {
	int arr[4];
	int *p;
	int total;
	arr[0] = 10;
	arr[1] = 20;
	arr[2] = 30;
	arr[3] = 40;
	p = &arr[0];
	total = *p + *(p + 1) + *(p + 2) + *(p + 3);
	return total;
}
int main() { return sumThroughPointer(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.AsInt64())
}

func TestPointerComparisonAcrossArrayElements(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int comparePointers() {
	int arr[3];
	int *p;
	int *q;
	p = &arr[0];
	q = &arr[1];
	if (p == q) {
		return 0;
	}
	if (p + 1 != q) {
		return 0;
	}
	q = &arr[0];
	if (p != q) {
		return 0;
	}
	return 1;
}
int main() { return comparePointers(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt64(), "pointers into the same array must compare by element position, not always equal")
}

func TestPointerWriteThroughAliasesArray(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
int writeThroughPointer() {
	int arr[3];
	int *p;
	arr[1] = 5;
	p = &arr[1];
	*p = 77;
	return arr[1];
}
int main() { return writeThroughPointer(); }
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(77), v.AsInt64(), "writing through a pointer derived from &arr[i] must be visible through arr[i]")
}
