package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfMacroSubstitution(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
#define LEVEL 2
#if LEVEL > 1
int flag = 1;
#else
int flag = 0;
#endif
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.Eval("flag;")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt64(), "#if LEVEL > 1 must expand LEVEL's macro body before comparing")
}

func TestIfUndefinedIdentifierIsZero(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
#if NOT_DEFINED_ANYWHERE
int flag = 1;
#else
int flag = 0;
#endif
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.Eval("flag;")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.AsInt64(), "a genuinely undefined identifier in #if evaluates to 0")
}

func TestNestedIfElseEndif(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
#define OUTER 1
#define INNER 0
#if OUTER
#if INNER
int flag = 1;
#else
int flag = 2;
#endif
#else
int flag = 3;
#endif
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	v, err := in.Eval("flag;")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsInt64(), "outer #if true, nested #if false must select the nested #else branch")
}

func TestIfdefIfndefGating(t *testing.T) {
	in, _ := newTestInterp(t)
	src := `
#define FEATURE_X
#ifdef FEATURE_X
int a = 10;
#endif
#ifndef FEATURE_Y
int b = 20;
#endif
`
	_, err := in.Eval(src)
	require.NoError(t, err)
	a, err := in.Eval("a;")
	require.NoError(t, err)
	assert.Equal(t, int64(10), a.AsInt64())
	b, err := in.Eval("b;")
	require.NoError(t, err)
	assert.Equal(t, int64(20), b.AsInt64())
}

func TestIncludeRegistersLibraryFunctions(t *testing.T) {
	in, _ := newTestInterp(t)
	_, err := in.Eval(`#include <string.h>
int main() {
	char buf[8];
	strcpy(buf, "hi");
	return strlen(buf);
}`)
	require.NoError(t, err)
	v, err := in.CallMain(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsInt64(), "#include <string.h> must register strcpy/strlen into global scope")
}
