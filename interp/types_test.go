package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCanonicalization(t *testing.T) {
	ts := newTypes()

	p1 := ts.PointerTo(ts.Int)
	p2 := ts.PointerTo(ts.Int)
	assert.Same(t, p1, p2, "two derivations of int* must canonicalize to the same *ValueType")

	a1 := ts.ArrayOf(ts.Char, 16)
	a2 := ts.ArrayOf(ts.Char, 16)
	assert.Same(t, a1, a2)

	a3 := ts.ArrayOf(ts.Char, 8)
	assert.NotSame(t, a1, a3, "distinct array sizes must not canonicalize together")

	pp := ts.PointerTo(p1)
	assert.Same(t, ts.CharPtrPtr, ts.PointerTo(ts.CharPtr))
	require.NotNil(t, pp)
}

func TestArraySizeof(t *testing.T) {
	ts := newTypes()
	arr := ts.ArrayOf(ts.Int, 10)
	assert.Equal(t, 80, arr.Sizeof, "array of 10 ints at 8 bytes each")

	incomplete := ts.ArrayOf(ts.Long, -1)
	assert.Equal(t, 0, incomplete.Sizeof, "incomplete arrays have no fixed size")
}

func TestPointerSizeofIsUniform(t *testing.T) {
	ts := newTypes()
	assert.Equal(t, 8, ts.PointerTo(ts.Char).Sizeof)
	assert.Equal(t, 8, ts.PointerTo(ts.ArrayOf(ts.Int, 4)).Sizeof)
}

func TestStructLayoutRoundsMemberOffsetsToAlignment(t *testing.T) {
	in := New(Options{})
	_, err := in.Eval(`struct S { char c; int x; };`)
	require.NoError(t, err)

	v, err := in.Eval(`sizeof(struct S);`)
	require.NoError(t, err)
	// char (1 byte) rounds the following int up to offset 8 (the int's own
	// alignment), then adds its 8 bytes, then the whole struct rounds up
	// to its own (the widest member's) alignment -- already a multiple of
	// 8 here, so sizeof lands at 16, not the unaligned 9 a byte-packed
	// layout would give.
	assert.Equal(t, int64(16), v.AsInt64(), "struct S must satisfy sizeof %% align == 0")

	_, err = in.Eval(`struct S s;`)
	require.NoError(t, err)
}

func TestUnionSizeofIsWidestMemberRoundedToAlignment(t *testing.T) {
	in := New(Options{})
	_, err := in.Eval(`union U { char c; short s; };`)
	require.NoError(t, err)
	v, err := in.Eval(`sizeof(union U);`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.AsInt64(), "a union's size is its widest member, rounded up to its alignment")
}

func TestIsIntegerLikeAndUnsigned(t *testing.T) {
	ts := newTypes()
	assert.True(t, ts.Int.IsIntegerLike())
	assert.True(t, ts.UnsignedLong.IsIntegerLike())
	assert.True(t, ts.UnsignedLong.IsUnsigned())
	assert.False(t, ts.Int.IsUnsigned())
	assert.False(t, ts.FP.IsIntegerLike())
	assert.True(t, ts.FP.IsNumeric())
	assert.False(t, ts.PointerTo(ts.Int).IsIntegerLike())
}
