package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternUniqueness(t *testing.T) {
	in := newIntern()
	a := in.Register("foo")
	b := in.Register("foo")
	assert.Equal(t, a, b)

	c := in.Register("bar")
	assert.NotEqual(t, a, c)
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := newTable()
	v := &Value{Int: 42}

	ok := tbl.Set("x", v, "test.c", 1, 1)
	assert.True(t, ok, "first declaration should succeed")

	ok = tbl.Set("x", &Value{Int: 99}, "test.c", 2, 1)
	assert.False(t, ok, "redeclaring the same key must be rejected")

	got, file, line, _, found := tbl.Get("x")
	assert.True(t, found)
	assert.Equal(t, v, got)
	assert.Equal(t, "test.c", file)
	assert.Equal(t, 1, line)

	deleted := tbl.Delete("x")
	assert.Equal(t, v, deleted)

	_, _, _, _, found = tbl.Get("x")
	assert.False(t, found, "deleted key must no longer be found")
}
