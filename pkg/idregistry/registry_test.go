package idregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignOrGetStableAndMonotonic(t *testing.T) {
	r := New()

	h1, wasNew := r.AssignOrGet("uid-a")
	assert.True(t, wasNew)
	assert.Equal(t, Handle(0), h1)

	h1Again, wasNew := r.AssignOrGet("uid-a")
	assert.False(t, wasNew)
	assert.Equal(t, h1, h1Again)

	h2, wasNew := r.AssignOrGet("uid-b")
	assert.True(t, wasNew)
	assert.Equal(t, Handle(1), h2)
	assert.NotEqual(t, h1, h2)
}

func TestHandleOfAndUIDOf(t *testing.T) {
	r := New()
	h, _ := r.AssignOrGet("uid-a")

	got, ok := r.HandleOf("uid-a")
	assert.True(t, ok)
	assert.Equal(t, h, got)

	_, ok = r.HandleOf("unknown")
	assert.False(t, ok)

	uid, ok := r.UIDOf(h)
	assert.True(t, ok)
	assert.Equal(t, "uid-a", uid)

	_, ok = r.UIDOf(Handle(999))
	assert.False(t, ok)

	_, ok = r.UIDOf(Handle(-1))
	assert.False(t, ok)
}

func TestLen(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	r.AssignOrGet("a")
	r.AssignOrGet("b")
	r.AssignOrGet("a")
	assert.Equal(t, 2, r.Len())
}
