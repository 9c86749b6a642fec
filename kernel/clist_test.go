package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCList_PushPopHead_FIFO(t *testing.T) {
	c := newCList(1, 8)
	require.True(t, c.empty(0))

	c.push(2, 0)
	c.push(5, 0)
	c.push(1, 0)

	assert.Equal(t, ThreadID(2), c.popHead(0))
	assert.Equal(t, ThreadID(5), c.popHead(0))
	assert.Equal(t, ThreadID(1), c.popHead(0))
	assert.True(t, c.empty(0))
	assert.Equal(t, Sentinel, c.popHead(0))
}

func TestCList_Push_NoOpIfAlreadyLinked(t *testing.T) {
	c := newCList(2, 8)
	c.push(3, 0)
	c.push(3, 1) // already linked in queue 0, must be a no-op

	assert.False(t, c.empty(0))
	assert.True(t, c.empty(1))
}

func TestCList_Advance_RotatesOneStep(t *testing.T) {
	c := newCList(1, 8)
	c.push(1, 0)
	c.push(2, 0)
	c.push(3, 0)

	require.Equal(t, ThreadID(1), c.peekHead(0))
	c.advance(0)
	assert.Equal(t, ThreadID(2), c.peekHead(0))
	c.advance(0)
	assert.Equal(t, ThreadID(3), c.peekHead(0))
	c.advance(0)
	assert.Equal(t, ThreadID(1), c.peekHead(0))
}

func TestCList_DelFrom_Head_Middle_Tail_Sole(t *testing.T) {
	c := newCList(1, 8)
	c.push(1, 0)
	c.push(2, 0)
	c.push(3, 0)

	require.True(t, c.delFrom(2, 0)) // middle
	assert.Equal(t, []ThreadID{1, 3}, drain(c, 0))

	c.push(1, 0)
	c.push(2, 0)
	require.True(t, c.delFrom(1, 0)) // head
	assert.Equal(t, []ThreadID{2}, drain(c, 0))

	c.push(9, 0)
	require.True(t, c.delFrom(9, 0)) // sole element
	assert.True(t, c.empty(0))

	assert.False(t, c.delFrom(42, 0)) // not present: no-op
}

func TestCList_PopNext_LeavesHeadInPlace(t *testing.T) {
	c := newCList(1, 8)
	c.push(1, 0)
	c.push(2, 0)
	c.push(3, 0)

	next := c.popNext(0)
	assert.Equal(t, ThreadID(2), next)
	assert.Equal(t, ThreadID(1), c.peekHead(0))
	assert.Equal(t, []ThreadID{1, 3}, drain(c, 0))
}

func drain(c *clist, q int) []ThreadID {
	var out []ThreadID
	for !c.empty(q) {
		out = append(out, c.popHead(q))
	}
	return out
}
