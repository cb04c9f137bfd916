package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReordererCommitMove(t *testing.T) {
	r := NewReorderer([]string{"a", "b", "c", "d"}, nil)
	assert.True(t, r.CommitMove("a", "c"))
	assert.Equal(t, []string{"b", "c", "a", "d"}, r.Order())
	assert.True(t, r.CommitMove("d", "b"))
	assert.Equal(t, []string{"d", "b", "c", "a"}, r.Order())

	assert.False(t, r.CommitMove("a", "a"))
	assert.False(t, r.CommitMove("a", "zz"))
	assert.False(t, r.CommitMove("zz", "a"))
	assert.Equal(t, []string{"d", "b", "c", "a"}, r.Order())
}

func TestReordererPreviewDoesNotCommit(t *testing.T) {
	r := NewReorderer([]string{"a", "b", "c"}, nil)
	require.NoError(t, r.BeginMove("a"))
	assert.Equal(t, []string{"b", "c", "a"}, r.ProposeMove("c"))
	assert.Equal(t, []string{"a", "b", "c"}, r.Order())

	r.CancelMove()
	_, ok := r.Active()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, r.Order())
}

func TestReordererSingleActiveMove(t *testing.T) {
	r := NewReorderer([]string{"a", "b"}, nil)
	require.NoError(t, r.BeginMove("a"))
	assert.True(t, errors.Is(r.BeginMove("b"), ErrMoveInProgress))

	moved, err := r.Drop("b")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"b", "a"}, r.Order())

	_, err = r.Drop("a")
	assert.ErrorIs(t, err, ErrNoActiveMove)
}

func TestReordererAbandonedMoveExpires(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := NewReorderer([]string{"a", "b", "c"}, nil, WithMoveTimeout(time.Minute), WithReorderClock(clock))

	require.NoError(t, r.BeginMove("a"))
	now = now.Add(30 * time.Second)
	assert.ErrorIs(t, r.BeginMove("b"), ErrMoveInProgress)

	now = now.Add(time.Minute)
	_, ok := r.Active()
	assert.False(t, ok)
	require.NoError(t, r.BeginMove("b"))
	active, _ := r.Active()
	assert.Equal(t, "b", active)
	assert.Equal(t, []string{"a", "b", "c"}, r.Order())
}

func TestReordererWithoutTimeoutKeepsMove(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	r := NewReorderer([]string{"a", "b"}, nil, WithMoveTimeout(0), WithReorderClock(func() time.Time { return now }))
	require.NoError(t, r.BeginMove("a"))
	now = now.Add(24 * time.Hour)
	assert.ErrorIs(t, r.BeginMove("b"), ErrMoveInProgress)
}

func TestReordererBeginMoveUnknownIsIgnored(t *testing.T) {
	r := NewReorderer([]string{"a"}, nil)
	require.NoError(t, r.BeginMove("missing"))
	_, ok := r.Active()
	assert.False(t, ok)
}

func TestReordererPartitions(t *testing.T) {
	partition := func(id string) string {
		if strings.HasPrefix(id, "stat-") {
			return "stats"
		}
		return "cards"
	}
	r := NewReorderer([]string{"stat-a", "stat-b", "x", "y"}, partition)
	assert.False(t, r.CommitMove("stat-a", "x"))
	assert.True(t, r.CommitMove("stat-b", "stat-a"))
	assert.Equal(t, []string{"stat-b", "stat-a", "x", "y"}, r.Order())

	assert.True(t, r.MoveBy("x", 1))
	assert.Equal(t, []string{"stat-b", "stat-a", "y", "x"}, r.Order())
	assert.False(t, r.MoveBy("x", 1), "moving past the edge is a no-op")
	assert.False(t, r.MoveBy("y", -1), "neighbour in another partition is skipped")
}

func TestReordererAppendRemovePrependSync(t *testing.T) {
	r := NewReorderer([]string{"a"}, nil)
	assert.True(t, r.Append("b"))
	assert.False(t, r.Append("b"))
	assert.Equal(t, 2, r.Prepend("s1", "s2", "a"))
	assert.Equal(t, []string{"s1", "s2", "a", "b"}, r.Order())

	require.NoError(t, r.BeginMove("b"))
	assert.True(t, r.Remove("b"))
	_, ok := r.Active()
	assert.False(t, ok, "removing the active id clears the move")
	assert.False(t, r.Remove("b"))

	r.Sync([]string{"c", "a", "s1"})
	assert.Equal(t, []string{"s1", "a", "c"}, r.Order())
}
