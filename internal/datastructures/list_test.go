package datastructures

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkLinks walks the list both ways and verifies the link structure.
func checkLinks[T comparable](t *testing.T, l *List[T]) {
	t.Helper()

	if l.head == nil || l.tail == nil {
		require.Nil(t, l.head, "head set without tail")
		require.Nil(t, l.tail, "tail set without head")
		require.Equal(t, 0, l.length)
		return
	}
	require.Nil(t, l.head.prev, "head has a predecessor")
	require.Nil(t, l.tail.next, "tail has a successor")

	steps := 0
	cur := l.head
	for cur != l.tail {
		require.NotNil(t, cur.next, "forward walk fell off before the tail")
		require.Same(t, cur, cur.next.prev, "broken back link at step %d", steps)
		cur = cur.next
		steps++
		require.LessOrEqual(t, steps, l.length, "cycle detected")
	}
	require.Equal(t, l.length-1, steps)

	steps = 0
	for cur = l.tail; cur != l.head; cur = cur.prev {
		steps++
	}
	require.Equal(t, l.length-1, steps)
}

func listOf(values ...int) *List[int] {
	l := NewList[int]()
	for _, v := range values {
		_ = l.RPush(v)
	}
	return l
}

func TestNewList(t *testing.T) {
	l := NewList[int]()
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.head)
	assert.Nil(t, l.tail)

	var zero List[string]
	assert.True(t, zero.IsEmpty())
	require.NoError(t, zero.RPush("a"))
	assert.Equal(t, "[a]", zero.Render(Forward))
}

func TestLPushLPop(t *testing.T) {
	l := NewList[int]()

	require.NoError(t, l.LPush(42))
	require.NotNil(t, l.head)
	assert.Same(t, l.head, l.tail)
	checkLinks(t, l)

	v, err := l.LPop()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, l.IsEmpty())
	checkLinks(t, l)

	require.NoError(t, l.LPush(42))
	require.NoError(t, l.LPush(84))
	assert.Same(t, l.tail, l.head.next)
	assert.Same(t, l.head, l.tail.prev)
	checkLinks(t, l)

	v, err = l.LPop()
	require.NoError(t, err)
	assert.Equal(t, 84, v)
	assert.Same(t, l.head, l.tail)
	assert.Nil(t, l.head.next)

	v, err = l.LPop()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	checkLinks(t, l)
}

func TestRPushRPop(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.RPush(1))
	require.NoError(t, l.RPush(2))
	checkLinks(t, l)

	v, err := l.RPop()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, l.Len())

	v, err = l.RPop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.True(t, l.IsEmpty())
	checkLinks(t, l)
}

func TestPushWithoutValueInsertsZero(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.LPush())
	require.NoError(t, l.RPush())
	assert.Equal(t, []int{0, 0}, l.Slice(Forward))
}

func TestPushManyKeepsOrder(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.RPush(1, 2, 3))
	require.NoError(t, l.LPush(0, -1))
	assert.Equal(t, []int{-1, 0, 1, 2, 3}, l.Slice(Forward))
	checkLinks(t, l)
}

func TestPopEmpty(t *testing.T) {
	l := NewList[int]()

	_, err := l.LPop()
	assert.ErrorIs(t, err, ErrEmptyList)
	_, err = l.RPop()
	assert.ErrorIs(t, err, ErrEmptyList)
	_, err = l.Front()
	assert.ErrorIs(t, err, ErrEmptyList)
	_, err = l.Back()
	assert.ErrorIs(t, err, ErrEmptyList)

	assert.True(t, l.IsEmpty())
	checkLinks(t, l)
}

func TestFrontBack(t *testing.T) {
	l := listOf(3, 4, 5)
	front, err := l.Front()
	require.NoError(t, err)
	back, err := l.Back()
	require.NoError(t, err)
	assert.Equal(t, 3, front)
	assert.Equal(t, 5, back)
	assert.Equal(t, 3, l.Len())
}

func TestBoundedList(t *testing.T) {
	l := NewBoundedList[int](3)
	require.NoError(t, l.RPush(1, 2))

	err := l.RPush(3, 4)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, []int{1, 2}, l.Slice(Forward), "failed push must not change the list")

	require.NoError(t, l.LPush(0))
	assert.ErrorIs(t, l.LPush(-1), ErrOutOfMemory)
	assert.ErrorIs(t, l.RPush(), ErrOutOfMemory)
	checkLinks(t, l)

	_, err = l.LPop()
	require.NoError(t, err)
	require.NoError(t, l.RPush(9))
	assert.Equal(t, []int{1, 2, 9}, l.Slice(Forward))

	unbounded := NewBoundedList[int](-5)
	require.NoError(t, unbounded.RPush(make([]int, 100)...))
	assert.Equal(t, 100, unbounded.Len())
}

func TestRender(t *testing.T) {
	l := NewList[int]()
	assert.Equal(t, "[]", l.Render(Forward))
	assert.Equal(t, "[]", l.Render(Backward))

	require.NoError(t, l.RPush(1))
	require.NoError(t, l.RPush(2))
	require.NoError(t, l.RPush(3))
	assert.Equal(t, "[1,2,3]", l.Render(Forward))
	assert.Equal(t, "[3,2,1]", l.Render(Backward))
	assert.Equal(t, 3, l.Len(), "render must not mutate")
}

func TestValuesStopsEarly(t *testing.T) {
	l := listOf(1, 2, 3, 4)
	var seen []int
	for v := range l.Values(Backward) {
		seen = append(seen, v)
		if v == 3 {
			break
		}
	}
	assert.Equal(t, []int{4, 3}, seen)
}

func TestRemoveWhere(t *testing.T) {
	tests := []struct {
		name    string
		values  []int
		pred    func(int, int) bool
		want    []int
		removed int
	}{
		{
			name:    "even positions",
			values:  []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			pred:    func(pos, _ int) bool { return pos%2 == 0 },
			want:    []int{1, 3, 5, 7, 9},
			removed: 5,
		},
		{
			name:    "odd positions are not renumbered",
			values:  []int{10, 11, 12, 13, 14},
			pred:    func(pos, _ int) bool { return pos%2 == 1 },
			want:    []int{10, 12, 14},
			removed: 2,
		},
		{
			name:    "everything",
			values:  []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			pred:    func(int, int) bool { return true },
			want:    []int{},
			removed: 10,
		},
		{
			name:    "outside 3 to 7",
			values:  []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			pred:    func(_, v int) bool { return v < 3 || v > 7 },
			want:    []int{3, 4, 5, 6, 7},
			removed: 5,
		},
		{
			name:    "head and tail only",
			values:  []int{1, 2, 3, 4},
			pred:    func(pos, _ int) bool { return pos == 0 || pos == 3 },
			want:    []int{2, 3},
			removed: 2,
		},
		{
			name:    "interior run",
			values:  []int{1, 2, 3, 4, 5},
			pred:    func(pos, _ int) bool { return pos >= 1 && pos <= 3 },
			want:    []int{1, 5},
			removed: 3,
		},
		{
			name:    "single element removed",
			values:  []int{7},
			pred:    func(_, v int) bool { return v == 7 },
			want:    []int{},
			removed: 1,
		},
		{
			name:    "nothing matches",
			values:  []int{1, 2, 3},
			pred:    func(int, int) bool { return false },
			want:    []int{1, 2, 3},
			removed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf(tt.values...)
			removed := l.RemoveWhere(tt.pred)
			assert.Equal(t, tt.removed, removed)
			assert.Equal(t, tt.want, l.Slice(Forward))
			assert.Equal(t, len(tt.want), l.Len())
			checkLinks(t, l)
		})
	}
}

func TestRemoveWhereSeesEveryPositionOnce(t *testing.T) {
	l := listOf(5, 6, 7, 8)
	var positions []int
	l.RemoveWhere(func(pos, _ int) bool {
		positions = append(positions, pos)
		return pos < 2
	})
	assert.Equal(t, []int{0, 1, 2, 3}, positions)
	assert.Equal(t, []int{7, 8}, l.Slice(Forward))
}

func TestRemoveWhereNoop(t *testing.T) {
	l := listOf(1, 2, 3)
	assert.Equal(t, 0, l.RemoveWhere(nil))
	assert.Equal(t, []int{1, 2, 3}, l.Slice(Forward))

	called := false
	empty := NewList[int]()
	assert.Equal(t, 0, empty.RemoveWhere(func(int, int) bool {
		called = true
		return true
	}))
	assert.False(t, called)
}

func TestTruncateAfter(t *testing.T) {
	t.Run("keeps prefix", func(t *testing.T) {
		l := listOf(1, 2, 3, 4, 5)
		require.NoError(t, l.TruncateAfter(2))
		assert.Equal(t, []int{1, 2}, l.Slice(Forward))
		assert.Equal(t, "[2,1]", l.Render(Backward))
		checkLinks(t, l)
	})

	t.Run("last index", func(t *testing.T) {
		l := listOf(1, 2, 3)
		require.NoError(t, l.TruncateAfter(2))
		assert.Equal(t, []int{1, 2}, l.Slice(Forward))
		checkLinks(t, l)
	})

	t.Run("zero empties", func(t *testing.T) {
		l := listOf(1, 2, 3)
		require.NoError(t, l.TruncateAfter(0))
		assert.True(t, l.IsEmpty())
		checkLinks(t, l)
	})

	for _, pos := range []int{3, 4, 100, -1} {
		l := listOf(1, 2, 3)
		err := l.TruncateAfter(pos)
		assert.ErrorIs(t, err, ErrInvalidPosition, "position %d", pos)
		assert.Equal(t, []int{1, 2, 3}, l.Slice(Forward), "position %d", pos)
		checkLinks(t, l)
	}

	empty := NewList[int]()
	assert.ErrorIs(t, empty.TruncateAfter(0), ErrInvalidPosition)
	checkLinks(t, empty)
}

func TestClear(t *testing.T) {
	l := listOf(1, 2, 3)
	l.Clear()
	assert.True(t, l.IsEmpty())
	checkLinks(t, l)
	l.Clear()
	assert.True(t, l.IsEmpty())
}

func TestEqual(t *testing.T) {
	assert.True(t, NewList[int]().Equal(NewList[int]()))

	a := listOf(1, 2, 3)
	b := listOf(1, 2, 3)
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	assert.False(t, a.Equal(listOf(3, 2, 1)))
	assert.False(t, a.Equal(listOf(1, 2, 3, 4)))
	assert.False(t, listOf(1, 2, 3, 4).Equal(a))
	assert.False(t, a.Equal(NewList[int]()))

	for i := 0; i < 3; i++ {
		assert.True(t, a.Equal(b))
	}
	assert.Equal(t, []int{1, 2, 3}, a.Slice(Forward))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "backward", Backward.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}

// TestRandomOperations mirrors every operation on a slice and checks the links after each step.
func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	l := NewList[int]()
	var model []int
	pushes, pops := 0, 0

	for step := 0; step < 2000; step++ {
		v := rng.Intn(50)
		switch rng.Intn(6) {
		case 0:
			require.NoError(t, l.LPush(v))
			model = append([]int{v}, model...)
			pushes++
		case 1:
			require.NoError(t, l.RPush(v))
			model = append(model, v)
			pushes++
		case 2:
			got, err := l.LPop()
			if len(model) == 0 {
				require.ErrorIs(t, err, ErrEmptyList)
				break
			}
			require.NoError(t, err)
			require.Equal(t, model[0], got)
			model = model[1:]
			pops++
		case 3:
			got, err := l.RPop()
			if len(model) == 0 {
				require.ErrorIs(t, err, ErrEmptyList)
				break
			}
			require.NoError(t, err)
			require.Equal(t, model[len(model)-1], got)
			model = model[:len(model)-1]
			pops++
		case 4:
			if rng.Intn(10) != 0 {
				continue
			}
			mod := rng.Intn(3) + 2
			kept := model[:0:0]
			for i, x := range model {
				if (i+x)%mod != 0 {
					kept = append(kept, x)
				}
			}
			pops += len(model) - len(kept)
			removed := l.RemoveWhere(func(pos, x int) bool { return (pos+x)%mod == 0 })
			require.Equal(t, len(model)-len(kept), removed)
			model = kept
		case 5:
			if rng.Intn(10) != 0 {
				continue
			}
			pos := rng.Intn(len(model) + 2)
			err := l.TruncateAfter(pos)
			if pos < len(model) {
				require.NoError(t, err)
				pops += len(model) - pos
				model = model[:pos]
			} else {
				require.ErrorIs(t, err, ErrInvalidPosition)
			}
		}

		checkLinks(t, l)
		require.Equal(t, pushes-pops, l.Len())
		require.Equal(t, len(model), l.Len())
		require.Equal(t, len(model) == 0, l.IsEmpty())
	}

	if len(model) == 0 {
		model = []int{}
	}
	assert.Equal(t, model, l.Slice(Forward))
}
