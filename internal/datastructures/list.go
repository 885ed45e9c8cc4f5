package datastructures

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var (
	// ErrEmptyList is returned when removing from a list with no elements.
	ErrEmptyList = errors.New("list is empty")
	// ErrOutOfMemory is returned when an insertion would exceed the node budget.
	ErrOutOfMemory = errors.New("out of memory: node budget exhausted")
	// ErrInvalidPosition is returned by index based operations given an out of range position.
	ErrInvalidPosition = errors.New("invalid position")
)

// Direction selects the traversal order of Render, Values and Slice.
type Direction int

const (
	// Forward walks from head to tail.
	Forward Direction = iota
	// Backward walks from tail to head.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

type (
	// List represents a non circular doubly linked list.
	// The zero value is an empty, unbounded list ready to use.
	List[T comparable] struct {
		head     *node[T]
		tail     *node[T]
		length   int
		maxNodes int
	}

	// node represents an element in the doubly linked list.
	node[T comparable] struct {
		value T
		prev  *node[T]
		next  *node[T]
	}
)

// NewList creates a new empty list.
func NewList[T comparable]() *List[T] {
	return &List[T]{}
}

// NewBoundedList creates a new empty list that holds at most maxNodes elements.
// A non positive maxNodes means unbounded.
func NewBoundedList[T comparable](maxNodes int) *List[T] {
	if maxNodes < 0 {
		maxNodes = 0
	}
	return &List[T]{maxNodes: maxNodes}
}

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool {
	return l.head == nil
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.length
}

// reserve checks that n more nodes fit in the budget.
func (l *List[T]) reserve(n int) error {
	if l.maxNodes > 0 && l.length+n > l.maxNodes {
		return fmt.Errorf("%w: %d + %d exceeds %d", ErrOutOfMemory, l.length, n, l.maxNodes)
	}
	return nil
}

// LPush adds values to the left (head) of the list, one at a time, so the
// last value ends up as the new head. Called without values it inserts the
// zero value. Either every value is inserted or, on error, none is.
func (l *List[T]) LPush(values ...T) error {
	if len(values) == 0 {
		var zero T
		values = []T{zero}
	}
	if err := l.reserve(len(values)); err != nil {
		return err
	}
	for _, v := range values {
		n := &node[T]{value: v, next: l.head}
		if l.head != nil {
			l.head.prev = n
		} else {
			l.tail = n
		}
		l.head = n
		l.length++
	}
	return nil
}

// RPush adds values to the right (tail) of the list in order. Called without
// values it inserts the zero value. Either every value is inserted or, on
// error, none is.
func (l *List[T]) RPush(values ...T) error {
	if len(values) == 0 {
		var zero T
		values = []T{zero}
	}
	if err := l.reserve(len(values)); err != nil {
		return err
	}
	for _, v := range values {
		n := &node[T]{value: v, prev: l.tail}
		if l.tail != nil {
			l.tail.next = n
		} else {
			l.head = n
		}
		l.tail = n
		l.length++
	}
	return nil
}

// LPop removes and returns the value from the left (head) of the list.
func (l *List[T]) LPop() (T, error) {
	if l.IsEmpty() {
		var zero T
		return zero, ErrEmptyList
	}
	n := l.head
	l.head = n.next
	if l.head == nil {
		l.tail = nil
	} else {
		l.head.prev = nil
	}
	return l.release(n), nil
}

// RPop removes and returns the value from the right (tail) of the list.
func (l *List[T]) RPop() (T, error) {
	if l.IsEmpty() {
		var zero T
		return zero, ErrEmptyList
	}
	n := l.tail
	l.tail = n.prev
	if l.tail == nil {
		l.head = nil
	} else {
		l.tail.next = nil
	}
	return l.release(n), nil
}

// Front returns the head value without removing it.
func (l *List[T]) Front() (T, error) {
	if l.IsEmpty() {
		var zero T
		return zero, ErrEmptyList
	}
	return l.head.value, nil
}

// Back returns the tail value without removing it.
func (l *List[T]) Back() (T, error) {
	if l.IsEmpty() {
		var zero T
		return zero, ErrEmptyList
	}
	return l.tail.value, nil
}

// unlink splices n out of the chain, fixing head and tail as needed.
func (l *List[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
}

// release drops a detached node's links and returns its payload.
func (l *List[T]) release(n *node[T]) T {
	v := n.value
	n.prev = nil
	n.next = nil
	l.length--
	return v
}

// RemoveWhere deletes, in a single head to tail pass, every element for which
// pred returns true and reports how many were removed. Positions passed to
// pred are those of the list before the pass started: removing an element
// does not renumber the ones after it. A nil pred is a no-op.
func (l *List[T]) RemoveWhere(pred func(position int, value T) bool) int {
	if pred == nil || l.IsEmpty() {
		return 0
	}
	removed := 0
	position := 0
	for cur := l.head; cur != nil; position++ {
		next := cur.next
		if pred(position, cur.value) {
			l.unlink(cur)
			l.release(cur)
			removed++
		}
		cur = next
	}
	return removed
}

// TruncateAfter keeps the first position elements and releases the rest.
// position must index an existing element; otherwise the list is left
// untouched and ErrInvalidPosition is returned. TruncateAfter(0) empties the list.
func (l *List[T]) TruncateAfter(position int) error {
	cut := l.nodeAt(position)
	if cut == nil {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, position, l.length)
	}

	l.tail = cut.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}

	for cur := cut; cur != nil; {
		next := cur.next
		l.release(cur)
		cur = next
	}
	return nil
}

// nodeAt returns the node at position counted from the head, or nil.
func (l *List[T]) nodeAt(position int) *node[T] {
	if position < 0 {
		return nil
	}
	cur := l.head
	for ; cur != nil && position > 0; position-- {
		cur = cur.next
	}
	return cur
}

// Clear removes all elements from the list.
func (l *List[T]) Clear() {
	if l.IsEmpty() {
		return
	}
	_ = l.TruncateAfter(0)
}

// Equal reports whether both lists hold the same values in the same order.
func (l *List[T]) Equal(other *List[T]) bool {
	a, b := l.head, other.head
	for a != nil && b != nil {
		if a.value != b.value {
			return false
		}
		a, b = a.next, b.next
	}
	return a == nil && b == nil
}

// Values returns an iterator over the list values in the given direction.
// The list must not be modified while iterating.
func (l *List[T]) Values(dir Direction) iter.Seq[T] {
	return func(yield func(T) bool) {
		if dir == Backward {
			for cur := l.tail; cur != nil; cur = cur.prev {
				if !yield(cur.value) {
					return
				}
			}
			return
		}
		for cur := l.head; cur != nil; cur = cur.next {
			if !yield(cur.value) {
				return
			}
		}
	}
}

// Slice copies the list values into a new slice in the given direction.
func (l *List[T]) Slice(dir Direction) []T {
	out := make([]T, 0, l.length)
	for v := range l.Values(dir) {
		out = append(out, v)
	}
	return out
}

// Render formats the list as "[v1,v2,...]" in the given direction.
func (l *List[T]) Render(dir Direction) string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for v := range l.Values(dir) {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprint(&sb, v)
	}
	sb.WriteByte(']')
	return sb.String()
}
