package core

import (
	"fmt"
	"strings"
)

// Predicate decides from an element's position and value whether it is deleted
type Predicate func(position int, value int64) bool

type predicateFactory struct {
	arity int
	build func(args []int64) Predicate
}

var predicates = map[string]predicateFactory{
	"all":  {0, func([]int64) Predicate { return func(int, int64) bool { return true } }},
	"none": {0, func([]int64) Predicate { return func(int, int64) bool { return false } }},
	"even": {0, func([]int64) Predicate { return func(pos int, _ int64) bool { return pos%2 == 0 } }},
	"odd":  {0, func([]int64) Predicate { return func(pos int, _ int64) bool { return pos%2 == 1 } }},
	"eq": {1, func(a []int64) Predicate {
		return func(_ int, v int64) bool { return v == a[0] }
	}},
	"lt": {1, func(a []int64) Predicate {
		return func(_ int, v int64) bool { return v < a[0] }
	}},
	"gt": {1, func(a []int64) Predicate {
		return func(_ int, v int64) bool { return v > a[0] }
	}},
	"between": {2, func(a []int64) Predicate {
		lo, hi := bounds(a)
		return func(_ int, v int64) bool { return v >= lo && v <= hi }
	}},
	"outside": {2, func(a []int64) Predicate {
		lo, hi := bounds(a)
		return func(_ int, v int64) bool { return v < lo || v > hi }
	}},
}

func bounds(a []int64) (int64, int64) {
	if a[0] > a[1] {
		return a[1], a[0]
	}
	return a[0], a[1]
}

// ParsePredicate builds the named predicate from its integer arguments
func ParsePredicate(name string, args []int64) (Predicate, error) {
	factory, ok := predicates[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown predicate: %s", name)
	}
	if len(args) != factory.arity {
		return nil, fmt.Errorf("predicate %s takes %d arguments, got %d", name, factory.arity, len(args))
	}
	return factory.build(args), nil
}
