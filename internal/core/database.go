package core

import (
	"errors"
	"sort"
	"sync"

	"github.com/vskvj3/geomys/internal/datastructures"
)

// Database holds named integer lists. A missing key behaves as an empty
// list and a list that becomes empty is dropped.
type Database struct {
	mu            sync.Mutex
	lists         map[string]*datastructures.List[int64]
	maxListLength int
}

// NewDatabase creates a database whose lists hold at most maxListLength
// values each (0 means unbounded).
func NewDatabase(maxListLength int) *Database {
	return &Database{
		lists:         make(map[string]*datastructures.List[int64]),
		maxListLength: maxListLength,
	}
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	return nil
}

// list returns the list under key, creating it when create is set.
// Callers hold db.mu.
func (db *Database) list(key string, create bool) *datastructures.List[int64] {
	l, ok := db.lists[key]
	if !ok && create {
		l = datastructures.NewBoundedList[int64](db.maxListLength)
		db.lists[key] = l
	}
	return l
}

// dropIfEmpty removes key once its list has no values. Callers hold db.mu.
func (db *Database) dropIfEmpty(key string) {
	if l, ok := db.lists[key]; ok && l.IsEmpty() {
		delete(db.lists, key)
	}
}

// LPush inserts values at the head of the list and returns its new length
func (db *Database) LPush(key string, values ...int64) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, true)
	err := l.LPush(values...)
	db.dropIfEmpty(key)
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// RPush inserts values at the tail of the list and returns its new length
func (db *Database) RPush(key string, values ...int64) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, true)
	err := l.RPush(values...)
	db.dropIfEmpty(key)
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// LPop removes and returns the head value
func (db *Database) LPop(key string) (int64, error) {
	return db.pop(key, (*datastructures.List[int64]).LPop)
}

// RPop removes and returns the tail value
func (db *Database) RPop(key string) (int64, error) {
	return db.pop(key, (*datastructures.List[int64]).RPop)
}

func (db *Database) pop(key string, popFn func(*datastructures.List[int64]) (int64, error)) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	if l == nil {
		return 0, datastructures.ErrEmptyList
	}
	value, err := popFn(l)
	db.dropIfEmpty(key)
	return value, err
}

// Len returns the number of values stored under key
func (db *Database) Len(key string) int {
	db.mu.Lock()
	defer db.mu.Unlock()

	if l := db.list(key, false); l != nil {
		return l.Len()
	}
	return 0
}

// IsEmpty reports whether key holds no values
func (db *Database) IsEmpty(key string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	return l == nil || l.IsEmpty()
}

// Truncate keeps the first position values of the list. An out of range
// position leaves the list untouched and returns ErrInvalidPosition.
func (db *Database) Truncate(key string, position int) error {
	if err := validateKey(key); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	if l == nil {
		return datastructures.ErrInvalidPosition
	}
	err := l.TruncateAfter(position)
	db.dropIfEmpty(key)
	return err
}

// RemoveWhere deletes the values matching pred and returns how many went
func (db *Database) RemoveWhere(key string, pred Predicate) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	if l == nil {
		return 0, nil
	}
	removed := l.RemoveWhere(pred)
	db.dropIfEmpty(key)
	return removed, nil
}

// Equal reports whether two keys hold the same sequence of values
func (db *Database) Equal(a, b string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	la, lb := db.list(a, false), db.list(b, false)
	switch {
	case la == nil && lb == nil:
		return true
	case la == nil:
		return lb.IsEmpty()
	case lb == nil:
		return la.IsEmpty()
	}
	return la.Equal(lb)
}

// Render formats the list under key in the given direction
func (db *Database) Render(key string, dir datastructures.Direction) string {
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	if l == nil {
		return datastructures.NewList[int64]().Render(dir)
	}
	return l.Render(dir)
}

// Values returns a copy of the values stored under key
func (db *Database) Values(key string, dir datastructures.Direction) []int64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	l := db.list(key, false)
	if l == nil {
		return []int64{}
	}
	return l.Slice(dir)
}

// Del releases the list under key and reports whether it existed
func (db *Database) Del(key string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	l, ok := db.lists[key]
	if !ok {
		return false
	}
	l.Clear()
	delete(db.lists, key)
	return true
}

// Keys returns the names of all non empty lists in sorted order
func (db *Database) Keys() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	keys := make([]string, 0, len(db.lists))
	for k := range db.lists {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
