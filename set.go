// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"iter"

	"github.com/pkg/errors"
)

// HashSet is an unordered set of items. It shares its engine with
// Dictionary and differs only in carrying no values.
//
// A nil *HashSet behaves as an empty set for the read-only methods and as
// an operand of the set algebra methods.
//
// A HashSet is NOT goroutine-safe.
type HashSet[T comparable] struct {
	t table[T, struct{}]
}

// NewSet constructs a new HashSet with the specified initial capacity.
func NewSet[T comparable](initialCapacity int, options ...option[T, struct{}]) *HashSet[T] {
	s := &HashSet[T]{}
	s.t.init(initialCapacity, options)
	return s
}

// SetFromSlice constructs a HashSet holding items. Unlike FromPairs, items
// are added with TryAdd semantics: duplicate items collapse into one.
func SetFromSlice[T comparable](items []T, options ...option[T, struct{}]) *HashSet[T] {
	s := NewSet[T](len(items), options...)
	for _, item := range items {
		s.t.tryInsert(item, struct{}{})
	}
	return s
}

// SetFromSeq constructs a HashSet holding the items produced by seq, with
// the same duplicate handling as SetFromSlice.
func SetFromSeq[T comparable](seq iter.Seq[T], options ...option[T, struct{}]) *HashSet[T] {
	s := NewSet[T](0, options...)
	for item := range seq {
		s.t.tryInsert(item, struct{}{})
	}
	return s
}

// Close releases the memory held by the set back to its configured
// allocator. See Dictionary.Close.
func (s *HashSet[T]) Close() {
	s.t.close()
}

// Comparer returns the Comparer used by the set.
func (s *HashSet[T]) Comparer() Comparer[T] {
	return s.t.comparer
}

// Add inserts item. If item is already present an error wrapping
// ErrDuplicateKey is returned and the set is left unchanged.
func (s *HashSet[T]) Add(item T) error {
	if !s.TryAdd(item) {
		return errors.Wrapf(ErrDuplicateKey, "item %v", item)
	}
	return nil
}

// TryAdd inserts item if it is not already present, returning whether the
// insertion took place.
func (s *HashSet[T]) TryAdd(item T) bool {
	_, ok := s.t.tryInsert(item, struct{}{})
	return ok
}

// Remove deletes item, returning whether it was present.
func (s *HashSet[T]) Remove(item T) bool {
	_, ok := s.t.remove(item)
	return ok
}

// RemoveWhere deletes every item for which pred returns true and returns
// the number of items deleted.
func (s *HashSet[T]) RemoveWhere(pred func(item T) bool) int {
	removed := 0
	// Walk the dense array backwards: compaction only ever moves the last
	// slot, which has already been visited, into the freed index.
	for i := s.t.count - 1; i >= 0; i-- {
		if item := s.t.slots[i].key; pred(item) {
			s.t.remove(item)
			removed++
		}
	}
	return removed
}

// Contains reports whether item is present.
func (s *HashSet[T]) Contains(item T) bool {
	if s == nil {
		return false
	}
	return s.t.find(item) != end
}

// Len returns the number of items in the set.
func (s *HashSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.t.count
}

// Capacity returns the number of items the set can hold before it has to
// grow.
func (s *HashSet[T]) Capacity() int {
	if s == nil {
		return 0
	}
	return s.t.capacity()
}

// All returns an iterator over the items of the set. The iteration order is
// unspecified; see Dictionary.All for the semantics under mutation.
func (s *HashSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}
		s.t.all(func(item T, _ struct{}) bool {
			return yield(item)
		})
	}
}

// Clear deletes all items from the set. The allocated capacity is retained.
func (s *HashSet[T]) Clear() {
	s.t.reset()
}

// EnsureCapacity grows the set, if needed, so that it can hold n items
// without growing again. It returns the resulting capacity.
func (s *HashSet[T]) EnsureCapacity(n int) int {
	return s.t.ensureCapacity(n)
}

// TrimExcess shrinks the capacity of the set to its length.
func (s *HashSet[T]) TrimExcess() {
	s.t.trimExcess()
}

// Clone returns a copy of the set using the same comparer and allocator.
func (s *HashSet[T]) Clone() *HashSet[T] {
	return &HashSet[T]{t: s.t.clone()}
}

// CopyTo copies the items of the set into dst starting at index start. See
// Dictionary.CopyTo for the error conditions.
func (s *HashSet[T]) CopyTo(dst []T, start int) error {
	if err := checkCopyTo(len(dst), dst == nil, start, s.Len()); err != nil {
		return err
	}
	for i := 0; i < s.Len(); i++ {
		dst[start+i] = s.t.slots[i].key
	}
	return nil
}
