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

import "iter"

// The set algebra methods assume both operands use compatible comparers.
// Membership in the receiver is decided by the receiver's comparer and
// membership in other by other's comparer.

// UnionWith adds every item of other to s.
func (s *HashSet[T]) UnionWith(other *HashSet[T]) {
	if other == s {
		return
	}
	for i := 0; i < other.Len(); i++ {
		s.t.tryInsert(other.t.slots[i].key, struct{}{})
	}
}

// IntersectWith removes from s every item that is not present in other.
func (s *HashSet[T]) IntersectWith(other *HashSet[T]) {
	if other == s || s.t.count == 0 {
		return
	}
	if other.Len() == 0 {
		s.t.reset()
		return
	}
	// See RemoveWhere for why a backwards walk tolerates removal.
	for i := s.t.count - 1; i >= 0; i-- {
		if item := s.t.slots[i].key; !other.Contains(item) {
			s.t.remove(item)
		}
	}
}

// ExceptWith removes from s every item present in other.
func (s *HashSet[T]) ExceptWith(other *HashSet[T]) {
	if other == s {
		s.t.reset()
		return
	}
	for i := 0; i < other.Len() && s.t.count > 0; i++ {
		s.t.remove(other.t.slots[i].key)
	}
}

// SymmetricExceptWith modifies s to hold the items present in exactly one
// of s and other.
func (s *HashSet[T]) SymmetricExceptWith(other *HashSet[T]) {
	if other == s {
		s.t.reset()
		return
	}
	snapshot := make([]T, other.Len())
	for i := range snapshot {
		snapshot[i] = other.t.slots[i].key
	}
	for _, item := range snapshot {
		if _, removed := s.t.remove(item); !removed {
			s.t.tryInsert(item, struct{}{})
		}
	}
}

// IsSubsetOf reports whether every item of s is present in other.
func (s *HashSet[T]) IsSubsetOf(other *HashSet[T]) bool {
	switch {
	case s.Len() == 0:
		return true
	case s.Len() > other.Len():
		return false
	}
	return s.allIn(other)
}

// IsProperSubsetOf reports whether s is a subset of other and other holds
// at least one item not in s.
func (s *HashSet[T]) IsProperSubsetOf(other *HashSet[T]) bool {
	return s.Len() < other.Len() && s.IsSubsetOf(other)
}

// IsSupersetOf reports whether every item of other is present in s.
func (s *HashSet[T]) IsSupersetOf(other *HashSet[T]) bool {
	switch {
	case other.Len() == 0:
		return true
	case other.Len() > s.Len():
		return false
	}
	return other.allIn(s)
}

// IsProperSupersetOf reports whether s is a superset of other and s holds
// at least one item not in other.
func (s *HashSet[T]) IsProperSupersetOf(other *HashSet[T]) bool {
	return s.Len() > other.Len() && s.IsSupersetOf(other)
}

// Overlaps reports whether s and other have at least one item in common.
func (s *HashSet[T]) Overlaps(other *HashSet[T]) bool {
	if s.Len() == 0 || other.Len() == 0 {
		return false
	}
	if other == s {
		return true
	}
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for i := 0; i < small.Len(); i++ {
		if large.Contains(small.t.slots[i].key) {
			return true
		}
	}
	return false
}

// SetEquals reports whether s and other hold the same items.
func (s *HashSet[T]) SetEquals(other *HashSet[T]) bool {
	if other == s {
		return true
	}
	if s.Len() != other.Len() {
		return false
	}
	return s.allIn(other)
}

// allIn reports whether every item of s is present in other.
func (s *HashSet[T]) allIn(other *HashSet[T]) bool {
	for i := 0; i < s.Len(); i++ {
		if !other.Contains(s.t.slots[i].key) {
			return false
		}
	}
	return true
}

// snapshot materializes seq into a set using the comparer of s.
func (s *HashSet[T]) snapshot(seq iter.Seq[T]) *HashSet[T] {
	return SetFromSeq(seq, WithSetComparer(s.t.comparer))
}

// UnionWithSeq adds every item produced by seq to s.
func (s *HashSet[T]) UnionWithSeq(seq iter.Seq[T]) {
	s.UnionWith(s.snapshot(seq))
}

// IntersectWithSeq removes from s every item not produced by seq.
func (s *HashSet[T]) IntersectWithSeq(seq iter.Seq[T]) {
	s.IntersectWith(s.snapshot(seq))
}

// ExceptWithSeq removes from s every item produced by seq.
func (s *HashSet[T]) ExceptWithSeq(seq iter.Seq[T]) {
	s.ExceptWith(s.snapshot(seq))
}

// SymmetricExceptWithSeq modifies s to hold the items present in exactly one
// of s and the items produced by seq. Items produced more than once count
// once.
func (s *HashSet[T]) SymmetricExceptWithSeq(seq iter.Seq[T]) {
	s.SymmetricExceptWith(s.snapshot(seq))
}
