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

// Package hashtable implements a Dictionary and a HashSet on top of a
// single chained hash table engine with a dense entry array.
//
// # Layout
//
// All entries live in one contiguous slice of slots. Slots [0, count) are
// live and there are never any holes. Each slot caches the hash of its key
// and carries the index of the next slot in its collision chain. A separate
// slice of bucket heads holds, for every bucket, the index of the first slot
// in that bucket's chain, or -1 if the bucket is empty:
//
//	heads:  [ 2 | -1 |  0 | -1 ]
//	          |         |
//	          v         v
//	slots:  [ k0 next=-1 | k1 next=-1 | k2 next=1 ]
//
// Chains are linked by integer indexes rather than pointers, so moving a slot
// (growth, compaction) never invalidates anything but the one index that
// referred to it.
//
// # Insertion
//
// A new entry is appended at index count and prepended to its bucket's chain.
// When the slot array is full it is doubled and the bucket heads are rebuilt
// from the cached hashes.
//
// # Deletion
//
// Deletion unlinks the slot from its chain and then compacts: the last live
// slot is moved into the freed index and the single chain pointer that
// referred to the old last index is rewritten. There are no tombstones and
// no free list.
//
// # Comparers
//
// The hash function and key equality are supplied by a Comparer. The default
// hashes keys with hash/maphash and compares them with ==. Degenerate
// comparers that put every key into the same bucket are supported; every
// operation then degrades to a walk of one long chain.
//
// Neither Dictionary nor HashSet is goroutine-safe.
package hashtable

import (
	"fmt"
	"strings"
)

const (
	debug = false

	// end terminates a collision chain and marks an empty bucket.
	end = -1

	// minCapacity is the capacity of the first allocation of a table that
	// was created empty.
	minCapacity = 4
)

// Slot holds a key and value along with the cached hash of the key and the
// index of the next slot in the same collision chain.
type Slot[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
	next  int
}

// table is the engine shared by Dictionary and HashSet.
type table[K comparable, V any] struct {
	comparer  Comparer[K]
	allocator Allocator[K, V]
	// slots has length capacity. Only slots[:count] are live.
	slots []Slot[K, V]
	// heads has one entry per bucket holding the index of the first slot in
	// the bucket's chain, or end.
	heads []int
	// The number of live slots.
	count int
}

func (t *table[K, V]) init(initialCapacity int, options []option[K, V]) {
	*t = table[K, V]{
		allocator: defaultAllocator[K, V]{},
	}
	for _, op := range options {
		op.apply(t)
	}
	if t.comparer == nil {
		t.comparer = DefaultComparer[K]()
	}
	if initialCapacity > 0 {
		t.resize(initialCapacity, initialCapacity)
	}
	t.checkInvariants()
}

// capacity returns the number of slots that can be filled before the table
// has to grow.
func (t *table[K, V]) capacity() int {
	return len(t.slots)
}

// bucketCount returns the number of buckets.
func (t *table[K, V]) bucketCount() int {
	return len(t.heads)
}

// bucket returns the bucket corresponding to hash value h. It must not be
// called on a table with zero buckets.
func (t *table[K, V]) bucket(h uint64) int {
	return int(h % uint64(len(t.heads)))
}

// find returns the index of the slot holding key, or end if there is none.
func (t *table[K, V]) find(key K) int {
	if t.count == 0 {
		return end
	}
	h := t.comparer.Hash(key)
	for i := t.heads[t.bucket(h)]; i != end; i = t.slots[i].next {
		s := &t.slots[i]
		if s.hash == h && t.comparer.Equal(s.key, key) {
			return i
		}
	}
	return end
}

// tryInsert inserts key and value if key is not already present. It returns
// the index of the slot holding key and whether an insertion took place. If
// key is present the table is not modified.
func (t *table[K, V]) tryInsert(key K, value V) (int, bool) {
	h := t.comparer.Hash(key)
	if t.count > 0 {
		for i := t.heads[t.bucket(h)]; i != end; i = t.slots[i].next {
			s := &t.slots[i]
			if s.hash == h && t.comparer.Equal(s.key, key) {
				if debug {
					fmt.Printf("insert(%v): exists at index=%d\n", key, i)
				}
				return i, false
			}
		}
	}

	if t.count == len(t.slots) {
		t.resize(growth(t.count, len(t.slots), len(t.heads)))
	}

	i := t.count
	b := t.bucket(h)
	t.slots[i] = Slot[K, V]{
		key:   key,
		value: value,
		hash:  h,
		next:  t.heads[b],
	}
	t.heads[b] = i
	t.count++
	if debug {
		fmt.Printf("insert(%v): index=%d bucket=%d count=%d\n", key, i, b, t.count)
	}
	t.checkInvariants()
	return i, true
}

// remove deletes key from the table, returning the removed slot. If key is
// not present the table is not modified.
func (t *table[K, V]) remove(key K) (removed Slot[K, V], ok bool) {
	if t.count == 0 {
		return removed, false
	}
	h := t.comparer.Hash(key)
	b := t.bucket(h)
	prev := end
	for i := t.heads[b]; i != end; prev, i = i, t.slots[i].next {
		s := &t.slots[i]
		if s.hash != h || !t.comparer.Equal(s.key, key) {
			continue
		}
		removed = *s
		removed.next = end
		t.unlink(b, prev, i)
		t.compactAfterRemoval(i)
		if debug {
			fmt.Printf("remove(%v): index=%d bucket=%d count=%d\n", key, i, b, t.count)
		}
		t.checkInvariants()
		return removed, true
	}
	if debug {
		fmt.Printf("remove(%v): not found bucket=%d\n", key, b)
	}
	return removed, false
}

// unlink removes slot i from the chain of bucket b. prev is the slot
// preceding i in the chain, or end if i is the head of the chain.
func (t *table[K, V]) unlink(b, prev, i int) {
	if prev == end {
		t.heads[b] = t.slots[i].next
	} else {
		t.slots[prev].next = t.slots[i].next
	}
}

// compactAfterRemoval fills the hole at index freed, which must already have
// been unlinked from its chain, by moving the last live slot into it. The
// one chain pointer (a bucket head or another slot's next) that referenced
// the last index is rewritten to freed. The live count is decremented.
func (t *table[K, V]) compactAfterRemoval(freed int) {
	last := t.count - 1
	if freed != last {
		moved := t.slots[last]
		b := t.bucket(moved.hash)
		if t.heads[b] == last {
			t.heads[b] = freed
		} else {
			j := t.heads[b]
			for j != end && t.slots[j].next != last {
				j = t.slots[j].next
			}
			if j == end {
				panic(fmt.Sprintf("invariant failed: slot(%d) %v not reachable from bucket %d\n%s",
					last, moved.key, b, t.debugString()))
			}
			t.slots[j].next = freed
		}
		t.slots[freed] = moved
		if debug {
			fmt.Printf("compact: moved index=%d -> %d bucket=%d\n", last, freed, b)
		}
	}
	// Release any references held by the vacated slot.
	t.slots[last] = Slot[K, V]{}
	t.count--
}

// growth computes the capacity and bucket count to use when a table with
// the given count, capacity and bucket count is full. The capacity doubles
// and the bucket count never falls below the capacity, which keeps the load
// factor at or below 1.
func growth(count, capacity, bucketCount int) (newCapacity, newBucketCount int) {
	newCapacity = 2 * capacity
	if newCapacity < minCapacity {
		newCapacity = minCapacity
	}
	if newCapacity <= count {
		newCapacity = count + 1
	}
	newBucketCount = bucketCount
	if newBucketCount < newCapacity {
		newBucketCount = newCapacity
	}
	return newCapacity, newBucketCount
}

// resize reallocates the slot array with the specified capacity and the
// bucket heads with the specified bucket count, then rebuilds every chain.
// The live slots keep their indexes.
func (t *table[K, V]) resize(newCapacity, newBucketCount int) {
	if newCapacity < t.count {
		panic(fmt.Sprintf("resize: capacity %d is less than count %d", newCapacity, t.count))
	}
	if newCapacity > 0 && newBucketCount < 1 {
		newBucketCount = 1
	}

	oldSlots, oldHeads := t.slots, t.heads
	if newCapacity > 0 {
		t.slots = t.allocator.AllocSlots(newCapacity)
		t.heads = t.allocator.AllocHeads(newBucketCount)
		copy(t.slots, oldSlots[:t.count])
	} else {
		t.slots, t.heads = nil, nil
	}

	if debug {
		fmt.Printf("resize: capacity=%d->%d buckets=%d->%d count=%d\n",
			len(oldSlots), newCapacity, len(oldHeads), newBucketCount, t.count)
	}

	if len(oldSlots) > 0 {
		t.allocator.FreeSlots(oldSlots)
	}
	if len(oldHeads) > 0 {
		t.allocator.FreeHeads(oldHeads)
	}

	t.rehash()
}

// rehash rebuilds the bucket heads and every chain from the cached hashes of
// the live slots. No slot is moved.
func (t *table[K, V]) rehash() {
	for b := range t.heads {
		t.heads[b] = end
	}
	for i := 0; i < t.count; i++ {
		s := &t.slots[i]
		b := t.bucket(s.hash)
		s.next = t.heads[b]
		t.heads[b] = i
	}
	t.checkInvariants()
}

// ensureCapacity grows the table so that it can hold at least n entries
// without growing again. It returns the resulting capacity.
func (t *table[K, V]) ensureCapacity(n int) int {
	if n > len(t.slots) {
		newCapacity := 2 * len(t.slots)
		if newCapacity < n {
			newCapacity = n
		}
		t.resize(newCapacity, newCapacity)
	}
	return len(t.slots)
}

// trimExcess shrinks the table so that its capacity equals its count.
func (t *table[K, V]) trimExcess() {
	if t.count < len(t.slots) {
		t.resize(t.count, t.count)
	}
}

// reset removes all entries while retaining the allocated capacity.
func (t *table[K, V]) reset() {
	clear(t.slots[:t.count])
	for b := range t.heads {
		t.heads[b] = end
	}
	t.count = 0
	t.checkInvariants()
}

// clone returns a copy of the table sharing its comparer and allocator.
func (t *table[K, V]) clone() table[K, V] {
	c := table[K, V]{
		comparer:  t.comparer,
		allocator: t.allocator,
		count:     t.count,
	}
	if len(t.slots) > 0 {
		c.slots = c.allocator.AllocSlots(len(t.slots))
		c.heads = c.allocator.AllocHeads(len(t.heads))
		copy(c.slots, t.slots[:t.count])
		copy(c.heads, t.heads)
	}
	c.checkInvariants()
	return c
}

// close releases the memory held by the table back to its allocator. It is
// idempotent.
func (t *table[K, V]) close() {
	if t.allocator != nil {
		if len(t.slots) > 0 {
			t.allocator.FreeSlots(t.slots)
		}
		if len(t.heads) > 0 {
			t.allocator.FreeHeads(t.heads)
		}
	}
	t.slots, t.heads = nil, nil
	t.count = 0
	t.allocator = nil
}

// all calls yield for each live slot in index order. The slot slice and the
// count are snapshotted before iterating, so mutation during iteration is
// memory safe but whether it is observed is unspecified.
func (t *table[K, V]) all(yield func(key K, value V) bool) {
	slots, n := t.slots, t.count
	for i := 0; i < n; i++ {
		s := &slots[i]
		if !yield(s.key, s.value) {
			return
		}
	}
}

func (t *table[K, V]) checkInvariants() {
	if invariants {
		if t.count < 0 || t.count > len(t.slots) {
			panic(fmt.Sprintf("invariant failed: count %d, capacity %d\n%s",
				t.count, len(t.slots), t.debugString()))
		}
		if len(t.slots) > 0 && len(t.heads) == 0 {
			panic(fmt.Sprintf("invariant failed: capacity %d with no buckets", len(t.slots)))
		}

		// Every live slot must be reachable from exactly one chain, exactly
		// once, and that chain must be the one selected by its cached hash.
		seen := make([]bool, t.count)
		reached := 0
		for b, head := range t.heads {
			steps := 0
			for i := head; i != end; i = t.slots[i].next {
				if i < 0 || i >= t.count {
					panic(fmt.Sprintf("invariant failed: bucket %d references dead slot %d\n%s",
						b, i, t.debugString()))
				}
				if seen[i] {
					panic(fmt.Sprintf("invariant failed: slot(%d) reached twice\n%s",
						i, t.debugString()))
				}
				seen[i] = true
				reached++
				if sb := t.bucket(t.slots[i].hash); sb != b {
					panic(fmt.Sprintf("invariant failed: slot(%d) in bucket %d, hash selects %d\n%s",
						i, b, sb, t.debugString()))
				}
				if steps++; steps > t.count {
					panic(fmt.Sprintf("invariant failed: cycle in bucket %d\n%s", b, t.debugString()))
				}
			}
		}
		if reached != t.count {
			panic(fmt.Sprintf("invariant failed: reached %d slots, but count is %d\n%s",
				reached, t.count, t.debugString()))
		}

		// Keys must be unique: find must return each slot's own index.
		for i := 0; i < t.count; i++ {
			s := &t.slots[i]
			if h := t.comparer.Hash(s.key); h != s.hash {
				panic(fmt.Sprintf("invariant failed: slot(%d) %v cached hash %x, hash is %x",
					i, s.key, s.hash, h))
			}
			if j := t.find(s.key); j != i {
				panic(fmt.Sprintf("invariant failed: slot(%d) %v found at %d\n%s",
					i, s.key, j, t.debugString()))
			}
		}
	}
}

func (t *table[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  buckets=%d  count=%d\n", len(t.slots), len(t.heads), t.count)
	for b, head := range t.heads {
		if head == end {
			continue
		}
		fmt.Fprintf(&buf, "  bucket %4d:", b)
		for i, steps := head, 0; i != end && steps <= len(t.slots); i, steps = t.slots[i].next, steps+1 {
			if i < 0 || i >= len(t.slots) {
				fmt.Fprintf(&buf, " <bad %d>", i)
				break
			}
			fmt.Fprintf(&buf, " %d", i)
		}
		buf.WriteString("\n")
	}
	for i := 0; i < t.count; i++ {
		s := &t.slots[i]
		fmt.Fprintf(&buf, "  %4d: %v [hash=%016x next=%d]\n", i, s.key, s.hash, s.next)
	}
	return buf.String()
}
