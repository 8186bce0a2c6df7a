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

// Pair is a key and its associated value.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Dictionary is an unordered map from keys to values. Key hashing and
// equality are provided by a Comparer; by default keys are hashed with
// hash/maphash and compared with ==.
//
// A Dictionary is NOT goroutine-safe.
type Dictionary[K comparable, V any] struct {
	t table[K, V]
}

// New constructs a new Dictionary with the specified initial capacity. If
// initialCapacity is 0 the dictionary will start out with zero capacity and
// will grow on the first insert.
func New[K comparable, V any](initialCapacity int, options ...option[K, V]) *Dictionary[K, V] {
	d := &Dictionary[K, V]{}
	d.t.init(initialCapacity, options)
	return d
}

// FromPairs constructs a Dictionary holding the supplied pairs. Pairs are
// added with the semantics of Add: if two pairs have equal keys an error
// wrapping ErrDuplicateKey is returned and no dictionary is constructed.
func FromPairs[K comparable, V any](pairs []Pair[K, V], options ...option[K, V]) (*Dictionary[K, V], error) {
	d := New[K, V](len(pairs), options...)
	for _, p := range pairs {
		if err := d.Add(p.Key, p.Value); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// FromMap constructs a Dictionary holding the entries of m. The keys of m
// are distinct under ==, but may collide under a custom Comparer in which
// case an error wrapping ErrDuplicateKey is returned.
func FromMap[K comparable, V any](m map[K]V, options ...option[K, V]) (*Dictionary[K, V], error) {
	d := New[K, V](len(m), options...)
	for k, v := range m {
		if err := d.Add(k, v); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

// Close releases the memory held by the dictionary back to its configured
// allocator. It is unnecessary to close a dictionary using the default
// allocator. It is invalid to use a Dictionary after it has been closed,
// though Close itself is idempotent.
func (d *Dictionary[K, V]) Close() {
	d.t.close()
}

// Comparer returns the Comparer used by the dictionary.
func (d *Dictionary[K, V]) Comparer() Comparer[K] {
	return d.t.comparer
}

// Add inserts key and value. If key is already present an error wrapping
// ErrDuplicateKey is returned and the dictionary is left unchanged.
func (d *Dictionary[K, V]) Add(key K, value V) error {
	if !d.TryAdd(key, value) {
		return errors.Wrapf(ErrDuplicateKey, "key %v", key)
	}
	return nil
}

// TryAdd inserts key and value if key is not already present, returning
// whether the insertion took place.
func (d *Dictionary[K, V]) TryAdd(key K, value V) bool {
	_, ok := d.t.tryInsert(key, value)
	return ok
}

// Set inserts an entry, overwriting the value of an existing entry with an
// equal key.
func (d *Dictionary[K, V]) Set(key K, value V) {
	if i, inserted := d.t.tryInsert(key, value); !inserted {
		d.t.slots[i].value = value
	}
}

// Get returns the value associated with key. If key is not present an error
// wrapping ErrKeyNotFound is returned.
func (d *Dictionary[K, V]) Get(key K) (V, error) {
	if i := d.t.find(key); i != end {
		return d.t.slots[i].value, nil
	}
	var zero V
	return zero, errors.Wrapf(ErrKeyNotFound, "key %v", key)
}

// TryGetValue retrieves the value for the specified key, returning ok=false
// if the key is not present.
func (d *Dictionary[K, V]) TryGetValue(key K) (value V, ok bool) {
	if i := d.t.find(key); i != end {
		return d.t.slots[i].value, true
	}
	return value, false
}

// ContainsKey reports whether key is present.
func (d *Dictionary[K, V]) ContainsKey(key K) bool {
	return d.t.find(key) != end
}

// ContainsValue reports whether any entry has a value equal to value
// according to equal. It is a linear scan.
func (d *Dictionary[K, V]) ContainsValue(value V, equal func(a, b V) bool) bool {
	for i := 0; i < d.t.count; i++ {
		if equal(d.t.slots[i].value, value) {
			return true
		}
	}
	return false
}

// Remove deletes the entry for key, returning whether it was present.
func (d *Dictionary[K, V]) Remove(key K) bool {
	_, ok := d.t.remove(key)
	return ok
}

// RemoveAndGet deletes the entry for key, returning its value and whether it
// was present.
func (d *Dictionary[K, V]) RemoveAndGet(key K) (value V, ok bool) {
	s, ok := d.t.remove(key)
	return s.value, ok
}

// All returns an iterator over the entries of the dictionary. The iteration
// order is unspecified. The dictionary can be mutated during iteration,
// though there is no guarantee which mutations will be visible to the
// iteration, and entries may be skipped or repeated.
func (d *Dictionary[K, V]) All() iter.Seq2[K, V] {
	return d.t.all
}

// Keys returns an iterator over the keys of the dictionary. See All for the
// iteration semantics.
func (d *Dictionary[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		d.t.all(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Values returns an iterator over the values of the dictionary. See All for
// the iteration semantics.
func (d *Dictionary[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		d.t.all(func(_ K, v V) bool {
			return yield(v)
		})
	}
}

// Len returns the number of entries in the dictionary.
func (d *Dictionary[K, V]) Len() int {
	return d.t.count
}

// Capacity returns the number of entries the dictionary can hold before it
// has to grow.
func (d *Dictionary[K, V]) Capacity() int {
	return d.t.capacity()
}

// Clear deletes all entries from the dictionary. The allocated capacity is
// retained.
func (d *Dictionary[K, V]) Clear() {
	d.t.reset()
}

// EnsureCapacity grows the dictionary, if needed, so that it can hold n
// entries without growing again. It returns the resulting capacity.
func (d *Dictionary[K, V]) EnsureCapacity(n int) int {
	return d.t.ensureCapacity(n)
}

// TrimExcess shrinks the capacity of the dictionary to its length.
func (d *Dictionary[K, V]) TrimExcess() {
	d.t.trimExcess()
}

// Clone returns a copy of the dictionary using the same comparer and
// allocator. Values are copied shallowly.
func (d *Dictionary[K, V]) Clone() *Dictionary[K, V] {
	return &Dictionary[K, V]{t: d.t.clone()}
}

// CopyTo copies the entries of the dictionary into dst starting at index
// start. An error wrapping ErrInvalidArgument is returned if dst is nil,
// start is negative, or dst[start:] cannot hold Len entries. On error dst is
// not modified.
func (d *Dictionary[K, V]) CopyTo(dst []Pair[K, V], start int) error {
	if err := checkCopyTo(len(dst), dst == nil, start, d.t.count); err != nil {
		return err
	}
	for i := 0; i < d.t.count; i++ {
		s := &d.t.slots[i]
		dst[start+i] = Pair[K, V]{Key: s.key, Value: s.value}
	}
	return nil
}
