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
	"hash/maphash"

	"github.com/pkg/errors"
)

// Comparer supplies the hash function and equivalence relation used by a
// table. Keys that are Equal must produce the same Hash. A Comparer is free
// to be degenerate (e.g. returning the same hash for every key); the table
// remains correct, only slower.
type Comparer[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// ComparerFuncs adapts a pair of functions to the Comparer interface.
type ComparerFuncs[K any] struct {
	HashFunc  func(key K) uint64
	EqualFunc func(a, b K) bool
}

// Hash implements Comparer.
func (c ComparerFuncs[K]) Hash(key K) uint64 {
	return c.HashFunc(key)
}

// Equal implements Comparer.
func (c ComparerFuncs[K]) Equal(a, b K) bool {
	return c.EqualFunc(a, b)
}

type defaultComparer[K comparable] struct {
	seed maphash.Seed
}

func (c defaultComparer[K]) Hash(key K) uint64 {
	return maphash.Comparable(c.seed, key)
}

func (defaultComparer[K]) Equal(a, b K) bool {
	return a == b
}

// DefaultComparer returns a Comparer that hashes keys structurally using
// hash/maphash and compares them with ==. Each call uses a fresh random seed.
func DefaultComparer[K comparable]() Comparer[K] {
	return defaultComparer[K]{seed: maphash.MakeSeed()}
}

// option provide an interface to do work on a table while it is being
// created.
type option[K comparable, V any] interface {
	apply(t *table[K, V])
}

type comparerOption[K comparable, V any] struct {
	comparer Comparer[K]
}

func (op comparerOption[K, V]) apply(t *table[K, V]) {
	if op.comparer == nil {
		panic(errors.Wrap(ErrInvalidArgument, "nil comparer"))
	}
	t.comparer = op.comparer
}

// WithComparer is an option to specify the Comparer to use for a
// Dictionary[K,V]. Passing a nil comparer panics with ErrInvalidArgument.
func WithComparer[K comparable, V any](comparer Comparer[K]) option[K, V] {
	return comparerOption[K, V]{comparer}
}

// WithSetComparer is the HashSet[T] equivalent of WithComparer.
func WithSetComparer[T comparable](comparer Comparer[T]) option[T, struct{}] {
	return comparerOption[T, struct{}]{comparer}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a table. The default allocator utilizes Go's builtin make() and allows
// the GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that slots and
// heads be freed then Close must be called in order to ensure FreeSlots and
// FreeHeads are called.
type Allocator[K comparable, V any] interface {
	// AllocSlots should return a slice equivalent to make([]Slot[K,V], n).
	AllocSlots(n int) []Slot[K, V]

	// AllocHeads should return a slice equivalent to make([]int, n). The
	// contents need not be initialized.
	AllocHeads(n int) []int

	// FreeSlots can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocSlots.
	FreeSlots(v []Slot[K, V])

	// FreeHeads can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocHeads.
	FreeHeads(v []int)
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) AllocSlots(n int) []Slot[K, V] {
	return make([]Slot[K, V], n)
}

func (defaultAllocator[K, V]) AllocHeads(n int) []int {
	return make([]int, n)
}

func (defaultAllocator[K, V]) FreeSlots(v []Slot[K, V]) {
}

func (defaultAllocator[K, V]) FreeHeads(v []int) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(t *table[K, V]) {
	if op.allocator == nil {
		panic(errors.Wrap(ErrInvalidArgument, "nil allocator"))
	}
	t.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a
// Dictionary[K,V].
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}

// WithSetAllocator is the HashSet[T] equivalent of WithAllocator.
func WithSetAllocator[T comparable](allocator Allocator[T, struct{}]) option[T, struct{}] {
	return allocatorOption[T, struct{}]{allocator}
}
