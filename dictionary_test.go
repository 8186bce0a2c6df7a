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
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// foldComparer compares strings case-insensitively.
func foldComparer() Comparer[string] {
	seed := maphash.MakeSeed()
	return ComparerFuncs[string]{
		HashFunc:  func(k string) uint64 { return maphash.String(seed, strings.ToLower(k)) },
		EqualFunc: strings.EqualFold,
	}
}

func TestDictionaryAddDuplicate(t *testing.T) {
	d := New[string, int](0)
	require.NoError(t, d.Add("a", 1))
	err := d.Add("a", 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateKey))
	require.False(t, d.TryAdd("a", 3))

	// The failed adds leave the entry untouched.
	require.EqualValues(t, 1, d.Len())
	v, err := d.Get("a")
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}

func TestDictionaryGetMissing(t *testing.T) {
	d := New[string, int](0)
	_, err := d.Get("missing")
	require.True(t, errors.Is(err, ErrKeyNotFound))

	d.Set("present", 1)
	_, err = d.Get("missing")
	require.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestDictionarySet(t *testing.T) {
	d := New[string, int](0)
	d.Set("a", 1)
	d.Set("a", 2)
	d.Set("b", 3)
	require.EqualValues(t, 2, d.Len())
	require.Equal(t, map[string]int{"a": 2, "b": 3}, d.toBuiltinMap())
}

func TestDictionaryComparer(t *testing.T) {
	d := New[string, int](0, WithComparer[string, int](foldComparer()))
	require.NoError(t, d.Add("Hello", 1))
	require.True(t, d.ContainsKey("HELLO"))
	require.ErrorIs(t, d.Add("hello", 2), ErrDuplicateKey)

	// Set keeps the original key and replaces the value.
	d.Set("hElLo", 3)
	require.Equal(t, map[string]int{"Hello": 3}, d.toBuiltinMap())

	require.True(t, d.Remove("hello"))
	require.EqualValues(t, 0, d.Len())
}

func TestFromPairs(t *testing.T) {
	d, err := FromPairs([]Pair[int, string]{{1, "a"}, {2, "b"}, {3, "c"}})
	require.NoError(t, err)
	require.Equal(t, map[int]string{1: "a", 2: "b", 3: "c"}, d.toBuiltinMap())

	d, err = FromPairs([]Pair[int, string]{{1, "a"}, {2, "b"}, {1, "c"}})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Nil(t, d)
}

func TestFromMap(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	d, err := FromMap(m)
	require.NoError(t, err)
	require.Equal(t, m, d.toBuiltinMap())

	_, err = FromMap(map[string]int{"a": 1, "A": 2}, WithComparer[string, int](foldComparer()))
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestDictionaryKeysValues(t *testing.T) {
	d := New[int, int](0)
	for i := 0; i < 10; i++ {
		d.Set(i, i*i)
	}
	keys := slices.Sorted(d.Keys())
	values := slices.Sorted(d.Values())
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, keys)
	require.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, values)

	// Early termination.
	var n int
	for range d.Keys() {
		if n++; n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}

func TestDictionaryContainsValue(t *testing.T) {
	d := New[int, []string](0)
	d.Set(1, []string{"x"})
	equal := func(a, b []string) bool { return slices.Equal(a, b) }
	require.True(t, d.ContainsValue([]string{"x"}, equal))
	require.False(t, d.ContainsValue([]string{"y"}, equal))
}

func TestDictionaryRemoveAndGet(t *testing.T) {
	d := New[int, string](0)
	d.Set(1, "a")
	v, ok := d.RemoveAndGet(1)
	require.True(t, ok)
	require.Equal(t, "a", v)
	v, ok = d.RemoveAndGet(1)
	require.False(t, ok)
	require.Equal(t, "", v)
}

func TestDictionaryCopyTo(t *testing.T) {
	d := New[int, int](0)
	for i := 0; i < 5; i++ {
		d.Set(i, -i)
	}

	dst := make([]Pair[int, int], 7)
	require.NoError(t, d.CopyTo(dst, 2))
	require.Equal(t, Pair[int, int]{}, dst[0])
	require.Equal(t, Pair[int, int]{}, dst[1])
	got := dst[2:]
	sort.Slice(got, func(i, j int) bool { return got[i].Key < got[j].Key })
	for i, p := range got {
		require.Equal(t, Pair[int, int]{Key: i, Value: -i}, p)
	}

	testCases := []struct {
		name  string
		dst   []Pair[int, int]
		start int
	}{
		{"nil", nil, 0},
		{"negative", make([]Pair[int, int], 10), -1},
		{"too-small", make([]Pair[int, int], 4), 0},
		{"offset-too-small", make([]Pair[int, int], 5), 1},
		{"start-past-end", make([]Pair[int, int], 5), 6},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			err := d.CopyTo(c.dst, c.start)
			require.ErrorIs(t, err, ErrInvalidArgument)
			for _, p := range c.dst {
				require.Equal(t, Pair[int, int]{}, p)
			}
		})
	}
}

func TestDictionaryClone(t *testing.T) {
	d := New[int, int](0)
	for i := 0; i < 50; i++ {
		d.Set(i, i)
	}
	c := d.Clone()
	require.Equal(t, d.toBuiltinMap(), c.toBuiltinMap())
	require.EqualValues(t, d.Capacity(), c.Capacity())

	c.Set(100, 100)
	require.True(t, c.Remove(0))
	require.False(t, d.ContainsKey(100))
	require.True(t, d.ContainsKey(0))
	require.EqualValues(t, 50, d.Len())
	require.EqualValues(t, 50, c.Len())

	empty := New[int, int](0).Clone()
	require.EqualValues(t, 0, empty.Len())
	empty.Set(1, 1)
	require.True(t, empty.ContainsKey(1))
}

func TestDictionaryCapacity(t *testing.T) {
	d := New[int, int](0)
	require.EqualValues(t, 0, d.Capacity())
	require.EqualValues(t, 50, d.EnsureCapacity(50))
	require.EqualValues(t, 50, d.EnsureCapacity(10))
	for i := 0; i < 20; i++ {
		d.Set(i, i)
	}
	d.TrimExcess()
	require.EqualValues(t, 20, d.Capacity())
	for i := 0; i < 20; i++ {
		require.True(t, d.ContainsKey(i))
	}

	d.Clear()
	d.TrimExcess()
	require.EqualValues(t, 0, d.Capacity())
	d.Set(1, 1)
	require.True(t, d.ContainsKey(1))
}
