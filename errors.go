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

import "github.com/pkg/errors"

var (
	// ErrDuplicateKey is returned by Add when the key (or set item) is
	// already present. TryAdd reports the same condition as false.
	ErrDuplicateKey = errors.New("hashtable: duplicate key")

	// ErrKeyNotFound is returned by Dictionary.Get when the key is absent.
	ErrKeyNotFound = errors.New("hashtable: key not found")

	// ErrInvalidArgument is returned (or panicked with, from constructors)
	// for a nil comparer or allocator and for an unusable CopyTo
	// destination.
	ErrInvalidArgument = errors.New("hashtable: invalid argument")
)

// checkCopyTo validates the destination of a CopyTo of n elements.
func checkCopyTo(dstLen int, dstNil bool, start, n int) error {
	switch {
	case dstNil:
		return errors.Wrap(ErrInvalidArgument, "nil destination")
	case start < 0:
		return errors.Wrapf(ErrInvalidArgument, "negative start index %d", start)
	case start > dstLen || dstLen-start < n:
		return errors.Wrapf(ErrInvalidArgument,
			"destination too small: len=%d start=%d count=%d", dstLen, start, n)
	}
	return nil
}
