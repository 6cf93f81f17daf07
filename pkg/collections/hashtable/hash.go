/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package hashtable

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to an unsigned hash. Keys that compare equal under the
// table's EqualFunc must produce the same hash.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are the same key.
type EqualFunc[K any] func(a, b K) bool

// HashString hashes a string key.
func HashString(key string) uint64 {
	return xxhash.Sum64String(key)
}

// HashBytes hashes a byte slice key.
func HashBytes(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// HashUint64 mixes an unsigned integer key over the full 64 bits so that
// sequential keys do not land in sequential buckets.
func HashUint64(key uint64) uint64 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

// HashInt mixes a signed integer key.
func HashInt(key int) uint64 {
	return HashUint64(uint64(key))
}

// HashOf is the generic fallback policy: it renders the key with fmt and
// hashes the text. It works for any key type at the cost of the rendering,
// prefer the typed helpers for string and integer keys.
func HashOf[K any](key K) uint64 {
	return xxhash.Sum64String(fmt.Sprint(key))
}

// EqualOf returns the structural equality policy for comparable keys.
func EqualOf[K comparable]() EqualFunc[K] {
	return func(a, b K) bool {
		return a == b
	}
}
