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

// Entry is a single key/value pair stored in a bucket. The value is copied
// into the table on insert; mutating an entry obtained through an Iterator
// mutates the stored copy.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Bucket is the ordered chain of entries assigned to one hash slot. Entries
// keep their insertion order. Buckets are owned by the table and only the
// Hashtable mutates them, otherwise the live count could drift from the
// chain contents.
type Bucket[K, V any] struct {
	entries []Entry[K, V]
}

// Len returns the number of entries chained in this bucket.
func (b *Bucket[K, V]) Len() int {
	return len(b.entries)
}

// Entry returns the entry at the given chain position,
// or nil if the position is out of range.
func (b *Bucket[K, V]) Entry(pos int) *Entry[K, V] {
	if pos < 0 || pos >= len(b.entries) {
		return nil
	}
	return &b.entries[pos]
}

// Entries returns a copy of the chain in insertion order.
func (b *Bucket[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(b.entries))
	copy(out, b.entries)
	return out
}

// append adds an entry to the back of the chain.
func (b *Bucket[K, V]) append(key K, value V) {
	b.entries = append(b.entries, Entry[K, V]{Key: key, Value: value})
}

// removeAt drops the entry at the given chain position.
// Entries behind it shift one position forward.
func (b *Bucket[K, V]) removeAt(pos int) {
	b.entries = append(b.entries[:pos], b.entries[pos+1:]...)
}
