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

// Package hashtable provides a generic key/value container backed by a fixed
// number of buckets with separate chaining. The bucket a key lands in is
// selected by a caller supplied hash policy, matches inside a bucket are
// decided by a caller supplied equality policy. The table never grows or
// rehashes: the bucket count chosen at construction is the bucket count for
// the lifetime of the table.
//
// The container is not safe for concurrent use. Callers that share a table
// across goroutines serialize access themselves, see pkg/locking.
package hashtable

import (
	"fmt"
)

// Hashtable is a fixed-capacity chained hash table. Each key appears at most
// once across the whole table; inserting a key that is already present is a
// no-op that keeps the first value.
type Hashtable[K, V any] struct {
	table   []Bucket[K, V]
	hash    HashFunc[K]
	equal   EqualFunc[K]
	count   int
	metrics *tableMetrics
}

// New creates a table with the given number of buckets and key policies.
// Returns ErrInvalidBucketCount when bucketCount is not positive and
// ErrNilPolicy when either policy is missing.
func New[K, V any](bucketCount int, hash HashFunc[K], equal EqualFunc[K]) (*Hashtable[K, V], error) {
	if bucketCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, bucketCount)
	}
	if hash == nil || equal == nil {
		return nil, ErrNilPolicy
	}
	return &Hashtable[K, V]{
		table: make([]Bucket[K, V], bucketCount),
		hash:  hash,
		equal: equal,
	}, nil
}

// NewDefault creates a table for comparable keys using the generic HashOf
// policy and structural equality.
func NewDefault[K comparable, V any](bucketCount int) (*Hashtable[K, V], error) {
	return New[K, V](bucketCount, HashOf[K], EqualOf[K]())
}

// NewInstrumented creates a table that reports per-operation prometheus
// metrics labeled with the given name.
func NewInstrumented[K, V any](bucketCount int, hash HashFunc[K], equal EqualFunc[K], name string) (*Hashtable[K, V], error) {
	h, err := New[K, V](bucketCount, hash, equal)
	if err != nil {
		return nil, err
	}
	h.metrics = metricsFor(name)
	return h, nil
}

// bucketIndex selects the bucket a key belongs to. len(h.table) is never
// zero, construction rejects a zero bucket count.
func (h *Hashtable[K, V]) bucketIndex(key K) int {
	return int(h.hash(key) % uint64(len(h.table)))
}

// locate returns the bucket index for the key and the position of the
// matching entry inside it. When the key is absent, the returned position is
// the bucket's length and ok is false.
func (h *Hashtable[K, V]) locate(key K) (bucket int, pos int, ok bool) {
	bucket = h.bucketIndex(key)
	entries := h.table[bucket].entries
	for pos = range entries {
		if h.equal(entries[pos].Key, key) {
			return bucket, pos, true
		}
	}
	return bucket, len(entries), false
}

// Insert adds the key/value pair to the table and returns an iterator
// referencing the new entry. If the key is already present the value is
// discarded and the returned iterator references the existing entry.
// Average O(1), worst O(n) when all keys collide.
func (h *Hashtable[K, V]) Insert(key K, value V) Iterator[K, V] {
	bucket, pos, ok := h.locate(key)
	if ok {
		h.metrics.observeInsert(pos+1, true)
		return Iterator[K, V]{cursor[K, V]{table: h, bucket: bucket, pos: pos}}
	}
	h.table[bucket].append(key, value)
	h.count++
	h.metrics.observeInsert(pos+1, false)
	h.metrics.setOccupancy(h.count, h.LoadFactor())
	return Iterator[K, V]{cursor[K, V]{table: h, bucket: bucket, pos: pos}}
}

// Find returns an iterator referencing the entry for the key, or the end
// sentinel when the key is absent.
func (h *Hashtable[K, V]) Find(key K) Iterator[K, V] {
	bucket, pos, ok := h.locate(key)
	if !ok {
		h.metrics.observeFind(pos, false)
		return h.End()
	}
	h.metrics.observeFind(pos+1, true)
	return Iterator[K, V]{cursor[K, V]{table: h, bucket: bucket, pos: pos}}
}

// FindConst is the read-only variant of Find.
func (h *Hashtable[K, V]) FindConst(key K) ConstIterator[K, V] {
	bucket, pos, ok := h.locate(key)
	if !ok {
		h.metrics.observeFind(pos, false)
		return h.EndConst()
	}
	h.metrics.observeFind(pos+1, true)
	return ConstIterator[K, V]{cursor[K, V]{table: h, bucket: bucket, pos: pos}}
}

// Erase removes the entry for the key. Erasing an absent key is a no-op.
// The bucket scan stops at the first match: the insert path guarantees at
// most one entry per key, and scanning past a removal would walk positions
// that have already shifted.
func (h *Hashtable[K, V]) Erase(key K) {
	bucket, pos, ok := h.locate(key)
	if !ok {
		h.metrics.observeErase(false)
		return
	}
	h.table[bucket].removeAt(pos)
	h.count--
	h.metrics.observeErase(true)
	h.metrics.setOccupancy(h.count, h.LoadFactor())
}

// ContainsKey reports whether the key has an entry in the table.
func (h *Hashtable[K, V]) ContainsKey(key K) bool {
	_, _, ok := h.locate(key)
	return ok
}

// BucketCount returns the fixed number of buckets.
func (h *Hashtable[K, V]) BucketCount() int {
	return len(h.table)
}

// Count returns the number of live entries.
func (h *Hashtable[K, V]) Count() int {
	return h.count
}

// LoadFactor returns the ratio of live entries to buckets.
func (h *Hashtable[K, V]) LoadFactor() float64 {
	return float64(h.count) / float64(len(h.table))
}

// BucketAt returns the bucket at the given index,
// or ErrIndexOutOfRange when no such bucket exists.
func (h *Hashtable[K, V]) BucketAt(index int) (*Bucket[K, V], error) {
	if index < 0 || index >= len(h.table) {
		return nil, fmt.Errorf("%w: index %d with %d buckets", ErrIndexOutOfRange, index, len(h.table))
	}
	return &h.table[index], nil
}

// ValueAt returns a pointer to the stored value for the key,
// or ErrKeyNotFound when the key is absent.
func (h *Hashtable[K, V]) ValueAt(key K) (*V, error) {
	bucket, pos, ok := h.locate(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return &h.table[bucket].entries[pos].Value, nil
}

// Begin returns an iterator referencing the first entry in traversal order,
// or the end sentinel when the table is empty.
func (h *Hashtable[K, V]) Begin() Iterator[K, V] {
	return Iterator[K, V]{h.beginCursor()}
}

// End returns the end sentinel: one position past the last entry of the last
// bucket. It is the universal "not found" and loop termination marker.
func (h *Hashtable[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{h.endCursor()}
}

// BeginConst is the read-only variant of Begin.
func (h *Hashtable[K, V]) BeginConst() ConstIterator[K, V] {
	return ConstIterator[K, V]{h.beginCursor()}
}

// EndConst is the read-only variant of End.
func (h *Hashtable[K, V]) EndConst() ConstIterator[K, V] {
	return ConstIterator[K, V]{h.endCursor()}
}

// Assign replaces the full contents of this table with a deep copy of the
// other table: bucket count, entries, live count and key policies all come
// from the source. The two tables share no storage afterwards. Existing
// iterators over this table are invalidated.
func (h *Hashtable[K, V]) Assign(other *Hashtable[K, V]) {
	if h == other {
		return
	}
	table := make([]Bucket[K, V], len(other.table))
	for i := range other.table {
		table[i].entries = other.table[i].Entries()
	}
	h.table = table
	h.count = other.count
	// entries sit where the source's hash placed them, lookups only stay
	// coherent if the policies travel with the table
	h.hash = other.hash
	h.equal = other.equal
	h.metrics.setOccupancy(h.count, h.LoadFactor())
}

// ForEach visits every entry in traversal order until the visitor
// returns false.
func (h *Hashtable[K, V]) ForEach(visit func(key K, value V) bool) {
	for it := h.BeginConst(); !it.AtEnd(); it.Next() {
		if !visit(it.Key(), it.Value()) {
			return
		}
	}
}

// beginCursor scans from bucket zero for the first live entry.
func (h *Hashtable[K, V]) beginCursor() cursor[K, V] {
	for idx := range h.table {
		if len(h.table[idx].entries) > 0 {
			return cursor[K, V]{table: h, bucket: idx, pos: 0}
		}
	}
	return h.endCursor()
}

// endCursor is the sentinel position: the last bucket's end.
func (h *Hashtable[K, V]) endCursor() cursor[K, V] {
	last := len(h.table) - 1
	return cursor[K, V]{table: h, bucket: last, pos: len(h.table[last].entries)}
}
