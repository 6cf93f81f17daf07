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

// cursor is the traversal state shared by both iterator flavors: the owning
// table, the index of the bucket currently referenced and the position
// inside that bucket's chain. Only the Hashtable mints cursors, so the
// bucket index always matches the bucket the referenced entry lives in.
//
// A cursor is invalidated when the entry it references is erased or when the
// owning table is reassigned. Traversal order is deterministic: ascending
// bucket index, and inside a bucket the original insertion order.
type cursor[K, V any] struct {
	table  *Hashtable[K, V]
	bucket int
	pos    int
}

// advance moves the cursor one entry forward, becoming the end sentinel when
// no live entry remains.
func (c *cursor[K, V]) advance() {
	if len(c.table.table[c.bucket].entries) == 0 {
		// the referenced bucket lost all entries after this cursor was
		// minted, resume at the first live entry further on
		c.nextBucket()
		return
	}
	c.pos++
	if c.pos < len(c.table.table[c.bucket].entries) {
		return
	}
	c.nextBucket()
}

// nextBucket positions the cursor at the first entry of the next non-empty
// bucket, or at the end sentinel when none remains.
func (c *cursor[K, V]) nextBucket() {
	for idx := c.bucket + 1; idx < len(c.table.table); idx++ {
		if len(c.table.table[idx].entries) > 0 {
			c.bucket = idx
			c.pos = 0
			return
		}
	}
	*c = c.table.endCursor()
}

// atEnd reports whether the cursor is the end sentinel. Cursors are minted
// by the table, so (bucket, pos) pairs are canonical and the sentinel is the
// unique pair (last bucket, last bucket's length).
func (c cursor[K, V]) atEnd() bool {
	last := len(c.table.table) - 1
	return c.bucket == last && c.pos >= len(c.table.table[last].entries)
}

// sameAs reports whether two cursors of the same table reference the same
// entry position.
func (c cursor[K, V]) sameAs(other cursor[K, V]) bool {
	return c.table == other.table && c.bucket == other.bucket && c.pos == other.pos
}

// entryRef returns the referenced entry, or nil for the end sentinel.
func (c cursor[K, V]) entryRef() *Entry[K, V] {
	b := &c.table.table[c.bucket]
	if c.pos >= len(b.entries) {
		return nil
	}
	return &b.entries[c.pos]
}

// Iterator is the mutable forward traversal handle over a Hashtable.
// Mutating the entry it dereferences mutates the table.
type Iterator[K, V any] struct {
	cursor[K, V]
}

// Next advances to the next entry in traversal order. Advancing the end
// sentinel leaves it at the end sentinel.
func (it *Iterator[K, V]) Next() {
	it.advance()
}

// AtEnd reports whether the iterator is the end sentinel.
func (it Iterator[K, V]) AtEnd() bool {
	return it.atEnd()
}

// Equal reports whether both iterators reference the same entry position of
// the same table.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.sameAs(other.cursor)
}

// Entry returns the referenced entry, or nil when the iterator is the end
// sentinel. The returned entry is the stored one, writes through it are
// visible in the table.
func (it Iterator[K, V]) Entry() *Entry[K, V] {
	return it.entryRef()
}

// Key returns the referenced entry's key.
// Panics when called on the end sentinel.
func (it Iterator[K, V]) Key() K {
	e := it.entryRef()
	if e == nil {
		panic("hashtable: Key called on end iterator")
	}
	return e.Key
}

// Value returns a pointer to the referenced entry's stored value.
// Panics when called on the end sentinel.
func (it Iterator[K, V]) Value() *V {
	e := it.entryRef()
	if e == nil {
		panic("hashtable: Value called on end iterator")
	}
	return &e.Value
}

// ConstIterator is the read-only forward traversal handle. Traversal
// behaves exactly like Iterator, dereferencing yields copies so the table
// cannot be mutated through it.
type ConstIterator[K, V any] struct {
	cursor[K, V]
}

// Next advances to the next entry in traversal order. Advancing the end
// sentinel leaves it at the end sentinel.
func (it *ConstIterator[K, V]) Next() {
	it.advance()
}

// AtEnd reports whether the iterator is the end sentinel.
func (it ConstIterator[K, V]) AtEnd() bool {
	return it.atEnd()
}

// Equal reports whether both iterators reference the same entry position of
// the same table.
func (it ConstIterator[K, V]) Equal(other ConstIterator[K, V]) bool {
	return it.sameAs(other.cursor)
}

// Entry returns a copy of the referenced entry.
// Panics when called on the end sentinel.
func (it ConstIterator[K, V]) Entry() Entry[K, V] {
	e := it.entryRef()
	if e == nil {
		panic("hashtable: Entry called on end iterator")
	}
	return *e
}

// Key returns the referenced entry's key.
// Panics when called on the end sentinel.
func (it ConstIterator[K, V]) Key() K {
	e := it.entryRef()
	if e == nil {
		panic("hashtable: Key called on end iterator")
	}
	return e.Key
}

// Value returns a copy of the referenced entry's value.
// Panics when called on the end sentinel.
func (it ConstIterator[K, V]) Value() V {
	e := it.entryRef()
	if e == nil {
		panic("hashtable: Value called on end iterator")
	}
	return e.Value
}
