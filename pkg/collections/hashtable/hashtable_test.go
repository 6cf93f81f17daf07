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
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
)

// identity hash pins keys to predictable buckets
func identityHash(k int) uint64 {
	return uint64(k)
}

func intEqual(a, b int) bool {
	return a == b
}

func newIntTable(t *testing.T, buckets int) *Hashtable[int, string] {
	table, err := New[int, string](buckets, identityHash, intEqual)
	assert.NilError(t, err, "table construction failed")
	return table
}

// collect walks the table front to back and returns the entries in
// traversal order.
func collect(table *Hashtable[int, string]) []Entry[int, string] {
	var out []Entry[int, string]
	table.ForEach(func(key int, value string) bool {
		out = append(out, Entry[int, string]{Key: key, Value: value})
		return true
	})
	return out
}

func checkTable(t *testing.T, table *Hashtable[int, string], expected []Entry[int, string]) {
	t.Helper()
	assert.Equal(t, table.Count(), len(expected))
	assert.DeepEqual(t, collect(table), expected, cmpopts.EquateEmpty())
	for _, e := range expected {
		assert.Assert(t, table.ContainsKey(e.Key), "key %d not found", e.Key)
		value, err := table.ValueAt(e.Key)
		assert.NilError(t, err)
		assert.Equal(t, *value, e.Value)
	}
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	_, err := New[int, string](0, identityHash, intEqual)
	assert.Assert(t, errors.Is(err, ErrInvalidBucketCount), "expected bucket count error, got: %v", err)

	_, err = New[int, string](-4, identityHash, intEqual)
	assert.Assert(t, errors.Is(err, ErrInvalidBucketCount), "expected bucket count error, got: %v", err)

	_, err = New[int, string](4, nil, intEqual)
	assert.Assert(t, errors.Is(err, ErrNilPolicy), "expected nil policy error, got: %v", err)

	_, err = New[int, string](4, identityHash, nil)
	assert.Assert(t, errors.Is(err, ErrNilPolicy), "expected nil policy error, got: %v", err)
}

func TestInsertAndFind(t *testing.T) {
	table := newIntTable(t, 8)

	it := table.Insert(3, "three")
	assert.Equal(t, it.Key(), 3)
	assert.Equal(t, *it.Value(), "three")
	assert.Equal(t, table.Count(), 1)

	found := table.Find(3)
	assert.Assert(t, !found.AtEnd())
	assert.Assert(t, found.Equal(it), "find must reference the inserted entry")

	missing := table.Find(4)
	assert.Assert(t, missing.AtEnd())
	assert.Assert(t, missing.Equal(table.End()))
}

func TestDuplicateInsertKeepsFirstValue(t *testing.T) {
	table := newIntTable(t, 8)

	first := table.Insert(7, "v1")
	second := table.Insert(7, "v2")
	assert.Equal(t, table.Count(), 1)
	assert.Assert(t, second.Equal(first), "duplicate insert must return the existing entry")
	assert.Equal(t, *table.Find(7).Value(), "v1")

	value, err := table.ValueAt(7)
	assert.NilError(t, err)
	assert.Equal(t, *value, "v1")
}

// bucket_count = 4 with the identity hash: keys 1, 5 and 9 all chain in
// bucket 1.
func TestCollidingKeys(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(1, "one")
	table.Insert(5, "five")
	table.Insert(9, "nine")
	assert.Equal(t, table.Count(), 3)

	bucket, err := table.BucketAt(1)
	assert.NilError(t, err)
	assert.Equal(t, bucket.Len(), 3)

	found := table.Find(5)
	assert.Equal(t, found.Key(), 5)
	assert.Equal(t, *found.Value(), "five")

	table.Erase(5)
	assert.Equal(t, table.Count(), 2)
	assert.Assert(t, !table.Find(1).AtEnd())
	assert.Assert(t, !table.Find(9).AtEnd())
	assert.Assert(t, table.Find(5).AtEnd())
	checkTable(t, table, []Entry[int, string]{{1, "one"}, {9, "nine"}})
}

func TestEraseAbsentKeyIsNoop(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(1, "one")
	table.Insert(2, "two")

	table.Erase(42)
	checkTable(t, table, []Entry[int, string]{{1, "one"}, {2, "two"}})

	// key 5 collides with key 1 but is not present
	table.Erase(5)
	checkTable(t, table, []Entry[int, string]{{1, "one"}, {2, "two"}})
}

func TestContainsKeyMatchesFind(t *testing.T) {
	table := newIntTable(t, 8)
	for _, key := range []int{0, 3, 8, 11, 16} {
		table.Insert(key, "x")
	}
	for key := 0; key < 20; key++ {
		assert.Equal(t, table.ContainsKey(key), !table.Find(key).AtEnd(),
			"ContainsKey and Find disagree for key %d", key)
	}
}

func TestLoadFactor(t *testing.T) {
	table := newIntTable(t, 8)
	assert.Equal(t, table.LoadFactor(), 0.0)
	assert.Assert(t, table.Begin().Equal(table.End()))

	table.Insert(1, "a")
	table.Insert(2, "b")
	table.Insert(3, "c")
	// must be real division, not a truncating integer one
	assert.Equal(t, table.LoadFactor(), 0.375)

	for key := 4; key <= 12; key++ {
		table.Insert(key, "d")
	}
	assert.Equal(t, table.LoadFactor(), 1.5)
}

func TestBucketAtBounds(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(6, "six")

	bucket, err := table.BucketAt(2)
	assert.NilError(t, err)
	assert.Equal(t, bucket.Len(), 1)
	assert.Equal(t, bucket.Entry(0).Key, 6)

	_, err = table.BucketAt(4)
	assert.Assert(t, errors.Is(err, ErrIndexOutOfRange), "expected out of range error, got: %v", err)
	_, err = table.BucketAt(-1)
	assert.Assert(t, errors.Is(err, ErrIndexOutOfRange), "expected out of range error, got: %v", err)
}

func TestValueAt(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(2, "two")

	value, err := table.ValueAt(2)
	assert.NilError(t, err)
	assert.Equal(t, *value, "two")

	// the returned pointer references the stored value
	*value = "TWO"
	assert.Equal(t, *table.Find(2).Value(), "TWO")

	_, err = table.ValueAt(3)
	assert.Assert(t, errors.Is(err, ErrKeyNotFound), "expected key not found, got: %v", err)
}

func TestAssignDeepCopies(t *testing.T) {
	src := newIntTable(t, 4)
	src.Insert(1, "one")
	src.Insert(5, "five")
	src.Insert(2, "two")

	dst := newIntTable(t, 16)
	dst.Insert(100, "stale")

	dst.Assign(src)
	assert.Equal(t, dst.BucketCount(), 4)
	assert.Assert(t, !dst.ContainsKey(100))
	assert.DeepEqual(t, collect(dst), collect(src))

	// no shared storage: mutation of one side is invisible to the other
	src.Erase(5)
	src.Insert(3, "three")
	assert.Assert(t, dst.ContainsKey(5))
	assert.Assert(t, !dst.ContainsKey(3))

	dst.Erase(1)
	assert.Assert(t, src.ContainsKey(1))
	checkTable(t, dst, []Entry[int, string]{{5, "five"}, {2, "two"}})
}

func TestAssignAdoptsPolicies(t *testing.T) {
	src, err := New[int, string](4, func(k int) uint64 { return uint64(k) * 7 }, intEqual)
	assert.NilError(t, err)
	src.Insert(1, "one")
	src.Insert(2, "two")

	dst := newIntTable(t, 8)
	dst.Assign(src)
	// lookups go through the source's hash, entries sit where it put them
	assert.Assert(t, dst.ContainsKey(1))
	assert.Assert(t, dst.ContainsKey(2))
	assert.Equal(t, *dst.Find(1).Value(), "one")
}

func TestAssignSelfIsNoop(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(1, "one")
	table.Assign(table)
	checkTable(t, table, []Entry[int, string]{{1, "one"}})
}

func TestForEachStopsEarly(t *testing.T) {
	table := newIntTable(t, 4)
	table.Insert(1, "a")
	table.Insert(2, "b")
	table.Insert(3, "c")

	visited := 0
	table.ForEach(func(key int, value string) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, visited, 2)
}

func TestDefaultPolicies(t *testing.T) {
	table, err := NewDefault[string, int](16)
	assert.NilError(t, err)

	table.Insert("alpha", 1)
	table.Insert("beta", 2)
	table.Insert("alpha", 99)
	assert.Equal(t, table.Count(), 2)

	value, err := table.ValueAt("alpha")
	assert.NilError(t, err)
	assert.Equal(t, *value, 1)
	assert.Assert(t, !table.ContainsKey("gamma"))
}

// Randomized mirror of the container against a builtin map, the count must
// always match a full forward traversal.
func TestCountMatchesTraversalRandomized(t *testing.T) {
	table := newIntTable(t, 32)
	reference := make(map[int]string)
	rng := rand.New(rand.NewSource(42))

	insertOrder := rng.Perm(500)
	for _, key := range insertOrder {
		table.Insert(key, "v")
		reference[key] = "v"
		if len(reference)%50 == 0 {
			assert.Equal(t, table.Count(), len(reference))
			assert.Equal(t, len(collect(table)), len(reference))
		}
	}

	removeOrder := rng.Perm(700)
	for i, key := range removeOrder {
		table.Erase(key)
		delete(reference, key)
		if i%100 == 0 {
			assert.Equal(t, table.Count(), len(reference))
			walked := collect(table)
			assert.Equal(t, len(walked), len(reference))
			for _, e := range walked {
				_, ok := reference[e.Key]
				assert.Assert(t, ok, "traversal yielded erased key %d", e.Key)
			}
		}
	}
	assert.Equal(t, table.Count(), 0)
	assert.Assert(t, table.Begin().Equal(table.End()))
}
