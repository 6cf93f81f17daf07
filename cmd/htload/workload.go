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

package main

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rexlang/rexlang-core/pkg/collections/hashtable"
	"github.com/rexlang/rexlang-core/pkg/locking"
	"github.com/rexlang/rexlang-core/pkg/log"
)

// The workload object for one htload run:
// - the name of the run, used as the metrics label
// - the fixed bucket count of the table
// - the seed for the key stream
// - the number of inserts, erases and lookups to apply
// - the number of concurrent reader goroutines for the lookup phase
type Workload struct {
	Name    string `yaml:"name"`
	Buckets int    `yaml:"buckets"`
	Seed    int64  `yaml:"seed,omitempty"`
	Inserts int    `yaml:"inserts"`
	Erases  int    `yaml:"erases,omitempty"`
	Finds   int    `yaml:"finds,omitempty"`
	Readers int    `yaml:"readers,omitempty"`
}

// LoadWorkload reads and validates a workload definition.
func LoadWorkload(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	workload := &Workload{}
	if err = yaml.Unmarshal(data, workload); err != nil {
		return nil, fmt.Errorf("malformed workload file: %w", err)
	}
	if workload.Name == "" {
		workload.Name = "htload"
	}
	if workload.Buckets <= 0 {
		return nil, fmt.Errorf("workload %q: buckets must be positive, got %d", workload.Name, workload.Buckets)
	}
	if workload.Inserts < 0 || workload.Erases < 0 || workload.Finds < 0 {
		return nil, fmt.Errorf("workload %q: phase sizes must not be negative", workload.Name)
	}
	if workload.Readers <= 0 {
		workload.Readers = 1
	}
	return workload, nil
}

// Run applies the workload: a single-threaded mutation phase (inserts then
// erases), then the lookup phase spread over reader goroutines. The table is
// not thread-safe, readers serialize through an RWMutex.
func Run(workload *Workload) error {
	runID := uuid.NewString()
	logger := log.Logger()

	table, err := hashtable.NewInstrumented[string, int](
		workload.Buckets, hashtable.HashString, hashtable.EqualOf[string](), workload.Name)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(workload.Seed))
	start := time.Now()

	// key space twice the insert count so a share of the finds and erases
	// miss on purpose
	keyOf := func(n int) string { return fmt.Sprintf("key-%08d", n) }
	keySpace := workload.Inserts * 2
	if keySpace == 0 {
		keySpace = 1
	}

	for i := 0; i < workload.Inserts; i++ {
		table.Insert(keyOf(rng.Intn(keySpace)), i)
	}
	for i := 0; i < workload.Erases; i++ {
		table.Erase(keyOf(rng.Intn(keySpace)))
	}

	logger.Info("mutation phase done",
		zap.String("runID", runID),
		zap.String("workload", workload.Name),
		zap.Int("entries", table.Count()),
		zap.Float64("loadFactor", table.LoadFactor()))

	var tableLock locking.RWMutex
	var wg sync.WaitGroup
	hitCounts := make([]int, workload.Readers)
	perReader := workload.Finds / workload.Readers
	for r := 0; r < workload.Readers; r++ {
		seed := workload.Seed + int64(r) + 1
		wg.Add(1)
		go func(reader int, seed int64) {
			defer wg.Done()
			readerRng := rand.New(rand.NewSource(seed))
			for i := 0; i < perReader; i++ {
				key := keyOf(readerRng.Intn(keySpace))
				tableLock.RLock()
				if table.ContainsKey(key) {
					hitCounts[reader]++
				}
				tableLock.RUnlock()
			}
		}(r, seed)
	}
	wg.Wait()

	hits := 0
	for _, h := range hitCounts {
		hits += h
	}

	longest := 0
	for i := 0; i < table.BucketCount(); i++ {
		b, bErr := table.BucketAt(i)
		if bErr != nil {
			return bErr
		}
		if b.Len() > longest {
			longest = b.Len()
		}
	}

	logger.Info("workload finished",
		zap.String("runID", runID),
		zap.String("workload", workload.Name),
		zap.Int("entries", table.Count()),
		zap.Int("buckets", table.BucketCount()),
		zap.Float64("loadFactor", table.LoadFactor()),
		zap.Int("longestChain", longest),
		zap.Int("finds", perReader*workload.Readers),
		zap.Int("hits", hits),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
