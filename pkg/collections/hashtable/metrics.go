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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "rexlang"
	metricsSubsystem = "hashtable"

	outcomeInserted  = "Inserted"
	outcomeDuplicate = "Duplicate"
	outcomeFound     = "Found"
	outcomeNotFound  = "NotFound"
	outcomeRemoved   = "Removed"
	outcomeMissing   = "Missing"
)

var (
	registerMetricsOnce sync.Once

	insertScanLength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "insert_scan_length",
			Help:      "Number of entries scanned in the target bucket by Insert(), long scans indicate overloaded buckets",
			Buckets:   prometheus.ExponentialBuckets(1.0, 2.0, 8),
		},
		[]string{"name", "outcome"},
	)
	findScanLength = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "find_scan_length",
			Help:      "Number of entries scanned in the target bucket by Find()",
			Buckets:   prometheus.ExponentialBuckets(1.0, 2.0, 8),
		},
		[]string{"name", "outcome"},
	)
	eraseOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "erase_total",
			Help:      "Number of Erase() calls by outcome",
		},
		[]string{"name", "outcome"},
	)
	liveEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "entries",
			Help:      "Number of live entries in the table",
		},
		[]string{"name"},
	)
	tableLoadFactor = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "load_factor",
			Help:      "Ratio of live entries to buckets",
		},
		[]string{"name"},
	)
)

// tableMetrics holds the pre-resolved collectors for one named table.
// A nil receiver disables all observation, uninstrumented tables pay only a
// nil check per operation.
type tableMetrics struct {
	insertInserted  prometheus.Observer
	insertDuplicate prometheus.Observer
	findFound       prometheus.Observer
	findNotFound    prometheus.Observer
	eraseRemoved    prometheus.Counter
	eraseMissing    prometheus.Counter
	entries         prometheus.Gauge
	load            prometheus.Gauge
}

func metricsFor(name string) *tableMetrics {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(insertScanLength)
		prometheus.MustRegister(findScanLength)
		prometheus.MustRegister(eraseOutcomes)
		prometheus.MustRegister(liveEntries)
		prometheus.MustRegister(tableLoadFactor)
	})

	return &tableMetrics{
		insertInserted:  insertScanLength.WithLabelValues(name, outcomeInserted),
		insertDuplicate: insertScanLength.WithLabelValues(name, outcomeDuplicate),
		findFound:       findScanLength.WithLabelValues(name, outcomeFound),
		findNotFound:    findScanLength.WithLabelValues(name, outcomeNotFound),
		eraseRemoved:    eraseOutcomes.WithLabelValues(name, outcomeRemoved),
		eraseMissing:    eraseOutcomes.WithLabelValues(name, outcomeMissing),
		entries:         liveEntries.WithLabelValues(name),
		load:            tableLoadFactor.WithLabelValues(name),
	}
}

func (m *tableMetrics) observeInsert(scanned int, duplicate bool) {
	if m == nil {
		return
	}
	if duplicate {
		m.insertDuplicate.Observe(float64(scanned))
		return
	}
	m.insertInserted.Observe(float64(scanned))
}

func (m *tableMetrics) observeFind(scanned int, found bool) {
	if m == nil {
		return
	}
	if found {
		m.findFound.Observe(float64(scanned))
		return
	}
	m.findNotFound.Observe(float64(scanned))
}

func (m *tableMetrics) observeErase(removed bool) {
	if m == nil {
		return
	}
	if removed {
		m.eraseRemoved.Inc()
		return
	}
	m.eraseMissing.Inc()
}

func (m *tableMetrics) setOccupancy(count int, loadFactor float64) {
	if m == nil {
		return
	}
	m.entries.Set(float64(count))
	m.load.Set(loadFactor)
}
