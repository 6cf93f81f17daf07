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

// Package locking provides the mutual exclusion primitives callers use to
// serialize access to shared containers: the collections in this project are
// deliberately not thread-safe. The wrappers are plain sync mutexes unless
// deadlock detection is switched on through the environment.
package locking

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	godeadlock "github.com/sasha-s/go-deadlock"

	"github.com/rexlang/rexlang-core/pkg/log"
)

const (
	EnvDeadlockDetectionEnabled = "DEADLOCK_DETECTION_ENABLED"
	EnvDeadlockTimeoutSeconds   = "DEADLOCK_TIMEOUT_SECONDS"
	EnvExitOnDeadlock           = "DEADLOCK_EXIT"
)

var (
	once             sync.Once
	trackingEnabled  atomic.Bool
	timeoutSeconds   atomic.Int32
	deadlockDetected atomic.Bool
	exitOnDeadlock   atomic.Bool
	testingMode      atomic.Bool
)

// reportBuf collects the report godeadlock writes when it trips, so it can
// be forwarded to the logger instead of landing on stderr unstructured.
type reportBuf struct {
	data string
	sync.Mutex
}

func (b *reportBuf) Write(p []byte) (n int, err error) {
	if b == nil {
		return len(p), nil
	}
	b.Lock()
	defer b.Unlock()
	b.data += string(p)
	return len(p), nil
}

func init() {
	once.Do(reInit)
}

func reInit() {
	enabled, err := strconv.ParseBool(os.Getenv(EnvDeadlockDetectionEnabled))
	if err != nil {
		enabled = false
	}
	trackingEnabled.Store(enabled)

	timeoutSec, err := strconv.ParseInt(os.Getenv(EnvDeadlockTimeoutSeconds), 10, 32)
	if err != nil || timeoutSec <= 0 {
		timeoutSec = 60
	}
	timeoutSeconds.Store(int32(timeoutSec))

	exitOnDetect, err := strconv.ParseBool(os.Getenv(EnvExitOnDeadlock))
	if err != nil {
		exitOnDetect = false
	}
	exitOnDeadlock.Store(exitOnDetect)

	godeadlock.Opts.Disable = !enabled
	godeadlock.Opts.DeadlockTimeout = time.Duration(timeoutSec) * time.Second
	godeadlock.Opts.LogBuf = &reportBuf{}
	godeadlock.Opts.OnPotentialDeadlock = onPotentialDeadlock

	if enabled {
		// write this before any other subsystem comes up, including
		// logging which may itself take locks
		_, _ = fmt.Fprintf(os.Stderr, "=== Deadlock detection enabled (timeout: %d seconds, exit on deadlock: %t) ===\n", timeoutSec, exitOnDetect)
	}
}

func onPotentialDeadlock() {
	deadlockDetected.Store(true)
	logReport()
	if exitOnDeadlock.Load() && !testingMode.Load() {
		os.Exit(1)
	}
}

func logReport() {
	buf, ok := godeadlock.Opts.LogBuf.(*reportBuf)
	if !ok {
		log.Logger().Error("POTENTIAL DEADLOCK: no details available")
		return
	}
	buf.Lock()
	defer buf.Unlock()
	log.Logger().Error(buf.data)
	buf.data = ""
}

// IsTrackingEnabled reports whether deadlock detection is active.
func IsTrackingEnabled() bool {
	return trackingEnabled.Load()
}

// GetDeadlockTimeoutSeconds returns the configured detection timeout.
func GetDeadlockTimeoutSeconds() int {
	return int(timeoutSeconds.Load())
}

// IsDeadlockDetected reports whether a potential deadlock was seen since the
// process started.
func IsDeadlockDetected() bool {
	return deadlockDetected.Load()
}

// Mutex is a drop-in sync.Mutex with optional deadlock detection.
type Mutex struct {
	godeadlock.Mutex
}

// RWMutex is a drop-in sync.RWMutex with optional deadlock detection.
type RWMutex struct {
	godeadlock.RWMutex
}
