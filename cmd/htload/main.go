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

// htload runs a YAML-described workload against an instrumented hashtable
// and logs a summary. It doubles as a smoke test for the container's public
// surface and as a way to eyeball bucket distribution for a hash policy.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rexlang/rexlang-core/pkg/log"
)

var workloadPath = flag.String("workload", "", "path to the YAML workload definition")

func main() {
	flag.Parse()
	if *workloadPath == "" {
		_, _ = fmt.Fprintln(os.Stderr, "usage: htload -workload <file>")
		os.Exit(2)
	}

	workload, err := LoadWorkload(*workloadPath)
	if err != nil {
		log.Logger().Error("failed to load workload",
			zap.String("path", *workloadPath),
			zap.Error(err))
		os.Exit(1)
	}

	if err = Run(workload); err != nil {
		log.Logger().Error("workload run failed",
			zap.String("workload", workload.Name),
			zap.Error(err))
		os.Exit(1)
	}
}
