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

import "errors"

var (
	// ErrInvalidBucketCount returned when a table is created without at least one bucket
	ErrInvalidBucketCount = errors.New("bucket count must be greater than zero")
	// ErrNilPolicy returned when a table is created without a hash or equality policy
	ErrNilPolicy = errors.New("hash and equality policies must not be nil")
	// ErrIndexOutOfRange returned when a bucket index does not exist in the table
	ErrIndexOutOfRange = errors.New("bucket index out of range")
	// ErrKeyNotFound returned when a value is requested for a key that is not in the table
	ErrKeyNotFound = errors.New("key not found in table")
)
