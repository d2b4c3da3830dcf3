/**
 * Copyright 2024 the avro-util authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cache provides the key-value stores compiled codecs are kept in.
// Keys are schema fingerprints (or fingerprint pairs); any comparable key
// works.
package cache

// Cache is a key-value store for compiled codecs and other per-schema
// artifacts.
type Cache interface {
	// Get returns the value associated with key and a bool that is false
	// if the key was not found.
	Get(key interface{}) (interface{}, bool)
	// Put stores value under key, replacing any previous entry.
	Put(key interface{}, value interface{})
	// Delete removes the entry associated with key, if any.
	Delete(key interface{})
}
