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

package cache

// MapCache is an unbounded cache backed by a plain map. It carries no
// locking; callers that share one across goroutines must synchronize
// access themselves.
type MapCache struct {
	entries map[interface{}]interface{}
}

// NewMapCache creates an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[interface{}]interface{})}
}

// Get returns the value associated with key and a bool that is false if the
// key was not found.
func (c *MapCache) Get(key interface{}) (interface{}, bool) {
	value, ok := c.entries[key]
	return value, ok
}

// Put stores value under key, replacing any previous entry.
func (c *MapCache) Put(key interface{}, value interface{}) {
	c.entries[key] = value
}

// Delete removes the entry associated with key, if any.
func (c *MapCache) Delete(key interface{}) {
	delete(c.entries, key)
}

var _ Cache = (*MapCache)(nil)
