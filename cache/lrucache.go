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

import (
	"container/list"
	"fmt"
	"sync"
)

// LRUCache is a least-recently-used cache with a fixed capacity. Compiled
// codecs for retired schema versions age out once the capacity is reached.
// All methods are safe for concurrent use.
type LRUCache struct {
	lock     sync.Mutex
	capacity int
	entries  map[interface{}]*list.Element
	order    *list.List
}

type lruEntry struct {
	key   interface{}
	value interface{}
}

// NewLRUCache creates an LRUCache holding at most capacity entries.
// capacity must be a positive integer.
func NewLRUCache(capacity int) (*LRUCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	return &LRUCache{
		capacity: capacity,
		entries:  make(map[interface{}]*list.Element),
		order:    list.New(),
	}, nil
}

// Get returns the value associated with key and a bool that is false if the
// key was not found. A hit marks the entry most recently used.
func (c *LRUCache) Get(key interface{}) (interface{}, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	element, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*lruEntry).value, true
}

// Put stores value under key, replacing any previous entry and evicting the
// least recently used entry when the cache is full.
func (c *LRUCache) Put(key interface{}, value interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if element, ok := c.entries[key]; ok {
		element.Value.(*lruEntry).value = value
		c.order.MoveToFront(element)
		return
	}
	if c.order.Len() == c.capacity {
		back := c.order.Back()
		if back != nil {
			c.order.Remove(back)
			delete(c.entries, back.Value.(*lruEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, value: value})
}

// Delete removes the entry associated with key, if any.
func (c *LRUCache) Delete(key interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	element, ok := c.entries[key]
	if !ok {
		return
	}
	c.order.Remove(element)
	delete(c.entries, key)
}

// Len returns the number of entries currently cached.
func (c *LRUCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.order.Len()
}

var _ Cache = (*LRUCache)(nil)
