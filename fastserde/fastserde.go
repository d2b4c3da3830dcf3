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

// Package fastserde implements fast generic Avro serialization and
// deserialization with full writer/reader schema resolution.
//
// A Deserializer compiles the (writer, reader) schema pair once into a
// resolution plan — for every writer field, union branch and enum symbol it
// decides up front whether to read, skip, promote, default or fail — and
// then interprets that plan against the binary decoder per call, with no
// per-record schema walking. Compiled plans are immutable and safe to share
// across concurrent calls; SerdeCache keeps them keyed by schema
// fingerprints so each pair compiles once.
package fastserde

import (
	"bytes"
	"sync"

	"github.com/hamba/avro/v2"

	"github.com/kloong87li/avro-util/cache"
)

// Deserializer decodes values written with one schema into the shape of
// another, applying the Avro schema-resolution rules. It is immutable and
// safe for concurrent use.
type Deserializer struct {
	plan   *planNode
	writer avro.Schema
	reader avro.Schema
}

// NewDeserializer compiles a resolution plan for the given schema pair.
// Incompatible schemas fail here with a SchemaResolutionError, never at
// decode time.
func NewDeserializer(writer, reader avro.Schema) (*Deserializer, error) {
	plan, err := compilePlan(writer, reader)
	if err != nil {
		return nil, err
	}
	return &Deserializer{plan: plan, writer: writer, reader: reader}, nil
}

// WriterSchema returns the schema the wire data follows.
func (d *Deserializer) WriterSchema() avro.Schema {
	return d.writer
}

// ReaderSchema returns the schema decoded values are shaped as.
func (d *Deserializer) ReaderSchema() avro.Schema {
	return d.reader
}

// Deserialize decodes one value from the decoder.
//
// reuse may be a value produced by a prior call; it is overwritten in place
// when its runtime schema is identical to the reader schema, avoiding a
// fresh top-level allocation, and the same rule applies recursively to
// nested records and containers. Pass nil to always allocate. On error no
// partial value is returned.
func (d *Deserializer) Deserialize(reuse interface{}, r *avro.Reader) (interface{}, error) {
	v, err := readValue(d.plan, reuse, r)
	if err != nil {
		return nil, err
	}
	if r.Error != nil {
		return nil, r.Error
	}
	return v, nil
}

// Unmarshal decodes one value from a byte slice, with the same reuse
// contract as Deserialize.
func (d *Deserializer) Unmarshal(data []byte, reuse interface{}) (interface{}, error) {
	return d.Deserialize(reuse, avro.NewReader(bytes.NewReader(data), 512))
}

// SerdeCache hands out compiled serializers and deserializers, caching them
// by schema fingerprint so each distinct pair is compiled once. Concurrent
// misses for the same pair may compile redundantly; every result is
// equivalent and the loser is simply discarded.
type SerdeCache struct {
	deserializers     cache.Cache
	deserializersLock sync.RWMutex
	serializers       cache.Cache
	serializersLock   sync.RWMutex
}

type fingerprintPair struct {
	writer [32]byte
	reader [32]byte
}

// NewSerdeCache creates a SerdeCache backed by LRU caches of the given
// capacity.
func NewSerdeCache(capacity int) (*SerdeCache, error) {
	deserializers, err := cache.NewLRUCache(capacity)
	if err != nil {
		return nil, err
	}
	serializers, err := cache.NewLRUCache(capacity)
	if err != nil {
		return nil, err
	}
	return &SerdeCache{
		deserializers: deserializers,
		serializers:   serializers,
	}, nil
}

// Deserializer returns the compiled deserializer for the schema pair,
// compiling and caching it on first use.
func (c *SerdeCache) Deserializer(writer, reader avro.Schema) (*Deserializer, error) {
	key := fingerprintPair{writer: writer.Fingerprint(), reader: reader.Fingerprint()}
	c.deserializersLock.RLock()
	value, ok := c.deserializers.Get(key)
	c.deserializersLock.RUnlock()
	if ok {
		return value.(*Deserializer), nil
	}
	d, err := NewDeserializer(writer, reader)
	if err != nil {
		return nil, err
	}
	c.deserializersLock.Lock()
	c.deserializers.Put(key, d)
	c.deserializersLock.Unlock()
	return d, nil
}

// Serializer returns the serializer for the schema, caching it by
// fingerprint on first use.
func (c *SerdeCache) Serializer(schema avro.Schema) (*Serializer, error) {
	key := schema.Fingerprint()
	c.serializersLock.RLock()
	value, ok := c.serializers.Get(key)
	c.serializersLock.RUnlock()
	if ok {
		return value.(*Serializer), nil
	}
	s, err := NewSerializer(schema)
	if err != nil {
		return nil, err
	}
	c.serializersLock.Lock()
	c.serializers.Put(key, s)
	c.serializersLock.Unlock()
	return s, nil
}
