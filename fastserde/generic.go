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

package fastserde

import (
	"github.com/hamba/avro/v2"
)

// Record is a generic Avro record whose fields are addressed by their
// position in the record schema rather than by name. Field positions are
// reader-schema-relative; a deserializer populates them regardless of the
// writer's declaration order.
//
// Decoded values use the following Go types per Avro kind: nil for null,
// bool, int, int64, float32, float64, []byte, string, EnumSymbol, []byte
// for fixed, []interface{} for arrays, map[string]interface{} for maps and
// *Record for nested records. Union values carry the branch value directly.
type Record struct {
	schema *avro.RecordSchema
	values []interface{}
}

// NewRecord creates an empty record for the given schema. All fields are
// initially nil.
func NewRecord(schema *avro.RecordSchema) *Record {
	return &Record{
		schema: schema,
		values: make([]interface{}, len(schema.Fields())),
	}
}

// Schema returns the record schema this instance was created for.
func (r *Record) Schema() *avro.RecordSchema {
	return r.schema
}

// Get returns the value of the field at position i.
func (r *Record) Get(i int) interface{} {
	return r.values[i]
}

// Set sets the value of the field at position i.
func (r *Record) Set(i int, v interface{}) {
	r.values[i] = v
}

// FieldIndex returns the position of the named field, or -1 if the schema
// has no such field.
func (r *Record) FieldIndex(name string) int {
	for i, f := range r.schema.Fields() {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

// EnumSymbol is a decoded Avro enum value. Decoders always produce symbols
// from the reader enum's symbol list.
type EnumSymbol string
