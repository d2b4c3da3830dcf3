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
	"bytes"
	"fmt"

	"github.com/hamba/avro/v2"
)

// Serializer encodes generic values against a single output schema. No
// resolution is involved: fields are always written in the schema's own
// declaration order, which is the wire order any reader resolves against.
// A Serializer is immutable and safe for concurrent use.
type Serializer struct {
	schema avro.Schema
}

// NewSerializer creates a serializer for the given schema.
func NewSerializer(schema avro.Schema) (*Serializer, error) {
	if schema == nil {
		return nil, fmt.Errorf("fastserde: nil schema")
	}
	return &Serializer{schema: dereference(schema)}, nil
}

// Schema returns the output schema.
func (s *Serializer) Schema() avro.Schema {
	return s.schema
}

// Serialize writes one value to the encoder. The encoder's buffer is not
// flushed; the caller owns the writer's lifecycle.
func (s *Serializer) Serialize(v interface{}, w *avro.Writer) error {
	if err := writeValue(s.schema, v, w); err != nil {
		return err
	}
	return w.Error
}

// Marshal encodes one value into a fresh byte slice.
func (s *Serializer) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w := avro.NewWriter(&buf, 512)
	if err := s.Serialize(v, w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(schema avro.Schema, v interface{}, w *avro.Writer) error {
	schema = dereference(schema)
	switch schema.Type() {
	case avro.Null:
		if v != nil {
			return fmt.Errorf("fastserde: cannot encode %T as null", v)
		}
		return nil
	case avro.Boolean:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as boolean", v)
		}
		w.WriteBool(b)
	case avro.Int:
		switch n := v.(type) {
		case int:
			w.WriteInt(int32(n))
		case int32:
			w.WriteInt(n)
		default:
			return fmt.Errorf("fastserde: cannot encode %T as int", v)
		}
	case avro.Long:
		switch n := v.(type) {
		case int64:
			w.WriteLong(n)
		case int:
			w.WriteLong(int64(n))
		case int32:
			w.WriteLong(int64(n))
		default:
			return fmt.Errorf("fastserde: cannot encode %T as long", v)
		}
	case avro.Float:
		f, ok := v.(float32)
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as float", v)
		}
		w.WriteFloat(f)
	case avro.Double:
		switch f := v.(type) {
		case float64:
			w.WriteDouble(f)
		case float32:
			w.WriteDouble(float64(f))
		default:
			return fmt.Errorf("fastserde: cannot encode %T as double", v)
		}
	case avro.String:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as string", v)
		}
		w.WriteString(s)
	case avro.Bytes:
		b, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as bytes", v)
		}
		w.WriteBytes(b)
	case avro.Fixed:
		size := schema.(*avro.FixedSchema).Size()
		b, ok := v.([]byte)
		if !ok || len(b) != size {
			return fmt.Errorf("fastserde: cannot encode %T (want %d bytes) as fixed %s",
				v, size, schema.(*avro.FixedSchema).FullName())
		}
		_, _ = w.Write(b)
	case avro.Enum:
		return writeEnum(schema.(*avro.EnumSchema), v, w)
	case avro.Array:
		return writeArray(schema.(*avro.ArraySchema), v, w)
	case avro.Map:
		return writeMap(schema.(*avro.MapSchema), v, w)
	case avro.Union:
		return writeUnion(schema.(*avro.UnionSchema), v, w)
	case avro.Record:
		return writeRecord(schema.(*avro.RecordSchema), v, w)
	default:
		return fmt.Errorf("fastserde: unsupported schema %s", schema.Type())
	}
	return w.Error
}

func writeEnum(schema *avro.EnumSchema, v interface{}, w *avro.Writer) error {
	var symbol string
	switch s := v.(type) {
	case EnumSymbol:
		symbol = string(s)
	case string:
		symbol = s
	default:
		return fmt.Errorf("fastserde: cannot encode %T as enum %s", v, schema.FullName())
	}
	for i, s := range schema.Symbols() {
		if s == symbol {
			w.WriteInt(int32(i))
			return w.Error
		}
	}
	return fmt.Errorf("fastserde: enum %s has no symbol %q", schema.FullName(), symbol)
}

// Containers go out as a single length-prefixed block followed by the zero
// terminator; readers must accept any block segmentation, including this
// one.
func writeArray(schema *avro.ArraySchema, v interface{}, w *avro.Writer) error {
	var items []interface{}
	if v != nil {
		var ok bool
		items, ok = v.([]interface{})
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as array", v)
		}
	}
	if len(items) > 0 {
		w.WriteLong(int64(len(items)))
		for _, item := range items {
			if err := writeValue(schema.Items(), item, w); err != nil {
				return err
			}
		}
	}
	w.WriteLong(0)
	return w.Error
}

func writeMap(schema *avro.MapSchema, v interface{}, w *avro.Writer) error {
	var entries map[string]interface{}
	if v != nil {
		var ok bool
		entries, ok = v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("fastserde: cannot encode %T as map", v)
		}
	}
	if len(entries) > 0 {
		w.WriteLong(int64(len(entries)))
		for k, item := range entries {
			w.WriteString(k)
			if err := writeValue(schema.Values(), item, w); err != nil {
				return err
			}
		}
	}
	w.WriteLong(0)
	return w.Error
}

func writeUnion(schema *avro.UnionSchema, v interface{}, w *avro.Writer) error {
	index, branch, err := unionBranchOf(schema, v)
	if err != nil {
		return err
	}
	w.WriteLong(int64(index))
	return writeValue(branch, v, w)
}

func writeRecord(schema *avro.RecordSchema, v interface{}, w *avro.Writer) error {
	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("fastserde: cannot encode %T as record %s", v, schema.FullName())
	}
	fields := schema.Fields()
	if len(rec.values) != len(fields) {
		return fmt.Errorf("fastserde: record has %d fields, schema %s has %d",
			len(rec.values), schema.FullName(), len(fields))
	}
	for i, f := range fields {
		if err := writeValue(f.Type(), rec.values[i], w); err != nil {
			return fmt.Errorf("field %q: %w", f.Name(), err)
		}
	}
	return w.Error
}

// unionBranchOf elects the branch a runtime value encodes as. Branches are
// tried in declaration order and the first accepting one wins.
func unionBranchOf(schema *avro.UnionSchema, v interface{}) (int, avro.Schema, error) {
	for i, b := range schema.Types() {
		if branchAccepts(dereference(b), v) {
			return i, b, nil
		}
	}
	return 0, nil, fmt.Errorf("fastserde: value of type %T matches no union branch", v)
}

func branchAccepts(branch avro.Schema, v interface{}) bool {
	switch branch.Type() {
	case avro.Null:
		return v == nil
	case avro.Boolean:
		_, ok := v.(bool)
		return ok
	case avro.Int:
		switch v.(type) {
		case int, int32:
			return true
		}
	case avro.Long:
		_, ok := v.(int64)
		return ok
	case avro.Float:
		_, ok := v.(float32)
		return ok
	case avro.Double:
		_, ok := v.(float64)
		return ok
	case avro.String:
		_, ok := v.(string)
		return ok
	case avro.Bytes:
		_, ok := v.([]byte)
		return ok
	case avro.Fixed:
		b, ok := v.([]byte)
		return ok && len(b) == branch.(*avro.FixedSchema).Size()
	case avro.Enum:
		symbol, ok := v.(EnumSymbol)
		if !ok {
			return false
		}
		for _, s := range branch.(*avro.EnumSchema).Symbols() {
			if s == string(symbol) {
				return true
			}
		}
	case avro.Array:
		_, ok := v.([]interface{})
		return ok
	case avro.Map:
		_, ok := v.(map[string]interface{})
		return ok
	case avro.Record:
		rec, ok := v.(*Record)
		return ok && rec.schema.FullName() == branch.(*avro.RecordSchema).FullName()
	}
	return false
}
