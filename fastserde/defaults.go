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
	"fmt"

	"github.com/hamba/avro/v2"
)

// materializeDefault builds a runtime value shaped like the given schema
// from a declared default literal. Every call produces an independent
// instance, so no default is ever shared across record occurrences.
//
// Numeric literals are converted tolerantly: schema models hand defaults
// over either as JSON numbers (float64) or already narrowed to the schema's
// kind, and both forms must materialize identically.
func materializeDefault(schema avro.Schema, literal interface{}) (interface{}, error) {
	schema = dereference(schema)
	switch schema.Type() {
	case avro.Null:
		return nil, nil
	case avro.Boolean:
		if b, ok := literal.(bool); ok {
			return b, nil
		}
	case avro.Int:
		if n, ok := literalInt64(literal); ok {
			return int(n), nil
		}
	case avro.Long:
		if n, ok := literalInt64(literal); ok {
			return n, nil
		}
	case avro.Float:
		if f, ok := literalFloat64(literal); ok {
			return float32(f), nil
		}
	case avro.Double:
		if f, ok := literalFloat64(literal); ok {
			return f, nil
		}
	case avro.String:
		if s, ok := literal.(string); ok {
			return s, nil
		}
	case avro.Bytes:
		if b, ok := literalBytes(literal); ok {
			out := make([]byte, len(b))
			copy(out, b)
			return out, nil
		}
	case avro.Fixed:
		size := schema.(*avro.FixedSchema).Size()
		if b, ok := literalBytes(literal); ok && len(b) == size {
			out := make([]byte, size)
			copy(out, b)
			return out, nil
		}
	case avro.Enum:
		switch s := literal.(type) {
		case string:
			return EnumSymbol(s), nil
		case EnumSymbol:
			return s, nil
		}
	case avro.Array:
		items, ok := literal.([]interface{})
		if !ok {
			break
		}
		elemSchema := schema.(*avro.ArraySchema).Items()
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			v, err := materializeDefault(elemSchema, item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case avro.Map:
		entries, ok := literal.(map[string]interface{})
		if !ok {
			break
		}
		valueSchema := schema.(*avro.MapSchema).Values()
		out := make(map[string]interface{}, len(entries))
		for k, item := range entries {
			v, err := materializeDefault(valueSchema, item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case avro.Record:
		return materializeRecordDefault(schema.(*avro.RecordSchema), literal)
	case avro.Union:
		// A union default is always typed by the first branch.
		return materializeDefault(schema.(*avro.UnionSchema).Types()[0], literal)
	}
	return nil, fmt.Errorf("fastserde: default literal %v (%T) does not fit schema %s", literal, literal, schema.Type())
}

// materializeRecordDefault populates a fresh nested record from a record
// default literal, falling back to each field's own default for keys the
// literal omits.
func materializeRecordDefault(schema *avro.RecordSchema, literal interface{}) (interface{}, error) {
	entries, ok := literal.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("fastserde: default literal %v (%T) does not fit record %s", literal, literal, schema.FullName())
	}
	rec := NewRecord(schema)
	for i, f := range schema.Fields() {
		fieldLiteral, ok := entries[f.Name()]
		if !ok {
			if !f.HasDefault() {
				return nil, fmt.Errorf("fastserde: record default for %s omits field %q which has no default",
					schema.FullName(), f.Name())
			}
			fieldLiteral = f.Default()
		}
		v, err := materializeDefault(f.Type(), fieldLiteral)
		if err != nil {
			return nil, err
		}
		rec.Set(i, v)
	}
	return rec, nil
}

func literalInt64(literal interface{}) (int64, bool) {
	switch n := literal.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func literalFloat64(literal interface{}) (float64, bool) {
	switch n := literal.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func literalBytes(literal interface{}) ([]byte, bool) {
	switch b := literal.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}
