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
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/linkedin/goavro/v2"
)

// Cross-implementation checks: bytes produced here must decode identically
// under an independent Avro codec, and vice versa.

const interopSchema = `{
  "type": "record",
  "name": "Person",
  "fields": [
    {"name": "id", "type": "long"},
    {"name": "name", "type": "string"},
    {"name": "email", "type": ["null", "string"]},
    {"name": "scores", "type": {"type": "array", "items": "double"}},
    {"name": "status", "type": {"type": "enum", "name": "Status", "symbols": ["ACTIVE", "INACTIVE"]}}
  ]
}`

func TestInteropEncodeForGoavro(t *testing.T) {
	MaybeFail = InitFailFunc(t)

	schema := avro.MustParse(interopSchema)
	ser, err := NewSerializer(schema)
	MaybeFail("serializer", err)

	rec := newTestRecord(schema,
		int64(1),
		"Ada",
		"ada@example.com",
		[]interface{}{1.5, 2.5},
		EnumSymbol("ACTIVE"))
	data, err := ser.Marshal(rec)
	MaybeFail("marshal", err)

	codec, err := goavro.NewCodec(interopSchema)
	MaybeFail("codec", err)
	native, rest, err := codec.NativeFromBinary(data)
	MaybeFail("goavro decode", err, Expect(len(rest), 0))

	MaybeFail("native", Expect(native, map[string]interface{}{
		"id":     int64(1),
		"name":   "Ada",
		"email":  map[string]interface{}{"string": "ada@example.com"},
		"scores": []interface{}{1.5, 2.5},
		"status": "ACTIVE",
	}))
}

func TestInteropDecodeFromGoavro(t *testing.T) {
	MaybeFail = InitFailFunc(t)

	codec, err := goavro.NewCodec(interopSchema)
	MaybeFail("codec", err)
	data, err := codec.BinaryFromNative(nil, map[string]interface{}{
		"id":     int64(9),
		"name":   "Grace",
		"email":  map[string]interface{}{"string": "grace@example.com"},
		"scores": []interface{}{3.5},
		"status": "INACTIVE",
	})
	MaybeFail("goavro encode", err)

	schema := avro.MustParse(interopSchema)
	deser, err := NewDeserializer(schema, schema)
	MaybeFail("deserializer", err)
	out, err := deser.Unmarshal(data, nil)
	MaybeFail("unmarshal", err)

	rec := out.(*Record)
	MaybeFail("fields",
		Expect(rec.Get(0), int64(9)),
		Expect(rec.Get(1), "Grace"),
		Expect(rec.Get(2), "grace@example.com"),
		Expect(rec.Get(3), []interface{}{3.5}),
		Expect(rec.Get(4), EnumSymbol("INACTIVE")))
}

func TestInteropEvolutionFromGoavro(t *testing.T) {
	MaybeFail = InitFailFunc(t)

	// Data written by goavro with the full schema, read here with a reader
	// that dropped email and added a defaulted field.
	codec, err := goavro.NewCodec(interopSchema)
	MaybeFail("codec", err)
	data, err := codec.BinaryFromNative(nil, map[string]interface{}{
		"id":     int64(3),
		"name":   "Edsger",
		"email":  nil,
		"scores": []interface{}{},
		"status": "ACTIVE",
	})
	MaybeFail("goavro encode", err)

	writer := avro.MustParse(interopSchema)
	reader := avro.MustParse(`{
	  "type": "record",
	  "name": "Person",
	  "fields": [
	    {"name": "id", "type": "long"},
	    {"name": "name", "type": "string"},
	    {"name": "scores", "type": {"type": "array", "items": "double"}},
	    {"name": "status", "type": {"type": "enum", "name": "Status", "symbols": ["ACTIVE", "INACTIVE"]}},
	    {"name": "country", "type": "string", "default": "NL"}
	  ]
	}`)

	deser, err := NewDeserializer(writer, reader)
	MaybeFail("deserializer", err)
	out, err := deser.Unmarshal(data, nil)
	MaybeFail("unmarshal", err)

	rec := out.(*Record)
	MaybeFail("fields",
		Expect(rec.Get(0), int64(3)),
		Expect(rec.Get(1), "Edsger"),
		Expect(rec.Get(2), []interface{}{}),
		Expect(rec.Get(3), EnumSymbol("ACTIVE")),
		Expect(rec.Get(4), "NL"))
}
