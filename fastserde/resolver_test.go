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
	"errors"
	"testing"

	"github.com/hamba/avro/v2"
)

func TestResolutionMissingFieldNoDefault(t *testing.T) {
	writer := avro.MustParse(`{"type":"record","name":"Test","fields":[
		{"name":"a","type":"string"}]}`)
	reader := avro.MustParse(`{"type":"record","name":"Test","fields":[
		{"name":"a","type":"string"},
		{"name":"b","type":"long"}]}`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionIncompatiblePrimitives(t *testing.T) {
	writer := avro.MustParse(`"string"`)
	reader := avro.MustParse(`"long"`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionNoNarrowing(t *testing.T) {
	// Promotions only widen; a long writer never resolves into an int reader.
	writer := avro.MustParse(`"long"`)
	reader := avro.MustParse(`"int"`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionTopLevelKindMismatch(t *testing.T) {
	writer := avro.MustParse(`{"type":"record","name":"Test","fields":[
		{"name":"a","type":"string"}]}`)
	reader := avro.MustParse(`{"type":"array","items":"string"}`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionFixedSizeMismatch(t *testing.T) {
	writer := avro.MustParse(`{"type":"fixed","name":"Digest","size":16}`)
	reader := avro.MustParse(`{"type":"fixed","name":"Digest","size":32}`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionUnionNoViableBranch(t *testing.T) {
	writer := avro.MustParse(`["string"]`)
	reader := avro.MustParse(`["long"]`)

	_, err := NewDeserializer(writer, reader)
	var resErr *SchemaResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected SchemaResolutionError, got %v", err)
	}
}

func TestResolutionFieldAliases(t *testing.T) {
	MaybeFail = InitFailFunc(t)

	writer := avro.MustParse(`{"type":"record","name":"Test","fields":[
		{"name":"name","type":"string"}]}`)
	reader := avro.MustParse(`{"type":"record","name":"Test","fields":[
		{"name":"fullName","aliases":["name"],"type":"string"}]}`)

	ser, err := NewSerializer(writer)
	MaybeFail("serializer", err)
	deser, err := NewDeserializer(writer, reader)
	MaybeFail("deserializer", err)

	data, err := ser.Marshal(newTestRecord(writer, "ada"))
	MaybeFail("marshal", err)
	out, err := deser.Unmarshal(data, nil)
	MaybeFail("unmarshal", err, Expect(out.(*Record).Get(0), "ada"))
}

func TestRecursivePlanIsSharedByReference(t *testing.T) {
	schema := avro.MustParse(`{"type":"record","name":"LongList","fields":[
		{"name":"value","type":"long"},
		{"name":"next","type":["null","LongList"],"default":null}]}`)

	plan, err := compilePlan(schema, schema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// The self-referential branch must be the root node itself, not a copy.
	next := plan.steps[1].plan
	if next.op != opUnion {
		t.Fatalf("expected union plan for next, got op %d", next.op)
	}
	if next.branches[1] != plan {
		t.Fatal("recursive record pair did not resolve to a shared plan node")
	}
}

// newTestRecord builds a record whose leading fields are set to the given
// values in order.
func newTestRecord(schema avro.Schema, values ...interface{}) *Record {
	rec := NewRecord(schema.(*avro.RecordSchema))
	for i, v := range values {
		rec.Set(i, v)
	}
	return rec
}
