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

// resolver compiles a (writer, reader) schema pair into a plan. Named type
// pairs are memoized by schema identity: the node is inserted before its
// children resolve, so recursive schemas terminate and later references to
// the same pair share one node.
type resolver struct {
	memo map[schemaPair]*planNode
}

type schemaPair struct {
	writer avro.Schema
	reader avro.Schema
}

func compilePlan(writer, reader avro.Schema) (*planNode, error) {
	r := &resolver{memo: make(map[schemaPair]*planNode)}
	return r.resolve(writer, reader)
}

func (r *resolver) resolve(writer, reader avro.Schema) (*planNode, error) {
	writer = dereference(writer)
	reader = dereference(reader)

	if writer.Type() == avro.Union {
		return r.resolveWriterUnion(writer.(*avro.UnionSchema), reader)
	}
	if reader.Type() == avro.Union {
		return r.resolveReaderUnion(writer, reader.(*avro.UnionSchema))
	}

	switch writer.Type() {
	case avro.Record:
		rec, ok := reader.(*avro.RecordSchema)
		if !ok {
			return nil, newResolutionError(writer, reader, "writer is a record, reader is not")
		}
		return r.resolveRecord(writer.(*avro.RecordSchema), rec)
	case avro.Enum:
		enum, ok := reader.(*avro.EnumSchema)
		if !ok {
			return nil, newResolutionError(writer, reader, "writer is an enum, reader is not")
		}
		return r.resolveEnum(writer.(*avro.EnumSchema), enum)
	case avro.Fixed:
		fixed, ok := reader.(*avro.FixedSchema)
		if !ok {
			return nil, newResolutionError(writer, reader, "writer is a fixed, reader is not")
		}
		return r.resolveFixed(writer.(*avro.FixedSchema), fixed)
	case avro.Array:
		arr, ok := reader.(*avro.ArraySchema)
		if !ok {
			return nil, newResolutionError(writer, reader, "writer is an array, reader is not")
		}
		elem, err := r.resolve(writer.(*avro.ArraySchema).Items(), arr.Items())
		if err != nil {
			return nil, err
		}
		return &planNode{op: opArray, writer: writer, reader: reader, elem: elem}, nil
	case avro.Map:
		m, ok := reader.(*avro.MapSchema)
		if !ok {
			return nil, newResolutionError(writer, reader, "writer is a map, reader is not")
		}
		elem, err := r.resolve(writer.(*avro.MapSchema).Values(), m.Values())
		if err != nil {
			return nil, err
		}
		return &planNode{op: opMap, writer: writer, reader: reader, elem: elem}, nil
	default:
		return resolvePrimitive(writer, reader)
	}
}

// resolveRecord builds the wire-order step list for a record pair. The
// output structure follows the reader; the step order follows the writer,
// since that is the order the bytes arrive in.
func (r *resolver) resolveRecord(writer, reader *avro.RecordSchema) (*planNode, error) {
	key := schemaPair{writer: writer, reader: reader}
	if node, ok := r.memo[key]; ok {
		return node, nil
	}
	node := &planNode{op: opRecord, writer: writer, reader: reader}
	r.memo[key] = node

	writerFields := writer.Fields()
	readerFields := reader.Fields()

	// Reader field position per writer field, -1 for writer-only fields.
	readerFor := make([]int, len(writerFields))
	for i := range readerFor {
		readerFor[i] = -1
	}
	for ri, rf := range readerFields {
		wi := findWriterField(writerFields, rf)
		if wi < 0 {
			if !rf.HasDefault() {
				return nil, newResolutionError(writer, reader,
					"reader field %q is missing from the writer and declares no default", rf.Name())
			}
			node.defaults = append(node.defaults, defaultField{
				field:   ri,
				schema:  rf.Type(),
				literal: rf.Default(),
			})
			continue
		}
		readerFor[wi] = ri
	}

	for wi, wf := range writerFields {
		ri := readerFor[wi]
		if ri < 0 {
			node.steps = append(node.steps, recordStep{field: -1, plan: skipNode(wf.Type())})
			continue
		}
		sub, err := r.resolve(wf.Type(), readerFields[ri].Type())
		if err != nil {
			return nil, err
		}
		node.steps = append(node.steps, recordStep{field: ri, plan: sub})
	}
	return node, nil
}

func (r *resolver) resolveEnum(writer, reader *avro.EnumSchema) (*planNode, error) {
	key := schemaPair{writer: writer, reader: reader}
	if node, ok := r.memo[key]; ok {
		return node, nil
	}
	node := &planNode{
		op:      opEnum,
		writer:  writer,
		reader:  reader,
		enumMap: enumIndexMap(writer, reader),
		symbols: reader.Symbols(),
	}
	r.memo[key] = node
	return node, nil
}

func (r *resolver) resolveFixed(writer, reader *avro.FixedSchema) (*planNode, error) {
	key := schemaPair{writer: writer, reader: reader}
	if node, ok := r.memo[key]; ok {
		return node, nil
	}
	if writer.Size() != reader.Size() {
		return nil, newResolutionError(writer, reader,
			"fixed size mismatch: writer %d, reader %d", writer.Size(), reader.Size())
	}
	node := &planNode{op: opFixed, writer: writer, reader: reader, size: writer.Size()}
	r.memo[key] = node
	return node, nil
}

func resolvePrimitive(writer, reader avro.Schema) (*planNode, error) {
	wt, rt := writer.Type(), reader.Type()
	node := &planNode{op: opForType(wt), writer: writer, reader: reader}
	if wt == rt {
		return node, nil
	}
	p, ok := promotionFor(wt, rt)
	if !ok {
		return nil, newResolutionError(writer, reader, "incompatible primitive kinds")
	}
	node.promote = p
	return node, nil
}

// findWriterField locates the writer field a reader field resolves to.
// Aliases are honored in both directions: the reader field's aliases are
// checked against the writer field name, and the writer field's aliases
// against the reader field name.
func findWriterField(writerFields []*avro.Field, rf *avro.Field) int {
	for wi, wf := range writerFields {
		if wf.Name() == rf.Name() {
			return wi
		}
	}
	for wi, wf := range writerFields {
		for _, alias := range rf.Aliases() {
			if alias == wf.Name() {
				return wi
			}
		}
		for _, alias := range wf.Aliases() {
			if alias == rf.Name() {
				return wi
			}
		}
	}
	return -1
}

func skipNode(schema avro.Schema) *planNode {
	return &planNode{op: opSkip, writer: dereference(schema)}
}

func dereference(schema avro.Schema) avro.Schema {
	if ref, ok := schema.(*avro.RefSchema); ok {
		return ref.Schema()
	}
	return schema
}

func opForType(t avro.Type) planOp {
	switch t {
	case avro.Null:
		return opNull
	case avro.Boolean:
		return opBoolean
	case avro.Int:
		return opInt
	case avro.Long:
		return opLong
	case avro.Float:
		return opFloat
	case avro.Double:
		return opDouble
	case avro.Bytes:
		return opBytes
	case avro.String:
		return opString
	default:
		return opSkip
	}
}

// promotionFor returns the widening applied when a writer kind is read into
// a different reader kind, per the Avro resolution rules.
func promotionFor(wt, rt avro.Type) (promotion, bool) {
	switch wt {
	case avro.Int:
		switch rt {
		case avro.Long:
			return promoteIntToLong, true
		case avro.Float:
			return promoteIntToFloat, true
		case avro.Double:
			return promoteIntToDouble, true
		}
	case avro.Long:
		switch rt {
		case avro.Float:
			return promoteLongToFloat, true
		case avro.Double:
			return promoteLongToDouble, true
		}
	case avro.Float:
		if rt == avro.Double {
			return promoteFloatToDouble, true
		}
	case avro.String:
		if rt == avro.Bytes {
			return promoteStringToBytes, true
		}
	case avro.Bytes:
		if rt == avro.String {
			return promoteBytesToString, true
		}
	}
	return promoteNone, false
}
