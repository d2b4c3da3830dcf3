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

// planOp tags a plan node with the operation the executor performs for it.
// Primitive ops name the raw read issued against the decoder; any widening
// is carried separately in the node's promotion.
type planOp uint8

const (
	opNull planOp = iota
	opBoolean
	opInt
	opLong
	opFloat
	opDouble
	opBytes
	opString
	opFixed
	opEnum
	opArray
	opMap
	opUnion
	opRecord
	opSkip
)

// promotion is the widening applied immediately after a raw read.
type promotion uint8

const (
	promoteNone promotion = iota
	promoteIntToLong
	promoteIntToFloat
	promoteIntToDouble
	promoteLongToFloat
	promoteLongToDouble
	promoteFloatToDouble
	promoteStringToBytes
	promoteBytesToString
)

// planNode is one node of a compiled resolution plan. Nodes are immutable
// once compilation finishes and are shared by reference: the node for a
// given (writer, reader) schema pair is a singleton within its plan, so
// self-referential schemas compile to a cyclic graph instead of expanding
// without bound.
type planNode struct {
	op      planOp
	promote promotion

	// writer is the schema the wire bytes follow; it drives skips. reader
	// is the resolved reader schema values are materialized against.
	writer avro.Schema
	reader avro.Schema

	size     int            // opFixed: byte size
	enumMap  []int          // opEnum: writer ordinal -> reader ordinal, -1 marks a lazy error
	symbols  []string       // opEnum: reader symbols
	elem     *planNode      // opArray items / opMap values
	branches []*planNode    // opUnion: per writer branch, wire order
	steps    []recordStep   // opRecord: writer field order
	defaults []defaultField // opRecord: reader-only fields, applied after the wire steps
}

// recordStep is one wire-order action while decoding a record. field is the
// reader field position the value lands in, or -1 when the writer field has
// no reader counterpart and its bytes are skipped.
type recordStep struct {
	field int
	plan  *planNode
}

// defaultField materializes a reader-only field once the wire-order steps
// have run. The literal is kept as parsed by the schema model; a fresh
// value is built from it per record occurrence.
type defaultField struct {
	field   int
	schema  avro.Schema
	literal interface{}
}

func (p *planNode) recordSchema() *avro.RecordSchema {
	return p.reader.(*avro.RecordSchema)
}
