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

// readValue interprets one plan node against the decoder. reuse is a value
// from a prior decode that may be overwritten in place; it is honored only
// when its runtime shape still matches the node's reader schema.
func readValue(p *planNode, reuse interface{}, r *avro.Reader) (interface{}, error) {
	switch p.op {
	case opNull:
		return nil, nil
	case opBoolean:
		return r.ReadBool(), nil
	case opInt:
		i := r.ReadInt()
		switch p.promote {
		case promoteIntToLong:
			return int64(i), nil
		case promoteIntToFloat:
			return float32(i), nil
		case promoteIntToDouble:
			return float64(i), nil
		}
		return int(i), nil
	case opLong:
		l := r.ReadLong()
		switch p.promote {
		case promoteLongToFloat:
			return float32(l), nil
		case promoteLongToDouble:
			return float64(l), nil
		}
		return l, nil
	case opFloat:
		f := r.ReadFloat()
		if p.promote == promoteFloatToDouble {
			return float64(f), nil
		}
		return f, nil
	case opDouble:
		return r.ReadDouble(), nil
	case opString:
		s := r.ReadString()
		if p.promote == promoteStringToBytes {
			return []byte(s), nil
		}
		return s, nil
	case opBytes:
		b := r.ReadBytes()
		if p.promote == promoteBytesToString {
			return string(b), nil
		}
		return b, nil
	case opFixed:
		buf, ok := reuse.([]byte)
		if !ok || len(buf) != p.size {
			buf = make([]byte, p.size)
		}
		r.Read(buf)
		return buf, nil
	case opEnum:
		return readEnum(p, r)
	case opArray:
		return readArray(p, reuse, r)
	case opMap:
		return readMap(p, reuse, r)
	case opUnion:
		return readUnion(p, reuse, r)
	case opRecord:
		return readRecord(p, reuse, r)
	case opSkip:
		if err := skipValue(p.writer, r); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return nil, fmt.Errorf("fastserde: unhandled plan op %d", p.op)
}

func readEnum(p *planNode, r *avro.Reader) (interface{}, error) {
	ordinal := int64(r.ReadInt())
	if r.Error != nil {
		return nil, r.Error
	}
	if ordinal < 0 || ordinal >= int64(len(p.enumMap)) {
		return nil, &IllegalWireDataError{Schema: p.writer, Index: ordinal, What: "enum ordinal"}
	}
	mapped := p.enumMap[ordinal]
	if mapped < 0 {
		writer := p.writer.(*avro.EnumSchema)
		return nil, &UnknownEnumSymbolError{
			Enum:   writer.FullName(),
			Symbol: writer.Symbols()[ordinal],
		}
	}
	return EnumSymbol(p.symbols[mapped]), nil
}

func readArray(p *planNode, reuse interface{}, r *avro.Reader) (interface{}, error) {
	// A reused slice is truncated, not dropped: its old elements are peeked
	// one step ahead of each append, so nested records can be overwritten
	// in place.
	old, _ := reuse.([]interface{})
	items := old[:0]
	i := 0
	for {
		n, _ := r.ReadBlockHeader()
		if r.Error != nil {
			return nil, r.Error
		}
		if n == 0 {
			break
		}
		for ; n > 0; n-- {
			var elemReuse interface{}
			if i < len(old) {
				elemReuse = old[i]
			}
			v, err := readValue(p.elem, elemReuse, r)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
			i++
		}
	}
	if items == nil {
		items = []interface{}{}
	}
	return items, nil
}

func readMap(p *planNode, reuse interface{}, r *avro.Reader) (interface{}, error) {
	m, ok := reuse.(map[string]interface{})
	if ok {
		clear(m)
	} else {
		m = make(map[string]interface{})
	}
	for {
		n, _ := r.ReadBlockHeader()
		if r.Error != nil {
			return nil, r.Error
		}
		if n == 0 {
			break
		}
		for ; n > 0; n-- {
			key := r.ReadString()
			v, err := readValue(p.elem, nil, r)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
	}
	return m, nil
}

func readUnion(p *planNode, reuse interface{}, r *avro.Reader) (interface{}, error) {
	// The decoded index is writer-branch-relative; it selects a branch plan
	// and is never interpreted against the reader's branch order.
	index := r.ReadLong()
	if r.Error != nil {
		return nil, r.Error
	}
	if index < 0 || index >= int64(len(p.branches)) {
		return nil, &IllegalWireDataError{Schema: p.writer, Index: index, What: "union index"}
	}
	return readValue(p.branches[index], reuse, r)
}

func readRecord(p *planNode, reuse interface{}, r *avro.Reader) (interface{}, error) {
	target := p.recordSchema()
	rec, ok := reuse.(*Record)
	if !ok || rec.schema != target {
		rec = NewRecord(target)
	}
	for _, step := range p.steps {
		if step.field < 0 {
			if _, err := readValue(step.plan, nil, r); err != nil {
				return nil, err
			}
			continue
		}
		v, err := readValue(step.plan, rec.values[step.field], r)
		if err != nil {
			return nil, err
		}
		rec.values[step.field] = v
	}
	for _, df := range p.defaults {
		v, err := materializeDefault(df.schema, df.literal)
		if err != nil {
			return nil, err
		}
		rec.values[df.field] = v
	}
	return rec, nil
}

// skipValue consumes exactly one value of the given writer schema from the
// stream without materializing it.
func skipValue(schema avro.Schema, r *avro.Reader) error {
	schema = dereference(schema)
	switch schema.Type() {
	case avro.Null:
		return nil
	case avro.Boolean:
		r.SkipBool()
	case avro.Int:
		r.SkipInt()
	case avro.Long:
		r.SkipLong()
	case avro.Float:
		r.SkipFloat()
	case avro.Double:
		r.SkipDouble()
	case avro.String:
		r.SkipString()
	case avro.Bytes:
		r.SkipBytes()
	case avro.Enum:
		ordinal := int64(r.ReadInt())
		if r.Error != nil {
			return r.Error
		}
		symbols := schema.(*avro.EnumSchema).Symbols()
		if ordinal < 0 || ordinal >= int64(len(symbols)) {
			return &IllegalWireDataError{Schema: schema, Index: ordinal, What: "enum ordinal"}
		}
	case avro.Fixed:
		r.SkipNBytes(schema.(*avro.FixedSchema).Size())
	case avro.Union:
		branches := schema.(*avro.UnionSchema).Types()
		index := r.ReadLong()
		if r.Error != nil {
			return r.Error
		}
		if index < 0 || index >= int64(len(branches)) {
			return &IllegalWireDataError{Schema: schema, Index: index, What: "union index"}
		}
		return skipValue(branches[index], r)
	case avro.Array:
		return skipBlocks(schema.(*avro.ArraySchema).Items(), false, r)
	case avro.Map:
		return skipBlocks(schema.(*avro.MapSchema).Values(), true, r)
	case avro.Record:
		for _, f := range schema.(*avro.RecordSchema).Fields() {
			if err := skipValue(f.Type(), r); err != nil {
				return err
			}
		}
	}
	return r.Error
}

// skipBlocks consumes a chunked container. Blocks written with a byte size
// are jumped over wholesale; otherwise every element is skipped one by one.
func skipBlocks(elem avro.Schema, withKeys bool, r *avro.Reader) error {
	for {
		n, size := r.ReadBlockHeader()
		if r.Error != nil {
			return r.Error
		}
		if n == 0 {
			return nil
		}
		if size > 0 {
			r.SkipNBytes(int(size))
			continue
		}
		for ; n > 0; n-- {
			if withKeys {
				r.SkipString()
			}
			if err := skipValue(elem, r); err != nil {
				return err
			}
		}
	}
}
