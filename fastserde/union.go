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

// resolveWriterUnion builds one branch plan per writer branch, in wire
// order. A writer branch with no matching reader branch becomes a skip
// step: its data is discarded when that branch index arrives, keeping the
// stream in sync for forward-compatible evolution. When no writer branch
// matches at all the pair is unresolvable.
//
// A non-union reader is treated as the single candidate branch, which also
// covers the unwrap case of a writer union with one matching branch.
func (r *resolver) resolveWriterUnion(writer *avro.UnionSchema, reader avro.Schema) (*planNode, error) {
	writerBranches := writer.Types()
	node := &planNode{
		op:       opUnion,
		writer:   writer,
		reader:   reader,
		branches: make([]*planNode, len(writerBranches)),
	}
	matched := 0
	for i, wb := range writerBranches {
		target := readerBranchFor(wb, reader)
		if target == nil {
			node.branches[i] = skipNode(wb)
			continue
		}
		sub, err := r.resolve(wb, target)
		if err != nil {
			return nil, err
		}
		node.branches[i] = sub
		matched++
	}
	if matched == 0 {
		return nil, newResolutionError(writer, reader, "no writer union branch matches any reader branch")
	}
	return node, nil
}

// resolveReaderUnion handles a non-union writer against a union reader: the
// first reader branch the writer resolves into is selected, and no branch
// index exists on the wire.
func (r *resolver) resolveReaderUnion(writer avro.Schema, reader *avro.UnionSchema) (*planNode, error) {
	for _, rb := range reader.Types() {
		if branchMatch(writer, rb) {
			return r.resolve(writer, rb)
		}
	}
	return nil, newResolutionError(writer, reader, "writer schema matches no reader union branch")
}

// readerBranchFor picks the reader branch a writer branch resolves into.
// The first reader-declared structural match wins.
func readerBranchFor(wb avro.Schema, reader avro.Schema) avro.Schema {
	if ru, ok := dereference(reader).(*avro.UnionSchema); ok {
		for _, rb := range ru.Types() {
			if branchMatch(wb, rb) {
				return rb
			}
		}
		return nil
	}
	if branchMatch(wb, reader) {
		return reader
	}
	return nil
}

// branchMatch reports whether a writer branch can resolve into a reader
// branch: named types by full name or alias, everything else by kind with
// the numeric promotions applied.
func branchMatch(wb, rb avro.Schema) bool {
	wb = dereference(wb)
	rb = dereference(rb)
	wt, rt := wb.Type(), rb.Type()
	switch wt {
	case avro.Record, avro.Enum, avro.Fixed:
		if wt != rt {
			return false
		}
		return namesMatch(wb.(avro.NamedSchema), rb.(avro.NamedSchema))
	}
	if wt == rt {
		return true
	}
	_, ok := promotionFor(wt, rt)
	return ok
}

func namesMatch(wn, rn avro.NamedSchema) bool {
	if wn.FullName() == rn.FullName() {
		return true
	}
	for _, alias := range rn.Aliases() {
		if alias == wn.FullName() {
			return true
		}
	}
	for _, alias := range wn.Aliases() {
		if alias == rn.FullName() {
			return true
		}
	}
	return false
}
