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

// enumIndexMap builds the writer-ordinal to reader-ordinal translation
// table. A writer symbol absent from the reader maps to the reader's
// declared default symbol; with no default the entry is -1, which only
// fails if that ordinal is actually decoded.
func enumIndexMap(writer, reader *avro.EnumSchema) []int {
	readerIndex := make(map[string]int, len(reader.Symbols()))
	for i, symbol := range reader.Symbols() {
		readerIndex[symbol] = i
	}
	defaultIndex := -1
	if def := reader.Default(); def != "" {
		if i, ok := readerIndex[def]; ok {
			defaultIndex = i
		}
	}
	table := make([]int, len(writer.Symbols()))
	for i, symbol := range writer.Symbols() {
		if j, ok := readerIndex[symbol]; ok {
			table[i] = j
		} else {
			table[i] = defaultIndex
		}
	}
	return table
}
