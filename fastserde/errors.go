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

// SchemaResolutionError is returned when a writer and reader schema pair
// cannot be resolved into a plan. It is fatal to codec construction and is
// never produced while decoding.
type SchemaResolutionError struct {
	Writer avro.Schema
	Reader avro.Schema
	Reason string
}

func (e *SchemaResolutionError) Error() string {
	return fmt.Sprintf("fastserde: cannot resolve writer schema %s against reader schema %s: %s",
		e.Writer.Type(), e.Reader.Type(), e.Reason)
}

// IllegalWireDataError is returned when a decoded union index or enum
// ordinal falls outside the valid range for its schema. The stream is
// unrecoverable past this point and the whole call is aborted.
type IllegalWireDataError struct {
	Schema avro.Schema
	Index  int64
	What   string
}

func (e *IllegalWireDataError) Error() string {
	return fmt.Sprintf("fastserde: illegal %s %d for schema %s", e.What, e.Index, e.Schema.Type())
}

// UnknownEnumSymbolError is returned when a decoded writer ordinal has no
// mapping in the reader enum and the reader declares no default symbol. It
// is raised only when the offending ordinal is actually present on the wire.
type UnknownEnumSymbolError struct {
	Enum   string
	Symbol string
}

func (e *UnknownEnumSymbolError) Error() string {
	return fmt.Sprintf("fastserde: enum %s has no mapping for writer symbol %q and no default", e.Enum, e.Symbol)
}

func newResolutionError(writer, reader avro.Schema, format string, args ...interface{}) error {
	return &SchemaResolutionError{
		Writer: writer,
		Reader: reader,
		Reason: fmt.Sprintf(format, args...),
	}
}
