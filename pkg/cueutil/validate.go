// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Validate checks an already-decoded Go value against the named definition
// of a CUE schema. Definitions are closed, so unknown keys are reported just
// like type or constraint violations. Errors are formatted with FormatError.
func Validate(schema, definition string, value any, filePath string) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("internal error: schema definition %s not found", definition)
	}

	userValue := ctx.Encode(value)
	if userValue.Err() != nil {
		return FormatError(userValue.Err(), filePath)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return FormatError(err, filePath)
	}

	return nil
}
