// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplate is the sentinel matched by every TemplateError.
	ErrTemplate = errors.New("recipe template error")
	// ErrInvalidValue is returned when a value cannot be placed in the recipe
	// safely (multi-line, empty when required, or not a valid user name).
	ErrInvalidValue = errors.New("invalid recipe value")
)

// TemplateError reports a recipe that could not be rendered. Placeholder
// names the template field involved when it is known.
type TemplateError struct {
	Placeholder string
	Err         error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Placeholder == "" {
		return fmt.Sprintf("render recipe: %v", e.Err)
	}
	return fmt.Sprintf("render recipe: placeholder %s: %v", e.Placeholder, e.Err)
}

// Unwrap exposes both ErrTemplate and the cause.
func (e *TemplateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTemplate}
	}
	return []error{ErrTemplate, e.Err}
}
