// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"errors"
	"fmt"

	"validation-cli/internal/config"

	"github.com/spf13/afero"
)

// ErrNoAction is returned when Build is asked for an action that does not
// run a container.
var ErrNoAction = errors.New("action does not run a container")

// Builder assembles run vectors. Mount preparation (log file, auxiliary
// directories) happens on its filesystem.
type Builder struct {
	fs    afero.Fs
	rules []Rule
}

// NewBuilder returns a builder probing and preparing paths on fs.
func NewBuilder(fs afero.Fs) *Builder {
	return &Builder{fs: fs, rules: defaultRules}
}

// Build returns the run vector for action. action must be run, list or
// inventory-ping.
func (b *Builder) Build(action config.Action, p config.Params) (Vector, error) {
	switch action {
	case config.ActionRun, config.ActionList, config.ActionInventoryPing:
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoAction, action)
	}

	s := &state{fs: b.fs, action: action, params: p}
	var v Vector
	for _, rule := range b.rules {
		tokens, err := rule(s)
		if err != nil {
			return nil, err
		}
		v = append(v, tokens...)
	}
	return v, nil
}
