// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"regexp"
	"slices"
	"strings"

	"validation-cli/internal/config"
	"validation-cli/internal/recipe"

	"mvdan.cc/sh/v3/syntax"
)

// plainToken matches tokens a shell reads as one word without quoting.
var plainToken = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Vector is one engine invocation. The first token is the engine name.
type Vector []string

// Engine returns the engine name.
func (v Vector) Engine() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// String renders v as a bash command line that can be pasted into a shell.
func (v Vector) String() string {
	quoted := make([]string, 0, len(v))
	for _, tok := range v {
		if plainToken.MatchString(tok) {
			quoted = append(quoted, tok)
			continue
		}
		q, err := syntax.Quote(tok, syntax.LangBash)
		if err != nil {
			q = tok
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}

// Contains reports whether tok is one of the tokens of v.
func (v Vector) Contains(tok string) bool {
	return slices.Contains(v, tok)
}

// BuildImage returns the image build vector for p. The build context is the
// working directory, where the recipe was written.
func BuildImage(p config.Params) Vector {
	return Vector{
		string(p.Engine),
		"build",
		"-t", p.ImageTag,
		"-f", recipe.FileName,
		".",
	}
}
