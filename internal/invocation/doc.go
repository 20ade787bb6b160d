// SPDX-License-Identifier: MPL-2.0

// Package invocation assembles container engine command vectors.
//
// A run vector is the concatenation of a fixed, ordered list of rules. Each
// rule inspects the resolved parameters (and the filesystem, through afero)
// and contributes zero or more tokens. The order of the rules is part of the
// contract because engines resolve duplicate flags last-wins.
package invocation
