// SPDX-License-Identifier: MPL-2.0

// Package recipe renders the Containerfile used to build the validation
// image.
//
// The template sees a typed Values struct. Optional blocks (a remote user
// repository, an interactive entrypoint) are nil pointers when absent, so
// the template guards them with {{ with }} instead of splicing text. Values
// that end up in RUN lines go through the shquote template function.
package recipe
