// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the Markdown remediation pages
// the CLI renders when a build or validation run fails.
package issue
