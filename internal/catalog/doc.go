// SPDX-License-Identifier: MPL-2.0

// Package catalog lists the validation playbooks of a validations checkout
// and filters them by group or host.
package catalog
