// SPDX-License-Identifier: MPL-2.0

package main

import "validation-cli/cmd/validation"

func main() {
	cmd.Execute()
}
