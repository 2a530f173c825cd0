// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pysetup/pysetup/cmd/pysetup"

func main() {
	cmd.Execute()
}
