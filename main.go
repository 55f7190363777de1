// SPDX-License-Identifier: MPL-2.0

package main

import cmd "graphrun/cmd/graphrun"

func main() {
	cmd.Execute()
}
